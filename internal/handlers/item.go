package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/mkravets/web_store/internal/logging"
	"github.com/mkravets/web_store/internal/models"
	"github.com/mkravets/web_store/internal/mykafka"
	"github.com/mkravets/web_store/internal/repo"
	"github.com/mkravets/web_store/internal/service/search"
)

type ItemHandler struct {
	Items    *repo.ItemRepo
	Producer mykafka.Publisher
	ES       *elasticsearch.Client
	Index    string
}

func (h *ItemHandler) publish(c echo.Context, key string, event map[string]any) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Producer.PublishEvent(ctx, "item_events", key, event); err != nil {
		logging.FromContext(ctx).Error("kafka publish failed", "topic", "item_events", "error", err)
	}
}

func (h *ItemHandler) List(c echo.Context) error {
	items, err := h.Items.FindAll(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, items)
}

func (h *ItemHandler) ByID(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	item, err := h.Items.FindByID(c.Request().Context(), uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "item not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, item)
}

func (h *ItemHandler) ByName(c echo.Context) error {
	items, err := h.Items.FindByName(c.Request().Context(), c.Param("name"))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if len(items) == 0 {
		return echo.NewHTTPError(http.StatusNotFound, "no items with that name")
	}
	return c.JSON(http.StatusOK, items)
}

func (h *ItemHandler) Create(c echo.Context) error {
	var req struct {
		Name        string          `json:"name"`
		Description string          `json:"description"`
		Price       decimal.Decimal `json:"price"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.Name == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "name is required")
	}
	if req.Price.IsNegative() {
		return echo.NewHTTPError(http.StatusBadRequest, "price must not be negative")
	}

	item := models.Item{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
	}
	if err := h.Items.Save(c.Request().Context(), &item); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if h.ES != nil {
		if err := search.IndexItem(c.Request().Context(), h.ES, h.Index, item); err != nil {
			logging.FromContext(c.Request().Context()).Error("search index failed", "itemID", item.ID, "error", err)
		}
	}

	h.publish(c, item.Name, map[string]any{
		"type":   "item_created",
		"itemID": item.ID,
		"name":   item.Name,
	})

	return c.JSON(http.StatusCreated, item)
}
