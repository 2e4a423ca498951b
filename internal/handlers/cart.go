package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/mkravets/web_store/internal/logging"
	"github.com/mkravets/web_store/internal/middleware/auth"
	"github.com/mkravets/web_store/internal/models"
	"github.com/mkravets/web_store/internal/mykafka"
	"github.com/mkravets/web_store/internal/repo"
)

type CartHandler struct {
	Users    *repo.UserRepo
	Items    *repo.ItemRepo
	Carts    *repo.CartRepo
	Producer mykafka.Publisher
}

type modifyCartRequest struct {
	ItemID   uint `json:"item_id"`
	Quantity int  `json:"quantity"`
}

func (h *CartHandler) publish(c echo.Context, key string, event map[string]any) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Producer.PublishEvent(ctx, "cart_events", key, event); err != nil {
		logging.FromContext(ctx).Error("kafka publish failed", "topic", "cart_events", "error", err)
	}
}

// cartFor resolves the authenticated user's cart, items included.
func (h *CartHandler) cartFor(c echo.Context) (*models.User, *models.Cart, error) {
	ctx := c.Request().Context()
	user, err := h.Users.FindByUsername(ctx, auth.Username(c))
	if err != nil {
		return nil, nil, echo.NewHTTPError(http.StatusNotFound, "user not found")
	}
	cart, err := h.Carts.ForUser(ctx, user.ID)
	if err != nil {
		return nil, nil, echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return user, cart, nil
}

func (h *CartHandler) GetCart(c echo.Context) error {
	_, cart, err := h.cartFor(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, cart)
}

// AddToCart applies the requested quantity as repeated unit additions, so
// the running total is an exact decimal sum of the appended prices.
func (h *CartHandler) AddToCart(c echo.Context) error {
	var req modifyCartRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.Quantity < 1 {
		req.Quantity = 1
	}

	user, cart, err := h.cartFor(c)
	if err != nil {
		return err
	}

	item, err := h.Items.FindByID(c.Request().Context(), req.ItemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "item not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	for i := 0; i < req.Quantity; i++ {
		cart.AddItem(*item)
	}
	if err := h.Carts.Save(c.Request().Context(), cart); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	h.publish(c, user.Username, map[string]any{
		"type":     "cart_updated",
		"userID":   user.ID,
		"itemID":   item.ID,
		"quantity": req.Quantity,
		"total":    cart.Total,
	})

	return c.JSON(http.StatusOK, cart)
}

// RemoveFromCart removes up to the requested quantity, one occurrence at a
// time. Occurrences that are not there leave the cart untouched.
func (h *CartHandler) RemoveFromCart(c echo.Context) error {
	var req modifyCartRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.Quantity < 1 {
		req.Quantity = 1
	}

	user, cart, err := h.cartFor(c)
	if err != nil {
		return err
	}

	item, err := h.Items.FindByID(c.Request().Context(), req.ItemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "item not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	for i := 0; i < req.Quantity; i++ {
		cart.RemoveItem(*item)
	}
	if err := h.Carts.Save(c.Request().Context(), cart); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	h.publish(c, user.Username, map[string]any{
		"type":     "cart_updated",
		"userID":   user.ID,
		"itemID":   item.ID,
		"quantity": -req.Quantity,
		"total":    cart.Total,
	})

	return c.JSON(http.StatusOK, cart)
}
