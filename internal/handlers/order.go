package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/mkravets/web_store/internal/logging"
	"github.com/mkravets/web_store/internal/middleware/auth"
	"github.com/mkravets/web_store/internal/models"
	"github.com/mkravets/web_store/internal/mykafka"
	"github.com/mkravets/web_store/internal/repo"
)

type OrderHandler struct {
	Users    *repo.UserRepo
	Carts    *repo.CartRepo
	Orders   *repo.OrderRepo
	Producer mykafka.Publisher
}

func (h *OrderHandler) publish(c echo.Context, key string, event map[string]any) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Producer.PublishEvent(ctx, "order_events", key, event); err != nil {
		logging.FromContext(ctx).Error("kafka publish failed", "topic", "order_events", "error", err)
	}
}

// Submit snapshots the current cart into an immutable order. The cart is
// left as it is; emptying it after checkout is the client's call.
func (h *OrderHandler) Submit(c echo.Context) error {
	ctx := c.Request().Context()

	user, err := h.Users.FindByUsername(ctx, auth.Username(c))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "user not found")
	}
	cart, err := h.Carts.ForUser(ctx, user.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	order, err := models.OrderFromCart(cart)
	if err != nil {
		logging.FromContext(ctx).Error("order snapshot failed", "userID", user.ID, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if err := h.Orders.Save(ctx, order); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	h.publish(c, user.Username, map[string]any{
		"type":    "order_created",
		"userID":  user.ID,
		"orderID": order.ID,
		"total":   order.Total,
	})

	return c.JSON(http.StatusOK, order)
}

func (h *OrderHandler) History(c echo.Context) error {
	ctx := c.Request().Context()

	user, err := h.Users.FindByUsername(ctx, auth.Username(c))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "user not found")
	}
	orders, err := h.Orders.ByUser(ctx, user.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, orders)
}
