package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/mkravets/web_store/internal/handlers"
	"github.com/mkravets/web_store/internal/middleware/auth"
	"github.com/mkravets/web_store/internal/token"
)

type Deps struct {
	Tokens        *token.Service
	AuthHandler   *handlers.AuthHandler
	UserHandler   *handlers.UserHandler
	ItemHandler   *handlers.ItemHandler
	CartHandler   *handlers.CartHandler
	OrderHandler  *handlers.OrderHandler
	SearchHandler *handlers.SearchHandler
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	v1 := e.Group("/api/v1", auth.Middleware(d.Tokens))

	v1.POST("/user/create", d.AuthHandler.Register)
	v1.POST("/login", d.AuthHandler.Login)

	users := v1.Group("/user", auth.RequireLogin)
	users.GET("/id/:id", d.UserHandler.ByID)
	users.GET("/:username", d.UserHandler.ByUsername)

	items := v1.Group("/item", auth.RequireLogin)
	items.GET("", d.ItemHandler.List)
	items.POST("", d.ItemHandler.Create)
	items.GET("/search", d.SearchHandler.Search)
	items.GET("/name/:name", d.ItemHandler.ByName)
	items.GET("/:id", d.ItemHandler.ByID)

	cart := v1.Group("/cart", auth.RequireLogin)
	cart.GET("", d.CartHandler.GetCart)
	cart.POST("/add", d.CartHandler.AddToCart)
	cart.POST("/remove", d.CartHandler.RemoveFromCart)

	orders := v1.Group("/order", auth.RequireLogin)
	orders.POST("/submit", d.OrderHandler.Submit)
	orders.GET("/history", d.OrderHandler.History)
}
