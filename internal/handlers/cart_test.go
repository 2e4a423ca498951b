package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/mkravets/web_store/internal/models"
)

func TestGetCartStartsEmpty(t *testing.T) {
	env := newTestEnv(t)
	registerUser(t, env, "alice", "Passw0rd!")

	rec, c := env.doAuthedRequest(http.MethodGet, "/api/v1/cart", "alice", nil)
	require.NoError(t, env.C.GetCart(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var cart models.Cart
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &cart))
	require.Empty(t, cart.Items)
	require.True(t, cart.Total.Equal(decimal.Zero))
}

func TestAddToCart(t *testing.T) {
	env := newTestEnv(t)
	registerUser(t, env, "alice", "Passw0rd!")
	item := createItem(t, env, "Round Widget", "10.00")

	payload := map[string]any{"item_id": item.ID, "quantity": 2}
	rec, c := env.doAuthedRequest(http.MethodPost, "/api/v1/cart/add", "alice", payload)
	require.NoError(t, env.C.AddToCart(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var cart models.Cart
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &cart))
	require.Len(t, cart.Items, 2)
	require.True(t, cart.Total.Equal(decimal.RequireFromString("20.00")))

	event := env.Events.last(t)
	require.Equal(t, "cart_events", event.Topic)
	require.Equal(t, "cart_updated", event.Event["type"])
}

func TestAddToCartUnknownItem(t *testing.T) {
	env := newTestEnv(t)
	registerUser(t, env, "alice", "Passw0rd!")

	payload := map[string]any{"item_id": 999, "quantity": 1}
	_, c := env.doAuthedRequest(http.MethodPost, "/api/v1/cart/add", "alice", payload)
	err := env.C.AddToCart(c)

	he, ok := err.(*echo.HTTPError)
	require.True(t, ok, "expected HTTPError")
	require.Equal(t, http.StatusNotFound, he.Code)
}

func TestRemoveFromCart(t *testing.T) {
	env := newTestEnv(t)
	registerUser(t, env, "alice", "Passw0rd!")
	item := createItem(t, env, "Round Widget", "10.00")

	payload := map[string]any{"item_id": item.ID, "quantity": 2}
	rec, c := env.doAuthedRequest(http.MethodPost, "/api/v1/cart/add", "alice", payload)
	require.NoError(t, env.C.AddToCart(c))
	require.Equal(t, http.StatusOK, rec.Code)

	payload = map[string]any{"item_id": item.ID, "quantity": 1}
	rec, c = env.doAuthedRequest(http.MethodPost, "/api/v1/cart/remove", "alice", payload)
	require.NoError(t, env.C.RemoveFromCart(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var cart models.Cart
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &cart))
	require.Len(t, cart.Items, 1)
	require.True(t, cart.Total.Equal(decimal.RequireFromString("10.00")))
}

func TestRemoveMoreThanHeldFloorsAtZero(t *testing.T) {
	env := newTestEnv(t)
	registerUser(t, env, "alice", "Passw0rd!")
	item := createItem(t, env, "Round Widget", "10.00")

	payload := map[string]any{"item_id": item.ID, "quantity": 1}
	_, c := env.doAuthedRequest(http.MethodPost, "/api/v1/cart/add", "alice", payload)
	require.NoError(t, env.C.AddToCart(c))

	payload = map[string]any{"item_id": item.ID, "quantity": 5}
	rec, c := env.doAuthedRequest(http.MethodPost, "/api/v1/cart/remove", "alice", payload)
	require.NoError(t, env.C.RemoveFromCart(c))

	var cart models.Cart
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &cart))
	require.Empty(t, cart.Items)
	require.True(t, cart.Total.Equal(decimal.Zero))
	require.False(t, cart.Total.IsNegative())
}

func TestCartPersistsBetweenRequests(t *testing.T) {
	env := newTestEnv(t)
	registerUser(t, env, "alice", "Passw0rd!")
	item := createItem(t, env, "Round Widget", "2.99")

	payload := map[string]any{"item_id": item.ID, "quantity": 3}
	_, c := env.doAuthedRequest(http.MethodPost, "/api/v1/cart/add", "alice", payload)
	require.NoError(t, env.C.AddToCart(c))

	rec, c := env.doAuthedRequest(http.MethodGet, "/api/v1/cart", "alice", nil)
	require.NoError(t, env.C.GetCart(c))

	var cart models.Cart
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &cart))
	require.Len(t, cart.Items, 3)
	require.True(t, cart.Total.Equal(decimal.RequireFromString("8.97")))
}

func TestCartsAreSeparatedByUser(t *testing.T) {
	env := newTestEnv(t)
	registerUser(t, env, "alice", "Passw0rd!")
	registerUser(t, env, "bob", "Passw0rd!")
	item := createItem(t, env, "Round Widget", "10.00")

	payload := map[string]any{"item_id": item.ID, "quantity": 1}
	_, c := env.doAuthedRequest(http.MethodPost, "/api/v1/cart/add", "alice", payload)
	require.NoError(t, env.C.AddToCart(c))

	rec, c := env.doAuthedRequest(http.MethodGet, "/api/v1/cart", "bob", nil)
	require.NoError(t, env.C.GetCart(c))

	var cart models.Cart
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &cart))
	require.Empty(t, cart.Items)
}
