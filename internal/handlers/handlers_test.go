package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/mkravets/web_store/internal/config"
	"github.com/mkravets/web_store/internal/middleware/auth"
	"github.com/mkravets/web_store/internal/models"
	"github.com/mkravets/web_store/internal/repo"
	"github.com/mkravets/web_store/internal/token"
)

// eventRecorder stands in for the kafka producer and keeps published
// events for assertions.
type eventRecorder struct {
	mu     sync.Mutex
	events []recordedEvent
}

type recordedEvent struct {
	Topic string
	Key   string
	Event map[string]any
}

func (r *eventRecorder) PublishEvent(ctx context.Context, topic, key string, event interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	payload, _ := event.(map[string]any)
	r.events = append(r.events, recordedEvent{Topic: topic, Key: key, Event: payload})
	return nil
}

func (r *eventRecorder) last(t *testing.T) recordedEvent {
	t.Helper()
	r.mu.Lock()
	defer r.mu.Unlock()
	require.NotEmpty(t, r.events)
	return r.events[len(r.events)-1]
}

type testEnv struct {
	T      *testing.T
	E      *echo.Echo
	DB     *gorm.DB
	Tokens *token.Service
	Events *eventRecorder
	A      *AuthHandler
	U      *UserHandler
	I      *ItemHandler
	C      *CartHandler
	O      *OrderHandler
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, config.Migrate(db))

	users := &repo.UserRepo{DB: db}
	items := &repo.ItemRepo{DB: db}
	carts := &repo.CartRepo{DB: db}
	orders := &repo.OrderRepo{DB: db}

	tokens := token.NewService(token.Config{Secret: []byte("test_secret"), TTL: time.Minute})
	events := &eventRecorder{}

	return &testEnv{
		T:      t,
		E:      echo.New(),
		DB:     db,
		Tokens: tokens,
		Events: events,
		A:      &AuthHandler{Users: users, Tokens: tokens, Producer: events},
		U:      &UserHandler{Users: users},
		I:      &ItemHandler{Items: items, Producer: events, Index: "items"},
		C:      &CartHandler{Users: users, Items: items, Carts: carts, Producer: events},
		O:      &OrderHandler{Users: users, Carts: carts, Orders: orders, Producer: events},
	}
}

func (env *testEnv) doJSONRequest(method, path string, body interface{}) (*httptest.ResponseRecorder, echo.Context) {
	var buf bytes.Buffer
	if body != nil {
		require.NoError(env.T, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := env.E.NewContext(req, rec)
	return rec, c
}

// doAuthedRequest builds a context the way the verification middleware
// leaves it for an authenticated user.
func (env *testEnv) doAuthedRequest(method, path, username string, body interface{}) (*httptest.ResponseRecorder, echo.Context) {
	rec, c := env.doJSONRequest(method, path, body)
	c.Set(auth.CtxUsername, username)
	return rec, c
}

func registerUser(t *testing.T, env *testEnv, username, password string) models.User {
	t.Helper()
	payload := map[string]string{
		"username":          username,
		"password":          password,
		"repeated_password": password,
	}
	rec, c := env.doJSONRequest(http.MethodPost, "/api/v1/user/create", payload)
	require.NoError(t, env.A.Register(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var user models.User
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &user))
	return user
}

func createItem(t *testing.T, env *testEnv, name, price string) models.Item {
	t.Helper()
	payload := map[string]any{
		"name":        name,
		"description": name + " description",
		"price":       price,
	}
	rec, c := env.doJSONRequest(http.MethodPost, "/api/v1/item", payload)
	require.NoError(t, env.I.Create(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var item models.Item
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &item))
	require.True(t, item.Price.Equal(decimal.RequireFromString(price)))
	return item
}
