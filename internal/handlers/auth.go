package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/mkravets/web_store/internal/hash"
	"github.com/mkravets/web_store/internal/logging"
	"github.com/mkravets/web_store/internal/models"
	"github.com/mkravets/web_store/internal/mykafka"
	"github.com/mkravets/web_store/internal/repo"
	"github.com/mkravets/web_store/internal/token"
)

type AuthHandler struct {
	Users    *repo.UserRepo
	Tokens   *token.Service
	Producer mykafka.Publisher
}

func (h *AuthHandler) publish(c echo.Context, key string, event map[string]any) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Producer.PublishEvent(ctx, "user_events", key, event); err != nil {
		logging.FromContext(ctx).Error("kafka publish failed", "topic", "user_events", "error", err)
	}
}

// passwordValid mirrors the registration contract: at least 8 characters
// and an exact match with the repeated password.
func passwordValid(password, repeated string) bool {
	return password != "" && password == repeated && len(password) >= 8
}

func (h *AuthHandler) Register(c echo.Context) error {
	var req struct {
		Username         string `json:"username"`
		Password         string `json:"password"`
		RepeatedPassword string `json:"repeated_password"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.Username == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "username is required")
	}
	if !passwordValid(req.Password, req.RepeatedPassword) {
		return echo.NewHTTPError(http.StatusBadRequest,
			"password must be at least 8 characters and match the repeated password")
	}

	passwordHash, err := hash.HashPassword(req.Password)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	user := models.User{
		Username:     req.Username,
		PasswordHash: passwordHash,
	}
	if err := h.Users.CreateWithCart(c.Request().Context(), &user); err != nil {
		if errors.Is(err, repo.ErrUserAlreadyExist) {
			return echo.NewHTTPError(http.StatusConflict, "username already taken")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	h.publish(c, user.Username, map[string]any{
		"type":     "user_registered",
		"userID":   user.ID,
		"username": user.Username,
	})

	return c.JSON(http.StatusCreated, user)
}

func (h *AuthHandler) Login(c echo.Context) error {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.Users.FindByUsername(c.Request().Context(), req.Username)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid username or password")
	}
	if !hash.CheckPassword(user.PasswordHash, req.Password) {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid username or password")
	}

	tok, err := h.Tokens.Issue(user.Username)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "could not create token")
	}

	c.Response().Header().Set(h.Tokens.HeaderName(), h.Tokens.HeaderValue(tok))

	h.publish(c, user.Username, map[string]any{
		"type":     "user_logged_in",
		"userID":   user.ID,
		"username": user.Username,
	})

	return c.JSON(http.StatusOK, echo.Map{"token": tok})
}
