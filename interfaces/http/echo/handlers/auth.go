package handlers

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/octabyte/prediction-portal/enums"
	"github.com/octabyte/prediction-portal/interfaces/http/echo/middleware"
	"github.com/octabyte/prediction-portal/models"
	otellogger "github.com/octabyte/prediction-portal/otel/logger"
	"go.uber.org/zap"
)

const (
	loginTemplate    = "login.html"
	registerTemplate = "register.html"
)

func (h *Handler) authPage(c echo.Context, extra echo.Map) echo.Map {
	data := echo.Map{
		"auth_base": h.auth.BaseURL(),
		"csrf":      c.Get(csrfContextKey),
	}
	for k, v := range extra {
		data[k] = v
	}
	return data
}

func (h *Handler) Login(c echo.Context) error {
	if c.Request().Method != http.MethodPost {
		return c.Render(http.StatusOK, loginTemplate, h.authPage(c, nil))
	}

	var req models.LoginRequest
	if err := c.Bind(&req); err != nil {
		return c.Render(http.StatusBadRequest, loginTemplate, h.authPage(c, echo.Map{"error": err.Error()}))
	}
	if err := c.Validate(&req); err != nil {
		return c.Render(http.StatusBadRequest, loginTemplate, h.authPage(c, echo.Map{"error": err.Error()}))
	}

	payload, err := h.auth.Login(c.Request().Context(), req)
	if err != nil {
		return h.renderAuthFailure(c, loginTemplate, "login", err, http.StatusUnauthorized)
	}
	return h.startSession(c, enums.SessionEventLogin, payload)
}

func (h *Handler) Register(c echo.Context) error {
	if c.Request().Method != http.MethodPost {
		return c.Render(http.StatusOK, registerTemplate, h.authPage(c, nil))
	}

	var req models.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return c.Render(http.StatusBadRequest, registerTemplate, h.authPage(c, echo.Map{"error": err.Error()}))
	}
	if err := c.Validate(&req); err != nil {
		return c.Render(http.StatusBadRequest, registerTemplate, h.authPage(c, echo.Map{"error": err.Error()}))
	}

	payload, err := h.auth.Register(c.Request().Context(), req)
	if err != nil {
		return h.renderAuthFailure(c, registerTemplate, "register", err, http.StatusBadRequest)
	}
	return h.startSession(c, enums.SessionEventRegister, payload)
}

// Refresh exchanges the session's refresh token for a new token pair.
func (h *Handler) Refresh(c echo.Context) error {
	s := middleware.SessionFromContext(c)
	if s.RefreshToken == "" {
		return redirectTo(c, RouteLogin)
	}

	payload, err := h.auth.Refresh(c.Request().Context(), s.RefreshToken)
	if err != nil {
		return h.renderAuthFailure(c, loginTemplate, "refresh", err, http.StatusUnauthorized)
	}
	return h.startSession(c, enums.SessionEventRefresh, payload)
}

func (h *Handler) Logout(c echo.Context) error {
	ended := *middleware.SessionFromContext(c)
	if err := h.sessions.Flush(c); err != nil {
		return err
	}
	if ended.ID != "" {
		h.record(c, enums.SessionEventLogout, &ended)
	}
	return redirectTo(c, RouteLogin)
}

func (h *Handler) Profile(c echo.Context) error {
	s := middleware.SessionFromContext(c)
	return c.Render(http.StatusOK, "profile.html", echo.Map{
		"user_email": s.UserEmail,
		"user_role":  s.UserRole,
	})
}

// startSession overwrites the session's tokens and user from payload, persists it
// and sends the browser to the dashboard. Login and register always get a new
// session id; refresh keeps the current one.
func (h *Handler) startSession(c echo.Context, eventType enums.SessionEventType, payload *models.AuthPayload) error {
	s := middleware.SessionFromContext(c)
	s.SetAuth(*payload)

	persist := h.sessions.Renew
	if eventType == enums.SessionEventRefresh {
		persist = h.sessions.Save
	}
	if err := persist(c, s); err != nil {
		return fmt.Errorf("%s: %w", eventType, err)
	}

	otellogger.InfoCtx(c.Request().Context(), "session started",
		zap.String("type", string(eventType)),
		zap.String("user_email", s.UserEmail))
	h.record(c, eventType, s)
	return redirectTo(c, RouteDashboard)
}

func (h *Handler) renderAuthFailure(c echo.Context, template, operation string, err error, fallback int) error {
	message, status := failure(err, fallback)
	otellogger.WarnCtx(c.Request().Context(), "auth service call failed",
		zap.String("operation", operation),
		zap.Int("status", status),
		zap.String("message", message))
	return c.Render(status, template, h.authPage(c, echo.Map{"error": message}))
}
