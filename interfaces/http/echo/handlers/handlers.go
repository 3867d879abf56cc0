// Package handlers holds the portal's page handlers.
package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/octabyte/prediction-portal/audit"
	"github.com/octabyte/prediction-portal/clients"
	"github.com/octabyte/prediction-portal/enums"
	"github.com/octabyte/prediction-portal/models"
	otellogger "github.com/octabyte/prediction-portal/otel/logger"
	"go.uber.org/zap"
)

// Route names used for redirects.
const (
	RouteDashboard        = "dashboard"
	RouteLogin            = "login"
	RouteRegister         = "register"
	RouteLogout           = "logout"
	RouteRefresh          = "refresh"
	RoutePredictionCreate = "prediction_create"
	RoutePredictionDetail = "prediction_detail"
	RouteProfile          = "profile"
)

// csrfContextKey is where echo's CSRF middleware leaves the form token.
const csrfContextKey = "csrf"

type AuthAPI interface {
	BaseURL() string
	Login(ctx context.Context, req models.LoginRequest) (*models.AuthPayload, error)
	Register(ctx context.Context, req models.RegisterRequest) (*models.AuthPayload, error)
	Refresh(ctx context.Context, refreshToken string) (*models.AuthPayload, error)
}

type PredictionAPI interface {
	BaseURL() string
	List(ctx context.Context, token string) (*models.PredictionList, error)
	Get(ctx context.Context, token, id string) (models.Prediction, error)
	Create(ctx context.Context, token string, fields map[string]interface{}) (models.Prediction, error)
}

type Sessions interface {
	Save(c echo.Context, s *models.Session) error
	Renew(c echo.Context, s *models.Session) error
	Flush(c echo.Context) error
}

type Handler struct {
	auth        AuthAPI
	predictions PredictionAPI
	sessions    Sessions
	audit       audit.Recorder
}

func New(auth AuthAPI, predictions PredictionAPI, sessions Sessions, recorder audit.Recorder) *Handler {
	if recorder == nil {
		recorder = audit.Discard()
	}
	return &Handler{auth: auth, predictions: predictions, sessions: sessions, audit: recorder}
}

// Healthz reports liveness only; it does not call the downstream services.
func (h *Handler) Healthz(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// failure turns a downstream error into a display message and the status to
// render it with. Rejections keep the service's status; anything else uses fallback.
func failure(err error, fallback int) (string, int) {
	var apiErr *clients.APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode >= http.StatusBadRequest {
		return apiErr.Message, apiErr.StatusCode
	}
	return err.Error(), fallback
}

func (h *Handler) record(c echo.Context, eventType enums.SessionEventType, s *models.Session) {
	ctx := c.Request().Context()
	if err := h.audit.Record(ctx, eventType, s); err != nil {
		otellogger.ErrorCtx(ctx, "failed to record session event", err, zap.String("type", string(eventType)))
	}
}

func redirectTo(c echo.Context, route string, params ...interface{}) error {
	return c.Redirect(http.StatusFound, c.Echo().Reverse(route, params...))
}
