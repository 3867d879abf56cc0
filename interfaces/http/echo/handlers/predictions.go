package handlers

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"
	"github.com/octabyte/prediction-portal/clients"
	"github.com/octabyte/prediction-portal/interfaces/http/echo/middleware"
	"github.com/octabyte/prediction-portal/models"
	otellogger "github.com/octabyte/prediction-portal/otel/logger"
	utilscontext "github.com/octabyte/prediction-portal/utils/context"
	"go.uber.org/zap"
)

const predictionCreateTemplate = "prediction_create.html"

// Dashboard lists the caller's predictions. Failures are shown on the page; the
// response is always 200.
func (h *Handler) Dashboard(c echo.Context) error {
	ctx := c.Request().Context()
	s := middleware.SessionFromContext(c)

	data := echo.Map{
		"predictions":     []models.Prediction{},
		"error":           "",
		"auth_base":       h.auth.BaseURL(),
		"prediction_base": h.predictions.BaseURL(),
		"user_email":      s.UserEmail,
		"user_role":       s.UserRole,
	}

	list, err := h.predictions.List(ctx, utilscontext.GetTokenFromContext(ctx))
	switch {
	case err != nil:
		if !errors.Is(err, clients.ErrMissingAccessToken) {
			otellogger.WarnCtx(ctx, "failed to list predictions", zap.Error(err))
		}
		data["error"] = err.Error()
	default:
		if list.Results != nil {
			data["predictions"] = list.Results
		}
		data["error"] = list.Error
	}

	return c.Render(http.StatusOK, "dashboard.html", data)
}

// PredictionDetail shows one prediction. Without a token only the id is shown.
func (h *Handler) PredictionDetail(c echo.Context) error {
	ctx := c.Request().Context()
	id := c.Param("id")
	s := middleware.SessionFromContext(c)

	data := echo.Map{
		"prediction_id": id,
		"user_email":    s.UserEmail,
	}

	if token := utilscontext.GetTokenFromContext(ctx); token != "" {
		prediction, err := h.predictions.Get(ctx, token, id)
		if err != nil {
			otellogger.WarnCtx(ctx, "failed to fetch prediction", zap.String("prediction_id", id), zap.Error(err))
			data["error"] = err.Error()
		} else {
			data["prediction"] = prediction
		}
	}

	return c.Render(http.StatusOK, "prediction_detail.html", data)
}

// PredictionCreate forwards the submitted form fields to the prediction service
// as a JSON object.
func (h *Handler) PredictionCreate(c echo.Context) error {
	ctx := c.Request().Context()
	s := middleware.SessionFromContext(c)

	data := echo.Map{
		"prediction_base": h.predictions.BaseURL(),
		"user_email":      s.UserEmail,
		"csrf":            c.Get(csrfContextKey),
		"values":          map[string]string{},
	}

	if c.Request().Method != http.MethodPost {
		return c.Render(http.StatusOK, predictionCreateTemplate, data)
	}

	token := utilscontext.GetTokenFromContext(ctx)
	if token == "" {
		return redirectTo(c, RouteLogin)
	}

	// Parse, then read the body fields only so query parameters such as ?token= are never forwarded.
	if _, err := c.FormParams(); err != nil {
		data["error"] = err.Error()
		return c.Render(http.StatusBadRequest, predictionCreateTemplate, data)
	}
	fields, values := predictionFields(c.Request().PostForm)
	data["values"] = values

	prediction, err := h.predictions.Create(ctx, token, fields)
	if err != nil {
		message, status := failure(err, http.StatusBadGateway)
		otellogger.WarnCtx(ctx, "failed to create prediction", zap.Int("status", status), zap.String("message", message))
		data["error"] = message
		return c.Render(status, predictionCreateTemplate, data)
	}

	if id := prediction.ID(); id != "" {
		return redirectTo(c, RoutePredictionDetail, url.PathEscape(id))
	}
	return redirectTo(c, RouteDashboard)
}

// predictionFields drops the CSRF token and keeps repeated fields as lists. values
// holds the first value of each field for re-rendering the form.
func predictionFields(form url.Values) (map[string]interface{}, map[string]string) {
	fields := make(map[string]interface{}, len(form))
	values := make(map[string]string, len(form))
	for key, v := range form {
		if key == csrfContextKey || len(v) == 0 {
			continue
		}
		values[key] = v[0]
		if len(v) == 1 {
			fields[key] = v[0]
		} else {
			fields[key] = v
		}
	}
	return fields, values
}
