// Package server assembles the echo application: middleware, routes and templates.
package server

import (
	"net/http"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/octabyte/prediction-portal/interfaces/http/echo/handlers"
	"github.com/octabyte/prediction-portal/interfaces/http/echo/middleware"
	otelecho "github.com/octabyte/prediction-portal/otel/echo"
	"github.com/octabyte/prediction-portal/utils/logger"
	"go.uber.org/zap"
)

const healthPath = "/healthz"

type Options struct {
	ServiceName string
	// CSRF protects the HTML forms with echo's double-submit cookie.
	CSRF         bool
	SecureCookie bool
}

func NewRouter(h *handlers.Handler, sessions *middleware.SessionManager, opts Options) (*echo.Echo, error) {
	renderer, err := NewRenderer()
	if err != nil {
		return nil, err
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Renderer = renderer
	e.Validator = NewValidator()
	e.HTTPErrorHandler = errorHandler(e)

	// Pages live under trailing-slash paths; /login is redirected to /login/.
	e.Pre(echomw.AddTrailingSlashWithConfig(echomw.TrailingSlashConfig{
		RedirectCode: http.StatusMovedPermanently,
		Skipper: func(c echo.Context) bool {
			return c.Request().URL.Path == healthPath
		},
	}))

	isHealth := func(c echo.Context) bool { return c.Path() == healthPath }

	e.Use(echomw.Recover())
	e.Use(otelecho.Middleware(opts.ServiceName, isHealth))
	e.Use(middleware.RequestLogger())
	e.Use(sessions.Middleware())
	e.Use(middleware.SetTokenInContext())
	if opts.CSRF {
		e.Use(echomw.CSRFWithConfig(echomw.CSRFConfig{
			TokenLookup:    "form:csrf",
			CookiePath:     "/",
			CookieHTTPOnly: true,
			CookieSecure:   opts.SecureCookie,
			CookieSameSite: http.SameSiteLaxMode,
			Skipper:        isHealth,
		}))
	}

	pages := []struct {
		name    string
		path    string
		methods []string
		handler echo.HandlerFunc
	}{
		{handlers.RouteDashboard, "/", []string{http.MethodGet}, h.Dashboard},
		{handlers.RouteLogin, "/login/", []string{http.MethodGet, http.MethodPost}, h.Login},
		{handlers.RouteRegister, "/register/", []string{http.MethodGet, http.MethodPost}, h.Register},
		{handlers.RouteLogout, "/logout/", []string{http.MethodGet, http.MethodPost}, h.Logout},
		{handlers.RouteRefresh, "/refresh/", []string{http.MethodGet, http.MethodPost}, h.Refresh},
		{handlers.RoutePredictionCreate, "/predictions/new/", []string{http.MethodGet, http.MethodPost}, h.PredictionCreate},
		{handlers.RoutePredictionDetail, "/predictions/:id/", []string{http.MethodGet}, h.PredictionDetail},
		{handlers.RouteProfile, "/profile/", []string{http.MethodGet}, h.Profile},
	}
	for _, p := range pages {
		for _, route := range e.Match(p.methods, p.path, p.handler) {
			route.Name = p.name
		}
	}
	e.GET(healthPath, h.Healthz)

	return e, nil
}

// errorHandler logs handler errors before echo writes its default response.
func errorHandler(e *echo.Echo) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		if he, ok := err.(*echo.HTTPError); !ok || he.Code >= http.StatusInternalServerError {
			logger.LogError("unhandled error",
				zap.String("path", c.Request().URL.Path),
				zap.String("method", c.Request().Method),
				zap.Error(err))
		}
		e.DefaultHTTPErrorHandler(err, c)
	}
}
