package echo

import (
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/octabyte/prediction-portal/otel/metrics"
	utilscontext "github.com/octabyte/prediction-portal/utils/context"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Middleware traces each request with otelecho and records the HTTP server metrics.
// Requests matched by skipper are neither traced nor measured.
func Middleware(serviceName string, skipper echomw.Skipper) echo.MiddlewareFunc {
	if skipper == nil {
		skipper = echomw.DefaultSkipper
	}
	traced := otelecho.Middleware(serviceName, otelecho.WithSkipper(skipper))

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		instrumented := traced(func(c echo.Context) error {
			err := next(c)
			annotate(c, err)
			return err
		})

		return func(c echo.Context) error {
			if skipper(c) {
				return next(c)
			}

			ctx, method, route := c.Request().Context(), c.Request().Method, c.Path()
			metrics.IncrementInFlightRequests(ctx, method, route)
			defer metrics.DecrementInFlightRequests(ctx, method, route)

			start := time.Now()
			err := instrumented(c)

			status := c.Response().Status
			if he, ok := err.(*echo.HTTPError); ok && !c.Response().Committed {
				status = he.Code
			}
			metrics.RecordHTTPRequest(ctx, method, route, status, time.Since(start))
			return err
		}
	}
}

// annotate runs inside the server span, after the handler and inner middleware.
func annotate(c echo.Context, err error) {
	span := trace.SpanFromContext(c.Request().Context())
	if !span.IsRecording() {
		return
	}

	span.SetAttributes(attribute.String("http.route", c.Path()))
	if utilscontext.GetTokenFromContext(c.Request().Context()) != "" {
		span.SetAttributes(attribute.Bool("user.token_present", true))
	}
	if err != nil {
		span.SetAttributes(attribute.String("error.message", err.Error()))
	}
}
