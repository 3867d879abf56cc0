package middleware

import (
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/octabyte/prediction-portal/utils/logger"
	"go.uber.org/zap"
)

// RequestLogger writes one structured line per request through the global zap logger.
func RequestLogger() echo.MiddlewareFunc {
	return echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogMethod:    true,
		LogURIPath:   true,
		LogRoutePath: true,
		LogStatus:    true,
		LogLatency:   true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			fields := []zap.Field{
				zap.String("method", v.Method),
				zap.String("path", v.URIPath),
				zap.String("route", v.RoutePath),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
			}
			if v.Error != nil {
				logger.LogError("request failed", append(fields, zap.Error(v.Error))...)
				return nil
			}
			logger.LogInfo("request", fields...)
			return nil
		},
	})
}
