package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"
	utilscontext "github.com/octabyte/prediction-portal/utils/context"
)

// SetTokenInContext resolves the bearer token used for prediction service calls:
// the session's access token, then the `token` query parameter, then the
// Authorization header. It must run after the session middleware.
func SetTokenInContext() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := SessionFromContext(c).AccessToken

			if token == "" {
				token = c.QueryParam(TokenQueryParam)
			}

			if token == "" {
				header := c.Request().Header.Get(Authorization)
				if strings.HasPrefix(header, "Bearer ") {
					token = strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
				}
			}

			c.Set(TokenKey, token)
			c.SetRequest(c.Request().WithContext(utilscontext.WithToken(c.Request().Context(), token)))
			return next(c)
		}
	}
}
