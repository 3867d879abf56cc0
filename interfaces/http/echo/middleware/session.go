package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	"github.com/octabyte/prediction-portal/models"
	"github.com/octabyte/prediction-portal/session"
	utilscontext "github.com/octabyte/prediction-portal/utils/context"
)

type SessionConfig struct {
	CookieName string
	TTL        time.Duration
	Secure     bool
}

// SessionManager ties a session.Store to a browser cookie.
type SessionManager struct {
	store  session.Store
	config SessionConfig
}

func NewSessionManager(store session.Store, config SessionConfig) *SessionManager {
	return &SessionManager{store: store, config: config}
}

// Middleware loads the cookie's session, or an empty unsaved one, into the echo
// context and the request context.
func (m *SessionManager) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			setSession(c, m.load(c))
			return next(c)
		}
	}
}

func (m *SessionManager) load(c echo.Context) *models.Session {
	cookie, err := c.Cookie(m.config.CookieName)
	if err != nil || cookie.Value == "" {
		return &models.Session{}
	}

	s, err := m.store.Get(c.Request().Context(), cookie.Value)
	if err != nil {
		if !errors.Is(err, session.ErrNotFound) {
			log.Errorf("Error loading session: %v", err)
		}
		return &models.Session{}
	}
	return s
}

// Save persists s, giving it an id on first save, and refreshes the cookie.
func (m *SessionManager) Save(c echo.Context, s *models.Session) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	if err := m.store.Save(c.Request().Context(), s); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}

	c.SetCookie(m.cookie(s.ID, int(m.config.TTL.Seconds())))
	setSession(c, s)
	return nil
}

// Renew moves s to a new id. The session stored under the old id is deleted.
func (m *SessionManager) Renew(c echo.Context, s *models.Session) error {
	if s.ID != "" {
		if err := m.store.Delete(c.Request().Context(), s.ID); err != nil {
			return fmt.Errorf("failed to delete session: %w", err)
		}
		s.ID = ""
	}
	return m.Save(c, s)
}

// Flush deletes the current session and expires its cookie. The request continues
// with an empty session.
func (m *SessionManager) Flush(c echo.Context) error {
	if s := SessionFromContext(c); s.ID != "" {
		if err := m.store.Delete(c.Request().Context(), s.ID); err != nil {
			return fmt.Errorf("failed to delete session: %w", err)
		}
	}

	c.SetCookie(m.cookie("", -1))
	setSession(c, &models.Session{})
	return nil
}

func (m *SessionManager) cookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     m.config.CookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   m.config.Secure,
		SameSite: http.SameSiteLaxMode,
	}
}

func setSession(c echo.Context, s *models.Session) {
	c.Set(RequestSessionKey, s)
	c.SetRequest(c.Request().WithContext(utilscontext.WithSession(c.Request().Context(), s)))
}

// SessionFromContext returns the session loaded by SessionManager.Middleware.
func SessionFromContext(c echo.Context) *models.Session {
	if s, ok := c.Get(RequestSessionKey).(*models.Session); ok && s != nil {
		return s
	}
	return utilscontext.GetSessionFromContext(c.Request().Context())
}
