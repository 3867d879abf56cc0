package context

import (
	"context"

	"github.com/octabyte/prediction-portal/models"
)

type contextKey string

const (
	sessionKey contextKey = "requestSession"
	tokenKey   contextKey = "requestToken"
)

func WithSession(ctx context.Context, s *models.Session) context.Context {
	return context.WithValue(ctx, sessionKey, s)
}

// GetSessionFromContext returns the request's session, or an empty one when the
// session middleware did not run.
func GetSessionFromContext(ctx context.Context) *models.Session {
	if s, ok := ctx.Value(sessionKey).(*models.Session); ok && s != nil {
		return s
	}
	return &models.Session{}
}
