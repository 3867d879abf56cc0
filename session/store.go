// Package session persists portal sessions behind a small Store interface.
package session

import (
	"context"
	"errors"

	"github.com/octabyte/prediction-portal/models"
)

var ErrNotFound = errors.New("session not found")

type Store interface {
	// Get returns ErrNotFound for unknown ids.
	Get(ctx context.Context, id string) (*models.Session, error)
	// Save stores s under s.ID, replacing any previous value.
	Save(ctx context.Context, s *models.Session) error
	Delete(ctx context.Context, id string) error
}
