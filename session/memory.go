package session

import (
	"context"
	"errors"
	"sync"

	"github.com/octabyte/prediction-portal/models"
)

type memoryStore struct {
	sessions map[string]models.Session
	mutex    sync.RWMutex
}

func NewMemoryStore() Store {
	return &memoryStore{sessions: make(map[string]models.Session)}
}

func (m *memoryStore) Get(ctx context.Context, id string) (*models.Session, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	s, ok := m.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	s.ID = id
	return &s, nil
}

func (m *memoryStore) Save(ctx context.Context, s *models.Session) error {
	if s.ID == "" {
		return errors.New("session id is required")
	}

	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.sessions[s.ID] = *s
	return nil
}

func (m *memoryStore) Delete(ctx context.Context, id string) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	delete(m.sessions, id)
	return nil
}
