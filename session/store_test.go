package session

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/octabyte/prediction-portal/db/redis"
	"github.com/octabyte/prediction-portal/models"
	"github.com/stretchr/testify/suite"
	tContainer "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// StoreTestSuite runs the same contract against every Store implementation.
type StoreTestSuite struct {
	suite.Suite
	ctx   context.Context
	store Store
}

func (s *StoreTestSuite) TestGetUnknown() {
	_, err := s.store.Get(s.ctx, "missing")
	s.ErrorIs(err, ErrNotFound)
}

func (s *StoreTestSuite) TestSaveGetDelete() {
	in := &models.Session{
		ID:           "sid-1",
		AccessToken:  "access",
		RefreshToken: "refresh",
		UserEmail:    "ada@example.com",
		UserRole:     "analyst",
	}
	s.Require().NoError(s.store.Save(s.ctx, in))

	out, err := s.store.Get(s.ctx, "sid-1")
	s.Require().NoError(err)
	s.Equal(in, out)

	s.Require().NoError(s.store.Delete(s.ctx, "sid-1"))
	_, err = s.store.Get(s.ctx, "sid-1")
	s.ErrorIs(err, ErrNotFound)
}

func (s *StoreTestSuite) TestSaveOverwrites() {
	s.Require().NoError(s.store.Save(s.ctx, &models.Session{ID: "sid-2", AccessToken: "a1", UserRole: "admin"}))
	s.Require().NoError(s.store.Save(s.ctx, &models.Session{ID: "sid-2", AccessToken: "a2"}))

	out, err := s.store.Get(s.ctx, "sid-2")
	s.Require().NoError(err)
	s.Equal("a2", out.AccessToken)
	s.Empty(out.UserRole)
}

func (s *StoreTestSuite) TestGetReturnsCopy() {
	s.Require().NoError(s.store.Save(s.ctx, &models.Session{ID: "sid-3", AccessToken: "a1"}))

	first, err := s.store.Get(s.ctx, "sid-3")
	s.Require().NoError(err)
	first.AccessToken = "mutated"

	second, err := s.store.Get(s.ctx, "sid-3")
	s.Require().NoError(err)
	s.Equal("a1", second.AccessToken)
}

func (s *StoreTestSuite) TestSaveWithoutID() {
	s.Error(s.store.Save(s.ctx, &models.Session{AccessToken: "a1"}))
}

func (s *StoreTestSuite) TestDeleteUnknown() {
	s.NoError(s.store.Delete(s.ctx, "never-saved"))
}

type MemoryStoreTestSuite struct {
	StoreTestSuite
}

func (s *MemoryStoreTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = NewMemoryStore()
}

func TestMemoryStore(t *testing.T) {
	suite.Run(t, new(MemoryStoreTestSuite))
}

type RedisStoreTestSuite struct {
	StoreTestSuite
	container tContainer.Container
}

func (s *RedisStoreTestSuite) SetupSuite() {
	s.ctx = context.Background()

	container, err := tContainer.GenericContainer(s.ctx, tContainer.GenericContainerRequest{
		ContainerRequest: tContainer.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections"),
		},
		Started: true,
	})
	s.Require().NoError(err)
	s.container = container

	host, err := container.Host(s.ctx)
	s.Require().NoError(err)
	port, err := container.MappedPort(s.ctx, "6379")
	s.Require().NoError(err)

	client, err := redis.NewRedisClient(s.ctx, redis.Config{Addr: fmt.Sprintf("%s:%s", host, port.Port())})
	s.Require().NoError(err)

	s.store = NewRedisStore(client, time.Minute)
}

func (s *RedisStoreTestSuite) TearDownSuite() {
	if s.container != nil {
		s.Require().NoError(s.container.Terminate(s.ctx))
	}
}

func TestRedisStore(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping redis container test in short mode")
	}
	suite.Run(t, new(RedisStoreTestSuite))
}
