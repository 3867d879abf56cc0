package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/octabyte/prediction-portal/audit"
	"github.com/octabyte/prediction-portal/clients"
	"github.com/octabyte/prediction-portal/config"
	dbredis "github.com/octabyte/prediction-portal/db/redis"
	"github.com/octabyte/prediction-portal/interfaces/http/echo/handlers"
	"github.com/octabyte/prediction-portal/interfaces/http/echo/middleware"
	"github.com/octabyte/prediction-portal/interfaces/http/echo/server"
	"github.com/octabyte/prediction-portal/otel"
	"github.com/octabyte/prediction-portal/otel/metrics"
	"github.com/octabyte/prediction-portal/queue"
	"github.com/octabyte/prediction-portal/session"
	"github.com/octabyte/prediction-portal/utils/logger"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		// Logger is not configured yet.
		os.Stderr.WriteString("failed to load .env: " + err.Error() + "\n")
	}

	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}

	logger.Init(&logger.Config{
		Level:       cfg.LogLevel,
		Env:         cfg.Env,
		ServiceName: cfg.ServiceName,
	})
	defer logger.Sync()

	if err := run(cfg); err != nil {
		logger.LogFatal("portal stopped", zap.Error(err))
	}
}

func run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTelemetry, err := otel.InitOpenTelemetry(ctx, otel.OtelConfig{
		Enabled:     cfg.OtelEnabled,
		Endpoint:    cfg.OtelEndpoint,
		ServiceName: cfg.ServiceName,
		Environment: cfg.Env,
		SampleRate:  cfg.OtelSampleRate,
	})
	if err != nil {
		return err
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := shutdownTelemetry(sctx); err != nil {
			logger.LogError("failed to flush telemetry", zap.Error(err))
		}
	}()

	if err := metrics.Init(cfg.ServiceName); err != nil {
		return err
	}

	store, closeStore, err := newSessionStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	recorder, closeRecorder, err := newAuditRecorder(cfg)
	if err != nil {
		return err
	}
	defer closeRecorder()

	timeout := cfg.HTTPClientTimeout
	authClient := clients.NewAuthClient(clients.Config{BaseURL: cfg.AuthAPIBaseURL, Timeout: timeout})
	predictionClient := clients.NewPredictionClient(clients.PredictionConfig{
		Config:     clients.Config{BaseURL: cfg.PredictionAPIBaseURL, Timeout: timeout},
		APIVersion: cfg.APIVersion,
	})

	sessions := middleware.NewSessionManager(store, middleware.SessionConfig{
		CookieName: cfg.SessionCookieName,
		TTL:        cfg.SessionTTL,
		Secure:     cfg.SessionCookieSecure,
	})

	e, err := server.NewRouter(
		handlers.New(authClient, predictionClient, sessions, recorder),
		sessions,
		server.Options{ServiceName: cfg.ServiceName, CSRF: true, SecureCookie: cfg.SessionCookieSecure},
	)
	if err != nil {
		return err
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.LogInfo("portal listening",
			zap.String("port", cfg.Port),
			zap.String("auth_api", cfg.AuthAPIBaseURL),
			zap.String("prediction_api", cfg.PredictionAPIBaseURL))
		serveErr <- e.Start(":" + cfg.Port)
	}()

	select {
	case err := <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.LogInfo("shutting down")
	sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(sctx)
}

func newSessionStore(ctx context.Context, cfg *config.Config) (session.Store, func(), error) {
	if cfg.RedisAddr == "" {
		logger.LogInfo("using in-memory session store")
		return session.NewMemoryStore(), func() {}, nil
	}

	client, err := dbredis.NewRedisClient(ctx, dbredis.Config{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err != nil {
		return nil, nil, err
	}
	logger.LogInfo("using redis session store", zap.String("addr", cfg.RedisAddr))

	return session.NewRedisStore(client, cfg.SessionTTL), func() {
		if err := client.Close(); err != nil {
			logger.LogWarn("failed to close redis client", zap.Error(err))
		}
	}, nil
}

func newAuditRecorder(cfg *config.Config) (audit.Recorder, func(), error) {
	if cfg.AuditAMQPURI == "" {
		return audit.Discard(), func() {}, nil
	}

	conn, err := queue.NewConnection(queue.ConnectionConfig{
		URI:         cfg.AuditAMQPURI,
		QueueConfig: &queue.Config{Name: cfg.AuditQueue, Durable: true},
	})
	if err != nil {
		return nil, nil, err
	}
	logger.LogInfo("publishing session events", zap.String("queue", cfg.AuditQueue))

	publisher := queue.NewPublisher(conn.Ch, queue.PublishConfig{
		RoutingKey:   cfg.AuditQueue,
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
	})

	return audit.NewRecorder(publisher), func() {
		if err := conn.Close(); err != nil {
			logger.LogWarn("failed to close amqp connection", zap.Error(err))
		}
	}, nil
}
