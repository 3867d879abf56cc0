package config

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

type Config struct {
	Port        string `validate:"required,numeric"`
	Env         string
	LogLevel    string
	ServiceName string `validate:"required"`

	AuthAPIBaseURL       string        `validate:"required,url"`
	PredictionAPIBaseURL string        `validate:"required,url"`
	APIVersion           string        `validate:"required,numeric"`
	HTTPClientTimeout    time.Duration `validate:"gt=0"`

	SessionCookieName   string        `validate:"required"`
	SessionTTL          time.Duration `validate:"gt=0"`
	SessionCookieSecure bool

	// RedisAddr selects the Redis session store; sessions stay in memory when empty.
	RedisAddr     string
	RedisPassword string
	RedisDB       int `validate:"gte=0"`

	// AuditAMQPURI enables publishing session events when set.
	AuditAMQPURI string
	AuditQueue   string `validate:"required_with=AuditAMQPURI"`

	OtelEnabled    bool
	OtelEndpoint   string  `validate:"required_if=OtelEnabled true"`
	OtelSampleRate float64 `validate:"gte=0,lte=1"`
}

var defaults = map[string]interface{}{
	"PORT":                    "8080",
	"ENV":                     "development",
	"LOG_LEVEL":               "info",
	"SERVICE_NAME":            "prediction-portal",
	"AUTH_API_BASE_URL":       "http://localhost:8000",
	"PREDICTION_API_BASE_URL": "http://localhost:8001",
	"API_VERSION":             "2",
	"HTTP_CLIENT_TIMEOUT":     "10s",
	"SESSION_COOKIE_NAME":     "sessionid",
	"SESSION_TTL":             "336h",
	"SESSION_COOKIE_SECURE":   false,
	"REDIS_DB":                0,
	"AUDIT_QUEUE":             "portal.session-events",
	"OTEL_ENABLED":            false,
	"OTEL_SAMPLE_RATE":        1.0,
}

// Load reads the configuration from the environment and validates it.
func Load() (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	// AutomaticEnv only answers for keys viper already knows about.
	for _, key := range []string{"REDIS_ADDR", "REDIS_PASSWORD", "AUDIT_AMQP_URI", "OTEL_ENDPOINT"} {
		_ = v.BindEnv(key)
	}

	cfg := &Config{
		Port:                 v.GetString("PORT"),
		Env:                  v.GetString("ENV"),
		LogLevel:             v.GetString("LOG_LEVEL"),
		ServiceName:          v.GetString("SERVICE_NAME"),
		AuthAPIBaseURL:       v.GetString("AUTH_API_BASE_URL"),
		PredictionAPIBaseURL: v.GetString("PREDICTION_API_BASE_URL"),
		APIVersion:           v.GetString("API_VERSION"),
		HTTPClientTimeout:    v.GetDuration("HTTP_CLIENT_TIMEOUT"),
		SessionCookieName:    v.GetString("SESSION_COOKIE_NAME"),
		SessionTTL:           v.GetDuration("SESSION_TTL"),
		SessionCookieSecure:  v.GetBool("SESSION_COOKIE_SECURE"),
		RedisAddr:            v.GetString("REDIS_ADDR"),
		RedisPassword:        v.GetString("REDIS_PASSWORD"),
		RedisDB:              v.GetInt("REDIS_DB"),
		AuditAMQPURI:         v.GetString("AUDIT_AMQP_URI"),
		AuditQueue:           v.GetString("AUDIT_QUEUE"),
		OtelEnabled:          v.GetBool("OTEL_ENABLED"),
		OtelEndpoint:         v.GetString("OTEL_ENDPOINT"),
		OtelSampleRate:       v.GetFloat64("OTEL_SAMPLE_RATE"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func (cfg *Config) Validate() error {
	return validator.New(validator.WithRequiredStructEnabled()).Struct(cfg)
}
