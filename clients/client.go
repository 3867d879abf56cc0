// Package clients talks to the auth and prediction services.
package clients

import (
	"context"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/goccy/go-json"
	"github.com/octabyte/prediction-portal/otel"
	otellogger "github.com/octabyte/prediction-portal/otel/logger"
	"github.com/octabyte/prediction-portal/otel/metrics"
	"go.uber.org/zap"
)

const tracerName = "github.com/octabyte/prediction-portal/clients"

const DefaultTimeout = 10 * time.Second

type Config struct {
	BaseURL string
	Timeout time.Duration
}

// restClient wraps a resty client with a span and a metric per call.
type restClient struct {
	http *resty.Client
	name string
}

func newRestClient(name string, cfg Config) *restClient {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	client := otel.NewTracedRestyClient(cfg.BaseURL).
		SetTimeout(timeout).
		SetJSONMarshaler(json.Marshal).
		SetJSONUnmarshaler(json.Unmarshal)

	return &restClient{http: client, name: name}
}

func (c *restClient) execute(ctx context.Context, operation, method, url string, req *resty.Request) (*resty.Response, error) {
	ctx, finish := otel.StartHTTPSpan(ctx, tracerName, c.name, operation, method, c.http.BaseURL, url)
	start := time.Now()

	resp, err := req.SetContext(ctx).Execute(method, url)

	status := 0
	if err == nil {
		status = resp.StatusCode()
	}
	elapsed := time.Since(start)
	finish(status, err)
	metrics.RecordDownstreamCall(ctx, c.name, operation, status, elapsed)
	otellogger.DebugCtx(ctx, "downstream call",
		zap.String("service", c.name),
		zap.String("operation", operation),
		zap.String("method", method),
		zap.String("path", url),
		zap.Int("status", status),
		zap.Duration("latency", elapsed))

	if err != nil {
		return nil, err
	}
	return resp, nil
}
