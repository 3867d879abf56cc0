package clients

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestExecuteLogsDownstreamCall(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	t.Cleanup(zap.ReplaceGlobals(zap.New(core)))

	client, _ := newPredictionClient(t, http.StatusOK, `{"results":[]}`)
	_, err := client.List(context.Background(), "acc-1")
	require.NoError(t, err)

	entries := logs.FilterMessage("downstream call").TakeAll()
	require.Len(t, entries, 1)
	assert.Equal(t, zapcore.DebugLevel, entries[0].Level)

	fields := entries[0].ContextMap()
	assert.Equal(t, "prediction", fields["service"])
	assert.Equal(t, "list", fields["operation"])
	assert.Equal(t, "/api/v2/predictions/", fields["path"])
	assert.EqualValues(t, http.StatusOK, fields["status"])
	assert.NotContains(t, fields, "authorization")
}

func TestExecuteLogsTransportFailure(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	t.Cleanup(zap.ReplaceGlobals(zap.New(core)))

	client := NewAuthClient(Config{BaseURL: "http://127.0.0.1:1", Timeout: time.Second})
	_, err := client.Refresh(context.Background(), "ref-1")
	require.Error(t, err)

	entries := logs.FilterMessage("downstream call").TakeAll()
	require.Len(t, entries, 1)
	assert.EqualValues(t, 0, entries[0].ContextMap()["status"])
	assert.Equal(t, "refresh", entries[0].ContextMap()["operation"])
}
