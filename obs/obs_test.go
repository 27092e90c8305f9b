package obs

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"RemindBot/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestNewLogger_Levels(t *testing.T) {
	l, level, err := NewLogger(&config.Config{Log: config.LogCfg{Level: "loud"}, Version: "dev"})
	require.NoError(t, err)
	assert.True(t, l.Core().Enabled(zapcore.InfoLevel))
	assert.False(t, l.Core().Enabled(zapcore.DebugLevel))

	level.SetLevel(zapcore.DebugLevel)
	assert.True(t, l.Core().Enabled(zapcore.DebugLevel), "level changes apply to the built logger")

	l, _, err = NewLogger(&config.Config{Log: config.LogCfg{Level: "warn", Pretty: true}})
	require.NoError(t, err)
	assert.False(t, l.Core().Enabled(zapcore.InfoLevel))
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestMetricsServer_Healthz(t *testing.T) {
	timersErr := error(nil)
	srv := createMetricsServer(":0", zap.NewAtomicLevel(), []Check{
		{Name: "gateway", Run: func(context.Context) error { return nil }},
		{Name: "timers", Run: func(context.Context) error { return timersErr }},
	})

	rec := get(t, srv.Handler, "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
	var report healthReport
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	assert.Equal(t, healthReport{Status: "ok", Checks: map[string]string{"gateway": "ok", "timers": "ok"}}, report)

	timersErr = errors.New("expiry scanner stalled")
	rec = get(t, srv.Handler, "/healthz")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	assert.Equal(t, "unhealthy", report.Status)
	assert.Equal(t, "expiry scanner stalled", report.Checks["timers"])
	assert.Equal(t, "ok", report.Checks["gateway"])

	assert.Equal(t, http.StatusOK, get(t, srv.Handler, "/metrics").Code)
}

func TestMetricsServer_LogLevel(t *testing.T) {
	level := zap.NewAtomicLevelAt(zapcore.InfoLevel)
	srv := createMetricsServer(":0", level, nil)

	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/loglevel", strings.NewReader(`{"level":"debug"}`)))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, zapcore.DebugLevel, level.Level())

	assert.Contains(t, get(t, srv.Handler, "/loglevel").Body.String(), "debug")
}
