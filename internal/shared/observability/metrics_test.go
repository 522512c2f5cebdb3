package observability

import (
	"context"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_IndependentRegistries(t *testing.T) {
	a := NewMetrics()
	b := NewMetrics()

	a.FilesPrinted.Inc()
	a.ImportsTotal.WithLabelValues(OutcomeResolved).Add(2)

	assert.Equal(t, 1.0, testutil.ToFloat64(a.FilesPrinted))
	assert.Equal(t, 0.0, testutil.ToFloat64(b.FilesPrinted))
	assert.Equal(t, 2.0, testutil.ToFloat64(a.ImportsTotal.WithLabelValues(OutcomeResolved)))
}

func TestMetrics_WriteTextfile(t *testing.T) {
	m := NewMetrics()
	m.FilesPrinted.Add(3)
	m.ReadErrors.Inc()

	path := filepath.Join(t.TempDir(), "printts.prom")
	require.NoError(t, m.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(data)
	assert.Contains(t, text, "printts_files_printed_total 3")
	assert.Contains(t, text, "printts_read_errors_total 1")
}

func TestMetrics_Handler(t *testing.T) {
	m := NewMetrics()
	m.WatchRunsTotal.Inc()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	assert.Equal(t, 200, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "printts_watch_runs_total 1"))
}

func TestSetupTracing_DisabledWithoutEndpoint(t *testing.T) {
	shutdown, err := SetupTracing(context.Background(), "", "test")
	require.NoError(t, err)
	require.NotNil(t, shutdown)
	assert.NoError(t, shutdown(context.Background()))

	_, span := Tracer().Start(context.Background(), "noop")
	span.End()
}
