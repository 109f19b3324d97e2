package metrics_test

import (
	"bedcall/config"
	"bedcall/shared/metrics"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMetrics() *metrics.Metrics {
	cfg := &config.Config{}
	cfg.Metrics.Namespace = "bedcall"

	return metrics.New(cfg)
}

func TestMetrics_Counters(t *testing.T) {
	m := newMetrics()

	m.ObserveDial(metrics.DialPlaced)
	m.ObserveDial(metrics.DialPlaced)
	m.ObserveDial(metrics.DialFailed)
	m.ObserveResponse("accepted", 3)
	m.ObserveResponse("declined", 0)
	m.ObserveQueueBuild(4)

	count, err := testutil.GatherAndCount(m.Registry(), "bedcall_dials_total")
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	expected := `
# HELP bedcall_beds_confirmed_total Beds confirmed across all campaigns
# TYPE bedcall_beds_confirmed_total counter
bedcall_beds_confirmed_total 3
`
	assert.NoError(t, testutil.GatherAndCompare(m.Registry(), strings.NewReader(expected), "bedcall_beds_confirmed_total"))
}

func TestMetrics_Handler(t *testing.T) {
	m := newMetrics()
	m.ObserveHTTP(http.MethodGet, "/v1/campaigns", http.StatusOK, 20*time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `bedcall_http_requests_total{method="GET",route="/v1/campaigns",status="200"} 1`)
}

func TestMetrics_NilReceiver(t *testing.T) {
	var m *metrics.Metrics

	assert.NotPanics(t, func() {
		m.ObserveDial(metrics.DialPlaced)
		m.ObserveResponse("accepted", 2)
		m.ObserveDispatch("busy")
		m.TrackInFlight()()
	})
}
