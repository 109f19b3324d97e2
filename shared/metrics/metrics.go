package metrics

import (
	"bedcall/config"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Dial results.
const (
	DialPlaced  = "placed"
	DialFailed  = "failed"
	DialSkipped = "skipped"
)

// Metrics owns a private registry so several instances (tests, cli) never collide on
// the global default registerer. All methods are no-ops on a nil receiver.
type Metrics struct {
	registry *prometheus.Registry

	httpRequests   *prometheus.CounterVec
	httpDuration   *prometheus.HistogramVec
	httpInFlight   prometheus.Gauge
	dials          *prometheus.CounterVec
	callOutcomes   *prometheus.CounterVec
	responses      *prometheus.CounterVec
	bedsConfirmed  prometheus.Counter
	dispatchRounds *prometheus.CounterVec
	queueBuilds    prometheus.Counter
	queueSize      prometheus.Histogram
}

func New(cfg *config.Config) *Metrics {
	namespace := cfg.Metrics.Namespace
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests processed",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latencies in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
		httpInFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "http_inflight_requests",
			Help:      "Number of HTTP requests currently being served",
		}),
		dials: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dials_total",
			Help:      "Outbound call attempts partitioned by result",
		}, []string{"result"}),
		callOutcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "call_outcomes_total",
			Help:      "Provider call status callbacks partitioned by mapped queue status",
		}, []string{"status"}),
		responses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "responses_total",
			Help:      "Recorded host responses partitioned by choice",
		}, []string{"choice"}),
		bedsConfirmed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "beds_confirmed_total",
			Help:      "Beds confirmed across all campaigns",
		}),
		dispatchRounds: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dispatch_rounds_total",
			Help:      "Dispatch rounds partitioned by outcome",
		}, []string{"outcome"}),
		queueBuilds: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "queue_builds_total",
			Help:      "Number of call queues built",
		}),
		queueSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "queue_size",
			Help:      "Number of hosts placed in a freshly built queue",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 10),
		}),
	}

	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.httpRequests, m.httpDuration, m.httpInFlight,
		m.dials, m.callOutcomes, m.responses, m.bedsConfirmed,
		m.dispatchRounds, m.queueBuilds, m.queueSize,
	)

	return m
}

func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}

	return m.registry
}

func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}

	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}

	labels := prometheus.Labels{"method": method, "route": route, "status": strconv.Itoa(status)}
	m.httpRequests.With(labels).Inc()
	m.httpDuration.With(labels).Observe(elapsed.Seconds())
}

// TrackInFlight increments the in-flight gauge and returns the matching decrement.
func (m *Metrics) TrackInFlight() func() {
	if m == nil {
		return func() {}
	}

	m.httpInFlight.Inc()

	return m.httpInFlight.Dec
}

func (m *Metrics) ObserveDial(result string) {
	if m == nil {
		return
	}

	m.dials.WithLabelValues(result).Inc()
}

func (m *Metrics) ObserveCallOutcome(status string) {
	if m == nil {
		return
	}

	m.callOutcomes.WithLabelValues(status).Inc()
}

func (m *Metrics) ObserveResponse(choice string, beds int) {
	if m == nil {
		return
	}

	m.responses.WithLabelValues(choice).Inc()

	if beds > 0 {
		m.bedsConfirmed.Add(float64(beds))
	}
}

func (m *Metrics) ObserveDispatch(outcome string) {
	if m == nil {
		return
	}

	m.dispatchRounds.WithLabelValues(outcome).Inc()
}

func (m *Metrics) ObserveQueueBuild(size int) {
	if m == nil {
		return
	}

	m.queueBuilds.Inc()
	m.queueSize.Observe(float64(size))
}
