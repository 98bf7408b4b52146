package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics groups all Prometheus instruments used by the service.
type Metrics struct {
	IntakeEvents   *prometheus.CounterVec
	StoreErrors    *prometheus.CounterVec
	ScanRuns       *prometheus.CounterVec
	DueEvents      prometheus.Counter
	NotifyErrors   prometheus.Counter
	LastScanTime   prometheus.Gauge
	ScanDuration   prometheus.Histogram
	HTTPRequests   *prometheus.CounterVec
	StoredReminder prometheus.Gauge

	gatherer prometheus.Gatherer
}

// NewMetrics registers instruments on the default Prometheus registry.
func NewMetrics(namespace string) *Metrics {
	return newMetrics(namespace, prometheus.DefaultRegisterer, prometheus.DefaultGatherer)
}

// NewMetricsWith registers instruments on reg; Handler serves reg.
func NewMetricsWith(namespace string, reg *prometheus.Registry) *Metrics {
	return newMetrics(namespace, reg, reg)
}

func newMetrics(namespace string, reg prometheus.Registerer, gatherer prometheus.Gatherer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		gatherer: gatherer,
		IntakeEvents: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "intake_events_total",
			Help:      "Reminder intake attempts by outcome.",
		}, []string{"outcome"}),
		StoreErrors: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "store_errors_total",
			Help:      "Reminder store failures by operation.",
		}, []string{"op"}),
		ScanRuns: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "scan_runs_total",
			Help:      "Due-reminder scans by outcome.",
		}, []string{"outcome"}),
		DueEvents: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "due_events_total",
			Help:      "Due-today notifications emitted by the scanner.",
		}),
		NotifyErrors: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notify_errors_total",
			Help:      "Notifier failures while emitting due reminders.",
		}),
		LastScanTime: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_scan_timestamp_seconds",
			Help:      "Unix time of the last completed scan.",
		}),
		ScanDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "scan_duration_ms",
			Help:      "Duration of a due-reminder scan in milliseconds.",
			Buckets:   []float64{1, 5, 10, 25, 50, 100, 250, 1000},
		}),
		HTTPRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP API requests by route and status code.",
		}, []string{"route", "code"}),
		StoredReminder: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "stored_reminders",
			Help:      "Number of reminders seen in the store on the last load.",
		}),
	}
}

func (m *Metrics) ObserveIntake(outcome string) {
	m.IntakeEvents.WithLabelValues(outcome).Inc()
}

func (m *Metrics) ObserveStoreError(op string) {
	m.StoreErrors.WithLabelValues(op).Inc()
}

func (m *Metrics) ObserveScan(outcome string, due int, d time.Duration) {
	m.ScanRuns.WithLabelValues(outcome).Inc()
	if outcome != "ok" {
		return
	}
	m.DueEvents.Add(float64(due))
	m.ScanDuration.Observe(float64(d.Milliseconds()))
	m.LastScanTime.Set(float64(time.Now().Unix()))
}

// Handler exposes the registry these metrics were registered on.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
