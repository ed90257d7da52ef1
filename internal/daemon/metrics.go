package daemon

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/manav03panchal/safecompanion/internal/errors"
	"github.com/manav03panchal/safecompanion/internal/model"
	"github.com/manav03panchal/safecompanion/internal/monitor"
)

const metricsNamespace = "safecompanion"

// Metrics holds the monitor's Prometheus collectors. It records finished
// alerts and checks, so it can be installed on both the alert service and
// the monitor.
type Metrics struct {
	registry *prometheus.Registry

	alertsTotal     *prometheus.CounterVec
	deliveriesTotal *prometheus.CounterVec
	alertDuration   prometheus.Histogram
	checksTotal     *prometheus.CounterVec
	idleSeconds     prometheus.Gauge
	lastCheck       prometheus.Gauge
	noticesTotal    prometheus.Counter
	errorsTotal     *prometheus.CounterVec
}

// NewMetrics creates metrics on a private registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		alertsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "alert",
			Name:      "total",
			Help:      "Emergency alerts by result (sent, failed).",
		}, []string{"result"}),
		deliveriesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "alert",
			Name:      "deliveries_total",
			Help:      "Per-contact alert deliveries by status.",
		}, []string{"status"}),
		alertDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: "alert",
			Name:      "duration_seconds",
			Help:      "Time from SOS to the last contact attempt.",
			Buckets:   []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60},
		}),
		checksTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "monitor",
			Name:      "checks_total",
			Help:      "Inactivity checks by result (active, inactive, error).",
		}, []string{"result"}),
		idleSeconds: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Subsystem: "monitor",
			Name:      "idle_seconds",
			Help:      "Time since the last recorded activity at the last check.",
		}),
		lastCheck: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Subsystem: "monitor",
			Name:      "last_check_timestamp_seconds",
			Help:      "Unix time of the last successful check.",
		}),
		noticesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "monitor",
			Name:      "notices_total",
			Help:      "Notices raised by checks.",
		}),
		errorsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "errors_total",
			Help:      "Errors by category.",
		}, []string{"category"}),
	}

	m.registry.MustRegister(
		m.alertsTotal,
		m.deliveriesTotal,
		m.alertDuration,
		m.checksTotal,
		m.idleSeconds,
		m.lastCheck,
		m.noticesTotal,
		m.errorsTotal,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// RecordAlert implements alert.Recorder.
func (m *Metrics) RecordAlert(outcome *model.AlertOutcome, err error) {
	if err != nil {
		m.alertsTotal.WithLabelValues("failed").Inc()
		m.RecordError(err)
		return
	}
	m.alertsTotal.WithLabelValues("sent").Inc()
	for _, r := range outcome.Results {
		m.deliveriesTotal.WithLabelValues(string(r.Status)).Inc()
	}
	m.alertDuration.Observe(outcome.Duration().Seconds())
}

// RecordCheck implements monitor.Recorder.
func (m *Metrics) RecordCheck(result *monitor.CheckResult, err error) {
	if err != nil {
		m.checksTotal.WithLabelValues("error").Inc()
		m.RecordError(err)
		return
	}

	label := "active"
	if result.Inactive {
		label = "inactive"
	}
	m.checksTotal.WithLabelValues(label).Inc()
	m.idleSeconds.Set(result.Idle.Seconds())
	m.lastCheck.Set(float64(result.At.Unix()))
	m.noticesTotal.Add(float64(len(result.Notices)))
}

// RecordError counts err under its error category.
func (m *Metrics) RecordError(err error) {
	m.errorsTotal.WithLabelValues(errors.Classify(err).String()).Inc()
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
