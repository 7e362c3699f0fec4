package monitor

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/wedding-planner/wedding-e2e/internal/scenario"
)

// Metrics records journey outcomes for scraping.
type Metrics struct {
	reg         *prometheus.Registry
	runs        *prometheus.CounterVec
	duration    *prometheus.HistogramVec
	lastSuccess *prometheus.GaugeVec
	reached     *prometheus.GaugeVec
	suiteRuns   prometheus.Counter
}

// NewMetrics registers the journey collectors on a private registry.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)
	return &Metrics{
		reg: reg,
		runs: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "wedding_e2e",
			Name:      "journey_runs_total",
			Help:      "Journey runs by outcome class.",
		}, []string{"journey", "class"}),
		duration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "wedding_e2e",
			Name:      "journey_duration_seconds",
			Help:      "Wall time of one journey including browser start.",
			Buckets:   []float64{1, 2, 5, 10, 20, 30, 60, 120},
		}, []string{"journey"}),
		lastSuccess: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "wedding_e2e",
			Name:      "journey_last_success_timestamp_seconds",
			Help:      "Unix time of the journey's last passing run.",
		}, []string{"journey"}),
		reached: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "wedding_e2e",
			Name:      "journey_reached_phase",
			Help:      "Last phase completed in the most recent run (6 is verified).",
		}, []string{"journey"}),
		suiteRuns: f.NewCounter(prometheus.CounterOpts{
			Namespace: "wedding_e2e",
			Name:      "suite_runs_total",
			Help:      "Scheduled suite runs started.",
		}),
	}
}

// Observe records one journey result finished at now.
func (m *Metrics) Observe(res scenario.Result, now time.Time) {
	m.runs.WithLabelValues(res.Journey, scenario.Classify(res.Err)).Inc()
	m.duration.WithLabelValues(res.Journey).Observe(res.Elapsed.Seconds())
	m.reached.WithLabelValues(res.Journey).Set(float64(res.Reached))
	if res.Passed() {
		m.lastSuccess.WithLabelValues(res.Journey).Set(float64(now.Unix()))
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{Registry: m.reg})
}
