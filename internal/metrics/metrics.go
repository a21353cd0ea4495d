// Package metrics records per-run pipeline counters in a Prometheus registry and writes
// them in the node-exporter textfile format, since fightcal runs as a batch job with no
// endpoint to scrape.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "fightcal"

// Recorder owns the registry for one run.
type Recorder struct {
	registry *prometheus.Registry

	cards         *prometheus.CounterVec
	dropped       *prometheus.CounterVec
	lastRun       prometheus.Gauge
	fetchDuration prometheus.Histogram
	notifications *prometheus.CounterVec
}

// New creates a Recorder with every metric registered.
func New() *Recorder {
	r := &Recorder{registry: prometheus.NewRegistry()}

	r.cards = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cards_total",
		Help:      "Cards seen in the schedule text, by result",
	}, []string{"result"})
	r.dropped = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cards_dropped_total",
		Help:      "Cards that produced no event, by reason",
	}, []string{"reason"})
	r.lastRun = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "last_run_timestamp_seconds",
		Help:      "Unix time of the last completed run",
	})
	r.fetchDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "fetch_duration_seconds",
		Help:      "Time spent fetching the schedule page, including retries",
		Buckets:   []float64{0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
	})
	r.notifications = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "notifications_total",
		Help:      "Announcements sent, by channel and outcome",
	}, []string{"channel", "outcome"})

	r.registry.MustRegister(r.cards, r.dropped, r.lastRun, r.fetchDuration, r.notifications)
	return r
}

// Registry exposes the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// ObserveCards records the outcome of a parse run. dropped is keyed by reason.
func (r *Recorder) ObserveCards(converted int, dropped map[string]int) {
	r.cards.WithLabelValues("converted").Add(float64(converted))
	for reason, n := range dropped {
		r.cards.WithLabelValues("dropped").Add(float64(n))
		r.dropped.WithLabelValues(reason).Add(float64(n))
	}
}

// ObserveFetch records how long fetching took.
func (r *Recorder) ObserveFetch(d time.Duration) {
	r.fetchDuration.Observe(d.Seconds())
}

// ObserveNotification counts one announcement attempt.
func (r *Recorder) ObserveNotification(channel string, err error) {
	outcome := "sent"
	if err != nil {
		outcome = "failed"
	}
	r.notifications.WithLabelValues(channel, outcome).Inc()
}

// MarkRun stamps the completion time of the run.
func (r *Recorder) MarkRun(t time.Time) {
	r.lastRun.Set(float64(t.Unix()))
}

// WriteTextfile writes all metrics to path atomically for the textfile collector.
func (r *Recorder) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("writing metrics textfile: %w", err)
	}
	return nil
}
