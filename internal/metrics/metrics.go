package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the collectors of one process. A nil *Metrics is valid and
// records nothing.
type Metrics struct {
	stageDuration  *prometheus.HistogramVec
	requests       *prometheus.CounterVec
	nonConvergence prometheus.Counter
	sentences      prometheus.Histogram
}

// New creates the collectors and registers them on reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		stageDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "provsum_stage_duration_seconds",
				Help:    "Time spent in each summarization stage",
				Buckets: prometheus.ExponentialBuckets(0.001, 4, 8),
			},
			[]string{"stage"},
		),
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "provsum_requests_total",
				Help: "Summarization requests by outcome",
			},
			[]string{"status"},
		),
		nonConvergence: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "provsum_centrality_nonconvergence_total",
			Help: "Centrality runs that hit the iteration cap",
		}),
		sentences: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "provsum_ranked_sentences",
			Help:    "Sentence count per ranking invocation",
			Buckets: []float64{1, 10, 50, 100, 250, 500, 1000, 2000},
		}),
	}
	reg.MustRegister(m.stageDuration, m.requests, m.nonConvergence, m.sentences)
	return m
}

// ObserveStage records how long a stage took.
func (m *Metrics) ObserveStage(stage string, d time.Duration) {
	if m == nil {
		return
	}
	m.stageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

// RequestDone counts a finished request.
func (m *Metrics) RequestDone(status string) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(status).Inc()
}

// NonConverged counts a centrality run that hit its iteration cap.
func (m *Metrics) NonConverged() {
	if m == nil {
		return
	}
	m.nonConvergence.Inc()
}

// ObserveSentences records the sentence count of one ranking call.
func (m *Metrics) ObserveSentences(n int) {
	if m == nil {
		return
	}
	m.sentences.Observe(float64(n))
}
