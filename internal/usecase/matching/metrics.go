package matching

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	MetricRankingPassesTotal    = "buddy_ranking_passes_total"
	MetricRankingPassDuration   = "buddy_ranking_pass_duration_seconds"
	MetricRankingDegradedFetch  = "buddy_ranking_degraded_fetches_total"
	MetricRankingCandidatesSeen = "buddy_ranking_candidates"
	MetricScoringFallbacksTotal = "buddy_scoring_fallbacks_total"
)

// Metrics contains Prometheus collectors for ranking passes.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	passesTotal      prometheus.Counter
	passDuration     prometheus.Histogram
	degradedFetches  *prometheus.CounterVec
	candidates       prometheus.Histogram
	scoringFallbacks prometheus.Counter
}

// NewMetrics creates the collectors without registering them.
func NewMetrics() *Metrics {
	return &Metrics{
		passesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: MetricRankingPassesTotal,
			Help: "Total number of buddy ranking passes",
		}),
		passDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    MetricRankingPassDuration,
			Help:    "Histogram of buddy ranking pass duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5},
		}),
		degradedFetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: MetricRankingDegradedFetch,
			Help: "Repository reads that failed and were replaced by an empty result",
		}, []string{"source"}),
		candidates: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    MetricRankingCandidatesSeen,
			Help:    "Number of candidates scored per ranking pass",
			Buckets: []float64{0, 10, 25, 50, 100, 200, 300},
		}),
		scoringFallbacks: prometheus.NewCounter(prometheus.CounterOpts{
			Name: MetricScoringFallbacksTotal,
			Help: "Candidate pairs that received the default score",
		}),
	}
}

// Register registers all collectors with the given registry.
func (m *Metrics) Register(reg prometheus.Registerer) error {
	collectors := []prometheus.Collector{
		m.passesTotal,
		m.passDuration,
		m.degradedFetches,
		m.candidates,
		m.scoringFallbacks,
	}
	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

func (m *Metrics) observePass(seconds float64, candidates int) {
	if m == nil {
		return
	}
	m.passesTotal.Inc()
	m.passDuration.Observe(seconds)
	m.candidates.Observe(float64(candidates))
}

func (m *Metrics) degraded(source string) {
	if m == nil {
		return
	}
	m.degradedFetches.WithLabelValues(source).Inc()
}

func (m *Metrics) fallback() {
	if m == nil {
		return
	}
	m.scoringFallbacks.Inc()
}
