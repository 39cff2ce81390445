// Package metrics provides the centralized Prometheus registry for the
// prediction engine.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Global registry instance
var (
	registry *prometheus.Registry
	once     sync.Once
)

// Counter metrics
var (
	AnalysisRunsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "draw_edge",
		Name:      "analysis_runs_total",
		Help:      "Total number of analysis runs",
	}, []string{"trigger"})
	CandidatesScoredTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "draw_edge",
		Name:      "candidates_scored_total",
		Help:      "Total number of candidates scored by the engine",
	})
	CandidatesInvalidTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "draw_edge",
		Name:      "candidates_invalid_total",
		Help:      "Total number of candidates dropped by validation",
	})
	EstimationFallbacksTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "draw_edge",
		Name:      "estimation_fallbacks_total",
		Help:      "Total number of estimations that fell back to the default draw rate",
	})
	PredictionsUpsertedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "draw_edge",
		Name:      "predictions_upserted_total",
		Help:      "Total number of predictions written to the store",
	})
	OutcomesRecordedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "draw_edge",
		Name:      "outcomes_recorded_total",
		Help:      "Total number of outcomes recorded",
	}, []string{"result"})
	OutcomeConflictsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "draw_edge",
		Name:      "outcome_conflicts_total",
		Help:      "Total number of outcome recordings rejected due to a conflicting stored result",
	})
	FixtureFetchErrorsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "draw_edge",
		Name:      "fixture_fetch_errors_total",
		Help:      "Total number of failed fixture/odds fetches",
	})
)

// Gauge metrics
var (
	QualifyingPicks = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "draw_edge",
		Name:      "qualifying_picks",
		Help:      "Number of picks surviving the EV filter in the last run",
	})
	RollingHitRate = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "draw_edge",
		Name:      "rolling_hit_rate",
		Help:      "Hit rate over the rolling backtest window",
	})
	RollingSettledCount = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "draw_edge",
		Name:      "rolling_settled_count",
		Help:      "Number of settled predictions in the rolling backtest window",
	})
	PatternBoost = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "draw_edge",
		Name:      "pattern_boost",
		Help:      "Combined pattern boost applied to the current run",
	})
)

// Histogram metrics
var (
	AnalysisDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "draw_edge",
		Name:      "analysis_duration_seconds",
		Help:      "Duration of full analysis runs in seconds",
		Buckets:   []float64{0.1, 0.5, 1, 5, 10, 30, 60, 300},
	})
	FixtureFetchDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "draw_edge",
		Name:      "fixture_fetch_duration_seconds",
		Help:      "Duration of fixture/odds fetches in seconds",
		Buckets:   prometheus.DefBuckets,
	})
)

// InitRegistry initializes the global Prometheus registry.
func InitRegistry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()

		registry.MustRegister(AnalysisRunsTotal)
		registry.MustRegister(CandidatesScoredTotal)
		registry.MustRegister(CandidatesInvalidTotal)
		registry.MustRegister(EstimationFallbacksTotal)
		registry.MustRegister(PredictionsUpsertedTotal)
		registry.MustRegister(OutcomesRecordedTotal)
		registry.MustRegister(OutcomeConflictsTotal)
		registry.MustRegister(FixtureFetchErrorsTotal)

		registry.MustRegister(QualifyingPicks)
		registry.MustRegister(RollingHitRate)
		registry.MustRegister(RollingSettledCount)
		registry.MustRegister(PatternBoost)

		registry.MustRegister(AnalysisDuration)
		registry.MustRegister(FixtureFetchDuration)
	})
	return registry
}

// Handler returns an HTTP handler serving the registry
func Handler() http.Handler {
	return promhttp.HandlerFor(InitRegistry(), promhttp.HandlerOpts{})
}

// RecordAnalysisRun records a completed analysis run and its duration
func RecordAnalysisRun(trigger string, durationSeconds float64) {
	AnalysisRunsTotal.WithLabelValues(trigger).Inc()
	AnalysisDuration.Observe(durationSeconds)
}

// RecordOutcome records a recorded outcome by result
func RecordOutcome(result string) {
	OutcomesRecordedTotal.WithLabelValues(result).Inc()
}
