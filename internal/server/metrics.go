package server

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"yashubustudio/claimrisk/claimrisk"
)

// Metrics records prediction outcomes. It implements claimrisk.Observer.
type Metrics struct {
	predictions *prometheus.CounterVec
	failures    prometheus.Counter
	rejected    prometheus.Counter
	latency     prometheus.Histogram
	probability prometheus.Histogram
}

// NewMetrics registers the prediction metrics on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		predictions: f.NewCounterVec(prometheus.CounterOpts{
			Name: "claimrisk_predictions_total",
			Help: "Scored predictions by risk label",
		}, []string{"label"}),
		failures: f.NewCounter(prometheus.CounterOpts{
			Name: "claimrisk_scoring_failures_total",
			Help: "Predictions that failed inside the classifier",
		}),
		rejected: f.NewCounter(prometheus.CounterOpts{
			Name: "claimrisk_rejected_submissions_total",
			Help: "Submissions rejected before scoring",
		}),
		latency: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "claimrisk_prediction_duration_seconds",
			Help:    "Time spent scoring a single row",
			Buckets: prometheus.ExponentialBuckets(0.0005, 2, 12),
		}),
		probability: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "claimrisk_claim_probability",
			Help:    "Distribution of predicted claim probabilities",
			Buckets: prometheus.LinearBuckets(0.1, 0.1, 9),
		}),
	}
}

// ObservePrediction counts a successful prediction.
func (m *Metrics) ObservePrediction(res claimrisk.Result) {
	m.predictions.WithLabelValues(string(res.Label)).Inc()
	m.latency.Observe(res.Elapsed.Seconds())
	m.probability.Observe(res.Probability)
}

// ObserveFailure counts a prediction that failed.
func (m *Metrics) ObserveFailure(err error, elapsed time.Duration) {
	if errors.Is(err, claimrisk.ErrScoring) {
		m.failures.Inc()
	}
	m.latency.Observe(elapsed.Seconds())
}

// ObserveRejected counts a submission that never reached the classifier.
func (m *Metrics) ObserveRejected() {
	m.rejected.Inc()
}
