// Package metrics records prediction outcomes.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/doeshing/irisform/internal/domain"
	"github.com/doeshing/irisform/internal/ports"
)

// Prediction outcomes.
const (
	OutcomeSuccess      = domain.OutcomeSuccess
	OutcomeRequestError = domain.OutcomeRequestError
	OutcomeInvalidInput = domain.OutcomeInvalidInput
)

// PromSink exposes prediction counters and latency to Prometheus.
type PromSink struct {
	registry    *prometheus.Registry
	predictions *prometheus.CounterVec
	latency     *prometheus.HistogramVec
	history     prometheus.Gauge
}

// NewPromSink registers the collectors on a private registry.
func NewPromSink() (*PromSink, error) {
	return NewPromSinkWithRegistry(prometheus.NewRegistry())
}

// NewPromSinkWithRegistry registers the collectors on reg, reusing collectors
// that are already registered there.
func NewPromSinkWithRegistry(reg *prometheus.Registry) (*PromSink, error) {
	predictions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "irisform_predictions_total",
		Help: "Prediction submissions by outcome",
	}, []string{"outcome"})
	latency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "irisform_prediction_duration_seconds",
		Help:    "Round trip time of prediction requests",
		Buckets: prometheus.DefBuckets,
	}, []string{"outcome"})
	history := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "irisform_history_entries",
		Help: "Entries currently held in the prediction history",
	})

	if err := reg.Register(predictions); err != nil {
		are, ok := err.(prometheus.AlreadyRegisteredError)
		if !ok {
			return nil, err
		}
		predictions = are.ExistingCollector.(*prometheus.CounterVec)
	}
	if err := reg.Register(latency); err != nil {
		are, ok := err.(prometheus.AlreadyRegisteredError)
		if !ok {
			return nil, err
		}
		latency = are.ExistingCollector.(*prometheus.HistogramVec)
	}
	if err := reg.Register(history); err != nil {
		are, ok := err.(prometheus.AlreadyRegisteredError)
		if !ok {
			return nil, err
		}
		history = are.ExistingCollector.(prometheus.Gauge)
	}

	return &PromSink{registry: reg, predictions: predictions, latency: latency, history: history}, nil
}

// ObservePrediction implements ports.PredictionMetrics. Invalid input never
// reaches the network, so it is counted without a latency sample.
func (s *PromSink) ObservePrediction(outcome string, elapsed time.Duration) {
	s.predictions.WithLabelValues(outcome).Inc()
	if outcome != OutcomeInvalidInput {
		s.latency.WithLabelValues(outcome).Observe(elapsed.Seconds())
	}
}

// SetHistorySize implements ports.PredictionMetrics.
func (s *PromSink) SetHistorySize(n int) {
	s.history.Set(float64(n))
}

// Handler serves the registry in the Prometheus text format.
func (s *PromSink) Handler() http.Handler {
	return promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{})
}

var _ ports.PredictionMetrics = (*PromSink)(nil)
