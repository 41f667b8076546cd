// Package metrics exposes Prometheus instruments for the forecasting service.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome labels.
const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
)

// Metrics groups the service instruments. A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry    *prometheus.Registry
	analyses    *prometheus.CounterVec
	predictions *prometheus.CounterVec
	retrains    *prometheus.CounterVec
	retrainTime prometheus.Histogram
	modelYear   prometheus.Gauge
}

// New creates the instruments on a fresh registry so repeated calls (tests)
// do not collide.
func New() *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		registry: reg,
		analyses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "tourism",
			Name:      "analyses_total",
			Help:      "Uploaded datasets processed, by outcome.",
		}, []string{"outcome"}),
		predictions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "tourism",
			Name:      "predictions_total",
			Help:      "Arrival predictions served, by outcome.",
		}, []string{"outcome"}),
		retrains: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "tourism",
			Name:      "model_retrains_total",
			Help:      "Model retraining attempts, by outcome.",
		}, []string{"outcome"}),
		retrainTime: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "tourism",
			Name:      "model_retrain_duration_seconds",
			Help:      "Time spent fetching the dataset and fitting the model.",
			Buckets:   prometheus.DefBuckets,
		}),
		modelYear: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "tourism",
			Name:      "model_last_training_year",
			Help:      "Last year covered by the active model's training window.",
		}),
	}

	reg.MustRegister(m.analyses, m.predictions, m.retrains, m.retrainTime, m.modelYear)
	return m
}

// Handler serves the /metrics scrape endpoint.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) ObserveAnalysis(err error) {
	if m == nil {
		return
	}
	m.analyses.WithLabelValues(outcome(err)).Inc()
}

func (m *Metrics) ObservePrediction(err error) {
	if m == nil {
		return
	}
	m.predictions.WithLabelValues(outcome(err)).Inc()
}

func (m *Metrics) ObserveRetrain(started time.Time, err error) {
	if m == nil {
		return
	}
	m.retrains.WithLabelValues(outcome(err)).Inc()
	m.retrainTime.Observe(time.Since(started).Seconds())
}

func (m *Metrics) SetModelYear(year int) {
	if m == nil {
		return
	}
	m.modelYear.Set(float64(year))
}

func outcome(err error) string {
	if err != nil {
		return OutcomeError
	}
	return OutcomeOK
}
