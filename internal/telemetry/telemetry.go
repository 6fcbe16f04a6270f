// Package telemetry provides OpenTelemetry instrumentation for the
// comment pipeline. It exports Prometheus metrics and provides tracing
// capabilities.
package telemetry

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const serviceName = "cadintel"

// Metrics holds all pipeline Prometheus metrics
type Metrics struct {
	// Parse metrics
	CommentsClassified *prometheus.CounterVec
	ParseDuration      prometheus.Histogram
	ParsesTotal        *prometheus.CounterVec
	NoiseComments      prometheus.Counter
	ReviewFlagged      prometheus.Counter

	// Detection metrics
	DetectionsTotal *prometheus.CounterVec
	AutoApplied     prometheus.Counter
	MappingActions  *prometheus.CounterVec

	// Review metrics
	CorrectionsApplied prometheus.Counter
	IncidentsReviewed  prometheus.Counter

	// Model metrics
	RetrainsTotal    *prometheus.CounterVec
	CVAccuracy       prometheus.Gauge
	TrainingExamples prometheus.Gauge
}

// Provider wraps telemetry providers
type Provider struct {
	Tracer  trace.Tracer
	Metrics *Metrics
}

// NewProvider initializes telemetry with Prometheus metrics
func NewProvider() *Provider {
	return &Provider{
		Tracer:  otel.Tracer(serviceName),
		Metrics: initMetrics(),
	}
}

// Handler returns the Prometheus HTTP handler for /metrics endpoint
func (p *Provider) Handler() http.Handler {
	return promhttp.Handler()
}

func initMetrics() *Metrics {
	m := &Metrics{}
	initParseMetrics(m)
	initDetectionMetrics(m)
	initReviewMetrics(m)
	initModelMetrics(m)
	return m
}

func initParseMetrics(m *Metrics) {
	m.CommentsClassified = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cadintel_comments_classified_total",
		Help: "Total comments classified, by assigning layer (PATTERN, ML, OFFICER)",
	}, []string{"source"})

	m.ParseDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "cadintel_parse_duration_seconds",
		Help:    "Time to run the full pipeline over one incident's comment log",
		Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0},
	})

	m.ParsesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cadintel_parses_total",
		Help: "Total parse operations, by kind (initial, reparse)",
	}, []string{"kind"})

	m.NoiseComments = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cadintel_noise_comments_total",
		Help: "Total comments classified as noise",
	})

	m.ReviewFlagged = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cadintel_review_flagged_total",
		Help: "Total comments flagged for officer review",
	})
}

func initDetectionMetrics(m *Metrics) {
	m.DetectionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cadintel_detections_total",
		Help: "Total tactical timestamps detected, by confidence tier",
	}, []string{"confidence"})

	m.AutoApplied = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cadintel_detections_auto_applied_total",
		Help: "Total detections auto-mapped to canonical fields at parse time",
	})

	m.MappingActions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cadintel_mapping_actions_total",
		Help: "Total officer mapping decisions, by action (accept, remap, ignore)",
	}, []string{"action"})
}

func initReviewMetrics(m *Metrics) {
	m.CorrectionsApplied = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cadintel_corrections_applied_total",
		Help: "Total officer category corrections applied",
	})

	m.IncidentsReviewed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cadintel_incidents_reviewed_total",
		Help: "Total incidents marked reviewed by an officer",
	})
}

func initModelMetrics(m *Metrics) {
	m.RetrainsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cadintel_retrains_total",
		Help: "Total retrain attempts, by trigger and result",
	}, []string{"trigger", "result"})

	m.CVAccuracy = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "cadintel_model_cv_accuracy",
		Help: "Cross-validation accuracy of the live classifier",
	})

	m.TrainingExamples = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "cadintel_training_examples",
		Help: "Corpus size at the last retrain",
	})
}

// RecordParse records metrics for one parse operation
func (p *Provider) RecordParse(ctx context.Context, reparse bool, duration time.Duration) {
	kind := "initial"
	if reparse {
		kind = "reparse"
	}
	p.Metrics.ParsesTotal.WithLabelValues(kind).Inc()
	p.Metrics.ParseDuration.Observe(duration.Seconds())
}

// RecordComment records one classified comment
func (p *Provider) RecordComment(ctx context.Context, source string, noise, needsReview bool) {
	p.Metrics.CommentsClassified.WithLabelValues(source).Inc()
	if noise {
		p.Metrics.NoiseComments.Inc()
	}
	if needsReview {
		p.Metrics.ReviewFlagged.Inc()
	}
}

// RecordDetection records one detected timestamp
func (p *Provider) RecordDetection(ctx context.Context, confidence string, autoApplied bool) {
	p.Metrics.DetectionsTotal.WithLabelValues(confidence).Inc()
	if autoApplied {
		p.Metrics.AutoApplied.Inc()
	}
}

// RecordMappingAction records one officer mapping decision
func (p *Provider) RecordMappingAction(ctx context.Context, action string) {
	p.Metrics.MappingActions.WithLabelValues(action).Inc()
}

// RecordCorrections records an applied correction batch
func (p *Provider) RecordCorrections(ctx context.Context, count int) {
	p.Metrics.CorrectionsApplied.Add(float64(count))
}

// RecordReviewed records an incident marked reviewed
func (p *Provider) RecordReviewed(ctx context.Context) {
	p.Metrics.IncidentsReviewed.Inc()
}

// RecordRetrain records one retrain attempt and, on success, the new
// model gauges
func (p *Provider) RecordRetrain(ctx context.Context, trigger string, err error, cvAccuracy float64, exampleCount int) {
	result := "success"
	if err != nil {
		result = "failure"
	}
	p.Metrics.RetrainsTotal.WithLabelValues(trigger, result).Inc()
	if err == nil {
		p.Metrics.CVAccuracy.Set(cvAccuracy)
		p.Metrics.TrainingExamples.Set(float64(exampleCount))
	}
}

// StartSpan starts a new trace span.
// The caller is responsible for ending the span with span.End().
//
//nolint:spancheck // Caller is responsible for ending the span
func (p *Provider) StartSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	ctx, span := p.Tracer.Start(ctx, name, trace.WithAttributes(attrs...))
	return ctx, span
}
