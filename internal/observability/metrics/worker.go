package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/docuvault/redactsvc/internal/core/domain"
)

type WorkerMetrics struct {
	registry *prometheus.Registry
	service  string

	processTotal    *prometheus.CounterVec
	processDuration *prometheus.HistogramVec
	processInFlight prometheus.Gauge
	queueLag        *prometheus.HistogramVec

	fieldMatchesTotal    *prometheus.CounterVec
	unmatchedLabelsTotal *prometheus.CounterVec
	classifierConfidence *prometheus.HistogramVec
}

func NewWorkerMetrics(service string) *WorkerMetrics {
	registry := prometheus.NewRegistry()

	processTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "drs",
			Subsystem: "worker",
			Name:      "document_process_total",
			Help:      "Total processed documents by status.",
		},
		[]string{"service", "status"},
	)
	processDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "drs",
			Subsystem: "worker",
			Name:      "document_process_duration_seconds",
			Help:      "Document processing duration in seconds by status.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "status"},
	)
	processInFlight := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "drs",
			Subsystem: "worker",
			Name:      "document_process_in_flight",
			Help:      "Number of in-flight document processing tasks.",
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
	)
	queueLag := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "drs",
			Subsystem: "worker",
			Name:      "queue_lag_seconds",
			Help:      "Delay between document creation and processing start.",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120, 300, 600},
		},
		[]string{"service"},
	)
	fieldMatchesTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "drs",
			Subsystem: "matching",
			Name:      "field_matches_total",
			Help:      "Total matched fields by match kind.",
		},
		[]string{"service", "kind"},
	)
	unmatchedLabelsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "drs",
			Subsystem: "matching",
			Name:      "unmatched_labels_total",
			Help:      "Total extracted labels no data element claimed.",
		},
		[]string{"service"},
	)
	classifierConfidence := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "drs",
			Subsystem: "classifier",
			Name:      "confidence",
			Help:      "Distribution of classifier confidence per analysis.",
			Buckets:   []float64{0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9, 1},
		},
		[]string{"service"},
	)

	registry.MustRegister(
		processTotal,
		processDuration,
		processInFlight,
		queueLag,
		fieldMatchesTotal,
		unmatchedLabelsTotal,
		classifierConfidence,
	)

	return &WorkerMetrics{
		registry:             registry,
		service:              service,
		processTotal:         processTotal,
		processDuration:      processDuration,
		processInFlight:      processInFlight,
		queueLag:             queueLag,
		fieldMatchesTotal:    fieldMatchesTotal,
		unmatchedLabelsTotal: unmatchedLabelsTotal,
		classifierConfidence: classifierConfidence,
	}
}

func (m *WorkerMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *WorkerMetrics) StartDocument() {
	m.processInFlight.Inc()
}

func (m *WorkerMetrics) FinishDocument(duration time.Duration, err error) {
	m.processInFlight.Dec()

	status := "success"
	if err != nil {
		status = "error"
	}

	m.processTotal.WithLabelValues(m.service, status).Inc()
	m.processDuration.WithLabelValues(m.service, status).Observe(duration.Seconds())
}

func (m *WorkerMetrics) ObserveQueueLag(lag time.Duration) {
	if lag < 0 {
		return
	}
	m.queueLag.WithLabelValues(m.service).Observe(lag.Seconds())
}

// ObserveAnalysis records per-analysis matching and classification outcomes.
func (m *WorkerMetrics) ObserveAnalysis(result *domain.AnalysisResult) {
	if result == nil {
		return
	}
	for _, match := range result.Matches {
		m.fieldMatchesTotal.WithLabelValues(m.service, string(match.Kind)).Inc()
	}
	if n := len(result.UnmatchedLabels); n > 0 {
		m.unmatchedLabelsTotal.WithLabelValues(m.service).Add(float64(n))
	}
	m.classifierConfidence.WithLabelValues(m.service).Observe(result.Classification.Confidence)
}
