package server

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics are the upload server's Prometheus collectors.
type Metrics struct {
	Uploads  *prometheus.CounterVec
	Rows     prometheus.Counter
	Findings *prometheus.CounterVec
	Duration prometheus.Histogram
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Uploads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "lambdaspectre_uploads_total",
			Help: "Uploaded datasets by outcome.",
		}, []string{"result"}),
		Rows: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "lambdaspectre_rows_analyzed_total",
			Help: "Function rows analyzed across all uploads.",
		}),
		Findings: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "lambdaspectre_findings_total",
			Help: "Findings reported, by finding ID.",
		}, []string{"id"}),
		Duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "lambdaspectre_analysis_duration_seconds",
			Help:    "Time spent ingesting and analyzing one upload.",
			Buckets: prometheus.DefBuckets,
		}),
	}
	reg.MustRegister(m.Uploads, m.Rows, m.Findings, m.Duration)
	return m
}

const (
	resultOK          = "ok"
	resultRejected    = "rejected"
	resultTooLarge    = "too_large"
	resultBadRequest  = "bad_request"
	resultServerError = "error"
)
