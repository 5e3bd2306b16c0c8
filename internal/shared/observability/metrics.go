package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics definitions
var (
	ParseDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "hawk_parse_seconds",
		Help:    "Time spent parsing one document.",
		Buckets: prometheus.DefBuckets,
	})

	GraphDocuments = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "hawk_graph_documents_total",
		Help: "Number of documents currently registered.",
	})

	GraphIncludeEdges = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "hawk_graph_include_edges_total",
		Help: "Number of include edges in the document graph.",
	})

	IncludeReadsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "hawk_include_reads_total",
		Help: "Total number of include file reads requested.",
	})

	DiagnosticsPublished = promauto.NewCounter(prometheus.CounterOpts{
		Name: "hawk_diagnostics_published_total",
		Help: "Total number of diagnostics handed to the publisher.",
	})

	WatcherEventsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "hawk_watcher_events_total",
		Help: "Total number of file system events received by the watcher.",
	})
)
