package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics definitions
var (
	ReadsIngestedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "readsanalyzer_reads_ingested_total",
		Help: "Total number of reads handed to an analyzer.",
	}, []string{"processor"})

	RepeatReadsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "readsanalyzer_repeat_reads_total",
		Help: "Reads whose sequence was already present in the overlap graph.",
	})

	GraphNodes = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "readsanalyzer_graph_nodes_total",
		Help: "Distinct sequences in the overlap graph.",
	})

	GraphEdges = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "readsanalyzer_graph_edges_total",
		Help: "Overlap edges in the overlap graph.",
	})

	DistinctKmers = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "readsanalyzer_distinct_kmers_total",
		Help: "Distinct k-mers in the k-mer table.",
	})

	FileIngestDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "readsanalyzer_file_ingest_seconds",
		Help:    "Time spent ingesting one read file.",
		Buckets: prometheus.DefBuckets,
	})

	AnalysisDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "readsanalyzer_analysis_seconds",
		Help:    "Time spent on assembly tasks.",
		Buckets: prometheus.DefBuckets,
	}, []string{"task"})

	SinkFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "readsanalyzer_sink_failures_total",
		Help: "Assembly sink writes that failed and were skipped.",
	})

	WatcherEventsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "readsanalyzer_watcher_events_total",
		Help: "Total number of file system events received by the watcher.",
	})

	HistoryWritesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "readsanalyzer_history_writes_total",
		Help: "Assembly runs persisted to the history store, by outcome.",
	}, []string{"outcome"})
)
