package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics bundles the registry, the standalone scrape server and the
// collectors the ingestion pipeline and query engine report into.
type Metrics struct {
	Server      *http.Server
	Registry    *prometheus.Registry
	serviceName string

	// DocumentsIngested counts source documents that produced at least
	// one persisted entry.
	DocumentsIngested prometheus.Counter

	// NodesEmbedded counts chunks that were embedded successfully.
	NodesEmbedded prometheus.Counter

	// EntriesUpserted counts entries acknowledged by the vector index.
	EntriesUpserted prometheus.Counter

	// IngestFailures counts per-item failures by pipeline stage
	// ("load", "chunk", "embed", "upsert").
	IngestFailures *prometheus.CounterVec

	// QueryDuration observes end-to-end query latency in seconds,
	// labelled by outcome ("ok", "error").
	QueryDuration *prometheus.HistogramVec
}

func NewMetrics(cfg Config) *Metrics {
	registry := prometheus.NewRegistry()

	wrappedRegistry := prometheus.WrapRegistererWith(prometheus.Labels{"service": cfg.ServiceName}, registry)

	if cfg.EnableDefaultCollectors {
		wrappedRegistry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
			collectors.NewBuildInfoCollector(),
		)
	}

	m := &Metrics{
		Registry:    registry,
		serviceName: cfg.ServiceName,

		DocumentsIngested: createCounter("docuvec_documents_ingested_total",
			"Number of source documents ingested into the vector index."),
		NodesEmbedded: createCounter("docuvec_nodes_embedded_total",
			"Number of chunks embedded successfully."),
		EntriesUpserted: createCounter("docuvec_entries_upserted_total",
			"Number of entries acknowledged by the vector index."),
		IngestFailures: createCounterVec("docuvec_ingest_failures_total",
			"Per-item ingestion failures by pipeline stage.",
			[]string{"stage"}),
		QueryDuration: createHistogramVec("docuvec_query_duration_seconds",
			"End-to-end query latency in seconds.",
			[]string{"outcome"},
			prometheus.DefBuckets),
	}

	wrappedRegistry.MustRegister(
		m.DocumentsIngested,
		m.NodesEmbedded,
		m.EntriesUpserted,
		m.IngestFailures,
		m.QueryDuration,
	)

	handler := promhttp.HandlerFor(registry, promhttp.HandlerOpts{})

	m.Server = &http.Server{
		Addr:    cfg.Address,
		Handler: handler,
	}

	return m
}
