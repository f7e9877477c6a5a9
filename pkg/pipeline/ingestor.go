package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/docuvec/docuvec/pkg/config"
	"github.com/docuvec/docuvec/pkg/document"
	"github.com/docuvec/docuvec/pkg/embedding"
	"github.com/docuvec/docuvec/pkg/metrics"
	"github.com/docuvec/docuvec/pkg/storage"
	"github.com/docuvec/docuvec/pkg/tracer"
	"github.com/docuvec/docuvec/pkg/vectordb"
)

// Logger defines the interface for logging operations within the
// pipeline. This interface allows for dependency injection of any
// compatible logger implementation.
type Logger interface {
	Info(msg string, err error, fields ...map[string]interface{})
	Debug(msg string, err error, fields ...map[string]interface{})
	Warn(msg string, err error, fields ...map[string]interface{})
	Error(msg string, err error, fields ...map[string]interface{})
	Fatal(msg string, err error, fields ...map[string]interface{})
}

// Loader produces the source documents for an ingestion run.
// storage.Loader implements it; tests substitute fakes.
type Loader interface {
	Load(ctx context.Context) ([]document.Document, []storage.FileFailure, error)
}

// Chunker splits a document into retrieval units.
type Chunker interface {
	Chunk(doc document.Document) ([]document.Node, error)
}

// Embedder turns texts into dense vectors, preserving input order.
// embedding.Client implements it.
type Embedder interface {
	CreateEmbeddings(ctx context.Context, texts []string) ([][]float32, error)
	CreateEmbedding(ctx context.Context, text string) ([]float32, error)
}

// Pipeline stages, used in failure records and metric labels.
const (
	StageLoad   = "load"
	StageChunk  = "chunk"
	StageEmbed  = "embed"
	StageUpsert = "upsert"
)

// Failure records one document that could not be ingested, with the
// stage it failed at. Failures never abort the run.
type Failure struct {
	DocumentID string
	Stage      string
	Reason     string
}

// Report aggregates the outcome of one ingestion run. Partial success
// is the normal case: some documents land, some are skipped or fail,
// and the report says which.
type Report struct {
	DocumentsSeen     int
	DocumentsIngested int
	NodesChunked      int
	NodesEmbedded     int
	EntriesUpserted   int

	// SkippedFiles are objects the loader could not turn into documents.
	SkippedFiles []storage.FileFailure

	// Failures are documents that were loaded but failed a later stage.
	Failures []Failure
}

// Fields renders the report's counters for structured logging.
func (r *Report) Fields() map[string]interface{} {
	return map[string]interface{}{
		"documents_seen":     r.DocumentsSeen,
		"documents_ingested": r.DocumentsIngested,
		"nodes_chunked":      r.NodesChunked,
		"nodes_embedded":     r.NodesEmbedded,
		"entries_upserted":   r.EntriesUpserted,
		"skipped_files":      len(r.SkippedFiles),
		"failures":           len(r.Failures),
	}
}

// entryNamespace is the fixed UUIDv5 namespace for index entry ids.
// Changing it would orphan every previously written entry, so it never
// changes.
var entryNamespace = uuid.MustParse("a3bb4b35-2b37-4ca8-9c91-63e6a0a1f2d4")

// EntryID derives the index-local identity of a node. It is a pure
// function of document id and chunk position, so re-ingesting a
// document replaces its previous entries instead of duplicating them.
func EntryID(documentID string, index int) string {
	name := fmt.Sprintf("%s#%d", documentID, index)
	return uuid.NewSHA1(entryNamespace, []byte(name)).String()
}

// retryBaseDelay is the first backoff interval for retryable embedding
// failures; it doubles per attempt.
const retryBaseDelay = 500 * time.Millisecond

// Ingestor drives one ingestion pass: load documents from object
// storage, chunk them, embed the chunks with bounded parallelism and
// write the entries into the vector index.
type Ingestor struct {
	loader   Loader
	chunker  Chunker
	embedder Embedder
	store    vectordb.Store
	cfg      *config.Config
	metrics  *metrics.Metrics
	tracer   *tracer.Tracer
	logger   Logger
}

// NewIngestor wires an Ingestor from its collaborators.
func NewIngestor(
	loader Loader,
	chunker Chunker,
	embedder Embedder,
	store vectordb.Store,
	cfg *config.Config,
	m *metrics.Metrics,
	tr *tracer.Tracer,
	logger Logger,
) *Ingestor {
	return &Ingestor{
		loader:   loader,
		chunker:  chunker,
		embedder: embedder,
		store:    store,
		cfg:      cfg,
		metrics:  m,
		tracer:   tr,
		logger:   logger,
	}
}

// docResult is the per-document outcome of the parallel phase, indexed
// by document position so the report stays deterministic.
type docResult struct {
	nodes    int
	embedded int
	upserted int
	failure  *Failure
}

// Run executes one ingestion pass.
//
// Fatal conditions abort the run with an error: the collection cannot
// be ensured (including schema mismatch) or the source listing fails.
// Everything else is a per-item failure recorded in the report; the run
// continues with the remaining documents.
func (i *Ingestor) Run(ctx context.Context) (*Report, error) {
	ctx, span := i.tracer.StartSpan(ctx, "ingest.run")
	defer span.End()

	if err := i.store.EnsureCollection(ctx, i.cfg.Collection, i.cfg.VectorSize, i.cfg.Distance); err != nil {
		i.tracer.RecordErrorOnSpan(span, err)
		return nil, fmt.Errorf("ensure collection %q: %w", i.cfg.Collection, err)
	}

	docs, skipped, err := i.loader.Load(ctx)
	if err != nil {
		i.tracer.RecordErrorOnSpan(span, err)
		return nil, err
	}

	for range skipped {
		i.metrics.IngestFailures.WithLabelValues(StageLoad).Inc()
	}

	results := make([]docResult, len(docs))

	g, gctx := errgroup.WithContext(ctx)
	sem := semaphore.NewWeighted(int64(i.cfg.Concurrency))

	for idx, doc := range docs {
		idx, doc := idx, doc
		g.Go(func() error {
			if err := sem.Acquire(gctx, 1); err != nil {
				return err
			}
			defer sem.Release(1)

			results[idx] = i.ingestDocument(gctx, doc)
			return nil
		})
	}

	// The only group error is context cancellation; per-document
	// failures land in results.
	if err := g.Wait(); err != nil {
		i.tracer.RecordErrorOnSpan(span, err)
		return nil, err
	}

	report := &Report{
		DocumentsSeen: len(docs),
		SkippedFiles:  skipped,
	}
	for _, res := range results {
		report.NodesChunked += res.nodes
		report.NodesEmbedded += res.embedded
		report.EntriesUpserted += res.upserted
		if res.failure != nil {
			report.Failures = append(report.Failures, *res.failure)
			i.metrics.IngestFailures.WithLabelValues(res.failure.Stage).Inc()
			continue
		}
		if res.upserted > 0 {
			report.DocumentsIngested++
			i.metrics.DocumentsIngested.Inc()
		}
	}
	i.metrics.NodesEmbedded.Add(float64(report.NodesEmbedded))
	i.metrics.EntriesUpserted.Add(float64(report.EntriesUpserted))

	i.tracer.SetAttributes(span, map[string]interface{}{
		"ingest.documents_seen":     report.DocumentsSeen,
		"ingest.documents_ingested": report.DocumentsIngested,
		"ingest.entries_upserted":   report.EntriesUpserted,
	})
	i.logger.Info("ingestion run finished", nil, report.Fields())

	return report, nil
}

func (i *Ingestor) ingestDocument(ctx context.Context, doc document.Document) docResult {
	ctx, span := i.tracer.StartSpan(ctx, "ingest.document")
	defer span.End()
	i.tracer.SetAttributes(span, map[string]interface{}{"document.id": doc.ID})

	fail := func(stage string, err error) docResult {
		i.tracer.RecordErrorOnSpan(span, err)
		i.logger.Warn("document failed, skipping", err, map[string]interface{}{
			"document_id": doc.ID,
			"stage":       stage,
		})
		return docResult{failure: &Failure{DocumentID: doc.ID, Stage: stage, Reason: err.Error()}}
	}

	nodes, err := i.chunker.Chunk(doc)
	if err != nil {
		return fail(StageChunk, err)
	}
	i.tracer.SetAttributes(span, map[string]interface{}{"document.nodes": len(nodes)})

	texts := make([]string, len(nodes))
	for n, node := range nodes {
		texts[n] = node.Text
	}

	vectors, err := i.embedWithRetry(ctx, texts)
	if err != nil {
		return fail(StageEmbed, err)
	}

	entries := make([]vectordb.Entry, len(nodes))
	for n, node := range nodes {
		entries[n] = vectordb.Entry{
			ID:      EntryID(node.DocumentID, node.Index),
			Vector:  vectors[n],
			Payload: entryPayload(node),
		}
	}

	if err := i.upsertWithRetry(ctx, entries); err != nil {
		return fail(StageUpsert, err)
	}

	return docResult{nodes: len(nodes), embedded: len(vectors), upserted: len(entries)}
}

// embedWithRetry calls the embedder, retrying retryable failures with
// exponential backoff up to the configured attempt budget.
func (i *Ingestor) embedWithRetry(ctx context.Context, texts []string) ([][]float32, error) {
	var lastErr error
	for attempt := 0; attempt <= i.cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			delay := retryBaseDelay << (attempt - 1)
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
			}
		}

		vectors, err := i.embedder.CreateEmbeddings(ctx, texts)
		if err == nil {
			return vectors, nil
		}
		if !embedding.IsRetryable(err) {
			return nil, err
		}
		lastErr = err
	}
	return nil, fmt.Errorf("embedding retries exhausted: %w", lastErr)
}

// upsertWithRetry writes a batch, retrying unacknowledged writes with
// the same backoff schedule as embedding. The batch is the retry unit;
// re-upserting the same ids is safe because writes replace by id.
func (i *Ingestor) upsertWithRetry(ctx context.Context, entries []vectordb.Entry) error {
	var lastErr error
	for attempt := 0; attempt <= i.cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			delay := retryBaseDelay << (attempt - 1)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}

		err := i.store.Upsert(ctx, i.cfg.Collection, entries)
		if err == nil {
			return nil
		}
		if !errors.Is(err, vectordb.ErrUpsertFailed) {
			return err
		}
		lastErr = err
	}
	return fmt.Errorf("upsert retries exhausted: %w", lastErr)
}

// entryPayload builds the persisted payload for a node: the chunk text,
// its parent document and the node metadata under a nested key, the
// node's stable name included.
func entryPayload(node document.Node) map[string]any {
	meta := map[string]any{"uuid": node.ID}
	for k, v := range node.Metadata {
		meta[k] = v
	}
	return map[string]any{
		"text":        node.Text,
		"document_id": node.DocumentID,
		"metadata":    meta,
	}
}
