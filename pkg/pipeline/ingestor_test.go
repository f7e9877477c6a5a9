package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docuvec/docuvec/pkg/chunker"
	"github.com/docuvec/docuvec/pkg/config"
	"github.com/docuvec/docuvec/pkg/document"
	"github.com/docuvec/docuvec/pkg/embedding"
	"github.com/docuvec/docuvec/pkg/metrics"
	"github.com/docuvec/docuvec/pkg/storage"
	"github.com/docuvec/docuvec/pkg/tracer"
	"github.com/docuvec/docuvec/pkg/vectordb"
)

type noopLogger struct{}

func (noopLogger) Info(string, error, ...map[string]interface{})  {}
func (noopLogger) Debug(string, error, ...map[string]interface{}) {}
func (noopLogger) Warn(string, error, ...map[string]interface{})  {}
func (noopLogger) Error(string, error, ...map[string]interface{}) {}
func (noopLogger) Fatal(string, error, ...map[string]interface{}) {}

// fakeStore is an in-memory vectordb.Store with scriptable failures.
type fakeStore struct {
	mu          sync.Mutex
	entries     map[string]vectordb.Entry
	ensureErr   error
	upsertErr   error
	upsertFails int
	searchErr   error
	searchHits  []vectordb.SearchResult
	upsertCalls int
}

func newFakeStore() *fakeStore {
	return &fakeStore{entries: map[string]vectordb.Entry{}}
}

func (f *fakeStore) EnsureCollection(ctx context.Context, name string, vectorSize uint64, distance vectordb.Distance) error {
	return f.ensureErr
}

func (f *fakeStore) Upsert(ctx context.Context, collection string, entries []vectordb.Entry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(entries) == 0 {
		return nil
	}
	f.upsertCalls++
	if f.upsertErr != nil && (f.upsertFails == 0 || f.upsertCalls <= f.upsertFails) {
		return f.upsertErr
	}
	for _, e := range entries {
		f.entries[e.ID] = e
	}
	return nil
}

func (f *fakeStore) Search(ctx context.Context, collection string, vector []float32, topK int, scoreThreshold float32) ([]vectordb.SearchResult, error) {
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	return f.searchHits, nil
}

func (f *fakeStore) GetCollection(ctx context.Context, name string) (*vectordb.Collection, error) {
	return &vectordb.Collection{Name: name}, nil
}

func (f *fakeStore) Count(ctx context.Context, name string) (uint64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return uint64(len(f.entries)), nil
}

func (f *fakeStore) Delete(ctx context.Context, collection string, ids []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, id := range ids {
		delete(f.entries, id)
	}
	return nil
}

// scriptedEmbedder fails its first failures calls, then returns
// deterministic vectors.
type scriptedEmbedder struct {
	mu       sync.Mutex
	dims     int
	failures int
	failWith error
	calls    int
}

func (s *scriptedEmbedder) CreateEmbeddings(ctx context.Context, texts []string) ([][]float32, error) {
	s.mu.Lock()
	s.calls++
	fail := s.calls <= s.failures
	s.mu.Unlock()

	if fail {
		return nil, s.failWith
	}
	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		v := make([]float32, s.dims)
		v[0] = float32(len(text))
		vectors[i] = v
	}
	return vectors, nil
}

func (s *scriptedEmbedder) CreateEmbedding(ctx context.Context, text string) ([]float32, error) {
	vectors, err := s.CreateEmbeddings(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

type fakeLoader struct {
	docs    []document.Document
	skipped []storage.FileFailure
	err     error
}

func (f *fakeLoader) Load(ctx context.Context) ([]document.Document, []storage.FileFailure, error) {
	return f.docs, f.skipped, f.err
}

func testConfig() *config.Config {
	return &config.Config{
		Collection:   "documents",
		VectorSize:   3,
		Distance:     vectordb.DistanceCosine,
		ChunkSize:    50,
		ChunkOverlap: 10,
		Concurrency:  2,
		MaxRetries:   2,
		TopK:         5,
		QueryTimeout: time.Second,
	}
}

func newTestMetrics(t *testing.T) *metrics.Metrics {
	t.Helper()
	return metrics.NewMetrics(metrics.Config{ServiceName: "test"})
}

func newTestTracer(t *testing.T) *tracer.Tracer {
	t.Helper()
	return tracer.NewClient(tracer.Config{ServiceName: "test", AppEnv: "test"}, noopLogger{})
}

func newTestIngestor(t *testing.T, loader Loader, embedder Embedder, store vectordb.Store, cfg *config.Config) *Ingestor {
	t.Helper()
	ch, err := chunker.New(cfg.ChunkSize, cfg.ChunkOverlap)
	require.NoError(t, err)
	return NewIngestor(loader, ch, embedder, store, cfg, newTestMetrics(t), newTestTracer(t), noopLogger{})
}

func testDoc(id, text string) document.Document {
	return document.Document{
		ID:   id,
		Text: text,
		Metadata: map[string]string{
			document.MetaFilePath: id,
			document.MetaFileName: id,
		},
	}
}

func TestIngestorRun_HappyPath(t *testing.T) {
	loader := &fakeLoader{docs: []document.Document{
		testDoc("documents/a.txt", "The sky is blue. Water is wet. Fire is hot and bright."),
		testDoc("documents/b.txt", "Grass is green."),
	}}
	store := newFakeStore()
	embedder := &scriptedEmbedder{dims: 3}

	report, err := newTestIngestor(t, loader, embedder, store, testConfig()).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, report.DocumentsSeen)
	assert.Equal(t, 2, report.DocumentsIngested)
	assert.Empty(t, report.Failures)
	assert.Greater(t, report.NodesChunked, 2)
	assert.Equal(t, report.NodesChunked, report.NodesEmbedded)
	assert.Equal(t, report.NodesChunked, report.EntriesUpserted)
	assert.Len(t, store.entries, report.EntriesUpserted)

	// Every entry carries the payload the query path depends on.
	for _, entry := range store.entries {
		assert.NotEmpty(t, entry.Payload["text"])
		assert.NotEmpty(t, entry.Payload["document_id"])
		meta, ok := entry.Payload["metadata"].(map[string]any)
		require.True(t, ok)
		assert.NotEmpty(t, meta["uuid"])
		assert.NotEmpty(t, meta[document.MetaFilePath])
	}
}

func TestIngestorRun_ReingestionReplacesEntries(t *testing.T) {
	loader := &fakeLoader{docs: []document.Document{
		testDoc("documents/a.txt", "The sky is blue. Water is wet. Fire is hot and bright."),
	}}
	store := newFakeStore()
	embedder := &scriptedEmbedder{dims: 3}
	ing := newTestIngestor(t, loader, embedder, store, testConfig())

	first, err := ing.Run(context.Background())
	require.NoError(t, err)
	countAfterFirst := len(store.entries)

	second, err := ing.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, first.EntriesUpserted, second.EntriesUpserted)
	assert.Len(t, store.entries, countAfterFirst, "same content must replace, not duplicate")
}

func TestIngestorRun_TransientEmbedFailureRetries(t *testing.T) {
	loader := &fakeLoader{docs: []document.Document{
		testDoc("documents/a.txt", "Short document."),
	}}
	store := newFakeStore()
	embedder := &scriptedEmbedder{dims: 3, failures: 2, failWith: embedding.ErrRateLimited}

	report, err := newTestIngestor(t, loader, embedder, store, testConfig()).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, report.DocumentsIngested)
	assert.Empty(t, report.Failures)
	assert.Equal(t, 3, embedder.calls, "two failures then one success")
	assert.Len(t, store.entries, 1)
}

func TestIngestorRun_ExhaustedRetriesRecordedAsFailure(t *testing.T) {
	loader := &fakeLoader{docs: []document.Document{
		testDoc("documents/bad.txt", "Unlucky document."),
		testDoc("documents/good.txt", "Lucky document."),
	}}
	store := newFakeStore()
	// Enough failures that one document exhausts its budget while the
	// other succeeds on a later call.
	embedder := &scriptedEmbedder{dims: 3, failures: 4, failWith: embedding.ErrRateLimited}

	cfg := testConfig()
	cfg.Concurrency = 1

	report, err := newTestIngestor(t, loader, embedder, store, cfg).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, report.DocumentsSeen)
	assert.Equal(t, 1, report.DocumentsIngested)
	require.Len(t, report.Failures, 1)
	assert.Equal(t, StageEmbed, report.Failures[0].Stage)
}

func TestIngestorRun_NonRetryableEmbedFailureFailsFast(t *testing.T) {
	loader := &fakeLoader{docs: []document.Document{
		testDoc("documents/a.txt", "Some document."),
	}}
	store := newFakeStore()
	embedder := &scriptedEmbedder{dims: 3, failures: 10, failWith: errors.New("invalid request")}

	report, err := newTestIngestor(t, loader, embedder, store, testConfig()).Run(context.Background())
	require.NoError(t, err)

	require.Len(t, report.Failures, 1)
	assert.Equal(t, StageEmbed, report.Failures[0].Stage)
	assert.Equal(t, 1, embedder.calls, "non-retryable errors must not be retried")
}

func TestIngestorRun_EmptyDocumentSkipped(t *testing.T) {
	loader := &fakeLoader{docs: []document.Document{
		testDoc("documents/empty.txt", "   \n\n  "),
		testDoc("documents/good.txt", "Real content here."),
	}}
	store := newFakeStore()
	embedder := &scriptedEmbedder{dims: 3}

	report, err := newTestIngestor(t, loader, embedder, store, testConfig()).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, report.DocumentsIngested)
	require.Len(t, report.Failures, 1)
	assert.Equal(t, StageChunk, report.Failures[0].Stage)
	assert.Equal(t, "documents/empty.txt", report.Failures[0].DocumentID)
}

func TestIngestorRun_SourceUnavailableIsFatal(t *testing.T) {
	loader := &fakeLoader{err: fmt.Errorf("%w: bucket missing", storage.ErrSourceUnavailable)}
	store := newFakeStore()

	_, err := newTestIngestor(t, loader, &scriptedEmbedder{dims: 3}, store, testConfig()).Run(context.Background())
	require.ErrorIs(t, err, storage.ErrSourceUnavailable)
}

func TestIngestorRun_SchemaMismatchIsFatal(t *testing.T) {
	loader := &fakeLoader{docs: []document.Document{testDoc("documents/a.txt", "text")}}
	store := newFakeStore()
	store.ensureErr = vectordb.ErrSchemaMismatch

	_, err := newTestIngestor(t, loader, &scriptedEmbedder{dims: 3}, store, testConfig()).Run(context.Background())
	require.ErrorIs(t, err, vectordb.ErrSchemaMismatch)
}

func TestIngestorRun_UpsertFailureRecordedPerDocument(t *testing.T) {
	loader := &fakeLoader{docs: []document.Document{
		testDoc("documents/a.txt", "Document one."),
	}}
	store := newFakeStore()
	store.upsertErr = vectordb.ErrUpsertFailed
	embedder := &scriptedEmbedder{dims: 3}

	report, err := newTestIngestor(t, loader, embedder, store, testConfig()).Run(context.Background())
	require.NoError(t, err)

	assert.Zero(t, report.DocumentsIngested)
	require.Len(t, report.Failures, 1)
	assert.Equal(t, StageUpsert, report.Failures[0].Stage)
	assert.Equal(t, testConfig().MaxRetries+1, store.upsertCalls, "unacknowledged batches get the full retry budget")
}

func TestIngestorRun_TransientUpsertFailureRetries(t *testing.T) {
	loader := &fakeLoader{docs: []document.Document{
		testDoc("documents/a.txt", "Document one."),
	}}
	store := newFakeStore()
	store.upsertErr = vectordb.ErrUpsertFailed
	store.upsertFails = 1

	report, err := newTestIngestor(t, loader, &scriptedEmbedder{dims: 3}, store, testConfig()).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, report.DocumentsIngested)
	assert.Empty(t, report.Failures)
	assert.Equal(t, 2, store.upsertCalls)
}

func TestIngestorRun_SkippedFilesCarriedIntoReport(t *testing.T) {
	loader := &fakeLoader{
		docs:    []document.Document{testDoc("documents/a.txt", "Fine document.")},
		skipped: []storage.FileFailure{{Key: "documents/img.png", Reason: "not valid UTF-8 text"}},
	}
	store := newFakeStore()

	report, err := newTestIngestor(t, loader, &scriptedEmbedder{dims: 3}, store, testConfig()).Run(context.Background())
	require.NoError(t, err)

	require.Len(t, report.SkippedFiles, 1)
	assert.Equal(t, "documents/img.png", report.SkippedFiles[0].Key)
	assert.Equal(t, 1, report.DocumentsIngested)
}

func TestEntryID_DeterministicAndDistinct(t *testing.T) {
	a := EntryID("documents/a.txt", 0)
	b := EntryID("documents/a.txt", 0)
	c := EntryID("documents/a.txt", 1)
	d := EntryID("documents/b.txt", 0)

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.NotEqual(t, a, d)
}
