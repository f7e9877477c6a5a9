package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	traceSpan "go.opentelemetry.io/otel/trace"

	"github.com/docuvec/docuvec/pkg/config"
	"github.com/docuvec/docuvec/pkg/generation"
	"github.com/docuvec/docuvec/pkg/metrics"
	"github.com/docuvec/docuvec/pkg/tracer"
	"github.com/docuvec/docuvec/pkg/vectordb"
)

// systemPrompt constrains the model to the retrieved context. With no
// matches the context block is empty and the model is expected to say
// it does not know rather than invent an answer.
const systemPrompt = "You are a helpful assistant. Answer the question using only the " +
	"provided context. If the context does not contain the information " +
	"needed, say that you don't know."

// QueryEngine answers natural-language questions over the indexed
// corpus: embed the question, retrieve the nearest chunks, synthesize
// an answer from them.
type QueryEngine struct {
	store     vectordb.Store
	embedder  Embedder
	generator generation.Generator
	metrics   *metrics.Metrics
	tracer    *tracer.Tracer
	logger    Logger

	collection     string
	topK           int
	scoreThreshold float32
	timeout        time.Duration
}

// NewQueryEngine wires a QueryEngine from its collaborators.
func NewQueryEngine(
	store vectordb.Store,
	embedder Embedder,
	generator generation.Generator,
	cfg *config.Config,
	m *metrics.Metrics,
	tr *tracer.Tracer,
	logger Logger,
) *QueryEngine {
	return &QueryEngine{
		store:          store,
		embedder:       embedder,
		generator:      generator,
		metrics:        m,
		tracer:         tr,
		logger:         logger,
		collection:     cfg.Collection,
		topK:           cfg.TopK,
		scoreThreshold: cfg.ScoreThreshold,
		timeout:        cfg.QueryTimeout,
	}
}

// Answer runs one question end to end under the configured deadline.
//
// An engine without a collection fails fast with ErrNotInitialized.
// Failures embedding the question or searching the index surface as
// ErrRetrievalUnavailable; deadline expiry anywhere surfaces as
// ErrTimeout. Zero retrieved matches is not an error: synthesis runs
// with an empty context and the model declines per the system prompt.
// The whole request is the retry unit; nothing is retried internally.
func (e *QueryEngine) Answer(ctx context.Context, question string) (string, error) {
	start := time.Now()
	answer, err := e.answer(ctx, question)

	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	e.metrics.QueryDuration.WithLabelValues(outcome).Observe(time.Since(start).Seconds())

	return answer, err
}

func (e *QueryEngine) answer(ctx context.Context, question string) (string, error) {
	if e.collection == "" {
		return "", ErrNotInitialized
	}
	if strings.TrimSpace(question) == "" {
		return "", ErrEmptyQuestion
	}

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	ctx, span := e.tracer.StartSpan(ctx, "query.answer")
	defer span.End()
	e.tracer.SetAttributes(span, map[string]interface{}{
		"query.collection": e.collection,
		"query.top_k":      e.topK,
	})

	vector, err := e.embedder.CreateEmbedding(ctx, question)
	if err != nil {
		return "", e.classify(ctx, span, fmt.Errorf("%w: embed question: %v", ErrRetrievalUnavailable, err))
	}

	results, err := e.store.Search(ctx, e.collection, vector, e.topK, e.scoreThreshold)
	if err != nil {
		return "", e.classify(ctx, span, fmt.Errorf("%w: search %q: %v", ErrRetrievalUnavailable, e.collection, err))
	}
	e.tracer.SetAttributes(span, map[string]interface{}{"query.matches": len(results)})

	answer, err := e.generator.Complete(ctx, systemPrompt, buildPrompt(question, results))
	if err != nil {
		return "", e.classify(ctx, span, err)
	}

	return answer, nil
}

// classify records the error on the span and converts deadline expiry
// into ErrTimeout.
func (e *QueryEngine) classify(ctx context.Context, span traceSpan.Span, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		err = fmt.Errorf("%w: %v", ErrTimeout, err)
	}
	e.tracer.RecordErrorOnSpan(span, err)
	return err
}

// buildPrompt assembles the user prompt from the retrieved chunk texts
// and the question. Entries without a text payload are skipped.
func buildPrompt(question string, results []vectordb.SearchResult) string {
	var b strings.Builder
	b.WriteString("Context:\n")
	for _, res := range results {
		text, ok := res.Payload["text"].(string)
		if !ok || text == "" {
			continue
		}
		b.WriteString("---\n")
		b.WriteString(text)
		b.WriteString("\n")
	}
	b.WriteString("\nQuestion: ")
	b.WriteString(question)
	return b.String()
}
