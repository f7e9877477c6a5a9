package pipeline

import (
	"go.uber.org/fx"

	"github.com/docuvec/docuvec/pkg/chunker"
	"github.com/docuvec/docuvec/pkg/config"
	"github.com/docuvec/docuvec/pkg/embedding"
	"github.com/docuvec/docuvec/pkg/storage"
)

// FXModule wires the pipeline into Fx.
//
// It provides:
//   - *chunker.Chunker      (built from the pipeline config)
//   - Loader, Chunker, Embedder interface bindings
//   - *Ingestor             (NewIngestor)
//   - *QueryEngine          (NewQueryEngine)
//
// Only what the app's invocations actually reach is constructed, so the
// ingestion job and the query service share this module.
var FXModule = fx.Module("pipeline",
	fx.Provide(
		func(cfg *config.Config) (*chunker.Chunker, error) {
			return chunker.New(cfg.ChunkSize, cfg.ChunkOverlap)
		},
		func(l *storage.Loader) Loader { return l },
		func(c *chunker.Chunker) Chunker { return c },
		func(c *embedding.Client) Embedder { return c },
		NewIngestor,
		NewQueryEngine,
	),
)
