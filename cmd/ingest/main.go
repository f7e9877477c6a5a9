// Command ingest runs one ingestion pass: it loads the document corpus
// from object storage, chunks and embeds it, and writes the entries
// into the vector index. The process exits non-zero when the run fails
// outright or when nothing could be ingested at all.
package main

import (
	"context"

	"go.uber.org/fx"

	"github.com/docuvec/docuvec/pkg/config"
	"github.com/docuvec/docuvec/pkg/embedding"
	"github.com/docuvec/docuvec/pkg/logger"
	"github.com/docuvec/docuvec/pkg/metrics"
	"github.com/docuvec/docuvec/pkg/pipeline"
	"github.com/docuvec/docuvec/pkg/qdrant"
	"github.com/docuvec/docuvec/pkg/storage"
	"github.com/docuvec/docuvec/pkg/tracer"
)

// loggerBindings adapts the zap wrapper to the per-package Logger
// interfaces the modules declare.
var loggerBindings = fx.Provide(
	func(l *logger.Logger) qdrant.Logger { return l },
	func(l *logger.Logger) tracer.Logger { return l },
	func(l *logger.Logger) metrics.Logger { return l },
	func(l *logger.Logger) pipeline.Logger { return l },
	func(l *logger.Logger) storage.Logger { return l },
)

func main() {
	config.LoadDotenv()

	app := fx.New(
		logger.FXModule,
		config.FXModule,
		metrics.FXModule,
		tracer.FXModule,
		storage.FXModule,
		qdrant.FXModule,
		embedding.FXModule,
		pipeline.FXModule,
		loggerBindings,
		fx.Invoke(runIngestion),
	)

	app.Run()
}

// runIngestion kicks off the pass once the app is up and shuts the app
// down when it's done, carrying the pass outcome as the exit code.
func runIngestion(lc fx.Lifecycle, ing *pipeline.Ingestor, log *logger.Logger, shutdowner fx.Shutdowner) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				code := 0
				report, err := ing.Run(context.Background())
				switch {
				case err != nil:
					log.Error("ingestion run failed", err, nil)
					code = 1
				case report.DocumentsSeen > 0 && report.DocumentsIngested == 0:
					log.Error("no documents could be ingested", nil, report.Fields())
					code = 1
				default:
					log.Info("ingestion complete", nil, report.Fields())
				}
				_ = shutdowner.Shutdown(fx.ExitCode(code))
			}()
			return nil
		},
	})
}
