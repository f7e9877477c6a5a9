// Command docuvec serves the question-answering API over an already
// ingested document corpus.
package main

import (
	"go.uber.org/fx"

	"github.com/docuvec/docuvec/pkg/config"
	"github.com/docuvec/docuvec/pkg/embedding"
	"github.com/docuvec/docuvec/pkg/generation"
	"github.com/docuvec/docuvec/pkg/logger"
	"github.com/docuvec/docuvec/pkg/metrics"
	"github.com/docuvec/docuvec/pkg/pipeline"
	"github.com/docuvec/docuvec/pkg/qdrant"
	"github.com/docuvec/docuvec/pkg/server"
	"github.com/docuvec/docuvec/pkg/tracer"
)

// loggerBindings adapts the zap wrapper to the per-package Logger
// interfaces the modules declare.
var loggerBindings = fx.Provide(
	func(l *logger.Logger) qdrant.Logger { return l },
	func(l *logger.Logger) tracer.Logger { return l },
	func(l *logger.Logger) metrics.Logger { return l },
	func(l *logger.Logger) pipeline.Logger { return l },
	func(l *logger.Logger) server.Logger { return l },
)

func main() {
	config.LoadDotenv()

	app := fx.New(
		logger.FXModule,
		config.FXModule,
		metrics.FXModule,
		tracer.FXModule,
		qdrant.FXModule,
		embedding.FXModule,
		generation.FXModule,
		pipeline.FXModule,
		server.FXModule,
		loggerBindings,
	)

	app.Run()
}
