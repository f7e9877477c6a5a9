package server

import (
	"context"
	"errors"
	"net/http"

	"go.uber.org/fx"

	"github.com/docuvec/docuvec/pkg/pipeline"
)

// FXModule wires the HTTP API into Fx.
var FXModule = fx.Module("server",
	fx.Provide(
		NewConfig,
		func(engine *pipeline.QueryEngine) Answerer { return engine },
		NewServer,
	),
	fx.Invoke(RegisterServerLifecycle),
)

// RegisterServerLifecycle starts the API server when the app starts and
// shuts it down gracefully when the app stops.
func RegisterServerLifecycle(lc fx.Lifecycle, s *Server, logger Logger) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := s.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					logger.Fatal("http server stopped unexpectedly", err, nil)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("shutting down http server", nil, nil)
			return s.Stop(ctx)
		},
	})
}
