package qdrant

import (
	"context"
	"sync"

	"go.uber.org/fx"

	"github.com/docuvec/docuvec/pkg/vectordb"
)

// FXModule defines the Fx module for the Qdrant client.
//
// The module:
//  1. Provides NewConfig and NewQdrantClient to the container.
//  2. Provides NewStore, annotated as the vectordb.Store implementation
//     consumed by the pipeline.
//  3. Invokes RegisterQdrantLifecycle to handle shutdown of the client.
var FXModule = fx.Module("qdrant",
	fx.Provide(
		NewConfig,
		NewQdrantClient,
		fx.Annotate(
			NewStore,
			fx.As(new(vectordb.Store)),
		),
	),
	fx.Invoke(RegisterQdrantLifecycle),
)

// RegisterQdrantLifecycle handles shutdown of the Qdrant client.
func RegisterQdrantLifecycle(lc fx.Lifecycle, client *Client) {
	var once sync.Once

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			var err error
			once.Do(func() {
				err = client.Close()
			})
			return err
		},
	})
}
