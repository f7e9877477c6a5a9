package storage

import "go.uber.org/fx"

// FXModule defines the Fx module for the storage client and loader.
var FXModule = fx.Module("storage",
	fx.Provide(
		NewConfig,
		fx.Annotate(
			NewClient,
			fx.As(new(ObjectStore)),
		),
		func(cfg Config) LoaderConfig { return cfg.Loader },
		NewLoader,
	),
)
