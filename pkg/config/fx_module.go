package config

import "go.uber.org/fx"

// FXModule provides the pipeline configuration to the container.
// LoadDotenv must run in main before the fx app is built, so that every
// module's NewConfig sees the loaded environment.
var FXModule = fx.Module("config",
	fx.Provide(NewConfig),
)
