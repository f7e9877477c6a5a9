package generation

import "go.uber.org/fx"

// FXModule wires the generation client into Fx.
var FXModule = fx.Module(
	"generation",

	fx.Provide(
		NewConfig,          // -> *Config
		NewOpenAIGenerator, // -> Generator
	),
)
