//go:build wireinject
// +build wireinject

package di

import (
	"VolCast/internal/app"
	"VolCast/pkg/config"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*app.App, error) {
	wire.Build(
		// Observability
		ProvideLogger,
		ProvideCollector,
		ProvideRegistry,
		ProvideMetrics,

		// Data source
		ProvideCandleSource,

		// Services and use cases
		ProvideModelOptions,
		ProvideForecastService,
		ProvideForecastUseCase,

		// Application
		ProvideApp,
	)
	return &app.App{}, nil
}
