//go:build wireinject
// +build wireinject

package di

import (
	"MomentumLab/pkg/config"
	"MomentumLab/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		ProvideLogger,
		ProvideMetrics,

		// Infrastructure clients
		ProvideClickHouseClient,
		ProvideKafkaProducer,
		ProvideKafkaConsumer,
		ProvideRedisCache,
		ProvideCacheService,

		// Repositories
		ProvideBarStorage,
		ProvideBarPublisher,
		ProvideFinnhubStream,
		ProvideHistorySource,

		// Use cases
		ProvideBarProcessor,
		ProvideBarCollector,
		ProvideKafkaBarsHandler,
		ProvideHistoryUseCase,
		ProvideBacktester,
		ProvideBacktestUseCase,
		ProvidePricesUseCase,
		ProvideJobQueue,

		// HTTP surface and application server
		ProvideHandler,
		ProvideApp,
	)
	return &server.App{}, nil
}
