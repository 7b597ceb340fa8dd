//go:build wireinject
// +build wireinject

package di

import (
	"GannForce/internal/usecase"
	"GannForce/pkg/config"
	"GannForce/pkg/server"

	"github.com/google/wire"
)

var infraSet = wire.NewSet(
	ProvideLogger,
	ProvideMetrics,
	ProvideClickHouseClient,
	ProvideCache,
)

var storeSet = wire.NewSet(
	ProvidePositioningStore,
	ProvideSentimentStore,
	ProvideSentimentSource,
	ProvideOrderBookStore,
	ProvideInvalidator,
)

var collectorSet = wire.NewSet(
	ProvidePublisher,
	ProvideIngestor,
	ProvideFastBullClient,
	ProvideCollector,
)

// InitializeApp wires the full server: HTTP API, Kafka ingest and the
// scheduled order-book collector.
func InitializeApp(cfg *config.Config) (*server.App, func(), error) {
	wire.Build(
		infraSet,
		storeSet,
		collectorSet,
		ProvideDashboard,
		ProvideViews,
		ProvideKafkaConsumer,
		ProvideLimiter,
		ProvideScheduler,
		ProvideHTTPServer,
		ProvideApp,
	)
	return nil, nil, nil
}

// InitializeDashboard wires only the read side, for one-shot CLI reports.
func InitializeDashboard(cfg *config.Config) (*usecase.DashboardUseCase, func(), error) {
	wire.Build(
		infraSet,
		storeSet,
		ProvideDashboard,
	)
	return nil, nil, nil
}

// InitializeCollector wires a standalone order-book collection run.
func InitializeCollector(cfg *config.Config) (*usecase.OrderBookCollector, func(), error) {
	wire.Build(
		infraSet,
		storeSet,
		collectorSet,
	)
	return nil, nil, nil
}
