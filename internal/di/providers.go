package di

import (
	"context"
	"fmt"
	"time"

	"GannForce/internal/domain/repository"
	"GannForce/internal/handler/api"
	internalrepo "GannForce/internal/repository"
	"GannForce/internal/service/fastbull"
	"GannForce/internal/service/ratelimit"
	"GannForce/internal/usecase"
	"GannForce/pkg/breaker"
	"GannForce/pkg/cache"
	pkgch "GannForce/pkg/clickhouse"
	"GannForce/pkg/config"
	xhttp "GannForce/pkg/http"
	pkgkafka "GannForce/pkg/kafka"
	applogger "GannForce/pkg/logger"
	"GannForce/pkg/metrics"
	"GannForce/pkg/scheduler"
	"GannForce/pkg/server"

	"github.com/labstack/echo/v4"
)

// ProvideLogger builds the process logger from the log section.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	return applogger.New(&applogger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
	})
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideClickHouseClient connects and optionally applies the schema.
func ProvideClickHouseClient(cfg *config.Config, l *applogger.Logger) (*pkgch.Client, func(), error) {
	client, err := pkgch.NewClient(
		pkgch.WithHost(cfg.ClickHouse.Host),
		pkgch.WithPort(cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithMaxConnections(10, 5),
		pkgch.WithHTTP(cfg.ClickHouse.UseHTTP),
		pkgch.WithAsyncInsert(cfg.ClickHouse.AsyncInsert, cfg.ClickHouse.WaitForAsync),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout),
		pkgch.WithMaxExecutionTime(cfg.ClickHouse.MaxExecutionTime),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("clickhouse client: %w", err)
	}
	cleanup := func() {
		if err := client.Close(); err != nil {
			l.Warn("clickhouse close error", applogger.Error(err))
		}
	}

	if cfg.ClickHouse.InitSchema {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := client.InitSchema(ctx, internalrepo.Schema(cfg.ClickHouse.Database)); err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("clickhouse schema: %w", err)
		}
		l.Info("clickhouse schema ready", applogger.String("database", cfg.ClickHouse.Database))
	}
	return client, cleanup, nil
}

// ProvideCache returns a Redis-backed layered cache when Redis is enabled,
// otherwise an in-process cache.
func ProvideCache(cfg *config.Config, l *applogger.Logger) (cache.Service, func(), error) {
	if !cfg.Redis.Enabled {
		mc := cache.NewMemoryCache()
		return mc, func() { _ = mc.Close() }, nil
	}
	rc, err := cache.NewRedisCache(
		cache.WithRedisAddr(cfg.Redis.Addr),
		cache.WithRedisPassword(cfg.Redis.Password),
		cache.WithRedisDB(cfg.Redis.DB),
		cache.WithRedisPrefix(cfg.Redis.Prefix),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("redis cache: %w", err)
	}
	lc := cache.NewLayeredCache(rc, cache.WithLayeredMemoryTTL(cfg.Cache.MemoryTTL))
	l.Info("redis cache connected", applogger.String("addr", cfg.Redis.Addr))
	return lc, func() {
		if err := lc.Close(); err != nil {
			l.Warn("redis close error", applogger.Error(err))
		}
	}, nil
}

// ProvidePositioningStore is the cached ClickHouse COT store.
func ProvidePositioningStore(ch *pkgch.Client, c cache.Service, cfg *config.Config, l *applogger.Logger) repository.PositioningStore {
	s := internalrepo.NewCHPositioningStore(ch)
	s.SetLogger(l)
	return internalrepo.NewCachedPositioningStore(s, c, cfg.Cache.TTL, l)
}

// ProvideSentimentStore is the ClickHouse sentiment store used by ingest.
func ProvideSentimentStore(ch *pkgch.Client, l *applogger.Logger) repository.SentimentStore {
	s := internalrepo.NewCHSentimentStore(ch)
	s.SetLogger(l)
	return s
}

// ProvideSentimentSource picks the configured read side and caches it.
func ProvideSentimentSource(cfg *config.Config, store repository.SentimentStore, c cache.Service, l *applogger.Logger) repository.SentimentSource {
	var src repository.SentimentSource
	switch cfg.Sentiment.Source {
	case config.SentimentFile:
		src = internalrepo.NewFileSentimentSource(cfg.Sentiment.Path)
	case config.SentimentHTTP:
		client := xhttp.NewClient(
			xhttp.WithTimeout(cfg.Sentiment.Timeout),
			xhttp.WithBreaker(breaker.New(breaker.Config{Name: "sentiment"}, l)),
		)
		src = internalrepo.NewHTTPSentimentSource(cfg.Sentiment.URL, client)
	default:
		src = store
	}
	l.Info("sentiment source selected", applogger.String("source", cfg.Sentiment.Source))
	return internalrepo.NewCachedSentimentSource(src, c, cfg.Cache.TTL, l)
}

// ProvideOrderBookStore is the cached ClickHouse order-book store.
func ProvideOrderBookStore(ch *pkgch.Client, c cache.Service, cfg *config.Config, l *applogger.Logger) repository.OrderBookStore {
	s := internalrepo.NewCHOrderBookStore(ch)
	s.SetLogger(l)
	return internalrepo.NewCachedOrderBookStore(s, c, cfg.Cache.TTL, l)
}

func ProvideInvalidator(c cache.Service) repository.Invalidator {
	return internalrepo.NewCacheInvalidator(c)
}

// ProvidePublisher returns a Kafka producer, or nil when Kafka is disabled.
func ProvidePublisher(cfg *config.Config, l *applogger.Logger) (repository.Publisher, func(), error) {
	if !cfg.Kafka.Enabled {
		return nil, func() {}, nil
	}
	p, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("kafka producer: %w", err)
	}
	return p, func() {
		if err := p.Close(); err != nil {
			l.Warn("kafka producer close error", applogger.Error(err))
		}
	}, nil
}

func ProvideIngestor(
	pos repository.PositioningStore,
	sent repository.SentimentStore,
	ob repository.OrderBookStore,
	inv repository.Invalidator,
	m repository.Metrics,
	l *applogger.Logger,
) *usecase.Ingestor {
	return usecase.NewIngestor(pos, sent, ob, inv, m, l)
}

func ProvideDashboard(
	cfg *config.Config,
	pos repository.PositioningStore,
	sent repository.SentimentSource,
	ob repository.OrderBookStore,
	m repository.Metrics,
	l *applogger.Logger,
) *usecase.DashboardUseCase {
	return usecase.NewDashboardUseCase(pos, sent, ob, cfg.Instruments, m, l)
}

func ProvideViews(pos repository.PositioningStore, sent repository.SentimentSource, ob repository.OrderBookStore) *usecase.ViewsUseCase {
	return usecase.NewViewsUseCase(pos, sent, ob)
}

// ProvideFastBullClient is rate limited and behind a circuit breaker.
func ProvideFastBullClient(cfg *config.Config, l *applogger.Logger) *fastbull.Client {
	client := xhttp.NewClient(
		xhttp.WithTimeout(cfg.FastBull.Timeout),
		xhttp.WithRateLimit(cfg.FastBull.RPS, 1),
		xhttp.WithUserAgent(cfg.FastBull.UserAgent),
		xhttp.WithBreaker(breaker.New(breaker.Config{Name: "fastbull", ConsecutiveFailures: 5}, l)),
	)
	return fastbull.New(cfg.FastBull.PairsURL, cfg.FastBull.BookURL, client)
}

// ProvideCollector publishes to Kafka when enabled, else stores directly.
func ProvideCollector(
	cfg *config.Config,
	client *fastbull.Client,
	in *usecase.Ingestor,
	pub repository.Publisher,
	c cache.Service,
	m repository.Metrics,
	l *applogger.Logger,
) *usecase.OrderBookCollector {
	return usecase.NewOrderBookCollector(client, in, pub, cfg.Kafka.Topics.OrderBook, c, cfg.FastBull.Symbols, m, l)
}

// ProvideKafkaConsumer subscribes the ingest handlers, or returns nil when
// Kafka is disabled.
func ProvideKafkaConsumer(cfg *config.Config, in *usecase.Ingestor, l *applogger.Logger) (*pkgkafka.Consumer, error) {
	if !cfg.Kafka.Enabled {
		return nil, nil
	}
	consumer, err := pkgkafka.NewConsumer(l,
		pkgkafka.WithConsumerBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithConsumerGroupID(cfg.Kafka.Consumer.GroupID),
		pkgkafka.WithConsumerWorkers(cfg.Kafka.Consumer.Workers),
		pkgkafka.WithConsumerBufferSize(cfg.Kafka.Consumer.BufferSize),
		pkgkafka.WithConsumerRetry(cfg.Kafka.Consumer.RetryMax, cfg.Kafka.Consumer.BackoffMin, cfg.Kafka.Consumer.BackoffMax),
		pkgkafka.WithConsumerDLQ(cfg.Kafka.Consumer.DLQTopic),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka consumer: %w", err)
	}
	consumer.RegisterHandler(usecase.NewCotIngestHandler(cfg.Kafka.Topics.Cot, in, l))
	consumer.RegisterHandler(usecase.NewSentimentIngestHandler(cfg.Kafka.Topics.Sentiment, in, l))
	consumer.RegisterHandler(usecase.NewOrderBookIngestHandler(cfg.Kafka.Topics.OrderBook, in, l))
	return consumer, nil
}

func ProvideLimiter() *ratelimit.Limiter {
	return ratelimit.New()
}

func ProvideScheduler(l *applogger.Logger) *scheduler.Scheduler {
	return scheduler.New(l)
}

// ProvideHTTPServer registers every API handler.
func ProvideHTTPServer(
	cfg *config.Config,
	l *applogger.Logger,
	dash *usecase.DashboardUseCase,
	views *usecase.ViewsUseCase,
	in *usecase.Ingestor,
	limiter *ratelimit.Limiter,
	ch *pkgch.Client,
	c cache.Service,
) *xhttp.Server {
	var mw []echo.MiddlewareFunc
	if cfg.Server.RateLimit.Enabled {
		mw = append(mw, limiter.Middleware(cfg.Server.RateLimit.RPS, cfg.Server.RateLimit.Burst, l))
	}

	checks := []api.Check{{Name: "clickhouse", Ping: ch.Health}}
	if cfg.Redis.Enabled {
		checks = append(checks, api.Check{Name: "redis", Ping: c.Ping})
	}

	metricsPath := ""
	if cfg.Metrics.Enabled {
		metricsPath = cfg.Metrics.Path
	}

	return xhttp.NewServer(
		[]xhttp.Handler{
			api.NewDashboardHandler(l, dash, views, mw...),
			api.NewIngestHandler(l, in),
			api.NewWebhookHandler(l),
			api.NewHealthHandler(l, checks...),
		},
		xhttp.WithPort(cfg.Server.Port),
		xhttp.WithTimeouts(cfg.Server.ReadTimeout, cfg.Server.WriteTimeout, cfg.Server.ShutdownTimeout),
		xhttp.WithCORSOrigins(cfg.Server.CORSOrigins...),
		xhttp.WithMetricsPath(metricsPath),
		xhttp.WithLogger(l),
	)
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	l *applogger.Logger,
	httpServer *xhttp.Server,
	consumer *pkgkafka.Consumer,
	sched *scheduler.Scheduler,
	collector *usecase.OrderBookCollector,
	limiter *ratelimit.Limiter,
) *server.App {
	return server.New(cfg, l, httpServer, consumer, sched, collector, limiter)
}
