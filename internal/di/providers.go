package di

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"time"

	"MomentumLab/internal/domain/repository"
	domsvc "MomentumLab/internal/domain/service"
	"MomentumLab/internal/handler/api"
	mid "MomentumLab/internal/middleware"
	internalrepo "MomentumLab/internal/repository"
	icache "MomentumLab/internal/service/cache"
	"MomentumLab/internal/service/finnhub"
	"MomentumLab/internal/service/yahoo"
	"MomentumLab/internal/services/momentum"
	"MomentumLab/internal/usecase"
	pkgcache "MomentumLab/pkg/cache"
	pkgch "MomentumLab/pkg/clickhouse"
	"MomentumLab/pkg/config"
	pkgkafka "MomentumLab/pkg/kafka"
	applogger "MomentumLab/pkg/logger"
	"MomentumLab/pkg/metrics"
	"MomentumLab/pkg/queue"
	"MomentumLab/pkg/server"
)

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	format := "json"
	if cfg.Environment == "development" {
		format = "console"
	}
	return applogger.New(&applogger.Config{Level: "info", Format: format, Output: "stdout"})
}

// ProvideClickHouseClient creates a ClickHouse client.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, error) {
	client, err := pkgch.NewClient(
		pkgch.WithHost(cfg.ClickHouse.Host),
		pkgch.WithPort(cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithMaxConnections(10, 5),
		pkgch.WithHTTP(cfg.ClickHouse.UseHTTP),
		pkgch.WithAsyncInsert(cfg.ClickHouse.AsyncInsert, cfg.ClickHouse.WaitForAsync),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout, cfg.ClickHouse.WriteTimeout),
		pkgch.WithMaxExecutionTime(cfg.ClickHouse.MaxExecutionTime),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}
	return client, nil
}

// ProvideBarStorage creates the ClickHouse bar store and initializes its schema.
func ProvideBarStorage(chClient *pkgch.Client, l *applogger.Logger) (repository.BarStorage, error) {
	store := internalrepo.NewCHBarStore(chClient)
	store.SetLogger(l)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := store.Init(ctx); err != nil {
		return nil, fmt.Errorf("clickhouse schema: %w", err)
	}
	return store, nil
}

// ProvideKafkaProducer creates a Kafka producer.
func ProvideKafkaProducer(cfg *config.Config) (*pkgkafka.Producer, error) {
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithBatchSize(cfg.Kafka.Producer.BatchSize),
		pkgkafka.WithBatchBytes(cfg.Kafka.Producer.BatchBytes),
		pkgkafka.WithBatchTimeout(cfg.Kafka.Producer.Linger),
		pkgkafka.WithTimeouts(cfg.Kafka.Producer.WriteTimeout, cfg.Kafka.Producer.ReadTimeout),
		pkgkafka.WithMaxAttempts(cfg.Kafka.Producer.MaxAttempts),
		pkgkafka.WithAsync(cfg.Kafka.Producer.Async),
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return producer, nil
}

// ProvideKafkaConsumer creates a Kafka consumer configured from YAML.
func ProvideKafkaConsumer(cfg *config.Config) (*pkgkafka.Consumer, error) {
	consumer, err := pkgkafka.NewConsumer(
		pkgkafka.WithConsumerBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithConsumerGroupID(cfg.Kafka.Consumer.GroupID),
		pkgkafka.WithConsumerWorkers(cfg.Kafka.Consumer.Workers),
		pkgkafka.WithConsumerBufferSize(cfg.Kafka.Consumer.BufferSize),
		pkgkafka.WithConsumerRetry(cfg.Kafka.Consumer.RetryMax, cfg.Kafka.Consumer.BackoffMin, cfg.Kafka.Consumer.BackoffMax),
		pkgkafka.WithConsumerDLQ(cfg.Kafka.Consumer.DLQTopic),
		pkgkafka.WithConsumerFetch(cfg.Kafka.Consumer.MinBytes, cfg.Kafka.Consumer.MaxBytes),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka consumer: %w", err)
	}
	return consumer, nil
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideBarPublisher creates the Kafka bar event publisher.
func ProvideBarPublisher(producer *pkgkafka.Producer, cfg *config.Config) repository.BarPublisher {
	return internalrepo.NewKafkaBarPublisher(producer, cfg.Kafka.Topic)
}

// ProvideKafkaBarsHandler registers the handler for the bar events topic.
func ProvideKafkaBarsHandler(store repository.BarStorage, m repository.Metrics, cfg *config.Config) *usecase.KafkaBarsHandler {
	return usecase.NewKafkaBarsHandler(cfg.Kafka.Topic, store, m)
}

// ProvideFinnhubStream creates the Finnhub WebSocket stream, or nil when
// live ingest is disabled.
func ProvideFinnhubStream(cfg *config.Config) repository.MarketStream {
	if !cfg.Finnhub.Enabled {
		return nil
	}
	return finnhub.New(
		cfg.Finnhub.APIKey,
		cfg.Finnhub.WebSocketURL,
		cfg.Finnhub.Symbols,
		cfg.Finnhub.ReconnectDelay,
		cfg.Finnhub.PingInterval,
	)
}

// ProvideBarProcessor creates the bar routing use case.
func ProvideBarProcessor(
	pub repository.BarPublisher,
	store repository.BarStorage,
	m repository.Metrics,
	cfg *config.Config,
) *usecase.BarProcessor {
	return usecase.NewBarProcessor(
		pub,
		store,
		m,
		cfg.Backend.Type,
		cfg.Backend.BatchSize,
		cfg.Backend.BatchTimeout,
	)
}

// ProvideBarCollector creates the quote collector, or nil when no stream is
// configured.
func ProvideBarCollector(
	stream repository.MarketStream,
	processor *usecase.BarProcessor,
	m repository.Metrics,
) *usecase.BarCollector {
	if stream == nil {
		return nil
	}
	builder := usecase.NewBarBuilder(processor)
	pipe := mid.NewIngestPipeline(builder, m,
		mid.WithMaxRPS(50),
		mid.WithBufferSize(2000),
	)
	return usecase.NewBarCollector(stream, builder, m, pipe)
}

// ProvideHistorySource creates the Yahoo Finance daily bar source.
func ProvideHistorySource(cfg *config.Config) repository.HistorySource {
	return yahoo.New(cfg.Yahoo.BaseURL, cfg.Yahoo.UserAgent, cfg.Yahoo.Timeout, cfg.Yahoo.MaxRPS)
}

// ProvideRedisCache creates a Redis cache, or nil when Redis is disabled.
func ProvideRedisCache(cfg *config.Config) (*pkgcache.RedisCache, error) {
	if !cfg.Cache.Redis.Enabled {
		return nil, nil
	}
	host, portStr, err := net.SplitHostPort(cfg.Cache.Redis.Addr)
	if err != nil {
		return nil, fmt.Errorf("redis addr %q: %w", cfg.Cache.Redis.Addr, err)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("redis port %q: %w", portStr, err)
	}
	return pkgcache.NewRedisCache(
		pkgcache.WithRedisHost(host),
		pkgcache.WithRedisPort(port),
		pkgcache.WithRedisPassword(cfg.Cache.Redis.Password),
		pkgcache.WithRedisDB(cfg.Cache.Redis.DB),
		pkgcache.WithRedisPrefix("momentumlab"),
	)
}

// ProvideCacheService selects the shared cache backend. Redis is fronted by
// a small in-process layer so hot history keys skip the round trip; without
// Redis everything lives in process memory.
func ProvideCacheService(rc *pkgcache.RedisCache) pkgcache.Service {
	if rc != nil {
		return pkgcache.NewLayeredCache(rc)
	}
	return pkgcache.NewMemoryCache()
}

// ProvideHistoryUseCase creates the store-first price history provider.
func ProvideHistoryUseCase(
	store repository.BarStorage,
	source repository.HistorySource,
	cache pkgcache.Service,
	m repository.Metrics,
	cfg *config.Config,
	l *applogger.Logger,
) *usecase.HistoryUseCase {
	return usecase.NewHistoryUseCase(store, source, cache, cfg.Cache.HistoryTTL, m, l)
}

// ProvideBacktester creates the momentum backtest engine.
func ProvideBacktester(l *applogger.Logger) domsvc.Backtester {
	return momentum.NewBacktester(l)
}

// ProvideBacktestUseCase creates the backtest orchestration use case.
func ProvideBacktestUseCase(
	history *usecase.HistoryUseCase,
	backtester domsvc.Backtester,
	m repository.Metrics,
	l *applogger.Logger,
) *usecase.BacktestUseCase {
	return usecase.NewBacktestUseCase(history, backtester, m, l)
}

// ProvidePricesUseCase creates the stored price reader.
func ProvidePricesUseCase(store repository.BarStorage) *usecase.PricesUseCase {
	return usecase.NewPricesUseCase(store)
}

// ProvideJobQueue creates the async backtest worker queue, or nil when the
// queue is disabled or Redis is unavailable.
func ProvideJobQueue(
	cfg *config.Config,
	l *applogger.Logger,
	rc *pkgcache.RedisCache,
	results pkgcache.Service,
	uc *usecase.BacktestUseCase,
) *queue.RedisQueue {
	if !cfg.Queue.Enabled || rc == nil {
		return nil
	}
	job := usecase.NewBacktestJob(uc, results, cfg.Queue.ResultTTL, l)
	q := queue.NewRedisQueue(l, &queue.QueueConfig{
		Workers:    cfg.Queue.Workers,
		RetryLimit: cfg.Queue.RetryLimit,
		RetryDelay: cfg.Queue.RetryDelay,
	}, rc.Client(), queue.ModeProducerConsumer, queue.WithKeyPrefix("momentumlab:queue"))
	q.RegisterJob(job)
	q.RegisterJob(usecase.NewLogSinkJob(results))

	// Ship aggregated error logs through the same queue for later inspection.
	l.AddCollector(&applogger.CollectionConfig{
		TimeInterval:   30 * time.Second,
		CountThreshold: 100,
		Topic:          "logs.aggregated",
		Publisher:      q,
	})
	return q
}

// ProvideHandler creates the HTTP API handler.
func ProvideHandler(
	l *applogger.Logger,
	bt *usecase.BacktestUseCase,
	prices *usecase.PricesUseCase,
	jobs *queue.RedisQueue,
	results pkgcache.Service,
	rc *pkgcache.RedisCache,
	cfg *config.Config,
) *api.BacktestEchoHandler {
	var jq queue.QueueService
	if jobs != nil {
		jq = jobs
	}
	h := api.NewBacktestEchoHandler(l, bt, prices, jq, results, cfg.Cache.ChartTTL)

	// Rendered PNGs are cached near the handler. Redis when available so
	// replicas share the cache, otherwise per-process TTL memory.
	if cfg.Cache.Redis.Enabled && rc != nil {
		h.SetChartCache(icache.NewRedisCache(icache.RedisConfig{
			Addr:     cfg.Cache.Redis.Addr,
			Password: cfg.Cache.Redis.Password,
			DB:       cfg.Cache.Redis.DB,
		}))
	} else {
		h.SetChartCache(icache.NewTTLCache())
	}
	return h
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	l *applogger.Logger,
	collector *usecase.BarCollector,
	consumer *pkgkafka.Consumer,
	kh *usecase.KafkaBarsHandler,
	chClient *pkgch.Client,
	proc *usecase.BarProcessor,
	handler *api.BacktestEchoHandler,
	jobs *queue.RedisQueue,
) *server.App {
	if consumer != nil {
		consumer.WithConsumerHook(pkgkafka.NoopHook{})
	}
	app := server.New(cfg, l, collector, consumer, kh, chClient)
	app.BarProc = proc
	app.SetHTTPHandler(handler)
	if jobs != nil {
		app.SetJobQueue(jobs)
	}
	return app
}
