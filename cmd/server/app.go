package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/phrazzld/scry-feed/internal/cache"
	"github.com/phrazzld/scry-feed/internal/config"
	"github.com/phrazzld/scry-feed/internal/dedup"
	"github.com/phrazzld/scry-feed/internal/events"
	"github.com/phrazzld/scry-feed/internal/fallback"
	"github.com/phrazzld/scry-feed/internal/feed"
	"github.com/phrazzld/scry-feed/internal/generation"
	"github.com/phrazzld/scry-feed/internal/metrics"
	"github.com/phrazzld/scry-feed/internal/platform/gemini"
	"github.com/phrazzld/scry-feed/internal/platform/openai"
	"github.com/phrazzld/scry-feed/internal/popularity"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
)

const redisPingTimeout = 5 * time.Second

// application holds the shared dependencies of the server and releases them
// on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger

	registry *prometheus.Registry
	metrics  *metrics.Metrics
	emitter  *events.AsyncEmitter
	redis    *redis.Client

	tracker    *dedup.Tracker
	popularity popularity.Counter
	feed       *feed.Service
}

// newApplication builds the application with the provider selected by cfg.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*application, error) {
	completer, err := newCompleter(ctx, cfg.LLM, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize LLM provider: %w", err)
	}
	logger.Info("LLM provider initialized", "provider", completer.Name())

	return newApplicationWithCompleter(ctx, cfg, logger, completer)
}

func newCompleter(ctx context.Context, cfg config.LLMConfig, logger *slog.Logger) (generation.Completer, error) {
	switch cfg.Provider {
	case "gemini":
		client, err := gemini.NewClient(ctx, logger, cfg)
		if err != nil {
			return nil, err
		}
		return client, nil
	case "openai", "openrouter":
		client, err := openai.NewClient(logger, cfg, &http.Client{})
		if err != nil {
			return nil, err
		}
		return client, nil
	default:
		return nil, fmt.Errorf("%w: unknown provider %q", generation.ErrInvalidConfig, cfg.Provider)
	}
}

func newApplicationWithCompleter(
	ctx context.Context,
	cfg *config.Config,
	logger *slog.Logger,
	completer generation.Completer,
) (*application, error) {
	app := &application{
		config:   cfg,
		logger:   logger,
		registry: prometheus.NewRegistry(),
	}
	app.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	app.metrics = metrics.New(app.registry)

	app.emitter = events.NewAsyncEmitter(logger, events.DefaultBufferSize)
	app.emitter.RegisterHandler(events.NewLogHandler(logger))
	app.emitter.RegisterHandler(app.metrics.EventHandler())
	app.metrics.Gauge("events_dropped", "Provider call events dropped because the bus was full.", func() float64 {
		return float64(app.emitter.Dropped())
	})

	adapter, err := generation.NewAdapter(completer, generation.AdapterConfig{
		Timeout:   cfg.LLM.Timeout(),
		RateLimit: cfg.LLM.RateLimitPerSecond,
		RateBurst: cfg.LLM.RateLimitBurst,
		Breaker: generation.BreakerConfig{
			MaxFailures:  cfg.LLM.CircuitMaxFailures,
			ResetTimeout: cfg.LLM.CircuitReset(),
		},
	}, app.emitter, logger)
	if err != nil {
		app.cleanup()
		return nil, fmt.Errorf("failed to create provider adapter: %w", err)
	}

	store, err := app.setupStores(ctx)
	if err != nil {
		app.cleanup()
		return nil, err
	}

	app.tracker, err = dedup.New(cfg.Dedup.Capacity, cfg.Dedup.MaxViewers)
	if err != nil {
		app.cleanup()
		return nil, fmt.Errorf("failed to create dedup tracker: %w", err)
	}
	app.metrics.Gauge("dedup_viewers", "Viewers with tracked feed history.", func() float64 {
		return float64(app.tracker.Viewers())
	})

	prompts, err := feed.NewPromptBuilder(cfg.LLM.PromptTemplatePath)
	if err != nil {
		app.cleanup()
		return nil, fmt.Errorf("failed to load prompt template: %w", err)
	}

	app.feed, err = feed.NewService(
		adapter,
		cache.New(store, logger),
		app.tracker,
		fallback.New(),
		prompts,
		feed.Config{
			ProviderTimeout: cfg.LLM.Timeout(),
			CacheTTL:        cfg.Cache.TTL(),
		},
		logger,
		feed.WithPopularity(app.popularity),
		feed.WithMetrics(app.metrics),
	)
	if err != nil {
		app.cleanup()
		return nil, fmt.Errorf("failed to create feed service: %w", err)
	}

	logger.Info("application initialized successfully")
	return app, nil
}

// setupStores selects Redis or in-process storage for the batch cache and
// the popularity counters.
func (app *application) setupStores(ctx context.Context) (cache.Store, error) {
	if app.config.Cache.RedisURL == "" {
		memory := cache.NewMemoryStore(app.config.Cache.Shards, app.config.Cache.SweepInterval())
		app.metrics.Gauge("cache_entries", "Batches held in the in-memory cache.", func() float64 {
			return float64(memory.Len())
		})
		app.popularity = popularity.NewMemoryCounter(popularity.DefaultMaxTopics)
		return memory, nil
	}

	opts, err := redis.ParseURL(app.config.Cache.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	app.redis = redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, redisPingTimeout)
	defer cancel()
	if err := app.redis.Ping(pingCtx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	app.logger.Info("redis connection established", "addr", opts.Addr, "db", opts.DB)

	app.popularity = popularity.NewRedisCounter(app.redis, popularity.DefaultRedisKey)
	return cache.NewRedisStore(app.redis, cache.DefaultRedisPrefix), nil
}

// Run serves HTTP until ctx is cancelled.
func (app *application) Run(ctx context.Context) error {
	if err := app.startHTTPServer(ctx, app.setupRouter()); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// cleanup releases background resources. It is safe on a partially built
// application.
func (app *application) cleanup() {
	if app.emitter != nil {
		app.emitter.Close()
	}
	if app.redis != nil {
		if err := app.redis.Close(); err != nil {
			app.logger.Error("error closing redis connection", "error", err)
		}
	}
	app.logger.Info("application shutdown completed")
}
