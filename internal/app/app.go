// Package app wires configuration into the running services shared by the
// API server and the command-line tool.
package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"

	"github.com/maithilyrajpure/trend-decline-gen/internal/adapter/cache"
	"github.com/maithilyrajpure/trend-decline-gen/internal/adapter/dataset"
	"github.com/maithilyrajpure/trend-decline-gen/internal/adapter/events"
	"github.com/maithilyrajpure/trend-decline-gen/internal/adapter/social"
	"github.com/maithilyrajpure/trend-decline-gen/internal/adapter/storage"
	"github.com/maithilyrajpure/trend-decline-gen/internal/config"
	"github.com/maithilyrajpure/trend-decline-gen/internal/domain/trend"
	"github.com/maithilyrajpure/trend-decline-gen/internal/server"
	"github.com/maithilyrajpure/trend-decline-gen/internal/service/decline"
	"github.com/maithilyrajpure/trend-decline-gen/internal/service/explain"
	"github.com/maithilyrajpure/trend-decline-gen/internal/service/insight"
	"github.com/maithilyrajpure/trend-decline-gen/internal/service/listening"
)

// App holds the initialized dependencies. Pool, Posts, Analyses, NATS, Bus,
// Redis and Watcher are nil when the matching feature is disabled.
type App struct {
	Config   config.Config
	Logger   *slog.Logger
	Dataset  *dataset.Provider
	Pool     *pgxpool.Pool
	Posts    *storage.PostStore
	Analyses *storage.AnalysisStore
	NATS     *nats.Conn
	Bus      *events.Bus
	Redis    *redis.Client
	Chain    *listening.ProviderChain
	Reporter *insight.Service
	Watcher  *listening.Watcher
}

// NewLogger returns a JSON logger in production and a text logger otherwise
func NewLogger(w io.Writer, level, env string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: lvl}
	if strings.EqualFold(env, "production") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// New connects the enabled backends and builds the report service
func New(ctx context.Context, cfg config.Config, logger *slog.Logger) (*App, error) {
	if logger == nil {
		logger = slog.Default()
	}

	a := &App{
		Config:  cfg,
		Logger:  logger,
		Dataset: dataset.NewProvider(cfg.Dataset.Path, logger),
		Chain:   listening.NewProviderChain(logger),
	}

	if err := a.Chain.AddProvider("dataset", a.Dataset); err != nil {
		return nil, err
	}

	if cfg.Database.Enabled {
		if err := a.initDatabase(ctx); err != nil {
			a.Close()
			return nil, err
		}
	}

	if cfg.Twitter.BearerToken != "" {
		twitter := social.NewTwitterProvider(cfg.Twitter.BearerToken, cfg.Twitter.Host, nil, logger)
		if err := a.Chain.AddProvider("twitter", twitter); err != nil {
			a.Close()
			return nil, err
		}
	}

	var provider trend.LifecycleProvider = a.Chain
	if cfg.Redis.Enabled {
		client, err := cache.Connect(ctx, cfg.Redis.URL)
		if err != nil {
			a.Close()
			return nil, err
		}
		a.Redis = client
		provider = cache.NewCachedProvider(a.Chain, client, cfg.Redis.TTL, logger)
	}

	var publisher trend.EventPublisher = events.Noop{}
	if cfg.NATS.Enabled {
		nc, err := events.Connect(cfg.NATS, logger)
		if err != nil {
			a.Close()
			return nil, err
		}
		a.NATS = nc
		a.Bus = events.NewBus(nc, cfg.NATS.EventsTopic, logger)
		publisher = a.Bus
	}

	opts := []insight.Option{
		insight.WithPublisher(publisher),
		insight.WithLogger(logger),
	}
	if a.Analyses != nil {
		opts = append(opts, insight.WithRecorder(a.Analyses))
	}

	analyzer := decline.NewAnalyzer(provider, decline.NewSyntheticGenerator(cfg.Analysis.SyntheticSeed), logger)
	a.Reporter = insight.NewService(analyzer, explain.New(cfg.LLM, logger), opts...)

	if len(cfg.Watch.Trends) > 0 {
		if err := a.initWatcher(); err != nil {
			a.Close()
			return nil, err
		}
	}

	logger.Info("services initialized",
		"providers", a.Chain.Names(),
		"cache", a.Redis != nil,
		"events", a.Bus != nil,
		"history", a.Analyses != nil,
		"watching", len(cfg.Watch.Trends),
	)

	return a, nil
}

func (a *App) initDatabase(ctx context.Context) error {
	pool, err := storage.Connect(ctx, a.Config.Database.URL())
	if err != nil {
		return err
	}
	a.Pool = pool

	if err := storage.EnsureSchema(ctx, pool); err != nil {
		return err
	}

	a.Posts = storage.NewPostStore(pool)
	a.Analyses = storage.NewAnalysisStore(pool)

	return a.Chain.AddProvider("postgres", a.Posts)
}

func (a *App) initWatcher() error {
	targets, err := listening.ParseWatchList(a.Config.Watch.Trends)
	if err != nil {
		return err
	}

	a.Watcher = listening.NewWatcher(a.Reporter, listening.WatcherConfig{
		Targets:       targets,
		ScanInterval:  a.Config.Watch.Interval,
		Lookback:      a.Config.Watch.Lookback,
		MaxConcurrent: a.Config.Watch.MaxConcurrent,
	}, a.Logger)
	a.Watcher.RegisterHandler(logStatusChange(a.Logger))
	return nil
}

// logStatusChange logs watched trends entering a new state, warning on decline
func logStatusChange(logger *slog.Logger) func(listening.StatusChange) error {
	return func(c listening.StatusChange) error {
		level := slog.LevelInfo
		switch c.Current() {
		case trend.StatusEarlyDecline, trend.StatusCriticalDecline:
			level = slog.LevelWarn
		}
		logger.Log(context.Background(), level, "watched trend status changed",
			"target", c.Target.String(),
			"previous", c.Previous,
			"current", c.Current(),
			"analysis_id", c.Report.ID,
		)
		return nil
	}
}

// ServerDeps returns the HTTP dependencies, leaving disabled features unset
func (a *App) ServerDeps() server.Deps {
	deps := server.Deps{
		Reporter: a.Reporter,
		Catalog:  a.Dataset,
		Logger:   a.Logger,
	}
	if a.Analyses != nil {
		deps.History = a.Analyses
	}
	if a.Bus != nil {
		deps.Events = a.Bus
	}
	if a.Watcher != nil {
		deps.Watchlist = a.Watcher
	}
	return deps
}

// RequireDatabase reports an error when Postgres is not enabled
func (a *App) RequireDatabase() error {
	if a.Pool == nil {
		return fmt.Errorf("this command needs Postgres: set DB_ENABLED=true")
	}
	return nil
}

// Close releases every open connection
func (a *App) Close() {
	if a.NATS != nil {
		a.NATS.Close()
	}
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			a.Logger.Warn("error closing Redis client", "error", err)
		}
	}
	if a.Pool != nil {
		a.Pool.Close()
	}
}
