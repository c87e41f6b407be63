package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/yuin/goldmark"

	"github.com/myrjola/liftplan/internal/envstruct"
	"github.com/myrjola/liftplan/internal/errors"
	"github.com/myrjola/liftplan/internal/logging"
	"github.com/myrjola/liftplan/internal/metrics"
	"github.com/myrjola/liftplan/internal/sqlite"
	"github.com/myrjola/liftplan/internal/workout"
	"github.com/myrjola/liftplan/internal/workout/redisstore"
)

type application struct {
	logger         *slog.Logger
	workoutService *workout.Service
	metrics        *metrics.Manager
	registry       *prometheus.Registry
	markdown       goldmark.Markdown
}

type config struct {
	// Addr is the address to listen on. It's possible to choose the address dynamically with localhost:0.
	Addr string `env:"LIFTPLAN_ADDR" envDefault:"localhost:8081"`
	// SqliteURL is the URL to the SQLite database. You can use ":memory:" for an ethereal in-memory database.
	SqliteURL string `env:"LIFTPLAN_SQLITE_URL" envDefault:"./liftplan.sqlite3"`
	// RedisAddr moves the accessory rotation state to Redis. Empty keeps it in SQLite.
	RedisAddr     string `env:"LIFTPLAN_REDIS_ADDR" envDefault:""`
	RedisPassword string `env:"LIFTPLAN_REDIS_PASSWORD" envDefault:""`
	// PlansFile is an optional YAML file replacing the embedded progression plans.
	PlansFile          string        `env:"LIFTPLAN_PLANS_FILE" envDefault:""`
	ProgressionEnabled bool          `env:"LIFTPLAN_PROGRESSION_ENABLED" envDefault:"true"`
	DefaultStrategy    string        `env:"LIFTPLAN_DEFAULT_STRATEGY" envDefault:"cruise_mode"`
	CatalogCacheMB     int           `env:"LIFTPLAN_CATALOG_CACHE_MB" envDefault:"8"`
	CatalogCacheTTL    time.Duration `env:"LIFTPLAN_CATALOG_CACHE_TTL" envDefault:"5m"`
}

func run(ctx context.Context, logger *slog.Logger, lookupEnv func(string) (string, bool)) error {
	var (
		cancel context.CancelFunc
		err    error
	)

	ctx, cancel = signal.NotifyContext(ctx, os.Interrupt)
	defer cancel()

	var cfg config
	if err = envstruct.Populate(&cfg, lookupEnv); err != nil {
		return errors.Wrap(err, "populate config")
	}

	db, err := sqlite.NewDatabase(ctx, cfg.SqliteURL, logger)
	if err != nil {
		return errors.Wrap(err, "open db", slog.String("url", cfg.SqliteURL))
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			logger.LogAttrs(ctx, slog.LevelError, "close db", errors.SlogError(closeErr))
		}
	}()
	logger.LogAttrs(ctx, slog.LevelInfo, "connected to db")

	registry := metrics.SetupPrometheus()
	metricsManager := metrics.NewManager("liftplan", "web", registry)

	opts := []workout.Option{
		workout.WithRecorder(metricsManager),
		workout.WithProgressionEnabled(cfg.ProgressionEnabled),
		workout.WithDefaultStrategy(cfg.DefaultStrategy),
		workout.WithCatalogCache(cfg.CatalogCacheMB, cfg.CatalogCacheTTL),
	}

	if cfg.PlansFile != "" {
		var plans []workout.ProgressionPlan
		if plans, err = loadPlans(cfg.PlansFile); err != nil {
			return errors.Wrap(err, "load progression plans", slog.String("path", cfg.PlansFile))
		}
		opts = append(opts, workout.WithPlans(plans))
	}

	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{ //nolint:exhaustruct // defaults
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       0,
		})
		defer func() {
			if closeErr := redisClient.Close(); closeErr != nil {
				logger.LogAttrs(ctx, slog.LevelError, "close redis client", errors.SlogError(closeErr))
			}
		}()
		if err = redisClient.Ping(ctx).Err(); err != nil {
			return errors.Wrap(err, "ping redis", slog.String("addr", cfg.RedisAddr))
		}
		logger.LogAttrs(ctx, slog.LevelInfo, "connected to redis", slog.String("redis_addr", cfg.RedisAddr))
		opts = append(opts, workout.WithRotationStore(redisstore.NewRotationStore(redisClient, logger)))
	}

	workoutService, err := workout.NewService(db, logger, opts...)
	if err != nil {
		return errors.Wrap(err, "new workout service")
	}

	app := application{
		logger:         logger,
		workoutService: workoutService,
		metrics:        metricsManager,
		registry:       registry,
		markdown:       goldmark.New(),
	}

	if err = app.configureAndStartServer(ctx, cfg.Addr); err != nil {
		return errors.Wrap(err, "start server")
	}
	return nil
}

func loadPlans(path string) ([]workout.ProgressionPlan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read plans file")
	}
	plans, err := workout.ParsePlans(data)
	if err != nil {
		return nil, errors.Wrap(err, "parse plans file")
	}
	return plans, nil
}

func main() {
	ctx := context.Background()
	loggerHandler := logging.NewContextHandler(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		AddSource:   false,
		Level:       slog.LevelDebug,
		ReplaceAttr: nil,
	}))
	logger := slog.New(loggerHandler)
	if err := run(ctx, logger, os.LookupEnv); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "failure starting application", errors.SlogError(err))
		os.Exit(1)
	}
}
