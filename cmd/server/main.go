package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jonboulle/clockwork"
	"github.com/pscheid92/rogrow/internal/adapter/httpserver"
	"github.com/pscheid92/rogrow/internal/adapter/llm"
	"github.com/pscheid92/rogrow/internal/adapter/metrics"
	"github.com/pscheid92/rogrow/internal/adapter/postgres"
	"github.com/pscheid92/rogrow/internal/adapter/redis"
	"github.com/pscheid92/rogrow/internal/app"
	"github.com/pscheid92/rogrow/internal/catalog"
	"github.com/pscheid92/rogrow/internal/dataset"
	"github.com/pscheid92/rogrow/internal/domain"
	"github.com/pscheid92/rogrow/internal/intent"
	"github.com/pscheid92/rogrow/internal/platform/config"
	"github.com/pscheid92/rogrow/internal/platform/correlation"
	"github.com/pscheid92/rogrow/internal/platform/crypto"
	"github.com/pscheid92/rogrow/internal/platform/logging"
	"github.com/pscheid92/rogrow/internal/platform/version"
	goredis "github.com/redis/go-redis/v9"
)

const insightEvictionInterval = time.Minute

func runGracefulShutdown(srv *httpserver.Server, stopBackground context.CancelFunc) <-chan struct{} {
	done := make(chan struct{})
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		slog.Info("Shutdown signal received, cleaning up...")

		stopBackground()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("Server shutdown error", "error", err)
		}

		close(done)
	}()

	return done
}

// reloadOnSignal re-reads the dataset on SIGHUP.
func reloadOnSignal(ctx context.Context, appSvc *app.Service) {
	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)

	for {
		select {
		case <-ctx.Done():
			return
		case <-hup:
			reloadCtx := correlation.WithID(ctx, correlation.NewID())
			slog.InfoContext(reloadCtx, "SIGHUP received, reloading dataset")
			_, _ = appSvc.Reload(reloadCtx) // failures are logged and keep the current snapshot
		}
	}
}

func setupConfig() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		// Use log before slog is initialized
		log.Fatalf("Failed to load config: %v", err)
	}
	return cfg
}

func setupDB(cfg *config.Config, m *metrics.DBMetrics) *pgxpool.Pool {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := postgres.Connect(ctx, cfg.DatabaseURL, m)
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}

	if err := postgres.RunMigrationsWithLock(ctx, db); err != nil {
		slog.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}

	return db
}

func setupRedis(ctx context.Context, cfg *config.Config, m *metrics.RedisMetrics) *goredis.Client {
	client, err := redis.NewClient(ctx, cfg.RedisURL, m)
	if err != nil {
		slog.Error("Failed to connect to Redis", "error", err)
		os.Exit(1)
	}
	return client
}

func main() {
	clock := clockwork.NewRealClock()

	cfg := setupConfig()

	// Initialize structured logging
	logging.InitLogger(cfg.LogLevel, cfg.LogFormat)
	slog.Info("Application starting", "env", cfg.AppEnv, "port", cfg.Port, "version", version.Version)

	reg := metrics.NewRegistry()
	intentMetrics := metrics.NewIntentMetrics(reg)
	cacheMetrics := metrics.NewCacheMetrics(reg)

	cat, err := catalog.Default()
	if err != nil {
		slog.Error("Failed to load subject catalog", "error", err)
		os.Exit(1)
	}

	var healthChecks []httpserver.HealthCheck

	// Optional collaborators are typed as interfaces and only assigned when
	// configured, so the service sees a true nil otherwise.
	var directory domain.StudentDirectory
	if cfg.DatabaseURL != "" {
		pool := setupDB(cfg, metrics.NewDBMetrics(reg))
		defer pool.Close()
		cipher, err := crypto.New(cfg.PIIEncryptionKey)
		if err != nil {
			slog.Error("Failed to create PII cipher", "error", err)
			os.Exit(1)
		}
		directory = postgres.NewStudentRepo(pool, cipher)
		healthChecks = append(healthChecks, httpserver.HealthCheck{Name: "postgres", Check: pool.Ping})
	} else {
		slog.Info("DATABASE_URL not set, student profiles disabled")
	}

	var rdb goredis.Cmdable
	if cfg.RedisURL != "" {
		client := setupRedis(context.Background(), cfg, metrics.NewRedisMetrics(reg))
		defer func() { _ = client.Close() }()
		rdb = client
		healthChecks = append(healthChecks, httpserver.HealthCheck{
			Name:  "redis",
			Check: func(ctx context.Context) error { return client.Ping(ctx).Err() },
		})
	}

	routerOpts := []intent.Option{
		intent.WithRandomizer(intent.NewRandomizer(cfg.DatasetSeed)),
		intent.WithRecorder(intentMetrics),
	}

	var insights domain.InsightGenerator
	if cfg.LLMEnabled() {
		llmClient := llm.New(llm.Config{
			APIKey:      cfg.OpenAIAPIKey,
			BaseURL:     cfg.OpenAIBaseURL,
			Model:       cfg.OpenAIModel,
			MaxTokens:   cfg.OpenAIMaxTokens,
			Temperature: cfg.OpenAITemp,
		}, metrics.NewLLMMetrics(reg))
		insights = llmClient
		if cfg.LLMFallback {
			routerOpts = append(routerOpts, intent.WithCompleter(llmClient))
		}
	} else {
		slog.Info("OPENAI_API_KEY not set, score insights disabled")
	}

	insightCache := redis.NewInsightCache(rdb, cfg.InsightCacheTTL, clock, cacheMetrics)
	stopEviction := insightCache.StartEvictionTimer(insightEvictionInterval)
	defer stopEviction()

	loader := dataset.NewLoader(cfg.DataDir, cat.Subjects, clock, cfg.DatasetSeed)
	router := intent.New(cat, routerOpts...)
	appSvc := app.NewService(context.Background(), loader, router, directory, insights, insightCache, clock)

	bgCtx, stopBackground := context.WithCancel(context.Background())
	defer stopBackground()
	if cfg.DatasetReloadInterval > 0 {
		go appSvc.RunReloader(bgCtx, cfg.DatasetReloadInterval)
	}
	go reloadOnSignal(bgCtx, appSvc)

	srv := httpserver.NewServer(cfg, appSvc, reg, healthChecks)

	done := runGracefulShutdown(srv, stopBackground)

	slog.Info("Server starting", "port", cfg.Port)
	if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("Server error", "error", err)
		os.Exit(1)
	}

	<-done
}
