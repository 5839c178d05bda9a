package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.opentelemetry.io/otel"

	"github.com/hubsync/bundlesync/internal/api"
	"github.com/hubsync/bundlesync/internal/bundle"
	"github.com/hubsync/bundlesync/internal/checker"
	"github.com/hubsync/bundlesync/internal/config"
	"github.com/hubsync/bundlesync/internal/events"
	"github.com/hubsync/bundlesync/internal/history"
	"github.com/hubsync/bundlesync/internal/notify"
	"github.com/hubsync/bundlesync/internal/scheduler"
	"github.com/hubsync/bundlesync/internal/sources"
	"github.com/hubsync/bundlesync/internal/state"
	"github.com/hubsync/bundlesync/internal/telemetry"
	"github.com/hubsync/bundlesync/internal/updater"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the sync daemon",
	Long: `Run the bundle sync daemon.

The daemon loads the configured hubs, arms the update scheduler, and serves
the local status API. A configuration file (--config) is required; see the
examples directory for sample configurations.`,
	RunE: runServe,
}

const (
	defaultGracefulTimeout = 30 * time.Second
	serverRequestTimeout   = 60 * time.Second // manual checks can take up to the check timeout
	serverReadTimeout      = 10 * time.Second
	serverWriteTimeout     = 65 * time.Second // must exceed serverRequestTimeout
	serverIdleTimeout      = 60 * time.Second
)

func init() {
	serveCmd.Flags().String("address", "", "Status API listen address (overrides config)")
	if err := viper.BindPFlag("address", serveCmd.Flags().Lookup("address")); err != nil {
		slog.Error("Error binding address flag", "error", err)
	}
}

func runServe(_ *cobra.Command, _ []string) error {
	ctx := context.Background()
	logger := slog.Default()

	configPath := viper.GetString("config")
	if configPath == "" {
		return fmt.Errorf("a configuration file is required, pass --config")
	}
	cfg, err := config.LoadConfig(config.WithConfigPath(configPath))
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	address := viper.GetString("address")
	if address == "" {
		address = cfg.GetListenAddress()
	}

	stateDir, err := cfg.GetStateDir()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(stateDir, 0750); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}
	logger.Info("starting bundlesyncd",
		"config", configPath,
		"state_dir", stateDir,
		"address", address,
		"hubs", len(cfg.Hubs))

	store, err := state.NewFileStore(stateDir)
	if err != nil {
		return fmt.Errorf("failed to open state store: %w", err)
	}
	inventory, err := bundle.NewInventory(stateDir)
	if err != nil {
		return fmt.Errorf("failed to open bundle inventory: %w", err)
	}

	srcCfgs := make([]sources.SourceConfig, 0, len(cfg.Hubs))
	for _, hub := range cfg.Hubs {
		srcCfgs = append(srcCfgs, hub.SourceConfig)
	}
	manager, err := sources.NewManager(srcCfgs, logger)
	if err != nil {
		return fmt.Errorf("failed to configure hub sources: %w", err)
	}

	histLog, pool, err := openHistory(ctx, cfg)
	if err != nil {
		return err
	}
	if pool != nil {
		defer pool.Close()
	}

	provider := otel.GetMeterProvider()
	checkMetrics, err := telemetry.NewCheckMetrics(provider)
	if err != nil {
		return fmt.Errorf("failed to create check metrics: %w", err)
	}
	updateMetrics, err := telemetry.NewUpdateMetrics(provider)
	if err != nil {
		return fmt.Errorf("failed to create update metrics: %w", err)
	}

	notifier := notify.NewSlogSink(logger)

	executor := updater.NewExecutor(inventory, manager,
		updater.WithBatchSize(cfg.Updates.BatchSize),
		updater.WithNotifier(notifier),
		updater.WithHistory(histLog, store),
		updater.WithMetrics(updateMetrics),
		updater.WithLogger(logger))

	chk := checker.New(manager, inventory, store,
		checker.WithCacheTTL(config.Duration(cfg.Updates.CacheTTL, checker.DefaultCacheTTL)),
		checker.WithLogger(logger))

	updatesHub := events.NewHub[[]bundle.UpdateCheckResult]()
	cancelSub := updatesHub.Subscribe(func(results []bundle.UpdateCheckResult) {
		logger.Info("updates available", "count", len(results))
	})
	defer cancelSub()

	sched := scheduler.New(chk,
		scheduler.WithConfig(scheduler.Config{
			Enabled:                cfg.Updates.Enabled,
			Frequency:              scheduler.Frequency(cfg.Updates.Frequency),
			AutoUpdate:             cfg.Updates.AutoUpdate,
			NotificationPreference: notify.Preference(cfg.Updates.NotificationPreference),
			StartupCheckDelay:      config.Duration(cfg.Updates.StartupCheckDelay, scheduler.DefaultStartupCheckDelay),
			CheckTimeout:           config.Duration(cfg.Updates.CheckTimeout, scheduler.DefaultCheckTimeout),
		}),
		scheduler.WithBatchUpdater(executor),
		scheduler.WithSink(notifier),
		scheduler.WithEventHub(updatesHub),
		scheduler.WithMetrics(checkMetrics),
		scheduler.WithLogger(logger))

	// Warm the hub definitions in the background so the first check does not
	// pay every fetch.
	go func() {
		if err := manager.SyncAll(ctx); err != nil {
			logger.Warn("initial hub sync incomplete", "error", err)
		}
	}()

	if err := sched.Initialize(ctx); err != nil {
		return fmt.Errorf("failed to initialize scheduler: %w", err)
	}

	router := api.NewServer(
		api.Deps{
			Scheduler: sched,
			History:   histLog,
			Guard:     executor.Guard(),
		},
		api.WithMiddlewares(
			middleware.RequestID,
			middleware.RealIP,
			middleware.Recoverer,
			middleware.Timeout(serverRequestTimeout),
			api.LoggingMiddleware(logger),
		),
	)

	server := &http.Server{
		Addr:         address,
		Handler:      router,
		ReadTimeout:  serverReadTimeout,
		WriteTimeout: serverWriteTimeout,
		IdleTimeout:  serverIdleTimeout,
	}

	go func() {
		logger.Info("status API listening", "address", address)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("status API failed", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down")

	sched.Dispose()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), defaultGracefulTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		return err
	}

	logger.Info("shutdown complete")
	return nil
}

// openHistory builds the history log for the configured backend. The returned
// pool is non-nil only for the database backend and must be closed by the
// caller.
func openHistory(ctx context.Context, cfg *config.Config) (history.Log, *pgxpool.Pool, error) {
	if cfg.History.Backend != config.HistoryBackendDatabase {
		log, err := history.NewLog(history.BackendMemory, nil)
		return log, nil, err
	}

	connString, err := cfg.Database.GetConnectionString()
	if err != nil {
		return nil, nil, err
	}
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := history.EnsureSchema(ctx, pool); err != nil {
		pool.Close()
		return nil, nil, err
	}

	log, err := history.NewLog(history.BackendDatabase, pool)
	if err != nil {
		pool.Close()
		return nil, nil, err
	}
	return log, pool, nil
}
