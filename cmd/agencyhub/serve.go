package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/neomorfeo/agencyhub/internal/adapter/cache"
	"github.com/neomorfeo/agencyhub/internal/adapter/fsm"
	httpadapter "github.com/neomorfeo/agencyhub/internal/adapter/http"
	"github.com/neomorfeo/agencyhub/internal/adapter/notify"
	oteladapter "github.com/neomorfeo/agencyhub/internal/adapter/otel"
	riveradapter "github.com/neomorfeo/agencyhub/internal/adapter/river"
	"github.com/neomorfeo/agencyhub/internal/adapter/sqlite"
	"github.com/neomorfeo/agencyhub/internal/app"
	"github.com/neomorfeo/agencyhub/internal/auth"
	"github.com/neomorfeo/agencyhub/internal/config"
	"github.com/neomorfeo/agencyhub/internal/job"
	"github.com/neomorfeo/agencyhub/internal/logging"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API, the job queue and the expiry scheduler",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			logger := logging.New(logging.Options{
				Level:     cfg.Log.Level,
				Format:    cfg.Log.Format,
				AddSource: cfg.Log.AddSource,
			})

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return run(ctx, cfg, logger)
		},
	}
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

// run wires every adapter and serves until ctx is cancelled.
func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	// --- Telemetry ---
	providers, err := oteladapter.Setup(ctx, oteladapter.Config{
		ServiceName:    cfg.OTel.ServiceName,
		ServiceVersion: cfg.OTel.ServiceVersion,
		Environment:    cfg.OTel.Environment,
		Exporter:       cfg.OTel.Exporter,
		Insecure:       cfg.OTel.Environment == "development",
	})
	if err != nil {
		return fmt.Errorf("otel: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := providers.Shutdown(shutdownCtx); err != nil {
			logger.Error("otel shutdown", "error", err)
		}
	}()

	// --- Adapters (out) ---
	db, err := oteladapter.OpenDB(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("database: %w", err)
	}
	store, err := sqlite.NewFromDB(db)
	if err != nil {
		db.Close()
		return fmt.Errorf("database: %w", err)
	}
	defer store.Close()

	queue, err := riveradapter.Setup(ctx, store.DB(), notify.NewLogNotifier(logger), logger)
	if err != nil {
		return fmt.Errorf("job queue: %w", err)
	}

	publisher, err := oteladapter.NewTracingPublisher(riveradapter.NewPublisher(queue))
	if err != nil {
		return fmt.Errorf("event metrics: %w", err)
	}
	services := oteladapter.NewTracingServiceRepository(store.Services)
	clients := oteladapter.NewTracingClientRepository(store.Clients)
	offerings := cache.NewOfferingRepository(store.Offerings, cfg.Cache.OfferingTTL)

	// --- Application ---
	lifecycle := app.NewLifecycleService(services, clients, offerings, publisher, fsm.New())

	tokens, err := auth.NewManager(authOptions(cfg))
	if err != nil {
		return fmt.Errorf("auth: %w", err)
	}

	// --- Adapters (in) ---
	router := httpadapter.NewRouter(httpadapter.Services{
		Clients:   app.NewClientService(clients),
		Catalog:   app.NewCatalogService(offerings),
		Lifecycle: lifecycle,
	}, httpadapter.Options{
		Logger:    logger,
		Tokens:    tokens,
		RateLimit: cfg.HTTP.RateLimit,
		RateBurst: cfg.HTTP.RateBurst,
		Version:   Version,
	})

	scheduler := job.NewScheduler(logger)
	if _, err := scheduler.Register(cfg.Expiry.Schedule, job.NewExpiryJob(lifecycle, cfg.Expiry.NoticeWindow, logger)); err != nil {
		return err
	}

	// The queue outlives the signal context so in-flight jobs can finish
	// during the soft stop below.
	if err := queue.Start(context.WithoutCancel(ctx)); err != nil {
		return fmt.Errorf("starting job queue: %w", err)
	}
	scheduler.Start()

	srv := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("agencyhub listening", "addr", cfg.HTTP.Addr, "version", Version)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	var runErr error
	select {
	case <-ctx.Done():
		logger.Info("shutting down")
	case err := <-serveErr:
		runErr = fmt.Errorf("server: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http shutdown", "error", err)
	}
	select {
	case <-scheduler.Stop().Done():
	case <-shutdownCtx.Done():
		logger.Warn("scheduler did not stop in time")
	}
	if err := queue.Stop(shutdownCtx); err != nil {
		logger.Error("job queue shutdown", "error", err)
	}

	logger.Info("stopped")
	return runErr
}

func authOptions(cfg *config.Config) auth.Options {
	return auth.Options{
		SigningKey: []byte(cfg.Auth.SigningKey),
		Issuer:     cfg.Auth.Issuer,
		Audience:   cfg.Auth.Audience,
		TTL:        cfg.Auth.TokenTTL,
		Leeway:     cfg.Auth.Leeway,
	}
}
