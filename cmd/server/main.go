package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/kavinrajasekaran/TennisTracker/internal/config"
	"github.com/kavinrajasekaran/TennisTracker/internal/handler"
	"github.com/kavinrajasekaran/TennisTracker/internal/logger"
	"github.com/kavinrajasekaran/TennisTracker/internal/repository"
	"github.com/kavinrajasekaran/TennisTracker/internal/repository/memory"
	"github.com/kavinrajasekaran/TennisTracker/internal/repository/postgres"
	"github.com/kavinrajasekaran/TennisTracker/internal/service"
)

func main() {
	cfg, err := config.Load(configPath())
	if err != nil {
		log.Fatalf("config loading failed: %v", err)
	}

	if cfg.Logger.Env == "" {
		switch cfg.App.Env {
		case "dev", "staging", "prod":
			cfg.Logger.Env = cfg.App.Env
		}
	}
	cfg.Logger.ServiceName = cfg.App.Name
	cfg.Logger.ServiceVersion = cfg.App.Version
	appLogger, err := logger.New(&cfg.Logger)
	if err != nil {
		log.Fatalf("logger initialization failed: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, appLogger); err != nil {
		appLogger.Fatal().Err(err).Msg("service stopped with error")
	}
	appLogger.Info().Msg("service stopped")
}

func configPath() string {
	if p := os.Getenv("APP_CONFIG_PATH"); p != "" {
		return p
	}
	return "config.yaml"
}

func run(ctx context.Context, cfg *config.Config, appLogger zerolog.Logger) error {
	stores, pinger, closeStore, err := openStores(ctx, cfg, appLogger)
	if err != nil {
		return err
	}
	defer closeStore()
	if err := stores.Validate(); err != nil {
		return err
	}

	opts := service.Options{RecentFormSize: cfg.Stats.RecentFormSize, DuplicateWindow: cfg.Stats.DuplicateWindow}
	services := handler.Services{
		Matches:       service.NewMatchService(stores, opts, appLogger),
		Stats:         service.NewStatsService(stores, opts, appLogger),
		Consolidation: service.NewConsolidationService(stores, appLogger),
	}

	if cfg.Logger.Env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(gin.Recovery(), handler.RequestLogger(appLogger))
	handler.Register(engine,
		handler.NewHealthHandler(pinger, cfg.Storage.Driver),
		handler.NewAuthenticator(cfg.Auth.JWTSecret, cfg.Auth.Issuer),
		services,
	)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.App.Port),
		Handler: engine,
	}

	errCh := make(chan error, 1)
	go func() {
		appLogger.Info().Int("port", cfg.App.Port).Str("storage", cfg.Storage.Driver).Msg("http server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	appLogger.Info().Dur("timeout", cfg.App.ShutdownTimeout).Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// openStores builds the configured backing store. The returned func releases it.
func openStores(ctx context.Context, cfg *config.Config, appLogger zerolog.Logger) (service.Stores, repository.Pinger, func(), error) {
	switch cfg.Storage.Driver {
	case config.StorageDriverMemory:
		appLogger.Warn().Msg("using in-memory storage; data is lost on restart")
		s := memory.NewStore()
		return service.Stores{Players: s.Players(), Matches: s.Matches(), Tx: s, Locker: s}, s, func() {}, nil
	default:
		repo, err := repository.New(ctx, cfg, &appLogger)
		if err != nil {
			return service.Stores{}, nil, nil, fmt.Errorf("postgres connection failed: %w", err)
		}
		pool := repo.Pool()
		tx := postgres.NewTxManager(pool)
		return service.Stores{
			Players: postgres.NewPlayerRepository(pool),
			Matches: postgres.NewMatchRepository(pool),
			Tx:      tx,
			Locker:  tx,
		}, postgres.NewPinger(pool), repo.Close, nil
	}
}
