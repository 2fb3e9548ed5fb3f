package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/cargotrace/engine/internal/config"
	"github.com/cargotrace/engine/internal/engine"
	"github.com/cargotrace/engine/internal/ledger"
	"github.com/cargotrace/engine/internal/registry"
	"github.com/cargotrace/engine/internal/server"
	"github.com/cargotrace/engine/internal/store"
	"github.com/cargotrace/engine/internal/watcher"
	"github.com/cargotrace/engine/pkg/api"
	"github.com/cargotrace/engine/pkg/log"
)

const (
	serviceName    = "cargotrace-engine"
	serviceVersion = "1.0.0"
)

type cargotrace struct {
	cfg          *config.Config
	region       *store.Region
	engine       *engine.Engine
	registry     *registry.Registry
	checkpointer *registry.Checkpointer
	apiServer    *server.Server
	httpServer   *http.Server
	quit         chan os.Signal
}

var (
	ErrConnectStore   = errors.New("failed to connect to store")
	ErrOpenCheckpoint = errors.New("failed to open checkpoint bucket")
)

var logLevels = map[string]slog.Level{
	"debug": slog.LevelDebug,
	"info":  slog.LevelInfo,
	"warn":  slog.LevelWarn,
	"error": slog.LevelError,
}

func main() {
	cfg := config.NewDefaultConfig()
	if err := cfg.LoadFromEnv(); err != nil {
		slog.Error("Invalid configuration", log.Error(err))
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		slog.Error("Invalid configuration", log.Error(err))
		os.Exit(1)
	}

	s := &cargotrace{
		cfg:  cfg,
		quit: make(chan os.Signal, 1),
	}
	s.setupLogging()

	if err := s.run(); err != nil {
		slog.Error("Failed to start application", log.Error(err))
		os.Exit(1)
	}
}

func (s *cargotrace) run() error {
	ctx := context.Background()

	if err := s.initializeStore(ctx); err != nil {
		return err
	}
	if err := s.initializeRegistry(ctx); err != nil {
		return err
	}
	s.initializeEngine()
	s.startServer()

	signal.Notify(s.quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(s.quit)
	<-s.quit

	s.shutdown()
	return nil
}

func (s *cargotrace) setupLogging() {
	level, ok := logLevels[s.cfg.LogLevel]
	if !ok {
		level = slog.LevelInfo
	}

	env := os.Getenv("ENV")
	logger := log.NewWithLevel(serviceName, env, serviceVersion, level)
	slog.SetDefault(logger)
	slog.SetLogLoggerLevel(level)

	slog.Info("CargoTrace Engine starting",
		slog.String("log_level", s.cfg.LogLevel))

	slog.Info("Configuration loaded",
		slog.String("redis_addr", s.cfg.Store.Addr),
		slog.Int("redis_db", s.cfg.Store.DB),
		slog.String("redis_prefix", s.cfg.Store.Prefix),
		slog.String("api_host", s.cfg.APIHost),
		slog.Int("api_port", s.cfg.APIPort))
}

func (s *cargotrace) initializeStore(ctx context.Context) error {
	s.region = store.NewRegion(s.cfg.Store)
	if err := s.region.Ping(ctx); err != nil {
		return fmt.Errorf("%w: %w", ErrConnectStore, err)
	}
	return nil
}

func (s *cargotrace) initializeRegistry(ctx context.Context) error {
	s.registry = registry.New()
	if s.cfg.CheckpointURL == "" {
		return nil
	}

	cp, err := registry.NewCheckpointer(
		ctx, s.cfg.CheckpointURL, s.cfg.CheckpointKey,
	)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrOpenCheckpoint, err)
	}
	s.checkpointer = cp
	return cp.Restore(ctx, s.registry)
}

func (s *cargotrace) initializeEngine() {
	var opts []engine.Option
	if s.cfg.TreasuryIdentity != "" {
		opts = append(opts, engine.WithTreasury(
			api.Identity(s.cfg.TreasuryIdentity),
		))
	}
	s.engine = engine.New(s.region, ledger.NewLocalClient(), opts...)
}

func (s *cargotrace) startServer() {
	s.apiServer = server.NewServer(s.engine, s.registry, watcher.New())
	mux := s.apiServer.SetupRoutes()

	s.httpServer = &http.Server{
		Addr:    fmt.Sprintf("%s:%d", s.cfg.APIHost, s.cfg.APIPort),
		Handler: mux,
	}

	go func() {
		slog.Info("HTTP server starting",
			slog.String("addr", s.httpServer.Addr))
		err := s.httpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("HTTP server error", log.Error(err))
		}
	}()
}

func (s *cargotrace) shutdown() {
	slog.Info("Shutting down")

	ctx, cancel := context.WithTimeout(
		context.Background(), s.cfg.ShutdownTimeout,
	)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		slog.Error("Shutdown failed", log.Error(err))
	}

	if s.checkpointer != nil {
		if err := s.checkpointer.Save(ctx, s.registry); err != nil {
			slog.Error("Registry checkpoint failed", log.Error(err))
		}
		_ = s.checkpointer.Close()
	}

	if err := s.region.Close(); err != nil {
		slog.Error("Store shutdown failed", log.Error(err))
	}

	slog.Info("Server exited")
}
