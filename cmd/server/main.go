package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alito/opencog/internal/api"
	"github.com/alito/opencog/internal/buildconfig"
	"github.com/alito/opencog/internal/config"
	"github.com/alito/opencog/internal/logging"
	"github.com/alito/opencog/internal/rules"
	"github.com/alito/opencog/internal/service"
	"github.com/alito/opencog/internal/store"
	"go.uber.org/zap"
)

func main() {
	_ = config.Load()

	logger, err := logging.New(config.LogLevel())
	if err != nil {
		logger, _ = zap.NewProduction()
		logger.Warn("invalid LOG_LEVEL, using info", zap.Error(err))
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	ruleSet, err := config.LoadRuleSet(config.RuleSetFile())
	if err != nil {
		logger.Fatal("failed to load rule set", zap.Error(err))
	}

	opened, err := store.Open(ctx, store.Settings{
		Driver:      config.AtomSpaceDriver(),
		DatabaseURL: config.DatabaseURL(),
		SQLitePath:  config.SQLitePath(),
	})
	if err != nil {
		logger.Fatal("failed to open atom space", zap.Error(err))
	}
	defer opened.Close()
	logger.Info("atom space ready", zap.String("driver", config.AtomSpaceDriver()))

	reasoner := service.NewReasoner(opened.Space, logger)
	if err := reasoner.BuildCatalog(ctx, service.Options{
		MinArity:        ruleSet.MinArity,
		MaxArity:        ruleSet.MaxArity,
		Transformations: ruleSet.Transformations,
		Simplify:        rules.Mode(ruleSet.Simplify),
	}); err != nil {
		logger.Fatal("failed to build rule catalog", zap.Error(err))
	}

	app := api.NewApp(reasoner, opened.Ping, api.Options{
		RateLimitRPS:   config.RateLimitRPS(),
		RateLimitBurst: config.RateLimitBurst(),
	}, logger)
	go app.RateLimiter.Run(ctx, 10*time.Minute)

	addr := config.ServerAddr()
	srv := &http.Server{
		Addr:              addr,
		Handler:           app.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("server starting",
			zap.String("addr", addr),
			zap.String("version", buildconfig.Version()),
			zap.String("commit", buildconfig.Commit()),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server failed", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", zap.Error(err))
		os.Exit(1)
	}

	logger.Info("server stopped")
}
