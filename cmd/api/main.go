package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/baharkarakas/finflow-backend/internal/api"
	"github.com/baharkarakas/finflow-backend/internal/app"
	"github.com/baharkarakas/finflow-backend/internal/auth"
	"github.com/baharkarakas/finflow-backend/internal/config"
	"github.com/baharkarakas/finflow-backend/internal/logger"
	"github.com/baharkarakas/finflow-backend/internal/metrics"
	"github.com/baharkarakas/finflow-backend/internal/seed"
	"github.com/baharkarakas/finflow-backend/internal/services"
	"github.com/baharkarakas/finflow-backend/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("config", "err", err)
		os.Exit(1)
	}
	log := logger.New(cfg.Env)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	set, closeStore, err := app.OpenStore(ctx, cfg)
	if err != nil {
		log.Error("store", "mode", cfg.StoreMode, "err", err)
		os.Exit(1)
	}
	defer closeStore()

	metrics.Init()

	if cfg.SeedDemo {
		wp := worker.NewPool(cfg.Workers)
		rep, err := seed.Load(ctx, set, seed.Demo(time.Now(), cfg.SeedRandom, 1), wp)
		wp.Stop()
		if err != nil {
			log.Warn("demo seed incomplete", "failed", rep.Failed, "err", err)
		}
	}

	tm := auth.NewTokenManager(cfg.JWTIssuer, cfg.JWTAccessSecret, cfg.JWTRefreshSecret, cfg.AccessTTL, cfg.RefreshTTL)
	r := api.NewRouter(api.RouterDeps{
		Cfg:        cfg,
		Tokens:     tm,
		TxnSvc:     services.NewTransactionService(set.Transactions, time.Now),
		AccountSvc: services.NewAccountService(set.Accounts, time.Now),
		UserSvc:    services.NewUserService(set.Users, time.Now),
		Health:     set.Health,
		Now:        time.Now,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info("server starting", "port", cfg.HTTPPort, "store", cfg.StoreMode, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server", "err", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown", "err", err)
	}
}
