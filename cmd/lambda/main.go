package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/aws/aws-lambda-go/lambda"

	"github.com/baharkarakas/finflow-backend/internal/app"
	"github.com/baharkarakas/finflow-backend/internal/config"
	"github.com/baharkarakas/finflow-backend/internal/logger"
	"github.com/baharkarakas/finflow-backend/internal/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("config", "err", err)
		os.Exit(1)
	}
	slog.SetDefault(logger.New(cfg.Env))

	set, closeStore, err := app.OpenStore(context.Background(), cfg)
	if err != nil {
		slog.Error("store", "mode", cfg.StoreMode, "err", err)
		os.Exit(1)
	}
	defer closeStore()

	h := &handler{svc: services.NewTransactionService(set.Transactions, time.Now)}
	lambda.Start(h.Handle)
}
