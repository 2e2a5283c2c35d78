package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/baharkarakas/finflow-backend/internal/api/handlers"
	"github.com/baharkarakas/finflow-backend/internal/auth"
	"github.com/baharkarakas/finflow-backend/internal/config"
	"github.com/baharkarakas/finflow-backend/internal/metrics"
	"github.com/baharkarakas/finflow-backend/internal/middleware"
	repo "github.com/baharkarakas/finflow-backend/internal/repository"
	"github.com/baharkarakas/finflow-backend/internal/services"
)

type RouterDeps struct {
	Cfg        config.Config
	Tokens     *auth.TokenManager
	TxnSvc     *services.TransactionService
	AccountSvc *services.AccountService
	UserSvc    *services.UserService
	Health     repo.Pinger
	Now        func() time.Time
}

func NewRouter(d RouterDeps) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.Recover, middleware.HTTPMetrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PATCH", "OPTIONS"},
		AllowedHeaders: []string{"Authorization", "Content-Type", "X-Request-Id"},
		ExposedHeaders: []string{"X-Request-Id"},
	}))

	// Public routes share one per-host limiter; authenticated routes are limited per user.
	hostLimit := middleware.RateLimit(d.Cfg.RateRPS)

	r.With(hostLimit).Get("/health", handlers.Health(d.Health, d.Cfg.StoreMode))
	r.With(hostLimit).Handle("/metrics", metrics.Handler())

	authH := handlers.NewAuthHandler(d.Tokens, d.Cfg.Env)
	txH := handlers.NewTransactionHandler(d.TxnSvc, d.Now)
	accH := handlers.NewAccountHandler(d.AccountSvc)
	userH := handlers.NewUserHandler(d.UserSvc)
	authMW := middleware.NewAuthMiddleware(d.Tokens, d.Cfg.Env)

	r.Route("/api/v1", func(r chi.Router) {
		r.With(hostLimit).Post("/auth/token", authH.Token)
		r.With(hostLimit).Post("/auth/refresh", authH.Refresh)

		r.Group(func(r chi.Router) {
			r.Use(authMW.Auth, middleware.UserRateLimit(d.Cfg.RateRPS))

			r.Get("/transactions", txH.List)
			r.Get("/transactions/categories", txH.Categories)
			r.Get("/transactions/spending", txH.Spending)
			r.Get("/transactions/summary", txH.Summary)
			r.Get("/transactions/{id}", txH.Get)

			r.Get("/accounts", accH.List)
			r.Post("/accounts", accH.Create)
			r.Get("/accounts/{id}", accH.Get)
			r.Patch("/accounts/{id}", accH.Update)

			r.Get("/me", userH.Me)
			r.Patch("/me", userH.UpdateMe)
		})
	})

	return r
}
