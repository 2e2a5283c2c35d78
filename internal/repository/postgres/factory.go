// Package postgres implements the repositories on PostgreSQL through pgx.
package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/baharkarakas/finflow-backend/internal/db"
	"github.com/baharkarakas/finflow-backend/internal/repository"
)

type poolFunc func(ctx context.Context) (*pgxpool.Pool, error)

type pinger struct{ pool poolFunc }

func (p pinger) Ping(ctx context.Context) error {
	pool, err := p.pool(ctx)
	if err != nil {
		return err
	}
	return pool.Ping(ctx)
}

func NewRepositories(h *db.Handle[*pgxpool.Pool]) repository.Set {
	return repository.Set{
		Transactions: &transactionsRepo{pool: h.Get, now: time.Now},
		Accounts:     &accountsRepo{pool: h.Get, now: time.Now},
		Users:        &usersRepo{pool: h.Get, now: time.Now},
		Health:       pinger{h.Get},
	}
}
