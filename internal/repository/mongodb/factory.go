package mongodb

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/baharkarakas/finflow-backend/internal/db"
	"github.com/baharkarakas/finflow-backend/internal/repository"
)

type pinger struct{ h *db.Handle[*mongo.Database] }

func (p pinger) Ping(ctx context.Context) error {
	d, err := p.h.Get(ctx)
	if err != nil {
		return err
	}
	return d.Client().Ping(ctx, nil)
}

// NewRepositories binds the repositories to a lazily opened database handle.
func NewRepositories(h *db.Handle[*mongo.Database]) repository.Set {
	return repository.Set{
		Transactions: &transactionsRepo{coll: fromHandle(h, TransactionsCollection), now: time.Now},
		Accounts:     &accountsRepo{coll: fromHandle(h, AccountsCollection), now: time.Now},
		Users:        &usersRepo{coll: fromHandle(h, UsersCollection), now: time.Now},
		Health:       pinger{h},
	}
}
