package repository

import (
	"context"
	"errors"

	"github.com/baharkarakas/finflow-backend/internal/models"
	"github.com/baharkarakas/finflow-backend/internal/query"
)

// ErrNotFound is returned by writes that target a missing record. Reads
// report absence as a nil result instead.
var ErrNotFound = errors.New("not found")

// Window selects a slice of the sorted result. Limit <= 0 means unbounded.
type Window struct {
	Skip  int
	Limit int
}

// Transactions is implemented by every store. Query returns matches sorted by
// date descending, ties in insertion order, then cut to w.
type Transactions interface {
	Query(ctx context.Context, c query.Criteria, w Window) ([]models.Transaction, error)
	Count(ctx context.Context, c query.Criteria) (int, error)
	GetByID(ctx context.Context, id string) (*models.Transaction, error)
	Create(ctx context.Context, tx models.Transaction) (models.Transaction, error)
	UpdateStatus(ctx context.Context, id string, status models.TransactionStatus) error
}

type Accounts interface {
	ListByUser(ctx context.Context, userID string) ([]models.Account, error)
	GetByID(ctx context.Context, id string) (*models.Account, error)
	Create(ctx context.Context, a models.Account) (models.Account, error)
	Update(ctx context.Context, id string, u models.AccountUpdate) (*models.Account, error)
}

// Users looks profiles up by id or by normalized email. Create rejects a
// duplicate id or email.
type Users interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, u models.User) (models.User, error)
	Update(ctx context.Context, id string, u models.UserUpdate) (*models.User, error)
}

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Set bundles the repositories of one backend.
type Set struct {
	Transactions Transactions
	Accounts     Accounts
	Users        Users
	Health       Pinger
}
