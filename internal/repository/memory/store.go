// Package memory keeps transactions, accounts and users in process memory. It is the
// default store for development and the reference the other backends are
// tested against.
package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/baharkarakas/finflow-backend/internal/models"
	"github.com/baharkarakas/finflow-backend/internal/query"
	"github.com/baharkarakas/finflow-backend/internal/repository"
)

// Store is safe for concurrent use. Records are copied in and out, so callers
// never share memory with the store.
type Store struct {
	mu       sync.RWMutex
	txs      []models.Transaction
	txIndex  map[string]int
	accounts []models.Account
	accIndex map[string]int
	users    map[string]models.User
	emails   map[string]string
	now      func() time.Time
}

func NewStore() *Store {
	return &Store{
		txIndex:  make(map[string]int),
		accIndex: make(map[string]int),
		users:    make(map[string]models.User),
		emails:   make(map[string]string),
		now:      time.Now,
	}
}

// NewSet exposes one Store through every repository interface.
func NewSet(s *Store) repository.Set {
	return repository.Set{
		Transactions: (*transactions)(s),
		Accounts:     (*accounts)(s),
		Users:        (*users)(s),
		Health:       s,
	}
}

func (s *Store) Ping(ctx context.Context) error { return ctx.Err() }

type transactions Store

func (r *transactions) Query(ctx context.Context, c query.Criteria, w repository.Window) ([]models.Transaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	matched := query.Apply(r.txs, c)
	r.mu.RUnlock()

	query.SortByDateDesc(matched)
	return query.Window(matched, w.Skip, w.Limit), nil
}

func (r *transactions) Count(ctx context.Context, c query.Criteria) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	n := 0
	for _, tx := range r.txs {
		if c.Match(tx) {
			n++
		}
	}
	return n, nil
}

func (r *transactions) GetByID(ctx context.Context, id string) (*models.Transaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	i, ok := r.txIndex[id]
	if !ok {
		return nil, nil
	}
	tx := r.txs[i]
	return &tx, nil
}

func (r *transactions) Create(ctx context.Context, tx models.Transaction) (models.Transaction, error) {
	if err := ctx.Err(); err != nil {
		return models.Transaction{}, err
	}
	if err := tx.Validate(); err != nil {
		return models.Transaction{}, err
	}
	if tx.ID == "" {
		tx.ID = uuid.NewString()
	}
	now := r.now().UTC()
	if tx.CreatedAt.IsZero() {
		tx.CreatedAt = now
	}
	if tx.UpdatedAt.IsZero() {
		tx.UpdatedAt = tx.CreatedAt
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, dup := r.txIndex[tx.ID]; dup {
		return models.Transaction{}, fmt.Errorf("transaction %s already exists", tx.ID)
	}
	r.txIndex[tx.ID] = len(r.txs)
	r.txs = append(r.txs, tx)
	return tx, nil
}

func (r *transactions) UpdateStatus(ctx context.Context, id string, status models.TransactionStatus) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	i, ok := r.txIndex[id]
	if !ok {
		return repository.ErrNotFound
	}
	r.txs[i].Status = status
	r.txs[i].UpdatedAt = r.now().UTC()
	return nil
}

type accounts Store

func (r *accounts) ListByUser(ctx context.Context, userID string) ([]models.Account, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []models.Account{}
	for _, a := range r.accounts {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *accounts) GetByID(ctx context.Context, id string) (*models.Account, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	i, ok := r.accIndex[id]
	if !ok {
		return nil, nil
	}
	a := r.accounts[i]
	return &a, nil
}

func (r *accounts) Create(ctx context.Context, a models.Account) (models.Account, error) {
	if err := ctx.Err(); err != nil {
		return models.Account{}, err
	}
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, dup := r.accIndex[a.ID]; dup {
		return models.Account{}, fmt.Errorf("account %s already exists", a.ID)
	}
	r.accIndex[a.ID] = len(r.accounts)
	r.accounts = append(r.accounts, a)
	return a, nil
}

func (r *accounts) Update(ctx context.Context, id string, u models.AccountUpdate) (*models.Account, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	i, ok := r.accIndex[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	u.Apply(&r.accounts[i], r.now().UTC())
	a := r.accounts[i]
	return &a, nil
}

type users Store

func (r *users) GetByID(ctx context.Context, id string) (*models.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	return copyUser(u), nil
}

func (r *users) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.emails[models.NormalizeEmail(email)]
	if !ok {
		return nil, nil
	}
	return copyUser(r.users[id]), nil
}

func (r *users) Create(ctx context.Context, u models.User) (models.User, error) {
	if err := ctx.Err(); err != nil {
		return models.User{}, err
	}
	if err := u.Validate(); err != nil {
		return models.User{}, err
	}
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = r.now().UTC()
	}
	if u.UpdatedAt.IsZero() {
		u.UpdatedAt = u.CreatedAt
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, dup := r.users[u.ID]; dup {
		return models.User{}, fmt.Errorf("user %s already exists", u.ID)
	}
	if _, dup := r.emails[u.Email]; dup {
		return models.User{}, fmt.Errorf("email %s already registered", u.Email)
	}
	r.users[u.ID] = *copyUser(u)
	r.emails[u.Email] = u.ID
	return u, nil
}

func (r *users) Update(ctx context.Context, id string, upd models.UserUpdate) (*models.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	oldEmail := u.Email
	upd.Apply(&u, r.now().UTC())
	if u.Email != oldEmail {
		if owner, taken := r.emails[u.Email]; taken && owner != id {
			return nil, fmt.Errorf("email %s already registered", u.Email)
		}
		delete(r.emails, oldEmail)
		r.emails[u.Email] = id
	}
	r.users[id] = u
	return copyUser(u), nil
}

// copyUser detaches the address pointer from the stored record.
func copyUser(u models.User) *models.User {
	if u.Address != nil {
		a := *u.Address
		u.Address = &a
	}
	return &u
}

var (
	_ repository.Transactions = (*transactions)(nil)
	_ repository.Accounts     = (*accounts)(nil)
	_ repository.Users        = (*users)(nil)
	_ repository.Pinger       = (*Store)(nil)
)
