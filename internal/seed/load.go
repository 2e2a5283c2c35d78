package seed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/baharkarakas/finflow-backend/internal/metrics"
	"github.com/baharkarakas/finflow-backend/internal/models"
	"github.com/baharkarakas/finflow-backend/internal/repository"
	"github.com/baharkarakas/finflow-backend/internal/worker"
)

type Report struct {
	Users        int `json:"users"`
	Accounts     int `json:"accounts"`
	Transactions int `json:"transactions"`
	Failed       int `json:"failed"`
}

type loader struct {
	mu   sync.Mutex
	wg   sync.WaitGroup
	rep  Report
	errs []error
}

func (l *loader) done(kind string, err error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if err != nil {
		l.rep.Failed++
		l.errs = append(l.errs, err)
		metrics.SeededRecords.WithLabelValues(kind, "error").Inc()
		return
	}
	switch kind {
	case "user":
		l.rep.Users++
	case "account":
		l.rep.Accounts++
	case "transaction":
		l.rep.Transactions++
	}
	metrics.SeededRecords.WithLabelValues(kind, "ok").Inc()
}

func (l *loader) submit(p *worker.Pool, kind string, f func() error) {
	l.wg.Add(1)
	p.Submit(func() {
		defer l.wg.Done()
		l.done(kind, f())
	})
}

// Load writes ds through set using the pool. Users go in first, then
// accounts, then transactions. Every record is attempted; failures are joined into the error.
func Load(ctx context.Context, set repository.Set, ds Dataset, p *worker.Pool) (Report, error) {
	l := &loader{}

	for _, u := range ds.Users {
		l.submit(p, "user", func() error {
			if _, err := set.Users.Create(ctx, u); err != nil {
				return fmt.Errorf("user %s: %w", u.Email, err)
			}
			return nil
		})
	}
	l.wg.Wait()

	for _, a := range ds.Accounts {
		l.submit(p, "account", func() error {
			if _, err := set.Accounts.Create(ctx, a); err != nil {
				return fmt.Errorf("account %s: %w", a.AccountNumber, err)
			}
			return nil
		})
	}
	l.wg.Wait()

	for _, tx := range ds.Transactions {
		l.submit(p, "transaction", func() error {
			if _, err := set.Transactions.Create(ctx, tx); err != nil {
				return fmt.Errorf("transaction %s: %w", tx.ID, err)
			}
			return nil
		})
	}
	l.wg.Wait()

	slog.Info("seed loaded", "user_id", ds.UserID, "users", l.rep.Users, "accounts", l.rep.Accounts,
		"transactions", l.rep.Transactions, "failed", l.rep.Failed)
	return l.rep, errors.Join(l.errs...)
}

// Totals counts credits and debits.
func Totals(txs []models.Transaction) (credits, debits int) {
	for _, tx := range txs {
		switch tx.Type {
		case models.TxnCredit:
			credits++
		case models.TxnDebit:
			debits++
		}
	}
	return credits, debits
}
