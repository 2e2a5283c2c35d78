package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/baharkarakas/finflow-backend/internal/metrics"
	"github.com/baharkarakas/finflow-backend/internal/models"
	"github.com/baharkarakas/finflow-backend/internal/query"
	repo "github.com/baharkarakas/finflow-backend/internal/repository"
)

// ErrMissingScope is reported when a read names neither a user nor an account.
var ErrMissingScope = errors.New("Either user or account scope must be provided")

const DefaultSummaryMonths = 6

type TransactionService struct {
	trx repo.Transactions
	now func() time.Time
}

// NewTransactionService uses now to resolve relative date ranges; nil means time.Now.
func NewTransactionService(t repo.Transactions, now func() time.Time) *TransactionService {
	if now == nil {
		now = time.Now
	}
	return &TransactionService{trx: t, now: now}
}

// ----------------- List -----------------

// List returns one page of the caller's transactions, newest first. It never
// fails: store errors, a missing scope and even a panicking store come back
// as an envelope with Error set, empty Data and zero totals.
func (s *TransactionService) List(ctx context.Context, userID string, q models.TransactionQuery) (page models.TransactionPage) {
	q = q.Normalize()
	userID = strings.TrimSpace(userID)
	start := time.Now()
	outcome := "ok"
	defer func() {
		if r := recover(); r != nil {
			slog.Error("transaction list panic", "err", r, "user_id", userID)
			page, outcome = failedPage(q, fmt.Sprintf("failed to fetch transactions: %v", r)), "error"
		}
		metrics.TransactionQueries.WithLabelValues("list", outcome).Inc()
		metrics.QueryLatency.WithLabelValues("list").Observe(time.Since(start).Seconds())
	}()

	if userID == "" && q.AccountID == "" {
		outcome = "invalid"
		return failedPage(q, ErrMissingScope.Error())
	}
	c := query.Resolve(userID, q, s.now())

	total, err := s.trx.Count(ctx, c)
	if err != nil {
		slog.Warn("transaction count failed", "err", err, "user_id", userID, "account_id", q.AccountID)
		outcome = "error"
		return failedPage(q, "failed to fetch transactions: "+err.Error())
	}
	skip, totalPages := query.Paginate(total, q.Page, q.Limit)

	data := []models.Transaction{}
	if skip < total {
		data, err = s.trx.Query(ctx, c, repo.Window{Skip: skip, Limit: q.Limit})
		if err != nil {
			slog.Warn("transaction query failed", "err", err, "user_id", userID, "account_id", q.AccountID)
			outcome = "error"
			return failedPage(q, "failed to fetch transactions: "+err.Error())
		}
		if data == nil {
			data = []models.Transaction{}
		}
	}

	return models.TransactionPage{
		Data: data,
		Pagination: models.Pagination{
			Total:      total,
			Page:       q.Page,
			Limit:      q.Limit,
			TotalPages: totalPages,
		},
	}
}

func failedPage(q models.TransactionQuery, msg string) models.TransactionPage {
	return models.TransactionPage{
		Data:       []models.Transaction{},
		Pagination: models.Pagination{Page: q.Page, Limit: q.Limit},
		Error:      msg,
	}
}

// ----------------- Single record -----------------

// GetByID follows the same fail-soft rule as List. A missing record is
// Data == nil with no Error.
func (s *TransactionService) GetByID(ctx context.Context, id string) (res models.TransactionResult) {
	start := time.Now()
	outcome := "ok"
	defer func() {
		if r := recover(); r != nil {
			slog.Error("transaction get panic", "err", r, "id", id)
			res, outcome = models.TransactionResult{Error: fmt.Sprintf("failed to fetch transaction: %v", r)}, "error"
		}
		metrics.TransactionQueries.WithLabelValues("get", outcome).Inc()
		metrics.QueryLatency.WithLabelValues("get").Observe(time.Since(start).Seconds())
	}()

	id = strings.TrimSpace(id)
	if id == "" {
		return models.TransactionResult{}
	}
	tx, err := s.trx.GetByID(ctx, id)
	if err != nil {
		slog.Warn("transaction get failed", "err", err, "id", id)
		outcome = "error"
		return models.TransactionResult{Error: "failed to fetch transaction: " + err.Error()}
	}
	return models.TransactionResult{Data: tx}
}

// ----------------- Analytics -----------------

func (s *TransactionService) scoped(ctx context.Context, c query.Criteria) ([]models.Transaction, error) {
	if !c.HasScope() {
		return nil, ErrMissingScope
	}
	txs, err := s.trx.Query(ctx, c, repo.Window{})
	if err != nil {
		return nil, fmt.Errorf("load transactions: %w", err)
	}
	return txs, nil
}

// Categories lists the distinct categories in scope, sorted.
func (s *TransactionService) Categories(ctx context.Context, userID, accountID string) ([]string, error) {
	txs, err := s.scoped(ctx, query.Criteria{UserID: userID, AccountID: accountID})
	if err != nil {
		return nil, err
	}
	seen := map[string]struct{}{}
	out := []string{}
	for _, tx := range txs {
		if _, ok := seen[tx.Category]; ok || tx.Category == "" {
			continue
		}
		seen[tx.Category] = struct{}{}
		out = append(out, tx.Category)
	}
	sort.Strings(out)
	return out, nil
}

// SpendingByCategory totals debits dated within [from, to], largest first.
func (s *TransactionService) SpendingByCategory(ctx context.Context, userID, accountID string, from, to time.Time) ([]models.CategorySpending, error) {
	if to.Before(from) {
		return nil, fmt.Errorf("invalid period: %s is before %s", to.Format(time.RFC3339), from.Format(time.RFC3339))
	}
	txs, err := s.scoped(ctx, query.Criteria{
		UserID: userID, AccountID: accountID, Type: models.TypeDebit, Since: &from, Until: &to,
	})
	if err != nil {
		return nil, err
	}

	totals := map[string]decimal.Decimal{}
	for _, tx := range txs {
		totals[tx.Category] = totals[tx.Category].Add(tx.Amount)
	}
	out := make([]models.CategorySpending, 0, len(totals))
	for cat, amt := range totals {
		out = append(out, models.CategorySpending{Category: cat, Amount: amt})
	}
	sort.Slice(out, func(i, j int) bool {
		if c := out[i].Amount.Cmp(out[j].Amount); c != 0 {
			return c > 0
		}
		return out[i].Category < out[j].Category
	})
	return out, nil
}

// MonthlySummary returns income and expenses for the last months calendar
// months including the current one, oldest first. months < 1 means six.
func (s *TransactionService) MonthlySummary(ctx context.Context, userID, accountID string, months int) ([]models.MonthlySummary, error) {
	if months < 1 {
		months = DefaultSummaryMonths
	}
	now := s.now()
	first := time.Date(now.Year(), now.Month()-time.Month(months-1), 1, 0, 0, 0, 0, now.Location())
	end := time.Date(now.Year(), now.Month()+1, 1, 0, 0, 0, 0, now.Location()).Add(-time.Nanosecond)

	txs, err := s.scoped(ctx, query.Criteria{UserID: userID, AccountID: accountID, Since: &first, Until: &end})
	if err != nil {
		return nil, err
	}

	out := make([]models.MonthlySummary, months)
	for i := range out {
		m := first.AddDate(0, i, 0)
		out[i] = models.MonthlySummary{Month: m.Format("Jan 2006"), Income: decimal.Zero, Expenses: decimal.Zero}
	}
	for _, tx := range txs {
		d := tx.Date.In(now.Location())
		i := (d.Year()-first.Year())*12 + int(d.Month()) - int(first.Month())
		if i < 0 || i >= months {
			continue
		}
		switch tx.Type {
		case models.TxnCredit:
			out[i].Income = out[i].Income.Add(tx.Amount)
		case models.TxnDebit:
			out[i].Expenses = out[i].Expenses.Add(tx.Amount)
		}
	}
	return out, nil
}
