package postgres

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/baharkarakas/finflow-backend/internal/models"
	"github.com/baharkarakas/finflow-backend/internal/query"
	"github.com/baharkarakas/finflow-backend/internal/repository"
)

const txColumns = `id, user_id, account_id, date, description, amount::text, type, category, status,
       counterparty, reference, currency, created_at, updated_at`

type transactionsRepo struct {
	pool poolFunc
	now  func() time.Time
}

func (r *transactionsRepo) Query(ctx context.Context, c query.Criteria, w repository.Window) ([]models.Transaction, error) {
	pool, err := r.pool(ctx)
	if err != nil {
		return nil, err
	}
	where, args := buildWhere(c)
	sql := `SELECT ` + txColumns + ` FROM transactions` + where + ` ORDER BY date DESC, seq ASC`
	if w.Limit > 0 {
		args = append(args, w.Limit)
		sql += ` LIMIT $` + strconv.Itoa(len(args))
	}
	if w.Skip > 0 {
		args = append(args, w.Skip)
		sql += ` OFFSET $` + strconv.Itoa(len(args))
	}

	rows, err := pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()

	out := []models.Transaction{}
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, tx)
	}
	return out, rows.Err()
}

func (r *transactionsRepo) Count(ctx context.Context, c query.Criteria) (int, error) {
	pool, err := r.pool(ctx)
	if err != nil {
		return 0, err
	}
	where, args := buildWhere(c)
	var n int
	if err := pool.QueryRow(ctx, `SELECT count(*) FROM transactions`+where, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count transactions: %w", err)
	}
	return n, nil
}

func (r *transactionsRepo) GetByID(ctx context.Context, id string) (*models.Transaction, error) {
	pool, err := r.pool(ctx)
	if err != nil {
		return nil, err
	}
	tx, err := scanTransaction(pool.QueryRow(ctx, `SELECT `+txColumns+` FROM transactions WHERE id=$1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &tx, nil
}

func (r *transactionsRepo) Create(ctx context.Context, tx models.Transaction) (models.Transaction, error) {
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
	pool, err := r.pool(ctx)
	if err != nil {
		return models.Transaction{}, err
	}
	_, err = pool.Exec(ctx, `
INSERT INTO transactions (
  id, user_id, account_id, date, description, amount, type, category, status,
  counterparty, reference, currency, created_at, updated_at
) VALUES ($1,$2,$3,$4,$5,$6::numeric,$7,$8,$9,$10,$11,$12,$13,$14)`,
		tx.ID, tx.UserID, nullable(tx.AccountID), tx.Date, tx.Description, tx.Amount.String(),
		string(tx.Type), tx.Category, string(tx.Status), nullable(tx.Counterparty), nullable(tx.Reference),
		tx.Currency, tx.CreatedAt, tx.UpdatedAt,
	)
	if err != nil {
		return models.Transaction{}, fmt.Errorf("insert transaction: %w", err)
	}
	return tx, nil
}

func (r *transactionsRepo) UpdateStatus(ctx context.Context, id string, status models.TransactionStatus) error {
	pool, err := r.pool(ctx)
	if err != nil {
		return err
	}
	tag, err := pool.Exec(ctx, `UPDATE transactions SET status=$2, updated_at=$3 WHERE id=$1`, id, string(status), r.now().UTC())
	if err != nil {
		return fmt.Errorf("update transaction %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func scanTransaction(row pgx.Row) (models.Transaction, error) {
	var (
		tx                           models.Transaction
		accountID, counterparty, ref *string
		amount, typ, status          string
	)
	err := row.Scan(&tx.ID, &tx.UserID, &accountID, &tx.Date, &tx.Description, &amount, &typ, &tx.Category, &status,
		&counterparty, &ref, &tx.Currency, &tx.CreatedAt, &tx.UpdatedAt)
	if err != nil {
		return models.Transaction{}, err
	}
	if tx.Amount, err = decimal.NewFromString(amount); err != nil {
		return models.Transaction{}, fmt.Errorf("transaction %s amount %q: %w", tx.ID, amount, err)
	}
	tx.Type = models.TransactionType(typ)
	tx.Status = models.TransactionStatus(status)
	tx.AccountID = deref(accountID)
	tx.Counterparty = deref(counterparty)
	tx.Reference = deref(ref)
	return tx, nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

var _ repository.Transactions = (*transactionsRepo)(nil)
