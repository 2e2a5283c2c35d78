package postgres

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/baharkarakas/finflow-backend/internal/models"
	"github.com/baharkarakas/finflow-backend/internal/repository"
)

const accountColumns = `id, user_id, account_number, account_type, balance::text, currency, status, name,
       is_default, interest_rate::text, minimum_balance::text, created_at, updated_at`

type accountsRepo struct {
	pool poolFunc
	now  func() time.Time
}

func (r *accountsRepo) ListByUser(ctx context.Context, userID string) ([]models.Account, error) {
	pool, err := r.pool(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := pool.Query(ctx, `SELECT `+accountColumns+` FROM accounts WHERE user_id=$1 ORDER BY created_at, id`, userID)
	if err != nil {
		return nil, fmt.Errorf("query accounts: %w", err)
	}
	defer rows.Close()

	out := []models.Account{}
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *accountsRepo) GetByID(ctx context.Context, id string) (*models.Account, error) {
	pool, err := r.pool(ctx)
	if err != nil {
		return nil, err
	}
	a, err := scanAccount(pool.QueryRow(ctx, `SELECT `+accountColumns+` FROM accounts WHERE id=$1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *accountsRepo) Create(ctx context.Context, a models.Account) (models.Account, error) {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	pool, err := r.pool(ctx)
	if err != nil {
		return models.Account{}, err
	}
	_, err = pool.Exec(ctx, `
INSERT INTO accounts (
  id, user_id, account_number, account_type, balance, currency, status, name,
  is_default, interest_rate, minimum_balance, created_at, updated_at
) VALUES ($1,$2,$3,$4,$5::numeric,$6,$7,$8,$9,$10::numeric,$11::numeric,$12,$13)`,
		a.ID, a.UserID, a.AccountNumber, string(a.AccountType), a.Balance.String(), a.Currency, string(a.Status), a.Name,
		a.IsDefault, decimalArg(a.InterestRate), decimalArg(a.MinimumBalance), a.CreatedAt, a.UpdatedAt,
	)
	if err != nil {
		return models.Account{}, fmt.Errorf("insert account: %w", err)
	}
	return a, nil
}

func (r *accountsRepo) Update(ctx context.Context, id string, u models.AccountUpdate) (*models.Account, error) {
	pool, err := r.pool(ctx)
	if err != nil {
		return nil, err
	}
	set, args := buildAccountSet(u, r.now().UTC())
	args = append([]any{id}, args...)
	a, err := scanAccount(pool.QueryRow(ctx, `UPDATE accounts SET `+set+` WHERE id=$1 RETURNING `+accountColumns, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update account %s: %w", id, err)
	}
	return &a, nil
}

// buildAccountSet renders the SET list for u. Placeholders start at $2; $1 is the id.
func buildAccountSet(u models.AccountUpdate, now time.Time) (string, []any) {
	var cols []string
	var args []any
	add := func(col, cast string, v any) {
		args = append(args, v)
		cols = append(cols, col+"=$"+strconv.Itoa(len(args)+1)+cast)
	}
	if u.AccountType != nil {
		add("account_type", "", string(*u.AccountType))
	}
	if u.Balance != nil {
		add("balance", "::numeric", u.Balance.String())
	}
	if u.Currency != nil {
		add("currency", "", *u.Currency)
	}
	if u.Status != nil {
		add("status", "", string(*u.Status))
	}
	if u.Name != nil {
		add("name", "", *u.Name)
	}
	if u.IsDefault != nil {
		add("is_default", "", *u.IsDefault)
	}
	if u.InterestRate != nil {
		add("interest_rate", "::numeric", u.InterestRate.String())
	}
	if u.MinimumBalance != nil {
		add("minimum_balance", "::numeric", u.MinimumBalance.String())
	}
	add("updated_at", "", now)
	return strings.Join(cols, ", "), args
}

func scanAccount(row pgx.Row) (models.Account, error) {
	var (
		a                    models.Account
		balance, typ, status string
		rate, minimum        *string
	)
	err := row.Scan(&a.ID, &a.UserID, &a.AccountNumber, &typ, &balance, &a.Currency, &status, &a.Name,
		&a.IsDefault, &rate, &minimum, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return models.Account{}, err
	}
	if a.Balance, err = decimal.NewFromString(balance); err != nil {
		return models.Account{}, fmt.Errorf("account %s balance: %w", a.ID, err)
	}
	if a.InterestRate, err = parseDecimalPtr(rate); err != nil {
		return models.Account{}, err
	}
	if a.MinimumBalance, err = parseDecimalPtr(minimum); err != nil {
		return models.Account{}, err
	}
	a.AccountType = models.AccountType(typ)
	a.Status = models.AccountStatus(status)
	return a, nil
}

func parseDecimalPtr(s *string) (*decimal.Decimal, error) {
	if s == nil {
		return nil, nil
	}
	d, err := decimal.NewFromString(*s)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func decimalArg(d *decimal.Decimal) any {
	if d == nil {
		return nil
	}
	return d.String()
}

var _ repository.Accounts = (*accountsRepo)(nil)
