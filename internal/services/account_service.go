package services

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/baharkarakas/finflow-backend/internal/api/validate"
	"github.com/baharkarakas/finflow-backend/internal/models"
	repo "github.com/baharkarakas/finflow-backend/internal/repository"
)

type AccountService struct {
	r      repo.Accounts
	now    func() time.Time
	number func() string
}

func NewAccountService(r repo.Accounts, now func() time.Time) *AccountService {
	if now == nil {
		now = time.Now
	}
	return &AccountService{r: r, now: now, number: randomAccountNumber}
}

// WithNumberSource replaces the account number generator.
func (s *AccountService) WithNumberSource(f func() string) *AccountService {
	s.number = f
	return s
}

func randomAccountNumber() string {
	return strconv.Itoa(rand.IntN(9_000_000_000) + 1_000_000_000)
}

var (
	accountTypes    = []string{string(models.AccountChecking), string(models.AccountSavings), string(models.AccountInvestment), string(models.AccountLoan)}
	accountStatuses = []string{string(models.AccountActive), string(models.AccountInactive), string(models.AccountFrozen), string(models.AccountClosed)}
)

func (s *AccountService) ListByUser(ctx context.Context, userID string) ([]models.Account, error) {
	if err := validate.Collect(validate.Required("userId", userID)); err != nil {
		return nil, err
	}
	out, err := s.r.ListByUser(ctx, strings.TrimSpace(userID))
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	return out, nil
}

// GetByID returns nil, nil when the account does not exist.
func (s *AccountService) GetByID(ctx context.Context, id string) (*models.Account, error) {
	a, err := s.r.GetByID(ctx, strings.TrimSpace(id))
	if err != nil {
		return nil, fmt.Errorf("get account: %w", err)
	}
	return a, nil
}

// Create opens an account for userID, filling defaults for anything the input leaves empty.
func (s *AccountService) Create(ctx context.Context, userID string, in models.AccountInput) (models.Account, error) {
	in.Currency = strings.ToUpper(strings.TrimSpace(in.Currency))
	err := validate.Collect(
		validate.Required("userId", userID),
		validate.OneOf("accountType", string(in.AccountType), accountTypes...),
		validate.OneOf("status", string(in.Status), accountStatuses...),
		validate.Len("currency", in.Currency, 3),
		validate.Scale("balance", in.Balance, models.AmountScale),
		validate.Scale("minimumBalance", in.MinimumBalance, models.AmountScale),
		validate.Scale("interestRate", in.InterestRate, models.RateScale),
	)
	if err != nil {
		return models.Account{}, err
	}

	a := models.Account{
		ID:             uuid.NewString(),
		UserID:         strings.TrimSpace(userID),
		AccountNumber:  s.number(),
		AccountType:    in.AccountType,
		Balance:        decimal.Zero,
		Currency:       in.Currency,
		Status:         in.Status,
		Name:           strings.TrimSpace(in.Name),
		IsDefault:      in.IsDefault,
		InterestRate:   in.InterestRate,
		MinimumBalance: in.MinimumBalance,
	}
	if a.AccountType == "" {
		a.AccountType = models.AccountChecking
	}
	if a.Currency == "" {
		a.Currency = "USD"
	}
	if a.Status == "" {
		a.Status = models.AccountActive
	}
	if in.Balance != nil {
		a.Balance = *in.Balance
	}
	if a.Name == "" {
		a.Name = defaultAccountName(a.AccountType)
	}
	now := s.now()
	a.CreatedAt, a.UpdatedAt = now, now

	created, err := s.r.Create(ctx, a)
	if err != nil {
		return models.Account{}, fmt.Errorf("create account: %w", err)
	}
	return created, nil
}

func defaultAccountName(t models.AccountType) string {
	s := string(t)
	return strings.ToUpper(s[:1]) + s[1:] + " Account"
}

// Update applies u to the account. A missing account yields an error
// wrapping repository.ErrNotFound.
func (s *AccountService) Update(ctx context.Context, id string, u models.AccountUpdate) (*models.Account, error) {
	var checks []*validate.ErrField
	if u.AccountType != nil {
		checks = append(checks, validate.Required("accountType", string(*u.AccountType)),
			validate.OneOf("accountType", string(*u.AccountType), accountTypes...))
	}
	if u.Status != nil {
		checks = append(checks, validate.Required("status", string(*u.Status)),
			validate.OneOf("status", string(*u.Status), accountStatuses...))
	}
	if u.Currency != nil {
		c := strings.ToUpper(strings.TrimSpace(*u.Currency))
		u.Currency = &c
		checks = append(checks, validate.Required("currency", c), validate.Len("currency", c, 3))
	}
	if u.Name != nil {
		checks = append(checks, validate.Required("name", *u.Name))
	}
	checks = append(checks,
		validate.Scale("balance", u.Balance, models.AmountScale),
		validate.Scale("minimumBalance", u.MinimumBalance, models.AmountScale),
		validate.Scale("interestRate", u.InterestRate, models.RateScale),
	)
	if err := validate.Collect(checks...); err != nil {
		return nil, err
	}

	a, err := s.r.Update(ctx, strings.TrimSpace(id), u)
	if err != nil {
		return nil, fmt.Errorf("update account %s: %w", id, err)
	}
	return a, nil
}
