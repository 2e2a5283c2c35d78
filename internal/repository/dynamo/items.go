package dynamo

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/baharkarakas/finflow-backend/internal/models"
)

// timeLayout is fixed width so string comparison matches time order.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t time.Time) string { return t.UTC().Format(timeLayout) }

func parseTime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return time.Parse(timeLayout, s)
}

// transactionItem carries lowercased copies of the searchable fields so
// contains() in a filter expression behaves case-insensitively.
type transactionItem struct {
	ID                string `dynamodbav:"id"`
	UserID            string `dynamodbav:"userId"`
	AccountID         string `dynamodbav:"accountId,omitempty"`
	Date              string `dynamodbav:"date"`
	Description       string `dynamodbav:"description"`
	DescriptionLower  string `dynamodbav:"descriptionLower"`
	Amount            string `dynamodbav:"amount"`
	Type              string `dynamodbav:"type"`
	Category          string `dynamodbav:"category"`
	CategoryLower     string `dynamodbav:"categoryLower"`
	Status            string `dynamodbav:"status"`
	Counterparty      string `dynamodbav:"counterparty,omitempty"`
	CounterpartyLower string `dynamodbav:"counterpartyLower,omitempty"`
	Reference         string `dynamodbav:"reference,omitempty"`
	Currency          string `dynamodbav:"currency"`
	CreatedAt         string `dynamodbav:"createdAt"`
	UpdatedAt         string `dynamodbav:"updatedAt"`
}

func toTransactionItem(tx models.Transaction) transactionItem {
	return transactionItem{
		ID:                tx.ID,
		UserID:            tx.UserID,
		AccountID:         tx.AccountID,
		Date:              formatTime(tx.Date),
		Description:       tx.Description,
		DescriptionLower:  strings.ToLower(tx.Description),
		Amount:            tx.Amount.String(),
		Type:              string(tx.Type),
		Category:          tx.Category,
		CategoryLower:     strings.ToLower(tx.Category),
		Status:            string(tx.Status),
		Counterparty:      tx.Counterparty,
		CounterpartyLower: strings.ToLower(tx.Counterparty),
		Reference:         tx.Reference,
		Currency:          tx.Currency,
		CreatedAt:         formatTime(tx.CreatedAt),
		UpdatedAt:         formatTime(tx.UpdatedAt),
	}
}

func (it transactionItem) model() (models.Transaction, error) {
	amount, err := decimal.NewFromString(it.Amount)
	if err != nil {
		return models.Transaction{}, fmt.Errorf("transaction %s amount %q: %w", it.ID, it.Amount, err)
	}
	tx := models.Transaction{
		ID:           it.ID,
		UserID:       it.UserID,
		AccountID:    it.AccountID,
		Description:  it.Description,
		Amount:       amount,
		Type:         models.TransactionType(it.Type),
		Category:     it.Category,
		Status:       models.TransactionStatus(it.Status),
		Counterparty: it.Counterparty,
		Reference:    it.Reference,
		Currency:     it.Currency,
	}
	if tx.Date, err = parseTime(it.Date); err != nil {
		return models.Transaction{}, fmt.Errorf("transaction %s date: %w", it.ID, err)
	}
	if tx.CreatedAt, err = parseTime(it.CreatedAt); err != nil {
		return models.Transaction{}, fmt.Errorf("transaction %s createdAt: %w", it.ID, err)
	}
	if tx.UpdatedAt, err = parseTime(it.UpdatedAt); err != nil {
		return models.Transaction{}, fmt.Errorf("transaction %s updatedAt: %w", it.ID, err)
	}
	return tx, nil
}

type accountItem struct {
	ID             string `dynamodbav:"id"`
	UserID         string `dynamodbav:"userId"`
	AccountNumber  string `dynamodbav:"accountNumber"`
	AccountType    string `dynamodbav:"accountType"`
	Balance        string `dynamodbav:"balance"`
	Currency       string `dynamodbav:"currency"`
	Status         string `dynamodbav:"status"`
	Name           string `dynamodbav:"name"`
	IsDefault      bool   `dynamodbav:"isDefault"`
	InterestRate   string `dynamodbav:"interestRate,omitempty"`
	MinimumBalance string `dynamodbav:"minimumBalance,omitempty"`
	CreatedAt      string `dynamodbav:"createdAt"`
	UpdatedAt      string `dynamodbav:"updatedAt"`
}

func toAccountItem(a models.Account) accountItem {
	it := accountItem{
		ID:            a.ID,
		UserID:        a.UserID,
		AccountNumber: a.AccountNumber,
		AccountType:   string(a.AccountType),
		Balance:       a.Balance.String(),
		Currency:      a.Currency,
		Status:        string(a.Status),
		Name:          a.Name,
		IsDefault:     a.IsDefault,
		CreatedAt:     formatTime(a.CreatedAt),
		UpdatedAt:     formatTime(a.UpdatedAt),
	}
	if a.InterestRate != nil {
		it.InterestRate = a.InterestRate.String()
	}
	if a.MinimumBalance != nil {
		it.MinimumBalance = a.MinimumBalance.String()
	}
	return it
}

func (it accountItem) model() (models.Account, error) {
	balance, err := decimal.NewFromString(it.Balance)
	if err != nil {
		return models.Account{}, fmt.Errorf("account %s balance: %w", it.ID, err)
	}
	a := models.Account{
		ID:            it.ID,
		UserID:        it.UserID,
		AccountNumber: it.AccountNumber,
		AccountType:   models.AccountType(it.AccountType),
		Balance:       balance,
		Currency:      it.Currency,
		Status:        models.AccountStatus(it.Status),
		Name:          it.Name,
		IsDefault:     it.IsDefault,
	}
	if it.InterestRate != "" {
		v, err := decimal.NewFromString(it.InterestRate)
		if err != nil {
			return models.Account{}, err
		}
		a.InterestRate = &v
	}
	if it.MinimumBalance != "" {
		v, err := decimal.NewFromString(it.MinimumBalance)
		if err != nil {
			return models.Account{}, err
		}
		a.MinimumBalance = &v
	}
	if a.CreatedAt, err = parseTime(it.CreatedAt); err != nil {
		return models.Account{}, err
	}
	if a.UpdatedAt, err = parseTime(it.UpdatedAt); err != nil {
		return models.Account{}, err
	}
	return a, nil
}
