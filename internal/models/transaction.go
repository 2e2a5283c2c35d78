package models

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// AmountScale is the number of decimal places a money amount may carry.
const AmountScale = 2

type TransactionType string

const (
	TxnCredit TransactionType = "credit"
	TxnDebit  TransactionType = "debit"
)

type TransactionStatus string

const (
	TxnPending   TransactionStatus = "pending"
	TxnCompleted TransactionStatus = "completed"
	TxnFailed    TransactionStatus = "failed"
)

// Transaction is a posted movement on a user's (and optionally an account's) ledger.
// Amount is never negative; direction lives in Type.
type Transaction struct {
	ID           string            `json:"id"`
	UserID       string            `json:"userId"`
	AccountID    string            `json:"accountId,omitempty"`
	Date         time.Time         `json:"date"`
	Description  string            `json:"description"`
	Amount       decimal.Decimal   `json:"amount"`
	Type         TransactionType   `json:"type"`
	Category     string            `json:"category"`
	Status       TransactionStatus `json:"status"`
	Counterparty string            `json:"counterparty,omitempty"`
	Reference    string            `json:"reference,omitempty"`
	Currency     string            `json:"currency"`
	CreatedAt    time.Time         `json:"createdAt"`
	UpdatedAt    time.Time         `json:"updatedAt"`
}

func (t *Transaction) Validate() error {
	if strings.TrimSpace(t.UserID) == "" {
		return errors.New("user id required")
	}
	if t.Amount.IsNegative() {
		return errors.New("amount must be >= 0")
	}
	if !t.Amount.Equal(t.Amount.Round(AmountScale)) {
		return errors.New("amount must have at most 2 decimal places")
	}
	if t.Type != TxnCredit && t.Type != TxnDebit {
		return errors.New("type must be credit or debit")
	}
	if t.Status == "" {
		t.Status = TxnPending
	}
	if t.Currency == "" {
		t.Currency = "USD"
	}
	return nil
}

// TransactionResult is the single-record lookup shape. Data is nil when the
// record does not exist or the store could not be reached; Error tells them apart.
type TransactionResult struct {
	Data  *Transaction `json:"data"`
	Error string       `json:"error,omitempty"`
}
