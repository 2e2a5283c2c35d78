package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// RateScale is the number of decimal places an interest rate may carry.
const RateScale = 4

type AccountType string

const (
	AccountChecking   AccountType = "checking"
	AccountSavings    AccountType = "savings"
	AccountInvestment AccountType = "investment"
	AccountLoan       AccountType = "loan"
)

func (t AccountType) Valid() bool {
	switch t {
	case AccountChecking, AccountSavings, AccountInvestment, AccountLoan:
		return true
	}
	return false
}

type AccountStatus string

const (
	AccountActive   AccountStatus = "active"
	AccountInactive AccountStatus = "inactive"
	AccountFrozen   AccountStatus = "frozen"
	AccountClosed   AccountStatus = "closed"
)

func (s AccountStatus) Valid() bool {
	switch s {
	case AccountActive, AccountInactive, AccountFrozen, AccountClosed:
		return true
	}
	return false
}

type Account struct {
	ID             string           `json:"id"`
	UserID         string           `json:"userId"`
	AccountNumber  string           `json:"accountNumber"`
	AccountType    AccountType      `json:"accountType"`
	Balance        decimal.Decimal  `json:"balance"`
	Currency       string           `json:"currency"`
	Status         AccountStatus    `json:"status"`
	Name           string           `json:"name"`
	IsDefault      bool             `json:"isDefault"`
	InterestRate   *decimal.Decimal `json:"interestRate,omitempty"`
	MinimumBalance *decimal.Decimal `json:"minimumBalance,omitempty"`
	CreatedAt      time.Time        `json:"createdAt"`
	UpdatedAt      time.Time        `json:"updatedAt"`
}

// AccountUpdate carries the mutable subset of an account. Nil fields are left alone.
type AccountUpdate struct {
	AccountType    *AccountType     `json:"accountType,omitempty"`
	Balance        *decimal.Decimal `json:"balance,omitempty"`
	Currency       *string          `json:"currency,omitempty"`
	Status         *AccountStatus   `json:"status,omitempty"`
	Name           *string          `json:"name,omitempty"`
	IsDefault      *bool            `json:"isDefault,omitempty"`
	InterestRate   *decimal.Decimal `json:"interestRate,omitempty"`
	MinimumBalance *decimal.Decimal `json:"minimumBalance,omitempty"`
}

// Apply copies the set fields onto a and bumps UpdatedAt.
func (u AccountUpdate) Apply(a *Account, now time.Time) {
	if u.AccountType != nil {
		a.AccountType = *u.AccountType
	}
	if u.Balance != nil {
		a.Balance = *u.Balance
	}
	if u.Currency != nil {
		a.Currency = *u.Currency
	}
	if u.Status != nil {
		a.Status = *u.Status
	}
	if u.Name != nil {
		a.Name = *u.Name
	}
	if u.IsDefault != nil {
		a.IsDefault = *u.IsDefault
	}
	if u.InterestRate != nil {
		a.InterestRate = u.InterestRate
	}
	if u.MinimumBalance != nil {
		a.MinimumBalance = u.MinimumBalance
	}
	a.UpdatedAt = now
}

// AccountInput is what a caller may supply when opening an account. Identity,
// number and timestamps are assigned by the service.
type AccountInput struct {
	AccountType    AccountType      `json:"accountType,omitempty"`
	Balance        *decimal.Decimal `json:"balance,omitempty"`
	Currency       string           `json:"currency,omitempty"`
	Status         AccountStatus    `json:"status,omitempty"`
	Name           string           `json:"name,omitempty"`
	IsDefault      bool             `json:"isDefault,omitempty"`
	InterestRate   *decimal.Decimal `json:"interestRate,omitempty"`
	MinimumBalance *decimal.Decimal `json:"minimumBalance,omitempty"`
}
