package models

import "github.com/shopspring/decimal"

type CategorySpending struct {
	Category string          `json:"category"`
	Amount   decimal.Decimal `json:"amount"`
}

type MonthlySummary struct {
	Month    string          `json:"month"` // "Jan 2006"
	Income   decimal.Decimal `json:"income"`
	Expenses decimal.Decimal `json:"expenses"`
}
