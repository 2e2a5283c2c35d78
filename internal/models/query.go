package models

import (
	"strings"
	"time"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

// TypeFilter narrows a query by direction. Anything unrecognised means TypeAll.
type TypeFilter string

const (
	TypeAll    TypeFilter = "all"
	TypeCredit TypeFilter = "credit"
	TypeDebit  TypeFilter = "debit"
)

func ParseTypeFilter(s string) TypeFilter {
	switch TypeFilter(strings.ToLower(strings.TrimSpace(s))) {
	case TypeCredit:
		return TypeCredit
	case TypeDebit:
		return TypeDebit
	default:
		return TypeAll
	}
}

// DateRange is a window relative to "now".
type DateRange string

const (
	RangeAll   DateRange = "all"
	RangeWeek  DateRange = "week"
	RangeMonth DateRange = "month"
	RangeYear  DateRange = "year"
)

func ParseDateRange(s string) DateRange {
	switch DateRange(strings.ToLower(strings.TrimSpace(s))) {
	case RangeWeek:
		return RangeWeek
	case RangeMonth:
		return RangeMonth
	case RangeYear:
		return RangeYear
	default:
		return RangeAll
	}
}

// Start returns the inclusive lower bound of the range. Month and year use
// calendar arithmetic, so "month" before Mar 31 normalises past Feb 28 the same
// way time.AddDate does.
func (r DateRange) Start(now time.Time) (time.Time, bool) {
	switch r {
	case RangeWeek:
		return now.AddDate(0, 0, -7), true
	case RangeMonth:
		return now.AddDate(0, -1, 0), true
	case RangeYear:
		return now.AddDate(-1, 0, 0), true
	default:
		return time.Time{}, false
	}
}

// TransactionQuery is the options bag accepted by the list operation.
type TransactionQuery struct {
	Search    string     `json:"search,omitempty"`
	Type      TypeFilter `json:"type,omitempty"`
	DateRange DateRange  `json:"dateRange,omitempty"`
	Page      int        `json:"page,omitempty"`
	Limit     int        `json:"limit,omitempty"`
	AccountID string     `json:"accountId,omitempty"`
	Category  string     `json:"category,omitempty"`
	From      *time.Time `json:"from,omitempty"`
	To        *time.Time `json:"to,omitempty"`
}

// Normalize fills defaults, caps Limit at MaxLimit and folds unknown enum
// values into "all".
func (q TransactionQuery) Normalize() TransactionQuery {
	q.Search = strings.TrimSpace(q.Search)
	q.AccountID = strings.TrimSpace(q.AccountID)
	q.Type = ParseTypeFilter(string(q.Type))
	q.DateRange = ParseDateRange(string(q.DateRange))
	if q.Page < 1 {
		q.Page = DefaultPage
	}
	if q.Limit < 1 {
		q.Limit = DefaultLimit
	}
	if q.Limit > MaxLimit {
		q.Limit = MaxLimit
	}
	return q
}

type Pagination struct {
	Total      int `json:"total"`
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	TotalPages int `json:"totalPages"`
}

// TransactionPage is the list envelope. Data is always non-nil so it encodes as [].
type TransactionPage struct {
	Data       []Transaction `json:"data"`
	Pagination Pagination    `json:"pagination"`
	Error      string        `json:"error,omitempty"`
}
