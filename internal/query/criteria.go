package query

import (
	"strings"
	"time"

	"github.com/baharkarakas/finflow-backend/internal/models"
)

// Criteria is a fully resolved filter: relative date ranges are already turned
// into absolute bounds, so every store can push it down without a clock.
type Criteria struct {
	UserID    string
	AccountID string
	Search    string
	Type      models.TypeFilter
	Category  string
	Since     *time.Time
	Until     *time.Time
}

// Resolve builds Criteria for a scope and a normalized query. When both a
// relative range and an explicit From are set, the later lower bound wins.
func Resolve(userID string, q models.TransactionQuery, now time.Time) Criteria {
	c := Criteria{
		UserID:    userID,
		AccountID: q.AccountID,
		Search:    strings.TrimSpace(q.Search),
		Type:      models.ParseTypeFilter(string(q.Type)),
		Category:  q.Category,
		Until:     q.To,
	}
	if start, ok := models.ParseDateRange(string(q.DateRange)).Start(now); ok {
		c.Since = &start
	}
	if q.From != nil && (c.Since == nil || q.From.After(*c.Since)) {
		from := *q.From
		c.Since = &from
	}
	return c
}

// HasScope reports whether the criteria are bound to a user or an account.
func (c Criteria) HasScope() bool { return c.UserID != "" || c.AccountID != "" }

// Match is the single-record form of Apply.
func (c Criteria) Match(tx models.Transaction) bool {
	if c.UserID != "" && tx.UserID != c.UserID {
		return false
	}
	if c.AccountID != "" && tx.AccountID != c.AccountID {
		return false
	}
	if t := models.ParseTypeFilter(string(c.Type)); t != models.TypeAll && string(tx.Type) != string(t) {
		return false
	}
	if c.Category != "" && tx.Category != c.Category {
		return false
	}
	if !inPeriod(tx.Date, c.Since, c.Until) {
		return false
	}
	if s := strings.TrimSpace(c.Search); s != "" && !matchesSearch(tx, strings.ToLower(s)) {
		return false
	}
	return true
}

// Apply returns the records matching c, preserving input order.
func Apply(txs []models.Transaction, c Criteria) []models.Transaction {
	return keep(txs, c.Match)
}
