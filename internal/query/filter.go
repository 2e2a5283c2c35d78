// Package query holds the pure filtering, ordering and pagination rules shared
// by every transaction store. Nothing here does I/O.
package query

import (
	"strings"
	"time"

	"github.com/baharkarakas/finflow-backend/internal/models"
)

// BySearch keeps records whose description, counterparty or category contains
// term, ignoring case. An empty term returns txs unchanged.
func BySearch(txs []models.Transaction, term string) []models.Transaction {
	term = strings.TrimSpace(term)
	if term == "" {
		return txs
	}
	needle := strings.ToLower(term)
	return keep(txs, func(tx models.Transaction) bool { return matchesSearch(tx, needle) })
}

// ByType keeps records with the given direction. TypeAll (or anything unknown) is a no-op.
func ByType(txs []models.Transaction, t models.TypeFilter) []models.Transaction {
	t = models.ParseTypeFilter(string(t))
	if t == models.TypeAll {
		return txs
	}
	return keep(txs, func(tx models.Transaction) bool { return string(tx.Type) == string(t) })
}

// ByDateRange keeps records dated at or after the range start computed from now.
func ByDateRange(txs []models.Transaction, r models.DateRange, now time.Time) []models.Transaction {
	start, ok := models.ParseDateRange(string(r)).Start(now)
	if !ok {
		return txs
	}
	return keep(txs, func(tx models.Transaction) bool { return !tx.Date.Before(start) })
}

func ByAccount(txs []models.Transaction, accountID string) []models.Transaction {
	if accountID == "" {
		return txs
	}
	return keep(txs, func(tx models.Transaction) bool { return tx.AccountID == accountID })
}

func ByCategory(txs []models.Transaction, category string) []models.Transaction {
	if category == "" {
		return txs
	}
	return keep(txs, func(tx models.Transaction) bool { return tx.Category == category })
}

// ByPeriod keeps records inside the inclusive [from, to] bounds; nil bounds are open.
func ByPeriod(txs []models.Transaction, from, to *time.Time) []models.Transaction {
	if from == nil && to == nil {
		return txs
	}
	return keep(txs, func(tx models.Transaction) bool { return inPeriod(tx.Date, from, to) })
}

func matchesSearch(tx models.Transaction, needle string) bool {
	return strings.Contains(strings.ToLower(tx.Description), needle) ||
		strings.Contains(strings.ToLower(tx.Counterparty), needle) ||
		strings.Contains(strings.ToLower(tx.Category), needle)
}

func inPeriod(d time.Time, from, to *time.Time) bool {
	if from != nil && d.Before(*from) {
		return false
	}
	if to != nil && d.After(*to) {
		return false
	}
	return true
}

// keep never aliases the input backing array.
func keep(txs []models.Transaction, pred func(models.Transaction) bool) []models.Transaction {
	out := make([]models.Transaction, 0, len(txs))
	for _, tx := range txs {
		if pred(tx) {
			out = append(out, tx)
		}
	}
	return out
}
