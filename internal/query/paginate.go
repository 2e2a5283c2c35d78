package query

import (
	"math"
	"sort"

	"github.com/baharkarakas/finflow-backend/internal/models"
)

// SortByDateDesc orders newest first. Equal dates keep their relative order.
func SortByDateDesc(txs []models.Transaction) {
	sort.SliceStable(txs, func(i, j int) bool { return txs[i].Date.After(txs[j].Date) })
}

// Paginate returns the offset of a 1-based page and ceil(total/limit).
// A page whose offset does not fit in an int yields math.MaxInt, which is
// past the end of any result.
func Paginate(total, page, limit int) (skip, totalPages int) {
	if limit < 1 {
		limit = models.DefaultLimit
	}
	if page < 1 {
		page = models.DefaultPage
	}
	if page-1 > math.MaxInt/limit {
		skip = math.MaxInt
	} else {
		skip = (page - 1) * limit
	}
	totalPages = total / limit
	if total%limit != 0 {
		totalPages++
	}
	return skip, totalPages
}

// Window slices [skip, skip+limit). limit <= 0 means no upper bound.
func Window(txs []models.Transaction, skip, limit int) []models.Transaction {
	if skip < 0 {
		skip = 0
	}
	if skip >= len(txs) {
		return []models.Transaction{}
	}
	end := len(txs)
	if limit > 0 && limit < end-skip {
		end = skip + limit
	}
	out := make([]models.Transaction, end-skip)
	copy(out, txs[skip:end])
	return out
}
