package postgres

import (
	"strconv"
	"strings"

	"github.com/baharkarakas/finflow-backend/internal/models"
	"github.com/baharkarakas/finflow-backend/internal/query"
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// buildWhere renders c as a WHERE clause (empty when c has no predicates)
// with positional args starting at $1.
func buildWhere(c query.Criteria) (string, []any) {
	var conds []string
	var args []any
	arg := func(v any) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}

	if c.UserID != "" {
		conds = append(conds, "user_id = "+arg(c.UserID))
	}
	if c.AccountID != "" {
		conds = append(conds, "account_id = "+arg(c.AccountID))
	}
	if t := models.ParseTypeFilter(string(c.Type)); t != models.TypeAll {
		conds = append(conds, "type = "+arg(string(t)))
	}
	if c.Category != "" {
		conds = append(conds, "category = "+arg(c.Category))
	}
	if c.Since != nil {
		conds = append(conds, "date >= "+arg(*c.Since))
	}
	if c.Until != nil {
		conds = append(conds, "date <= "+arg(*c.Until))
	}
	if s := strings.TrimSpace(c.Search); s != "" {
		p := arg("%" + likeEscaper.Replace(s) + "%")
		conds = append(conds, "(description ILIKE "+p+" OR COALESCE(counterparty, '') ILIKE "+p+" OR category ILIKE "+p+")")
	}

	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}
