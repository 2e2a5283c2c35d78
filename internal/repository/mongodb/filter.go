package mongodb

import (
	"regexp"
	"strings"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/baharkarakas/finflow-backend/internal/models"
	"github.com/baharkarakas/finflow-backend/internal/query"
)

// sortNewestFirst orders by date descending; _id keeps insertion order on ties.
var sortNewestFirst = bson.D{{Key: "date", Value: -1}, {Key: "_id", Value: 1}}

// buildFilter translates Criteria into the equivalent find filter.
func buildFilter(c query.Criteria) bson.M {
	f := bson.M{}
	if c.UserID != "" {
		f["userId"] = c.UserID
	}
	if c.AccountID != "" {
		f["accountId"] = c.AccountID
	}
	if t := models.ParseTypeFilter(string(c.Type)); t != models.TypeAll {
		f["type"] = string(t)
	}
	if c.Category != "" {
		f["category"] = c.Category
	}
	if c.Since != nil || c.Until != nil {
		date := bson.M{}
		if c.Since != nil {
			date["$gte"] = c.Since.UTC()
		}
		if c.Until != nil {
			date["$lte"] = c.Until.UTC()
		}
		f["date"] = date
	}
	if s := strings.TrimSpace(c.Search); s != "" {
		pattern := regexp.QuoteMeta(s)
		or := bson.A{}
		for _, field := range []string{"description", "counterparty", "category"} {
			or = append(or, bson.M{field: bson.M{"$regex": pattern, "$options": "i"}})
		}
		f["$or"] = or
	}
	return f
}
