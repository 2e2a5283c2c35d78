package dynamo

import (
	"strings"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/baharkarakas/finflow-backend/internal/models"
	"github.com/baharkarakas/finflow-backend/internal/query"
)

// filterExpr is a Scan FilterExpression with its attribute maps. DynamoDB
// rejects unused names or values, so only referenced entries are present.
type filterExpr struct {
	Expr   string
	Names  map[string]string
	Values map[string]types.AttributeValue
}

func (f *filterExpr) and(cond string) {
	if f.Expr != "" {
		f.Expr += " AND "
	}
	f.Expr += cond
}

func (f *filterExpr) name(placeholder, attr string) {
	if f.Names == nil {
		f.Names = map[string]string{}
	}
	f.Names[placeholder] = attr
}

func (f *filterExpr) value(placeholder, v string) {
	if f.Values == nil {
		f.Values = map[string]types.AttributeValue{}
	}
	f.Values[placeholder] = &types.AttributeValueMemberS{Value: v}
}

func buildFilter(c query.Criteria) filterExpr {
	var f filterExpr
	if c.UserID != "" {
		f.and("userId = :userId")
		f.value(":userId", c.UserID)
	}
	if c.AccountID != "" {
		f.and("accountId = :accountId")
		f.value(":accountId", c.AccountID)
	}
	if t := models.ParseTypeFilter(string(c.Type)); t != models.TypeAll {
		f.and("#type = :type")
		f.name("#type", "type")
		f.value(":type", string(t))
	}
	if c.Category != "" {
		f.and("category = :category")
		f.value(":category", c.Category)
	}
	if c.Since != nil {
		f.and("#date >= :since")
		f.name("#date", "date")
		f.value(":since", formatTime(*c.Since))
	}
	if c.Until != nil {
		f.and("#date <= :until")
		f.name("#date", "date")
		f.value(":until", formatTime(*c.Until))
	}
	if s := strings.TrimSpace(c.Search); s != "" {
		f.and("(contains(descriptionLower, :q) OR contains(counterpartyLower, :q) OR contains(categoryLower, :q))")
		f.value(":q", strings.ToLower(s))
	}
	return f
}
