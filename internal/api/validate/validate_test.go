package validate

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScale(t *testing.T) {
	ok := decimal.RequireFromString("12.30")
	bad := decimal.RequireFromString("12.301")
	assert.Nil(t, Scale("amount", nil, 2))
	assert.Nil(t, Scale("amount", &ok, 2))
	require.NotNil(t, Scale("amount", &bad, 2))
	assert.Equal(t, "must have at most 2 decimal places", Scale("amount", &bad, 2).Msg)
}

func TestCollect(t *testing.T) {
	assert.NoError(t, Collect(nil, Required("name", "x"), OneOf("type", "", "a", "b")))

	err := Collect(
		Required("userId", "  "),
		OneOf("type", "c", "a", "b"),
		Len("currency", "EURO", 3),
		MinInt("months", 0, 1),
		MaxInt("months", 99, 60),
	)
	var errs Errs
	require.True(t, errors.As(err, &errs))
	require.Len(t, errs, 5)
	assert.Equal(t, "userId", errs[0].Field)
	assert.Equal(t, "must be one of a, b", errs[1].Msg)
	assert.Equal(t, "userId: required; type: must be one of a, b; currency: must be 3 characters; months: must be >= 1; months: must be <= 60", err.Error())
}
