package validate

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

type ErrField struct {
	Field string `json:"field"`
	Msg   string `json:"msg"`
}

type Errs []ErrField

func (e Errs) Error() string {
	var b strings.Builder
	for i, ef := range e {
		if i > 0 {
			b.WriteString("; ")
		}
		b.WriteString(ef.Field + ": " + ef.Msg)
	}
	return b.String()
}

// Collect drops nil checks and returns nil when every check passed.
func Collect(checks ...*ErrField) error {
	var errs Errs
	for _, c := range checks {
		if c != nil {
			errs = append(errs, *c)
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

// Helpers
func Required(field, value string) *ErrField {
	if strings.TrimSpace(value) == "" {
		return &ErrField{Field: field, Msg: "required"}
	}
	return nil
}

func MinInt(field string, v, min int64) *ErrField {
	if v < min {
		return &ErrField{Field: field, Msg: "must be >= " + strconv.FormatInt(min, 10)}
	}
	return nil
}

func MaxInt(field string, v, max int64) *ErrField {
	if v > max {
		return &ErrField{Field: field, Msg: "must be <= " + strconv.FormatInt(max, 10)}
	}
	return nil
}

// OneOf accepts an empty value; pair it with Required when the field is mandatory.
func OneOf(field, value string, allowed ...string) *ErrField {
	if value == "" {
		return nil
	}
	for _, a := range allowed {
		if value == a {
			return nil
		}
	}
	return &ErrField{Field: field, Msg: "must be one of " + strings.Join(allowed, ", ")}
}

func Len(field, value string, n int) *ErrField {
	if value != "" && len(value) != n {
		return &ErrField{Field: field, Msg: "must be " + strconv.Itoa(n) + " characters"}
	}
	return nil
}

// Scale rejects values carrying more than places decimal digits. nil passes.
func Scale(field string, v *decimal.Decimal, places int32) *ErrField {
	if v != nil && !v.Equal(v.Round(places)) {
		return &ErrField{Field: field, Msg: "must have at most " + strconv.Itoa(int(places)) + " decimal places"}
	}
	return nil
}
