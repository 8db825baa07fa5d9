package types

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// Cents stores a monetary amount as integer cents, the only representation
// that hits the database. Rendering to dollars goes through shopspring's
// decimal so "120.00" style strings stay exact.
type Cents int64

var centsPerDollar = decimal.NewFromInt(100)

// Decimal returns the amount in dollars with two fractional digits.
func (c Cents) Decimal() decimal.Decimal {
	return decimal.NewFromInt(int64(c)).DivRound(centsPerDollar, 2)
}

// String renders the amount as a fixed two-decimal dollar string.
func (c Cents) String() string {
	return c.Decimal().StringFixed(2)
}

// MarshalJSON emits the dollar string form, e.g. "120.00".
func (c Cents) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

// UnmarshalJSON accepts either a dollar string or a bare number of dollars.
func (c *Cents) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	var dollars decimal.Decimal
	switch v := raw.(type) {
	case string:
		parsed, err := decimal.NewFromString(v)
		if err != nil {
			return err
		}
		dollars = parsed
	case float64:
		dollars = decimal.NewFromFloat(v)
	default:
		return json.Unmarshal(data, (*int64)(c))
	}
	*c = Cents(dollars.Mul(centsPerDollar).IntPart())
	return nil
}

// DollarsToCents converts a decimal dollar amount into Cents.
func DollarsToCents(dollars decimal.Decimal) Cents {
	return Cents(dollars.Mul(centsPerDollar).IntPart())
}
