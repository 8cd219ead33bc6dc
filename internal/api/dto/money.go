package dto

import "github.com/shopspring/decimal"

// Money renders an amount as a JSON number with exactly two fraction digits,
// e.g. 25 -> 25.00. Amounts are never rendered as strings.
type Money decimal.Decimal

func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(decimal.Decimal(m).StringFixed(2)), nil
}

// Decimal returns the underlying exact value.
func (m Money) Decimal() decimal.Decimal {
	return decimal.Decimal(m)
}
