// Package money provides fixed-scale decimal amounts for budget arithmetic.
// All amounts carry exactly two decimal places; persistence uses int64 cents.
package money

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Money is an exact monetary amount with two decimal places.
type Money struct {
	value decimal.Decimal
}

// Zero is the zero amount.
var Zero = Money{}

// FromCents builds a Money from an integer number of cents.
func FromCents(cents int64) Money {
	return Money{value: decimal.New(cents, -2)}
}

// New builds a Money from whole units and cents, e.g. New(12, 34) == 12.34.
// The cents sign must match the units sign for non-zero units.
func New(units, cents int64) Money {
	return FromCents(units*100 + cents)
}

// Parse reads a decimal string like "-12.34". Amounts with more than two
// decimal places are rejected rather than rounded.
func Parse(s string) (Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Zero, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	if d.Exponent() < -2 {
		return Zero, fmt.Errorf("invalid amount %q: more than two decimal places", s)
	}
	return Money{value: d}, nil
}

// MustParse is Parse that panics; for tests and literals.
func MustParse(s string) Money {
	m, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return m
}

// Cents returns the amount as an integer number of cents.
func (m Money) Cents() int64 {
	return m.value.Shift(2).IntPart()
}

func (m Money) Add(n Money) Money { return Money{value: m.value.Add(n.value)} }
func (m Money) Sub(n Money) Money { return Money{value: m.value.Sub(n.value)} }
func (m Money) Neg() Money        { return Money{value: m.value.Neg()} }

func (m Money) Equal(n Money) bool { return m.value.Equal(n.value) }
func (m Money) Cmp(n Money) int    { return m.value.Cmp(n.value) }
func (m Money) IsZero() bool       { return m.value.IsZero() }
func (m Money) IsNegative() bool   { return m.value.IsNegative() }
func (m Money) IsPositive() bool   { return m.value.IsPositive() }

// String renders with exactly two decimal places, e.g. "-12.30".
func (m Money) String() string {
	return m.value.StringFixed(2)
}

// Sum adds a slice of amounts.
func Sum(amounts []Money) Money {
	total := Zero
	for _, a := range amounts {
		total = total.Add(a)
	}
	return total
}
