package coinfolio

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

// Percent is a percentage as published by the market: 5.2 means 5.2%.
type Percent float64

// percentTolerance is the precision of Percent.Equal. Market percentages are
// floats, they are never compared exactly.
const percentTolerance = 0.0001

// PercentChange returns the relative change from a to b. ok is false when a is
// not positive, as there is no meaningful change from nothing.
func PercentChange(a, b Money) (p Percent, ok bool) {
	if !a.IsPositive() {
		return 0, false
	}
	ratio := b.value.Sub(a.value).DivRound(a.value, costPrecision).Shift(2)
	return Percent(ratio.InexactFloat64()), true
}

// Equal reports whether p and q differ by less than percentTolerance.
func (p Percent) Equal(q Percent) bool { return math.Abs(float64(p-q)) < percentTolerance }

// Factor returns the multiplier that applies the change: 1 + p/100.
func (p Percent) Factor() decimal.Decimal {
	return decimal.NewFromFloat(float64(p)).Shift(-2).Add(decimal.NewFromInt(1))
}

func (p Percent) String() string { return fmt.Sprintf("%.2f%%", float64(p)) }

// SignedString prints the sign of non zero changes. A change that rounds to
// zero prints as "-".
func (p Percent) SignedString() string {
	s := fmt.Sprintf("%+.2f%%", float64(p))
	if s == "+0.00%" || s == "-0.00%" {
		return "-"
	}
	return s
}
