package coinfolio

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// newDecimal is a convenient factory for decimal.Decimal
func newDecimal[T float32 | float64 | int | int32 | int64 | uint | uint32 | uint64 | decimal.Decimal](value T) decimal.Decimal {
	switch v := any(value).(type) {
	case decimal.Decimal:
		return v
	case float32:
		return decimal.NewFromFloat32(v)
	case float64:
		return decimal.NewFromFloat(v)
	case int:
		return decimal.NewFromInt(int64(v))
	case int32:
		return decimal.NewFromInt32(v)
	case int64:
		return decimal.NewFromInt(v)
	case uint:
		return decimal.NewFromUint64(uint64(v))
	case uint32:
		return decimal.NewFromUint64(uint64(v))
	case uint64:
		return decimal.NewFromUint64(v)
	default:
		panic("unsupported type")
	}
}

// Quantity is an amount of units of an asset. Crypto assets are divisible, so
// quantities are arbitrary precision decimals.
type Quantity struct {
	value decimal.Decimal
}

func Q[T float32 | float64 | int | int32 | int64 | uint | uint32 | uint64 | decimal.Decimal](value T) Quantity {
	return Quantity{value: newDecimal(value)}
}

// ParseQuantity parses a decimal string like "0.0005".
func ParseQuantity(s string) (Quantity, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Quantity{}, fmt.Errorf("%w: invalid quantity %q", ErrInvalidArgument, s)
	}
	return Quantity{value: d}, nil
}

func (t Quantity) Decimal() decimal.Decimal                  { return t.value }
func (t Quantity) Equal(p Quantity) bool                     { return t.value.Equal(p.value) }
func (t Quantity) LessThan(quantity Quantity) bool           { return t.value.LessThan(quantity.value) }
func (t Quantity) Add(p Quantity) Quantity                   { return Quantity{value: t.value.Add(p.value)} }
func (t Quantity) Sub(p Quantity) Quantity                   { return Quantity{value: t.value.Sub(p.value)} }
func (t Quantity) Mul(p Quantity) Quantity                   { return Quantity{value: t.value.Mul(p.value)} }
func (t Quantity) GreaterThan(p Quantity) bool               { return t.value.GreaterThan(p.value) }
func (t Quantity) IsNegative() bool                          { return t.value.IsNegative() }
func (t Quantity) IsPositive() bool                          { return t.value.IsPositive() }
func (t Quantity) IsZero() bool                              { return t.value.IsZero() }
func (t Quantity) String() string                            { return t.value.String() }
func (t Quantity) Round(places int32) Quantity               { return Quantity{value: t.value.Round(places)} }
func (t Quantity) InexactFloat64() float64                   { return t.value.InexactFloat64() }
func (t Quantity) MarshalJSON() ([]byte, error)              { return t.value.MarshalJSON() }
func (t *Quantity) UnmarshalJSON(decimalBytes []byte) error  { return t.value.UnmarshalJSON(decimalBytes) }
