package pool

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Bounds past which a numeric field is treated as junk. Converting a value
// with a huge exponent materializes a 10^|exp| integer.
const (
	maxNumberLength   = 64
	maxNumberExponent = 40
)

// Number is a numeric JSON field that pools send either as a number or as a
// numeric string. Missing, null, empty, unparseable and out-of-range values
// decode as zero so a single odd field never fails a whole response.
type Number struct {
	d decimal.Decimal
}

// NumberOf wraps a decimal as a Number.
func NumberOf(d decimal.Decimal) Number {
	return Number{d: d}
}

// UnmarshalJSON implements json.Unmarshaler.
func (n *Number) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	s = strings.TrimSpace(strings.Trim(s, `"`))

	n.d = decimal.Zero
	if len(s) > maxNumberLength {
		return nil
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil
	}
	if exp := d.Exponent(); exp > maxNumberExponent || exp < -maxNumberExponent {
		return nil
	}
	n.d = d
	return nil
}

// Decimal returns the exact parsed value.
func (n Number) Decimal() decimal.Decimal {
	return n.d
}

// IsZero reports whether the value is zero (or was absent).
func (n Number) IsZero() bool {
	return n.d.IsZero()
}

// Uint64 truncates the value to an integer, clamping negatives to zero.
func (n Number) Uint64() uint64 {
	return clampUint64(n.d)
}

// Float64 returns the value as a float, clamping negatives to zero.
func (n Number) Float64() float64 {
	if !n.d.IsPositive() {
		return 0
	}
	return n.d.InexactFloat64()
}

// Atomic interprets the value as whole coins and converts it to atomic units.
func (n Number) Atomic() uint64 {
	return CoinsToAtomic(n.d)
}

// Sum adds numbers exactly.
func Sum(nums ...Number) Number {
	total := decimal.Zero
	for _, n := range nums {
		total = total.Add(n.d)
	}
	return Number{d: total}
}
