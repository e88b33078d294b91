// Package intmath contains integer helpers shared by the fixed-point packages.
package intmath

import (
	"math"
	"math/bits"

	"golang.org/x/exp/constraints"
)

// Abs returns the absolute value of v.
// The result is wrong for the minimum value of T, callers widen first.
func Abs[T constraints.Signed](v T) T {
	if v < 0 {
		return -v
	}
	return v
}

// Clamp limits v to [lo, hi].
func Clamp[T constraints.Ordered](v, lo, hi T) T {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Cmp returns -1 if a < b, 0 if a == b, 1 if a > b.
func Cmp[T constraints.Ordered](a, b T) int {
	switch {
	case a > b:
		return 1
	case a < b:
		return -1
	default:
		return 0
	}
}

// Sign returns -1, 0, or 1 depending on the sign of v.
func Sign[T constraints.Signed](v T) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}

// absU64 is exact for the whole int64 range, including math.MinInt64.
func absU64(v int64) uint64 {
	if v < 0 {
		return uint64(-v)
	}
	return uint64(v)
}

// ShiftDiv returns (a << shift) / b, computed with a 128-bit intermediate so
// that the pre-shift never loses high bits. The quotient truncates toward
// zero and saturates to the int64 range. shift must be < 64 and b nonzero.
func ShiftDiv(a, b int64, shift uint) int64 {
	neg := (a < 0) != (b < 0)
	ua, ub := absU64(a), absU64(b)
	hi := ua >> (64 - shift)
	lo := ua << shift
	if hi >= ub { // quotient would not fit 64 bits
		if neg {
			return math.MinInt64
		}
		return math.MaxInt64
	}
	q, _ := bits.Div64(hi, lo, ub)
	if neg {
		if q >= 1<<63 {
			return math.MinInt64
		}
		return -int64(q)
	}
	if q > math.MaxInt64 {
		return math.MaxInt64
	}
	return int64(q)
}
