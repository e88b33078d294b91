// Copyright 2020 Aleksandr Demakin. All rights reserved.

// Package fixedpoint implements a signed binary fixed-point number with a
// runtime-configurable number of fractional bits.
// A value is stored as an int32 scaled by 2^frac, so that
// raw = real * 2^frac. Values with different fractional-bit counts can be
// mixed: the operand with fewer fractional bits is rescaled up before the
// operation, and the result carries the larger count.
package fixedpoint

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/avdva/fixedpoint/internal/intmath"
)

// MaxFracBits is the largest supported number of fractional bits.
// At least one integer bit and the sign bit always remain in the raw value.
const MaxFracBits = 30

var (
	// ErrRange reports that a constructed value does not fit the raw type.
	// Constructors return it together with the saturated value.
	ErrRange = errors.New("fixedpoint: value out of range")
	// ErrDivisionByZero is the panic value of Div and Mod for a zero divisor.
	ErrDivisionByZero = errors.New("fixedpoint: division by zero")
	// ErrFracBits reports a fractional-bit count above MaxFracBits.
	ErrFracBits = errors.New("fixedpoint: fractional bits out of range")
)

var zero Value

// Value is a signed fixed-point number: an int32 raw value scaled by
// 2^frac, where frac is set at construction time.
//
//	31             frac = 16              0
//	________________|________________
//	siiiiiiiiiiiiiiiffffffffffffffff
//
// The zero Value represents 0 with no fractional bits.
// Arithmetic saturates to the int32 range instead of wrapping.
// Note that == compares both raw value and scale; use Eq for numeric
// equality across scales.
type Value struct {
	raw  int32
	frac uint8
}

// FromRaw wraps an already scaled raw value.
func FromRaw(raw int32, frac uint8) (Value, error) {
	if frac > MaxFracBits {
		return zero, ErrFracBits
	}
	return Value{raw: raw, frac: frac}, nil
}

// FromInt returns a value for the integer i with the given number of
// fractional bits. If i<<frac does not fit an int32, the result saturates
// and ErrRange is returned.
func FromInt(i int32, frac uint8) (Value, error) {
	if frac > MaxFracBits {
		return zero, ErrFracBits
	}
	wide := int64(i) << frac
	if wide > math.MaxInt32 || wide < math.MinInt32 {
		return fromWide(wide, frac), ErrRange
	}
	return Value{raw: int32(wide), frac: frac}, nil
}

// FromFloat64 returns a value for the float f with the given number of
// fractional bits. The raw value is f*2^frac rounded to nearest.
// Returns an error for infinities and not-a-numbers; out-of-range values
// saturate and report ErrRange.
func FromFloat64(f float64, frac uint8) (Value, error) {
	if frac > MaxFracBits {
		return zero, ErrFracBits
	}
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return zero, fmt.Errorf("bad float number")
	}
	scaled := math.Round(f * float64(int64(1)<<frac))
	if scaled >= math.MaxInt32+1 || scaled <= math.MinInt32-1 {
		if scaled > 0 {
			return Value{raw: math.MaxInt32, frac: frac}, ErrRange
		}
		return Value{raw: math.MinInt32, frac: frac}, ErrRange
	}
	return fromWide(int64(scaled), frac), nil
}

// FromString parses a decimal string into a value with the given number of
// fractional bits. Precision is limited to that of a float64.
func FromString(s string, frac uint8) (Value, error) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return zero, fmt.Errorf("parsing failed: %w", err)
	}
	return FromFloat64(f, frac)
}

// MustFromString is like FromString, but panics on any error.
func MustFromString(s string, frac uint8) Value {
	v, err := FromString(s, frac)
	if err != nil {
		panic(err)
	}
	return v
}

func fromWide(raw int64, frac uint8) Value {
	return Value{
		raw:  int32(intmath.Clamp(raw, math.MinInt32, math.MaxInt32)),
		frac: frac,
	}
}

// align widens both raw values and shifts the one with fewer fractional
// bits up to the scale of the other. The shifted value occupies at most
// 61 bits, so the results are exact.
func align(a, b Value) (r1, r2 int64, frac uint8) {
	r1, r2, frac = int64(a.raw), int64(b.raw), a.frac
	switch {
	case a.frac > b.frac:
		r2 <<= a.frac - b.frac
	case b.frac > a.frac:
		r1 <<= b.frac - a.frac
		frac = b.frac
	}
	return r1, r2, frac
}

// Raw returns the scaled integer representation.
func (v Value) Raw() int32 {
	return v.raw
}

// FracBits returns the number of fractional bits.
func (v Value) FracBits() uint8 {
	return v.frac
}

// IsZero returns true if the value represents 0.
func (v Value) IsZero() bool {
	return v.raw == 0
}

// Sign returns -1 if v < 0, 0 if v == 0, 1 if v > 0.
func (v Value) Sign() int {
	return intmath.Sign(v.raw)
}

// Eq returns true if both values represent the same number,
// regardless of their scales.
func (v Value) Eq(other Value) bool {
	if v == other {
		return true
	}
	return v.Cmp(other) == 0
}

// Cmp compares two values, rescaling as needed.
// Returns -1 if a < b, 0 if a == b, 1 if a > b.
func (v Value) Cmp(other Value) int {
	r1, r2, _ := align(v, other)
	return intmath.Cmp(r1, r2)
}

// Add sums two values. The result has the larger of the two
// fractional-bit counts and saturates on overflow.
func (v Value) Add(other Value) Value {
	r1, r2, frac := align(v, other)
	return fromWide(r1+r2, frac)
}

// Sub returns v - other, rescaling like Add.
func (v Value) Sub(other Value) Value {
	r1, r2, frac := align(v, other)
	return fromWide(r1-r2, frac)
}

// Mul multiplies two values. The product is computed in 64 bits and
// shifted right so that the result has the larger of the two
// fractional-bit counts; the shift floors, the narrowing saturates.
func (v Value) Mul(other Value) Value {
	p := int64(v.raw) * int64(other.raw)
	frac, shift := v.frac, other.frac
	if other.frac > v.frac {
		frac, shift = other.frac, v.frac
	}
	return fromWide(p>>shift, frac)
}

// Div divides v by other. The dividend is pre-shifted left by the result's
// fractional-bit count to keep precision; the quotient truncates toward
// zero and saturates. Panics with ErrDivisionByZero if other is zero.
func (v Value) Div(other Value) Value {
	if other.raw == 0 {
		panic(ErrDivisionByZero)
	}
	r1, r2, frac := align(v, other)
	return fromWide(intmath.ShiftDiv(r1, r2, uint(frac)), frac)
}

// Mod returns the remainder of the raw division of the rescaled operands.
// Panics with ErrDivisionByZero if other is zero.
func (v Value) Mod(other Value) Value {
	if other.raw == 0 {
		panic(ErrDivisionByZero)
	}
	r1, r2, frac := align(v, other)
	return fromWide(r1%r2, frac)
}

// Neg returns -v, saturating for the minimum raw value.
func (v Value) Neg() Value {
	return fromWide(-int64(v.raw), v.frac)
}

// Abs returns the absolute value of v, saturating for the minimum raw value.
func (v Value) Abs() Value {
	return fromWide(intmath.Abs(int64(v.raw)), v.frac)
}

// ToFrac returns a value equal to v with the given fractional-bit count.
// Raising the count can saturate, lowering it floors.
func (v Value) ToFrac(frac uint8) (Value, error) {
	if frac > MaxFracBits {
		return zero, ErrFracBits
	}
	switch {
	case frac > v.frac:
		return fromWide(int64(v.raw)<<(frac-v.frac), frac), nil
	case frac < v.frac:
		return Value{raw: v.raw >> (v.frac - frac), frac: frac}, nil
	default:
		return v, nil
	}
}

// Int converts the value to an integer by an arithmetic right shift.
// This rounds toward negative infinity: 66.3 becomes 66, -66.3 becomes -67.
func (v Value) Int() int32 {
	return v.raw >> v.frac
}

// Int64 is Int widened to int64.
func (v Value) Int64() int64 {
	return int64(v.Int())
}

// Float32 returns the value as a float32.
func (v Value) Float32() float32 {
	return float32(v.raw) / float32(int64(1)<<v.frac)
}

// Float64 returns the value as a float64.
func (v Value) Float64() float64 {
	return float64(v.raw) / float64(int64(1)<<v.frac)
}

// String formats the value as a decimal string via its float64 form.
func (v Value) String() string {
	return strconv.FormatFloat(v.Float64(), 'f', -1, 64)
}

// GoString returns a debug string representation.
func (v Value) GoString() string {
	return v.String() + fmt.Sprintf(" {%v, %v}", v.raw, v.frac)
}

// MarshalJSON marshals the value as an object, like {"raw":640,"frac":8}.
func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Raw  int32 `json:"raw"`
		Frac uint8 `json:"frac"`
	}{Raw: v.raw, Frac: v.frac})
}

// UnmarshalJSON unmarshals an object produced by MarshalJSON.
func (v *Value) UnmarshalJSON(data []byte) error {
	d := struct {
		Raw  int32 `json:"raw"`
		Frac uint8 `json:"frac"`
	}{}
	if err := json.Unmarshal(data, &d); err != nil {
		return err
	}
	value, err := FromRaw(d.Raw, d.Frac)
	if err != nil {
		return err
	}
	*v = value
	return nil
}
