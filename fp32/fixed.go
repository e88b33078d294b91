// Package fp32 implements a signed Q16.16 binary fixed-point number.
// The raw representation is an int32 scaled by 2^16; multiplication and
// division widen to int64 to avoid intermediate overflow.
// All arithmetic saturates to the int32 range instead of wrapping.
package fp32

import (
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/avdva/fixedpoint/internal/intmath"
)

const (
	// FracBits is the number of bits right of the binary point.
	FracBits = 16

	one = 1 << FracBits
)

const (
	Zero             = Fixed(0)
	One              = Fixed(one)
	Max              = Fixed(math.MaxInt32)
	Min              = Fixed(math.MinInt32)
	SmallestPositive = Fixed(1)
	SmallestNegative = Fixed(-1)
)

var (
	// ErrRange reports that a constructed value does not fit the raw type.
	// Constructors return it together with the saturated value.
	ErrRange = errors.New("fp32: value out of range")
	// ErrDivisionByZero is the panic value of Div and Mod for a zero divisor.
	ErrDivisionByZero = errors.New("fp32: division by zero")
)

// Fixed is a Q16.16 fixed-point number. Its integer value is the real
// value scaled by 2^16, so Fixed(1<<16) represents 1.
type Fixed int32

// FromRaw wraps an already scaled raw value.
func FromRaw(raw int32) Fixed {
	return Fixed(raw)
}

// FromInt returns a fixed-point value for the integer i.
// If i<<16 does not fit an int32, the result saturates and
// ErrRange is returned.
func FromInt(i int32) (Fixed, error) {
	wide := int64(i) << FracBits
	if wide > math.MaxInt32 || wide < math.MinInt32 {
		return fromWide(wide), ErrRange
	}
	return Fixed(wide), nil
}

// FromFloat64 returns a fixed-point value for the float f.
// The raw value is f*2^16 rounded to nearest. Returns an error for
// infinities and not-a-numbers; out-of-range values saturate and
// report ErrRange.
func FromFloat64(f float64) (Fixed, error) {
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return Zero, fmt.Errorf("bad float number")
	}
	scaled := math.Round(f * one)
	if scaled > math.MaxInt32 || scaled < math.MinInt32 {
		if scaled > 0 {
			return Max, ErrRange
		}
		return Min, ErrRange
	}
	return Fixed(scaled), nil
}

// FromString parses a decimal string. Precision is limited to that of
// a float64.
func FromString(s string) (Fixed, error) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return Zero, fmt.Errorf("parsing failed: %w", err)
	}
	return FromFloat64(f)
}

// MustFromString is like FromString, but panics on any error.
func MustFromString(s string) Fixed {
	f, err := FromString(s)
	if err != nil {
		panic(err)
	}
	return f
}

func fromWide(raw int64) Fixed {
	return Fixed(intmath.Clamp(raw, math.MinInt32, math.MaxInt32))
}

// Raw returns the scaled integer representation.
func (f Fixed) Raw() int32 {
	return int32(f)
}

// Sign returns -1 if f < 0, 0 if f == 0, 1 if f > 0.
func (f Fixed) Sign() int {
	return intmath.Sign(f)
}

// Abs returns the absolute value of f, saturating for Min.
func (f Fixed) Abs() Fixed {
	return fromWide(intmath.Abs(int64(f)))
}

// Neg returns -f, saturating for Min.
func (f Fixed) Neg() Fixed {
	return fromWide(-int64(f))
}

// Cmp returns -1 if f < other, 0 if f == other, 1 if f > other.
func (f Fixed) Cmp(other Fixed) int {
	return intmath.Cmp(f, other)
}

// Eq returns f == other.
func (f Fixed) Eq(other Fixed) bool {
	return f == other
}

// Add returns f + other, saturating on overflow.
func (f Fixed) Add(other Fixed) Fixed {
	return fromWide(int64(f) + int64(other))
}

// Sub returns f - other, saturating on overflow.
func (f Fixed) Sub(other Fixed) Fixed {
	return fromWide(int64(f) - int64(other))
}

// Mul returns f * other. The product is computed in int64 and shifted
// right by 16; the shift floors, the narrowing saturates.
func (f Fixed) Mul(other Fixed) Fixed {
	return fromWide(int64(f) * int64(other) >> FracBits)
}

// Div returns f / other. The dividend is widened and pre-shifted left
// by 16 to keep precision; the quotient truncates toward zero and
// saturates. Panics with ErrDivisionByZero if other is zero.
func (f Fixed) Div(other Fixed) Fixed {
	if other == Zero {
		panic(ErrDivisionByZero)
	}
	return fromWide(int64(f) << FracBits / int64(other))
}

// Mod returns the raw remainder f % other.
// Panics with ErrDivisionByZero if other is zero.
func (f Fixed) Mod(other Fixed) Fixed {
	if other == Zero {
		panic(ErrDivisionByZero)
	}
	return f % other
}

// Int converts the value to an integer by an arithmetic right shift.
// This rounds toward negative infinity: 66.3 becomes 66, -66.3 becomes -67.
func (f Fixed) Int() int32 {
	return int32(f) >> FracBits
}

// Int64 is Int widened to int64.
func (f Fixed) Int64() int64 {
	return int64(f.Int())
}

// Float32 returns the value as a float32.
func (f Fixed) Float32() float32 {
	return float32(f) / one
}

// Float64 returns the value as a float64.
func (f Fixed) Float64() float64 {
	return float64(f) / one
}

// String formats the value as a decimal string via its float64 form.
func (f Fixed) String() string {
	return strconv.FormatFloat(f.Float64(), 'f', -1, 64)
}

// GoString returns a debug string representation.
func (f Fixed) GoString() string {
	return f.String() + fmt.Sprintf(" {%v}", int32(f))
}

// MarshalJSON marshals the value as a quoted decimal string.
func (f Fixed) MarshalJSON() ([]byte, error) {
	return strconv.AppendQuote(nil, f.String()), nil
}

// UnmarshalJSON unmarshals a quoted or bare decimal number.
func (f *Fixed) UnmarshalJSON(data []byte) error {
	s := string(data)
	if unquoted, err := strconv.Unquote(s); err == nil {
		s = unquoted
	}
	fs, err := FromString(s)
	if err == nil {
		*f = fs
	}
	return err
}
