// Package fp16 implements a signed Q8.8 binary fixed-point number,
// the 16-bit counterpart of package fp32. The raw representation is an
// int16 scaled by 2^8; multiplication and division widen to int32.
// All arithmetic saturates to the int16 range instead of wrapping.
package fp16

import (
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/avdva/fixedpoint/internal/intmath"
)

const (
	// FracBits is the number of bits right of the binary point.
	FracBits = 8

	one = 1 << FracBits
)

const (
	Zero             = Fixed(0)
	One              = Fixed(one)
	Max              = Fixed(math.MaxInt16)
	Min              = Fixed(math.MinInt16)
	SmallestPositive = Fixed(1)
	SmallestNegative = Fixed(-1)
)

var (
	// ErrRange reports that a constructed value does not fit the raw type.
	ErrRange = errors.New("fp16: value out of range")
	// ErrDivisionByZero is the panic value of Div and Mod for a zero divisor.
	ErrDivisionByZero = errors.New("fp16: division by zero")
)

// Fixed is a Q8.8 fixed-point number: the real value scaled by 2^8.
type Fixed int16

// FromRaw wraps an already scaled raw value.
func FromRaw(raw int16) Fixed {
	return Fixed(raw)
}

// FromInt returns a fixed-point value for the integer i, saturating and
// reporting ErrRange if i<<8 does not fit an int16.
func FromInt(i int16) (Fixed, error) {
	wide := int32(i) << FracBits
	if wide > math.MaxInt16 || wide < math.MinInt16 {
		return fromWide(wide), ErrRange
	}
	return Fixed(wide), nil
}

// FromFloat64 returns a fixed-point value for the float f, rounding the
// raw value f*2^8 to nearest. Returns an error for infinities and
// not-a-numbers; out-of-range values saturate and report ErrRange.
func FromFloat64(f float64) (Fixed, error) {
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return Zero, fmt.Errorf("bad float number")
	}
	scaled := math.Round(f * one)
	if scaled > math.MaxInt16 || scaled < math.MinInt16 {
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

func fromWide(raw int32) Fixed {
	return Fixed(intmath.Clamp(raw, math.MinInt16, math.MaxInt16))
}

// Raw returns the scaled integer representation.
func (f Fixed) Raw() int16 {
	return int16(f)
}

// Sign returns -1 if f < 0, 0 if f == 0, 1 if f > 0.
func (f Fixed) Sign() int {
	return intmath.Sign(f)
}

// Abs returns the absolute value of f, saturating for Min.
func (f Fixed) Abs() Fixed {
	return fromWide(intmath.Abs(int32(f)))
}

// Neg returns -f, saturating for Min.
func (f Fixed) Neg() Fixed {
	return fromWide(-int32(f))
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
	return fromWide(int32(f) + int32(other))
}

// Sub returns f - other, saturating on overflow.
func (f Fixed) Sub(other Fixed) Fixed {
	return fromWide(int32(f) - int32(other))
}

// Mul returns f * other, widening to int32 before the shift by 8.
func (f Fixed) Mul(other Fixed) Fixed {
	return fromWide(int32(f) * int32(other) >> FracBits)
}

// Div returns f / other, pre-shifting the widened dividend left by 8.
// Panics with ErrDivisionByZero if other is zero.
func (f Fixed) Div(other Fixed) Fixed {
	if other == Zero {
		panic(ErrDivisionByZero)
	}
	return fromWide(int32(f) << FracBits / int32(other))
}

// Mod returns the raw remainder f % other.
// Panics with ErrDivisionByZero if other is zero.
func (f Fixed) Mod(other Fixed) Fixed {
	if other == Zero {
		panic(ErrDivisionByZero)
	}
	return f % other
}

// Int converts the value to an integer by an arithmetic right shift,
// rounding toward negative infinity.
func (f Fixed) Int() int16 {
	return int16(f) >> FracBits
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
	return f.String() + fmt.Sprintf(" {%v}", int16(f))
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
