// Copyright 2025 The qmath Authors. All rights reserved.

package quantized

import (
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"
	"unicode"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/shopspring/decimal"
)

// pow5Scale is 5^ScaleBits. Multiplying a mantissa by it turns the binary
// scale into a decimal one: m/2^16 = m*5^16/10^16, so every value has an
// exact 16-digit decimal expansion.
const pow5Scale = 152587890625

var (
	scaleInt = big.NewInt(Scale)
	scaleDec = decimal.NewFromInt(Scale)
	pow5Big  = big.NewInt(pow5Scale)
	bigTen   = big.NewInt(10)
)

// fromMantissa encodes a signed scaled mantissa into the field. The
// magnitude is encoded first and negatives are reflected across the
// modulus, mirroring how Mantissa decodes.
func fromMantissa(m *big.Int) (Value, error) {
	if m.BitLen() > MaxMagnitudeBits {
		return Value{}, overflowErrorBig(MaxMagnitudeBits, m)
	}
	var x fr.Element
	x.SetBigInt(new(big.Int).Abs(m))
	if m.Sign() < 0 {
		x.Neg(&x)
	}
	return Value{x: x}, nil
}

// FromInt64 returns a value for the given integer. Any int64 fits the
// magnitude bound, so the conversion never fails.
func FromInt64(i int64) Value {
	var x fr.Element
	x.SetInt64(i)
	x.Mul(&x, &scaleElem)
	return Value{x: x}
}

// FromBigInt returns a value for the given big integer.
func FromBigInt(i *big.Int) (Value, error) {
	return fromMantissa(new(big.Int).Lsh(i, ScaleBits))
}

// FromFloat64 returns a value for the given float64, truncating
// fractional bits beyond the scale toward zero.
// Returns an error for infinities and not-a-numbers.
func FromFloat64(f float64) (Value, error) {
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return Value{}, fmt.Errorf("bad float number")
	}
	scaled := new(big.Float).SetFloat64(f)
	scaled.SetMantExp(scaled, ScaleBits)
	m, _ := scaled.Int(nil)
	return fromMantissa(m)
}

// Float64 returns the nearest float64 to the value.
func (v Value) Float64() float64 {
	f, _ := new(big.Rat).SetFrac(v.Mantissa(), scaleInt).Float64()
	return f
}

// FromString parses a decimal string into a value. The string is an
// optionally signed digit run with at most one delimiter ("-12.5", ".5",
// "3."); fractional digits beyond the scale truncate toward zero. Inputs
// only a float parser accepts, such as "1e3", go through FromFloat64.
func FromString(s string) (Value, error) {
	m, err := parseMantissa(s)
	if err != nil { // could still be a float
		f, fltErr := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if fltErr != nil {
			return Value{}, fmt.Errorf("parsing failed: %w", err)
		}
		return FromFloat64(f)
	}
	return fromMantissa(m)
}

// MustFromString is like FromString but panics on any error.
func MustFromString(s string) Value {
	v, err := FromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

// parseMantissa reads an optionally signed decimal string into a signed
// scaled mantissa. Error positions count from 1 in the caller's original
// input, so the stripped space and sign prefix is added back.
func parseMantissa(s string) (*big.Int, error) {
	offset := 0
	if trimmed := strings.TrimLeftFunc(s, unicode.IsSpace); len(trimmed) != len(s) {
		offset = len(s) - len(trimmed)
		s = trimmed
	}
	s = strings.TrimRightFunc(s, unicode.IsSpace)
	if len(s) == 0 {
		return nil, fmt.Errorf("empty input")
	}
	neg := false
	if s[0] == '-' || s[0] == '+' {
		neg = s[0] == '-'
		s = s[1:]
		offset++
	}
	var digits strings.Builder
	delimPos := -1
	for i, r := range s {
		switch {
		case '0' <= r && r <= '9':
			digits.WriteRune(r)
		case r == '.' && delimPos < 0:
			delimPos = digits.Len()
		case r == '.':
			return nil, fmt.Errorf("unexpected delimiter at pos %d", offset+i+1)
		default:
			return nil, fmt.Errorf("unexpected symbol %q at pos %d", r, offset+i+1)
		}
	}
	if digits.Len() == 0 {
		return nil, fmt.Errorf("empty input")
	}
	m, _ := new(big.Int).SetString(digits.String(), 10)
	m.Lsh(m, ScaleBits)
	if delimPos >= 0 {
		if fracDigits := digits.Len() - delimPos; fracDigits > 0 {
			m.Quo(m, new(big.Int).Exp(bigTen, big.NewInt(int64(fracDigits)), nil))
		}
	}
	if neg {
		m.Neg(m)
	}
	return m, nil
}

// FromDecimal converts a decimal number into a value, truncating
// fractional digits beyond the scale toward zero.
func FromDecimal(d decimal.Decimal) (Value, error) {
	return fromMantissa(d.Mul(scaleDec).BigInt())
}

// Decimal returns the exact decimal form of the value.
func (v Value) Decimal() decimal.Decimal {
	m := v.Mantissa()
	return decimal.NewFromBigInt(m.Mul(m, pow5Big), -ScaleBits)
}

// String returns the exact decimal representation of the value.
func (v Value) String() string {
	m := v.Mantissa()
	neg := m.Sign() < 0
	if neg {
		m.Neg(m)
	}
	quo, rem := new(big.Int).QuoRem(m, scaleInt, new(big.Int))
	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	b.WriteString(quo.String())
	if rem.Sign() != 0 {
		b.WriteByte('.')
		b.WriteString(strings.TrimRight(fmt.Sprintf("%016d", rem.Uint64()*pow5Scale), "0"))
	}
	return b.String()
}

// GoString returns debug string representation.
func (v Value) GoString() string {
	return v.String() + fmt.Sprintf(" {%v}", v.Mantissa())
}

// MarshalJSON marshals the value as its exact decimal string.
func (v Value) MarshalJSON() ([]byte, error) {
	return []byte(`"` + v.String() + `"`), nil
}

// UnmarshalJSON unmarshals a JSON string or a bare number into a value.
func (v *Value) UnmarshalJSON(data []byte) error {
	if len(data) == 0 {
		return fmt.Errorf("empty json")
	}
	s := string(data)
	if s[0] == '"' {
		unq, err := strconv.Unquote(s)
		if err != nil {
			return err
		}
		s = unq
	}
	value, err := FromString(s)
	if err != nil {
		return err
	}
	*v = value
	return nil
}
