// Copyright 2025 The qmath Authors. All rights reserved.

// Package quantized implements a signed fixed-point number stored in the
// bn254 scalar field.
//
// A number v is kept as the raw field element v*Scale mod p. Raw values in
// [0, p/2) decode to non-negative numbers, values in [p/2, p) to negative
// ones, so recovering the sign is a single comparison against the field
// midpoint. Before an operator touches an operand it bounds the operand's
// decoded magnitude to a declared number of bits: the global 126-bit
// construction budget keeps every value far from the midpoint, and the
// tighter per-operation budgets leave the headroom each algorithm needs.
// A violated budget or a zero divisor yields an error and invalidates the
// computation; nothing wraps or saturates.
package quantized

import (
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/holiman/uint256"

	"github.com/qmath/quantized/internal/modmath"
)

const (
	// ScaleBits is the number of fractional bits in a value.
	ScaleBits = 16
	// Scale relates a raw mantissa to the number it stands for: a raw
	// value m represents m/Scale.
	Scale = 1 << ScaleBits

	// MaxMagnitudeBits bounds the decoded magnitude of any constructible
	// value. 126 bits keep raw sums and doubled products well inside one
	// half of the field, so sign classification stays unambiguous.
	MaxMagnitudeBits = 126

	// Per-operation operand budgets. Add keeps one spare bit against
	// wraparound, Mul bounds each factor so the product magnitude fits
	// the global budget, Div reserves room to pre-scale the numerator.
	addBits    = 125
	mulBits    = 63
	divNumBits = MaxMagnitudeBits - ScaleBits - 1
	divDenBits = MaxMagnitudeBits
)

var (
	scaleElem = func() fr.Element {
		var s fr.Element
		s.SetUint64(Scale)
		return s
	}()
	scale256    = uint256.NewInt(Scale)
	maxMantissa = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), MaxMagnitudeBits), big.NewInt(1))
)

// Value is a signed fixed-point number. The zero Value is 0. Values are
// immutable: operators consume their operands and return fresh ones.
type Value struct {
	x fr.Element
}

// Modulus returns the field modulus p as a fresh big integer.
func Modulus() *big.Int {
	return fr.Modulus()
}

// Zero returns the value 0.
func Zero() Value {
	return Value{}
}

// New wraps a raw field element into a Value. The element is the already
// scaled mantissa: the element 98304 yields the number 1.5. New fails with
// *OverflowError when the decoded magnitude exceeds MaxMagnitudeBits; this
// is the only gate through which caller-supplied raw values enter the type.
func New(raw fr.Element) (Value, error) {
	if err := checkMagnitude(&raw, MaxMagnitudeBits); err != nil {
		return Value{}, err
	}
	return Value{x: raw}, nil
}

// Must returns v if err is nil and panics otherwise. It allows chaining
// constructors and operators in tests and examples.
func Must(v Value, err error) Value {
	if err != nil {
		panic(err)
	}
	return v
}

// Max returns the largest representable value, (2^126-1)/Scale.
func Max() Value {
	var e fr.Element
	e.SetBigInt(maxMantissa)
	return Value{x: e}
}

// Min returns -Max.
func Min() Value {
	return Max().Neg()
}

// Element returns the backing raw field element.
func (v Value) Element() fr.Element {
	return v.x
}

// Mantissa returns the signed scaled integer m such that v represents
// m/Scale. Values from the negative half come back negative.
func (v Value) Mantissa() *big.Int {
	mag, neg := modmath.Magnitude(&v.x)
	m := new(big.Int)
	mag.BigInt(m)
	if neg {
		m.Neg(m)
	}
	return m
}

// IsZero reports whether v is exactly zero.
func (v Value) IsZero() bool {
	return v.x.IsZero()
}

// Sign returns -1, 0 or +1 according to the half of the field the raw
// value falls into. The classification is total over all raw values and
// never fails.
func (v Value) Sign() int {
	if v.x.IsZero() {
		return 0
	}
	if modmath.InLowerHalf(&v.x) {
		return 1
	}
	return -1
}

// Equal reports whether two values have the same raw representation.
func (v Value) Equal(other Value) bool {
	return v.x.Equal(&other.x)
}

// isNegative classifies a raw element by field half. A lower-half element
// must additionally fit the global magnitude budget: everything between
// 2^126 and the midpoint is a positive-looking value no valid operand can
// produce, so it is rejected rather than misread. The result is only
// trustworthy within the budget the caller asserts on top of this, which
// is why every operator pre-checks its operands.
func isNegative(x *fr.Element) (bool, error) {
	if modmath.InLowerHalf(x) {
		if modmath.BitLen(x) > MaxMagnitudeBits {
			return false, overflowError(MaxMagnitudeBits, x)
		}
		return false, nil
	}
	return true, nil
}

// checkMagnitude fails with *OverflowError unless the decoded magnitude of
// x (x itself in the lower half, p-x in the upper) fits in bits. This
// input-side check is the sole overflow protection: operators assert it on
// their operands and trust their own results.
func checkMagnitude(x *fr.Element, bits uint) error {
	neg, err := isNegative(x)
	if err != nil {
		return err
	}
	mag := *x
	if neg {
		mag.Neg(x)
	}
	if uint(modmath.BitLen(&mag)) > bits {
		return overflowError(bits, x)
	}
	return nil
}
