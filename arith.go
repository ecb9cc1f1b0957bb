package quantized

import (
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"

	"github.com/qmath/quantized/internal/modmath"
)

// Add returns v + other. Each operand magnitude must fit 125 bits so the
// magnitude of the sum stays inside the construction budget; a larger
// operand fails with *OverflowError.
func (v Value) Add(other Value) (Value, error) {
	if err := checkMagnitude(&v.x, addBits); err != nil {
		return Value{}, err
	}
	if err := checkMagnitude(&other.x, addBits); err != nil {
		return Value{}, err
	}
	var x fr.Element
	x.Add(&v.x, &other.x)
	return Value{x: x}, nil
}

// Sub returns v - other under the same 125-bit operand bound as Add.
func (v Value) Sub(other Value) (Value, error) {
	if err := checkMagnitude(&v.x, addBits); err != nil {
		return Value{}, err
	}
	if err := checkMagnitude(&other.x, addBits); err != nil {
		return Value{}, err
	}
	var x fr.Element
	x.Sub(&v.x, &other.x)
	return Value{x: x}, nil
}

// Neg returns -v. Negation reflects the raw value across the modulus and
// leaves the magnitude unchanged, so it never fails.
func (v Value) Neg() Value {
	var x fr.Element
	x.Neg(&v.x)
	return Value{x: x}
}

// Abs returns the absolute value of v.
func (v Value) Abs() Value {
	if v.Sign() < 0 {
		return v.Neg()
	}
	return v
}

// Mul returns v * other, truncated toward zero to the nearest
// representable value. Operand magnitudes are bounded to 63 bits each, so
// the modular product is the exact product of the mantissas at twice the
// scale. The product is classified by field half, its magnitude divided
// by Scale as a plain 256-bit integer, and the sign re-applied. Dividing
// the magnitude rather than the raw value is what makes the rescale
// truncate toward zero for both signs.
func (v Value) Mul(other Value) (Value, error) {
	if err := checkMagnitude(&v.x, mulBits); err != nil {
		return Value{}, err
	}
	if err := checkMagnitude(&other.x, mulBits); err != nil {
		return Value{}, err
	}
	var prod fr.Element
	prod.Mul(&v.x, &other.x)
	mag, neg := modmath.Magnitude(&prod)
	q := modmath.U256(&mag)
	q.Div(q, scale256)
	var x fr.Element
	modmath.SetU256(&x, q)
	if neg {
		x.Neg(&x)
	}
	return Value{x: x}, nil
}

// Div returns v / other, truncated toward zero. A zero divisor fails with
// ErrDivisionByZero before any magnitude check runs. The numerator bound
// is 109 bits: its magnitude is pre-scaled by Scale ahead of the integer
// division and the scaled form must still fit 125 bits. The quotient of
// the magnitudes carries the sign only when exactly one operand is
// negative.
func (v Value) Div(other Value) (Value, error) {
	if other.x.IsZero() {
		return Value{}, ErrDivisionByZero
	}
	if err := checkMagnitude(&v.x, divNumBits); err != nil {
		return Value{}, err
	}
	if err := checkMagnitude(&other.x, divDenBits); err != nil {
		return Value{}, err
	}
	numMag, numNeg := modmath.Magnitude(&v.x)
	denMag, denNeg := modmath.Magnitude(&other.x)
	num := modmath.U256(&numMag)
	num.Lsh(num, ScaleBits)
	num.Div(num, modmath.U256(&denMag))
	var x fr.Element
	modmath.SetU256(&x, num)
	if numNeg != denNeg {
		x.Neg(&x)
	}
	return Value{x: x}, nil
}

// Cmp compares v and other and returns -1, 0 or +1. Equal raw values
// compare equal; any other pair is ordered by the field half their raw
// difference lands in. Cmp runs no magnitude checks: the ordering is
// meaningful only while both operand magnitudes stay below 125 bits, so
// that the difference cannot reach the field midpoint.
func (v Value) Cmp(other Value) int {
	if v.x.Equal(&other.x) {
		return 0
	}
	var diff fr.Element
	diff.Sub(&v.x, &other.x)
	if modmath.InLowerHalf(&diff) {
		return 1
	}
	return -1
}
