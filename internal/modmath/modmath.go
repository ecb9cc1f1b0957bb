// Package modmath holds the modular-arithmetic primitives shared by the
// quantized value type: the field midpoint split used to recover sign, and
// conversions between field elements and the fixed-width unsigned domain.
package modmath

import (
	"math/big"
	"math/bits"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/holiman/uint256"
)

// halfPoint is (p-1)/2, the largest raw value in the non-negative half of
// the field. p is odd, so the plain right shift lands exactly on it.
var halfPoint = func() fr.Element {
	h := fr.Modulus()
	h.Rsh(h, 1)
	var e fr.Element
	e.SetBigInt(h)
	return e
}()

// InLowerHalf reports whether z lies in [0, p/2), the half of the field
// that decodes to non-negative numbers. Zero is in the lower half.
func InLowerHalf(z *fr.Element) bool {
	return z.Cmp(&halfPoint) <= 0
}

// Magnitude returns |z| together with a flag telling whether z sits in the
// negative half. For an upper-half z the magnitude is p-z.
func Magnitude(z *fr.Element) (fr.Element, bool) {
	if InLowerHalf(z) {
		return *z, false
	}
	var m fr.Element
	m.Neg(z)
	return m, true
}

// BitLen returns the number of bits needed to represent the canonical
// value of z, 0 for a zero element. The limbs of an element hold its
// Montgomery form and cannot be scanned in place.
func BitLen(z *fr.Element) int {
	limbs := z.Bits()
	for i := len(limbs) - 1; i >= 0; i-- {
		if limbs[i] != 0 {
			return i*64 + bits.Len64(limbs[i])
		}
	}
	return 0
}

// U256 returns the canonical value of z as a fixed-width unsigned integer.
// Field elements always fit: p needs 254 bits.
func U256(z *fr.Element) *uint256.Int {
	var b big.Int
	z.BigInt(&b)
	u, _ := uint256.FromBig(&b)
	return u
}

// SetU256 sets z to u reduced modulo p.
func SetU256(z *fr.Element, u *uint256.Int) {
	z.SetBigInt(u.ToBig())
}
