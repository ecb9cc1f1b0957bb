package quantized

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
)

// ErrDivisionByZero is returned by Div when the divisor's raw value is
// exactly zero. It is checked before anything else runs.
var ErrDivisionByZero = errors.New("division by zero")

// OverflowError reports an operand whose decoded magnitude needs more
// bits than the declared budget of the operation that refused it. Budgets
// are checked on inputs only, so the failing operation returned no
// result. Retrieve it with errors.As.
type OverflowError struct {
	// Bits is the declared budget.
	Bits uint
	// Raw is the offending operand: the raw field residue for operator
	// checks, the signed scaled mantissa for constructions that never
	// produced a residue.
	Raw *big.Int
}

func (e *OverflowError) Error() string {
	return fmt.Sprintf("magnitude of raw value %s exceeds %d-bit budget", e.Raw, e.Bits)
}

func overflowError(bits uint, raw *fr.Element) *OverflowError {
	b := new(big.Int)
	raw.BigInt(b)
	return &OverflowError{Bits: bits, Raw: b}
}

func overflowErrorBig(bits uint, raw *big.Int) *OverflowError {
	return &OverflowError{Bits: bits, Raw: new(big.Int).Set(raw)}
}
