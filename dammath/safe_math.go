package dammath

import (
	"errors"
	"math/big"
)

// ErrMathOverflow is returned when a result cannot be represented in the
// caller's target domain or a direct division hits a zero denominator.
var ErrMathOverflow = errors.New("math overflow")

// Rounding selects the direction of every division performed by this
// package. Down is conservative for amounts owed to the user, Up is used
// for amounts the user must supply.
type Rounding uint8

const (
	RoundDown Rounding = iota
	RoundUp
)

var (
	zero = big.NewInt(0)
	one  = big.NewInt(1)
)

// MulDiv computes x * y / denominator in the big.Int domain with the
// requested rounding. The denominator must be non-zero; callers owning a
// "zero divisor means zero result" policy check before calling.
func MulDiv(x, y, denominator *big.Int, round Rounding) (*big.Int, error) {
	if denominator.Sign() == 0 {
		return nil, ErrMathOverflow
	}

	num := new(big.Int).Mul(x, y)

	div, mod := new(big.Int).QuoRem(num, denominator, new(big.Int))
	if round == RoundUp && mod.Sign() != 0 {
		div.Add(div, one)
	}
	return div, nil
}

func Add(a, b *big.Int) *big.Int {
	return new(big.Int).Add(a, b)
}

// Sub fails instead of going negative; every quantity in the quote math
// is an unsigned token amount.
func Sub(a, b *big.Int) (*big.Int, error) {
	if b.Cmp(a) > 0 {
		return nil, ErrMathOverflow
	}
	return new(big.Int).Sub(a, b), nil
}

func Mul(a, b *big.Int) *big.Int {
	return new(big.Int).Mul(a, b)
}

func Div(a, b *big.Int, round Rounding) (*big.Int, error) {
	if b.Sign() == 0 {
		return nil, ErrMathOverflow
	}
	div, mod := new(big.Int).QuoRem(a, b, new(big.Int))
	if round == RoundUp && mod.Sign() != 0 {
		div.Add(div, one)
	}
	return div, nil
}

// Sqrt returns the integer square root (floor).
func Sqrt(a *big.Int) *big.Int {
	return new(big.Int).Sqrt(a)
}

// ToU64 narrows a result back to the native amount domain.
func ToU64(a *big.Int) (uint64, error) {
	if a.Sign() < 0 || !a.IsUint64() {
		return 0, ErrMathOverflow
	}
	return a.Uint64(), nil
}

func FromU64(v uint64) *big.Int {
	return new(big.Int).SetUint64(v)
}

func Min(a, b *big.Int) *big.Int {
	if a.Cmp(b) <= 0 {
		return new(big.Int).Set(a)
	}
	return new(big.Int).Set(b)
}

func IsZero(a *big.Int) bool {
	return a.Sign() == 0
}
