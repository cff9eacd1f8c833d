package curve

import (
	"errors"

	"github.com/krazyTry/dynamic-amm-go/dammath"
)

var (
	// ErrInvalidInput covers wrong-mint arguments, unsupported deposit
	// shapes and withdraw targets outside the pool pair.
	ErrInvalidInput = errors.New("invalid input")

	// ErrMathOverflow is integer overflow outside the safe domain.
	ErrMathOverflow = dammath.ErrMathOverflow

	// ErrConvergence is returned when the stable invariant solve does
	// not settle within its iteration bound. The curve never returns an
	// approximate value instead.
	ErrConvergence = errors.New("curve solve did not converge")
)
