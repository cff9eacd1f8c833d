package damm

import (
	"math/big"

	"github.com/gagliardetto/solana-go"
)

var (
	// ProgramID is the dynamic AMM program.
	ProgramID = solana.MustPublicKeyFromBase58("Eo7WjKq67rjJQSZxS6z3YkapzY3eMj6Xy8X5EQVn5UaB")

	accountKeyPool       = "Pool"
	accountKeyLockEscrow = "LockEscrow"
)

var (
	// maxSwapOutFloor keeps the last unit of a reserve in the pool; a
	// side is never quoted fully drained. Empirical constant of the
	// on-chain program, preserved as-is.
	maxSwapOutFloor = big.NewInt(1)

	// depositBufferNumerator/Denominator shave the balanced-deposit
	// mint quote to absorb vault-share rounding drift between quote and
	// execution. Empirical, preserved as-is.
	depositBufferNumerator   = big.NewInt(9_980)
	depositBufferDenominator = big.NewInt(10_000)

	// VirtualPricePrecision scales the pool's virtual price and the
	// lock-escrow lpPerToken bookkeeping.
	VirtualPricePrecision = big.NewInt(1_000_000_000_000)

	slippageBpsMax = big.NewInt(10_000)
)
