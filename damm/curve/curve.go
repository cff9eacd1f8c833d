package curve

import (
	"math/big"

	"github.com/gagliardetto/solana-go"
)

// TradeDirection orients a swap between the pool pair.
type TradeDirection uint8

const (
	// TradeDirectionAtoB swaps token A in for token B out.
	TradeDirectionAtoB TradeDirection = iota
	// TradeDirectionBtoA swaps token B in for token A out.
	TradeDirectionBtoA
)

// SwapCurve is the computation strategy shared by the curve variants.
// All amounts are raw token units; the quote engine strips fees before
// calling in.
type SwapCurve interface {
	// ComputeOutAmount prices amountIn against the current reserves.
	ComputeOutAmount(amountIn, reserveIn, reserveOut *big.Int, direction TradeDirection) (*big.Int, error)

	// ComputeInAmount is the inverse of ComputeOutAmount. It is an
	// estimate used for max-input bounds, never authoritative pricing.
	ComputeInAmount(amountOut, reserveIn, reserveOut *big.Int, direction TradeDirection) (*big.Int, error)

	// ComputeD is the invariant value; the bootstrap deposit mints
	// exactly this many liquidity tokens.
	ComputeD(amountA, amountB *big.Int) (*big.Int, error)

	// ComputeImbalanceDeposit values an unbalanced pair deposit and
	// returns the liquidity tokens minted after the imbalance fee.
	ComputeImbalanceDeposit(depositA, depositB, poolA, poolB, lpSupply *big.Int, fees Fees) (*big.Int, error)

	// ComputeWithdrawOne burns lpAmount for a single token: a balanced
	// withdrawal followed by an internal fee-charged swap. The
	// direction is that of the internal swap, so TradeDirectionAtoB
	// withdraws token B.
	ComputeWithdrawOne(lpAmount, lpSupply, poolA, poolB *big.Int, fees Fees, direction TradeDirection) (*big.Int, error)

	// RemainingAccounts lists extra accounts the on-chain swap needs;
	// the transaction builder appends them unchanged.
	RemainingAccounts() []*solana.AccountMeta
}
