package damm

import (
	"fmt"
	"math/big"

	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"

	"github.com/krazyTry/dynamic-amm-go/damm/curve"
	"github.com/krazyTry/dynamic-amm-go/dammath"
	"github.com/krazyTry/dynamic-amm-go/vault"
)

// WithdrawQuote carries the expected underlying outputs for burning pool
// LP tokens, with slippage-adjusted minimums to submit.
type WithdrawQuote struct {
	TokenAOutAmount    *big.Int
	MinTokenAOutAmount *big.Int
	TokenBOutAmount    *big.Int
	MinTokenBOutAmount *big.Int
}

// GetWithdrawQuote quotes burning lpAmount pool LP tokens. A zero
// outTokenMint asks for a balanced withdrawal of both sides; naming one
// of the pair's mints asks for a single-sided withdrawal routed through
// the curve.
func (s *PoolSnapshot) GetWithdrawQuote(lpAmount *big.Int, outTokenMint solana.PublicKey, slippageBps uint64) (*WithdrawQuote, error) {
	if lpAmount.Sign() < 0 || lpAmount.Cmp(s.Reserves.LpSupply) > 0 {
		return nil, fmt.Errorf("%w: lp amount exceeds pool lp supply", curve.ErrInvalidInput)
	}
	if outTokenMint.Equals(solana.PublicKey{}) {
		return s.balancedWithdrawQuote(lpAmount, slippageBps)
	}
	return s.singleSidedWithdrawQuote(lpAmount, outTokenMint, slippageBps)
}

// balancedWithdrawQuote burns through both vaults pro rata. Each side is
// two share conversions: pool LP to the pool's vault LP shares, then
// those shares to underlying, all floored.
func (s *PoolSnapshot) balancedWithdrawQuote(lpAmount *big.Int, slippageBps uint64) (*WithdrawQuote, error) {
	vaultALpBurn := vault.GetAmountByShares(lpAmount, s.Reserves.PoolVaultALp, s.Reserves.LpSupply, dammath.RoundDown)
	vaultBLpBurn := vault.GetAmountByShares(lpAmount, s.Reserves.PoolVaultBLp, s.Reserves.LpSupply, dammath.RoundDown)

	outA := vault.GetAmountByShares(vaultALpBurn, s.Reserves.VaultAWithdrawable, s.Reserves.VaultALpSupply, dammath.RoundDown)
	outB := vault.GetAmountByShares(vaultBLpBurn, s.Reserves.VaultBWithdrawable, s.Reserves.VaultBLpSupply, dammath.RoundDown)

	minOutA, err := applySlippage(outA, slippageBps)
	if err != nil {
		return nil, err
	}
	minOutB, err := applySlippage(outB, slippageBps)
	if err != nil {
		return nil, err
	}
	return &WithdrawQuote{
		TokenAOutAmount:    outA,
		MinTokenAOutAmount: minOutA,
		TokenBOutAmount:    outB,
		MinTokenBOutAmount: minOutB,
	}, nil
}

func (s *PoolSnapshot) singleSidedWithdrawQuote(lpAmount *big.Int, outTokenMint solana.PublicKey, slippageBps uint64) (*WithdrawQuote, error) {
	// the curve direction names the input side, so withdrawing token B
	// swaps A into B internally
	var direction curve.TradeDirection
	var withdrawable, vaultLpSupply *big.Int
	switch {
	case outTokenMint.Equals(s.State.TokenBMint):
		direction = curve.TradeDirectionAtoB
		withdrawable = s.Reserves.VaultBWithdrawable
		vaultLpSupply = s.Reserves.VaultBLpSupply
	case outTokenMint.Equals(s.State.TokenAMint):
		direction = curve.TradeDirectionBtoA
		withdrawable = s.Reserves.VaultAWithdrawable
		vaultLpSupply = s.Reserves.VaultALpSupply
	default:
		return nil, fmt.Errorf("%w: mint %s does not belong to the pool pair", curve.ErrInvalidInput, outTokenMint)
	}

	out, err := s.Curve.ComputeWithdrawOne(lpAmount, s.Reserves.LpSupply, s.TokenAAmount, s.TokenBAmount, s.Fees, direction)
	if err != nil {
		return nil, err
	}
	// the vault pays out through its own shares; re-derive what it will
	// actually credit
	out = vaultRoundTrip(out, withdrawable, vaultLpSupply)

	minOut, err := applySlippage(out, slippageBps)
	if err != nil {
		return nil, err
	}

	quote := &WithdrawQuote{
		TokenAOutAmount:    big.NewInt(0),
		MinTokenAOutAmount: big.NewInt(0),
		TokenBOutAmount:    big.NewInt(0),
		MinTokenBOutAmount: big.NewInt(0),
	}
	if direction == curve.TradeDirectionAtoB {
		quote.TokenBOutAmount = out
		quote.MinTokenBOutAmount = minOut
	} else {
		quote.TokenAOutAmount = out
		quote.MinTokenAOutAmount = minOut
	}
	return quote, nil
}

func (m *Amm) GetWithdrawQuote(lpAmount *big.Int, outTokenMint solana.PublicKey, slippageBps uint64) (*WithdrawQuote, error) {
	s, err := m.snapshotOrErr()
	if err != nil {
		return nil, err
	}
	quote, err := s.GetWithdrawQuote(lpAmount, outTokenMint, slippageBps)
	if err != nil {
		return nil, err
	}
	m.logger.Debug("withdraw quote",
		zap.String("pool", m.address.String()),
		zap.String("lp_amount", lpAmount.String()),
		zap.String("token_a_out", quote.TokenAOutAmount.String()),
		zap.String("token_b_out", quote.TokenBOutAmount.String()),
	)
	return quote, nil
}
