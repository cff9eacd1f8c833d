package damm

import (
	"math/big"

	"github.com/shopspring/decimal"

	"github.com/krazyTry/dynamic-amm-go/damm/curve"
	"github.com/krazyTry/dynamic-amm-go/dammath"
	"github.com/krazyTry/dynamic-amm-go/vault"
)

// ReserveSnapshot is one logical read of everything a quote depends on.
// All fields are gathered before construction and never patched
// individually afterwards.
type ReserveSnapshot struct {
	CurrentTime uint64

	PoolVaultALp *big.Int
	PoolVaultBLp *big.Int

	VaultALpSupply *big.Int
	VaultBLpSupply *big.Int

	VaultAWithdrawable *big.Int
	VaultBWithdrawable *big.Int

	LpSupply *big.Int
}

// PoolSnapshot is the immutable per-generation view the quote engine
// works from: the raw reserve read, the pool's normalized claim on each
// underlying token, and the curve variant rebuilt for this generation.
type PoolSnapshot struct {
	State    *PoolState
	Reserves ReserveSnapshot

	TokenAAmount *big.Int
	TokenBAmount *big.Int

	Curve curve.SwapCurve
	Fees  curve.Fees
}

// NewPoolSnapshot normalizes one reserve read into pool token amounts:
// tokenX = poolVaultXLp * vaultXWithdrawable / vaultXLpSupply, floored.
func NewPoolSnapshot(state *PoolState, reserves ReserveSnapshot) *PoolSnapshot {
	tokenA := vault.GetAmountByShares(reserves.PoolVaultALp, reserves.VaultAWithdrawable, reserves.VaultALpSupply, dammath.RoundDown)
	tokenB := vault.GetAmountByShares(reserves.PoolVaultBLp, reserves.VaultBWithdrawable, reserves.VaultBLpSupply, dammath.RoundDown)

	return &PoolSnapshot{
		State:        state,
		Reserves:     reserves,
		TokenAAmount: tokenA,
		TokenBAmount: tokenB,
		Curve:        state.BuildCurve(),
		Fees:         state.TradeFees(),
	}
}

// VirtualPrice is the pool value per liquidity token in
// VirtualPricePrecision units. Zero while no liquidity exists.
func (s *PoolSnapshot) VirtualPrice() (*big.Int, error) {
	if s.Reserves.LpSupply.Sign() == 0 {
		return big.NewInt(0), nil
	}
	d, err := s.Curve.ComputeD(s.TokenAAmount, s.TokenBAmount)
	if err != nil {
		return nil, err
	}
	return dammath.MulDiv(d, VirtualPricePrecision, s.Reserves.LpSupply, dammath.RoundDown)
}

// VirtualPriceDecimal is VirtualPrice for display.
func (s *PoolSnapshot) VirtualPriceDecimal() (decimal.Decimal, error) {
	vp, err := s.VirtualPrice()
	if err != nil {
		return decimal.Zero, err
	}
	return decimal.NewFromBigInt(vp, 0).Div(decimal.NewFromBigInt(VirtualPricePrecision, 0)), nil
}
