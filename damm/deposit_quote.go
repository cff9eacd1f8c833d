package damm

import (
	"fmt"
	"math/big"

	"go.uber.org/zap"

	"github.com/krazyTry/dynamic-amm-go/damm/curve"
	"github.com/krazyTry/dynamic-amm-go/dammath"
	"github.com/krazyTry/dynamic-amm-go/vault"
)

// DepositQuote carries the expected mint, the slippage-adjusted minimum
// to submit, and the input amounts the deposit will actually consume.
type DepositQuote struct {
	PoolTokenAmountOut    *big.Int
	MinPoolTokenAmountOut *big.Int
	TokenAInAmount        *big.Int
	TokenBInAmount        *big.Int
}

// vaultRoundTrip maps an amount through the vault share price and back,
// both legs floored. The result is what the vault will actually credit;
// it never exceeds the input.
func vaultRoundTrip(amount, withdrawable, lpSupply *big.Int) *big.Int {
	shares := vault.GetSharesByAmount(amount, withdrawable, lpSupply, dammath.RoundDown)
	return vault.GetAmountByShares(shares, withdrawable, lpSupply, dammath.RoundDown)
}

// GetDepositQuote quotes minting liquidity for the given inputs. Three
// regimes: bootstrap while no liquidity exists, balanced from a single
// side, and imbalanced (stable pools only).
func (s *PoolSnapshot) GetDepositQuote(amountA, amountB *big.Int, balance bool, slippageBps uint64) (*DepositQuote, error) {
	// first deposit sets the price; both amounts taken as given and no
	// slippage bound is needed
	if s.Reserves.LpSupply.Sign() == 0 {
		mint, err := s.Curve.ComputeD(amountA, amountB)
		if err != nil {
			return nil, err
		}
		return &DepositQuote{
			PoolTokenAmountOut:    mint,
			MinPoolTokenAmountOut: mint,
			TokenAInAmount:        amountA,
			TokenBInAmount:        amountB,
		}, nil
	}

	if balance {
		return s.balancedDepositQuote(amountA, amountB, slippageBps)
	}

	minted, err := s.Curve.ComputeImbalanceDeposit(amountA, amountB, s.TokenAAmount, s.TokenBAmount, s.Reserves.LpSupply, s.Fees)
	if err != nil {
		return nil, err
	}
	minMinted, err := applySlippage(minted, slippageBps)
	if err != nil {
		return nil, err
	}
	return &DepositQuote{
		PoolTokenAmountOut:    minted,
		MinPoolTokenAmountOut: minMinted,
		TokenAInAmount:        amountA,
		TokenBInAmount:        amountB,
	}, nil
}

func (s *PoolSnapshot) balancedDepositQuote(amountA, amountB *big.Int, slippageBps uint64) (*DepositQuote, error) {
	if amountA.Sign() != 0 && amountB.Sign() != 0 {
		return nil, fmt.Errorf("%w: balanced deposit takes a single input amount", curve.ErrInvalidInput)
	}
	if amountA.Sign() == 0 && amountB.Sign() == 0 {
		return &DepositQuote{
			PoolTokenAmountOut:    big.NewInt(0),
			MinPoolTokenAmountOut: big.NewInt(0),
			TokenAInAmount:        big.NewInt(0),
			TokenBInAmount:        big.NewInt(0),
		}, nil
	}
	if s.TokenAAmount.Sign() == 0 || s.TokenBAmount.Sign() == 0 {
		// live supply but an empty side: no ratio to balance against
		return &DepositQuote{
			PoolTokenAmountOut:    big.NewInt(0),
			MinPoolTokenAmountOut: big.NewInt(0),
			TokenAInAmount:        big.NewInt(0),
			TokenBInAmount:        big.NewInt(0),
		}, nil
	}

	// derive the missing side from the current ratio, rounding up so
	// the deposit is never under-collateralized
	var err error
	if amountA.Sign() > 0 {
		amountB, err = dammath.MulDiv(amountA, s.TokenBAmount, s.TokenAAmount, dammath.RoundUp)
	} else {
		amountA, err = dammath.MulDiv(amountB, s.TokenAAmount, s.TokenBAmount, dammath.RoundUp)
	}
	if err != nil {
		return nil, err
	}

	// the remote program mints against vault shares, not raw tokens;
	// constant product pools pre-shrink the inputs through the vault
	// share price so the quote survives share rounding
	actualA, actualB := amountA, amountB
	if _, ok := s.Curve.(curve.ConstantProductCurve); ok {
		actualA = vaultRoundTrip(amountA, s.Reserves.VaultAWithdrawable, s.Reserves.VaultALpSupply)
		actualB = vaultRoundTrip(amountB, s.Reserves.VaultBWithdrawable, s.Reserves.VaultBLpSupply)
	}

	mintedA := vault.GetSharesByAmount(actualA, s.TokenAAmount, s.Reserves.LpSupply, dammath.RoundDown)
	mintedB := vault.GetSharesByAmount(actualB, s.TokenBAmount, s.Reserves.LpSupply, dammath.RoundDown)
	minted := dammath.Min(mintedA, mintedB)

	// fixed buffer against vault-share rounding drift between quote
	// and execution
	buffered, err := dammath.MulDiv(minted, depositBufferNumerator, depositBufferDenominator, dammath.RoundDown)
	if err != nil {
		return nil, err
	}
	minMinted, err := applySlippage(buffered, slippageBps)
	if err != nil {
		return nil, err
	}

	return &DepositQuote{
		PoolTokenAmountOut:    buffered,
		MinPoolTokenAmountOut: minMinted,
		TokenAInAmount:        amountA,
		TokenBInAmount:        amountB,
	}, nil
}

func (m *Amm) GetDepositQuote(amountA, amountB *big.Int, balance bool, slippageBps uint64) (*DepositQuote, error) {
	s, err := m.snapshotOrErr()
	if err != nil {
		return nil, err
	}
	quote, err := s.GetDepositQuote(amountA, amountB, balance, slippageBps)
	if err != nil {
		return nil, err
	}
	m.logger.Debug("deposit quote",
		zap.String("pool", m.address.String()),
		zap.String("token_a_in", quote.TokenAInAmount.String()),
		zap.String("token_b_in", quote.TokenBInAmount.String()),
		zap.String("pool_token_out", quote.PoolTokenAmountOut.String()),
	)
	return quote, nil
}
