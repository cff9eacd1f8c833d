package damm

import (
	"fmt"
	"math/big"

	"github.com/gagliardetto/solana-go"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/krazyTry/dynamic-amm-go/damm/curve"
	"github.com/krazyTry/dynamic-amm-go/dammath"
)

// SwapQuote carries both the expected output and the slippage-adjusted
// bound to submit on chain.
type SwapQuote struct {
	SwapInAmount     *big.Int
	SwapOutAmount    *big.Int
	MinSwapOutAmount *big.Int
	TradeFee         *big.Int
	OwnerFee         *big.Int
	PriceImpact      decimal.Decimal
}

// tradeDirection resolves which side of the pair the input mint is.
func (s *PoolSnapshot) tradeDirection(inTokenMint solana.PublicKey) (curve.TradeDirection, *big.Int, *big.Int, error) {
	switch {
	case inTokenMint.Equals(s.State.TokenAMint):
		return curve.TradeDirectionAtoB, s.TokenAAmount, s.TokenBAmount, nil
	case inTokenMint.Equals(s.State.TokenBMint):
		return curve.TradeDirectionBtoA, s.TokenBAmount, s.TokenAAmount, nil
	default:
		return 0, nil, nil, fmt.Errorf("%w: mint %s does not belong to the pool pair", curve.ErrInvalidInput, inTokenMint)
	}
}

// applySlippage computes amount * (10000 - slippageBps) / 10000 exactly.
func applySlippage(amount *big.Int, slippageBps uint64) (*big.Int, error) {
	if slippageBps > slippageBpsMax.Uint64() {
		return nil, fmt.Errorf("%w: slippage above 10000 bps", curve.ErrInvalidInput)
	}
	factor := new(big.Int).Sub(slippageBpsMax, dammath.FromU64(slippageBps))
	return dammath.MulDiv(amount, factor, slippageBpsMax, dammath.RoundDown)
}

// idealOutAmount is the output at the current ratio with no curve
// slippage, the benchmark for price impact.
func (s *PoolSnapshot) idealOutAmount(netIn, reserveIn, reserveOut *big.Int, direction curve.TradeDirection) (*big.Int, error) {
	if c, ok := s.Curve.(*curve.StableCurve); ok {
		return c.IdealOutAmount(netIn, direction)
	}
	if reserveIn.Sign() == 0 {
		return big.NewInt(0), nil
	}
	return dammath.MulDiv(netIn, reserveOut, reserveIn, dammath.RoundDown)
}

// GetSwapQuote prices inAmount of inTokenMint against the snapshot.
// Fees are charged on input; the remainder goes through the curve.
func (s *PoolSnapshot) GetSwapQuote(inTokenMint solana.PublicKey, inAmount *big.Int, slippageBps uint64) (*SwapQuote, error) {
	direction, reserveIn, reserveOut, err := s.tradeDirection(inTokenMint)
	if err != nil {
		return nil, err
	}
	if err = s.Fees.Validate(); err != nil {
		return nil, err
	}

	tradeFee, err := s.Fees.TradingFee(inAmount)
	if err != nil {
		return nil, err
	}
	ownerFee, err := s.Fees.OwnerTradingFee(inAmount)
	if err != nil {
		return nil, err
	}
	netIn, err := dammath.Sub(inAmount, dammath.Add(tradeFee, ownerFee))
	if err != nil {
		return nil, fmt.Errorf("%w: input smaller than its fees", curve.ErrInvalidInput)
	}

	outAmount, err := s.Curve.ComputeOutAmount(netIn, reserveIn, reserveOut, direction)
	if err != nil {
		return nil, err
	}
	minOut, err := applySlippage(outAmount, slippageBps)
	if err != nil {
		return nil, err
	}

	priceImpact := decimal.Zero
	ideal, err := s.idealOutAmount(netIn, reserveIn, reserveOut, direction)
	if err != nil {
		return nil, err
	}
	if ideal.Sign() > 0 {
		idealDec := decimal.NewFromBigInt(ideal, 0)
		priceImpact = idealDec.Sub(decimal.NewFromBigInt(outAmount, 0)).Div(idealDec)
	}

	return &SwapQuote{
		SwapInAmount:     inAmount,
		SwapOutAmount:    outAmount,
		MinSwapOutAmount: minOut,
		TradeFee:         tradeFee,
		OwnerFee:         ownerFee,
		PriceImpact:      priceImpact,
	}, nil
}

// GetMaxSwapOutAmount is the most of outTokenMint a single swap may
// yield: the reserve minus the one-unit floor that keeps a side from
// ever being fully drained.
func (s *PoolSnapshot) GetMaxSwapOutAmount(outTokenMint solana.PublicKey) (*big.Int, error) {
	var reserveOut *big.Int
	switch {
	case outTokenMint.Equals(s.State.TokenAMint):
		reserveOut = s.TokenAAmount
	case outTokenMint.Equals(s.State.TokenBMint):
		reserveOut = s.TokenBAmount
	default:
		return nil, fmt.Errorf("%w: mint %s does not belong to the pool pair", curve.ErrInvalidInput, outTokenMint)
	}

	maxOut, err := dammath.Sub(reserveOut, maxSwapOutFloor)
	if err != nil {
		return big.NewInt(0), nil
	}
	return maxOut, nil
}

// GetMaxSwapInAmount estimates the most of inTokenMint a single swap can
// absorb: the inverse-curve input for the max output, net of trading and
// owner fees which are charged on input. An estimate, not an exact
// bound.
func (s *PoolSnapshot) GetMaxSwapInAmount(inTokenMint solana.PublicKey) (*big.Int, error) {
	direction, reserveIn, reserveOut, err := s.tradeDirection(inTokenMint)
	if err != nil {
		return nil, err
	}
	maxOut, err := dammath.Sub(reserveOut, maxSwapOutFloor)
	if err != nil || maxOut.Sign() == 0 {
		return big.NewInt(0), nil
	}

	estimate, err := s.Curve.ComputeInAmount(maxOut, reserveIn, reserveOut, direction)
	if err != nil {
		return nil, err
	}
	tradeFee, err := s.Fees.TradingFee(estimate)
	if err != nil {
		return nil, err
	}
	ownerFee, err := s.Fees.OwnerTradingFee(estimate)
	if err != nil {
		return nil, err
	}
	maxIn, err := dammath.Sub(estimate, dammath.Add(tradeFee, ownerFee))
	if err != nil {
		return big.NewInt(0), nil
	}
	return maxIn, nil
}

func (m *Amm) GetSwapQuote(inTokenMint solana.PublicKey, inAmount *big.Int, slippageBps uint64) (*SwapQuote, error) {
	s, err := m.snapshotOrErr()
	if err != nil {
		return nil, err
	}
	quote, err := s.GetSwapQuote(inTokenMint, inAmount, slippageBps)
	if err != nil {
		return nil, err
	}
	m.logger.Debug("swap quote",
		zap.String("pool", m.address.String()),
		zap.String("in_mint", inTokenMint.String()),
		zap.String("in_amount", inAmount.String()),
		zap.String("out_amount", quote.SwapOutAmount.String()),
		zap.String("min_out_amount", quote.MinSwapOutAmount.String()),
	)
	return quote, nil
}

func (m *Amm) GetMaxSwapOutAmount(outTokenMint solana.PublicKey) (*big.Int, error) {
	s, err := m.snapshotOrErr()
	if err != nil {
		return nil, err
	}
	return s.GetMaxSwapOutAmount(outTokenMint)
}

func (m *Amm) GetMaxSwapInAmount(inTokenMint solana.PublicKey) (*big.Int, error) {
	s, err := m.snapshotOrErr()
	if err != nil {
		return nil, err
	}
	return s.GetMaxSwapInAmount(inTokenMint)
}
