package curve

import (
	"fmt"
	"math/big"

	"github.com/krazyTry/dynamic-amm-go/dammath"
)

// Fees is the pool fee schedule. Trade fees stay in the pool for LPs,
// owner trade fees go to the protocol. Both are charged on input.
type Fees struct {
	TradeFeeNumerator        uint64
	TradeFeeDenominator      uint64
	OwnerTradeFeeNumerator   uint64
	OwnerTradeFeeDenominator uint64
}

func (f Fees) Validate() error {
	if f.TradeFeeDenominator == 0 || f.OwnerTradeFeeDenominator == 0 {
		return fmt.Errorf("%w: zero fee denominator", ErrInvalidInput)
	}
	if f.TradeFeeNumerator > f.TradeFeeDenominator || f.OwnerTradeFeeNumerator > f.OwnerTradeFeeDenominator {
		return fmt.Errorf("%w: fee numerator exceeds denominator", ErrInvalidInput)
	}
	return nil
}

// calculateFee floors amount * num / den but never rounds a non-zero fee
// down to nothing, so dust trades cannot be fee-free.
func calculateFee(amount *big.Int, numerator, denominator uint64) (*big.Int, error) {
	if numerator == 0 || amount.Sign() == 0 {
		return big.NewInt(0), nil
	}
	fee, err := dammath.MulDiv(amount, dammath.FromU64(numerator), dammath.FromU64(denominator), dammath.RoundDown)
	if err != nil {
		return nil, err
	}
	if fee.Sign() == 0 {
		return big.NewInt(1), nil
	}
	return fee, nil
}

// TradingFee is the LP fee charged on a swap input.
func (f Fees) TradingFee(amount *big.Int) (*big.Int, error) {
	return calculateFee(amount, f.TradeFeeNumerator, f.TradeFeeDenominator)
}

// OwnerTradingFee is the protocol fee charged on a swap input.
func (f Fees) OwnerTradingFee(amount *big.Int) (*big.Int, error) {
	return calculateFee(amount, f.OwnerTradeFeeNumerator, f.OwnerTradeFeeDenominator)
}

// ImbalanceFee prices the imbalanced portion of a deposit like half a
// swap: fee * n / (4 * (n - 1)) with n = 2 tokens.
func (f Fees) ImbalanceFee(amount *big.Int) (*big.Int, error) {
	return calculateFee(amount, f.TradeFeeNumerator, f.TradeFeeDenominator*2)
}
