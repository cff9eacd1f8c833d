package curve

import (
	"fmt"
	"math/big"

	"github.com/gagliardetto/solana-go"
	"github.com/krazyTry/dynamic-amm-go/dammath"
)

// ConstantProductCurve prices trades on x * y = k. Two-sided deposits
// into a live pool must be exactly balanced, so it rejects
// ComputeImbalanceDeposit outright.
type ConstantProductCurve struct{}

var _ SwapCurve = ConstantProductCurve{}

// ComputeOutAmount applies
// amountOut = reserveOut - reserveIn * reserveOut / (reserveIn + amountIn),
// rounding the surviving reserve up so the pool is never over-paid out.
// The output is strictly below reserveOut.
func (ConstantProductCurve) ComputeOutAmount(amountIn, reserveIn, reserveOut *big.Int, _ TradeDirection) (*big.Int, error) {
	if reserveIn.Sign() == 0 || reserveOut.Sign() == 0 {
		return big.NewInt(0), nil
	}

	newReserveIn := dammath.Add(reserveIn, amountIn)
	newReserveOut, err := dammath.MulDiv(reserveIn, reserveOut, newReserveIn, dammath.RoundUp)
	if err != nil {
		return nil, err
	}
	return dammath.Sub(reserveOut, newReserveOut)
}

// ComputeInAmount inverts ComputeOutAmount, rounding up so the caller
// never under-supplies. Estimate only.
func (ConstantProductCurve) ComputeInAmount(amountOut, reserveIn, reserveOut *big.Int, _ TradeDirection) (*big.Int, error) {
	if amountOut.Cmp(reserveOut) >= 0 {
		return nil, fmt.Errorf("%w: out amount would drain the reserve", ErrInvalidInput)
	}
	newReserveOut, err := dammath.Sub(reserveOut, amountOut)
	if err != nil {
		return nil, err
	}
	newReserveIn, err := dammath.MulDiv(reserveIn, reserveOut, newReserveOut, dammath.RoundUp)
	if err != nil {
		return nil, err
	}
	return dammath.Sub(newReserveIn, reserveIn)
}

// ComputeD is the geometric mean of the reserves; the very first deposit
// mints exactly this amount.
func (ConstantProductCurve) ComputeD(amountA, amountB *big.Int) (*big.Int, error) {
	return dammath.Sqrt(dammath.Mul(amountA, amountB)), nil
}

func (ConstantProductCurve) ComputeImbalanceDeposit(_, _, _, _, _ *big.Int, _ Fees) (*big.Int, error) {
	return nil, fmt.Errorf("%w: constant product pools only accept balanced deposits", ErrInvalidInput)
}

func (c ConstantProductCurve) ComputeWithdrawOne(lpAmount, lpSupply, poolA, poolB *big.Int, fees Fees, direction TradeDirection) (*big.Int, error) {
	return computeWithdrawOne(c, lpAmount, lpSupply, poolA, poolB, fees, direction)
}

func (ConstantProductCurve) RemainingAccounts() []*solana.AccountMeta {
	return nil
}
