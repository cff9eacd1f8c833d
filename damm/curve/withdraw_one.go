package curve

import (
	"fmt"
	"math/big"

	"github.com/krazyTry/dynamic-amm-go/dammath"
)

// computeWithdrawOne is the shared single-sided withdrawal recipe: take
// the balanced share of both sides, then swap the unwanted side into the
// target through the remaining reserves, charging the trade fee on the
// swapped portion. Economically identical to withdraw-then-swap.
func computeWithdrawOne(c SwapCurve, lpAmount, lpSupply, poolA, poolB *big.Int, fees Fees, direction TradeDirection) (*big.Int, error) {
	if lpAmount.Sign() == 0 || lpSupply.Sign() == 0 {
		return big.NewInt(0), nil
	}
	if lpAmount.Cmp(lpSupply) > 0 {
		return nil, fmt.Errorf("%w: lp amount exceeds supply", ErrInvalidInput)
	}

	balancedA, err := dammath.MulDiv(lpAmount, poolA, lpSupply, dammath.RoundDown)
	if err != nil {
		return nil, err
	}
	balancedB, err := dammath.MulDiv(lpAmount, poolB, lpSupply, dammath.RoundDown)
	if err != nil {
		return nil, err
	}

	var target, other, remainIn, remainOut *big.Int
	switch direction {
	case TradeDirectionAtoB:
		target, other = balancedB, balancedA
		remainIn, _ = dammath.Sub(poolA, balancedA)
		remainOut, _ = dammath.Sub(poolB, balancedB)
	case TradeDirectionBtoA:
		target, other = balancedA, balancedB
		remainIn, _ = dammath.Sub(poolB, balancedB)
		remainOut, _ = dammath.Sub(poolA, balancedA)
	default:
		return nil, fmt.Errorf("%w: unknown trade direction", ErrInvalidInput)
	}

	fee, err := fees.TradingFee(other)
	if err != nil {
		return nil, err
	}
	swapIn, err := dammath.Sub(other, fee)
	if err != nil {
		return nil, err
	}

	if swapIn.Sign() == 0 || remainIn.Sign() == 0 || remainOut.Sign() == 0 {
		return target, nil
	}

	swapOut, err := c.ComputeOutAmount(swapIn, remainIn, remainOut, direction)
	if err != nil {
		return nil, err
	}
	return dammath.Add(target, swapOut), nil
}
