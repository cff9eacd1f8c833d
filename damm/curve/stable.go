package curve

import (
	"fmt"
	"math/big"

	"github.com/gagliardetto/solana-go"
	"github.com/krazyTry/dynamic-amm-go/dammath"
	"github.com/shopspring/decimal"
)

// Depeg carries the oracle-derived virtual price of a staked base token.
// The staked token occupies the A side of a depeg pool.
type Depeg struct {
	// BaseVirtualPrice is the cached staked-token price in
	// BaseVirtualPricePrecision units of the peg asset.
	BaseVirtualPrice uint64
	// BaseCacheUpdated is the unix time the cache was refreshed.
	BaseCacheUpdated uint64
	DepegType        DepegType
	// BaseStateAccount is the SPL stake pool state; marinade and lido
	// use their fixed state addresses instead.
	BaseStateAccount solana.PublicKey
}

func (d *Depeg) active() bool {
	return d != nil && d.DepegType != DepegTypeNone
}

// IsStale reports whether the cached base virtual price has outlived
// BaseCacheExpiry and must be re-read before submission.
func (d *Depeg) IsStale(currentTime uint64) bool {
	if !d.active() {
		return false
	}
	return currentTime > d.BaseCacheUpdated+BaseCacheExpiry
}

// StableCurve prices trades on the amplified constant-sum/constant-
// product hybrid. Reserves are normalized through the token multipliers
// (and the depeg base virtual price when present) before any solve.
type StableCurve struct {
	Amp              uint64
	TokenAMultiplier uint64
	TokenBMultiplier uint64
	Depeg            *Depeg
}

var _ SwapCurve = (*StableCurve)(nil)

func (c *StableCurve) upscaleA(amount *big.Int) (*big.Int, error) {
	out := dammath.Mul(amount, dammath.FromU64(c.TokenAMultiplier))
	if c.Depeg.active() {
		return dammath.MulDiv(out, dammath.FromU64(c.Depeg.BaseVirtualPrice), BaseVirtualPricePrecision, dammath.RoundDown)
	}
	return out, nil
}

func (c *StableCurve) downscaleA(amount *big.Int, round dammath.Rounding) (*big.Int, error) {
	if c.Depeg.active() {
		var err error
		amount, err = dammath.MulDiv(amount, BaseVirtualPricePrecision, dammath.FromU64(c.Depeg.BaseVirtualPrice), round)
		if err != nil {
			return nil, err
		}
	}
	return dammath.Div(amount, dammath.FromU64(c.TokenAMultiplier), round)
}

func (c *StableCurve) upscaleB(amount *big.Int) (*big.Int, error) {
	return dammath.Mul(amount, dammath.FromU64(c.TokenBMultiplier)), nil
}

func (c *StableCurve) downscaleB(amount *big.Int, round dammath.Rounding) (*big.Int, error) {
	return dammath.Div(amount, dammath.FromU64(c.TokenBMultiplier), round)
}

func (c *StableCurve) upscale(amount *big.Int, direction TradeDirection) (*big.Int, error) {
	if direction == TradeDirectionAtoB {
		return c.upscaleA(amount)
	}
	return c.upscaleB(amount)
}

// computeD solves the invariant by fixed-point iteration:
// Ann*S + D_p*n = D * (Ann-1 + (n+1)*D_p/D), n = 2 tokens.
func (c *StableCurve) computeD(normA, normB *big.Int) (*big.Int, error) {
	s := dammath.Add(normA, normB)
	if s.Sign() == 0 {
		return big.NewInt(0), nil
	}

	two := big.NewInt(2)
	three := big.NewInt(3)
	leverage := dammath.Mul(dammath.FromU64(c.Amp), two)

	d := new(big.Int).Set(s)
	for i := 0; i < MaxCurveIterations; i++ {
		// dP = D^3 / (4 * normA * normB)
		dP := new(big.Int).Set(d)
		dP, err := dammath.MulDiv(dP, d, dammath.Mul(normA, two), dammath.RoundDown)
		if err != nil {
			return nil, err
		}
		dP, err = dammath.MulDiv(dP, d, dammath.Mul(normB, two), dammath.RoundDown)
		if err != nil {
			return nil, err
		}

		prevD := new(big.Int).Set(d)

		numerator := dammath.Mul(dammath.Add(dammath.Mul(leverage, s), dammath.Mul(dP, two)), d)
		denominator := dammath.Add(
			dammath.Mul(new(big.Int).Sub(leverage, big.NewInt(1)), d),
			dammath.Mul(dP, three),
		)
		d, err = dammath.Div(numerator, denominator, dammath.RoundDown)
		if err != nil {
			return nil, err
		}

		if new(big.Int).Sub(d, prevD).CmpAbs(big.NewInt(1)) <= 0 {
			return d, nil
		}
	}
	return nil, ErrConvergence
}

// computeY solves the post-trade balance of the out side given the new
// in-side balance x and the invariant d.
func (c *StableCurve) computeY(x, d *big.Int) (*big.Int, error) {
	if x.Sign() == 0 {
		return nil, fmt.Errorf("%w: empty in-side reserve", ErrInvalidInput)
	}

	two := big.NewInt(2)
	leverage := dammath.Mul(dammath.FromU64(c.Amp), two)

	// c_ = d^3 / (4 * x * leverage), b = x + d / leverage
	cNum := dammath.Mul(dammath.Mul(d, d), d)
	cDen := dammath.Mul(dammath.Mul(big.NewInt(4), x), leverage)
	cTerm, err := dammath.Div(cNum, cDen, dammath.RoundDown)
	if err != nil {
		return nil, err
	}
	dDivLev, err := dammath.Div(d, leverage, dammath.RoundDown)
	if err != nil {
		return nil, err
	}
	b := dammath.Add(x, dDivLev)

	y := new(big.Int).Set(d)
	for i := 0; i < MaxCurveIterations; i++ {
		prevY := new(big.Int).Set(y)

		// y = (y^2 + c) / (2y + b - d), ceiling: the balance the pool
		// keeps rounds against the trader
		numerator := dammath.Add(dammath.Mul(y, y), cTerm)
		denominator := new(big.Int).Sub(dammath.Add(dammath.Mul(y, two), b), d)
		if denominator.Sign() <= 0 {
			return nil, ErrConvergence
		}
		y, err = dammath.Div(numerator, denominator, dammath.RoundUp)
		if err != nil {
			return nil, err
		}

		if new(big.Int).Sub(y, prevY).CmpAbs(big.NewInt(1)) <= 0 {
			return y, nil
		}
	}
	return nil, ErrConvergence
}

func (c *StableCurve) ComputeOutAmount(amountIn, reserveIn, reserveOut *big.Int, direction TradeDirection) (*big.Int, error) {
	if amountIn.Sign() == 0 || reserveIn.Sign() == 0 || reserveOut.Sign() == 0 {
		return big.NewInt(0), nil
	}

	normIn, err := c.upscale(reserveIn, direction)
	if err != nil {
		return nil, err
	}
	outDirection := oppositeDirection(direction)
	normOut, err := c.upscale(reserveOut, outDirection)
	if err != nil {
		return nil, err
	}
	normAmount, err := c.upscale(amountIn, direction)
	if err != nil {
		return nil, err
	}

	d, err := c.computeD(normIn, normOut)
	if err != nil {
		return nil, err
	}
	y, err := c.computeY(dammath.Add(normIn, normAmount), d)
	if err != nil {
		return nil, err
	}
	normResult, err := dammath.Sub(normOut, y)
	if err != nil {
		// the solve landed within rounding distance of the old balance
		return big.NewInt(0), nil
	}

	if outDirection == TradeDirectionAtoB {
		return c.downscaleA(normResult, dammath.RoundDown)
	}
	return c.downscaleB(normResult, dammath.RoundDown)
}

func (c *StableCurve) ComputeInAmount(amountOut, reserveIn, reserveOut *big.Int, direction TradeDirection) (*big.Int, error) {
	if amountOut.Cmp(reserveOut) >= 0 {
		return nil, fmt.Errorf("%w: out amount would drain the reserve", ErrInvalidInput)
	}

	normIn, err := c.upscale(reserveIn, direction)
	if err != nil {
		return nil, err
	}
	outDirection := oppositeDirection(direction)
	normOut, err := c.upscale(reserveOut, outDirection)
	if err != nil {
		return nil, err
	}
	normAmount, err := c.upscale(amountOut, outDirection)
	if err != nil {
		return nil, err
	}

	d, err := c.computeD(normIn, normOut)
	if err != nil {
		return nil, err
	}
	newOut, err := dammath.Sub(normOut, normAmount)
	if err != nil {
		return nil, err
	}
	x, err := c.computeY(newOut, d)
	if err != nil {
		return nil, err
	}
	normResult, err := dammath.Sub(x, normIn)
	if err != nil {
		return nil, err
	}

	if direction == TradeDirectionAtoB {
		return c.downscaleA(normResult, dammath.RoundUp)
	}
	return c.downscaleB(normResult, dammath.RoundUp)
}

func (c *StableCurve) ComputeD(amountA, amountB *big.Int) (*big.Int, error) {
	normA, err := c.upscaleA(amountA)
	if err != nil {
		return nil, err
	}
	normB, err := c.upscaleB(amountB)
	if err != nil {
		return nil, err
	}
	return c.computeD(normA, normB)
}

// ComputeImbalanceDeposit values the deposit against the pre-deposit
// ratio and charges the imbalance fee on each side's deviation before
// minting: mint = lpSupply * (D2 - D0) / D0.
func (c *StableCurve) ComputeImbalanceDeposit(depositA, depositB, poolA, poolB, lpSupply *big.Int, fees Fees) (*big.Int, error) {
	if lpSupply.Sign() == 0 {
		return big.NewInt(0), nil
	}

	normPoolA, err := c.upscaleA(poolA)
	if err != nil {
		return nil, err
	}
	normPoolB, err := c.upscaleB(poolB)
	if err != nil {
		return nil, err
	}
	normDepA, err := c.upscaleA(depositA)
	if err != nil {
		return nil, err
	}
	normDepB, err := c.upscaleB(depositB)
	if err != nil {
		return nil, err
	}

	d0, err := c.computeD(normPoolA, normPoolB)
	if err != nil {
		return nil, err
	}
	if d0.Sign() == 0 {
		return big.NewInt(0), nil
	}

	newA := dammath.Add(normPoolA, normDepA)
	newB := dammath.Add(normPoolB, normDepB)
	d1, err := c.computeD(newA, newB)
	if err != nil {
		return nil, err
	}

	adjust := func(newBalance, oldBalance *big.Int) (*big.Int, error) {
		ideal, err := dammath.MulDiv(d1, oldBalance, d0, dammath.RoundDown)
		if err != nil {
			return nil, err
		}
		diff := new(big.Int).Sub(newBalance, ideal)
		diff.Abs(diff)
		fee, err := fees.ImbalanceFee(diff)
		if err != nil {
			return nil, err
		}
		return dammath.Sub(newBalance, fee)
	}

	adjA, err := adjust(newA, normPoolA)
	if err != nil {
		return nil, err
	}
	adjB, err := adjust(newB, normPoolB)
	if err != nil {
		return nil, err
	}

	d2, err := c.computeD(adjA, adjB)
	if err != nil {
		return nil, err
	}
	growth, err := dammath.Sub(d2, d0)
	if err != nil {
		// the fee ate the whole deposit
		return big.NewInt(0), nil
	}
	return dammath.MulDiv(lpSupply, growth, d0, dammath.RoundDown)
}

func (c *StableCurve) ComputeWithdrawOne(lpAmount, lpSupply, poolA, poolB *big.Int, fees Fees, direction TradeDirection) (*big.Int, error) {
	return computeWithdrawOne(c, lpAmount, lpSupply, poolA, poolB, fees, direction)
}

// IdealOutAmount converts amountIn to the out token at the multiplier
// peg, ignoring curve slippage. Price-impact benchmark only.
func (c *StableCurve) IdealOutAmount(amountIn *big.Int, direction TradeDirection) (*big.Int, error) {
	norm, err := c.upscale(amountIn, direction)
	if err != nil {
		return nil, err
	}
	if direction == TradeDirectionAtoB {
		return c.downscaleB(norm, dammath.RoundDown)
	}
	return c.downscaleA(norm, dammath.RoundDown)
}

// IsDepegged reports whether either side holds more than the
// concentration threshold of the pool's normalized value. Derived, never
// stored.
func (c *StableCurve) IsDepegged(poolA, poolB *big.Int) bool {
	normA, err := c.upscaleA(poolA)
	if err != nil {
		return false
	}
	normB, err := c.upscaleB(poolB)
	if err != nil {
		return false
	}
	total := dammath.Add(normA, normB)
	if total.Sign() == 0 {
		return false
	}

	ratioA := decimal.NewFromBigInt(normA, 0).Div(decimal.NewFromBigInt(total, 0))
	ratioB := decimal.NewFromBigInt(normB, 0).Div(decimal.NewFromBigInt(total, 0))
	return ratioA.Cmp(DepegConcentrationThreshold) > 0 || ratioB.Cmp(DepegConcentrationThreshold) > 0
}

func (c *StableCurve) RemainingAccounts() []*solana.AccountMeta {
	if !c.Depeg.active() {
		return nil
	}
	var state solana.PublicKey
	switch c.Depeg.DepegType {
	case DepegTypeMarinade:
		state = MarinadeStateAddress
	case DepegTypeLido:
		state = LidoStateAddress
	case DepegTypeSplStake:
		state = c.Depeg.BaseStateAccount
	default:
		return nil
	}
	return []*solana.AccountMeta{
		solana.Meta(state),
	}
}

func oppositeDirection(direction TradeDirection) TradeDirection {
	if direction == TradeDirectionAtoB {
		return TradeDirectionBtoA
	}
	return TradeDirectionAtoB
}
