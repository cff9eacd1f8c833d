package curve

import (
	"math/big"
	"testing"
)

func stableNoDepeg(amp uint64) *StableCurve {
	return &StableCurve{Amp: amp, TokenAMultiplier: 1, TokenBMultiplier: 1}
}

func TestStableComputeDBalanced(t *testing.T) {
	c := stableNoDepeg(100)
	d, err := c.ComputeD(big.NewInt(1_000_000), big.NewInt(1_000_000))
	if err != nil {
		t.Fatal(err)
	}
	// at perfect balance the invariant equals the sum
	if d.Int64() != 2_000_000 {
		t.Fatalf("got %v want 2000000", d)
	}
}

func TestStableComputeDZero(t *testing.T) {
	c := stableNoDepeg(100)
	d, err := c.ComputeD(big.NewInt(0), big.NewInt(0))
	if err != nil {
		t.Fatal(err)
	}
	if d.Sign() != 0 {
		t.Fatalf("got %v want 0", d)
	}
}

func TestStableOutAmountNearPeg(t *testing.T) {
	c := stableNoDepeg(100)
	out, err := c.ComputeOutAmount(big.NewInt(10_000), big.NewInt(1_000_000), big.NewInt(1_000_000), TradeDirectionAtoB)
	if err != nil {
		t.Fatal(err)
	}
	// amplification keeps a balanced stable pool near 1:1, so the
	// output beats constant product (9,900) but never reaches par
	if out.Int64() <= 9_900 || out.Int64() >= 10_000 {
		t.Fatalf("got %v want within (9900, 10000)", out)
	}
}

func TestStableOutAmountNeverReachesPar(t *testing.T) {
	c := stableNoDepeg(100)
	reserve := big.NewInt(1_000_000)

	// the solved out-side balance rounds up, so the quote stays strictly
	// below a 1:1 fill for any size on a balanced pool
	for _, amountIn := range []int64{1, 10, 1_000, 10_000, 250_000} {
		out, err := c.ComputeOutAmount(big.NewInt(amountIn), reserve, reserve, TradeDirectionAtoB)
		if err != nil {
			t.Fatal(err)
		}
		if out.Cmp(big.NewInt(amountIn)) >= 0 {
			t.Fatalf("amountIn=%d: out=%v quoted at or above par", amountIn, out)
		}
	}
}

func TestStableOutAmountWithMultipliers(t *testing.T) {
	// token A carries 3 fewer decimals than token B
	c := &StableCurve{Amp: 100, TokenAMultiplier: 1_000, TokenBMultiplier: 1}
	out, err := c.ComputeOutAmount(big.NewInt(1_000), big.NewInt(1_000_000), big.NewInt(1_000_000_000), TradeDirectionAtoB)
	if err != nil {
		t.Fatal(err)
	}
	// 1,000 A-units are worth 1,000,000 B-units at peg
	if out.Int64() <= 990_000 || out.Int64() >= 1_000_000 {
		t.Fatalf("got %v want within (990000, 1000000)", out)
	}
}

func TestStableInAmountCoversOut(t *testing.T) {
	c := stableNoDepeg(60)
	reserveIn := big.NewInt(1_000_000)
	reserveOut := big.NewInt(900_000)
	target := big.NewInt(50_000)

	in, err := c.ComputeInAmount(target, reserveIn, reserveOut, TradeDirectionAtoB)
	if err != nil {
		t.Fatal(err)
	}
	// B is the scarcer side, so it costs more than one A per unit
	if in.Cmp(target) <= 0 {
		t.Fatalf("in=%v should exceed target=%v on an imbalanced pool", in, target)
	}

	// the inverse is documented as an estimate; feeding it forward must
	// land within rounding distance of the target
	out, err := c.ComputeOutAmount(in, reserveIn, reserveOut, TradeDirectionAtoB)
	if err != nil {
		t.Fatal(err)
	}
	diff := new(big.Int).Sub(out, target)
	if diff.CmpAbs(big.NewInt(2)) > 0 {
		t.Fatalf("estimate drifts: in=%v out=%v target=%v", in, out, target)
	}
}

func TestStableImbalanceDeposit(t *testing.T) {
	c := stableNoDepeg(100)
	fees := Fees{TradeFeeNumerator: 25, TradeFeeDenominator: 10_000, OwnerTradeFeeDenominator: 10_000}

	minted, err := c.ComputeImbalanceDeposit(
		big.NewInt(10_000), big.NewInt(0),
		big.NewInt(1_000_000), big.NewInt(1_000_000),
		big.NewInt(2_000_000), fees,
	)
	if err != nil {
		t.Fatal(err)
	}
	// single-sided deposit mints less than face value: slippage away
	// from the ratio plus the imbalance fee
	if minted.Int64() <= 0 || minted.Int64() >= 10_000 {
		t.Fatalf("got %v want within (0, 10000)", minted)
	}

	// the same value deposited perfectly balanced mints strictly more
	balanced, err := c.ComputeImbalanceDeposit(
		big.NewInt(5_000), big.NewInt(5_000),
		big.NewInt(1_000_000), big.NewInt(1_000_000),
		big.NewInt(2_000_000), fees,
	)
	if err != nil {
		t.Fatal(err)
	}
	if balanced.Cmp(minted) <= 0 {
		t.Fatalf("balanced mint %v should exceed imbalanced mint %v", balanced, minted)
	}
}

func TestStableWithdrawOne(t *testing.T) {
	c := stableNoDepeg(100)
	fees := Fees{TradeFeeNumerator: 25, TradeFeeDenominator: 10_000, OwnerTradeFeeDenominator: 10_000}

	out, err := c.ComputeWithdrawOne(
		big.NewInt(100_000), big.NewInt(2_000_000),
		big.NewInt(1_000_000), big.NewInt(1_000_000),
		fees, TradeDirectionAtoB,
	)
	if err != nil {
		t.Fatal(err)
	}
	// near peg the single-sided exit loses only fee plus a little
	// curve slippage against the 100k balanced value
	if out.Int64() <= 99_000 || out.Int64() >= 100_000 {
		t.Fatalf("got %v want within (99000, 100000)", out)
	}

	if _, err = c.ComputeWithdrawOne(big.NewInt(3_000_000), big.NewInt(2_000_000), big.NewInt(1_000_000), big.NewInt(1_000_000), fees, TradeDirectionAtoB); err == nil {
		t.Fatal("expected rejection when burning more than the supply")
	}
}

func TestDepegDetection(t *testing.T) {
	c := stableNoDepeg(100)
	if c.IsDepegged(big.NewInt(50), big.NewInt(50)) {
		t.Fatal("balanced pool misclassified as depegged")
	}
	if !c.IsDepegged(big.NewInt(96), big.NewInt(4)) {
		t.Fatal("96% concentration not classified as depegged")
	}
	if c.IsDepegged(big.NewInt(0), big.NewInt(0)) {
		t.Fatal("empty pool cannot be depegged")
	}
}

func TestRemainingAccounts(t *testing.T) {
	if got := (ConstantProductCurve{}).RemainingAccounts(); got != nil {
		t.Fatalf("constant product: got %v want nil", got)
	}
	if got := stableNoDepeg(100).RemainingAccounts(); got != nil {
		t.Fatalf("stable without depeg: got %v want nil", got)
	}

	c := &StableCurve{
		Amp:              100,
		TokenAMultiplier: 1,
		TokenBMultiplier: 1,
		Depeg: &Depeg{
			BaseVirtualPrice: 1_050_000,
			DepegType:        DepegTypeMarinade,
		},
	}
	metas := c.RemainingAccounts()
	if len(metas) != 1 || !metas[0].PublicKey.Equals(MarinadeStateAddress) {
		t.Fatalf("got %v want marinade state account", metas)
	}
}

func TestDepegBaseCacheStaleness(t *testing.T) {
	d := &Depeg{BaseVirtualPrice: 1_050_000, BaseCacheUpdated: 1_000, DepegType: DepegTypeLido}
	if d.IsStale(1_000 + BaseCacheExpiry) {
		t.Fatal("cache inside the expiry window reported stale")
	}
	if !d.IsStale(1_000 + BaseCacheExpiry + 1) {
		t.Fatal("cache past the expiry window reported fresh")
	}
}

func TestFeeCalculation(t *testing.T) {
	fees := Fees{
		TradeFeeNumerator: 25, TradeFeeDenominator: 10_000,
		OwnerTradeFeeNumerator: 5, OwnerTradeFeeDenominator: 10_000,
	}
	if err := fees.Validate(); err != nil {
		t.Fatal(err)
	}

	fee, err := fees.TradingFee(big.NewInt(10_000))
	if err != nil {
		t.Fatal(err)
	}
	if fee.Int64() != 25 {
		t.Fatalf("got %v want 25", fee)
	}

	owner, err := fees.OwnerTradingFee(big.NewInt(10_000))
	if err != nil {
		t.Fatal(err)
	}
	if owner.Int64() != 5 {
		t.Fatalf("got %v want 5", owner)
	}

	// truncated-to-zero fees collect the minimum unit
	dust, err := fees.TradingFee(big.NewInt(10))
	if err != nil {
		t.Fatal(err)
	}
	if dust.Int64() != 1 {
		t.Fatalf("got %v want 1", dust)
	}

	bad := Fees{TradeFeeNumerator: 2, TradeFeeDenominator: 1, OwnerTradeFeeDenominator: 1}
	if err = bad.Validate(); err == nil {
		t.Fatal("expected validation failure for numerator > denominator")
	}
}
