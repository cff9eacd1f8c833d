package curve

import (
	"math/big"
	"testing"
)

func TestConstantProductOutAmount(t *testing.T) {
	cp := ConstantProductCurve{}

	// 1,000,000 / 1,000,000 reserves, swap in 10,000:
	// out = 1,000,000 - ceil(1e12 / 1,010,000) = 9,900
	out, err := cp.ComputeOutAmount(big.NewInt(10_000), big.NewInt(1_000_000), big.NewInt(1_000_000), TradeDirectionAtoB)
	if err != nil {
		t.Fatal(err)
	}
	if out.Int64() != 9_900 {
		t.Fatalf("got %v want 9900", out)
	}
}

func TestConstantProductNeverDrains(t *testing.T) {
	cp := ConstantProductCurve{}
	reserveIn := big.NewInt(5_000)
	reserveOut := big.NewInt(3_000)

	for _, amountIn := range []int64{1, 100, 4_999, 1_000_000_000} {
		out, err := cp.ComputeOutAmount(big.NewInt(amountIn), reserveIn, reserveOut, TradeDirectionAtoB)
		if err != nil {
			t.Fatal(err)
		}
		if out.Sign() < 0 || out.Cmp(reserveOut) >= 0 {
			t.Fatalf("amountIn=%d: out=%v escapes (0, reserveOut)", amountIn, out)
		}
	}
}

func TestConstantProductInAmount(t *testing.T) {
	cp := ConstantProductCurve{}
	reserveIn := big.NewInt(1_000_000)
	reserveOut := big.NewInt(1_000_000)

	in, err := cp.ComputeInAmount(big.NewInt(9_900), reserveIn, reserveOut, TradeDirectionAtoB)
	if err != nil {
		t.Fatal(err)
	}
	// feeding the estimated input back must yield at least the target
	out, err := cp.ComputeOutAmount(in, reserveIn, reserveOut, TradeDirectionAtoB)
	if err != nil {
		t.Fatal(err)
	}
	if out.Int64() < 9_900 {
		t.Fatalf("estimate under-supplies: in=%v out=%v", in, out)
	}

	if _, err = cp.ComputeInAmount(reserveOut, reserveIn, reserveOut, TradeDirectionAtoB); err == nil {
		t.Fatal("expected error when out amount drains the reserve")
	}
}

func TestConstantProductD(t *testing.T) {
	cp := ConstantProductCurve{}
	d, err := cp.ComputeD(big.NewInt(4_000_000), big.NewInt(1_000_000))
	if err != nil {
		t.Fatal(err)
	}
	if d.Int64() != 2_000_000 {
		t.Fatalf("got %v want 2000000", d)
	}
}

func TestConstantProductRejectsImbalanceDeposit(t *testing.T) {
	cp := ConstantProductCurve{}
	_, err := cp.ComputeImbalanceDeposit(
		big.NewInt(10), big.NewInt(20),
		big.NewInt(1_000), big.NewInt(1_000),
		big.NewInt(1_000), Fees{TradeFeeDenominator: 1, OwnerTradeFeeDenominator: 1},
	)
	if err == nil {
		t.Fatal("expected imbalanced deposit rejection")
	}
}

func TestConstantProductWithdrawOne(t *testing.T) {
	cp := ConstantProductCurve{}
	fees := Fees{TradeFeeNumerator: 25, TradeFeeDenominator: 10_000, OwnerTradeFeeDenominator: 10_000}

	out, err := cp.ComputeWithdrawOne(
		big.NewInt(100_000), big.NewInt(2_000_000),
		big.NewInt(1_000_000), big.NewInt(1_000_000),
		fees, TradeDirectionAtoB,
	)
	if err != nil {
		t.Fatal(err)
	}
	// balanced value of the burn is 50k + 50k; the internal swap leg
	// pays fee and slippage, so strictly less than 100k comes out
	if out.Int64() <= 50_000 || out.Int64() >= 100_000 {
		t.Fatalf("got %v want within (50000, 100000)", out)
	}

	zero, err := cp.ComputeWithdrawOne(big.NewInt(0), big.NewInt(2_000_000), big.NewInt(1_000_000), big.NewInt(1_000_000), fees, TradeDirectionAtoB)
	if err != nil {
		t.Fatal(err)
	}
	if zero.Sign() != 0 {
		t.Fatalf("zero burn: got %v want 0", zero)
	}
}
