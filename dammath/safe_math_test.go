package dammath

import (
	"math"
	"math/big"
	"testing"
)

func TestMulDivRounding(t *testing.T) {
	down, err := MulDiv(big.NewInt(10), big.NewInt(10), big.NewInt(3), RoundDown)
	if err != nil {
		t.Fatal(err)
	}
	if down.Int64() != 33 {
		t.Fatalf("round down: got %v want 33", down)
	}

	up, err := MulDiv(big.NewInt(10), big.NewInt(10), big.NewInt(3), RoundUp)
	if err != nil {
		t.Fatal(err)
	}
	if up.Int64() != 34 {
		t.Fatalf("round up: got %v want 34", up)
	}

	// exact division rounds the same both ways
	exact, _ := MulDiv(big.NewInt(6), big.NewInt(4), big.NewInt(8), RoundUp)
	if exact.Int64() != 3 {
		t.Fatalf("exact: got %v want 3", exact)
	}
}

func TestMulDivZeroDenominator(t *testing.T) {
	if _, err := MulDiv(big.NewInt(1), big.NewInt(1), big.NewInt(0), RoundDown); err != ErrMathOverflow {
		t.Fatalf("expected ErrMathOverflow, got %v", err)
	}
}

func TestMulDivBeyondU64(t *testing.T) {
	// u64max * u64max / 1 must survive in the safe domain
	u64max := new(big.Int).SetUint64(math.MaxUint64)
	out, err := MulDiv(u64max, u64max, big.NewInt(1), RoundDown)
	if err != nil {
		t.Fatal(err)
	}
	want := new(big.Int).Mul(u64max, u64max)
	if out.Cmp(want) != 0 {
		t.Fatalf("got %v want %v", out, want)
	}
	if _, err = ToU64(out); err != ErrMathOverflow {
		t.Fatalf("expected overflow narrowing to u64, got %v", err)
	}
}

func TestSub(t *testing.T) {
	if _, err := Sub(big.NewInt(1), big.NewInt(2)); err != ErrMathOverflow {
		t.Fatalf("expected ErrMathOverflow, got %v", err)
	}
	out, err := Sub(big.NewInt(5), big.NewInt(2))
	if err != nil {
		t.Fatal(err)
	}
	if out.Int64() != 3 {
		t.Fatalf("got %v want 3", out)
	}
}

func TestSqrt(t *testing.T) {
	if got := Sqrt(big.NewInt(1_000_000_000_000)); got.Int64() != 1_000_000 {
		t.Fatalf("got %v want 1000000", got)
	}
	if got := Sqrt(big.NewInt(99)); got.Int64() != 9 {
		t.Fatalf("got %v want 9", got)
	}
}
