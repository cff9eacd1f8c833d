package damm

import (
	"math/big"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/require"

	"github.com/krazyTry/dynamic-amm-go/damm/curve"
)

func TestWithdrawQuoteBalanced(t *testing.T) {
	s := constantProductSnapshot(1_000_000, 500_000, 1_000_000, noFees())

	quote, err := s.GetWithdrawQuote(bi(10_000), zeroKey, 50)
	require.NoError(t, err)
	require.Equal(t, bi(10_000), quote.TokenAOutAmount)
	require.Equal(t, bi(5_000), quote.TokenBOutAmount)
	// 10000 * 9950 / 10000 and 5000 * 9950 / 10000
	require.Equal(t, bi(9_950), quote.MinTokenAOutAmount)
	require.Equal(t, bi(4_975), quote.MinTokenBOutAmount)
}

func TestWithdrawQuoteZeroShares(t *testing.T) {
	s := constantProductSnapshot(1_000_000, 1_000_000, 1_000_000, noFees())

	balanced, err := s.GetWithdrawQuote(bi(0), zeroKey, 0)
	require.NoError(t, err)
	require.Equal(t, bi(0), balanced.TokenAOutAmount)
	require.Equal(t, bi(0), balanced.TokenBOutAmount)
	require.Equal(t, bi(0), balanced.MinTokenAOutAmount)
	require.Equal(t, bi(0), balanced.MinTokenBOutAmount)

	single, err := s.GetWithdrawQuote(bi(0), testTokenBMint, 0)
	require.NoError(t, err)
	require.Equal(t, bi(0), single.TokenAOutAmount)
	require.Equal(t, bi(0), single.TokenBOutAmount)
	require.Equal(t, bi(0), single.MinTokenAOutAmount)
	require.Equal(t, bi(0), single.MinTokenBOutAmount)
}

func TestWithdrawQuoteExceedsSupply(t *testing.T) {
	s := constantProductSnapshot(1_000_000, 1_000_000, 1_000_000, noFees())

	_, err := s.GetWithdrawQuote(bi(1_000_001), zeroKey, 0)
	require.ErrorIs(t, err, curve.ErrInvalidInput)
}

func TestWithdrawQuoteSingleSidedConstantProduct(t *testing.T) {
	s := constantProductSnapshot(1_000_000, 1_000_000, 1_000_000, noFees())

	quote, err := s.GetWithdrawQuote(bi(10_000), testTokenBMint, 0)
	require.NoError(t, err)
	require.Equal(t, bi(0), quote.TokenAOutAmount)
	// the balanced B share plus the A share swapped through the pool,
	// worth less than the naive doubling
	require.True(t, quote.TokenBOutAmount.Cmp(bi(10_000)) > 0)
	require.True(t, quote.TokenBOutAmount.Cmp(bi(20_000)) < 0)
}

func TestWithdrawQuoteSingleSidedStable(t *testing.T) {
	s := stableSnapshot(100, 1_000_000, 1_000_000, 1_000_000, noFees())

	quote, err := s.GetWithdrawQuote(bi(10_000), testTokenAMint, 0)
	require.NoError(t, err)
	require.Equal(t, bi(0), quote.TokenBOutAmount)
	require.True(t, quote.TokenAOutAmount.Sign() > 0)

	// near the peg the amplified swap leg loses less than constant
	// product does
	cp := constantProductSnapshot(1_000_000, 1_000_000, 1_000_000, noFees())
	cpQuote, err := cp.GetWithdrawQuote(bi(10_000), testTokenAMint, 0)
	require.NoError(t, err)
	require.True(t, quote.TokenAOutAmount.Cmp(cpQuote.TokenAOutAmount) >= 0)
}

func TestWithdrawQuoteForeignMint(t *testing.T) {
	s := constantProductSnapshot(1_000_000, 1_000_000, 1_000_000, noFees())

	_, err := s.GetWithdrawQuote(bi(10_000), solana.NewWallet().PublicKey(), 0)
	require.ErrorIs(t, err, curve.ErrInvalidInput)
}

func TestWithdrawQuoteVaultSharePriceApplied(t *testing.T) {
	// vault shares worth 2 tokens each: withdrawable double the supply
	state := &PoolState{
		Enabled:    1,
		LpMint:     solana.NewWallet().PublicKey(),
		TokenAMint: testTokenAMint,
		TokenBMint: testTokenBMint,
		Fees:       noFees(),
		CurveType:  CurveType{Enum: 0},
	}
	reserves := ReserveSnapshot{
		CurrentTime:        1_700_000_000,
		PoolVaultALp:       big.NewInt(500_000),
		PoolVaultBLp:       big.NewInt(500_000),
		VaultALpSupply:     big.NewInt(500_000),
		VaultBLpSupply:     big.NewInt(500_000),
		VaultAWithdrawable: big.NewInt(1_000_000),
		VaultBWithdrawable: big.NewInt(1_000_000),
		LpSupply:           big.NewInt(1_000_000),
	}
	s := NewPoolSnapshot(state, reserves)
	require.Equal(t, bi(1_000_000), s.TokenAAmount)

	quote, err := s.GetWithdrawQuote(bi(10_000), zeroKey, 0)
	require.NoError(t, err)
	// 10000 lp -> 5000 vault shares -> 10000 tokens
	require.Equal(t, bi(10_000), quote.TokenAOutAmount)
	require.Equal(t, bi(10_000), quote.TokenBOutAmount)
}
