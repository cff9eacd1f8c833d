package damm

import (
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/require"

	"github.com/krazyTry/dynamic-amm-go/damm/curve"
)

func TestSwapQuoteConstantProduct(t *testing.T) {
	s := constantProductSnapshot(1_000_000, 1_000_000, 1_000_000, noFees())

	quote, err := s.GetSwapQuote(testTokenAMint, bi(10_000), 0)
	require.NoError(t, err)
	require.Equal(t, bi(9_900), quote.SwapOutAmount)
	require.Equal(t, bi(9_900), quote.MinSwapOutAmount)
	require.Equal(t, bi(0), quote.TradeFee)
	require.Equal(t, bi(0), quote.OwnerFee)
	require.True(t, quote.PriceImpact.IsPositive())
}

func TestSwapQuoteChargesFeesOnInput(t *testing.T) {
	free := constantProductSnapshot(1_000_000, 1_000_000, 1_000_000, noFees())
	paid := constantProductSnapshot(1_000_000, 1_000_000, 1_000_000, standardFees())

	freeQuote, err := free.GetSwapQuote(testTokenAMint, bi(10_000), 0)
	require.NoError(t, err)
	paidQuote, err := paid.GetSwapQuote(testTokenAMint, bi(10_000), 0)
	require.NoError(t, err)

	// 25/10000 of 10000 = 25, 5/10000 = 5
	require.Equal(t, bi(25), paidQuote.TradeFee)
	require.Equal(t, bi(5), paidQuote.OwnerFee)
	require.True(t, paidQuote.SwapOutAmount.Cmp(freeQuote.SwapOutAmount) < 0)
}

func TestSwapQuoteDustFeeNeverFree(t *testing.T) {
	s := constantProductSnapshot(1_000_000, 1_000_000, 1_000_000, standardFees())

	// 25/10000 of 10 floors to zero, charged as 1 instead
	quote, err := s.GetSwapQuote(testTokenAMint, bi(10), 0)
	require.NoError(t, err)
	require.Equal(t, bi(1), quote.TradeFee)
	require.Equal(t, bi(1), quote.OwnerFee)
}

func TestSwapQuoteSlippageExact(t *testing.T) {
	s := constantProductSnapshot(1_000_000, 1_000_000, 1_000_000, noFees())

	quote, err := s.GetSwapQuote(testTokenAMint, bi(10_000), 100)
	require.NoError(t, err)
	// 9900 * 9900 / 10000 = 9801
	require.Equal(t, bi(9_801), quote.MinSwapOutAmount)

	_, err = s.GetSwapQuote(testTokenAMint, bi(10_000), 10_001)
	require.ErrorIs(t, err, curve.ErrInvalidInput)
}

func TestSwapQuoteForeignMint(t *testing.T) {
	s := constantProductSnapshot(1_000_000, 1_000_000, 1_000_000, noFees())

	_, err := s.GetSwapQuote(solana.NewWallet().PublicKey(), bi(10_000), 0)
	require.ErrorIs(t, err, curve.ErrInvalidInput)
}

func TestSwapQuoteInputBelowFees(t *testing.T) {
	s := constantProductSnapshot(1_000_000, 1_000_000, 1_000_000, PoolFees{
		TradeFeeNumerator:        10_000,
		TradeFeeDenominator:      10_000,
		OwnerTradeFeeNumerator:   5,
		OwnerTradeFeeDenominator: 10_000,
	})

	_, err := s.GetSwapQuote(testTokenAMint, bi(100), 0)
	require.ErrorIs(t, err, curve.ErrInvalidInput)
}

func TestSwapQuoteStableLowerImpact(t *testing.T) {
	cp := constantProductSnapshot(1_000_000, 1_000_000, 1_000_000, noFees())
	st := stableSnapshot(100, 1_000_000, 1_000_000, 1_000_000, noFees())

	cpQuote, err := cp.GetSwapQuote(testTokenAMint, bi(10_000), 0)
	require.NoError(t, err)
	stQuote, err := st.GetSwapQuote(testTokenAMint, bi(10_000), 0)
	require.NoError(t, err)

	// near the peg the amplified curve fills closer to 1:1
	require.True(t, stQuote.SwapOutAmount.Cmp(cpQuote.SwapOutAmount) > 0)
	require.True(t, stQuote.PriceImpact.LessThan(cpQuote.PriceImpact))
}

func TestMaxSwapOutAmount(t *testing.T) {
	s := constantProductSnapshot(1_000_000, 500_000, 700_000, noFees())

	maxA, err := s.GetMaxSwapOutAmount(testTokenAMint)
	require.NoError(t, err)
	require.Equal(t, bi(999_999), maxA)

	maxB, err := s.GetMaxSwapOutAmount(testTokenBMint)
	require.NoError(t, err)
	require.Equal(t, bi(499_999), maxB)

	_, err = s.GetMaxSwapOutAmount(solana.NewWallet().PublicKey())
	require.ErrorIs(t, err, curve.ErrInvalidInput)
}

func TestMaxSwapInAmountStaysBelowDrain(t *testing.T) {
	s := constantProductSnapshot(1_000_000, 1_000_000, 1_000_000, standardFees())

	maxIn, err := s.GetMaxSwapInAmount(testTokenAMint)
	require.NoError(t, err)
	require.True(t, maxIn.Sign() > 0)

	quote, err := s.GetSwapQuote(testTokenAMint, maxIn, 0)
	require.NoError(t, err)
	require.True(t, quote.SwapOutAmount.Cmp(bi(1_000_000)) < 0)
}
