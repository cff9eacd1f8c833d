package damm

import (
	"math/big"

	"github.com/gagliardetto/solana-go"
)

var (
	testTokenAMint = solana.NewWallet().PublicKey()
	testTokenBMint = solana.NewWallet().PublicKey()

	// zeroKey asks GetWithdrawQuote for a balanced withdrawal
	zeroKey = solana.PublicKey{}
)

// constantProductSnapshot builds a snapshot whose vaults price shares
// one-to-one, so the pool token amounts equal the raw reserves.
func constantProductSnapshot(reserveA, reserveB, lpSupply int64, fees PoolFees) *PoolSnapshot {
	state := &PoolState{
		Enabled:    1,
		LpMint:     solana.NewWallet().PublicKey(),
		TokenAMint: testTokenAMint,
		TokenBMint: testTokenBMint,
		Fees:       fees,
		CurveType:  CurveType{Enum: 0},
	}
	reserves := ReserveSnapshot{
		CurrentTime:        1_700_000_000,
		PoolVaultALp:       big.NewInt(reserveA),
		PoolVaultBLp:       big.NewInt(reserveB),
		VaultALpSupply:     big.NewInt(reserveA),
		VaultBLpSupply:     big.NewInt(reserveB),
		VaultAWithdrawable: big.NewInt(reserveA),
		VaultBWithdrawable: big.NewInt(reserveB),
		LpSupply:           big.NewInt(lpSupply),
	}
	return NewPoolSnapshot(state, reserves)
}

func stableSnapshot(amp uint64, reserveA, reserveB, lpSupply int64, fees PoolFees) *PoolSnapshot {
	state := &PoolState{
		Enabled:    1,
		LpMint:     solana.NewWallet().PublicKey(),
		TokenAMint: testTokenAMint,
		TokenBMint: testTokenBMint,
		Fees:       fees,
		CurveType: CurveType{
			Enum: 1,
			Stable: StableParams{
				Amp: amp,
				TokenMultiplier: TokenMultiplier{
					TokenAMultiplier: 1,
					TokenBMultiplier: 1,
				},
			},
		},
	}
	reserves := ReserveSnapshot{
		CurrentTime:        1_700_000_000,
		PoolVaultALp:       big.NewInt(reserveA),
		PoolVaultBLp:       big.NewInt(reserveB),
		VaultALpSupply:     big.NewInt(reserveA),
		VaultBLpSupply:     big.NewInt(reserveB),
		VaultAWithdrawable: big.NewInt(reserveA),
		VaultBWithdrawable: big.NewInt(reserveB),
		LpSupply:           big.NewInt(lpSupply),
	}
	return NewPoolSnapshot(state, reserves)
}

func noFees() PoolFees {
	return PoolFees{
		TradeFeeNumerator:        0,
		TradeFeeDenominator:      10_000,
		OwnerTradeFeeNumerator:   0,
		OwnerTradeFeeDenominator: 10_000,
	}
}

func standardFees() PoolFees {
	return PoolFees{
		TradeFeeNumerator:        25,
		TradeFeeDenominator:      10_000,
		OwnerTradeFeeNumerator:   5,
		OwnerTradeFeeDenominator: 10_000,
	}
}

func bi(v int64) *big.Int { return big.NewInt(v) }
