package vault

import (
	"math/big"

	"github.com/krazyTry/dynamic-amm-go/dammath"
)

// LockedProfitDegradationDenominator scales LockedProfitDegradation:
// a degradation of d unlocks d/1e12 of the locked profit per second.
var LockedProfitDegradationDenominator = big.NewInt(1_000_000_000_000)

// CalculateLockedProfit returns the still-locked part of the last
// reported profit at currentTime. Fully unlocked once the degradation
// window has elapsed.
func (v *VaultState) CalculateLockedProfit(currentTime uint64) *big.Int {
	tracker := v.LockedProfitTracker

	if currentTime < tracker.LastReport {
		// clock drift between the snapshot reader and the vault report;
		// treat the whole profit as still locked
		return dammath.FromU64(tracker.LastUpdatedLockedProfit)
	}

	duration := dammath.FromU64(currentTime - tracker.LastReport)
	lockedFundRatio := dammath.Mul(duration, dammath.FromU64(tracker.LockedProfitDegradation))
	if lockedFundRatio.Cmp(LockedProfitDegradationDenominator) >= 0 {
		return big.NewInt(0)
	}

	remaining := new(big.Int).Sub(LockedProfitDegradationDenominator, lockedFundRatio)
	lockedProfit, err := dammath.MulDiv(
		dammath.FromU64(tracker.LastUpdatedLockedProfit),
		remaining,
		LockedProfitDegradationDenominator,
		dammath.RoundDown,
	)
	if err != nil {
		return dammath.FromU64(tracker.LastUpdatedLockedProfit)
	}
	return lockedProfit
}

// GetUnlockedAmount is the underlying amount redeemable from the vault
// at currentTime: the total holdings minus the still-locked profit.
func (v *VaultState) GetUnlockedAmount(currentTime uint64) *big.Int {
	total := dammath.FromU64(v.TotalAmount)
	locked := v.CalculateLockedProfit(currentTime)
	unlocked, err := dammath.Sub(total, locked)
	if err != nil {
		return big.NewInt(0)
	}
	return unlocked
}

// GetWithdrawableAmount is the collaborator surface the pool consumes;
// alias of GetUnlockedAmount.
func (v *VaultState) GetWithdrawableAmount(currentTime uint64) *big.Int {
	return v.GetUnlockedAmount(currentTime)
}
