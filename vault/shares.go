package vault

import (
	"math/big"

	"github.com/krazyTry/dynamic-amm-go/dammath"
)

// GetSharesByAmount converts an underlying amount into vault shares at
// the current share price. Returns zero when totalAmount is zero: with
// no basis there is no share price to derive.
//
// Round up when computing shares the depositor must be charged, down
// when computing shares owed out.
func GetSharesByAmount(amount, totalAmount, totalShares *big.Int, round dammath.Rounding) *big.Int {
	if totalAmount.Sign() == 0 {
		return big.NewInt(0)
	}
	shares, err := dammath.MulDiv(amount, totalShares, totalAmount, round)
	if err != nil {
		return big.NewInt(0)
	}
	return shares
}

// GetAmountByShares converts vault shares back into the underlying
// amount. Returns zero when totalShares is zero.
func GetAmountByShares(shares, totalAmount, totalShares *big.Int, round dammath.Rounding) *big.Int {
	if totalShares.Sign() == 0 {
		return big.NewInt(0)
	}
	amount, err := dammath.MulDiv(shares, totalAmount, totalShares, round)
	if err != nil {
		return big.NewInt(0)
	}
	return amount
}
