package curve

import (
	"math/big"

	"github.com/gagliardetto/solana-go"
	"github.com/shopspring/decimal"
)

var (
	// MaxCurveIterations bounds the Newton solves for D and Y.
	MaxCurveIterations = 256

	// BaseVirtualPricePrecision scales the depeg base virtual price.
	BaseVirtualPricePrecision = big.NewInt(1_000_000)

	// BaseCacheExpiry is how long a cached depeg base virtual price
	// stays fresh, in seconds. Past it the oracle account must be read
	// again at submission time.
	BaseCacheExpiry = uint64(600)

	// DepegConcentrationThreshold classifies a stable pool side as
	// depegged once it holds more than 95% of the normalized value.
	DepegConcentrationThreshold = decimal.NewFromInt(95).Div(decimal.NewFromInt(100))

	// Depeg oracle state accounts, appended to the instruction account
	// list for depeg pools.
	MarinadeStateAddress = solana.MustPublicKeyFromBase58("8szGkuLTAux9XMgZ2vtY39jVSowEcpBfFfD8hXSEqdGC")
	LidoStateAddress     = solana.MustPublicKeyFromBase58("49Yi1TKkNyYjPAFdR9LBvoHcUjuPX4Df5T5yv39w2XTn")
)

// DepegType identifies the oracle a depeg stable pool prices its staked
// token against.
type DepegType uint8

const (
	DepegTypeNone DepegType = iota
	DepegTypeMarinade
	DepegTypeLido
	DepegTypeSplStake
)
