package damm

import (
	"crypto/sha256"
	"fmt"

	binary "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"

	"github.com/krazyTry/dynamic-amm-go/damm/curve"
)

// PoolFees is the on-chain fee schedule layout.
type PoolFees struct {
	TradeFeeNumerator        uint64
	TradeFeeDenominator      uint64
	OwnerTradeFeeNumerator   uint64
	OwnerTradeFeeDenominator uint64
}

// TokenMultiplier normalizes the two token decimals onto a common scale.
type TokenMultiplier struct {
	TokenAMultiplier uint64
	TokenBMultiplier uint64
	PrecisionFactor  uint8
}

// DepegLayout is the stable-curve depeg cache as stored on chain.
type DepegLayout struct {
	BaseVirtualPrice uint64
	BaseCacheUpdated uint64
	DepegType        uint8
}

// StableParams is the Stable variant payload of CurveType.
type StableParams struct {
	Amp                     uint64
	TokenMultiplier         TokenMultiplier
	Depeg                   DepegLayout
	LastAmpUpdatedTimestamp uint64
}

// ConstantProductParams is the empty ConstantProduct variant payload.
type ConstantProductParams struct{}

// CurveType is the borsh enum selecting the pool's curve variant.
type CurveType struct {
	Enum            binary.BorshEnum `borsh_enum:"true"`
	ConstantProduct ConstantProductParams
	Stable          StableParams
}

// PoolState is the pool account layout this SDK codes against: the
// fields the quote engine reads, in a condensed ordering.
type PoolState struct {
	Enabled    uint8
	LpMint     solana.PublicKey
	TokenAMint solana.PublicKey
	TokenBMint solana.PublicKey
	AVault     solana.PublicKey
	BVault     solana.PublicKey
	AVaultLp   solana.PublicKey
	BVaultLp   solana.PublicKey
	AVaultLpBump uint8

	AdminTokenAFee solana.PublicKey
	AdminTokenBFee solana.PublicKey

	Fees      PoolFees
	CurveType CurveType

	// Stake is the SPL stake pool state for DepegTypeSplStake pools;
	// zeroed otherwise.
	Stake solana.PublicKey
}

func accountDiscriminator(name string) []byte {
	hash := sha256.Sum256([]byte("account:" + name))
	return hash[:8]
}

// ParsePool decodes a pool account buffer (8-byte discriminator + borsh).
func ParsePool(data []byte) (*PoolState, error) {
	disc := accountDiscriminator(accountKeyPool)
	if len(data) < 8 || string(data[:8]) != string(disc) {
		return nil, fmt.Errorf("not a pool account")
	}
	state := &PoolState{}
	if err := binary.NewBorshDecoder(data[8:]).Decode(state); err != nil {
		return nil, err
	}
	return state, nil
}

// TradeFees converts the layout into the curve package's fee schedule.
func (p *PoolState) TradeFees() curve.Fees {
	return curve.Fees{
		TradeFeeNumerator:        p.Fees.TradeFeeNumerator,
		TradeFeeDenominator:      p.Fees.TradeFeeDenominator,
		OwnerTradeFeeNumerator:   p.Fees.OwnerTradeFeeNumerator,
		OwnerTradeFeeDenominator: p.Fees.OwnerTradeFeeDenominator,
	}
}

// BuildCurve materializes the curve variant for one snapshot generation.
// The variant is rebuilt on every refresh because the depeg cache can
// move between reads.
func (p *PoolState) BuildCurve() curve.SwapCurve {
	switch p.CurveType.Enum {
	case 1:
		params := p.CurveType.Stable
		c := &curve.StableCurve{
			Amp:              params.Amp,
			TokenAMultiplier: params.TokenMultiplier.TokenAMultiplier,
			TokenBMultiplier: params.TokenMultiplier.TokenBMultiplier,
		}
		if depegType := curve.DepegType(params.Depeg.DepegType); depegType != curve.DepegTypeNone {
			c.Depeg = &curve.Depeg{
				BaseVirtualPrice: params.Depeg.BaseVirtualPrice,
				BaseCacheUpdated: params.Depeg.BaseCacheUpdated,
				DepegType:        depegType,
				BaseStateAccount: p.Stake,
			}
		}
		return c
	default:
		return curve.ConstantProductCurve{}
	}
}

// LockEscrowState mirrors the on-chain lock escrow account. The
// unclaimed fee is derived at query time, never stored.
type LockEscrowState struct {
	Pool        solana.PublicKey
	Owner       solana.PublicKey
	EscrowVault solana.PublicKey
	Bump        uint8

	TotalLockedAmount   uint64
	LpPerToken          binary.Uint128
	UnclaimedFeePending uint64
	AFee                uint64
	BFee                uint64
}

// ParseLockEscrow decodes a lock escrow account buffer.
func ParseLockEscrow(data []byte) (*LockEscrowState, error) {
	disc := accountDiscriminator(accountKeyLockEscrow)
	if len(data) < 8 || string(data[:8]) != string(disc) {
		return nil, fmt.Errorf("not a lock escrow account")
	}
	state := &LockEscrowState{}
	if err := binary.NewBorshDecoder(data[8:]).Decode(state); err != nil {
		return nil, err
	}
	return state, nil
}
