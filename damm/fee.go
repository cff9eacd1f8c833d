package damm

import (
	"context"
	"math/big"

	"github.com/gagliardetto/solana-go"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/krazyTry/dynamic-amm-go/dammath"
	solanago "github.com/krazyTry/dynamic-amm-go/solana"
)

// LockFeeQuote is the fee a lock escrow has accrued but not claimed,
// both as pool LP tokens and expressed in the underlying pair.
type LockFeeQuote struct {
	LpAmount        *big.Int
	TokenAOutAmount *big.Int
	TokenBOutAmount *big.Int
}

// DeriveLockEscrowAddress derives the lock escrow PDA for one owner on
// one pool.
func DeriveLockEscrowAddress(pool, owner solana.PublicKey) (solana.PublicKey, uint8, error) {
	return solana.FindProgramAddress([][]byte{
		[]byte("lock_escrow"),
		pool.Bytes(),
		owner.Bytes(),
	}, ProgramID)
}

// GetUnclaimedLockFee computes the escrow's claimable fee against the
// snapshot. Locked liquidity earns the growth of the pool's virtual
// price since the escrow's last checkpoint, on top of any fee already
// pending.
func (s *PoolSnapshot) GetUnclaimedLockFee(escrow *LockEscrowState) (*LockFeeQuote, error) {
	vp, err := s.VirtualPrice()
	if err != nil {
		return nil, err
	}

	lpFee := dammath.FromU64(escrow.UnclaimedFeePending)
	stored := escrow.LpPerToken.BigInt()
	locked := dammath.FromU64(escrow.TotalLockedAmount)
	if locked.Sign() > 0 && vp.Cmp(stored) > 0 {
		// growth since the checkpoint, converted back to LP at the
		// current price
		delta := new(big.Int).Sub(vp, stored)
		newFee, err := dammath.MulDiv(locked, delta, vp, dammath.RoundDown)
		if err != nil {
			return nil, err
		}
		lpFee = new(big.Int).Add(lpFee, newFee)
	}

	underlying, err := s.balancedWithdrawQuote(dammath.Min(lpFee, s.Reserves.LpSupply), 0)
	if err != nil {
		return nil, err
	}
	return &LockFeeQuote{
		LpAmount:        lpFee,
		TokenAOutAmount: underlying.TokenAOutAmount,
		TokenBOutAmount: underlying.TokenBOutAmount,
	}, nil
}

// GetLockEscrow fetches and decodes the owner's lock escrow on this
// pool.
func (m *Amm) GetLockEscrow(ctx context.Context, owner solana.PublicKey) (*LockEscrowState, error) {
	address, _, err := DeriveLockEscrowAddress(m.address, owner)
	if err != nil {
		return nil, errors.Wrap(err, "derive lock escrow address")
	}
	acc, err := solanago.GetAccountInfo(ctx, m.rpcClient, address)
	if err != nil {
		return nil, errors.Wrapf(err, "fetch lock escrow %s", address)
	}
	escrow, err := ParseLockEscrow(acc.Value.Data.GetBinary())
	if err != nil {
		return nil, errors.Wrapf(err, "decode lock escrow %s", address)
	}
	return escrow, nil
}

// GetUnclaimedLockFee fetches the owner's escrow and prices its accrued
// fee against the current snapshot.
func (m *Amm) GetUnclaimedLockFee(ctx context.Context, owner solana.PublicKey) (*LockFeeQuote, error) {
	s, err := m.snapshotOrErr()
	if err != nil {
		return nil, err
	}
	escrow, err := m.GetLockEscrow(ctx, owner)
	if err != nil {
		return nil, err
	}
	quote, err := s.GetUnclaimedLockFee(escrow)
	if err != nil {
		return nil, err
	}
	m.logger.Debug("lock fee quote",
		zap.String("pool", m.address.String()),
		zap.String("owner", owner.String()),
		zap.String("lp_fee", quote.LpAmount.String()),
	)
	return quote, nil
}
