package damm

import (
	"context"
	"sync/atomic"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/gagliardetto/solana-go/rpc/ws"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	solanago "github.com/krazyTry/dynamic-amm-go/solana"
	"github.com/krazyTry/dynamic-amm-go/dammath"
	"github.com/krazyTry/dynamic-amm-go/vault"
)

// Amm is the client-side view of one dynamic AMM pool. It holds the
// current snapshot behind an atomic pointer: RefreshState swaps a fully
// built snapshot in, so a quote in progress never observes a
// half-updated read. Quotes never refresh implicitly.
type Amm struct {
	rpcClient *rpc.Client
	wsClient  *ws.Client
	logger    *zap.Logger
	address   solana.PublicKey

	current atomic.Pointer[PoolSnapshot]
}

func NewAmm(rpcClient *rpc.Client, poolAddress solana.PublicKey, opts ...Option) *Amm {
	m := &Amm{
		rpcClient: rpcClient,
		logger:    zap.NewNop(),
		address:   poolAddress,
	}
	for _, fn := range opts {
		fn(m)
	}
	return m
}

type Option func(*Amm)

func WithLogger(logger *zap.Logger) Option {
	return func(m *Amm) {
		m.logger = logger
	}
}

// WithWsClient enables the transaction-sending methods; quote-only use
// doesn't need it.
func WithWsClient(wsClient *ws.Client) Option {
	return func(m *Amm) {
		m.wsClient = wsClient
	}
}

// Address returns the pool account address.
func (m *Amm) Address() solana.PublicKey {
	return m.address
}

// Snapshot returns the current immutable snapshot, or nil before the
// first RefreshState.
func (m *Amm) Snapshot() *PoolSnapshot {
	return m.current.Load()
}

func (m *Amm) snapshotOrErr() (*PoolSnapshot, error) {
	s := m.current.Load()
	if s == nil {
		return nil, errors.New("pool state not loaded; call RefreshState first")
	}
	return s, nil
}

// GetPoolState fetches and decodes the pool account directly, without
// touching the cached snapshot.
func (m *Amm) GetPoolState(ctx context.Context) (*PoolState, error) {
	poolAcc, err := solanago.GetAccountInfo(ctx, m.rpcClient, m.address)
	if err != nil {
		return nil, errors.Wrapf(err, "fetch pool %s", m.address)
	}
	state, err := ParsePool(poolAcc.Value.Data.GetBinary())
	if err != nil {
		return nil, errors.Wrapf(err, "decode pool %s", m.address)
	}
	return state, nil
}

// GetVaultState fetches and decodes one dynamic vault account.
func GetVaultState(ctx context.Context, rpcClient *rpc.Client, address solana.PublicKey) (*vault.VaultState, error) {
	acc, err := solanago.GetAccountInfo(ctx, rpcClient, address)
	if err != nil {
		return nil, errors.Wrapf(err, "fetch vault %s", address)
	}
	state, err := vault.ParseVault(acc.Value.Data.GetBinary())
	if err != nil {
		return nil, errors.Wrapf(err, "decode vault %s", address)
	}
	return state, nil
}

// RefreshState gathers every input of one reserve snapshot, builds the
// snapshot, and atomically replaces the current one. All token amounts
// and the curve variant derive from this single logical read.
func (m *Amm) RefreshState(ctx context.Context) (*PoolSnapshot, error) {
	state, err := m.GetPoolState(ctx)
	if err != nil {
		return nil, err
	}

	// one batched read for everything the snapshot depends on
	keys := []solana.PublicKey{
		state.AVault,
		state.BVault,
		state.AVaultLp,
		state.BVaultLp,
		state.LpMint,
		solana.SysVarClockPubkey,
	}
	accs, err := solanago.GetMultipleAccountInfo(ctx, m.rpcClient, keys)
	if err != nil {
		return nil, errors.Wrap(err, "fetch pool reserve accounts")
	}
	for i, acc := range accs.Value {
		if acc == nil {
			return nil, errors.Errorf("reserve account %s not found", keys[i])
		}
	}

	vaultA, err := vault.ParseVault(accs.Value[0].Data.GetBinary())
	if err != nil {
		return nil, errors.Wrap(err, "decode vault A")
	}
	vaultB, err := vault.ParseVault(accs.Value[1].Data.GetBinary())
	if err != nil {
		return nil, errors.Wrap(err, "decode vault B")
	}
	aVaultLp, err := solanago.DecodeTokenAccount(accs.Value[2].Data.GetBinary())
	if err != nil {
		return nil, errors.Wrap(err, "decode pool vault A lp account")
	}
	bVaultLp, err := solanago.DecodeTokenAccount(accs.Value[3].Data.GetBinary())
	if err != nil {
		return nil, errors.Wrap(err, "decode pool vault B lp account")
	}
	lpMint, err := new(solanago.TokenLayout).Decode(accs.Value[4].Data.GetBinary())
	if err != nil {
		return nil, errors.Wrap(err, "decode pool lp mint")
	}
	clock, err := solanago.DecodeClock(accs.Value[5].Data.GetBinary())
	if err != nil {
		return nil, errors.Wrap(err, "decode clock sysvar")
	}

	lpMints, err := solanago.GetMultipleToken(ctx, m.rpcClient, vaultA.LpMint, vaultB.LpMint)
	if err != nil {
		return nil, errors.Wrap(err, "fetch vault lp mints")
	}
	if lpMints[0] == nil || lpMints[1] == nil {
		return nil, errors.New("vault lp mint not found")
	}

	currentTime := uint64(clock.UnixTimestamp)
	reserves := ReserveSnapshot{
		CurrentTime:        currentTime,
		PoolVaultALp:       dammath.FromU64(aVaultLp.Amount),
		PoolVaultBLp:       dammath.FromU64(bVaultLp.Amount),
		VaultALpSupply:     dammath.FromU64(lpMints[0].Supply),
		VaultBLpSupply:     dammath.FromU64(lpMints[1].Supply),
		VaultAWithdrawable: vaultA.GetWithdrawableAmount(currentTime),
		VaultBWithdrawable: vaultB.GetWithdrawableAmount(currentTime),
		LpSupply:           dammath.FromU64(lpMint.Supply),
	}

	snapshot := NewPoolSnapshot(state, reserves)
	m.current.Store(snapshot)

	m.logger.Debug("pool state refreshed",
		zap.String("pool", m.address.String()),
		zap.Uint64("onchain_time", currentTime),
		zap.String("token_a_amount", snapshot.TokenAAmount.String()),
		zap.String("token_b_amount", snapshot.TokenBAmount.String()),
		zap.String("lp_supply", reserves.LpSupply.String()),
	)
	return snapshot, nil
}
