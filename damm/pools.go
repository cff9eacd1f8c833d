package damm

import (
	"context"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/pkg/errors"

	solanago "github.com/krazyTry/dynamic-amm-go/solana"
)

// Pool account layout offsets usable as program-account filters.
const (
	PoolLpMintOffset     = 9 // 8 discriminator + 1 enabled
	PoolTokenAMintOffset = PoolLpMintOffset + 32
	PoolTokenBMintOffset = PoolTokenAMintOffset + 32
)

// FindPools scans the program for pool accounts. A zero filter owner
// lists every pool; otherwise the owner key is matched at the filter
// offset.
func FindPools(ctx context.Context, rpcClient *rpc.Client, filter solanago.Filter) (map[solana.PublicKey]*PoolState, error) {
	opts := solanago.GenProgramAccountFilter(accountKeyPool, filter.Owner, filter.Offset)
	res, err := rpcClient.GetProgramAccountsWithOpts(ctx, ProgramID, opts)
	if err != nil {
		return nil, errors.Wrap(err, "scan pool accounts")
	}

	pools := make(map[solana.PublicKey]*PoolState, len(res))
	for _, item := range res {
		state, err := ParsePool(item.Account.Data.GetBinary())
		if err != nil {
			return nil, errors.Wrapf(err, "decode pool %s", item.Pubkey)
		}
		pools[item.Pubkey] = state
	}
	return pools, nil
}

// FindPoolsByToken lists every pool with mint on either side of the
// pair.
func FindPoolsByToken(ctx context.Context, rpcClient *rpc.Client, mint solana.PublicKey) (map[solana.PublicKey]*PoolState, error) {
	pools, err := FindPools(ctx, rpcClient, solanago.Filter{Owner: mint, Offset: PoolTokenAMintOffset})
	if err != nil {
		return nil, err
	}
	asB, err := FindPools(ctx, rpcClient, solanago.Filter{Owner: mint, Offset: PoolTokenBMintOffset})
	if err != nil {
		return nil, err
	}
	for key, state := range asB {
		pools[key] = state
	}
	return pools, nil
}
