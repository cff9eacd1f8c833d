package damm

import (
	"context"
	"fmt"
	"math/big"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/pkg/errors"

	solanago "github.com/krazyTry/dynamic-amm-go/solana"
	"github.com/krazyTry/dynamic-amm-go/vault"
)

type claimFeeArgs struct {
	MaxAmount uint64
}

// ClaimFeeInstruction builds the sequence claiming up to maxAmount of a
// lock escrow's accrued fee into the owner's token accounts.
func ClaimFeeInstruction(
	ctx context.Context,
	rpcClient *rpc.Client,
	payer solana.PublicKey,
	owner solana.PublicKey,
	poolAddress solana.PublicKey,
	poolState *PoolState,
	escrow *LockEscrowState,
	maxAmount *big.Int,
) ([]solana.Instruction, error) {
	if maxAmount.Sign() <= 0 {
		return nil, fmt.Errorf("maxAmount must be greater than 0")
	}

	escrowAddress, _, err := DeriveLockEscrowAddress(poolAddress, owner)
	if err != nil {
		return nil, errors.Wrap(err, "derive lock escrow address")
	}

	vaults, err := fetchPoolVaultAccounts(ctx, rpcClient, poolState)
	if err != nil {
		return nil, err
	}

	var instructions []solana.Instruction

	userAToken, err := solanago.PrepareTokenATA(ctx, rpcClient, owner, poolState.TokenAMint, payer, &instructions)
	if err != nil {
		return nil, err
	}
	userBToken, err := solanago.PrepareTokenATA(ctx, rpcClient, owner, poolState.TokenBMint, payer, &instructions)
	if err != nil {
		return nil, err
	}

	data, err := encodeInstruction("claimFee", claimFeeArgs{
		MaxAmount: maxAmount.Uint64(),
	})
	if err != nil {
		return nil, err
	}

	metas := solana.AccountMetaSlice{
		solana.Meta(poolAddress).WRITE(),
		solana.Meta(poolState.LpMint).WRITE(),
		solana.Meta(escrowAddress).WRITE(),
		solana.Meta(owner).SIGNER().WRITE(),
		solana.Meta(escrow.EscrowVault).WRITE(),
		solana.Meta(escrow.EscrowVault).WRITE(),
		solana.Meta(solana.TokenProgramID),
		solana.Meta(vaults.ATokenVault).WRITE(),
		solana.Meta(vaults.BTokenVault).WRITE(),
		solana.Meta(poolState.AVault).WRITE(),
		solana.Meta(poolState.BVault).WRITE(),
		solana.Meta(poolState.AVaultLp).WRITE(),
		solana.Meta(poolState.BVaultLp).WRITE(),
		solana.Meta(vaults.AVaultLpMint).WRITE(),
		solana.Meta(vaults.BVaultLpMint).WRITE(),
		solana.Meta(userAToken).WRITE(),
		solana.Meta(userBToken).WRITE(),
		solana.Meta(vault.VaultProgramID),
	}

	instructions = append(instructions, solana.NewInstruction(ProgramID, metas, data))
	instructions = appendUnwrapWSOL(instructions, poolState, userAToken, userBToken, owner)
	return instructions, nil
}

// ClaimFee claims the owner's accrued lock escrow fee, bounded by the
// current unclaimed amount.
func (m *Amm) ClaimFee(
	ctx context.Context,
	payer *solana.Wallet,
	owner *solana.Wallet,
	maxAmount *big.Int,
) (string, error) {
	s, err := m.snapshotOrErr()
	if err != nil {
		return "", err
	}
	escrow, err := m.GetLockEscrow(ctx, owner.PublicKey())
	if err != nil {
		return "", err
	}

	instructions, err := ClaimFeeInstruction(
		ctx,
		m.rpcClient,
		payer.PublicKey(),
		owner.PublicKey(),
		m.address,
		s.State,
		escrow,
		maxAmount,
	)
	if err != nil {
		return "", err
	}
	return m.send(ctx, payer, owner, instructions)
}
