package damm

import (
	"context"
	"fmt"
	"math/big"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/system"
	"github.com/gagliardetto/solana-go/programs/token"
	"github.com/gagliardetto/solana-go/rpc"

	"github.com/krazyTry/dynamic-amm-go/damm/curve"
	solanago "github.com/krazyTry/dynamic-amm-go/solana"
	"github.com/krazyTry/dynamic-amm-go/vault"
)

type swapArgs struct {
	InAmount         uint64
	MinimumOutAmount uint64
}

// SwapInstruction builds the instruction sequence for swapping inTokenMint
// into the other side of the pair: ATA preparation, WSOL wrapping when the
// input is native SOL, the swap itself, and WSOL unwrapping.
func SwapInstruction(
	ctx context.Context,
	rpcClient *rpc.Client,
	payer solana.PublicKey,
	owner solana.PublicKey,
	poolAddress solana.PublicKey,
	poolState *PoolState,
	inTokenMint solana.PublicKey,
	amountIn *big.Int,
	minimumAmountOut *big.Int,
) ([]solana.Instruction, error) {
	if amountIn.Sign() <= 0 {
		return nil, fmt.Errorf("amountIn must be greater than 0")
	}

	var outputMint, protocolTokenFee solana.PublicKey
	switch {
	case inTokenMint.Equals(poolState.TokenAMint):
		outputMint = poolState.TokenBMint
		protocolTokenFee = poolState.AdminTokenAFee
	case inTokenMint.Equals(poolState.TokenBMint):
		outputMint = poolState.TokenAMint
		protocolTokenFee = poolState.AdminTokenBFee
	default:
		return nil, fmt.Errorf("%w: mint %s does not belong to the pool pair", curve.ErrInvalidInput, inTokenMint)
	}

	vaults, err := fetchPoolVaultAccounts(ctx, rpcClient, poolState)
	if err != nil {
		return nil, err
	}

	var instructions []solana.Instruction

	inputTokenAccount, err := solanago.PrepareTokenATA(ctx, rpcClient, owner, inTokenMint, payer, &instructions)
	if err != nil {
		return nil, err
	}
	outputTokenAccount, err := solanago.PrepareTokenATA(ctx, rpcClient, owner, outputMint, payer, &instructions)
	if err != nil {
		return nil, err
	}

	if inTokenMint.Equals(solana.WrappedSol) {
		// wrap SOL by transferring lamports into the WSOL ATA
		wrapSOLIx := system.NewTransferInstruction(
			amountIn.Uint64(),
			owner,
			inputTokenAccount,
		).Build()
		// sync the WSOL account to update its balance
		syncNativeIx := token.NewSyncNativeInstruction(
			inputTokenAccount,
		).Build()
		instructions = append(instructions, wrapSOLIx, syncNativeIx)
	}

	data, err := encodeInstruction("swap", swapArgs{
		InAmount:         amountIn.Uint64(),
		MinimumOutAmount: minimumAmountOut.Uint64(),
	})
	if err != nil {
		return nil, err
	}

	metas := solana.AccountMetaSlice{
		solana.Meta(poolAddress).WRITE(),
		solana.Meta(inputTokenAccount).WRITE(),
		solana.Meta(outputTokenAccount).WRITE(),
		solana.Meta(poolState.AVault).WRITE(),
		solana.Meta(poolState.BVault).WRITE(),
		solana.Meta(vaults.ATokenVault).WRITE(),
		solana.Meta(vaults.BTokenVault).WRITE(),
		solana.Meta(vaults.AVaultLpMint).WRITE(),
		solana.Meta(vaults.BVaultLpMint).WRITE(),
		solana.Meta(poolState.AVaultLp).WRITE(),
		solana.Meta(poolState.BVaultLp).WRITE(),
		solana.Meta(protocolTokenFee).WRITE(),
		solana.Meta(owner).SIGNER(),
		solana.Meta(vault.VaultProgramID),
		solana.Meta(solana.TokenProgramID),
	}
	// depeg pools read their base state through remaining accounts
	metas = append(metas, poolState.BuildCurve().RemainingAccounts()...)

	instructions = append(instructions, solana.NewInstruction(ProgramID, metas, data))

	switch {
	case inTokenMint.Equals(solana.WrappedSol):
		unwrapIx := token.NewCloseAccountInstruction(
			inputTokenAccount,
			owner,
			owner,
			[]solana.PublicKey{},
		).Build()
		instructions = append(instructions, unwrapIx)
	case outputMint.Equals(solana.WrappedSol):
		unwrapIx := token.NewCloseAccountInstruction(
			outputTokenAccount,
			owner,
			owner,
			[]solana.PublicKey{},
		).Build()
		instructions = append(instructions, unwrapIx)
	}

	return instructions, nil
}

// Swap quotes are expected to come from GetSwapQuote; minimumAmountOut
// is passed through untouched.
func (m *Amm) Swap(
	ctx context.Context,
	payer *solana.Wallet,
	owner *solana.Wallet,
	inTokenMint solana.PublicKey,
	amountIn *big.Int,
	minimumAmountOut *big.Int,
) (string, error) {
	s, err := m.snapshotOrErr()
	if err != nil {
		return "", err
	}

	instructions, err := SwapInstruction(
		ctx,
		m.rpcClient,
		payer.PublicKey(),
		owner.PublicKey(),
		m.address,
		s.State,
		inTokenMint,
		amountIn,
		minimumAmountOut,
	)
	if err != nil {
		return "", err
	}
	return m.send(ctx, payer, owner, instructions)
}
