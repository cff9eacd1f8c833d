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

type addBalanceLiquidityArgs struct {
	PoolTokenAmount     uint64
	MaximumTokenAAmount uint64
	MaximumTokenBAmount uint64
}

type removeBalanceLiquidityArgs struct {
	PoolTokenAmount  uint64
	MinimumATokenOut uint64
	MinimumBTokenOut uint64
}

type removeLiquiditySingleSideArgs struct {
	PoolTokenAmount  uint64
	MinimumOutAmount uint64
}

// liquidityAccounts is the shared account head of the three liquidity
// instructions, up to the user token accounts which differ per variant.
func liquidityAccounts(poolAddress solana.PublicKey, poolState *PoolState, vaults *poolVaultAccounts, userPoolLp solana.PublicKey) solana.AccountMetaSlice {
	return solana.AccountMetaSlice{
		solana.Meta(poolAddress).WRITE(),
		solana.Meta(poolState.LpMint).WRITE(),
		solana.Meta(userPoolLp).WRITE(),
		solana.Meta(poolState.AVaultLp).WRITE(),
		solana.Meta(poolState.BVaultLp).WRITE(),
		solana.Meta(poolState.AVault).WRITE(),
		solana.Meta(poolState.BVault).WRITE(),
		solana.Meta(vaults.AVaultLpMint).WRITE(),
		solana.Meta(vaults.BVaultLpMint).WRITE(),
		solana.Meta(vaults.ATokenVault).WRITE(),
		solana.Meta(vaults.BTokenVault).WRITE(),
	}
}

// AddBalanceLiquidityInstruction builds the deposit sequence for minting
// poolTokenAmount LP tokens against at most maximumTokenA/B.
func AddBalanceLiquidityInstruction(
	ctx context.Context,
	rpcClient *rpc.Client,
	payer solana.PublicKey,
	owner solana.PublicKey,
	poolAddress solana.PublicKey,
	poolState *PoolState,
	poolTokenAmount *big.Int,
	maximumTokenAAmount *big.Int,
	maximumTokenBAmount *big.Int,
) ([]solana.Instruction, error) {
	if poolTokenAmount.Sign() <= 0 {
		return nil, fmt.Errorf("poolTokenAmount must be greater than 0")
	}

	vaults, err := fetchPoolVaultAccounts(ctx, rpcClient, poolState)
	if err != nil {
		return nil, err
	}

	var instructions []solana.Instruction

	userPoolLp, err := solanago.PrepareTokenATA(ctx, rpcClient, owner, poolState.LpMint, payer, &instructions)
	if err != nil {
		return nil, err
	}
	userAToken, err := solanago.PrepareTokenATA(ctx, rpcClient, owner, poolState.TokenAMint, payer, &instructions)
	if err != nil {
		return nil, err
	}
	userBToken, err := solanago.PrepareTokenATA(ctx, rpcClient, owner, poolState.TokenBMint, payer, &instructions)
	if err != nil {
		return nil, err
	}

	wrapWSOL := func(ata solana.PublicKey, lamports *big.Int) {
		wrapSOLIx := system.NewTransferInstruction(lamports.Uint64(), owner, ata).Build()
		syncNativeIx := token.NewSyncNativeInstruction(ata).Build()
		instructions = append(instructions, wrapSOLIx, syncNativeIx)
	}
	switch {
	case poolState.TokenAMint.Equals(solana.WrappedSol):
		wrapWSOL(userAToken, maximumTokenAAmount)
	case poolState.TokenBMint.Equals(solana.WrappedSol):
		wrapWSOL(userBToken, maximumTokenBAmount)
	}

	data, err := encodeInstruction("addBalanceLiquidity", addBalanceLiquidityArgs{
		PoolTokenAmount:     poolTokenAmount.Uint64(),
		MaximumTokenAAmount: maximumTokenAAmount.Uint64(),
		MaximumTokenBAmount: maximumTokenBAmount.Uint64(),
	})
	if err != nil {
		return nil, err
	}

	metas := liquidityAccounts(poolAddress, poolState, vaults, userPoolLp)
	metas = append(metas,
		solana.Meta(userAToken).WRITE(),
		solana.Meta(userBToken).WRITE(),
		solana.Meta(owner).SIGNER(),
		solana.Meta(vault.VaultProgramID),
		solana.Meta(solana.TokenProgramID),
	)

	instructions = append(instructions, solana.NewInstruction(ProgramID, metas, data))
	instructions = appendUnwrapWSOL(instructions, poolState, userAToken, userBToken, owner)
	return instructions, nil
}

// RemoveBalanceLiquidityInstruction builds the balanced-withdrawal
// sequence for burning poolTokenAmount LP tokens.
func RemoveBalanceLiquidityInstruction(
	ctx context.Context,
	rpcClient *rpc.Client,
	payer solana.PublicKey,
	owner solana.PublicKey,
	poolAddress solana.PublicKey,
	poolState *PoolState,
	poolTokenAmount *big.Int,
	minimumATokenOut *big.Int,
	minimumBTokenOut *big.Int,
) ([]solana.Instruction, error) {
	if poolTokenAmount.Sign() <= 0 {
		return nil, fmt.Errorf("poolTokenAmount must be greater than 0")
	}

	vaults, err := fetchPoolVaultAccounts(ctx, rpcClient, poolState)
	if err != nil {
		return nil, err
	}

	var instructions []solana.Instruction

	userPoolLp, err := solanago.PrepareTokenATA(ctx, rpcClient, owner, poolState.LpMint, payer, &instructions)
	if err != nil {
		return nil, err
	}
	userAToken, err := solanago.PrepareTokenATA(ctx, rpcClient, owner, poolState.TokenAMint, payer, &instructions)
	if err != nil {
		return nil, err
	}
	userBToken, err := solanago.PrepareTokenATA(ctx, rpcClient, owner, poolState.TokenBMint, payer, &instructions)
	if err != nil {
		return nil, err
	}

	data, err := encodeInstruction("removeBalanceLiquidity", removeBalanceLiquidityArgs{
		PoolTokenAmount:  poolTokenAmount.Uint64(),
		MinimumATokenOut: minimumATokenOut.Uint64(),
		MinimumBTokenOut: minimumBTokenOut.Uint64(),
	})
	if err != nil {
		return nil, err
	}

	metas := liquidityAccounts(poolAddress, poolState, vaults, userPoolLp)
	metas = append(metas,
		solana.Meta(userAToken).WRITE(),
		solana.Meta(userBToken).WRITE(),
		solana.Meta(owner).SIGNER(),
		solana.Meta(vault.VaultProgramID),
		solana.Meta(solana.TokenProgramID),
	)

	instructions = append(instructions, solana.NewInstruction(ProgramID, metas, data))
	instructions = appendUnwrapWSOL(instructions, poolState, userAToken, userBToken, owner)
	return instructions, nil
}

// RemoveLiquiditySingleSideInstruction builds the single-sided
// withdrawal sequence paying out entirely in outTokenMint.
func RemoveLiquiditySingleSideInstruction(
	ctx context.Context,
	rpcClient *rpc.Client,
	payer solana.PublicKey,
	owner solana.PublicKey,
	poolAddress solana.PublicKey,
	poolState *PoolState,
	outTokenMint solana.PublicKey,
	poolTokenAmount *big.Int,
	minimumOutAmount *big.Int,
) ([]solana.Instruction, error) {
	if poolTokenAmount.Sign() <= 0 {
		return nil, fmt.Errorf("poolTokenAmount must be greater than 0")
	}
	if !outTokenMint.Equals(poolState.TokenAMint) && !outTokenMint.Equals(poolState.TokenBMint) {
		return nil, fmt.Errorf("%w: mint %s does not belong to the pool pair", curve.ErrInvalidInput, outTokenMint)
	}

	vaults, err := fetchPoolVaultAccounts(ctx, rpcClient, poolState)
	if err != nil {
		return nil, err
	}

	var instructions []solana.Instruction

	userPoolLp, err := solanago.PrepareTokenATA(ctx, rpcClient, owner, poolState.LpMint, payer, &instructions)
	if err != nil {
		return nil, err
	}
	userDestinationToken, err := solanago.PrepareTokenATA(ctx, rpcClient, owner, outTokenMint, payer, &instructions)
	if err != nil {
		return nil, err
	}

	data, err := encodeInstruction("removeLiquiditySingleSide", removeLiquiditySingleSideArgs{
		PoolTokenAmount:  poolTokenAmount.Uint64(),
		MinimumOutAmount: minimumOutAmount.Uint64(),
	})
	if err != nil {
		return nil, err
	}

	metas := liquidityAccounts(poolAddress, poolState, vaults, userPoolLp)
	metas = append(metas,
		solana.Meta(userDestinationToken).WRITE(),
		solana.Meta(owner).SIGNER(),
		solana.Meta(vault.VaultProgramID),
		solana.Meta(solana.TokenProgramID),
	)
	// the internal swap of a depeg pool needs its base state
	metas = append(metas, poolState.BuildCurve().RemainingAccounts()...)

	instructions = append(instructions, solana.NewInstruction(ProgramID, metas, data))

	if outTokenMint.Equals(solana.WrappedSol) {
		unwrapIx := token.NewCloseAccountInstruction(
			userDestinationToken,
			owner,
			owner,
			[]solana.PublicKey{},
		).Build()
		instructions = append(instructions, unwrapIx)
	}
	return instructions, nil
}

func appendUnwrapWSOL(instructions []solana.Instruction, poolState *PoolState, userAToken, userBToken, owner solana.PublicKey) []solana.Instruction {
	switch {
	case poolState.TokenAMint.Equals(solana.WrappedSol):
		unwrapIx := token.NewCloseAccountInstruction(
			userAToken,
			owner,
			owner,
			[]solana.PublicKey{},
		).Build()
		return append(instructions, unwrapIx)
	case poolState.TokenBMint.Equals(solana.WrappedSol):
		unwrapIx := token.NewCloseAccountInstruction(
			userBToken,
			owner,
			owner,
			[]solana.PublicKey{},
		).Build()
		return append(instructions, unwrapIx)
	}
	return instructions
}

// Deposit submits a balanced or imbalanced deposit priced by
// GetDepositQuote.
func (m *Amm) Deposit(
	ctx context.Context,
	payer *solana.Wallet,
	owner *solana.Wallet,
	quote *DepositQuote,
) (string, error) {
	s, err := m.snapshotOrErr()
	if err != nil {
		return "", err
	}

	instructions, err := AddBalanceLiquidityInstruction(
		ctx,
		m.rpcClient,
		payer.PublicKey(),
		owner.PublicKey(),
		m.address,
		s.State,
		quote.MinPoolTokenAmountOut,
		quote.TokenAInAmount,
		quote.TokenBInAmount,
	)
	if err != nil {
		return "", err
	}
	return m.send(ctx, payer, owner, instructions)
}

// Withdraw submits a balanced withdrawal priced by GetWithdrawQuote.
func (m *Amm) Withdraw(
	ctx context.Context,
	payer *solana.Wallet,
	owner *solana.Wallet,
	lpAmount *big.Int,
	quote *WithdrawQuote,
) (string, error) {
	s, err := m.snapshotOrErr()
	if err != nil {
		return "", err
	}

	instructions, err := RemoveBalanceLiquidityInstruction(
		ctx,
		m.rpcClient,
		payer.PublicKey(),
		owner.PublicKey(),
		m.address,
		s.State,
		lpAmount,
		quote.MinTokenAOutAmount,
		quote.MinTokenBOutAmount,
	)
	if err != nil {
		return "", err
	}
	return m.send(ctx, payer, owner, instructions)
}

// WithdrawSingleSide submits a single-sided withdrawal priced by
// GetWithdrawQuote with a target mint.
func (m *Amm) WithdrawSingleSide(
	ctx context.Context,
	payer *solana.Wallet,
	owner *solana.Wallet,
	outTokenMint solana.PublicKey,
	lpAmount *big.Int,
	minimumOutAmount *big.Int,
) (string, error) {
	s, err := m.snapshotOrErr()
	if err != nil {
		return "", err
	}

	instructions, err := RemoveLiquiditySingleSideInstruction(
		ctx,
		m.rpcClient,
		payer.PublicKey(),
		owner.PublicKey(),
		m.address,
		s.State,
		outTokenMint,
		lpAmount,
		minimumOutAmount,
	)
	if err != nil {
		return "", err
	}
	return m.send(ctx, payer, owner, instructions)
}

func (m *Amm) send(ctx context.Context, payer, owner *solana.Wallet, instructions []solana.Instruction) (string, error) {
	sig, err := solanago.SendTransaction(ctx,
		m.rpcClient,
		m.wsClient,
		instructions,
		payer.PublicKey(),
		func(key solana.PublicKey) *solana.PrivateKey {
			switch {
			case key.Equals(payer.PublicKey()):
				return &payer.PrivateKey
			case key.Equals(owner.PublicKey()):
				return &owner.PrivateKey
			default:
				return nil
			}
		},
	)
	if err != nil {
		return "", err
	}
	return sig.String(), nil
}
