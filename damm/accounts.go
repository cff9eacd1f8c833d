package damm

import (
	"bytes"
	"context"
	"crypto/sha256"

	binary "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/pkg/errors"

	solanago "github.com/krazyTry/dynamic-amm-go/solana"
	"github.com/krazyTry/dynamic-amm-go/vault"
)

func instructionDiscriminator(name string) []byte {
	hash := sha256.Sum256([]byte("global:" + name))
	return hash[:8]
}

// encodeInstruction prefixes the anchor discriminator and borsh-encodes
// the argument struct behind it.
func encodeInstruction(name string, args interface{}) ([]byte, error) {
	buf := new(bytes.Buffer)
	buf.Write(instructionDiscriminator(name))
	if args != nil {
		if err := binary.NewBorshEncoder(buf).Encode(args); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}

// poolVaultAccounts are the vault-side accounts every pool instruction
// routes through but the pool account itself doesn't store.
type poolVaultAccounts struct {
	ATokenVault  solana.PublicKey
	BTokenVault  solana.PublicKey
	AVaultLpMint solana.PublicKey
	BVaultLpMint solana.PublicKey
}

func fetchPoolVaultAccounts(ctx context.Context, rpcClient *rpc.Client, state *PoolState) (*poolVaultAccounts, error) {
	accs, err := solanago.GetMultipleAccountInfo(ctx, rpcClient, []solana.PublicKey{state.AVault, state.BVault})
	if err != nil {
		return nil, errors.Wrap(err, "fetch pool vaults")
	}
	if accs.Value[0] == nil || accs.Value[1] == nil {
		return nil, errors.New("pool vault account not found")
	}
	vaultA, err := vault.ParseVault(accs.Value[0].Data.GetBinary())
	if err != nil {
		return nil, errors.Wrap(err, "decode vault A")
	}
	vaultB, err := vault.ParseVault(accs.Value[1].Data.GetBinary())
	if err != nil {
		return nil, errors.Wrap(err, "decode vault B")
	}
	return &poolVaultAccounts{
		ATokenVault:  vaultA.TokenVault,
		BTokenVault:  vaultB.TokenVault,
		AVaultLpMint: vaultA.LpMint,
		BVaultLpMint: vaultB.LpMint,
	}, nil
}
