package vault

import (
	"crypto/sha256"
	"fmt"

	binary "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
)

var (
	// VaultProgramID is the dynamic vault program.
	VaultProgramID = solana.MustPublicKeyFromBase58("24Uqj9JCLxUeoC3hGfh5W3s9FM9uCHDS2SG3LYwBpyTi")

	accountKeyVault = "Vault"
)

// LockedProfitTracker drips vault profit into the withdrawable balance
// over time so a report does not instantly move the share price.
type LockedProfitTracker struct {
	LastUpdatedLockedProfit uint64
	LastReport              uint64
	LockedProfitDegradation uint64
}

// VaultState is the vault account layout this SDK codes against: the
// fields the share math reads, in a condensed ordering. The deployed
// account carries additional strategy bookkeeping behind these.
type VaultState struct {
	Enabled     uint8
	Bumps       [2]uint8
	TotalAmount uint64
	TokenVault  solana.PublicKey
	FeeVault    solana.PublicKey
	TokenMint   solana.PublicKey
	LpMint      solana.PublicKey
	Base        solana.PublicKey
	Admin       solana.PublicKey
	Operator    solana.PublicKey

	LockedProfitTracker LockedProfitTracker
}

func accountDiscriminator(name string) []byte {
	hash := sha256.Sum256([]byte("account:" + name))
	return hash[:8]
}

// ParseVault decodes a vault account buffer (8-byte discriminator + borsh).
func ParseVault(data []byte) (*VaultState, error) {
	disc := accountDiscriminator(accountKeyVault)
	if len(data) < 8 || string(data[:8]) != string(disc) {
		return nil, fmt.Errorf("not a vault account")
	}
	state := &VaultState{}
	if err := binary.NewBorshDecoder(data[8:]).Decode(state); err != nil {
		return nil, err
	}
	return state, nil
}
