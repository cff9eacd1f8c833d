// Package solana wraps the RPC and layout plumbing the quote SDK needs:
// batched account reads, token account and mint decoding, and the Clock
// sysvar read that supplies on-chain time.
package solana

import "github.com/gagliardetto/solana-go"

// Filter represents a filter for querying accounts by owner and offset
type Filter struct {
	Owner  solana.PublicKey // Account owner to filter by
	Offset uint64           // Byte offset of the owner key in the account layout (memcmp)
}
