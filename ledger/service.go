package ledger

import (
	"context"

	"github.com/powfaucetorg/libpowfaucet-go/keys"
)

// Service is the read/submit interface the faucet core consumes. The
// production implementation is RPCClient; tests use MockService or the
// in-process simulator.
//
// Every read is a stale snapshot: the accounts this protocol touches are
// mutated by uncoordinated concurrent clients, so callers must treat a
// read-then-submit window as racy and losing the race as routine.
type Service interface {
	// GetAccount returns the account at addr, or ErrAccountNotFound.
	GetAccount(ctx context.Context, addr keys.Address) (*Account, error)

	// GetBalance returns the balance at addr; absent accounts report 0.
	GetBalance(ctx context.Context, addr keys.Address) (uint64, error)

	// ScanAccountsByOwner enumerates accounts owned by program. A dataSize
	// >= 0 restricts results to accounts whose data is exactly that length,
	// which is how record kinds are told apart. No ordering is guaranteed.
	ScanAccountsByOwner(ctx context.Context, program keys.Address, dataSize int) ([]KeyedAccount, error)

	// LatestBlockhash returns a recent blockhash for transaction assembly.
	LatestBlockhash(ctx context.Context) (Blockhash, error)

	// SubmitAndConfirm submits a signed transaction and blocks until it is
	// confirmed or rejected. Confirmation is atomic: on error none of the
	// transaction's effects are visible.
	SubmitAndConfirm(ctx context.Context, tx *Transaction) (*TxResult, error)

	// RequestAirdrop asks the network faucet (dev networks only) to credit
	// addr. Used to bootstrap a payer wallet that cannot cover fees yet.
	RequestAirdrop(ctx context.Context, addr keys.Address, amount uint64) (string, error)

	// GenesisHash identifies the network, letting clients refuse to run
	// against the wrong one.
	GenesisHash(ctx context.Context) (string, error)
}
