package faucet

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"fmt"
	"sync"

	"github.com/mr-tron/base58"

	"github.com/powfaucetorg/libpowfaucet-go/keys"
	"github.com/powfaucetorg/libpowfaucet-go/ledger"
)

// FeePerSignature is the flat fee the simulator debits from the payer for
// each signature on a submitted transaction.
const FeePerSignature = 5000

// SimGenesisHash identifies the simulated network.
const SimGenesisHash = "SimF9rrNcLrsZPTy2EQgRbkqxkBCEWhRx3nqSpiZXGpF"

// Simulator is an in-process ledger.Service that executes submitted
// transactions through Program with per-transaction atomicity. It gives the
// client stack, including the mining scheduler, a real ledger to run against
// in tests and in local development mode.
//
// Confirmation is immediate; there is no forking, but concurrent submitters
// are serialized exactly like they would be by consensus, so races between
// claimants play out faithfully.
type Simulator struct {
	mu      sync.Mutex
	store   AccountStore
	program Program
}

// Compile-time interface check.
var _ ledger.Service = (*Simulator)(nil)

// NewSimulator creates a simulator over the given account store.
func NewSimulator(store AccountStore) *Simulator {
	return &Simulator{store: store}
}

// GetAccount implements ledger.Service.
func (s *Simulator) GetAccount(ctx context.Context, addr keys.Address) (*ledger.Account, error) {
	var out *ledger.Account
	err := s.store.View(func(tx StoreTx) error {
		acct, err := tx.Account(addr)
		if err != nil {
			return err
		}
		out = acct
		return nil
	})
	if err != nil {
		return nil, err
	}
	if out == nil {
		return nil, fmt.Errorf("%w: %s", ledger.ErrAccountNotFound, addr)
	}
	return out, nil
}

// GetBalance implements ledger.Service. Absent accounts report zero.
func (s *Simulator) GetBalance(ctx context.Context, addr keys.Address) (uint64, error) {
	var out uint64
	err := s.store.View(func(tx StoreTx) error {
		acct, err := tx.Account(addr)
		if err != nil {
			return err
		}
		if acct != nil {
			out = acct.Balance
		}
		return nil
	})
	return out, err
}

// ScanAccountsByOwner implements ledger.Service.
func (s *Simulator) ScanAccountsByOwner(ctx context.Context, program keys.Address, dataSize int) ([]ledger.KeyedAccount, error) {
	var out []ledger.KeyedAccount
	err := s.store.View(func(tx StoreTx) error {
		return tx.Range(func(addr keys.Address, acct *ledger.Account) error {
			if acct.Owner != program {
				return nil
			}
			if dataSize >= 0 && len(acct.Data) != dataSize {
				return nil
			}
			out = append(out, ledger.KeyedAccount{Address: addr, Account: *acct})
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// LatestBlockhash implements ledger.Service. The simulator has no blocks, so
// any fresh random value serves as a recency proof.
func (s *Simulator) LatestBlockhash(ctx context.Context) (ledger.Blockhash, error) {
	var bh ledger.Blockhash
	if _, err := rand.Read(bh[:]); err != nil {
		return ledger.Blockhash{}, fmt.Errorf("faucet: blockhash: %w", err)
	}
	return bh, nil
}

// SubmitAndConfirm implements ledger.Service. The transaction's signatures
// are verified, the fee is debited, and every instruction executes inside a
// single store transaction: any failure rolls the whole submission back.
func (s *Simulator) SubmitAndConfirm(ctx context.Context, tx *ledger.Transaction) (*ledger.TxResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := tx.VerifySignatures(); err != nil {
		return nil, err
	}

	signers := make(map[keys.Address]bool)
	for _, addr := range tx.RequiredSigners() {
		signers[addr] = true
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	result := &ledger.TxResult{ID: s.txID(tx)}
	fee := uint64(FeePerSignature) * uint64(len(tx.RequiredSigners()))
	err := s.store.Update(func(st StoreTx) error {
		payer, err := st.Account(tx.Payer)
		if err != nil {
			return err
		}
		if payer == nil || payer.Balance < fee {
			return fmt.Errorf("%w: fee is %d", ErrInsufficientFunds, fee)
		}
		payer.Balance -= fee
		if err := st.SetAccount(tx.Payer, payer); err != nil {
			return err
		}

		for _, ins := range tx.Instructions {
			if ins.ProgramID != ProgramID {
				return fmt.Errorf("%w: %s", ErrUnknownProgram, ins.ProgramID)
			}
			eff, err := s.program.Execute(st, ins, signers)
			if err != nil {
				return err
			}
			result.Transfers = append(result.Transfers, eff.Transfers...)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// RequestAirdrop implements ledger.Service: an unconditional credit, which
// also serves as the unrestricted top-up path for source pools.
func (s *Simulator) RequestAirdrop(ctx context.Context, addr keys.Address, amount uint64) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	err := s.store.Update(func(tx StoreTx) error {
		return credit(tx, addr, amount)
	})
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("airdrop-%s", addr), nil
}

// GenesisHash implements ledger.Service.
func (s *Simulator) GenesisHash(ctx context.Context) (string, error) {
	return SimGenesisHash, nil
}

// txID derives a transaction ID from the payer's signature, like the real
// ledger does.
func (s *Simulator) txID(tx *ledger.Transaction) string {
	if sig, ok := tx.Signature(tx.Payer); ok {
		sum := sha256.Sum256(sig)
		return base58.Encode(sum[:])
	}
	return ""
}
