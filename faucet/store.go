package faucet

import (
	"github.com/powfaucetorg/libpowfaucet-go/keys"
	"github.com/powfaucetorg/libpowfaucet-go/ledger"
)

// AccountStore is the account state the program executes against. Update
// runs fn inside one atomic transaction: if fn returns an error, every
// mutation it made is rolled back. That transactionality is what makes a
// Claim all-or-nothing.
type AccountStore interface {
	// View runs fn with read-only access.
	View(fn func(StoreTx) error) error

	// Update runs fn atomically; any error discards all of fn's writes.
	Update(fn func(StoreTx) error) error

	// Close releases the underlying resources.
	Close() error
}

// StoreTx is the account access handed to program logic inside a store
// transaction.
type StoreTx interface {
	// Account returns the account at addr, or nil if none exists.
	Account(addr keys.Address) (*ledger.Account, error)

	// SetAccount writes the account at addr.
	SetAccount(addr keys.Address, acct *ledger.Account) error

	// Range calls fn for every existing account, in no particular order.
	Range(fn func(addr keys.Address, acct *ledger.Account) error) error
}

// balance reads the spendable balance at addr, treating absent accounts as
// zero, which matches how the ledger reports unfunded derived addresses.
func balance(tx StoreTx, addr keys.Address) (uint64, error) {
	acct, err := tx.Account(addr)
	if err != nil {
		return 0, err
	}
	if acct == nil {
		return 0, nil
	}
	return acct.Balance, nil
}

// credit adds amount to addr, creating an ownerless account if needed.
func credit(tx StoreTx, addr keys.Address, amount uint64) error {
	acct, err := tx.Account(addr)
	if err != nil {
		return err
	}
	if acct == nil {
		acct = &ledger.Account{}
	}
	acct.Balance += amount
	return tx.SetAccount(addr, acct)
}
