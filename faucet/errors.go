package faucet

import "errors"

var (
	// ErrSpecExists indicates a Spec already exists for the
	// (difficulty, reward) pair. Creation is idempotent: callers report
	// this, they do not treat it as fatal.
	ErrSpecExists = errors.New("faucet: spec already exists")

	// ErrSpecNotFound indicates no Spec record exists at the address.
	ErrSpecNotFound = errors.New("faucet: spec not found")

	// ErrNotSpecRecord indicates account data that is not a Spec record.
	// Scanners skip such accounts.
	ErrNotSpecRecord = errors.New("faucet: not a spec record")

	// ErrProofOfWorkRejected indicates the claimant's address prefix is
	// shorter than the Spec's difficulty. The scheduler pre-filters
	// candidates, so seeing this from a submission means a client bug.
	ErrProofOfWorkRejected = errors.New("faucet: proof of work not met")

	// ErrReceiptExists indicates the claim right for this
	// (claimant, difficulty) pair is already spent. Expected under
	// concurrent claimants; never fatal.
	ErrReceiptExists = errors.New("faucet: receipt already exists")

	// ErrAccountMismatch indicates a supplied account does not match its
	// re-derived address.
	ErrAccountMismatch = errors.New("faucet: account does not match derivation")

	// ErrMissingSignature indicates a required co-signer did not sign.
	ErrMissingSignature = errors.New("faucet: missing required signature")

	// ErrBadInstruction indicates malformed instruction data or accounts.
	ErrBadInstruction = errors.New("faucet: bad instruction")

	// ErrInsufficientFunds indicates the fee payer cannot cover the
	// transaction fee.
	ErrInsufficientFunds = errors.New("faucet: insufficient funds for fee")

	// ErrUnknownProgram indicates a transaction instruction targeting a
	// program the simulator does not host.
	ErrUnknownProgram = errors.New("faucet: unknown program")
)
