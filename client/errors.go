package client

import (
	"errors"
	"strings"

	"github.com/powfaucetorg/libpowfaucet-go/faucet"
	"github.com/powfaucetorg/libpowfaucet-go/ledger"
)

// FailureKind partitions claim/create failures by how callers should react.
type FailureKind int

const (
	// FailureTransport covers submission and network errors. Always
	// retried with the next candidate or identity; never fatal.
	FailureTransport FailureKind = iota

	// FailurePrerequisite covers state preconditions: spec missing, spec
	// already exists, pool underfunded beyond the clamp. Reported to the
	// caller, never fatal to the scheduler.
	FailurePrerequisite

	// FailureProofOfWork means the claimant's prefix was too short. The
	// scheduler pre-filters candidates, so observing this indicates a
	// client-side bug rather than a routine race.
	FailureProofOfWork

	// FailureReplay means the receipt already exists: the claim right is
	// spent, usually by a concurrent claimant. Routine; fall through to
	// the next candidate.
	FailureReplay
)

// String returns the failure kind name.
func (k FailureKind) String() string {
	switch k {
	case FailurePrerequisite:
		return "prerequisite violation"
	case FailureProofOfWork:
		return "proof of work rejected"
	case FailureReplay:
		return "replay rejected"
	default:
		return "transport failure"
	}
}

// Classify maps a submission error onto the failure taxonomy. Errors from
// the in-process simulator match the faucet sentinels directly; errors
// relayed through RPC are recognized by the program's message text.
func Classify(err error) FailureKind {
	switch {
	case errors.Is(err, faucet.ErrReceiptExists):
		return FailureReplay
	case errors.Is(err, faucet.ErrProofOfWorkRejected):
		return FailureProofOfWork
	case errors.Is(err, faucet.ErrSpecExists),
		errors.Is(err, faucet.ErrSpecNotFound),
		errors.Is(err, faucet.ErrInsufficientFunds),
		errors.Is(err, faucet.ErrAccountMismatch):
		return FailurePrerequisite
	case errors.Is(err, ledger.ErrConnectionFailed),
		errors.Is(err, ledger.ErrInvalidResponse):
		return FailureTransport
	}

	msg := err.Error()
	switch {
	case strings.Contains(msg, "receipt already exists"):
		return FailureReplay
	case strings.Contains(msg, "proof of work not met"):
		return FailureProofOfWork
	case strings.Contains(msg, "spec already exists"),
		strings.Contains(msg, "spec not found"),
		strings.Contains(msg, "insufficient funds"):
		return FailurePrerequisite
	default:
		return FailureTransport
	}
}
