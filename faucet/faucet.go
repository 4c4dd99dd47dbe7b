// Package faucet implements the proof-of-work faucet's on-ledger state
// machine: the three record kinds (Spec, SourcePool, Receipt), the Create
// and Claim transitions, and the deterministic address derivations that tie
// them together. It also provides an in-process Simulator that executes the
// program with the same atomicity the real ledger guarantees, which the
// tests and the local development mode run against.
package faucet

import (
	"encoding/binary"

	"github.com/powfaucetorg/libpowfaucet-go/derive"
	"github.com/powfaucetorg/libpowfaucet-go/keys"
)

// ProgramIDBase58 is the fixed address of the deployed faucet program.
const ProgramIDBase58 = "PoWSNH2hEZogtCg1Zgm51FnkmJperzYDgPK4fvs8taL"

// ProgramID is the decoded program address. Every Spec, SourcePool and
// Receipt account is owned by it.
var ProgramID = mustAddress(ProgramIDBase58)

// Derivation seed tags. These are part of the wire contract.
var (
	seedSpec    = []byte("spec")
	seedSource  = []byte("source")
	seedReceipt = []byte("receipt")
)

// SpecAddress derives the address of the Spec record for a
// (difficulty, reward) pair. The derivation is a pure function of those two
// fields, which is what makes Spec creation idempotent: a second create for
// the same pair lands on the same address and fails as already-exists.
func SpecAddress(difficulty uint8, reward uint64) (keys.Address, uint8, error) {
	return derive.Find(ProgramID, seedSpec, []byte{difficulty}, u64LE(reward))
}

// SourceAddress derives the funding pool address for a Spec. No private key
// exists for it; only the Claim transition, authenticated by the derivation
// bump, can move funds out.
func SourceAddress(spec keys.Address) (keys.Address, uint8, error) {
	return derive.Find(ProgramID, seedSource, spec.Bytes())
}

// ReceiptAddress derives the anti-replay marker address for a claimant at a
// difficulty level. The reward amount is deliberately absent from the seeds:
// one identity can claim from at most one Spec per difficulty, even when
// several Specs share that difficulty with different rewards.
func ReceiptAddress(claimant keys.Address, difficulty uint8) (keys.Address, uint8, error) {
	return derive.Find(ProgramID, seedReceipt, claimant.Bytes(), []byte{difficulty})
}

func u64LE(v uint64) []byte {
	b := make([]byte, 8)
	binary.LittleEndian.PutUint64(b, v)
	return b
}

func mustAddress(s string) keys.Address {
	a, err := keys.AddressFromBase58(s)
	if err != nil {
		panic(err)
	}
	return a
}
