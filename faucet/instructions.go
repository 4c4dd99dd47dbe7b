package faucet

import (
	"encoding/binary"
	"fmt"

	"github.com/powfaucetorg/libpowfaucet-go/keys"
	"github.com/powfaucetorg/libpowfaucet-go/ledger"
)

// Instruction data starts with an 8-byte method discriminator followed by
// the little-endian arguments.
var (
	createDiscriminator = discriminator("method:create")
	claimDiscriminator  = discriminator("method:claim")
)

// EncodeCreateData builds the instruction data for Create.
func EncodeCreateData(difficulty uint8, reward uint64) []byte {
	out := make([]byte, DiscriminatorLen+1+8)
	copy(out, createDiscriminator[:])
	out[DiscriminatorLen] = difficulty
	binary.LittleEndian.PutUint64(out[DiscriminatorLen+1:], reward)
	return out
}

// EncodeClaimData builds the instruction data for Claim. Claim carries no
// arguments: everything is re-derived from the referenced accounts.
func EncodeClaimData() []byte {
	out := make([]byte, DiscriminatorLen)
	copy(out, claimDiscriminator[:])
	return out
}

// Claim account ordering within the instruction. The program addresses
// accounts by position.
const (
	claimIdxPayer = iota
	claimIdxClaimant
	claimIdxReceipt
	claimIdxSpec
	claimIdxSource
	claimAccountCount
)

const (
	createIdxPayer = iota
	createIdxSpec
	createAccountCount
)

// NewCreateInstruction assembles the Create instruction for a
// (difficulty, reward) pair. The spec address must be the derived one; the
// program re-derives and pins it.
func NewCreateInstruction(payer, spec keys.Address, difficulty uint8, reward uint64) ledger.Instruction {
	return ledger.Instruction{
		ProgramID: ProgramID,
		Accounts: []ledger.AccountMeta{
			{Address: payer, Signer: true, Writable: true},
			{Address: spec, Writable: true},
		},
		Data: EncodeCreateData(difficulty, reward),
	}
}

// NewClaimInstruction assembles the Claim instruction. The claimant is a
// signer but not writable: it proves control of the mined identity and is
// never debited.
func NewClaimInstruction(payer, claimant, receipt, spec, source keys.Address) ledger.Instruction {
	return ledger.Instruction{
		ProgramID: ProgramID,
		Accounts: []ledger.AccountMeta{
			{Address: payer, Signer: true, Writable: true},
			{Address: claimant, Signer: true},
			{Address: receipt, Writable: true},
			{Address: spec},
			{Address: source, Writable: true},
		},
		Data: EncodeClaimData(),
	}
}

// parseMethod splits instruction data into its discriminator and arguments.
func parseMethod(data []byte) ([DiscriminatorLen]byte, []byte, error) {
	if len(data) < DiscriminatorLen {
		return [DiscriminatorLen]byte{}, nil, fmt.Errorf("%w: %d bytes", ErrBadInstruction, len(data))
	}
	var d [DiscriminatorLen]byte
	copy(d[:], data[:DiscriminatorLen])
	return d, data[DiscriminatorLen:], nil
}
