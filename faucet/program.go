package faucet

import (
	"encoding/binary"
	"fmt"

	"github.com/powfaucetorg/libpowfaucet-go/keys"
	"github.com/powfaucetorg/libpowfaucet-go/ledger"
)

// Program is the faucet state machine. Execute applies one instruction to a
// store transaction; the surrounding Update supplies atomicity, so Execute
// only has to raise the right failure and may mutate freely before doing so.
type Program struct{}

// Effect reports the observable side effects of one executed instruction.
type Effect struct {
	Transfers []ledger.Transfer
}

// Execute dispatches an instruction. signers is the set of addresses whose
// transaction signatures verified; the program never sees raw signatures.
func (Program) Execute(tx StoreTx, ins ledger.Instruction, signers map[keys.Address]bool) (*Effect, error) {
	method, args, err := parseMethod(ins.Data)
	if err != nil {
		return nil, err
	}
	switch method {
	case createDiscriminator:
		return executeCreate(tx, ins, args, signers)
	case claimDiscriminator:
		return executeClaim(tx, ins, signers)
	default:
		return nil, fmt.Errorf("%w: unknown method", ErrBadInstruction)
	}
}

// executeCreate creates the immutable Spec record for a
// (difficulty, reward) pair at its derived address.
func executeCreate(tx StoreTx, ins ledger.Instruction, args []byte, signers map[keys.Address]bool) (*Effect, error) {
	if len(ins.Accounts) != createAccountCount {
		return nil, fmt.Errorf("%w: create wants %d accounts, got %d",
			ErrBadInstruction, createAccountCount, len(ins.Accounts))
	}
	if len(args) != 1+8 {
		return nil, fmt.Errorf("%w: create args", ErrBadInstruction)
	}
	difficulty := args[0]
	reward := binary.LittleEndian.Uint64(args[1:])

	payer := ins.Accounts[createIdxPayer].Address
	specAddr := ins.Accounts[createIdxSpec].Address
	if !signers[payer] {
		return nil, fmt.Errorf("%w: payer", ErrMissingSignature)
	}

	// Pin the spec address to its derivation; the caller cannot pick an
	// arbitrary location for the record.
	expected, _, err := SpecAddress(difficulty, reward)
	if err != nil {
		return nil, err
	}
	if specAddr != expected {
		return nil, fmt.Errorf("%w: spec account", ErrAccountMismatch)
	}

	existing, err := tx.Account(specAddr)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: %s", ErrSpecExists, specAddr)
	}

	record := SpecRecord{Difficulty: difficulty, Reward: reward}
	err = tx.SetAccount(specAddr, &ledger.Account{Owner: ProgramID, Data: record.Encode()})
	if err != nil {
		return nil, err
	}
	return &Effect{}, nil
}

// executeClaim performs the one-time payout for a mined identity:
//
//  1. proof-of-work gate on the claimant's encoded address
//  2. pin the source pool to its re-derived address
//  3. transfer min(reward, pool balance) to the payer
//  4. create the receipt, which fails if the claim right is spent
//
// Step 4 failing unwinds steps 1-3 because the whole instruction runs in one
// store transaction.
func executeClaim(tx StoreTx, ins ledger.Instruction, signers map[keys.Address]bool) (*Effect, error) {
	if len(ins.Accounts) != claimAccountCount {
		return nil, fmt.Errorf("%w: claim wants %d accounts, got %d",
			ErrBadInstruction, claimAccountCount, len(ins.Accounts))
	}
	payer := ins.Accounts[claimIdxPayer].Address
	claimant := ins.Accounts[claimIdxClaimant].Address
	receiptAddr := ins.Accounts[claimIdxReceipt].Address
	specAddr := ins.Accounts[claimIdxSpec].Address
	sourceAddr := ins.Accounts[claimIdxSource].Address

	if !signers[payer] {
		return nil, fmt.Errorf("%w: payer", ErrMissingSignature)
	}
	// The claimant must co-sign: knowing an address with a long prefix is
	// worthless without control of its key.
	if !signers[claimant] {
		return nil, fmt.Errorf("%w: claimant", ErrMissingSignature)
	}

	specAcct, err := tx.Account(specAddr)
	if err != nil {
		return nil, err
	}
	if specAcct == nil || specAcct.Owner != ProgramID {
		return nil, fmt.Errorf("%w: %s", ErrSpecNotFound, specAddr)
	}
	spec, err := DecodeSpecRecord(specAcct.Data)
	if err != nil {
		return nil, err
	}

	if !keys.MeetsDifficulty(claimant, spec.Difficulty) {
		return nil, fmt.Errorf("%w: %s has prefix %d, difficulty is %d",
			ErrProofOfWorkRejected, claimant, keys.LeadingPrefixLen(claimant), spec.Difficulty)
	}

	// Re-derive the source pool from the spec's own stored fields and pin
	// the supplied account to it. A claim cannot be pointed at an
	// unrelated funding source.
	expectedSource, sourceBump, err := SourceAddress(specAddr)
	if err != nil {
		return nil, err
	}
	if sourceAddr != expectedSource {
		return nil, fmt.Errorf("%w: source pool", ErrAccountMismatch)
	}
	_ = sourceBump // withdrawal authority; the bump is the program's proof of control

	expectedReceipt, _, err := ReceiptAddress(claimant, spec.Difficulty)
	if err != nil {
		return nil, err
	}
	if receiptAddr != expectedReceipt {
		return nil, fmt.Errorf("%w: receipt", ErrAccountMismatch)
	}

	// Clamp to whatever the pool still holds. An underfunded pool pays out
	// partially (possibly zero) rather than failing; the receipt below is
	// still created, consuming the claim right.
	available, err := balance(tx, sourceAddr)
	if err != nil {
		return nil, err
	}
	paid := spec.Reward
	if available < paid {
		paid = available
	}

	if paid > 0 {
		sourceAcct, err := tx.Account(sourceAddr)
		if err != nil {
			return nil, err
		}
		sourceAcct.Balance -= paid
		if err := tx.SetAccount(sourceAddr, sourceAcct); err != nil {
			return nil, err
		}
		if err := credit(tx, payer, paid); err != nil {
			return nil, err
		}
	}

	// Sole anti-replay defense: creating an account at an occupied address
	// fails, and the failure rolls back the transfer above.
	existing, err := tx.Account(receiptAddr)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: %s", ErrReceiptExists, receiptAddr)
	}
	err = tx.SetAccount(receiptAddr, &ledger.Account{Owner: ProgramID, Data: EncodeReceiptRecord()})
	if err != nil {
		return nil, err
	}

	eff := &Effect{}
	if paid > 0 {
		eff.Transfers = append(eff.Transfers, ledger.Transfer{From: sourceAddr, To: payer, Amount: paid})
	}
	return eff, nil
}
