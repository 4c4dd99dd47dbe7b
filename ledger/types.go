// Package ledger abstracts the distributed ledger the faucet protocol runs
// on: typed read access to accounts, an owner scan for record discovery, and
// atomic submit-and-confirm of signed transactions. The JSON-RPC client in
// this package is the production implementation; tests use MockService or the
// in-process simulator from the faucet package.
package ledger

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/powfaucetorg/libpowfaucet-go/keys"
)

// Account is the ledger-side state of one address.
type Account struct {
	Owner   keys.Address // program that owns the account data
	Balance uint64
	Data    []byte
}

// KeyedAccount pairs an account with its address, as returned by scans.
type KeyedAccount struct {
	Address keys.Address
	Account Account
}

// AccountMeta describes how one account participates in an instruction.
type AccountMeta struct {
	Address  keys.Address
	Signer   bool
	Writable bool
}

// Instruction is a single program invocation within a transaction.
type Instruction struct {
	ProgramID keys.Address
	Accounts  []AccountMeta
	Data      []byte
}

// Blockhash is the recency proof attached to every transaction.
type Blockhash [32]byte

// Transfer records one balance movement observed while executing a
// transaction. The claim flow uses it to surface the amount actually paid,
// which can be less than the nominal reward when the pool is underfunded.
type Transfer struct {
	From   keys.Address
	To     keys.Address
	Amount uint64
}

// TxResult is the confirmed outcome of a submitted transaction.
type TxResult struct {
	ID        string
	Transfers []Transfer
}

// Signer is the capability to co-sign a transaction. Both the payer wallet
// and ephemeral claimant identities satisfy it (see keys.Keypair).
type Signer interface {
	Address() keys.Address
	Sign(msg []byte) []byte
}

// Transaction is an ordered list of instructions executed atomically by the
// ledger. Either every effect lands or none do; the faucet's anti-replay
// guarantee depends on that.
type Transaction struct {
	Payer        keys.Address
	Blockhash    Blockhash
	Instructions []Instruction

	sigs map[keys.Address][]byte
}

// NewTransaction builds an unsigned transaction paid for by payer.
func NewTransaction(payer keys.Address, blockhash Blockhash, instrs ...Instruction) *Transaction {
	return &Transaction{
		Payer:        payer,
		Blockhash:    blockhash,
		Instructions: instrs,
		sigs:         make(map[keys.Address][]byte),
	}
}

// RequiredSigners returns the deduplicated list of addresses that must sign:
// the payer first, then every instruction account flagged as a signer, in
// encounter order.
func (t *Transaction) RequiredSigners() []keys.Address {
	seen := map[keys.Address]bool{t.Payer: true}
	out := []keys.Address{t.Payer}
	for _, ins := range t.Instructions {
		for _, m := range ins.Accounts {
			if m.Signer && !seen[m.Address] {
				seen[m.Address] = true
				out = append(out, m.Address)
			}
		}
	}
	return out
}

// Message returns the canonical byte encoding that signatures cover. The
// encoding is fixed little-endian and must be identical on every client.
func (t *Transaction) Message() []byte {
	var buf bytes.Buffer
	buf.Write(t.Payer[:])
	buf.Write(t.Blockhash[:])
	writeU16(&buf, uint16(len(t.Instructions)))
	for _, ins := range t.Instructions {
		buf.Write(ins.ProgramID[:])
		writeU16(&buf, uint16(len(ins.Accounts)))
		for _, m := range ins.Accounts {
			buf.Write(m.Address[:])
			var flags byte
			if m.Signer {
				flags |= 0x01
			}
			if m.Writable {
				flags |= 0x02
			}
			buf.WriteByte(flags)
		}
		writeU32(&buf, uint32(len(ins.Data)))
		buf.Write(ins.Data)
	}
	return buf.Bytes()
}

// Sign signs the transaction message with each provided signer and stores the
// signatures. It returns ErrMissingSigner if a required signer was not
// provided.
func (t *Transaction) Sign(signers ...Signer) error {
	if t.sigs == nil {
		t.sigs = make(map[keys.Address][]byte)
	}
	msg := t.Message()
	provided := make(map[keys.Address]Signer, len(signers))
	for _, s := range signers {
		provided[s.Address()] = s
	}
	for _, addr := range t.RequiredSigners() {
		s, ok := provided[addr]
		if !ok {
			if _, have := t.sigs[addr]; have {
				continue
			}
			return fmt.Errorf("%w: %s", ErrMissingSigner, addr)
		}
		t.sigs[addr] = s.Sign(msg)
	}
	return nil
}

// Signature returns the stored signature for addr, if any.
func (t *Transaction) Signature(addr keys.Address) ([]byte, bool) {
	sig, ok := t.sigs[addr]
	return sig, ok
}

// VerifySignatures checks that every required signer has produced a valid
// signature over the current message.
func (t *Transaction) VerifySignatures() error {
	msg := t.Message()
	for _, addr := range t.RequiredSigners() {
		sig, ok := t.sigs[addr]
		if !ok {
			return fmt.Errorf("%w: %s", ErrMissingSigner, addr)
		}
		if !keys.Verify(addr, msg, sig) {
			return fmt.Errorf("%w: %s", ErrBadSignature, addr)
		}
	}
	return nil
}

// Encode serializes the fully signed transaction for submission:
// signature section (count + 64-byte signatures in required-signer order)
// followed by the message.
func (t *Transaction) Encode() ([]byte, error) {
	if err := t.VerifySignatures(); err != nil {
		return nil, err
	}
	signers := t.RequiredSigners()
	var buf bytes.Buffer
	buf.WriteByte(byte(len(signers)))
	for _, addr := range signers {
		buf.Write(t.sigs[addr])
	}
	buf.Write(t.Message())
	return buf.Bytes(), nil
}

func writeU16(buf *bytes.Buffer, v uint16) {
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], v)
	buf.Write(b[:])
}

func writeU32(buf *bytes.Buffer, v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	buf.Write(b[:])
}
