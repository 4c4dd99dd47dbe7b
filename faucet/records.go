package faucet

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"
)

// Record layouts are fixed little-endian with an 8-byte discriminator
// prefix. The discriminator is the first 8 bytes of SHA-256 over a
// namespaced record name, so unrelated accounts that merely share the
// program's address space never decode as faucet records.
const (
	// DiscriminatorLen is the length of the record type tag.
	DiscriminatorLen = 8

	// SpecRecordSize is the full size of a Spec account's data:
	// discriminator + difficulty (1 byte) + reward (8 bytes).
	SpecRecordSize = DiscriminatorLen + 1 + 8

	// ReceiptRecordSize is the full size of a Receipt account's data.
	// Existence is the payload; there is nothing beyond the discriminator.
	ReceiptRecordSize = DiscriminatorLen
)

var (
	specDiscriminator    = discriminator("record:Spec")
	receiptDiscriminator = discriminator("record:Receipt")
)

func discriminator(name string) [DiscriminatorLen]byte {
	sum := sha256.Sum256([]byte(name))
	var d [DiscriminatorLen]byte
	copy(d[:], sum[:DiscriminatorLen])
	return d
}

// SpecRecord is the immutable parameter record identifying one pool.
type SpecRecord struct {
	Difficulty uint8
	Reward     uint64
}

// Encode serializes the record into its fixed on-ledger layout.
func (r SpecRecord) Encode() []byte {
	out := make([]byte, SpecRecordSize)
	copy(out, specDiscriminator[:])
	out[DiscriminatorLen] = r.Difficulty
	binary.LittleEndian.PutUint64(out[DiscriminatorLen+1:], r.Reward)
	return out
}

// DecodeSpecRecord parses account data into a SpecRecord. Size or
// discriminator mismatches return ErrNotSpecRecord so scanners can skip
// unrelated accounts instead of failing.
func DecodeSpecRecord(data []byte) (SpecRecord, error) {
	if len(data) != SpecRecordSize {
		return SpecRecord{}, fmt.Errorf("%w: %d bytes", ErrNotSpecRecord, len(data))
	}
	for i := 0; i < DiscriminatorLen; i++ {
		if data[i] != specDiscriminator[i] {
			return SpecRecord{}, fmt.Errorf("%w: bad discriminator", ErrNotSpecRecord)
		}
	}
	return SpecRecord{
		Difficulty: data[DiscriminatorLen],
		Reward:     binary.LittleEndian.Uint64(data[DiscriminatorLen+1:]),
	}, nil
}

// EncodeReceiptRecord serializes the zero-payload receipt marker.
func EncodeReceiptRecord() []byte {
	out := make([]byte, ReceiptRecordSize)
	copy(out, receiptDiscriminator[:])
	return out
}

// IsReceiptRecord reports whether account data is a receipt marker.
func IsReceiptRecord(data []byte) bool {
	if len(data) != ReceiptRecordSize {
		return false
	}
	for i := 0; i < DiscriminatorLen; i++ {
		if data[i] != receiptDiscriminator[i] {
			return false
		}
	}
	return true
}
