// Package keys implements the signing identities used by the proof-of-work
// faucet protocol: 32-byte ed25519 addresses with base58 text encoding, and
// the keypairs that control them. The leading-prefix measure that gates
// claims also lives here since it is a pure property of the address bytes.
package keys

import (
	"crypto/ed25519"
	"crypto/rand"
	"fmt"

	"github.com/mr-tron/base58"
)

// AddressSize is the byte length of an address (an ed25519 public key).
const AddressSize = 32

// Address is a 32-byte account address. Derived program addresses share this
// type even though no private key exists for them.
type Address [AddressSize]byte

// AddressFromBytes converts a 32-byte slice into an Address.
func AddressFromBytes(b []byte) (Address, error) {
	if len(b) != AddressSize {
		return Address{}, fmt.Errorf("%w: got %d bytes, want %d", ErrInvalidAddress, len(b), AddressSize)
	}
	var a Address
	copy(a[:], b)
	return a, nil
}

// AddressFromBase58 parses a base58-encoded address.
func AddressFromBase58(s string) (Address, error) {
	b, err := base58.Decode(s)
	if err != nil {
		return Address{}, fmt.Errorf("%w: %w", ErrInvalidAddress, err)
	}
	return AddressFromBytes(b)
}

// Bytes returns the raw address bytes.
func (a Address) Bytes() []byte { return a[:] }

// String returns the base58 encoding of the address.
func (a Address) String() string { return base58.Encode(a[:]) }

// IsZero reports whether the address is all zero bytes.
func (a Address) IsZero() bool { return a == Address{} }

// Keypair is an ed25519 signing identity. Both the long-lived payer wallet
// and the ephemeral claimant identities mined by the scheduler are Keypairs.
type Keypair struct {
	pub  ed25519.PublicKey
	priv ed25519.PrivateKey
}

// NewKeypair generates a uniformly random keypair. Generation is deliberately
// unbiased: the cost of producing addresses with long prefixes is the
// protocol's proof of work.
func NewKeypair() (*Keypair, error) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("keys: generate keypair: %w", err)
	}
	return &Keypair{pub: pub, priv: priv}, nil
}

// KeypairFromSeed rebuilds a keypair from a 32-byte ed25519 seed.
func KeypairFromSeed(seed []byte) (*Keypair, error) {
	if len(seed) != ed25519.SeedSize {
		return nil, fmt.Errorf("%w: got %d bytes, want %d", ErrInvalidKeyLength, len(seed), ed25519.SeedSize)
	}
	priv := ed25519.NewKeyFromSeed(seed)
	return &Keypair{pub: priv.Public().(ed25519.PublicKey), priv: priv}, nil
}

// KeypairFromBytes rebuilds a keypair from a 64-byte private key
// (seed || public key), the layout keypair files use on disk.
func KeypairFromBytes(b []byte) (*Keypair, error) {
	if len(b) != ed25519.PrivateKeySize {
		return nil, fmt.Errorf("%w: got %d bytes, want %d", ErrInvalidKeyLength, len(b), ed25519.PrivateKeySize)
	}
	kp, err := KeypairFromSeed(b[:ed25519.SeedSize])
	if err != nil {
		return nil, err
	}
	if !bytesEqual(kp.pub, b[ed25519.SeedSize:]) {
		return nil, fmt.Errorf("%w: public key does not match seed", ErrInvalidKeyLength)
	}
	return kp, nil
}

// Address returns the keypair's public address.
func (k *Keypair) Address() Address {
	var a Address
	copy(a[:], k.pub)
	return a
}

// Sign signs msg with the keypair's private key.
func (k *Keypair) Sign(msg []byte) []byte {
	return ed25519.Sign(k.priv, msg)
}

// Bytes returns the 64-byte private key (seed || public key).
func (k *Keypair) Bytes() []byte {
	out := make([]byte, ed25519.PrivateKeySize)
	copy(out, k.priv)
	return out
}

// Verify reports whether sig is a valid signature of msg by addr.
func Verify(addr Address, msg, sig []byte) bool {
	return ed25519.Verify(ed25519.PublicKey(addr[:]), msg, sig)
}

func bytesEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
