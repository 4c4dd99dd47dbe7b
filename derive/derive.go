// Package derive implements deterministic program-derived addresses.
//
// A derived address is the SHA-256 of the seed bytes, a one-byte bump, the
// owning program's address, and a fixed domain marker. The bump is searched
// downward from 255 until the candidate is not a valid curve point, which
// guarantees no private key can ever exist for the address: transfers out of
// it can only be authorized by the program itself, never by a signature.
//
// Both sides of the claim protocol recompute these derivations bit-exact, so
// the encoding here is part of the wire contract and must not change.
package derive

import (
	"crypto/sha256"
	"fmt"

	"filippo.io/edwards25519"

	"github.com/powfaucetorg/libpowfaucet-go/keys"
)

const (
	// MaxSeeds is the maximum number of seeds in one derivation.
	MaxSeeds = 16

	// MaxSeedLen is the maximum byte length of a single seed.
	MaxSeedLen = 32
)

// marker domain-separates derived addresses from every other SHA-256 use.
var marker = []byte("DerivedProtocolAddress")

// At computes the derived address for a specific bump. It returns ErrOnCurve
// if the candidate happens to be a valid curve point, in which case the bump
// is unusable; Find skips such bumps automatically.
func At(program keys.Address, bump uint8, seeds ...[]byte) (keys.Address, error) {
	if err := checkSeeds(seeds); err != nil {
		return keys.Address{}, err
	}
	h := sha256.New()
	for _, seed := range seeds {
		h.Write(seed)
	}
	h.Write([]byte{bump})
	h.Write(program[:])
	h.Write(marker)

	var addr keys.Address
	copy(addr[:], h.Sum(nil))
	if isOnCurve(addr) {
		return keys.Address{}, fmt.Errorf("%w: bump %d", ErrOnCurve, bump)
	}
	return addr, nil
}

// Find searches bumps from 255 downward and returns the first off-curve
// derived address together with the bump that produced it. The result is a
// pure function of (program, seeds); callers on both sides of the protocol
// land on the same address.
func Find(program keys.Address, seeds ...[]byte) (keys.Address, uint8, error) {
	if err := checkSeeds(seeds); err != nil {
		return keys.Address{}, 0, err
	}
	for bump := 255; bump >= 0; bump-- {
		addr, err := At(program, uint8(bump), seeds...)
		if err == nil {
			return addr, uint8(bump), nil
		}
	}
	return keys.Address{}, 0, ErrBumpExhausted
}

func checkSeeds(seeds [][]byte) error {
	if len(seeds) > MaxSeeds {
		return fmt.Errorf("%w: %d seeds", ErrTooManySeeds, len(seeds))
	}
	for i, seed := range seeds {
		if len(seed) > MaxSeedLen {
			return fmt.Errorf("%w: seed %d is %d bytes", ErrSeedTooLong, i, len(seed))
		}
	}
	return nil
}

// isOnCurve reports whether b decodes as a valid edwards25519 point, i.e.
// whether a keypair could exist for this address.
func isOnCurve(a keys.Address) bool {
	_, err := new(edwards25519.Point).SetBytes(a[:])
	return err == nil
}
