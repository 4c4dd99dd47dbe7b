package wallet

import "errors"

var (
	// ErrBadKeypairFile indicates the keypair file could not be parsed.
	ErrBadKeypairFile = errors.New("wallet: bad keypair file")

	// ErrEmptyKeypair indicates an attempt to encrypt empty key material.
	ErrEmptyKeypair = errors.New("wallet: empty keypair")

	// ErrDecryptionFailed indicates decryption failed (wrong password or
	// corrupted file).
	ErrDecryptionFailed = errors.New("wallet: decryption failed")

	// ErrChecksumMismatch indicates decryption produced data that fails
	// the integrity checksum.
	ErrChecksumMismatch = errors.New("wallet: checksum mismatch")
)
