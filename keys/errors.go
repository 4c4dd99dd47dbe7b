package keys

import "errors"

var (
	// ErrInvalidAddress indicates the input is not a valid 32-byte address.
	ErrInvalidAddress = errors.New("keys: invalid address")

	// ErrInvalidKeyLength indicates a key or seed of the wrong size.
	ErrInvalidKeyLength = errors.New("keys: invalid key length")
)
