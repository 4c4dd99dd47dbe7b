package derive

import "errors"

var (
	// ErrTooManySeeds indicates more than MaxSeeds seeds were supplied.
	ErrTooManySeeds = errors.New("derive: too many seeds")

	// ErrSeedTooLong indicates a single seed exceeds MaxSeedLen bytes.
	ErrSeedTooLong = errors.New("derive: seed too long")

	// ErrOnCurve indicates the candidate address for a specific bump is a
	// valid curve point and therefore unusable as a derived address.
	ErrOnCurve = errors.New("derive: address is on curve")

	// ErrBumpExhausted indicates no off-curve address exists for any bump.
	// Cryptographically this should never happen for real inputs.
	ErrBumpExhausted = errors.New("derive: bump seed exhausted")
)
