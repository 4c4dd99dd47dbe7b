package config

import "errors"

var (
	// ErrInvalidNetwork indicates an unrecognized network name.
	ErrInvalidNetwork = errors.New("config: invalid network")

	// ErrEmptyKeypairPath indicates no keypair path was configured.
	ErrEmptyKeypairPath = errors.New("config: keypair path is empty")

	// ErrInvalidCommitment indicates an unrecognized commitment level.
	ErrInvalidCommitment = errors.New("config: invalid commitment")
)
