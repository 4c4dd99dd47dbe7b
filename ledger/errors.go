package ledger

import "errors"

var (
	// ErrConnectionFailed indicates the client could not reach the node.
	ErrConnectionFailed = errors.New("ledger: connection failed")

	// ErrInvalidResponse indicates the node returned a malformed response.
	ErrInvalidResponse = errors.New("ledger: invalid response")

	// ErrAccountNotFound indicates no account exists at the address.
	ErrAccountNotFound = errors.New("ledger: account not found")

	// ErrMissingSigner indicates a required co-signer was not provided.
	ErrMissingSigner = errors.New("ledger: missing signer")

	// ErrBadSignature indicates a signature failed verification.
	ErrBadSignature = errors.New("ledger: bad signature")

	// ErrUnknownNetwork indicates a network name with no preset endpoint
	// and no explicit configuration.
	ErrUnknownNetwork = errors.New("ledger: unknown network")
)
