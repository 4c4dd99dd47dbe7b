package config

// validCommitments lists the accepted confirmation commitment levels.
var validCommitments = map[string]bool{
	"processed": true,
	"confirmed": true,
	"finalized": true,
}

// validNetworks lists the recognized network names. "sim" runs against the
// in-process simulator.
var validNetworks = map[string]bool{
	"localnet": true,
	"devnet":   true,
	"mainnet":  true,
	"sim":      true,
}

// ValidateConfig checks that all configuration values are within acceptable
// ranges and returns the first error encountered, or nil if valid.
func ValidateConfig(cfg Config) error {
	if !validNetworks[cfg.Network] {
		return ErrInvalidNetwork
	}
	if cfg.KeypairPath == "" {
		return ErrEmptyKeypairPath
	}
	if !validCommitments[cfg.Commitment] {
		return ErrInvalidCommitment
	}
	return nil
}
