// Package wallet persists the payer's signing identity on disk. Two formats
// are supported: the plain JSON byte-array keypair file common ledger
// tooling writes, and an encrypted-at-rest format for wallets that hold real
// funds.
package wallet

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/powfaucetorg/libpowfaucet-go/keys"
)

// LoadKeypair reads a plain keypair file: a JSON array of the 64 private
// key bytes. A leading "~/" in path expands to the home directory.
func LoadKeypair(path string) (*keys.Keypair, error) {
	data, err := os.ReadFile(expandHome(path))
	if err != nil {
		return nil, fmt.Errorf("wallet: read keypair file: %w", err)
	}

	var raw []byte
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBadKeypairFile, err)
	}
	kp, err := keys.KeypairFromBytes(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBadKeypairFile, err)
	}
	return kp, nil
}

// SaveKeypair writes a plain keypair file with owner-only permissions,
// creating parent directories as needed.
func SaveKeypair(path string, kp *keys.Keypair) error {
	path = expandHome(path)
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("wallet: create directory: %w", err)
	}
	data, err := json.Marshal(kp.Bytes())
	if err != nil {
		return fmt.Errorf("wallet: marshal keypair: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("wallet: write keypair file: %w", err)
	}
	return nil
}

// LoadEncryptedKeypair reads and decrypts a keypair.enc file.
func LoadEncryptedKeypair(path, password string) (*keys.Keypair, error) {
	data, err := os.ReadFile(expandHome(path))
	if err != nil {
		return nil, fmt.Errorf("wallet: read keypair file: %w", err)
	}
	raw, err := DecryptKeypair(data, password)
	if err != nil {
		return nil, err
	}
	kp, err := keys.KeypairFromBytes(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBadKeypairFile, err)
	}
	return kp, nil
}

// SaveEncryptedKeypair encrypts the keypair with password and writes it
// with owner-only permissions.
func SaveEncryptedKeypair(path string, kp *keys.Keypair, password string) error {
	path = expandHome(path)
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("wallet: create directory: %w", err)
	}
	encrypted, err := EncryptKeypair(kp.Bytes(), password)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, encrypted, 0600); err != nil {
		return fmt.Errorf("wallet: write keypair file: %w", err)
	}
	return nil
}

func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return path
}
