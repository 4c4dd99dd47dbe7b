package wallet

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"fmt"

	"golang.org/x/crypto/argon2"
)

const (
	// Argon2id parameters for keypair encryption.
	Argon2Time        = 3
	Argon2Memory      = 64 * 1024 // 64 MB
	Argon2Parallelism = 4
	Argon2KeyLen      = 32

	// Encryption format sizes.
	SaltLen     = 16
	NonceLen    = 12
	ChecksumLen = 4
)

// EncryptKeypair encrypts raw keypair bytes with Argon2id + AES-256-GCM.
//
// Output format: salt(16B) || nonce(12B) || AES-GCM(argon2id(password,salt), nonce, raw||checksum)
//
// The checksum is SHA256(raw)[:4] for verifying correct decryption.
func EncryptKeypair(raw []byte, password string) ([]byte, error) {
	if len(raw) == 0 {
		return nil, ErrEmptyKeypair
	}

	salt := make([]byte, SaltLen)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("wallet: failed to generate salt: %w", err)
	}

	derivedKey := argon2.IDKey(
		[]byte(password),
		salt,
		Argon2Time,
		Argon2Memory,
		Argon2Parallelism,
		Argon2KeyLen,
	)

	rawHash := sha256.Sum256(raw)
	checksum := rawHash[:ChecksumLen]

	plaintext := make([]byte, len(raw)+ChecksumLen)
	copy(plaintext, raw)
	copy(plaintext[len(raw):], checksum)

	block, err := aes.NewCipher(derivedKey)
	if err != nil {
		return nil, fmt.Errorf("wallet: AES cipher creation failed: %w", err)
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("wallet: GCM creation failed: %w", err)
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("wallet: failed to generate nonce: %w", err)
	}

	ciphertext := gcm.Seal(nil, nonce, plaintext, nil)

	result := make([]byte, 0, SaltLen+NonceLen+len(ciphertext))
	result = append(result, salt...)
	result = append(result, nonce...)
	result = append(result, ciphertext...)

	return result, nil
}

// DecryptKeypair decrypts the keypair.enc format.
//
// Input format: salt(16B) || nonce(12B) || ciphertext
//
// Derives the key with Argon2id, decrypts with AES-256-GCM, then verifies
// the SHA256(raw)[:4] checksum to confirm correct decryption.
func DecryptKeypair(encrypted []byte, password string) ([]byte, error) {
	minLen := SaltLen + NonceLen + ChecksumLen
	if len(encrypted) < minLen {
		return nil, ErrDecryptionFailed
	}

	salt := encrypted[:SaltLen]
	nonce := encrypted[SaltLen : SaltLen+NonceLen]
	ciphertext := encrypted[SaltLen+NonceLen:]

	derivedKey := argon2.IDKey(
		[]byte(password),
		salt,
		Argon2Time,
		Argon2Memory,
		Argon2Parallelism,
		Argon2KeyLen,
	)

	block, err := aes.NewCipher(derivedKey)
	if err != nil {
		return nil, ErrDecryptionFailed
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, ErrDecryptionFailed
	}

	plaintext, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, ErrDecryptionFailed
	}

	if len(plaintext) < ChecksumLen {
		return nil, ErrDecryptionFailed
	}

	raw := plaintext[:len(plaintext)-ChecksumLen]
	storedChecksum := plaintext[len(plaintext)-ChecksumLen:]

	rawHash := sha256.Sum256(raw)
	expectedChecksum := rawHash[:ChecksumLen]

	for i := 0; i < ChecksumLen; i++ {
		if storedChecksum[i] != expectedChecksum[i] {
			return nil, ErrChecksumMismatch
		}
	}

	return raw, nil
}
