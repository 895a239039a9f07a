package security

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

// Argon2Config carries the tunable Argon2id parameters.
type Argon2Config struct {
	Memory      uint32
	Iterations  uint32
	Parallelism uint8
	SaltLength  uint32
	KeyLength   uint32
}

var argonParams = Argon2Config{
	Memory:      64 * 1024,
	Iterations:  3,
	Parallelism: 4,
	SaltLength:  16,
	KeyLength:   32,
}

// ConfigureArgon2 overrides the package hashing parameters. Zero fields keep
// their defaults. Existing hashes are unaffected since parameters are encoded
// into each hash string.
func ConfigureArgon2(cfg Argon2Config) error {
	if cfg.Memory > 0 {
		argonParams.Memory = cfg.Memory
	}
	if cfg.Iterations > 0 {
		argonParams.Iterations = cfg.Iterations
	}
	if cfg.Parallelism > 0 {
		argonParams.Parallelism = cfg.Parallelism
	}
	if cfg.SaltLength > 0 {
		if cfg.SaltLength < 8 {
			return fmt.Errorf("argon2 salt length must be at least 8 bytes")
		}
		argonParams.SaltLength = cfg.SaltLength
	}
	if cfg.KeyLength > 0 {
		if cfg.KeyLength < 16 {
			return fmt.Errorf("argon2 key length must be at least 16 bytes")
		}
		argonParams.KeyLength = cfg.KeyLength
	}
	return nil
}

// HashPassword derives an Argon2id hash encoded in PHC string format, so
// parameters travel with the hash and can be raised later without breaking
// stored credentials.
func HashPassword(password string) (string, error) {
	params := argonParams

	salt := make([]byte, params.SaltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}

	hash := argon2.IDKey([]byte(password), salt, params.Iterations, params.Memory, params.Parallelism, params.KeyLength)

	encoded := fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, params.Memory, params.Iterations, params.Parallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(hash),
	)
	return encoded, nil
}

// VerifyPassword compares a password against a stored PHC-encoded Argon2id hash.
func VerifyPassword(password, encoded string) (bool, error) {
	if password == "" || encoded == "" {
		return false, nil
	}

	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[1] != "argon2id" {
		return false, fmt.Errorf("invalid password hash format")
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil {
		return false, fmt.Errorf("parse hash version: %w", err)
	}

	var memory, iterations uint32
	var parallelism uint8
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &memory, &iterations, &parallelism); err != nil {
		return false, fmt.Errorf("parse hash parameters: %w", err)
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return false, fmt.Errorf("decode salt: %w", err)
	}

	storedHash, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return false, fmt.Errorf("decode hash: %w", err)
	}

	computed := argon2.IDKey([]byte(password), salt, iterations, memory, parallelism, uint32(len(storedHash)))

	return subtle.ConstantTimeCompare(computed, storedHash) == 1, nil
}
