package utils

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math/big"
)

// GenerateSecureToken returns a 64-character hex token from 32 bytes of
// cryptographic randomness. The raw token is sent to the user; only its
// hash is stored.
func GenerateSecureToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

// HashToken returns the hex-encoded SHA-256 digest of a token. The digest
// is deterministic so stored hashes can be looked up by token.
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// GenerateOTP generates a random numeric code of the given length
func GenerateOTP(length int) (string, error) {
	if length <= 0 {
		return "", nil
	}
	const charset = "0123456789"
	b := make([]byte, length)
	for i := range b {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(charset))))
		if err != nil {
			return "", fmt.Errorf("failed to generate code: %w", err)
		}
		b[i] = charset[n.Int64()]
	}
	return string(b), nil
}
