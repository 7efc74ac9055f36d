package common

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
)

// MakeRandURLSafeString generates a random URL-safe string from size bytes of
// CSPRNG entropy, encoded with unpadded base64url. With size=32 the result
// carries 256 bits of entropy.
//
// It returns an error if the random number generator fails.
func MakeRandURLSafeString(size int) (string, error) {
	b := make([]byte, size)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// HashToken returns the SHA-256 digest of a raw token as a lowercase hex
// string (64 characters). The digest, never the raw token, is what gets
// persisted and used as a lookup key.
func HashToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}
