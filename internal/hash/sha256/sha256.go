// Package sha256 derives content digests for generated documents.
package sha256

import (
	"crypto/sha256"
	"encoding/hex"
)

// Digest returns the hex SHA-256 of s.
func Digest(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}

// ETag renders a strong entity tag for s.
func ETag(s string) string {
	return `"` + Digest(s) + `"`
}
