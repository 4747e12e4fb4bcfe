package cache

import (
	"crypto/sha256"
	"encoding/hex"
)

// Key hashes an arbitrary string (typically a URL) into a fixed-length
// hex key safe for any backend.
func Key(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}
