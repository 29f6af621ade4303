package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// keyVersion is mixed into every key. Bump it when the encoding of a cached
// layout or artifact changes so stale entries stop matching.
const keyVersion = 1

// hashKey returns "prefix:<sha256>" over the versioned JSON encoding of parts.
func hashKey(prefix string, parts ...any) string {
	h := sha256.New()
	fmt.Fprintf(h, "v%d\x00", keyVersion)
	_ = json.NewEncoder(h).Encode(parts)
	return prefix + ":" + hex.EncodeToString(h.Sum(nil))
}

// Hash returns the hex SHA-256 digest of data (64 characters).
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
