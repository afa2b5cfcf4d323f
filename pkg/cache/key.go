package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// maxPartLen is the longest key part kept verbatim; longer parts are hashed.
const maxPartLen = 128

// Key builds a namespaced cache key: namespace:part1:part2...
// Parts longer than 128 bytes are replaced by their SHA-256 hash so keys
// stay bounded no matter how large a query string gets.
func Key(namespace string, parts ...string) string {
	var b strings.Builder
	b.WriteString(namespace)
	for _, p := range parts {
		b.WriteByte(':')
		if len(p) > maxPartLen {
			p = Hash([]byte(p))
		}
		b.WriteString(p)
	}
	return b.String()
}

// Namespace returns the namespace portion of a key built by [Key].
func Namespace(key string) string {
	if i := strings.IndexByte(key, ':'); i >= 0 {
		return key[:i]
	}
	return key
}

// Hash computes a SHA-256 hash of the input data.
// Returns the full 64-character hex string.
func Hash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}
