package hash

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// SHA256Hex returns the hex-encoded SHA256 hash of the input string.
func SHA256Hex(input string) string {
	h := sha256.Sum256([]byte(input))
	return hex.EncodeToString(h[:])
}

// Prefix returns the first prefixLen characters of SHA256(input).
func Prefix(input string, prefixLen int) string {
	full := SHA256Hex(input)
	if prefixLen <= 0 || prefixLen > len(full) {
		return full
	}
	return full[:prefixLen]
}

// Signature builds a stable cache key from a namespace and its parts.
// Parts are joined with a unit separator before hashing so ("ab","c") and
// ("a","bc") never collide.
func Signature(namespace string, parts ...string) string {
	return namespace + ":" + Prefix(strings.Join(parts, "\x1f"), 32)
}

// ForLog produces a short, irreversible hash of a value (an IP address, an
// API key) for log correlation without writing the raw value.
func ForLog(value string) string {
	return Prefix(value, 12)
}
