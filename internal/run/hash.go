package run

import (
	"crypto/sha256"
	"encoding/hex"
)

// Identity names a run for duplicate detection: the deck title plus a
// content hash. Changing a single byte of deck content yields a distinct
// identity.
type Identity struct {
	Title       string
	ContentHash string
}

// IdentityFor computes the identity of a rendered deck.
func IdentityFor(title, content string) Identity {
	return Identity{Title: title, ContentHash: HashContent(content)}
}

// HashContent returns the hex SHA-256 of deck content. The hash is
// content-based and deterministic; no timestamps or machine-specific data
// participate.
func HashContent(content string) string {
	sum := sha256.Sum256([]byte(content))
	return hex.EncodeToString(sum[:])
}
