// Package shortlink generates the compact identifiers behind /s/ URLs.
package shortlink

import (
	"encoding/hex"
	"fmt"

	"github.com/google/uuid"
)

// IDLength is the length of every generated identifier. Lookups stay
// exact-match even if this is ever shortened while longer ids remain
// stored.
const IDLength = 6

// Endpoint is the path segment short links live under.
const Endpoint = "s"

// Generate returns a random identifier of exactly length characters
// that is absent from existing. The caller must pass the complete set
// of currently assigned identifiers, read fresh; the storage-level
// uniqueness constraint covers the remaining write race.
func Generate(existing map[string]struct{}, length int) string {
	for {
		id := newIdentifier(length)
		if _, taken := existing[id]; !taken {
			return id
		}
	}
}

// newIdentifier draws a hex identifier from a fresh UUID.
func newIdentifier(length int) string {
	u := uuid.New()
	digest := hex.EncodeToString(u[:])
	if length > len(digest) {
		length = len(digest)
	}
	return digest[:length]
}

// URL builds the public short URL for an identifier.
func URL(domain, id string) string {
	return fmt.Sprintf("http://%s/%s/%s/", domain, Endpoint, id)
}
