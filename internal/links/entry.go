package links

import (
	"crypto/sha1" //nolint:gosec // identifier derivation, not security
	"encoding/hex"
	"time"
)

// IDLength is the number of hex characters kept from the derived hash.
const IDLength = 8

// Entry is a normalized link. Entries are never mutated after Normalize returns.
type Entry struct {
	ID       string
	Title    string
	URL      string
	Lane     Lane
	Priority int
	Source   string
	AddedAt  time.Time
}

// DeriveID returns the stable identifier for an entry without an explicit id:
// the first IDLength hex characters of sha1("url|title").
func DeriveID(url, title string) string {
	sum := sha1.Sum([]byte(url + "|" + title)) //nolint:gosec // see import
	return hex.EncodeToString(sum[:])[:IDLength]
}
