package rag

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// Deduplicator drops chunks whose normalized text was already indexed.
// Whitespace and case differences do not defeat the match.
type Deduplicator struct {
	seen map[string]bool
}

// NewDeduplicator creates an empty Deduplicator
func NewDeduplicator() *Deduplicator {
	return &Deduplicator{seen: make(map[string]bool)}
}

// Hash returns the dedup key for a piece of text
func (d *Deduplicator) Hash(text string) string {
	normalized := strings.ToLower(strings.Join(strings.Fields(text), " "))
	sum := sha256.Sum256([]byte(normalized))
	return hex.EncodeToString(sum[:])
}

// Add records the text and reports whether it was new
func (d *Deduplicator) Add(text string) bool {
	h := d.Hash(text)
	if d.seen[h] {
		return false
	}
	d.seen[h] = true
	return true
}

// TotalUnique returns the number of distinct texts recorded
func (d *Deduplicator) TotalUnique() int {
	return len(d.seen)
}
