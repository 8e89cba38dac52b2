// Package ledger keeps a durable record of items the bot already
// delivered, keyed by a content fingerprint. A read error degrades to
// "not seen" so a broken store costs an occasional repeat instead of
// a stalled pipeline.
package ledger

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"
)

// Ledger answers "was this delivered before?" and records deliveries.
// Implementations must be safe for concurrent use and idempotent on
// MarkSeen.
type Ledger interface {
	HasSeen(ctx context.Context, title, source string) bool
	MarkSeen(ctx context.Context, title, source string) error
	Close() error
}

// Record is one delivered item as persisted by the ledger.
type Record struct {
	Fingerprint string    `json:"fingerprint"`
	Title       string    `json:"title"`
	Source      string    `json:"source"`
	SentAt      time.Time `json:"sent_at"`
}

// Fingerprint derives the ledger key from an item's original
// (pre-translation) title and its source endpoint. Same title + same
// source always produce the same key; 128 bits keep collisions
// negligible.
func Fingerprint(title, source string) string {
	normalized := strings.ToLower(strings.TrimSpace(title))
	normalized = strings.Join(strings.Fields(normalized), " ")

	h := sha256.New()
	h.Write([]byte(normalized + "|" + source))
	return hex.EncodeToString(h.Sum(nil))[:32]
}
