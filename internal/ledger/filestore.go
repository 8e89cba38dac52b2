package ledger

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"
)

// FileLedger persists delivered items in a JSON file. It is the
// fallback when no DATABASE_URL is configured and keeps dedup state
// across restarts all the same.
type FileLedger struct {
	filePath string
	mu       sync.RWMutex
	items    map[string]Record
}

// NewFileLedger loads any existing ledger file into memory.
func NewFileLedger(filePath string) (*FileLedger, error) {
	l := &FileLedger{
		filePath: filePath,
		items:    make(map[string]Record),
	}
	if err := l.load(); err != nil {
		return nil, err
	}
	return l, nil
}

func (l *FileLedger) load() error {
	data, err := os.ReadFile(l.filePath)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read ledger file: %w", err)
	}
	if len(data) == 0 {
		return nil
	}

	var records []Record
	if err := json.Unmarshal(data, &records); err != nil {
		return fmt.Errorf("failed to unmarshal ledger: %w", err)
	}
	for _, r := range records {
		l.items[r.Fingerprint] = r
	}
	return nil
}

// save must be called with l.mu held for reading at least.
func (l *FileLedger) save() error {
	records := make([]Record, 0, len(l.items))
	for _, r := range l.items {
		records = append(records, r)
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal ledger: %w", err)
	}
	if err := os.WriteFile(l.filePath, data, 0644); err != nil {
		return fmt.Errorf("failed to write ledger file: %w", err)
	}
	return nil
}

// HasSeen reports whether the pair was delivered before.
func (l *FileLedger) HasSeen(_ context.Context, title, source string) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()

	_, exists := l.items[Fingerprint(title, source)]
	return exists
}

// MarkSeen records a delivery and flushes to disk. Marking the same
// pair again overwrites the single existing record.
func (l *FileLedger) MarkSeen(_ context.Context, title, source string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	fp := Fingerprint(title, source)
	l.items[fp] = Record{
		Fingerprint: fp,
		Title:       title,
		Source:      source,
		SentAt:      time.Now(),
	}
	return l.save()
}

// Close flushes the current state.
func (l *FileLedger) Close() error {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if err := l.save(); err != nil {
		slog.Warn("failed to flush file ledger on close", "error", err)
		return err
	}
	return nil
}
