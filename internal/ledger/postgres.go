package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	_ "github.com/lib/pq"
)

// PostgresLedger stores delivered items in PostgreSQL. The connection
// pool is long-lived and shared by every in-flight fetch.
type PostgresLedger struct {
	db *sql.DB
}

// NewPostgresLedger connects, pings and creates the schema.
func NewPostgresLedger(connectionString string) (*PostgresLedger, error) {
	db, err := sql.Open("postgres", connectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	l := &PostgresLedger{db: db}
	if err := l.initSchema(); err != nil {
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	slog.Info("postgres ledger connected")
	return l, nil
}

func (l *PostgresLedger) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS delivered_items (
		id SERIAL PRIMARY KEY,
		fingerprint VARCHAR(64) UNIQUE NOT NULL,
		title TEXT NOT NULL,
		source TEXT NOT NULL,
		sent_at TIMESTAMP NOT NULL DEFAULT NOW()
	);

	CREATE INDEX IF NOT EXISTS idx_delivered_items_fingerprint ON delivered_items(fingerprint);
	CREATE INDEX IF NOT EXISTS idx_delivered_items_sent_at ON delivered_items(sent_at);
	`

	if _, err := l.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// HasSeen reports whether the (title, source) pair was delivered
// before. Storage errors are logged and read as "not seen".
func (l *PostgresLedger) HasSeen(ctx context.Context, title, source string) bool {
	var count int
	query := `SELECT COUNT(*) FROM delivered_items WHERE fingerprint = $1`
	err := l.db.QueryRowContext(ctx, query, Fingerprint(title, source)).Scan(&count)
	if err != nil {
		slog.Warn("ledger read failed, treating as not seen", "error", err)
		return false
	}
	return count > 0
}

// MarkSeen records a delivery. Re-marking the same pair is a no-op:
// the uniqueness constraint absorbs the duplicate insert.
func (l *PostgresLedger) MarkSeen(ctx context.Context, title, source string) error {
	query := `
		INSERT INTO delivered_items (fingerprint, title, source, sent_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (fingerprint) DO NOTHING
	`

	if _, err := l.db.ExecContext(ctx, query, Fingerprint(title, source), title, source); err != nil {
		return fmt.Errorf("failed to mark as seen: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (l *PostgresLedger) Close() error {
	if l.db != nil {
		return l.db.Close()
	}
	return nil
}
