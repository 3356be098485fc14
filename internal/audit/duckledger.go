package audit

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/marcboeker/go-duckdb"
)

// DuckLedger stores events in a DuckDB database. An empty path keeps the
// database in memory.
type DuckLedger struct {
	db     *sql.DB
	dbPath string
	mu     sync.Mutex
}

// OpenDuckLedger opens or creates the ledger at dbPath.
func OpenDuckLedger(dbPath string) (*DuckLedger, error) {
	if dbPath != "" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
			return nil, fmt.Errorf("creating ledger directory: %w", err)
		}
	}

	connector, err := duckdb.NewConnector(dbPath, func(execer driver.ExecerContext) error {
		pragmas := []string{
			"PRAGMA threads=2",
			"PRAGMA enable_progress_bar=false",
		}
		for _, pragma := range pragmas {
			if _, err := execer.ExecContext(context.Background(), pragma, nil); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create DuckDB connector: %w", err)
	}

	db := sql.OpenDB(connector)
	// A single connection keeps an in-memory database shared across calls.
	db.SetMaxOpenConns(1)

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS relay_events (
			kind      VARCHAR NOT NULL,
			code      VARCHAR NOT NULL,
			file_name VARCHAR,
			size      BIGINT NOT NULL DEFAULT 0,
			at        TIMESTAMP NOT NULL
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create table: %w", err)
	}

	return &DuckLedger{db: db, dbPath: dbPath}, nil
}

// Record appends ev to the ledger.
func (l *DuckLedger) Record(ctx context.Context, ev Event) error {
	if ev.At.IsZero() {
		ev.At = time.Now()
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	_, err := l.db.ExecContext(ctx,
		`INSERT INTO relay_events (kind, code, file_name, size, at) VALUES (?, ?, ?, ?, ?)`,
		string(ev.Kind), ev.Code, ev.FileName, ev.Size, ev.At.UTC(),
	)
	if err != nil {
		return fmt.Errorf("recording %s event: %w", ev.Kind, err)
	}
	return nil
}

// Summary aggregates the ledger per event kind.
func (l *DuckLedger) Summary(ctx context.Context) (*Summary, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	rows, err := l.db.QueryContext(ctx, `
		SELECT kind, COUNT(*), CAST(COALESCE(SUM(size), 0) AS BIGINT)
		FROM relay_events
		GROUP BY kind
	`)
	if err != nil {
		return nil, fmt.Errorf("querying totals: %w", err)
	}
	defer rows.Close()

	sum := &Summary{Totals: make(map[Kind]KindTotals)}
	for rows.Next() {
		var kind string
		var t KindTotals
		if err := rows.Scan(&kind, &t.Count, &t.Bytes); err != nil {
			return nil, fmt.Errorf("scanning totals: %w", err)
		}
		sum.Totals[Kind(kind)] = t
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	var first, last sql.NullTime
	if err := l.db.QueryRowContext(ctx, `SELECT MIN(at), MAX(at) FROM relay_events`).Scan(&first, &last); err != nil {
		return nil, fmt.Errorf("querying range: %w", err)
	}
	if first.Valid {
		sum.FirstSeen = &first.Time
	}
	if last.Valid {
		sum.LastSeen = &last.Time
	}

	return sum, nil
}

// Close closes the underlying database.
func (l *DuckLedger) Close() error {
	return l.db.Close()
}

var _ Recorder = (*DuckLedger)(nil)
