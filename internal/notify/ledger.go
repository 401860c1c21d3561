// Package notify announces due and overdue tasks on a recurring schedule,
// at most once per task per calendar day. The only state is a small SQLite
// ledger of what was already announced.
package notify

import (
	"database/sql"
	"fmt"
	"net/url"
	"time"

	_ "modernc.org/sqlite"
)

const (
	busyTimeoutMS   = 5000
	maxOpenConns    = 1
	maxIdleConns    = 1
	connMaxLifetime = 5 * time.Minute
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS notified (
  task_id INTEGER NOT NULL,
  day TEXT NOT NULL,
  sent_at TEXT NOT NULL,
  UNIQUE(task_id, day)
);

CREATE INDEX IF NOT EXISTS idx_notified_day ON notified(day);
`

// Ledger records which task was announced on which day.
type Ledger struct {
	db *sql.DB
}

// OpenLedger opens the SQLite ledger and bootstraps the schema.
func OpenLedger(path string) (*Ledger, error) {
	dsn, err := sqliteDSN(path)
	if err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	if err := configureDB(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Ledger{db: db}, nil
}

// Close closes the underlying database connection.
func (l *Ledger) Close() error {
	if l == nil || l.db == nil {
		return nil
	}
	return l.db.Close()
}

// Sent reports whether the task was already announced on the given day.
func (l *Ledger) Sent(taskID int, day string) (bool, error) {
	var exists int
	err := l.db.QueryRow("SELECT 1 FROM notified WHERE task_id = ? AND day = ? LIMIT 1", taskID, day).Scan(&exists)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// MarkSent records the announcement. Marking the same pair twice is a no-op.
func (l *Ledger) MarkSent(taskID int, day string) error {
	_, err := l.db.Exec("INSERT OR IGNORE INTO notified (task_id, day, sent_at) VALUES (?, ?, datetime('now'))", taskID, day)
	return err
}

func configureDB(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL;",
		"PRAGMA synchronous = NORMAL;",
		fmt.Sprintf("PRAGMA busy_timeout = %d;", busyTimeoutMS),
	}
	for _, stmt := range pragmas {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}

	// Tune connection pool for local usage.
	db.SetMaxOpenConns(maxOpenConns)
	db.SetMaxIdleConns(maxIdleConns)
	db.SetConnMaxLifetime(connMaxLifetime)

	return nil
}

func sqliteDSN(path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("ledger path is required")
	}
	u := url.URL{Scheme: "file", Path: path}
	return u.String(), nil
}
