// Package audit records compile and search invocations in a SQLite database.
//
// Writes are best effort: a failed audit write is reported but never fails
// the command that triggered it.
package audit

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

type Entry struct {
	Start   time.Time `json:"start"`
	End     time.Time `json:"end"`
	Command string    `json:"command"` // compile or search
	Scope   string    `json:"scope"`   // table.scope
	Query   string    `json:"query"`
	Style   string    `json:"style"`
	Binds   int       `json:"binds"`
	Rows    int       `json:"rows"`
	Success bool      `json:"success"`
	Error   string    `json:"error,omitempty"`
}

// Logger writes audit entries to a SQLite database.
type Logger struct {
	db  *sql.DB
	log *slog.Logger
}

func Open(path string, log *slog.Logger) (*Logger, error) {
	if log == nil {
		log = slog.Default()
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create audit dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open audit db: %w", err)
	}
	// single writer; sqlite serializes anyway
	db.SetMaxOpenConns(1)

	if err := migrate(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate audit db: %w", err)
	}
	return &Logger{db: db, log: log}, nil
}

func (l *Logger) Close() error {
	return l.db.Close()
}

// Record stores e. Failures are logged, not returned.
func (l *Logger) Record(ctx context.Context, e Entry) {
	success := 0
	if e.Success {
		success = 1
	}
	_, err := l.db.ExecContext(ctx, `
		INSERT INTO invocation (start_ms, end_ms, command, scope, query, style, bind_count, row_count, success, error)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.Start.UnixMilli(), e.End.UnixMilli(), e.Command, e.Scope, e.Query, e.Style,
		e.Binds, e.Rows, success, nilIfEmpty(e.Error),
	)
	if err != nil {
		l.log.Warn("audit log write failed", "err", err)
	}
}

// Recent returns up to n entries, newest first.
func (l *Logger) Recent(ctx context.Context, n int) ([]Entry, error) {
	rows, err := l.db.QueryContext(ctx, `
		SELECT start_ms, end_ms, command, scope, query, style, bind_count, row_count, success, error
		FROM invocation ORDER BY id DESC LIMIT ?`, n)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var (
			e          Entry
			start, end int64
			success    int
			errText    sql.NullString
		)
		if err := rows.Scan(&start, &end, &e.Command, &e.Scope, &e.Query, &e.Style,
			&e.Binds, &e.Rows, &success, &errText); err != nil {
			return nil, err
		}
		e.Start = time.UnixMilli(start)
		e.End = time.UnixMilli(end)
		e.Success = success == 1
		e.Error = errText.String
		out = append(out, e)
	}
	return out, rows.Err()
}

func migrate(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS invocation (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			start_ms   INTEGER NOT NULL,
			end_ms     INTEGER NOT NULL,
			command    TEXT NOT NULL,
			scope      TEXT NOT NULL,
			query      TEXT NOT NULL,
			style      TEXT NOT NULL,
			bind_count INTEGER NOT NULL,
			row_count  INTEGER NOT NULL,
			success    INTEGER NOT NULL,
			error      TEXT
		);
		CREATE INDEX IF NOT EXISTS idx_invocation_start ON invocation(start_ms);
		CREATE INDEX IF NOT EXISTS idx_invocation_scope ON invocation(scope);
	`)
	return err
}

func nilIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
