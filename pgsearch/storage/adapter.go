package storage

import (
	"context"
	"database/sql"

	"github.com/nonibytes/pgsearch/pgsearch/storage/sqlbuilder"
)

type Backend string

const (
	BackendPostgres Backend = "postgres"
)

// Dialect is the quoting service the compiler renders SQL through.
type Dialect interface {
	// QuoteIdent quotes a possibly qualified identifier, one part per argument.
	QuoteIdent(parts ...string) string
	// QuoteLiteral quotes a value that already passed validation against a fixed set.
	// Free-form user input must be bound, never quoted.
	QuoteLiteral(v string) string
	PlaceholderStyle() sqlbuilder.PlaceholderStyle
}

// Adapter abstracts database-specific connection and setup
type Adapter interface {
	Backend() Backend
	Dialect() Dialect

	Connect(ctx context.Context) (*sql.DB, error)
	Close() error

	// VerifyExtensions fails when any of exts is not installed.
	VerifyExtensions(ctx context.Context, db *sql.DB, exts []string) error
	CreateExtensions(ctx context.Context, db *sql.DB, exts []string) error
}
