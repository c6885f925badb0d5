package postgres

import (
	"github.com/jackc/pgx/v5"
	"github.com/lib/pq"

	"github.com/nonibytes/pgsearch/pgsearch/storage/sqlbuilder"
)

// Dialect quotes identifiers and literals for PostgreSQL.
type Dialect struct {
	// Named switches compiled fragments to @name placeholders (pgx NamedArgs, GORM).
	Named bool
}

func (d Dialect) QuoteIdent(parts ...string) string {
	return pgx.Identifier(parts).Sanitize()
}

func (d Dialect) QuoteLiteral(v string) string {
	return pq.QuoteLiteral(v)
}

func (d Dialect) PlaceholderStyle() sqlbuilder.PlaceholderStyle {
	if d.Named {
		return sqlbuilder.PlaceholderNamed
	}
	return sqlbuilder.PlaceholderDollar
}
