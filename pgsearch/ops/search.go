package ops

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/nonibytes/pgsearch/pgsearch"
	"github.com/nonibytes/pgsearch/pgsearch/storage/sqlbuilder"
)

const DefaultLimit = 20

// SearchOptions configures a search operation
type SearchOptions struct {
	Limit   int
	Fields  []string // output columns; empty means every column. rank is always kept
	Explain bool
}

// SearchResult is the result of a search operation
type SearchResult struct {
	Rows        []map[string]any
	HasMore     bool
	ExplainSQL  string
	ExplainArgs []any
}

// Search executes a compiled fragment against db and materializes the rows.
func Search(ctx context.Context, db *sql.DB, frag *pgsearch.Fragment, opts SearchOptions) (*SearchResult, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}

	// one extra row tells whether more results exist
	stmt := frag.Statement(limit + 1)
	args := QueryArgs(frag)

	rows, err := db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, pgsearch.Wrap(pgsearch.ErrSQL, "execute search", err)
	}
	defer rows.Close()

	found, err := scanRows(rows)
	if err != nil {
		return nil, pgsearch.Wrap(pgsearch.ErrSQL, "read search rows", err)
	}

	result := &SearchResult{HasMore: len(found) > limit}
	if result.HasMore {
		found = found[:limit]
	}
	if opts.Explain {
		result.ExplainSQL = stmt
		result.ExplainArgs = frag.Args()
	}

	for _, row := range found {
		result.Rows = append(result.Rows, shapeRow(row, opts.Fields))
	}
	return result, nil
}

// QueryArgs returns the arguments to pass alongside frag's SQL through the
// pgx stdlib driver.
func QueryArgs(frag *pgsearch.Fragment) []any {
	if frag.Style == sqlbuilder.PlaceholderNamed {
		return []any{pgx.NamedArgs(frag.NamedArgs())}
	}
	return frag.Args()
}

func scanRows(rows *sql.Rows) ([]map[string]any, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	var out []map[string]any
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}

		row := make(map[string]any, len(cols))
		for i, c := range cols {
			if b, ok := vals[i].([]byte); ok {
				row[c] = string(b)
			} else {
				row[c] = vals[i]
			}
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return out, nil
}

// shapeRow keeps the selected fields plus the rank column.
func shapeRow(row map[string]any, fields []string) map[string]any {
	if len(fields) == 0 {
		return row
	}
	out := make(map[string]any, len(fields)+1)
	for _, f := range fields {
		if v, ok := row[f]; ok {
			out[f] = v
		}
	}
	out[pgsearch.RankColumn] = row[pgsearch.RankColumn]
	return out
}
