package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"
)

func (a *Adapter) VerifyExtensions(ctx context.Context, db *sql.DB, exts []string) error {
	if len(exts) == 0 {
		return nil
	}

	rows, err := db.QueryContext(ctx, installedExtensionsSQL, exts)
	if err != nil {
		return fmt.Errorf("list extensions: %w", err)
	}
	defer rows.Close()

	installed := map[string]bool{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return fmt.Errorf("scan extension: %w", err)
		}
		installed[name] = true
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("list extensions: %w", err)
	}

	missing := missingExtensions(exts, installed)
	if len(missing) > 0 {
		return fmt.Errorf("missing postgres extensions: %s", strings.Join(missing, ", "))
	}
	return nil
}

func (a *Adapter) CreateExtensions(ctx context.Context, db *sql.DB, exts []string) error {
	for _, ext := range exts {
		stmt := fmt.Sprintf(createExtensionSQL, Dialect{}.QuoteIdent(ext))
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("create extension %s: %w", ext, err)
		}
	}
	return nil
}

func missingExtensions(want []string, installed map[string]bool) []string {
	var missing []string
	for _, ext := range want {
		if !installed[ext] {
			missing = append(missing, ext)
		}
	}
	sort.Strings(missing)
	return missing
}
