// Package gormscope applies compiled search scopes to GORM queries.
//
//	db.Scopes(gormscope.Search(articles, "search_full", q)).Find(&out)
//
// The model must use a dialect with named placeholders, so the fragment's
// binds survive GORM's own placeholder numbering.
package gormscope

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/nonibytes/pgsearch/pgsearch"
	"github.com/nonibytes/pgsearch/pgsearch/storage/sqlbuilder"
)

// Search compiles scope when the query executes and applies it to db.
// Compilation errors are reported through db.Error.
func Search(m *pgsearch.Model, scope string, args ...any) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		frag, err := m.Scope(scope, args...)
		if err != nil {
			_ = db.AddError(err)
			return db
		}
		return Apply(db.Table(m.Table()), frag)
	}
}

// Apply adds the fragment's select list, predicate and ordering to db.
// The clauses are always named expressions, so fragments without binds
// (an empty query matches nothing) render as raw SQL too.
func Apply(db *gorm.DB, frag *pgsearch.Fragment) *gorm.DB {
	if frag.Style != sqlbuilder.PlaceholderNamed {
		_ = db.AddError(pgsearch.New(pgsearch.ErrConfiguration, "gorm scopes need a model with named placeholders"))
		return db
	}
	vars := []any{frag.NamedArgs()}
	return db.
		Clauses(
			clause.Select{Expression: clause.NamedExpr{SQL: frag.Select, Vars: vars}},
			clause.Where{Exprs: []clause.Expression{clause.NamedExpr{SQL: frag.Where, Vars: vars}}},
		).
		Order(frag.OrderBy)
}
