package pgsearch

import (
	"fmt"
	"strconv"

	"github.com/nonibytes/pgsearch/pgsearch/storage/sqlbuilder"
)

// Fragment is a compiled search: predicate, rank and ordering plus the
// values bound to their placeholders. Fragments are never mutated.
type Fragment struct {
	From    string                      `json:"from"`
	Rank    string                      `json:"rank"`
	Select  string                      `json:"select"`
	Where   string                      `json:"where"`
	OrderBy string                      `json:"order_by"`
	Binds   []sqlbuilder.Bind           `json:"binds"`
	Style   sqlbuilder.PlaceholderStyle `json:"style"`
}

// clone copies f and its binds so a cached fragment never shares state
// with what callers hold.
func (f *Fragment) clone() *Fragment {
	out := *f
	out.Binds = append([]sqlbuilder.Bind(nil), f.Binds...)
	return &out
}

// Args returns the bind values in placeholder order.
func (f *Fragment) Args() []any {
	out := make([]any, len(f.Binds))
	for i, b := range f.Binds {
		out[i] = b.Value
	}
	return out
}

func (f *Fragment) NamedArgs() map[string]any {
	out := make(map[string]any, len(f.Binds))
	for _, b := range f.Binds {
		out[b.Name] = b.Value
	}
	return out
}

// Statement assembles a complete SELECT. limit <= 0 means no LIMIT clause.
func (f *Fragment) Statement(limit int) string {
	sql := fmt.Sprintf("SELECT %s FROM %s WHERE %s ORDER BY %s", f.Select, f.From, f.Where, f.OrderBy)
	if limit > 0 {
		sql += " LIMIT " + strconv.Itoa(limit)
	}
	return sql
}

// RankOf reads the rank column of a materialized row.
func RankOf(row map[string]any) float64 {
	switch v := row[RankColumn].(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int64:
		return float64(v)
	case int:
		return float64(v)
	case string:
		f, _ := strconv.ParseFloat(v, 64)
		return f
	case []byte:
		f, _ := strconv.ParseFloat(string(v), 64)
		return f
	default:
		return 0
	}
}
