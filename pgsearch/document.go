package pgsearch

import (
	"fmt"

	"github.com/nonibytes/pgsearch/pgsearch/storage/sqlbuilder"
)

// columnRef never yields NULL: to_tsvector(NULL) would drop the column
// from matching and NULL || text would blank the whole document.
func (c *compiler) columnRef(col Column) sqlbuilder.Trusted {
	return sqlbuilder.Trusted(fmt.Sprintf("coalesce(%s.%s, '')", c.table, c.dialect.QuoteIdent(col.Name)))
}

func (c *compiler) normalize(expr sqlbuilder.Trusted) sqlbuilder.Trusted {
	if c.spec.Normalizes(Diacritics) {
		return "unaccent(" + expr + ")"
	}
	return expr
}

// document is the space separated concatenation of every column, in
// configuration order. It feeds the similarity strategy.
func (c *compiler) document() sqlbuilder.Trusted {
	refs := make([]sqlbuilder.Trusted, len(c.spec.Against))
	for i, col := range c.spec.Against {
		refs[i] = c.columnRef(col)
	}
	return sqlbuilder.Join(refs, " || ' ' || ")
}

// dictionaryArg is the leading regconfig argument of to_tsvector and
// to_tsquery. Vectors and queries share one bind so they cannot disagree.
// CAST keeps the placeholder delimited for named-parameter rewriters.
func (c *compiler) dictionaryArg() sqlbuilder.Trusted {
	if c.spec.Dictionary == "" {
		return ""
	}
	return "CAST(" + c.b.Named(bindDictionary, c.spec.Dictionary) + " AS regconfig), "
}

func (c *compiler) tsvector(col Column) sqlbuilder.Trusted {
	v := sqlbuilder.Trusted(fmt.Sprintf("to_tsvector(%s%s)", c.dictionaryArg(), c.normalize(c.columnRef(col))))
	if col.Weight == "" {
		return v
	}
	return sqlbuilder.Trusted(fmt.Sprintf("setweight(%s, %s)", v, c.dialect.QuoteLiteral(col.Weight)))
}

// tsdocument is the union of the per-column weighted vectors.
func (c *compiler) tsdocument() sqlbuilder.Trusted {
	vecs := make([]sqlbuilder.Trusted, len(c.spec.Against))
	for i, col := range c.spec.Against {
		vecs[i] = c.tsvector(col)
	}
	return sqlbuilder.Join(vecs, " || ")
}
