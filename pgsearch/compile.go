package pgsearch

import (
	"strings"

	"github.com/nonibytes/pgsearch/pgsearch/storage"
	"github.com/nonibytes/pgsearch/pgsearch/storage/postgres"
	"github.com/nonibytes/pgsearch/pgsearch/storage/sqlbuilder"
)

// Target names the table a fragment searches and how to render SQL for it.
type Target struct {
	Table      string // optionally schema qualified: "public.articles"
	PrimaryKey string // defaults to DefaultPrimaryKey
	Dialect    storage.Dialect // defaults to postgres.Dialect{} ($n placeholders)
}

type compiler struct {
	spec    *Spec
	dialect storage.Dialect
	table   sqlbuilder.Trusted
	b       *sqlbuilder.Builder
}

// Compile renders spec and query into a Fragment. It never fails: every
// configuration problem was rejected by Validate, and any query string,
// including the empty one, is acceptable.
func Compile(spec *Spec, query string, t Target) *Fragment {
	pk := t.PrimaryKey
	if pk == "" {
		pk = DefaultPrimaryKey
	}
	if t.Dialect == nil {
		t.Dialect = postgres.Dialect{}
	}
	c := &compiler{
		spec:    spec,
		dialect: t.Dialect,
		table:   sqlbuilder.Trusted(t.Dialect.QuoteIdent(strings.Split(t.Table, ".")...)),
		b:       sqlbuilder.New(t.Dialect.PlaceholderStyle()),
	}

	terms := Terms(query)
	var conds []sqlbuilder.Trusted
	var rank sqlbuilder.Trusted

	if spec.Uses(Lexical) {
		tsdoc := c.tsdocument()
		tsq := c.tsquery(terms)
		if len(terms) == 0 {
			conds = append(conds, "(FALSE)")
		} else {
			conds = append(conds, "(("+tsdoc+") @@ ("+tsq+"))")
		}
		rank = "ts_rank((" + tsdoc + "), (" + tsq + "))"
	}

	if spec.Uses(Similarity) {
		doc := c.normalize(c.document())
		q := c.similarityQuery(query)
		conds = append(conds, "(("+doc+") % "+q+")")
		if rank == "" {
			rank = "similarity(" + doc + ", " + q + ")"
		}
	}

	if spec.RankedBy != "" {
		// ranked_by is scope configuration written by the developer, not user input.
		rank = sqlbuilder.Trusted(strings.ReplaceAll(spec.RankedBy, RankPlaceholder, string(rank)))
	}

	return &Fragment{
		From:    c.table.String(),
		Rank:    rank.String(),
		Select:  c.table.String() + ".*, (" + rank.String() + ") AS " + RankColumn,
		Where:   sqlbuilder.Join(conds, " OR ").String(),
		OrderBy: RankColumn + " DESC, " + c.table.String() + "." + t.Dialect.QuoteIdent(pk) + " ASC",
		Binds:   c.b.Binds(),
		Style:   c.b.Style,
	}
}
