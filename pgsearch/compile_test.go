package pgsearch_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nonibytes/pgsearch/pgsearch"
	"github.com/nonibytes/pgsearch/pgsearch/storage/postgres"
	"github.com/nonibytes/pgsearch/pgsearch/storage/sqlbuilder"
)

func target(table string) pgsearch.Target {
	return pgsearch.Target{Table: table, PrimaryKey: "id", Dialect: postgres.Dialect{}}
}

func mustSpec(t *testing.T, o pgsearch.Options) *pgsearch.Spec {
	t.Helper()
	spec, err := pgsearch.Validate(o)
	require.NoError(t, err)
	return spec
}

func TestCompileWeightedLexical(t *testing.T) {
	spec := mustSpec(t, pgsearch.Options{
		Against: []pgsearch.Column{{Name: "title", Weight: "A"}, {Name: "body", Weight: "b"}},
	})

	f := pgsearch.Compile(spec, "hello world", target("articles"))

	tsdoc := `setweight(to_tsvector(coalesce("articles"."title", '')), 'A') || ` +
		`setweight(to_tsvector(coalesce("articles"."body", '')), 'B')`
	tsq := `to_tsquery($1) && to_tsquery($2)`

	assert.Equal(t, `"articles"`, f.From)
	assert.Equal(t, `((`+tsdoc+`) @@ (`+tsq+`))`, f.Where)
	assert.Equal(t, `ts_rank((`+tsdoc+`), (`+tsq+`))`, f.Rank)
	assert.Equal(t, `"articles".*, (`+f.Rank+`) AS rank`, f.Select)
	assert.Equal(t, `rank DESC, "articles"."id" ASC`, f.OrderBy)
	assert.Equal(t, []any{"'hello'", "'world'"}, f.Args())
	assert.Equal(t, sqlbuilder.PlaceholderDollar, f.Style)
}

func TestCompileIsDeterministic(t *testing.T) {
	spec := mustSpec(t, pgsearch.Options{
		Against:     pgsearch.Columns("title", "body"),
		Using:       []pgsearch.Strategy{pgsearch.Similarity, pgsearch.Lexical},
		Normalizing: []pgsearch.Normalization{pgsearch.Diacritics, pgsearch.Prefixes},
		Dictionary:  "english",
	})

	a := pgsearch.Compile(spec, "café au lait", target("public.drinks"))
	b := pgsearch.Compile(spec, "café au lait", target("public.drinks"))
	assert.Equal(t, a, b)
}

func TestCompileCanonicalStrategyOrder(t *testing.T) {
	spec := mustSpec(t, pgsearch.Options{
		Against: pgsearch.Columns("name"),
		Using:   []pgsearch.Strategy{pgsearch.Similarity, pgsearch.Lexical},
	})

	f := pgsearch.Compile(spec, "jon", target("people"))

	doc := `coalesce("people"."name", '')`
	want := `((to_tsvector(` + doc + `)) @@ (to_tsquery($1))) OR ((` + doc + `) % $2)`
	assert.Equal(t, want, f.Where)
	// lexical rank wins when both strategies run
	assert.Equal(t, `ts_rank((to_tsvector(`+doc+`)), (to_tsquery($1)))`, f.Rank)

	require.Len(t, f.Binds, 2)
	assert.Equal(t, "term_0", f.Binds[0].Name)
	assert.Equal(t, "query", f.Binds[1].Name)
	assert.Equal(t, "jon", f.Binds[1].Value)
}

func TestCompileStripsQuotesFromTerms(t *testing.T) {
	spec := mustSpec(t, pgsearch.Options{Against: pgsearch.Columns("body")})

	f := pgsearch.Compile(spec, `it's a\ test '' \`, target("notes"))
	assert.Equal(t, []any{"'its'", "'a'", "'test'"}, f.Args())
	for _, v := range f.Args() {
		inner := strings.Trim(v.(string), "'")
		assert.NotContains(t, inner, "'")
		assert.NotContains(t, inner, `\`)
	}
}

func TestCompileEmptyQueryMatchesNothing(t *testing.T) {
	spec := mustSpec(t, pgsearch.Options{Against: pgsearch.Columns("body")})

	for _, q := range []string{"", "   ", "'' \\"} {
		f := pgsearch.Compile(spec, q, target("notes"))
		assert.Equal(t, "(FALSE)", f.Where, "query %q", q)
		assert.Equal(t, `ts_rank((to_tsvector(coalesce("notes"."body", ''))), (''::tsquery))`, f.Rank)
		assert.Empty(t, f.Binds)
	}
}

func TestCompileSimilarityOnlyWithDiacritics(t *testing.T) {
	spec := mustSpec(t, pgsearch.Options{
		Against:     pgsearch.Columns("first", "last"),
		Using:       []pgsearch.Strategy{pgsearch.Similarity},
		Normalizing: []pgsearch.Normalization{pgsearch.Diacritics},
		Dictionary:  "simple",
	})

	f := pgsearch.Compile(spec, "José", target("people"))

	doc := `unaccent(coalesce("people"."first", '') || ' ' || coalesce("people"."last", ''))`
	assert.Equal(t, `((`+doc+`) % unaccent($1))`, f.Where)
	assert.Equal(t, `similarity(`+doc+`, unaccent($1))`, f.Rank)
	assert.NotContains(t, f.Where, "to_tsvector")
	assert.NotContains(t, f.Rank, "ts_rank")
	// similarity ignores the dictionary
	assert.Equal(t, []any{"José"}, f.Args())
}

func TestCompilePrefixesAndDiacriticsOnTerms(t *testing.T) {
	spec := mustSpec(t, pgsearch.Options{
		Against:     pgsearch.Columns("title"),
		Normalizing: []pgsearch.Normalization{pgsearch.Prefixes, pgsearch.Diacritics},
	})

	f := pgsearch.Compile(spec, "cre bru", target("desserts"))
	assert.Equal(t,
		`((to_tsvector(unaccent(coalesce("desserts"."title", '')))) @@ (to_tsquery(unaccent($1)) && to_tsquery(unaccent($2))))`,
		f.Where)
	assert.Equal(t, []any{"'cre':*", "'bru':*"}, f.Args())
}

func TestCompileSharesDictionaryBind(t *testing.T) {
	spec := mustSpec(t, pgsearch.Options{
		Against:    pgsearch.Columns("title", "body"),
		Dictionary: "english",
	})

	f := pgsearch.Compile(spec, "running dogs", target("posts"))

	assert.Equal(t, 4, strings.Count(f.Where, "CAST($1 AS regconfig)"))
	assert.Equal(t, []any{"english", "'running'", "'dogs'"}, f.Args())
	assert.Contains(t, f.Where, `to_tsquery(CAST($1 AS regconfig), $2) && to_tsquery(CAST($1 AS regconfig), $3)`)
}

func TestCompileRankedBy(t *testing.T) {
	spec := mustSpec(t, pgsearch.Options{
		Against:  pgsearch.Columns("title"),
		RankedBy: ":tsearch_rank * 2 + :tsearch_rank",
	})

	f := pgsearch.Compile(spec, "x", target("t"))
	def := `ts_rank((to_tsvector(coalesce("t"."title", ''))), (to_tsquery($1)))`
	assert.Equal(t, def+" * 2 + "+def, f.Rank)
	assert.NotContains(t, f.Select, pgsearch.RankPlaceholder)
}

func TestCompileNamedPlaceholders(t *testing.T) {
	spec := mustSpec(t, pgsearch.Options{
		Against:    pgsearch.Columns("title"),
		Using:      []pgsearch.Strategy{pgsearch.Lexical, pgsearch.Similarity},
		Dictionary: "english",
	})

	tg := pgsearch.Target{Table: "posts", Dialect: postgres.Dialect{Named: true}}
	f := pgsearch.Compile(spec, "go", tg)

	assert.Equal(t, sqlbuilder.PlaceholderNamed, f.Style)
	assert.Contains(t, f.Where, "to_tsquery(CAST(@dictionary AS regconfig), @term_0)")
	assert.Contains(t, f.Where, "% @query")
	assert.Equal(t, map[string]any{"dictionary": "english", "term_0": "'go'", "query": "go"}, f.NamedArgs())
	assert.Equal(t, `rank DESC, "posts"."id" ASC`, f.OrderBy)
}

func TestCompileUserInputOnlyInBinds(t *testing.T) {
	spec := mustSpec(t, pgsearch.Options{
		Against: pgsearch.Columns("title"),
		Using:   []pgsearch.Strategy{pgsearch.Lexical, pgsearch.Similarity},
	})

	evil := `x'); DROP TABLE posts; --`
	f := pgsearch.Compile(spec, evil, target("posts"))
	assert.NotContains(t, f.Where, "DROP")
	assert.NotContains(t, f.Select, "DROP")
	assert.Contains(t, f.Args(), evil)
}

func TestFragmentStatement(t *testing.T) {
	spec := mustSpec(t, pgsearch.Options{Against: pgsearch.Columns("title")})
	f := pgsearch.Compile(spec, "a", target("posts"))

	stmt := f.Statement(10)
	assert.True(t, strings.HasPrefix(stmt, `SELECT "posts".*, (`))
	assert.Contains(t, stmt, ` FROM "posts" WHERE `)
	assert.True(t, strings.HasSuffix(stmt, `ORDER BY rank DESC, "posts"."id" ASC LIMIT 10`))
	assert.NotContains(t, f.Statement(0), "LIMIT")
}

func TestRankOf(t *testing.T) {
	assert.InDelta(t, 0.5, pgsearch.RankOf(map[string]any{"rank": float32(0.5)}), 1e-6)
	assert.InDelta(t, 0.25, pgsearch.RankOf(map[string]any{"rank": []byte("0.25")}), 1e-9)
	assert.Zero(t, pgsearch.RankOf(map[string]any{}))
}

func TestTerms(t *testing.T) {
	assert.Equal(t, []string{"its", "a", "b"}, pgsearch.Terms("  it's\ta \n b "))
	assert.Empty(t, pgsearch.Terms(`'' \\ '`))
}

func TestCompileDefaultsToPostgresDialect(t *testing.T) {
	spec := mustSpec(t, pgsearch.Options{Against: pgsearch.Columns("title")})

	f := pgsearch.Compile(spec, "go", pgsearch.Target{Table: "public.articles"})
	assert.Equal(t, `"public"."articles"`, f.From)
	assert.Equal(t, `((to_tsvector(coalesce("public"."articles"."title", ''))) @@ (to_tsquery($1)))`, f.Where)
	assert.Equal(t, `rank DESC, "public"."articles"."id" ASC`, f.OrderBy)
	assert.Equal(t, sqlbuilder.PlaceholderDollar, f.Style)
}
