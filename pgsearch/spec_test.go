package pgsearch_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nonibytes/pgsearch/pgsearch"
)

func TestValidateDefaults(t *testing.T) {
	spec, err := pgsearch.Validate(pgsearch.Options{Against: pgsearch.Columns("title")})
	require.NoError(t, err)
	assert.Equal(t, []pgsearch.Strategy{pgsearch.Lexical}, spec.Strategies)
	assert.Empty(t, spec.Normalizations)
	assert.Empty(t, spec.RequiredExtensions())
}

func TestValidateCanonicalizes(t *testing.T) {
	spec, err := pgsearch.Validate(pgsearch.Options{
		Against:     []pgsearch.Column{{Name: "title", Weight: " a "}},
		Using:       []pgsearch.Strategy{pgsearch.Similarity, pgsearch.Lexical, pgsearch.Similarity},
		Normalizing: []pgsearch.Normalization{pgsearch.Diacritics, pgsearch.Prefixes},
	})
	require.NoError(t, err)
	assert.Equal(t, "A", spec.Against[0].Weight)
	assert.Equal(t, []pgsearch.Strategy{pgsearch.Lexical, pgsearch.Similarity}, spec.Strategies)
	assert.Equal(t, []pgsearch.Normalization{pgsearch.Prefixes, pgsearch.Diacritics}, spec.Normalizations)
	assert.Equal(t, []string{"pg_trgm", "unaccent"}, spec.RequiredExtensions())
}

func TestValidateErrors(t *testing.T) {
	cases := []struct {
		name string
		opts pgsearch.Options
		key  string
	}{
		{"missing against", pgsearch.Options{}, pgsearch.KeyAgainst},
		{"bad column", pgsearch.Options{Against: pgsearch.Columns("title; drop")}, pgsearch.KeyAgainst},
		{"duplicate column", pgsearch.Options{Against: pgsearch.Columns("a", "a")}, pgsearch.KeyAgainst},
		{"bad weight", pgsearch.Options{Against: []pgsearch.Column{{Name: "a", Weight: "E"}}}, pgsearch.KeyAgainst},
		{"bad strategy", pgsearch.Options{Against: pgsearch.Columns("a"), Using: []pgsearch.Strategy{"dmetaphone"}}, pgsearch.KeyUsing},
		{"bad normalization", pgsearch.Options{Against: pgsearch.Columns("a"), Normalizing: []pgsearch.Normalization{"stems"}}, pgsearch.KeyNormalizing},
		{"rank without placeholder", pgsearch.Options{Against: pgsearch.Columns("a"), RankedBy: "1.0"}, pgsearch.KeyRankedBy},
		{"rank look-alike", pgsearch.Options{Against: pgsearch.Columns("a"), RankedBy: ":tsearch_rank * :tsearch_rank2"}, pgsearch.KeyRankedBy},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := pgsearch.Validate(tc.opts)
			require.Error(t, err)
			assert.True(t, pgsearch.IsKind(err, pgsearch.ErrConfiguration))

			var perr *pgsearch.Error
			require.ErrorAs(t, err, &perr)
			assert.Equal(t, tc.key, perr.Key)
		})
	}
}

func TestValidateUnsupportedStrategyNamesValue(t *testing.T) {
	_, err := pgsearch.Validate(pgsearch.Options{
		Against: pgsearch.Columns("a"),
		Using:   []pgsearch.Strategy{"dmetaphone"},
	})
	assert.ErrorContains(t, err, "key=using, value=dmetaphone")
}
