package pgsearch

// Strategy selects how rows are matched against the query.
type Strategy string

const (
	// Lexical matches tsvector documents against a conjunctive tsquery.
	Lexical Strategy = "tsearch"
	// Similarity compares the whole document with the query using pg_trgm.
	Similarity Strategy = "trigram"
)

// canonical evaluation order of strategies in compiled predicates
var strategyOrder = []Strategy{Lexical, Similarity}

// Normalization adjusts how terms and documents are normalized.
type Normalization string

const (
	// Prefixes makes every query term match as a prefix (term:*).
	Prefixes Normalization = "prefixes"
	// Diacritics folds accents on both sides with unaccent().
	Diacritics Normalization = "diacritics"
)

// Column is one searchable column with an optional tsvector weight (A-D).
type Column struct {
	Name   string
	Weight string
}

// Options is the raw, unvalidated configuration of one search scope.
type Options struct {
	Against     []Column
	RankedBy    string
	Normalizing []Normalization
	Dictionary  string
	Using       []Strategy
	Query       string
}

// Columns builds an unweighted against list.
func Columns(names ...string) []Column {
	out := make([]Column, len(names))
	for i, n := range names {
		out[i] = Column{Name: n}
	}
	return out
}
