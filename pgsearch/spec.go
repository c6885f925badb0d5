package pgsearch

import (
	"regexp"
	"strings"
)

// Spec is a validated search configuration. It is immutable and may be
// shared between goroutines.
type Spec struct {
	Against        []Column
	Strategies     []Strategy      // canonical order: tsearch, trigram
	Normalizations []Normalization // canonical order: prefixes, diacritics
	Dictionary     string
	RankedBy       string
}

var columnNameRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

var normalizationOrder = []Normalization{Prefixes, Diacritics}

// Validate checks o and returns its canonical Spec. Query is ignored here;
// it is supplied per compilation.
func Validate(o Options) (*Spec, error) {
	if len(o.Against) == 0 {
		return nil, ConfigurationError(KeyAgainst, "missing against", "")
	}

	seen := make(map[string]bool, len(o.Against))
	against := make([]Column, 0, len(o.Against))
	for _, c := range o.Against {
		if !columnNameRe.MatchString(c.Name) {
			return nil, ConfigurationError(KeyAgainst, "invalid column name (must match ^[A-Za-z_][A-Za-z0-9_]*$)", c.Name)
		}
		if seen[c.Name] {
			return nil, ConfigurationError(KeyAgainst, "duplicate column", c.Name)
		}
		seen[c.Name] = true

		w := strings.ToUpper(strings.TrimSpace(c.Weight))
		switch w {
		case "", "A", "B", "C", "D":
		default:
			return nil, ConfigurationError(KeyAgainst, "unsupported weight for column "+c.Name+" (must be A, B, C or D)", c.Weight)
		}
		against = append(against, Column{Name: c.Name, Weight: w})
	}

	using := o.Using
	if len(using) == 0 {
		using = []Strategy{Lexical}
	}
	wantStrategy := map[Strategy]bool{}
	for _, s := range using {
		switch s {
		case Lexical, Similarity:
			wantStrategy[s] = true
		default:
			return nil, ConfigurationError(KeyUsing, "unsupported strategy", string(s))
		}
	}
	var strategies []Strategy
	for _, s := range strategyOrder {
		if wantStrategy[s] {
			strategies = append(strategies, s)
		}
	}

	wantNorm := map[Normalization]bool{}
	for _, n := range o.Normalizing {
		switch n {
		case Prefixes, Diacritics:
			wantNorm[n] = true
		default:
			return nil, ConfigurationError(KeyNormalizing, "unsupported normalization", string(n))
		}
	}
	var norms []Normalization
	for _, n := range normalizationOrder {
		if wantNorm[n] {
			norms = append(norms, n)
		}
	}

	if o.RankedBy != "" {
		if err := checkRankPlaceholder(o.RankedBy); err != nil {
			return nil, err
		}
	}

	return &Spec{
		Against:        against,
		Strategies:     strategies,
		Normalizations: norms,
		Dictionary:     o.Dictionary,
		RankedBy:       o.RankedBy,
	}, nil
}

// checkRankPlaceholder requires at least one whole-token occurrence of
// RankPlaceholder and rejects look-alikes such as ":tsearch_rank2", which a
// textual substitution would silently mangle.
func checkRankPlaceholder(expr string) error {
	found := 0
	rest := expr
	for {
		i := strings.Index(rest, RankPlaceholder)
		if i < 0 {
			break
		}
		end := i + len(RankPlaceholder)
		if end < len(rest) && isIdentByte(rest[end]) {
			return ConfigurationError(KeyRankedBy, "malformed rank placeholder, expected "+RankPlaceholder, expr)
		}
		found++
		rest = rest[end:]
	}
	if found == 0 {
		return ConfigurationError(KeyRankedBy, "ranked_by must reference "+RankPlaceholder, expr)
	}
	return nil
}

func isIdentByte(c byte) bool {
	return c == '_' || c >= '0' && c <= '9' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}

func (s *Spec) Uses(st Strategy) bool {
	for _, x := range s.Strategies {
		if x == st {
			return true
		}
	}
	return false
}

func (s *Spec) Normalizes(n Normalization) bool {
	for _, x := range s.Normalizations {
		if x == n {
			return true
		}
	}
	return false
}

// RequiredExtensions lists the postgres extensions compiled fragments rely on.
func (s *Spec) RequiredExtensions() []string {
	var exts []string
	if s.Uses(Similarity) {
		exts = append(exts, "pg_trgm")
	}
	if s.Normalizes(Diacritics) {
		exts = append(exts, "unaccent")
	}
	return exts
}
