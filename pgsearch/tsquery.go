package pgsearch

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/nonibytes/pgsearch/pgsearch/storage/sqlbuilder"
)

// emptyTSQuery stands in for a query without terms. It matches nothing.
const emptyTSQuery sqlbuilder.Trusted = "''::tsquery"

// Terms splits query on whitespace and strips quote and backslash
// characters so a term cannot terminate its tsquery literal early.
// Tokens left empty are dropped.
func Terms(query string) []string {
	fields := strings.Fields(query)
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.Map(func(r rune) rune {
			if r == '\'' || r == '\\' {
				return -1
			}
			return r
		}, f)
		if f != "" {
			out = append(out, f)
		}
	}
	return out
}

// lexeme quotes a term as a tsquery operand.
func lexeme(term string, prefix bool) string {
	q := "'" + term + "'"
	if prefix {
		q += ":*"
	}
	return q
}

// tsquery requires every term (AND).
func (c *compiler) tsquery(terms []string) sqlbuilder.Trusted {
	if len(terms) == 0 {
		return emptyTSQuery
	}
	prefix := c.spec.Normalizes(Prefixes)
	parts := make([]sqlbuilder.Trusted, len(terms))
	for i, t := range terms {
		ph := c.b.Named(bindTermPrefix+strconv.Itoa(i), lexeme(t, prefix))
		parts[i] = sqlbuilder.Trusted(fmt.Sprintf("to_tsquery(%s%s)", c.dictionaryArg(), c.normalize(ph)))
	}
	return sqlbuilder.Join(parts, " && ")
}

// similarityQuery is the raw query string, untokenized.
func (c *compiler) similarityQuery(query string) sqlbuilder.Trusted {
	return c.normalize(c.b.Named(bindQuery, query))
}
