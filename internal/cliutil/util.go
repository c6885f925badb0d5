package cliutil

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

type OutputFormat string

const (
	FormatPretty OutputFormat = "pretty"
	FormatJSON   OutputFormat = "json"
	FormatSQL    OutputFormat = "sql"
)

func ParseOutputFormat(s string) OutputFormat {
	switch OutputFormat(strings.ToLower(s)) {
	case FormatPretty, FormatJSON, FormatSQL:
		return OutputFormat(strings.ToLower(s))
	default:
		return FormatPretty
	}
}

func PrintJSON(w io.Writer, v any) {
	b, _ := json.MarshalIndent(v, "", "  ")
	fmt.Fprintln(w, string(b))
}

// QueryFromArgs joins positional arguments into one query string.
func QueryFromArgs(args []string) string {
	return strings.Join(args, " ")
}
