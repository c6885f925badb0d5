package commands

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/nonibytes/pgsearch/internal/audit"
	"github.com/nonibytes/pgsearch/internal/cliutil"
	"github.com/nonibytes/pgsearch/pgsearch"
	"github.com/nonibytes/pgsearch/pgsearch/storage/postgres"
	"github.com/nonibytes/pgsearch/pgsearch/storage/sqlbuilder"
)

type compileOptions struct {
	scope string
	style string
}

func NewCompileCmd(env *Env) *cobra.Command {
	var opts compileOptions

	cmd := &cobra.Command{
		Use:   "compile --scope table.scope <query>",
		Short: "Print the SQL fragment a scope compiles to",
		Long: `Compile a search scope for a query and print the fragment.

Examples:
  pgsearch compile --scope articles.search_full "hello world"
  pgsearch compile --scope articles.search_full --style named --format json "café"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			query := cliutil.QueryFromArgs(args)
			start := time.Now()
			frag, err := compileScope(env, opts.scope, opts.style, query)
			env.record(cmd.Context(), auditEntry("compile", opts.scope, query, opts.style, start, frag, 0, err))
			if err != nil {
				return err
			}
			printFragment(cmd.OutOrStdout(), env.format(), frag)
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.scope, "scope", "s", "", "scope reference: table.scope")
	cmd.Flags().StringVar(&opts.style, "style", "dollar", "placeholder style: dollar|named")
	_ = cmd.MarkFlagRequired("scope")
	return cmd
}

func compileScope(env *Env, ref, style, query string) (*pgsearch.Fragment, error) {
	named := sqlbuilder.ParsePlaceholderStyle(style) == sqlbuilder.PlaceholderNamed
	cat, err := env.Catalog(postgres.Dialect{Named: named})
	if err != nil {
		return nil, err
	}
	m, scope, err := cat.Resolve(ref)
	if err != nil {
		return nil, err
	}
	return m.Scope(scope, query)
}

func printFragment(w io.Writer, format cliutil.OutputFormat, frag *pgsearch.Fragment) {
	switch format {
	case cliutil.FormatJSON:
		cliutil.PrintJSON(w, frag)
	case cliutil.FormatSQL:
		fmt.Fprintln(w, frag.Statement(0)+";")
		for _, b := range frag.Binds {
			fmt.Fprintf(w, "-- %s = %v\n", placeholder(frag.Style, b), b.Value)
		}
	default:
		fmt.Fprintf(w, "select:   %s\n", frag.Select)
		fmt.Fprintf(w, "from:     %s\n", frag.From)
		fmt.Fprintf(w, "where:    %s\n", frag.Where)
		fmt.Fprintf(w, "order by: %s\n", frag.OrderBy)
		if len(frag.Binds) > 0 {
			fmt.Fprintln(w, "binds:")
			for _, b := range frag.Binds {
				fmt.Fprintf(w, "  %s = %q\n", placeholder(frag.Style, b), fmt.Sprint(b.Value))
			}
		}
	}
}

func placeholder(style sqlbuilder.PlaceholderStyle, b sqlbuilder.Bind) string {
	if style == sqlbuilder.PlaceholderNamed {
		return "@" + b.Name
	}
	return fmt.Sprintf("$%d", b.Position)
}

func auditEntry(command, scope, query, style string, start time.Time, frag *pgsearch.Fragment, rows int, err error) audit.Entry {
	e := audit.Entry{
		Start:   start,
		End:     time.Now(),
		Command: command,
		Scope:   scope,
		Query:   query,
		Style:   sqlbuilder.ParsePlaceholderStyle(style).String(),
		Rows:    rows,
		Success: err == nil,
	}
	if frag != nil {
		e.Binds = len(frag.Binds)
	}
	if err != nil {
		e.Error = err.Error()
	}
	return e
}
