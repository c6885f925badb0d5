package commands

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/nonibytes/pgsearch/internal/cliutil"
	"github.com/nonibytes/pgsearch/pgsearch"
	"github.com/nonibytes/pgsearch/pgsearch/config"
	"github.com/nonibytes/pgsearch/pgsearch/ops"
	"github.com/nonibytes/pgsearch/pgsearch/storage/sqlbuilder"
)

type searchOptions struct {
	scope   string
	limit   int
	fields  []string
	explain bool
}

func NewSearchCmd(env *Env) *cobra.Command {
	var opts searchOptions

	cmd := &cobra.Command{
		Use:   "search --scope table.scope <query>",
		Short: "Run a search scope against postgres",
		Long: `Run a search scope against postgres and print ranked rows.

Examples:
  pgsearch search --dsn postgres://localhost/app --scope articles.search_full "hello"
  pgsearch search --scope people.fuzzy --fields first_name,last_name --limit 5 "jon"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			query := cliutil.QueryFromArgs(args)
			start := time.Now()

			var (
				frag  *pgsearch.Fragment
				res   *ops.SearchResult
				style = sqlbuilder.PlaceholderDollar.String()
			)
			err := func() error {
				adapter, err := env.Adapter()
				if err != nil {
					return err
				}
				defer adapter.Close()

				dialect := adapter.Dialect()
				style = dialect.PlaceholderStyle().String()
				cat, err := env.Catalog(dialect)
				if err != nil {
					return err
				}
				m, scope, err := cat.Resolve(opts.scope)
				if err != nil {
					return err
				}
				frag, err = m.Scope(scope, query)
				if err != nil {
					return err
				}

				db, err := adapter.Connect(ctx)
				if err != nil {
					return pgsearch.Wrap(pgsearch.ErrSQL, "connect", err)
				}
				defer db.Close()
				env.logger().Debug("connected", "backend", adapter.Backend(), "scope", opts.scope)

				if err := adapter.VerifyExtensions(ctx, db, scopeExtensions(cat, opts.scope)); err != nil {
					return pgsearch.Wrap(pgsearch.ErrSQL, "verify extensions (see pgsearch doctor --create)", err)
				}

				res, err = ops.Search(ctx, db, frag, ops.SearchOptions{
					Limit:   opts.limit,
					Fields:  opts.fields,
					Explain: opts.explain,
				})
				return err
			}()

			rows := 0
			if res != nil {
				rows = len(res.Rows)
			}
			env.record(ctx, auditEntry("search", opts.scope, query, style, start, frag, rows, err))
			if err != nil {
				return err
			}

			printSearch(cmd.OutOrStdout(), env.format(), res)
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.scope, "scope", "s", "", "scope reference: table.scope")
	cmd.Flags().IntVarP(&opts.limit, "limit", "n", ops.DefaultLimit, "maximum number of rows")
	cmd.Flags().StringSliceVar(&opts.fields, "fields", nil, "columns to print (rank is always printed)")
	cmd.Flags().BoolVar(&opts.explain, "explain", false, "print the executed SQL")
	_ = cmd.MarkFlagRequired("scope")
	return cmd
}

// scopeExtensions lists what a direct scope needs installed. Derived scopes
// are not known until invoked, so doctor checks the whole catalog instead.
func scopeExtensions(cat *config.Catalog, ref string) []string {
	m, scope, err := cat.Resolve(ref)
	if err != nil {
		return nil
	}
	spec, ok := m.Spec(scope)
	if !ok {
		return nil
	}
	return spec.RequiredExtensions()
}

func printSearch(w io.Writer, format cliutil.OutputFormat, res *ops.SearchResult) {
	if format == cliutil.FormatJSON {
		cliutil.PrintJSON(w, res)
		return
	}
	if res.ExplainSQL != "" {
		fmt.Fprintln(w, "=== SQL ===")
		fmt.Fprintln(w, res.ExplainSQL)
		fmt.Fprintf(w, "args: %v\n\n", res.ExplainArgs)
	}
	for _, row := range res.Rows {
		fmt.Fprintln(w, formatRow(row))
	}
	fmt.Fprintf(w, "\n--- %d results", len(res.Rows))
	if res.HasMore {
		fmt.Fprint(w, ", more available")
	}
	fmt.Fprintln(w, " ---")
}

// formatRow prints the rank first, then the other columns by name.
func formatRow(row map[string]any) string {
	keys := make([]string, 0, len(row))
	for k := range row {
		if k != pgsearch.RankColumn {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	var sb strings.Builder
	fmt.Fprintf(&sb, "%.4f", pgsearch.RankOf(row))
	for _, k := range keys {
		fmt.Fprintf(&sb, "  %s=%v", k, row[k])
	}
	return sb.String()
}
