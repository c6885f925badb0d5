package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/nonibytes/pgsearch/internal/audit"
	"github.com/nonibytes/pgsearch/internal/cliopt"
	"github.com/nonibytes/pgsearch/internal/cliutil"
)

func NewHistoryCmd(env *Env) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent compile and search invocations from the audit log",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if env.Opts.AuditDB == "" {
				return fmt.Errorf("missing --%s (or %s_AUDIT_DB)", cliopt.KeyAuditDB, cliopt.EnvPrefix)
			}
			l, err := audit.Open(env.Opts.AuditDB, env.logger())
			if err != nil {
				return err
			}
			defer l.Close()

			entries, err := l.Recent(cmd.Context(), limit)
			if err != nil {
				return fmt.Errorf("read audit log: %w", err)
			}
			printHistory(cmd.OutOrStdout(), env.format(), entries)
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "maximum number of entries")
	return cmd
}

func printHistory(w io.Writer, format cliutil.OutputFormat, entries []audit.Entry) {
	if format == cliutil.FormatJSON {
		if entries == nil {
			entries = []audit.Entry{}
		}
		cliutil.PrintJSON(w, entries)
		return
	}
	for _, e := range entries {
		status := "ok"
		if !e.Success {
			status = "error: " + e.Error
		}
		fmt.Fprintf(w, "%s  %-7s %s %q binds=%d rows=%d %s  %s\n",
			e.Start.UTC().Format("2006-01-02T15:04:05Z"), e.Command, e.Scope, e.Query,
			e.Binds, e.Rows, e.End.Sub(e.Start), status)
	}
	fmt.Fprintf(w, "--- %d entries ---\n", len(entries))
}
