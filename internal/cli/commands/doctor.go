package commands

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nonibytes/pgsearch/pgsearch"
	"github.com/nonibytes/pgsearch/pgsearch/config"
	"github.com/nonibytes/pgsearch/pgsearch/storage/postgres"
)

func NewDoctorCmd(env *Env) *cobra.Command {
	var create bool

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check that the extensions configured scopes rely on are installed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cat, err := env.Catalog(postgres.Dialect{})
			if err != nil {
				return err
			}
			exts := catalogExtensions(cat)
			out := cmd.OutOrStdout()
			if len(exts) == 0 {
				fmt.Fprintln(out, "no extensions required")
				return nil
			}

			adapter, err := env.Adapter()
			if err != nil {
				return err
			}
			defer adapter.Close()
			db, err := adapter.Connect(ctx)
			if err != nil {
				return pgsearch.Wrap(pgsearch.ErrSQL, "connect", err)
			}
			defer db.Close()

			if create {
				if err := adapter.CreateExtensions(ctx, db, exts); err != nil {
					return pgsearch.Wrap(pgsearch.ErrSQL, "create extensions", err)
				}
			}
			if err := adapter.VerifyExtensions(ctx, db, exts); err != nil {
				return pgsearch.Wrap(pgsearch.ErrSQL, "verify extensions", err)
			}
			fmt.Fprintf(out, "ok: %s\n", strings.Join(exts, ", "))
			return nil
		},
	}

	cmd.Flags().BoolVar(&create, "create", false, "CREATE EXTENSION IF NOT EXISTS for every missing extension")
	return cmd
}

// catalogExtensions is the sorted union of extensions over all direct scopes.
func catalogExtensions(cat *config.Catalog) []string {
	seen := map[string]bool{}
	for _, m := range cat.Models() {
		for _, name := range m.Scopes() {
			spec, ok := m.Spec(name)
			if !ok {
				continue
			}
			for _, ext := range spec.RequiredExtensions() {
				seen[ext] = true
			}
		}
	}
	exts := make([]string, 0, len(seen))
	for ext := range seen {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}
