package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nonibytes/pgsearch/internal/cliutil"
	"github.com/nonibytes/pgsearch/pgsearch/storage/postgres"
)

type scopeReport struct {
	Name           string   `json:"name"`
	Derived        bool     `json:"derived"`
	Strategies     []string `json:"strategies,omitempty"`
	Normalizations []string `json:"normalizations,omitempty"`
	Dictionary     string   `json:"dictionary,omitempty"`
	Extensions     []string `json:"extensions,omitempty"`
}

type modelReport struct {
	Table      string        `json:"table"`
	PrimaryKey string        `json:"primary_key"`
	Scopes     []scopeReport `json:"scopes"`
}

func NewValidateCmd(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate every scope in the scope file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := env.Catalog(postgres.Dialect{})
			if err != nil {
				return err
			}

			var reports []modelReport
			for _, m := range cat.Models() {
				mr := modelReport{Table: m.Table(), PrimaryKey: m.PrimaryKey()}
				for _, name := range m.Scopes() {
					sr := scopeReport{Name: name}
					spec, ok := m.Spec(name)
					if !ok {
						sr.Derived = true
					} else {
						for _, s := range spec.Strategies {
							sr.Strategies = append(sr.Strategies, string(s))
						}
						for _, n := range spec.Normalizations {
							sr.Normalizations = append(sr.Normalizations, string(n))
						}
						sr.Dictionary = spec.Dictionary
						sr.Extensions = spec.RequiredExtensions()
					}
					mr.Scopes = append(mr.Scopes, sr)
				}
				reports = append(reports, mr)
			}

			out := cmd.OutOrStdout()
			if env.format() == cliutil.FormatJSON {
				cliutil.PrintJSON(out, reports)
				return nil
			}
			for _, mr := range reports {
				fmt.Fprintf(out, "%s (primary key %s)\n", mr.Table, mr.PrimaryKey)
				for _, sr := range mr.Scopes {
					if sr.Derived {
						fmt.Fprintf(out, "  %s: derived\n", sr.Name)
						continue
					}
					fmt.Fprintf(out, "  %s: using %v", sr.Name, sr.Strategies)
					if len(sr.Normalizations) > 0 {
						fmt.Fprintf(out, " normalizing %v", sr.Normalizations)
					}
					if sr.Dictionary != "" {
						fmt.Fprintf(out, " dictionary %s", sr.Dictionary)
					}
					fmt.Fprintln(out)
				}
			}
			return nil
		},
	}
}
