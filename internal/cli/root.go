package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/nonibytes/pgsearch/internal/cli/commands"
	"github.com/nonibytes/pgsearch/internal/cliopt"
	"github.com/nonibytes/pgsearch/internal/logging"
)

// NewRootCmd builds the command tree with its own viper instance.
func NewRootCmd() *cobra.Command {
	v := viper.New()
	env := &commands.Env{}

	root := &cobra.Command{
		Use:   "pgsearch",
		Short: "Compile named full-text search scopes to postgres SQL",
		Long: `pgsearch compiles declarative search scopes (columns, weights, strategies,
normalizations) into parameterized postgres fragments, and can run them.

Scopes are read from a YAML file (--config, default pgsearch.yaml).
Every global flag can also be set as PGSEARCH_<FLAG>, e.g. PGSEARCH_DSN.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			env.Opts = cliopt.Resolve(v)
			env.Logger = logging.Setup(logging.Config{
				Level:  env.Opts.LogLevel,
				Format: env.Opts.LogFormat,
				Output: cmd.ErrOrStderr(),
			})
			return nil
		},
	}

	cobra.CheckErr(cliopt.BindGlobalFlags(root.PersistentFlags(), v, cliopt.DefaultGlobalOptions()))

	root.AddCommand(
		commands.NewValidateCmd(env),
		commands.NewCompileCmd(env),
		commands.NewSearchCmd(env),
		commands.NewDoctorCmd(env),
		commands.NewHistoryCmd(env),
	)
	return root
}

// Execute runs the CLI and returns an exit code.
func Execute(argv []string) int {
	root := NewRootCmd()
	root.SetArgs(argv)
	if err := root.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "pgsearch: %v\n", err)
		return 1
	}
	return 0
}
