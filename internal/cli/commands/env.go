package commands

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/nonibytes/pgsearch/internal/audit"
	"github.com/nonibytes/pgsearch/internal/cliopt"
	"github.com/nonibytes/pgsearch/internal/cliutil"
	"github.com/nonibytes/pgsearch/pgsearch"
	"github.com/nonibytes/pgsearch/pgsearch/config"
	"github.com/nonibytes/pgsearch/pgsearch/storage"
	"github.com/nonibytes/pgsearch/pgsearch/storage/postgres"
)

// Env carries what the root command resolved into every subcommand.
type Env struct {
	Opts   cliopt.GlobalOptions
	Logger *slog.Logger
}

func (e *Env) logger() *slog.Logger {
	if e.Logger == nil {
		return slog.Default()
	}
	return e.Logger
}

func (e *Env) format() cliutil.OutputFormat {
	return cliutil.ParseOutputFormat(e.Opts.Format)
}

// Catalog loads the scope file and registers every scope.
func (e *Env) Catalog(dialect storage.Dialect) (*config.Catalog, error) {
	f, err := config.Load(e.Opts.Config)
	if err != nil {
		return nil, err
	}
	return f.Build(dialect, pgsearch.WithLogger(e.logger()))
}

// Adapter returns the database adapter for --dsn.
func (e *Env) Adapter() (storage.Adapter, error) {
	if e.Opts.DSN == "" {
		return nil, fmt.Errorf("missing --%s (or %s_DSN)", cliopt.KeyDSN, cliopt.EnvPrefix)
	}
	return postgres.New(e.Opts.DSN, e.Opts.PGSchema), nil
}

// record appends entry to the audit log when one is configured.
func (e *Env) record(ctx context.Context, entry audit.Entry) {
	if e.Opts.AuditDB == "" {
		return
	}
	l, err := audit.Open(e.Opts.AuditDB, e.logger())
	if err != nil {
		e.logger().Warn("audit log unavailable", "path", e.Opts.AuditDB, "err", err)
		return
	}
	defer l.Close()
	l.Record(ctx, entry)
}
