package cliopt

import (
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix namespaces environment overrides: PGSEARCH_DSN, PGSEARCH_PG_SCHEMA, ...
const EnvPrefix = "PGSEARCH"

// Flag names double as viper keys.
const (
	KeyConfig    = "config"
	KeyDSN       = "dsn"
	KeyPGSchema  = "pg-schema"
	KeyFormat    = "format"
	KeyLogLevel  = "log-level"
	KeyLogFormat = "log-format"
	KeyAuditDB   = "audit-db"
)

// GlobalOptions are resolved once at the CLI root and passed to subcommands.
//
// NOTE: This is a separate package to avoid import cycles between the root
// command and per-command code.
type GlobalOptions struct {
	Config    string
	DSN       string
	PGSchema  string
	Format    string
	LogLevel  string
	LogFormat string
	AuditDB   string
}

func DefaultGlobalOptions() GlobalOptions {
	return GlobalOptions{
		Config:    "pgsearch.yaml",
		Format:    "pretty",
		LogLevel:  "warn",
		LogFormat: "text",
	}
}

// BindGlobalFlags registers the global flags on fs and binds them, plus
// their PGSEARCH_* environment variables, to v. Explicit flags win over
// the environment, which wins over defaults.
func BindGlobalFlags(fs *pflag.FlagSet, v *viper.Viper, g GlobalOptions) error {
	fs.String(KeyConfig, g.Config, "scope definitions file (YAML)")
	fs.String(KeyDSN, g.DSN, "postgres DSN (search, doctor)")
	fs.String(KeyPGSchema, g.PGSchema, "postgres schema pinned first on search_path")
	fs.String(KeyFormat, g.Format, "output format: pretty|json|sql")
	fs.String(KeyLogLevel, g.LogLevel, "log level: debug|info|warn|error")
	fs.String(KeyLogFormat, g.LogFormat, "log format: text|json")
	fs.String(KeyAuditDB, g.AuditDB, "sqlite file recording compile and search invocations")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return v.BindPFlags(fs)
}

func Resolve(v *viper.Viper) GlobalOptions {
	return GlobalOptions{
		Config:    v.GetString(KeyConfig),
		DSN:       v.GetString(KeyDSN),
		PGSchema:  v.GetString(KeyPGSchema),
		Format:    v.GetString(KeyFormat),
		LogLevel:  v.GetString(KeyLogLevel),
		LogFormat: v.GetString(KeyLogFormat),
		AuditDB:   v.GetString(KeyAuditDB),
	}
}
