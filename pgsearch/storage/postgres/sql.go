package postgres

const (
	installedExtensionsSQL = "SELECT extname FROM pg_extension WHERE extname = ANY($1)"
	createExtensionSQL     = "CREATE EXTENSION IF NOT EXISTS %s"
)
