package tracking

import "embed"

// MigrationsFS contains SQL migrations for both PostgreSQL and SQLite.
//
// Root files (data/sql/migrations/*.sql) target PostgreSQL; SQLite variants
// live in data/sql/migrations/sqlite/*.sql. The go-persistence-bun dialect
// loader picks the right set for the connected database.
//
// Usage:
//
//	migrationsFS, _ := fs.Sub(tracking.GetMigrationsFS(), "data/sql/migrations")
//	client.RegisterDialectMigrations(
//	    migrationsFS,
//	    persistence.WithDialectSourceLabel("."),
//	    persistence.WithValidationTargets("postgres", "sqlite"),
//	)
//
//go:embed data/sql/migrations/*.sql data/sql/migrations/sqlite/*.sql
var MigrationsFS embed.FS

// GetMigrationsFS exposes the tracking migrations so host applications can
// register them with go-persistence-bun or another runner.
func GetMigrationsFS() embed.FS {
	return MigrationsFS
}
