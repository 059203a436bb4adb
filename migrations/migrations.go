// Package migrations embeds the per-driver schema migrations so a single
// binary can migrate SQLite and PostgreSQL catalogs.
package migrations

import "embed"

//go:embed sqlite/*.sql
var SqliteMigrations embed.FS

//go:embed postgres/*.sql
var PostgresMigrations embed.FS
