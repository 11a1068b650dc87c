package db

import "embed"

// EmbedMigrations holds the SQL migrations for the history metastore.
//
//go:embed migrations/*.sql
var EmbedMigrations embed.FS
