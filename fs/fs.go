// Package appfs bundles the files the binaries need at runtime: database
// migrations and email templates.
package appfs

import "embed"

//go:embed migrations all:templates
var FS embed.FS

// MigrationsDir returns the goose migrations directory for a dialect.
func MigrationsDir(dialect string) string {
	return "migrations/" + dialect
}
