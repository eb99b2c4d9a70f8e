// Package migrations embeds the schema migration files so they can be
// applied from any working directory, tests included.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
