// Package migrations embeds the SQL schema migrations for the run registry.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
