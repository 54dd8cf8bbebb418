// Package migrations embeds the goose-annotated schema migrations.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
