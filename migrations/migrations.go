// Package migrations embeds the SQL schema migrations so the binary can
// create its own tables at startup.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
