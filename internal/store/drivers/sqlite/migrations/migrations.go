// Package migrations embeds the SQL migration files so the binary can
// bring its own schema up to date without shipping loose files.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
