// Package migrations embeds the SQL schema migrations for the SQL keystores.
package migrations

import "embed"

// FS holds one directory of golang-migrate files per driver: postgresql and mysql.
//
//go:embed postgresql/*.sql mysql/*.sql
var FS embed.FS
