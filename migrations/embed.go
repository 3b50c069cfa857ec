// Package migrations embeds the schema so the server binary can migrate
// without the source tree.
package migrations

import "embed"

//go:embed *.sql
var Files embed.FS
