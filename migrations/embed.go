// Package migrations embeds the goose SQL migrations applied by `carehub migrate`
// and by the integration test containers.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
