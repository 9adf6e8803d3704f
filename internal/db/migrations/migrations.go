// Package migrations embeds the schema for each supported driver.
package migrations

import "embed"

//go:embed sqlite/*.sql postgres/*.sql postgres_jsonb/*.sql
var FS embed.FS
