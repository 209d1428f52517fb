package migrations

import "embed"

// FS holds the forward-only schema migrations for each supported driver.
//
//go:embed sqlite/*.sql postgres/*.sql
var FS embed.FS
