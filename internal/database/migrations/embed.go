// Package migrations содержит SQL-миграции схемы для поддерживаемых драйверов.
package migrations

import "embed"

// FS миграции лежат в подкаталогах postgres/ и sqlite/
//
//go:embed postgres/*.sql sqlite/*.sql
var FS embed.FS
