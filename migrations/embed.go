// Package migrations embeds the SQL schema into the binary so fleetd can
// migrate a fresh database without any files on disk.
package migrations

import (
	"embed"

	"github.com/hyderfleet/fleetops/internal/infrastructure/database"
)

//go:embed *.sql
var migrationsFS embed.FS

func init() {
	database.MigrationsFS = migrationsFS
	database.MigrationsDir = "."
}
