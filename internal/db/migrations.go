package db

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
)

//go:embed migrations
var migrationsFS embed.FS

// DevMode switches migration loading from the embedded filesystem to the
// local migrations directory, so schema changes can be iterated on
// without rebuilding the binary.
var DevMode = false

// devMigrationsDir is the on-disk location used when DevMode is set.
const devMigrationsDir = "internal/db/migrations"

// getMigrationsFS returns the filesystem containing the migration files,
// rooted so that the *.sql files sit at the top level.
func getMigrationsFS() (fs.FS, error) {
	if DevMode {
		if _, err := os.Stat(devMigrationsDir); err != nil {
			return nil, fmt.Errorf("dev migrations directory unavailable: %w", err)
		}
		return os.DirFS(devMigrationsDir), nil
	}

	sub, err := fs.Sub(migrationsFS, "migrations")
	if err != nil {
		return nil, fmt.Errorf("failed to root embedded migrations: %w", err)
	}
	return sub, nil
}
