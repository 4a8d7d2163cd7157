package storage

import (
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"sort"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// MigrateUp applies the schema scripts in filename order. Scripts are
// idempotent, so running it on an already-migrated database is safe.
func MigrateUp(db *sql.DB) error {
	return runScripts(db, ".up.sql")
}

func MigrateDown(db *sql.DB) error {
	return runScripts(db, ".down.sql")
}

func runScripts(db *sql.DB, suffix string) error {
	names, err := fs.Glob(migrationFiles, "migrations/*"+suffix)
	if err != nil {
		return fmt.Errorf("glob migrations: %w", err)
	}
	sort.Strings(names)
	for _, name := range names {
		script, readErr := migrationFiles.ReadFile(name)
		if readErr != nil {
			return fmt.Errorf("read migration %s: %w", name, readErr)
		}
		if _, execErr := db.Exec(string(script)); execErr != nil {
			return fmt.Errorf("apply migration %s: %w", name, execErr)
		}
	}
	return nil
}
