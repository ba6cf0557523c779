package cache

import (
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/sqlite3"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

// MigrateUp applies every pending schema migration under
// migrationsPath to the sqlite3 database at databaseURL (a
// "sqlite3://path/to/file.db" DSN), ported from the teacher's
// database.MigrateUp.
func MigrateUp(databaseURL, migrationsPath string) error {
	m, err := migrate.New(fmt.Sprintf("file://%s", migrationsPath), databaseURL)
	if err != nil {
		return fmt.Errorf("cache: create migrate instance: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			return nil
		}
		return fmt.Errorf("cache: run migrations: %w", err)
	}
	return nil
}
