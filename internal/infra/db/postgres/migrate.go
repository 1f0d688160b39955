package postgres

import (
	"github.com/pressly/goose/v3"

	_ "github.com/lib/pq"
)

// RunMigrations applies the goose migrations in dir against the database.
func RunMigrations(dsn, dir string) error {
	sqlDB, err := goose.OpenDBWithDriver("postgres", dsn)
	if err != nil {
		return err
	}
	defer func() { _ = sqlDB.Close() }()
	return goose.Up(sqlDB, dir)
}
