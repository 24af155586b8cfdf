package database

import (
	"embed"

	migrate "github.com/rubenv/sql-migrate"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// Migrate applies any pending schema migrations.
func (s *DB) Migrate() error {
	log := s.log.Function("Migrate")

	sqlDB, err := s.SQL.DB()
	if err != nil {
		return log.Err("failed to get database handle", err)
	}

	source := &migrate.EmbedFileSystemMigrationSource{
		FileSystem: migrationFiles,
		Root:       "migrations",
	}

	applied, err := migrate.Exec(sqlDB, "sqlite3", source, migrate.Up)
	if err != nil {
		return log.Err("failed to apply migrations", err)
	}

	if applied > 0 {
		log.Info("Applied migrations", "count", applied)
	}

	return nil
}
