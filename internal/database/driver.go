package database

import "gorm.io/gorm"

// Driver defines the database driver interface. Only SQLite ships today; the
// history table uses portable column types so another relational driver can
// be added behind this interface.
type Driver interface {
	// Name returns the driver name (e.g., "sqlite")
	Name() string

	// Open returns a GORM dialector for the given DSN
	Open(dsn string) (gorm.Dialector, error)

	// PreMigrationConfig applies connection settings before migration
	// (connection pool, journal mode)
	PreMigrationConfig(db *gorm.DB) error

	// PostMigrationConfig applies settings that must follow migration
	// (foreign key enforcement)
	PostMigrationConfig(db *gorm.DB) error
}
