// Package database provides database initialization and connection management
// for the report run history. It uses GORM with SQLite for embedded storage,
// behind a driver abstraction.
package database

import (
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/bizhealth/reportgen/internal/model"
	"github.com/bizhealth/reportgen/pkg/errors"
	"github.com/bizhealth/reportgen/pkg/logger"
)

var (
	db   *gorm.DB
	once sync.Once
)

// Init opens the process-wide history database at dbPath and migrates it.
// Only the first call takes effect.
func Init(dbPath string) error {
	var initErr error
	once.Do(func() {
		db, initErr = Open(dbPath)
	})
	return initErr
}

// Open creates a database connection and runs migrations without touching
// the process-wide instance. MemoryDSN opens a throwaway database.
func Open(dbPath string) (*gorm.DB, error) {
	logger.Info("Initializing database", zap.String("path", dbPath))

	if dbPath != MemoryDSN {
		dir := filepath.Dir(dbPath)
		if err := os.MkdirAll(dir, 0755); err != nil {
			logger.Error("Failed to create database directory", zap.Error(err), zap.String("dir", dir))
			return nil, errors.Wrap(errors.ErrCodeDBConnection, "failed to create database directory", err)
		}
	}

	driver := &SQLiteDriver{}

	dialector, err := driver.Open(dbPath)
	if err != nil {
		logger.Error("Failed to open database", zap.Error(err))
		return nil, errors.Wrap(errors.ErrCodeDBConnection, "failed to open database", err)
	}

	conn, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		logger.Error("Failed to connect to database", zap.Error(err))
		return nil, errors.Wrap(errors.ErrCodeDBConnection, "failed to connect to database", err)
	}

	if err := driver.PreMigrationConfig(conn); err != nil {
		logger.Error("Failed to apply pre-migration config", zap.Error(err))
		return nil, errors.Wrap(errors.ErrCodeDBConnection, "failed to apply pre-migration config", err)
	}

	if err := migrate(conn); err != nil {
		return nil, err
	}

	if err := driver.PostMigrationConfig(conn); err != nil {
		logger.Error("Failed to apply post-migration config", zap.Error(err))
		return nil, errors.Wrap(errors.ErrCodeDBConnection, "failed to apply post-migration config", err)
	}

	logger.Info("Database initialized successfully", zap.String("driver", driver.Name()))
	return conn, nil
}

// migrate runs auto-migration for all models
func migrate(conn *gorm.DB) error {
	models := model.AllModels()
	if err := conn.AutoMigrate(models...); err != nil {
		logger.Error("Failed to run database migrations", zap.Error(err))
		return errors.Wrap(errors.ErrCodeDBMigration, "failed to run database migrations", err)
	}

	logger.Debug("Database migrations completed", zap.Int("models", len(models)))
	return nil
}

// Get returns the process-wide database instance.
// Panics if the database hasn't been initialized.
func Get() *gorm.DB {
	if db == nil {
		panic("database not initialized, call Init first")
	}
	return db
}

// Close closes the process-wide database connection
func Close() error {
	if db == nil {
		return nil
	}
	logger.Info("Closing database connection")
	return CloseDB(db)
}

// CloseDB closes a connection returned by Open
func CloseDB(conn *gorm.DB) error {
	sqlDB, err := conn.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// ResetForTesting closes and forgets the process-wide instance so Init can
// run again. Only use this function in tests!
func ResetForTesting() {
	if db != nil {
		_ = CloseDB(db)
		db = nil
	}
	once = sync.Once{}
}

// HealthCheck pings a database connection
func HealthCheck(conn *gorm.DB) error {
	sqlDB, err := conn.DB()
	if err != nil {
		return errors.Wrap(errors.ErrCodeDBConnection, "failed to get database connection", err)
	}
	if err := sqlDB.Ping(); err != nil {
		return errors.Wrap(errors.ErrCodeDBConnection, "database ping failed", err)
	}
	return nil
}
