// Package store provides data access layer interfaces and implementations.
// It keeps business logic decoupled from GORM and the underlying driver.
package store

import "gorm.io/gorm"

// Store aggregates all data store interfaces.
type Store interface {
	Runs() RunStore

	// DB returns the underlying database connection for advanced operations.
	// Use sparingly - prefer using specific store methods.
	DB() *gorm.DB

	// Transaction executes operations within a database transaction.
	Transaction(fn func(Store) error) error
}

// gormStore implements Store interface using GORM.
type gormStore struct {
	db       *gorm.DB
	runStore RunStore
}

// NewStore creates a new Store instance with GORM backend.
func NewStore(db *gorm.DB) Store {
	return &gormStore{
		db:       db,
		runStore: newRunStore(db),
	}
}

func (s *gormStore) Runs() RunStore {
	return s.runStore
}

func (s *gormStore) DB() *gorm.DB {
	return s.db
}

func (s *gormStore) Transaction(fn func(Store) error) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		return fn(&gormStore{
			db:       tx,
			runStore: newRunStore(tx),
		})
	})
}
