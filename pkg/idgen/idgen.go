// Package idgen provides ID generation utilities for the application.
// It encapsulates the ID generation implementation, making it easy to change
// the underlying ID generation strategy in the future.
package idgen

import (
	"github.com/rs/xid"
)

// NewID generates a new globally unique, sortable identifier.
// Returns a 20-character string using xid format.
func NewID() string {
	return xid.New().String()
}

// NewRunID generates the identifier of a single report build.
// It doubles as the output subdirectory name, so it must stay URL- and path-safe.
func NewRunID() string {
	return NewID()
}

// NewRecordID generates a unique ID for report history records.
func NewRecordID() string {
	return NewID()
}

// NewRequestID generates a unique ID for HTTP request tracking.
func NewRequestID() string {
	return NewID()
}

// IsValid reports whether s is a well-formed xid.
// The server uses it to reject path-traversal attempts in report lookups.
func IsValid(s string) bool {
	_, err := xid.FromString(s)
	return err == nil
}
