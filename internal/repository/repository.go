// Package repository holds the GORM-backed stores. Services consume
// them through interfaces declared on the consumer side, so tests can
// substitute in-memory fakes.
package repository

import "errors"

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("record not found")

// ErrDuplicate is returned when an insert violates a unique constraint.
var ErrDuplicate = errors.New("duplicate record")
