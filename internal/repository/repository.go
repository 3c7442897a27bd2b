package repository

// Package repository contains data access layer abstractions.
// Implementations live in subpackages (postgres) inside this directory.
// Missing rows are reported as sql.ErrNoRows so callers can map them.

import "errors"

// ErrDuplicate is returned when an insert or update violates a unique constraint.
var ErrDuplicate = errors.New("duplicate key")

// PageQuery holds limit/offset pagination parameters.
type PageQuery struct {
	Limit  int
	Offset int
}

// PageResult is a generic pagination result wrapper.
// T is typically a model type.
type PageResult[T any] struct {
	Items []T
	Total int
}
