package repository

import "errors"

var (
	// Common errors
	ErrNotFound       = errors.New("not found")
	ErrConflict       = errors.New("conflict")
	ErrDuplicateEntry = errors.New("duplicate entry")

	// Flight errors
	ErrFlightNotFound = errors.New("flight not found")
	ErrFlightExists   = errors.New("flight already exists")
)
