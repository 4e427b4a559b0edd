package domain

import "errors"

var (
	// ErrNotFound indicates that a requested record was not found. Lookups
	// return it so "absent" is never conflated with a store fault.
	ErrNotFound = errors.New("resource not found")
)
