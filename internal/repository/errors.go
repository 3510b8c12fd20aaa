package repository

import "errors"

var (
	ErrDBNotReady = errors.New("database not initialized")
	// ErrStaleStatus means the row changed status between read and write.
	ErrStaleStatus = errors.New("listing status changed concurrently")
)
