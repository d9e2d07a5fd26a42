package repositories

import "errors"

// Storage-level sentinels. Services translate these into their own
// error taxonomy.
var (
	ErrNotFound     = errors.New("document not found")
	ErrDuplicateKey = errors.New("duplicate key")
)
