package repository

import "errors"

// ErrNotFound is returned by every repository when the requested record does
// not exist. Implementations map their driver-specific "no rows" errors to it.
var ErrNotFound = errors.New("record not found")
