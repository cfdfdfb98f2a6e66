package storage

import "errors"

var ErrNotFound = errors.New("resource not found")
var ErrConflict = errors.New("resource conflict (e.g., duplicate key)")

// ErrInvalidReference reports a row pointing at a parent that does not exist.
var ErrInvalidReference = errors.New("referenced resource does not exist")
