package store

import (
	"errors"
	"fmt"
)

// Validation errors. These are checked before any backend call is made.
var (
	ErrZeroLengthKey       = errors.New("store: key must be of strictly positive length")
	ErrZeroLengthKeyPrefix = errors.New("store: key prefix must be of strictly positive length")
	ErrValueTooLarge       = fmt.Errorf("store: value exceeds the %d byte limit", MaxValueBytes)
	ErrTransactUpperLimit  = fmt.Errorf("store: transaction must have at most %d operations", MaxTransactWriteItemSize)
)

// Decoding errors. A stored record is missing an attribute, or the
// attribute isn't the binary blob the adapter always writes.
var (
	ErrMissingKey     = errors.New("store: stored key attribute is missing")
	ErrMissingValue   = errors.New("store: stored value attribute is missing")
	ErrWrongKeyType   = errors.New("store: key attribute was not stored as a binary blob")
	ErrWrongValueType = errors.New("store: value attribute was not stored as a binary blob")
)

// Recovery errors.
var (
	// ErrDatabaseRecoveryFailed is returned when journal replay finds a
	// header pointing to a block entry that is no longer present. This
	// indicates storage corruption, not a transient failure, and is fatal
	// for the region until manually repaired.
	ErrDatabaseRecoveryFailed = errors.New("store: journal recovery failed, header points to a missing block entry")
)

// Table name validation errors.
var (
	ErrTableNameTooShort         = errors.New("store: table name must have at least 3 characters")
	ErrTableNameTooLong          = errors.New("store: table name must be at most 255 characters")
	ErrTableNameInvalidCharacter = errors.New("store: table name must only contain alphanumeric ASCII, '.', '-' or '_'")
)

// wrongKeyTypeError and wrongValueTypeError carry the offending attribute's
// description so callers get a concrete message without needing access to
// the backend's type enum.
func wrongKeyTypeError(typeDescription string) error {
	return fmt.Errorf("%w: stored as %s", ErrWrongKeyType, typeDescription)
}

func wrongValueTypeError(typeDescription string) error {
	return fmt.Errorf("%w: stored as %s", ErrWrongValueType, typeDescription)
}
