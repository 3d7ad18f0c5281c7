package redmock

import (
	"errors"

	"redmock/internal/store"
)

var (
	// ErrKeyNotFound reports an operation that requires an existing
	// entry and found none, e.g. ZScore on an absent member or RPop on
	// an absent key.
	ErrKeyNotFound = store.ErrKeyNotFound

	// ErrEmptyCollection reports a random selection from an empty or
	// absent set.
	ErrEmptyCollection = store.ErrEmptyCollection

	// ErrNotSupported reports a declared option this store does not
	// implement, e.g. glob wildcards beyond '*'.
	ErrNotSupported = errors.New("not supported")

	// ErrLockTimeout reports a lock acquisition that ran out of time.
	ErrLockTimeout = errors.New("lock wait timed out")
)

// TypeMismatchError reports a command invoked against a key holding an
// incompatible value kind. Failed commands leave the store unchanged.
type TypeMismatchError = store.WrongTypeError

// UsageError reports a malformed call, e.g. ZAdd with no pairs.
type UsageError struct {
	Message string
}

func (e *UsageError) Error() string { return e.Message }

func newUsageError(msg string) error { return &UsageError{Message: msg} }
