package store

import (
	"errors"
	"fmt"
)

var (
	// ErrKeyNotFound reports an operation that requires an existing
	// entry and found none.
	ErrKeyNotFound = errors.New("no such key")

	// ErrEmptyCollection reports a random selection from an empty
	// collection.
	ErrEmptyCollection = errors.New("empty collection")
)

// WrongTypeError reports a command invoked against a key holding an
// incompatible value kind. The store is left unchanged.
type WrongTypeError struct {
	Key  string
	Want DataType
	Got  DataType
}

func (e *WrongTypeError) Error() string {
	return fmt.Sprintf("wrong type for key %q: have %s, want %s", e.Key, e.Got, e.Want)
}
