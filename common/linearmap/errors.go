package linearmap

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrDuplicateKey is the cause of every *DuplicateKeyError.
	ErrDuplicateKey = errors.New("duplicate key")

	// ErrUnsupportedKey is returned when a key cannot be written as, or read from, a JSON object key.
	ErrUnsupportedKey = errors.New("unsupported key type for a JSON object")
)

// DuplicateKeyError is returned by the checked Borrow constructors when the slice holds two pairs
// with equal keys.
type DuplicateKeyError[K any] struct {
	// Key is the key of the pair at Index.
	Key K

	// Index is the position of the earlier of the two conflicting pairs.
	Index int

	// DuplicateIndex is the position of the later pair, whose key equals the key at Index.
	DuplicateIndex int
}

func (e *DuplicateKeyError[K]) Error() string {
	return fmt.Sprintf("%v: %v (at index %d, repeated at index %d)", ErrDuplicateKey, e.Key, e.Index, e.DuplicateIndex)
}

// Unwrap lets errors.Is match ErrDuplicateKey.
func (e *DuplicateKeyError[K]) Unwrap() error {
	return ErrDuplicateKey
}

// Cause is the github.com/pkg/errors counterpart of Unwrap.
func (e *DuplicateKeyError[K]) Cause() error {
	return ErrDuplicateKey
}

func panicKeyNotFound(key any) {
	panic(fmt.Sprintf("linearmap: key not found: %v", key))
}
