// Package storage provides the local key-value stores that back the to-do state.
//
// Every backend offers the same small string-to-string contract as a browser's
// localStorage: values are opaque to the store, writes are synchronous and
// complete before the call returns.
package storage

import (
	"errors"
	"fmt"
	"strings"
)

// Backend names accepted by Open.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// ErrClosed is returned by operations on a closed store.
var ErrClosed = errors.New("storage is closed")

// Storage is a synchronous string key-value store.
type Storage interface {
	// GetItem returns the value for key. ok is false when the key is absent.
	GetItem(key string) (value string, ok bool, err error)

	// SetItem writes value under key, replacing any previous value.
	SetItem(key, value string) error

	// RemoveItem deletes key. Removing an absent key is not an error.
	RemoveItem(key string) error

	// Keys returns all stored keys in ascending order.
	Keys() ([]string, error)

	// Close releases the underlying resources.
	Close() error
}

// Options selects and configures a backend.
type Options struct {
	Backend string
	Path    string
}

// Open creates the backend named in opts.
func Open(opts Options) (Storage, error) {
	switch strings.ToLower(strings.TrimSpace(opts.Backend)) {
	case BackendFile, "":
		f, err := OpenFile(opts.Path)
		if err != nil {
			return nil, err
		}
		return f, nil
	case BackendSQLite:
		db, err := OpenSQLite(opts.Path)
		if err != nil {
			return nil, err
		}
		return db, nil
	case BackendMemory:
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown storage backend: %q", opts.Backend)
	}
}
