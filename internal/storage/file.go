package storage

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// File is a Storage persisted as a single YAML document mapping keys to values.
// The whole document is rewritten on every mutation.
type File struct {
	path   string
	items  map[string]string
	closed bool
}

// OpenFile loads the store at path, creating parent directories as needed.
// A missing file yields an empty store; the file is created on first write.
func OpenFile(path string) (*File, error) {
	if path == "" {
		return nil, fmt.Errorf("file storage path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}

	f := &File{path: path, items: make(map[string]string)}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return f, nil
		}
		return nil, fmt.Errorf("failed to read storage file: %w", err)
	}

	if err := yaml.Unmarshal(data, &f.items); err != nil {
		return nil, fmt.Errorf("failed to parse storage file %s: %w", path, err)
	}
	if f.items == nil {
		// empty document
		f.items = make(map[string]string)
	}
	return f, nil
}

// Path returns the file backing the store.
func (f *File) Path() string {
	return f.path
}

// GetItem implements Storage.
func (f *File) GetItem(key string) (string, bool, error) {
	if f.closed {
		return "", false, ErrClosed
	}
	v, ok := f.items[key]
	return v, ok, nil
}

// SetItem implements Storage.
func (f *File) SetItem(key, value string) error {
	if f.closed {
		return ErrClosed
	}
	prev, had := f.items[key]
	f.items[key] = value
	if err := f.flush(); err != nil {
		if had {
			f.items[key] = prev
		} else {
			delete(f.items, key)
		}
		return err
	}
	return nil
}

// RemoveItem implements Storage.
func (f *File) RemoveItem(key string) error {
	if f.closed {
		return ErrClosed
	}
	prev, had := f.items[key]
	if !had {
		return nil
	}
	delete(f.items, key)
	if err := f.flush(); err != nil {
		f.items[key] = prev
		return err
	}
	return nil
}

// Keys implements Storage.
func (f *File) Keys() ([]string, error) {
	if f.closed {
		return nil, ErrClosed
	}
	return sortedKeys(f.items), nil
}

// Close implements Storage.
func (f *File) Close() error {
	f.closed = true
	return nil
}

// flush writes the document to a temp file and renames it over the target.
func (f *File) flush() error {
	data, err := yaml.Marshal(f.items)
	if err != nil {
		return fmt.Errorf("failed to serialize storage: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(f.path), ".todo-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write storage file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to write storage file: %w", err)
	}
	if err := os.Chmod(tmpName, 0600); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to set storage file permissions: %w", err)
	}
	if err := os.Rename(tmpName, f.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace storage file: %w", err)
	}
	return nil
}
