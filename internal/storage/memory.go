package storage

import "sort"

// Memory is a map-backed Storage. Its contents are lost on Close.
type Memory struct {
	items  map[string]string
	closed bool
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{items: make(map[string]string)}
}

// GetItem implements Storage.
func (m *Memory) GetItem(key string) (string, bool, error) {
	if m.closed {
		return "", false, ErrClosed
	}
	v, ok := m.items[key]
	return v, ok, nil
}

// SetItem implements Storage.
func (m *Memory) SetItem(key, value string) error {
	if m.closed {
		return ErrClosed
	}
	m.items[key] = value
	return nil
}

// RemoveItem implements Storage.
func (m *Memory) RemoveItem(key string) error {
	if m.closed {
		return ErrClosed
	}
	delete(m.items, key)
	return nil
}

// Keys implements Storage.
func (m *Memory) Keys() ([]string, error) {
	if m.closed {
		return nil, ErrClosed
	}
	return sortedKeys(m.items), nil
}

// Close implements Storage.
func (m *Memory) Close() error {
	m.closed = true
	m.items = nil
	return nil
}

func sortedKeys(items map[string]string) []string {
	keys := make([]string, 0, len(items))
	for k := range items {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
