package todo

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/hy4ri/todo-tabs/internal/storage"
)

// ImportResult describes what Import wrote.
type ImportResult struct {
	Lists   int
	Tasks   int
	Skipped []string
}

// IsAppKey reports whether key belongs to the to-do data layout.
func IsAppKey(key string) bool {
	return key == ListsKey || key == ActiveListKey || strings.HasPrefix(key, taskKeyPrefix)
}

// Export returns every to-do entry in store, keyed the same way the browser
// kept them in localStorage.
func Export(store storage.Storage) (map[string]string, error) {
	keys, err := store.Keys()
	if err != nil {
		return nil, fmt.Errorf("failed to list keys: %w", err)
	}

	out := make(map[string]string, len(keys))
	for _, key := range keys {
		if !IsAppKey(key) {
			continue
		}
		value, ok, err := store.GetItem(key)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", key, err)
		}
		if ok {
			out[key] = value
		}
	}
	return out, nil
}

// Import replaces the to-do data in store with data. The lists entry must be
// present and valid. Task entries are rewritten as JSON, so legacy markup is
// converted on the way in; entries for unknown lists, malformed task entries
// and foreign keys are skipped. Any other task data already in store is
// removed.
func Import(store storage.Storage, data map[string]string) (ImportResult, error) {
	var res ImportResult

	raw, ok := data[ListsKey]
	if !ok {
		return res, fmt.Errorf("%w: no %s entry", ErrStorageReadMalformed, ListsKey)
	}
	lists, err := DecodeLists(raw)
	if err != nil {
		return res, err
	}
	reg := Registry{Lists: lists, ActiveID: data[ActiveListKey]}
	reg.reconcile()

	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	written := make(map[string]bool, len(keys))
	for _, key := range keys {
		if key == ListsKey || key == ActiveListKey {
			continue
		}
		id, isTasks := strings.CutPrefix(key, taskKeyPrefix)
		if !isTasks || reg.Index(id) < 0 {
			res.Skipped = append(res.Skipped, key)
			continue
		}
		tasks, err := DecodeTasks(data[key])
		if errors.Is(err, ErrStorageReadMalformed) {
			res.Skipped = append(res.Skipped, key)
			continue
		}
		encoded, err := EncodeTasks(tasks)
		if err != nil {
			return res, err
		}
		if err := store.SetItem(key, encoded); err != nil {
			return res, fmt.Errorf("failed to write %s: %w", key, err)
		}
		written[key] = true
		res.Tasks += len(tasks)
	}

	existing, err := store.Keys()
	if err != nil {
		return res, fmt.Errorf("failed to list keys: %w", err)
	}
	for _, key := range existing {
		if strings.HasPrefix(key, taskKeyPrefix) && !written[key] {
			if err := store.RemoveItem(key); err != nil {
				return res, fmt.Errorf("failed to remove %s: %w", key, err)
			}
		}
	}

	encoded, err := EncodeLists(reg.Lists)
	if err != nil {
		return res, err
	}
	if err := store.SetItem(ListsKey, encoded); err != nil {
		return res, fmt.Errorf("failed to save lists: %w", err)
	}
	if reg.ActiveID != "" {
		err = store.SetItem(ActiveListKey, reg.ActiveID)
	} else {
		err = store.RemoveItem(ActiveListKey)
	}
	if err != nil {
		return res, fmt.Errorf("failed to save active list: %w", err)
	}

	res.Lists = len(reg.Lists)
	return res, nil
}
