// Package todo holds the multi-list to-do state and keeps it in sync with storage.
package todo

import (
	"strconv"
	"strings"
	"unicode"
)

// Storage keys. They match the browser version so its localStorage dumps import as-is.
const (
	ListsKey      = "todoAppLists"
	ActiveListKey = "lastActiveListId"
	taskKeyPrefix = "todoData-"
)

// DefaultListName is the name of the list created when storage holds none.
const DefaultListName = "To-Do list"

// TasksKey returns the storage key for a list's tasks.
func TasksKey(listID string) string {
	return taskKeyPrefix + listID
}

// ListRecord is one named list.
type ListRecord struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Task is a single entry in a list.
type Task struct {
	Text    string `json:"text"`
	Checked bool   `json:"checked"`
}

// Registry is the ordered collection of lists plus the active list id.
// ActiveID is empty when no list is active.
type Registry struct {
	Lists    []ListRecord
	ActiveID string
}

// Index returns the position of id in Lists, or -1.
func (r Registry) Index(id string) int {
	for i, l := range r.Lists {
		if l.ID == id {
			return i
		}
	}
	return -1
}

// Find returns the list with the given id.
func (r Registry) Find(id string) (ListRecord, bool) {
	if i := r.Index(id); i >= 0 {
		return r.Lists[i], true
	}
	return ListRecord{}, false
}

// Active returns the active list, if any.
func (r Registry) Active() (ListRecord, bool) {
	if r.ActiveID == "" {
		return ListRecord{}, false
	}
	return r.Find(r.ActiveID)
}

// Clone returns a deep copy.
func (r Registry) Clone() Registry {
	lists := make([]ListRecord, len(r.Lists))
	copy(lists, r.Lists)
	return Registry{Lists: lists, ActiveID: r.ActiveID}
}

// reconcile points ActiveID at a member of Lists, falling back to the first list.
func (r *Registry) reconcile() {
	if r.ActiveID != "" && r.Index(r.ActiveID) >= 0 {
		return
	}
	if len(r.Lists) > 0 {
		r.ActiveID = r.Lists[0].ID
	} else {
		r.ActiveID = ""
	}
}

// Resolve finds a list by exact id, 1-based position, or case-insensitive name.
func (r Registry) Resolve(ref string) (ListRecord, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return ListRecord{}, ErrListNotFound
	}

	if l, ok := r.Find(ref); ok {
		return l, nil
	}

	if n, err := strconv.Atoi(ref); err == nil {
		if n >= 1 && n <= len(r.Lists) {
			return r.Lists[n-1], nil
		}
	}

	var matches []ListRecord
	for _, l := range r.Lists {
		if strings.EqualFold(strings.TrimSpace(l.Name), ref) {
			matches = append(matches, l)
		}
	}

	switch len(matches) {
	case 0:
		return ListRecord{}, ErrListNotFound
	case 1:
		return matches[0], nil
	default:
		return ListRecord{}, ErrAmbiguousList
	}
}

// cloneTasks copies a task slice so callers cannot alias controller state.
func cloneTasks(tasks []Task) []Task {
	out := make([]Task, len(tasks))
	copy(out, tasks)
	return out
}

// Printable drops control characters from s so list names and task text
// cannot carry terminal escape sequences to the screen.
func Printable(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, s)
}

// AllChecked reports whether tasks is non-empty and every task is checked.
func AllChecked(tasks []Task) bool {
	if len(tasks) == 0 {
		return false
	}
	for _, t := range tasks {
		if !t.Checked {
			return false
		}
	}
	return true
}
