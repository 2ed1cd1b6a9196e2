package todo

import "errors"

// User-facing errors. None of them change state.
var (
	// ErrEmptyName is returned when a list name is blank after trimming.
	ErrEmptyName = errors.New("the list name cannot be empty")

	// ErrEmptyTask is returned when a task has no text.
	ErrEmptyTask = errors.New("you have to write something")

	// ErrNoActiveList is returned for task mutations while no list is selected.
	ErrNoActiveList = errors.New("first you need to create a list")

	// ErrListNotFound is returned when a list reference resolves to nothing.
	ErrListNotFound = errors.New("list not found")

	// ErrAmbiguousList is returned when a name matches more than one list.
	ErrAmbiguousList = errors.New("ambiguous list name")

	// ErrTaskNotFound is returned for a task index outside the active list.
	ErrTaskNotFound = errors.New("task not found")
)

// ErrStorageReadMalformed marks stored data that could not be decoded.
// Loaders log it and fall back to the empty/default value. Import returns it
// for a dump without a usable lists entry.
var ErrStorageReadMalformed = errors.New("stored data is malformed")
