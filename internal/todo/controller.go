package todo

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/hy4ri/todo-tabs/internal/storage"
)

// Controller owns the registry and the active list's tasks and mirrors every
// change into storage. It is not safe for concurrent use; hosts call it from a
// single event loop.
type Controller struct {
	store    storage.Storage
	renderer Renderer
	dialogs  Dialogs
	newID    IDGenerator
	logger   *log.Logger

	reg   Registry
	tasks []Task
}

// Option configures a Controller.
type Option func(*Controller)

// WithRenderer sets the renderer invoked after every state change.
func WithRenderer(r Renderer) Option {
	return func(c *Controller) { c.renderer = r }
}

// WithDialogs sets the confirmation and prompt provider.
func WithDialogs(d Dialogs) Option {
	return func(c *Controller) { c.dialogs = d }
}

// WithIDGenerator overrides the list id source.
func WithIDGenerator(g IDGenerator) Option {
	return func(c *Controller) { c.newID = g }
}

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(c *Controller) { c.logger = l }
}

// NewController creates a controller over store. Call Start before use.
func NewController(store storage.Storage, opts ...Option) *Controller {
	c := &Controller{
		store:    store,
		renderer: nopRenderer{},
		dialogs:  AutoDialogs{},
		newID:    TimestampIDs(nil),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.renderer == nil {
		c.renderer = nopRenderer{}
	}
	if c.dialogs == nil {
		c.dialogs = AutoDialogs{}
	}
	if c.logger == nil {
		c.logger = log.New(io.Discard)
	}
	return c
}

// Start loads the registry and the active list's tasks, then renders.
// A default registry is written back immediately so its id stays stable.
func (c *Controller) Start() error {
	reg, defaulted, err := c.loadRegistry()
	if err != nil {
		return err
	}
	c.reg = reg

	if defaulted {
		if err := c.SaveRegistry(c.reg); err != nil {
			return err
		}
	}

	tasks, err := c.LoadTasks(c.reg.ActiveID)
	if err != nil {
		return err
	}
	c.tasks = tasks
	c.render()
	return nil
}

// LoadRegistry reads the registry from storage. Missing or malformed list
// data yields a single default list; only storage failures are returned.
func (c *Controller) LoadRegistry() (Registry, error) {
	reg, _, err := c.loadRegistry()
	return reg, err
}

func (c *Controller) loadRegistry() (Registry, bool, error) {
	var reg Registry
	defaulted := false

	raw, ok, err := c.store.GetItem(ListsKey)
	if err != nil {
		return Registry{}, false, fmt.Errorf("failed to read lists: %w", err)
	}
	if ok {
		lists, err := DecodeLists(raw)
		if err != nil {
			c.logger.Warn("ignoring stored lists", "key", ListsKey, "err", err)
			ok = false
		} else {
			reg.Lists = lists
		}
	}
	if !ok {
		reg.Lists = []ListRecord{{ID: c.newID(), Name: DefaultListName}}
		defaulted = true
	}

	active, _, err := c.store.GetItem(ActiveListKey)
	if err != nil {
		return Registry{}, false, fmt.Errorf("failed to read active list: %w", err)
	}
	reg.ActiveID = active
	reg.reconcile()

	return reg, defaulted, nil
}

// SaveRegistry writes the lists and the active id. An unset active id removes
// its key rather than storing an empty value.
func (c *Controller) SaveRegistry(reg Registry) error {
	raw, err := EncodeLists(reg.Lists)
	if err != nil {
		return err
	}
	if err := c.store.SetItem(ListsKey, raw); err != nil {
		return fmt.Errorf("failed to save lists: %w", err)
	}

	if reg.ActiveID != "" {
		err = c.store.SetItem(ActiveListKey, reg.ActiveID)
	} else {
		err = c.store.RemoveItem(ActiveListKey)
	}
	if err != nil {
		return fmt.Errorf("failed to save active list: %w", err)
	}
	return nil
}

// SaveTasks writes tasks for listID. An empty listID is a no-op.
func (c *Controller) SaveTasks(listID string, tasks []Task) error {
	if listID == "" {
		return nil
	}
	raw, err := EncodeTasks(tasks)
	if err != nil {
		return err
	}
	if err := c.store.SetItem(TasksKey(listID), raw); err != nil {
		return fmt.Errorf("failed to save tasks: %w", err)
	}
	return nil
}

// LoadTasks reads the tasks for listID. Empty id, absent key and malformed
// content all yield no tasks.
func (c *Controller) LoadTasks(listID string) ([]Task, error) {
	if listID == "" {
		return nil, nil
	}
	raw, ok, err := c.store.GetItem(TasksKey(listID))
	if err != nil {
		return nil, fmt.Errorf("failed to read tasks: %w", err)
	}
	if !ok {
		return nil, nil
	}
	tasks, err := DecodeTasks(raw)
	if err != nil {
		c.logger.Warn("ignoring stored tasks", "list", listID, "err", err)
		return nil, nil
	}
	return tasks, nil
}

// CreateList appends a list named name (trimmed) and makes it active.
func (c *Controller) CreateList(name string) (ListRecord, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return ListRecord{}, ErrEmptyName
	}

	next := c.reg.Clone()
	list := ListRecord{ID: c.uniqueID(), Name: name}
	next.Lists = append(next.Lists, list)
	next.ActiveID = list.ID

	if err := c.SaveRegistry(next); err != nil {
		return ListRecord{}, err
	}
	c.reg = next
	c.tasks = nil
	c.logger.Debug("created list", "id", list.ID, "name", list.Name)
	c.render()
	return list, nil
}

// PromptNewList asks the host for a name and creates the list.
// ok is false when the prompt was cancelled.
func (c *Controller) PromptNewList() (ListRecord, bool, error) {
	name, ok := c.dialogs.PromptText("Enter a name for the new list:")
	if !ok {
		return ListRecord{}, false, nil
	}
	list, err := c.CreateList(name)
	if err != nil {
		return ListRecord{}, true, err
	}
	return list, true, nil
}

// DeleteConfirmation is the question asked before deleting a list.
func DeleteConfirmation(name string) string {
	return fmt.Sprintf("Do you really want to delete the list %q? The tasks in it will be lost!", name)
}

// DeleteList removes a list and its tasks after the host confirms. Unknown
// ids and declined confirmations leave everything untouched.
func (c *Controller) DeleteList(id string) error {
	idx := c.reg.Index(id)
	if idx < 0 {
		return nil
	}
	if !c.dialogs.Confirm(DeleteConfirmation(c.reg.Lists[idx].Name)) {
		return nil
	}

	next := c.reg.Clone()
	next.Lists = append(next.Lists[:idx], next.Lists[idx+1:]...)
	wasActive := next.ActiveID == id
	if wasActive {
		next.ActiveID = ""
		next.reconcile()
	}

	if err := c.store.RemoveItem(TasksKey(id)); err != nil {
		return fmt.Errorf("failed to delete tasks: %w", err)
	}
	if err := c.SaveRegistry(next); err != nil {
		return err
	}
	c.reg = next
	c.logger.Debug("deleted list", "id", id)

	if wasActive {
		tasks, err := c.LoadTasks(c.reg.ActiveID)
		if err != nil {
			return err
		}
		c.tasks = tasks
	}
	c.render()
	return nil
}

// RenameList changes a list's name. A blank name returns ErrEmptyName; an
// unchanged name or unknown id is a no-op.
func (c *Controller) RenameList(id, newName string) error {
	newName = strings.TrimSpace(newName)
	if newName == "" {
		return ErrEmptyName
	}
	idx := c.reg.Index(id)
	if idx < 0 || c.reg.Lists[idx].Name == newName {
		return nil
	}

	next := c.reg.Clone()
	next.Lists[idx].Name = newName
	if err := c.SaveRegistry(next); err != nil {
		return err
	}
	c.reg = next
	c.logger.Debug("renamed list", "id", id, "name", newName)

	if id == c.reg.ActiveID {
		c.renderer.ShowTitle(newName)
	}
	return nil
}

// SwitchList makes newID the active list, flushing the current list's tasks
// first. Switching to the already active list does nothing.
func (c *Controller) SwitchList(newID string) error {
	if newID == c.reg.ActiveID {
		return nil
	}
	if c.reg.Index(newID) < 0 {
		return ErrListNotFound
	}

	if c.reg.ActiveID != "" {
		if err := c.SaveTasks(c.reg.ActiveID, c.tasks); err != nil {
			return err
		}
	}

	next := c.reg.Clone()
	next.ActiveID = newID
	if err := c.SaveRegistry(next); err != nil {
		return err
	}
	c.reg = next

	tasks, err := c.LoadTasks(newID)
	if err != nil {
		return err
	}
	c.tasks = tasks
	c.logger.Debug("switched list", "id", newID)
	c.render()
	return nil
}

// AddTask appends an unchecked task with text, as given, to the active list.
// Text that is blank after trimming is rejected.
func (c *Controller) AddTask(text string) error {
	if c.reg.ActiveID == "" {
		return ErrNoActiveList
	}
	if strings.TrimSpace(text) == "" {
		return ErrEmptyTask
	}
	return c.mutateTasks(func(tasks []Task) ([]Task, error) {
		return append(tasks, Task{Text: text}), nil
	})
}

// ToggleTask flips the checked state of the task at index.
func (c *Controller) ToggleTask(index int) error {
	return c.mutateTasks(func(tasks []Task) ([]Task, error) {
		if index < 0 || index >= len(tasks) {
			return nil, ErrTaskNotFound
		}
		tasks[index].Checked = !tasks[index].Checked
		return tasks, nil
	})
}

// RemoveTask deletes the task at index.
func (c *Controller) RemoveTask(index int) error {
	return c.mutateTasks(func(tasks []Task) ([]Task, error) {
		if index < 0 || index >= len(tasks) {
			return nil, ErrTaskNotFound
		}
		return append(tasks[:index], tasks[index+1:]...), nil
	})
}

func (c *Controller) mutateTasks(fn func([]Task) ([]Task, error)) error {
	if c.reg.ActiveID == "" {
		return ErrNoActiveList
	}
	next, err := fn(cloneTasks(c.tasks))
	if err != nil {
		return err
	}
	if err := c.SaveTasks(c.reg.ActiveID, next); err != nil {
		return err
	}
	c.tasks = next
	c.render()
	return nil
}

// Registry returns a copy of the current registry.
func (c *Controller) Registry() Registry {
	return c.reg.Clone()
}

// ActiveList returns the active list, if any.
func (c *Controller) ActiveList() (ListRecord, bool) {
	return c.reg.Active()
}

// Tasks returns a copy of the active list's tasks.
func (c *Controller) Tasks() []Task {
	return cloneTasks(c.tasks)
}

// Snapshot returns the current render state.
func (c *Controller) Snapshot() Snapshot {
	reg := c.reg.Clone()
	return Snapshot{Lists: reg.Lists, ActiveID: reg.ActiveID, Tasks: cloneTasks(c.tasks)}
}

// IsUserError reports whether err is one of the recoverable user errors.
func IsUserError(err error) bool {
	for _, target := range []error{ErrEmptyName, ErrEmptyTask, ErrNoActiveList, ErrListNotFound, ErrAmbiguousList, ErrTaskNotFound} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func (c *Controller) uniqueID() string {
	base := c.newID()
	id := base
	for n := 2; c.reg.Index(id) >= 0; n++ {
		id = fmt.Sprintf("%s-%d", base, n)
	}
	return id
}

func (c *Controller) render() {
	c.renderer.Render(c.Snapshot())
}
