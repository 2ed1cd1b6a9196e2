package todo

import (
	"errors"
	"fmt"
	"reflect"
	"testing"
	"time"

	"github.com/hy4ri/todo-tabs/internal/storage"
)

// recorder captures renderer calls.
type recorder struct {
	renders []Snapshot
	titles  []string
}

func (r *recorder) Render(s Snapshot)      { r.renders = append(r.renders, s) }
func (r *recorder) ShowTitle(title string) { r.titles = append(r.titles, title) }

// countingStore counts writes on top of a memory store.
type countingStore struct {
	*storage.Memory
	writes int
}

func (s *countingStore) SetItem(k, v string) error { s.writes++; return s.Memory.SetItem(k, v) }
func (s *countingStore) RemoveItem(k string) error { s.writes++; return s.Memory.RemoveItem(k) }

func sequentialIDs() IDGenerator {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("list-%d", n)
	}
}

func newTestController(t *testing.T, store storage.Storage, opts ...Option) (*Controller, *recorder) {
	t.Helper()
	rec := &recorder{}
	base := []Option{
		WithRenderer(rec),
		WithIDGenerator(sequentialIDs()),
		WithDialogs(AutoDialogs{Answer: true}),
	}
	c := NewController(store, append(base, opts...)...)
	if err := c.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	return c, rec
}

func dump(t *testing.T, s storage.Storage) map[string]string {
	t.Helper()
	keys, err := s.Keys()
	if err != nil {
		t.Fatal(err)
	}
	out := make(map[string]string, len(keys))
	for _, k := range keys {
		v, _, _ := s.GetItem(k)
		out[k] = v
	}
	return out
}

func TestStart_EmptyStorage(t *testing.T) {
	store := storage.NewMemory()
	c, rec := newTestController(t, store)

	reg := c.Registry()
	if len(reg.Lists) != 1 || reg.Lists[0].Name != DefaultListName {
		t.Fatalf("lists = %+v, want one %q", reg.Lists, DefaultListName)
	}
	if reg.ActiveID != reg.Lists[0].ID {
		t.Errorf("active = %q, want %q", reg.ActiveID, reg.Lists[0].ID)
	}
	if len(rec.renders) != 1 {
		t.Errorf("renders = %d, want 1", len(rec.renders))
	}

	// the default list is persisted so its id survives a restart
	again, err := NewController(store).LoadRegistry()
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(again, reg) {
		t.Errorf("reloaded registry = %+v, want %+v", again, reg)
	}
}

func TestLoadRegistry_DefaultWithoutWriting(t *testing.T) {
	store := storage.NewMemory()
	c := NewController(store, WithIDGenerator(TimestampIDs(func() time.Time { return time.UnixMilli(1700000000000) })))

	reg, err := c.LoadRegistry()
	if err != nil {
		t.Fatal(err)
	}
	want := Registry{Lists: []ListRecord{{ID: "list-1700000000000", Name: DefaultListName}}, ActiveID: "list-1700000000000"}
	if !reflect.DeepEqual(reg, want) {
		t.Errorf("LoadRegistry = %+v, want %+v", reg, want)
	}
	if keys, _ := store.Keys(); len(keys) != 0 {
		t.Errorf("LoadRegistry wrote keys %v", keys)
	}
}

func TestLoadRegistry_Reconcile(t *testing.T) {
	lists := `[{"id":"a","name":"A"},{"id":"b","name":"B"}]`
	tests := []struct {
		name       string
		items      map[string]string
		wantLists  int
		wantActive string
	}{
		{"stored active", map[string]string{ListsKey: lists, ActiveListKey: "b"}, 2, "b"},
		{"missing active", map[string]string{ListsKey: lists}, 2, "a"},
		{"dangling active", map[string]string{ListsKey: lists, ActiveListKey: "zzz"}, 2, "a"},
		{"empty collection", map[string]string{ListsKey: `[]`, ActiveListKey: "a"}, 0, ""},
		{"malformed json", map[string]string{ListsKey: `[{"id":`}, 1, "list-1"},
		{"schema violation", map[string]string{ListsKey: `[{"id":7,"name":"A"}]`}, 1, "list-1"},
		{"duplicate ids", map[string]string{ListsKey: `[{"id":"a","name":"A"},{"id":"a","name":"A2"}]`}, 1, "a"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := storage.NewMemory()
			for k, v := range tt.items {
				store.SetItem(k, v)
			}
			c := NewController(store, WithIDGenerator(sequentialIDs()))
			reg, err := c.LoadRegistry()
			if err != nil {
				t.Fatalf("LoadRegistry: %v", err)
			}
			if len(reg.Lists) != tt.wantLists {
				t.Errorf("lists = %+v, want %d", reg.Lists, tt.wantLists)
			}
			if reg.ActiveID != tt.wantActive {
				t.Errorf("active = %q, want %q", reg.ActiveID, tt.wantActive)
			}
		})
	}
}

func TestSaveRegistry_RoundTrip(t *testing.T) {
	store := storage.NewMemory()
	c := NewController(store)

	reg := Registry{
		Lists:    []ListRecord{{ID: "list-1", Name: "Work"}, {ID: "list-2", Name: "Home"}},
		ActiveID: "list-2",
	}
	if err := c.SaveRegistry(reg); err != nil {
		t.Fatal(err)
	}
	got, err := c.LoadRegistry()
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, reg) {
		t.Errorf("round trip = %+v, want %+v", got, reg)
	}

	// unset active id removes the key instead of storing ""
	reg.ActiveID = ""
	if err := c.SaveRegistry(reg); err != nil {
		t.Fatal(err)
	}
	if _, ok, _ := store.GetItem(ActiveListKey); ok {
		t.Error("active key still present after saving unset active id")
	}
	got, _ = c.LoadRegistry()
	if got.ActiveID != "list-1" {
		t.Errorf("active after reload = %q, want first list", got.ActiveID)
	}
}

func TestCreateList(t *testing.T) {
	c, rec := newTestController(t, storage.NewMemory())
	seen := map[string]bool{c.Registry().Lists[0].ID: true}

	for i, name := range []string{"Groceries", "  Work  ", "Home"} {
		before := len(c.Registry().Lists)
		list, err := c.CreateList(name)
		if err != nil {
			t.Fatalf("CreateList(%q): %v", name, err)
		}
		reg := c.Registry()
		if len(reg.Lists) != before+1 {
			t.Errorf("call %d: len = %d, want %d", i, len(reg.Lists), before+1)
		}
		if seen[list.ID] {
			t.Errorf("duplicate id %q", list.ID)
		}
		seen[list.ID] = true
		if reg.ActiveID != list.ID {
			t.Errorf("new list not active")
		}
	}
	if got := c.Registry().Lists[2].Name; got != "Work" {
		t.Errorf("name not trimmed: %q", got)
	}
	if len(rec.renders) != 4 {
		t.Errorf("renders = %d, want 4", len(rec.renders))
	}
}

func TestCreateList_EmptyName(t *testing.T) {
	store := &countingStore{Memory: storage.NewMemory()}
	c, _ := newTestController(t, store)
	writes := store.writes

	for _, name := range []string{"", "   ", "\t\n"} {
		if _, err := c.CreateList(name); !errors.Is(err, ErrEmptyName) {
			t.Errorf("CreateList(%q) err = %v, want ErrEmptyName", name, err)
		}
	}
	if store.writes != writes || len(c.Registry().Lists) != 1 {
		t.Error("blank names changed state")
	}
}

func TestCreateList_UniqueIDsFromClock(t *testing.T) {
	fixed := TimestampIDs(func() time.Time { return time.UnixMilli(42) })
	c, _ := newTestController(t, storage.NewMemory(), WithIDGenerator(fixed))

	a, _ := c.CreateList("A")
	b, _ := c.CreateList("B")
	if a.ID == b.ID || a.ID == c.Registry().Lists[0].ID {
		t.Errorf("ids collide: %q %q", a.ID, b.ID)
	}
	if b.ID != "list-42-3" {
		t.Errorf("second collision id = %q, want list-42-3", b.ID)
	}
}

func TestPromptNewList(t *testing.T) {
	c, _ := newTestController(t, storage.NewMemory(), WithDialogs(AutoDialogs{Answer: false}))
	if _, ok, err := c.PromptNewList(); ok || err != nil {
		t.Errorf("cancelled prompt = ok %v err %v", ok, err)
	}

	c, _ = newTestController(t, storage.NewMemory(), WithDialogs(AutoDialogs{Answer: true, Text: " "}))
	if _, ok, err := c.PromptNewList(); !ok || !errors.Is(err, ErrEmptyName) {
		t.Errorf("blank prompt = ok %v err %v", ok, err)
	}

	c, _ = newTestController(t, storage.NewMemory(), WithDialogs(AutoDialogs{Answer: true, Text: "Trips"}))
	list, ok, err := c.PromptNewList()
	if !ok || err != nil || list.Name != "Trips" {
		t.Errorf("prompt = %+v ok %v err %v", list, ok, err)
	}
}

func TestDeleteList_OnlyList(t *testing.T) {
	store := storage.NewMemory()
	c, _ := newTestController(t, store)
	id := c.Registry().ActiveID
	c.AddTask("something")

	if err := c.DeleteList(id); err != nil {
		t.Fatal(err)
	}
	reg := c.Registry()
	if len(reg.Lists) != 0 || reg.ActiveID != "" {
		t.Errorf("registry = %+v, want empty", reg)
	}
	if _, ok, _ := store.GetItem(TasksKey(id)); ok {
		t.Error("task entry not deleted")
	}
	if _, ok, _ := store.GetItem(ActiveListKey); ok {
		t.Error("active key not removed")
	}
	if err := c.AddTask("x"); !errors.Is(err, ErrNoActiveList) {
		t.Errorf("AddTask with no lists = %v, want ErrNoActiveList", err)
	}
}

func TestDeleteList_ActiveOfTwo(t *testing.T) {
	c, rec := newTestController(t, storage.NewMemory())
	first := c.Registry().ActiveID
	if err := c.AddTask("Pay rent"); err != nil {
		t.Fatal(err)
	}
	second, _ := c.CreateList("Groceries")
	c.AddTask("Milk")

	if err := c.DeleteList(second.ID); err != nil {
		t.Fatal(err)
	}
	if got := c.Registry().ActiveID; got != first {
		t.Errorf("active = %q, want %q", got, first)
	}
	want := []Task{{Text: "Pay rent"}}
	if got := c.Tasks(); !reflect.DeepEqual(got, want) {
		t.Errorf("tasks = %+v, want %+v", got, want)
	}
	if last := rec.renders[len(rec.renders)-1]; !reflect.DeepEqual(last.Tasks, want) {
		t.Errorf("rendered tasks = %+v", last.Tasks)
	}
}

func TestDeleteList_InactiveKeepsActive(t *testing.T) {
	c, _ := newTestController(t, storage.NewMemory())
	first := c.Registry().ActiveID
	second, _ := c.CreateList("B")
	c.AddTask("keep me")

	if err := c.DeleteList(first); err != nil {
		t.Fatal(err)
	}
	if c.Registry().ActiveID != second.ID || len(c.Tasks()) != 1 {
		t.Errorf("deleting inactive list disturbed active state: %+v", c.Snapshot())
	}
}

func TestDeleteList_DeclinedAndUnknown(t *testing.T) {
	store := &countingStore{Memory: storage.NewMemory()}
	c, _ := newTestController(t, store, WithDialogs(AutoDialogs{Answer: false}))
	writes := store.writes
	id := c.Registry().ActiveID

	if err := c.DeleteList(id); err != nil {
		t.Fatal(err)
	}
	if err := c.DeleteList("nope"); err != nil {
		t.Fatal(err)
	}
	if store.writes != writes || len(c.Registry().Lists) != 1 {
		t.Error("declined/unknown delete changed state")
	}
}

func TestRenameList(t *testing.T) {
	store := &countingStore{Memory: storage.NewMemory()}
	c, rec := newTestController(t, store)
	active := c.Registry().ActiveID
	other, _ := c.CreateList("Other")
	c.SwitchList(active)

	if err := c.RenameList(active, "  Chores "); err != nil {
		t.Fatal(err)
	}
	if got, _ := c.Registry().Find(active); got.Name != "Chores" {
		t.Errorf("name = %q", got.Name)
	}
	if len(rec.titles) != 1 || rec.titles[0] != "Chores" {
		t.Errorf("titles = %v", rec.titles)
	}

	// inactive rename persists but does not touch the title
	if err := c.RenameList(other.ID, "Errands"); err != nil {
		t.Fatal(err)
	}
	if len(rec.titles) != 1 {
		t.Errorf("inactive rename updated title: %v", rec.titles)
	}
	reloaded, _ := NewController(store).LoadRegistry()
	if l, _ := reloaded.Find(other.ID); l.Name != "Errands" {
		t.Errorf("stored name = %q", l.Name)
	}

	writes := store.writes
	if err := c.RenameList(active, ""); !errors.Is(err, ErrEmptyName) {
		t.Errorf("blank rename = %v, want ErrEmptyName", err)
	}
	if err := c.RenameList(active, "Chores"); err != nil {
		t.Errorf("identical rename = %v", err)
	}
	if err := c.RenameList("missing", "X"); err != nil {
		t.Errorf("unknown rename = %v", err)
	}
	if store.writes != writes {
		t.Error("no-op renames wrote to storage")
	}
	if l, _ := c.Registry().Find(active); l.Name != "Chores" {
		t.Errorf("name changed to %q", l.Name)
	}
}

func TestSwitchList_Idempotent(t *testing.T) {
	store := &countingStore{Memory: storage.NewMemory()}
	c, _ := newTestController(t, store)
	target, _ := c.CreateList("B")
	c.SwitchList(c.Registry().Lists[0].ID)

	if err := c.SwitchList(target.ID); err != nil {
		t.Fatal(err)
	}
	before := dump(t, store)
	writes := store.writes
	if err := c.SwitchList(target.ID); err != nil {
		t.Fatal(err)
	}
	if store.writes != writes || !reflect.DeepEqual(dump(t, store), before) {
		t.Error("second switch to same list changed storage")
	}
}

func TestSwitchList_Unknown(t *testing.T) {
	c, _ := newTestController(t, storage.NewMemory())
	if err := c.SwitchList("ghost"); !errors.Is(err, ErrListNotFound) {
		t.Errorf("err = %v, want ErrListNotFound", err)
	}
}

func TestScenario_GroceriesSurviveSwitch(t *testing.T) {
	store := storage.NewMemory()
	c, _ := newTestController(t, store)
	other := c.Registry().ActiveID

	groceries, err := c.CreateList("Groceries")
	if err != nil {
		t.Fatal(err)
	}
	if err := c.AddTask("Milk"); err != nil {
		t.Fatal(err)
	}
	if err := c.SwitchList(other); err != nil {
		t.Fatal(err)
	}
	if len(c.Tasks()) != 0 {
		t.Errorf("other list shows %+v", c.Tasks())
	}
	if err := c.SwitchList(groceries.ID); err != nil {
		t.Fatal(err)
	}
	want := []Task{{Text: "Milk", Checked: false}}
	if got := c.Tasks(); !reflect.DeepEqual(got, want) {
		t.Errorf("tasks = %+v, want %+v", got, want)
	}

	// and across a restart
	restarted, _ := newTestController(t, store)
	if restarted.Registry().ActiveID != groceries.ID || !reflect.DeepEqual(restarted.Tasks(), want) {
		t.Errorf("after restart: %+v", restarted.Snapshot())
	}
}

func TestTaskStore_RoundTrip(t *testing.T) {
	c := NewController(storage.NewMemory())
	content := []Task{{Text: "<b>not markup</b>"}, {Text: "Milk", Checked: true}, {Text: "Eggs & ham"}}

	if err := c.SaveTasks("list-9", content); err != nil {
		t.Fatal(err)
	}
	got, err := c.LoadTasks("list-9")
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, content) {
		t.Errorf("LoadTasks = %+v, want %+v", got, content)
	}

	if err := c.SaveTasks("", content); err != nil {
		t.Errorf("SaveTasks with no list = %v", err)
	}
	if got, _ := c.LoadTasks(""); len(got) != 0 {
		t.Errorf("LoadTasks(\"\") = %+v", got)
	}
	if got, _ := c.LoadTasks("absent"); len(got) != 0 {
		t.Errorf("LoadTasks(absent) = %+v", got)
	}
}

func TestLoadTasks_Malformed(t *testing.T) {
	store := storage.NewMemory()
	store.SetItem(TasksKey("x"), `{"text":"not an array"}`)
	got, err := NewController(store).LoadTasks("x")
	if err != nil || len(got) != 0 {
		t.Errorf("LoadTasks = %+v, %v; want empty, nil", got, err)
	}
}

func TestTaskMutations(t *testing.T) {
	store := storage.NewMemory()
	c, _ := newTestController(t, store)
	id := c.Registry().ActiveID

	if err := c.AddTask(""); !errors.Is(err, ErrEmptyTask) {
		t.Errorf("AddTask(\"\") = %v", err)
	}
	for _, text := range []string{"a", "b", "c"} {
		if err := c.AddTask(text); err != nil {
			t.Fatal(err)
		}
	}
	if err := c.ToggleTask(1); err != nil {
		t.Fatal(err)
	}
	if err := c.RemoveTask(0); err != nil {
		t.Fatal(err)
	}
	if err := c.ToggleTask(5); !errors.Is(err, ErrTaskNotFound) {
		t.Errorf("ToggleTask(5) = %v", err)
	}
	if err := c.RemoveTask(-1); !errors.Is(err, ErrTaskNotFound) {
		t.Errorf("RemoveTask(-1) = %v", err)
	}

	want := []Task{{Text: "b", Checked: true}, {Text: "c"}}
	if got := c.Tasks(); !reflect.DeepEqual(got, want) {
		t.Errorf("tasks = %+v, want %+v", got, want)
	}
	stored, _ := c.LoadTasks(id)
	if !reflect.DeepEqual(stored, want) {
		t.Errorf("stored = %+v, want %+v", stored, want)
	}
}

func TestAccessorsReturnCopies(t *testing.T) {
	c, _ := newTestController(t, storage.NewMemory())
	c.AddTask("a")

	tasks := c.Tasks()
	tasks[0].Text = "mutated"
	reg := c.Registry()
	reg.Lists[0].Name = "mutated"

	if c.Tasks()[0].Text != "a" || c.Registry().Lists[0].Name != DefaultListName {
		t.Error("accessors leak internal state")
	}
}

func TestIsUserError(t *testing.T) {
	if !IsUserError(fmt.Errorf("wrap: %w", ErrEmptyTask)) {
		t.Error("wrapped ErrEmptyTask not a user error")
	}
	if IsUserError(errors.New("disk full")) {
		t.Error("storage error classified as user error")
	}
}

func TestAddTask_KeepsTextAsGiven(t *testing.T) {
	store := storage.NewMemory()
	c, _ := newTestController(t, store)

	for _, blank := range []string{"   ", "\t\n"} {
		if err := c.AddTask(blank); !errors.Is(err, ErrEmptyTask) {
			t.Errorf("AddTask(%q) = %v, want ErrEmptyTask", blank, err)
		}
	}
	if err := c.AddTask("  Milk "); err != nil {
		t.Fatal(err)
	}

	raw, _, _ := store.GetItem(TasksKey(c.Registry().ActiveID))
	if want := `[{"text":"  Milk ","checked":false}]`; raw != want {
		t.Errorf("stored %s, want %s", raw, want)
	}
}
