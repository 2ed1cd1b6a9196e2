package cli

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/fatih/color"
	"github.com/hy4ri/todo-tabs/internal/config"
	"github.com/hy4ri/todo-tabs/internal/logging"
	"github.com/hy4ri/todo-tabs/internal/storage"
	"github.com/hy4ri/todo-tabs/internal/todo"
)

func init() {
	color.NoColor = true
}

// run executes one command line against store with the given stdin.
func run(t *testing.T, store storage.Storage, stdin string, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd(WithStorage(store), WithConfig(config.DefaultConfig()), WithLogger(logging.Discard()))
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func mustRun(t *testing.T, store storage.Storage, args ...string) string {
	t.Helper()
	out, err := run(t, store, "", args...)
	if err != nil {
		t.Fatalf("%v: %v\n%s", args, err, out)
	}
	return out
}

func TestListsShowsDefault(t *testing.T) {
	store := storage.NewMemory()
	out := mustRun(t, store, "lists")
	if !strings.Contains(out, "1. To-Do list (0/0) ←") {
		t.Errorf("lists output:\n%s", out)
	}
}

func TestNewAddCheckFlow(t *testing.T) {
	store := storage.NewMemory()

	mustRun(t, store, "new", "Groceries")
	mustRun(t, store, "add", "Milk")
	mustRun(t, store, "add", "Bread", "rolls")

	out := mustRun(t, store, "show")
	for _, want := range []string{"Groceries", "1. [ ] Milk", "2. [ ] Bread rolls"} {
		if !strings.Contains(out, want) {
			t.Errorf("show missing %q:\n%s", want, out)
		}
	}

	if out := mustRun(t, store, "check", "1"); !strings.Contains(out, "Checked Milk") {
		t.Errorf("check output: %s", out)
	}
	mustRun(t, store, "check", "2")
	if out := mustRun(t, store, "show"); !strings.Contains(out, "All done!") {
		t.Errorf("completed list not reported:\n%s", out)
	}
	if out := mustRun(t, store, "check", "2"); !strings.Contains(out, "Unchecked Bread rolls") {
		t.Errorf("uncheck output: %s", out)
	}

	mustRun(t, store, "rm", "1")
	out = mustRun(t, store, "show")
	if strings.Contains(out, "Milk") || !strings.Contains(out, "1. [ ] Bread rolls") {
		t.Errorf("after rm:\n%s", out)
	}

	out = mustRun(t, store, "lists")
	if !strings.Contains(out, "1. To-Do list (0/0)\n") || !strings.Contains(out, "2. Groceries (0/1) ←") {
		t.Errorf("lists output:\n%s", out)
	}
}

func TestNewPromptsForName(t *testing.T) {
	store := storage.NewMemory()

	out, err := run(t, store, "Work\n", "new")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "Enter a name for the new list:") || !strings.Contains(out, "Created list Work") {
		t.Errorf("prompted new output:\n%s", out)
	}

	out, err = run(t, store, "", "new")
	if err != nil || !strings.Contains(out, "Cancelled") {
		t.Errorf("end of input should cancel: %v\n%s", err, out)
	}

	if _, err := run(t, store, "   \n", "new"); !errors.Is(err, todo.ErrEmptyName) {
		t.Errorf("blank name err = %v", err)
	}
}

func TestAddToOtherList(t *testing.T) {
	store := storage.NewMemory()
	mustRun(t, store, "new", "Work")
	mustRun(t, store, "switch", "1")

	mustRun(t, store, "add", "--list", "work", "Report")

	if out := mustRun(t, store, "show"); strings.Contains(out, "Report") {
		t.Errorf("task landed in the active list:\n%s", out)
	}
	if out := mustRun(t, store, "show", "Work"); !strings.Contains(out, "1. [ ] Report") {
		t.Errorf("task missing from Work:\n%s", out)
	}
	if out := mustRun(t, store, "lists"); !strings.Contains(out, "1. To-Do list (0/0) ←") {
		t.Errorf("active list changed:\n%s", out)
	}
}

func TestRenameAndSwitch(t *testing.T) {
	store := storage.NewMemory()
	mustRun(t, store, "new", "Work")

	mustRun(t, store, "rename", "2", "Office", "stuff")
	mustRun(t, store, "switch", "To-Do list")

	out := mustRun(t, store, "lists")
	if !strings.Contains(out, "2. Office stuff") || !strings.Contains(out, "1. To-Do list (0/0) ←") {
		t.Errorf("lists after rename/switch:\n%s", out)
	}

	if _, err := run(t, store, "", "switch", "Garden"); !errors.Is(err, todo.ErrListNotFound) {
		t.Errorf("switch to unknown list err = %v", err)
	}
	if _, err := run(t, store, "", "rename", "1", " "); !errors.Is(err, todo.ErrEmptyName) {
		t.Errorf("blank rename err = %v", err)
	}
}

func TestDelete(t *testing.T) {
	store := storage.NewMemory()
	mustRun(t, store, "new", "Work")
	mustRun(t, store, "add", "Report")

	out, err := run(t, store, "n\n", "delete", "Work")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, `Do you really want to delete the list "Work"?`) || !strings.Contains(out, "Kept list Work") {
		t.Errorf("declined delete output:\n%s", out)
	}

	out, err = run(t, store, "y\n", "delete", "Work")
	if err != nil || !strings.Contains(out, "Deleted list Work") {
		t.Fatalf("confirmed delete: %v\n%s", err, out)
	}
	if _, ok, _ := store.GetItem(todo.ListsKey); !ok {
		t.Fatal("registry missing after delete")
	}
	keys, _ := store.Keys()
	for _, k := range keys {
		if strings.HasPrefix(k, "todoData-") {
			if raw, _, _ := store.GetItem(k); strings.Contains(raw, "Report") {
				t.Errorf("tasks of deleted list kept under %s", k)
			}
		}
	}

	out = mustRun(t, store, "delete", "--yes", "1")
	if !strings.Contains(out, "Deleted list To-Do list") {
		t.Errorf("--yes delete output:\n%s", out)
	}
	if out := mustRun(t, store, "lists"); !strings.Contains(out, "No lists") {
		t.Errorf("lists after deleting everything:\n%s", out)
	}
	if _, err := run(t, store, "", "add", "Milk"); !errors.Is(err, todo.ErrNoActiveList) {
		t.Errorf("add without lists err = %v", err)
	}
}

func TestTaskNumberErrors(t *testing.T) {
	store := storage.NewMemory()
	mustRun(t, store, "add", "Milk")

	if _, err := run(t, store, "", "check", "zero"); err == nil {
		t.Error("non-numeric task number accepted")
	}
	if _, err := run(t, store, "", "rm", "0"); err == nil {
		t.Error("task number 0 accepted")
	}
	if _, err := run(t, store, "", "check", "2"); !errors.Is(err, todo.ErrTaskNotFound) {
		t.Errorf("check past the end err = %v", err)
	}
}

func TestExportImport(t *testing.T) {
	src := storage.NewMemory()
	mustRun(t, src, "new", "Groceries")
	mustRun(t, src, "add", "Milk")

	exported := mustRun(t, src, "export")
	if !strings.Contains(exported, `"todoAppLists"`) {
		t.Fatalf("export output:\n%s", exported)
	}

	path := filepath.Join(t.TempDir(), "dump.json")
	if err := os.WriteFile(path, []byte(exported), 0600); err != nil {
		t.Fatal(err)
	}

	dst := storage.NewMemory()
	out := mustRun(t, dst, "import", path)
	if !strings.Contains(out, "Imported 2 list(s) with 1 task(s)") {
		t.Errorf("import output: %s", out)
	}
	if out := mustRun(t, dst, "show"); !strings.Contains(out, "1. [ ] Milk") {
		t.Errorf("imported data not visible:\n%s", out)
	}
}

func TestImportAsksBeforeReplacing(t *testing.T) {
	store := storage.NewMemory()
	mustRun(t, store, "new", "Keep me")

	path := filepath.Join(t.TempDir(), "dump.json")
	dump := `{"todoAppLists":"[{\"id\":\"a\",\"name\":\"Legacy\"}]","todoData-a":"<li class=\"checked\">Milk<span>×</span></li>"}`
	if err := os.WriteFile(path, []byte(dump), 0600); err != nil {
		t.Fatal(err)
	}

	out, err := run(t, store, "n\n", "import", path)
	if err != nil || !strings.Contains(out, "Cancelled") {
		t.Fatalf("declined import: %v\n%s", err, out)
	}
	if out := mustRun(t, store, "lists"); !strings.Contains(out, "Keep me") {
		t.Errorf("declined import replaced data:\n%s", out)
	}

	mustRun(t, store, "import", "--yes", path)
	out = mustRun(t, store, "show")
	if !strings.Contains(out, "Legacy") || !strings.Contains(out, "1. [x] Milk") {
		t.Errorf("legacy import not converted:\n%s", out)
	}
}

func TestImportRejectsBadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dump.json")
	if err := os.WriteFile(path, []byte(`{"theme":"dark"}`), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := run(t, storage.NewMemory(), "", "import", path); !errors.Is(err, todo.ErrStorageReadMalformed) {
		t.Errorf("import without lists err = %v", err)
	}
	if _, err := run(t, storage.NewMemory(), "", "import", filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("missing file accepted")
	}
}

func TestInitWritesTemplate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf", "config.yaml")

	out := mustRun(t, storage.NewMemory(), "--config", path, "init")
	if !strings.Contains(out, path) {
		t.Errorf("init output: %s", out)
	}
	data, err := os.ReadFile(path)
	if err != nil || string(data) != config.Template {
		t.Fatalf("config file = %q, %v", data, err)
	}

	if _, err := run(t, storage.NewMemory(), "", "--config", path, "init"); err == nil {
		t.Error("init overwrote an existing file without --force")
	}
	mustRun(t, storage.NewMemory(), "--config", path, "init", "--force")

	cfg, err := config.LoadFrom(path)
	if err != nil || cfg.Storage.Backend != "file" {
		t.Errorf("template does not load: %+v, %v", cfg, err)
	}
}

func TestInitReplacesBrokenConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("storage: [unclosed\n"), 0600); err != nil {
		t.Fatal(err)
	}

	root := NewRootCmd(WithStorage(storage.NewMemory()))
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs([]string{"--config", path, "init", "--force"})
	if err := root.Execute(); err != nil {
		t.Fatalf("init --force over broken config: %v\n%s", err, out.String())
	}

	data, err := os.ReadFile(path)
	if err != nil || string(data) != config.Template {
		t.Fatalf("config file = %q, %v", data, err)
	}

	root = NewRootCmd(WithStorage(storage.NewMemory()))
	root.SetOut(&out)
	root.SetArgs([]string{"--config", path, "version"})
	if err := root.Execute(); err != nil {
		t.Errorf("version: %v", err)
	}
}

func TestVersion(t *testing.T) {
	if out := mustRun(t, storage.NewMemory(), "version"); out != "todo-tabs "+Version+"\n" {
		t.Errorf("version output %q", out)
	}
}

func TestRootRunsTUI(t *testing.T) {
	store := storage.NewMemory()
	e := newEnv([]Option{WithStorage(store), WithConfig(config.DefaultConfig()), WithLogger(logging.Discard())})
	var got storage.Storage
	e.runTUI = func(s storage.Storage, _ *config.Config, _ *log.Logger) error {
		got = s
		return nil
	}

	root := newRootCmd(e)
	root.SetArgs([]string{})
	if err := root.Execute(); err != nil {
		t.Fatal(err)
	}
	if got != store {
		t.Error("TUI did not receive the configured store")
	}
}

func TestEphemeralUsesMemory(t *testing.T) {
	dir := t.TempDir()
	cfg := config.DefaultConfig()
	cfg.Storage.Path = filepath.Join(dir, "todo.yaml")

	for i := 0; i < 2; i++ {
		root := NewRootCmd(WithConfig(cfg), WithLogger(logging.Discard()))
		var out bytes.Buffer
		root.SetOut(&out)
		root.SetArgs([]string{"--ephemeral", "add", "Milk"})
		if err := root.Execute(); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := os.Stat(cfg.Storage.Path); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("ephemeral run touched %s: %v", cfg.Storage.Path, err)
	}
}

func TestFileBackendPersists(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Storage.Path = filepath.Join(t.TempDir(), "todo.yaml")

	exec := func(args ...string) string {
		root := NewRootCmd(WithConfig(cfg), WithLogger(logging.Discard()))
		var out bytes.Buffer
		root.SetOut(&out)
		root.SetArgs(args)
		if err := root.Execute(); err != nil {
			t.Fatalf("%v: %v", args, err)
		}
		return out.String()
	}

	exec("add", "Milk")
	if out := exec("show"); !strings.Contains(out, "1. [ ] Milk") {
		t.Errorf("file backend lost the task:\n%s", out)
	}
}

func TestOutputDropsEscapeSequences(t *testing.T) {
	store := storage.NewMemory()
	mustRun(t, store, "add", "Milk\x1b[2J")

	out := mustRun(t, store, "show")
	if strings.Contains(out, "\x1b") {
		t.Errorf("show printed an escape sequence: %q", out)
	}
	if !strings.Contains(out, "1. [ ] Milk[2J") {
		t.Errorf("show output: %q", out)
	}
}
