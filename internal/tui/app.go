// Package tui provides the terminal user interface for the tabbed to-do lists.
package tui

import (
	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/gen2brain/beeep"
	"github.com/hy4ri/todo-tabs/internal/config"
	"github.com/hy4ri/todo-tabs/internal/logging"
	"github.com/hy4ri/todo-tabs/internal/storage"
	"github.com/hy4ri/todo-tabs/internal/todo"
	"github.com/hy4ri/todo-tabs/internal/tui/components"
)

// Mode is what the keyboard currently drives.
type Mode int

const (
	ModeNormal Mode = iota
	ModeAddTask
	ModeNewList
	ModeRename
	ModeConfirmDelete
	ModeHelp
)

// App is the main Bubble Tea model for the application.
type App struct {
	// Dependencies
	ctrl   *todo.Controller
	config *config.Config
	logger *log.Logger
	host   *host

	// Interaction state
	mode          Mode
	keymap        Keymap
	keyState      KeyState
	input         textinput.Model
	renameID      string
	pendingDelete string

	// UI components
	tabsComp     *components.TabsModel
	taskListComp *components.TaskListModel
	helpComp     *components.HelpModel

	title     string
	statusMsg string
	err       error
	width     int
	height    int

	copyText func(string) error
	notify   func(title, message string) error
}

// host bridges the controller's synchronous callbacks to the event loop.
// Overlays collect an answer first and queue it here; the controller then
// consumes it when it asks.
type host struct {
	app     *App
	confirm bool
	text    string
	textOK  bool
}

// Render implements todo.Renderer.
func (h *host) Render(s todo.Snapshot) {
	h.app.applySnapshot(s)
}

// ShowTitle implements todo.Renderer.
func (h *host) ShowTitle(title string) {
	h.app.title = title
}

// Confirm implements todo.Dialogs.
func (h *host) Confirm(string) bool {
	answer := h.confirm
	h.confirm = false
	return answer
}

// PromptText implements todo.Dialogs.
func (h *host) PromptText(string) (string, bool) {
	text, ok := h.text, h.textOK
	h.text, h.textOK = "", false
	return text, ok
}

// NewApp creates the application over store and loads the saved lists.
func NewApp(store storage.Storage, cfg *config.Config, logger *log.Logger) (*App, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if logger == nil {
		logger = logging.Discard()
	}

	input := textinput.New()
	input.CharLimit = 200
	input.Width = 50

	app := &App{
		config:       cfg,
		logger:       logger,
		keymap:       DefaultKeymap(cfg.UI.VimMode),
		input:        input,
		tabsComp:     components.NewTabs(),
		taskListComp: components.NewTaskList(),
		copyText:     clipboard.WriteAll,
		notify: func(title, message string) error {
			return beeep.Notify(title, message, "")
		},
	}
	app.helpComp = components.NewHelp(app.keymap.HelpItems())
	app.host = &host{app: app}
	app.ctrl = todo.NewController(store,
		todo.WithRenderer(app.host),
		todo.WithDialogs(app.host),
		todo.WithLogger(logger),
	)

	if err := app.ctrl.Start(); err != nil {
		return nil, err
	}
	return app, nil
}

// Run starts the program and blocks until the user quits.
func Run(app *App) error {
	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err := p.Run()
	return err
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return textinput.Blink
}

// Mode returns the current interaction mode.
func (a *App) Mode() Mode {
	return a.mode
}

// Controller returns the underlying controller.
func (a *App) Controller() *todo.Controller {
	return a.ctrl
}

func (a *App) applySnapshot(s todo.Snapshot) {
	a.tabsComp.SetLists(s.Lists, s.ActiveID)
	a.taskListComp.SetTasks(s.Tasks)
	a.title = s.ActiveName()
}
