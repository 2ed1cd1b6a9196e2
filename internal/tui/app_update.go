package tui

import (
	"errors"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/hy4ri/todo-tabs/internal/todo"
	"github.com/hy4ri/todo-tabs/internal/tui/components"
)

// notifyErrMsg reports a failed desktop notification.
type notifyErrMsg struct {
	err error
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.layout()
		return a, nil

	case tea.KeyMsg:
		return a.handleKeyMsg(msg)

	case tea.MouseMsg:
		if a.mode != ModeNormal {
			return a, nil
		}
		_, cmd := a.tabsComp.Update(msg)
		return a, cmd

	case components.ListSelectedMsg:
		a.switchTo(msg.ID)
		return a, nil

	case components.CloseHelpMsg:
		a.mode = ModeNormal
		return a, nil

	case notifyErrMsg:
		a.logger.Warn("desktop notification failed", "err", msg.err)
		return a, nil
	}

	if a.inputActive() {
		var cmd tea.Cmd
		a.input, cmd = a.input.Update(msg)
		return a, cmd
	}
	return a, nil
}

func (a *App) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return a, tea.Quit
	}

	switch a.mode {
	case ModeHelp:
		_, cmd := a.helpComp.Update(msg)
		return a, cmd
	case ModeConfirmDelete:
		return a.handleConfirmKey(msg)
	case ModeAddTask, ModeNewList, ModeRename:
		return a.handleInputKey(msg)
	}
	return a.handleNormalKey(msg)
}

func (a *App) handleNormalKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	a.statusMsg = ""
	a.err = nil

	action, ok := a.keyState.HandleKey(msg, a.keymap)
	if !ok || action.Name == "" {
		return a, nil
	}

	switch action.Name {
	case "up", "down", "bottom", "half_up", "half_down":
		a.taskListComp.Update(msg)
	case "top":
		a.taskListComp.SetCursor(0)

	case "prev_list":
		if id, ok := a.tabsComp.Neighbor(-1); ok {
			a.switchTo(id)
		}
	case "next_list":
		if id, ok := a.tabsComp.Neighbor(1); ok {
			a.switchTo(id)
		}
	case "jump":
		if id, ok := a.tabsComp.At(action.N); ok {
			a.switchTo(id)
		}

	case "new_list":
		a.openInput(ModeNewList, "List name", "")
	case "rename_list":
		active, ok := a.ctrl.ActiveList()
		if !ok {
			a.setError(todo.ErrNoActiveList)
			return a, nil
		}
		a.renameID = active.ID
		a.openInput(ModeRename, "New name", active.Name)
	case "delete_list":
		active, ok := a.ctrl.ActiveList()
		if !ok {
			a.setError(todo.ErrNoActiveList)
			return a, nil
		}
		a.pendingDelete = active.ID
		a.mode = ModeConfirmDelete

	case "add":
		if _, ok := a.ctrl.ActiveList(); !ok {
			a.setError(todo.ErrNoActiveList)
			return a, nil
		}
		a.openInput(ModeAddTask, "Add a task", "")
	case "toggle":
		return a, a.toggleSelected()
	case "remove":
		if _, ok := a.taskListComp.SelectedTask(); ok {
			a.setError(a.ctrl.RemoveTask(a.taskListComp.Cursor()))
		}
	case "copy":
		a.copySelected()

	case "help":
		a.mode = ModeHelp
	case "quit":
		return a, tea.Quit
	}
	return a, nil
}

func (a *App) handleInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		a.closeInput()
		return a, nil
	case "enter":
		a.submitInput()
		return a, nil
	}

	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	return a, cmd
}

func (a *App) submitInput() {
	value := a.input.Value()
	mode := a.mode
	renameID := a.renameID
	a.closeInput()

	switch mode {
	case ModeAddTask:
		if err := a.ctrl.AddTask(value); err != nil {
			a.setError(err)
			return
		}
		a.taskListComp.SetCursor(len(a.ctrl.Tasks()) - 1)
	case ModeNewList:
		a.host.text, a.host.textOK = value, true
		list, _, err := a.ctrl.PromptNewList()
		if err != nil {
			a.setError(err)
			return
		}
		a.statusMsg = "Created " + todo.Printable(list.Name)
	case ModeRename:
		if err := a.ctrl.RenameList(renameID, value); err != nil {
			a.setError(err)
			return
		}
		reg := a.ctrl.Registry()
		a.tabsComp.SetLists(reg.Lists, reg.ActiveID)
	}
}

func (a *App) handleConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var answer bool
	switch msg.String() {
	case "y", "Y":
		answer = true
	case "n", "N", "esc", "q":
		answer = false
	default:
		return a, nil
	}

	id := a.pendingDelete
	a.pendingDelete = ""
	a.mode = ModeNormal

	a.host.confirm = answer
	if err := a.ctrl.DeleteList(id); err != nil {
		a.setError(err)
		return a, nil
	}
	if answer {
		a.taskListComp.SetCursor(0)
		a.statusMsg = "List deleted"
	}
	return a, nil
}

// toggleSelected flips the task under the cursor and returns a notification
// command when that completed the list.
func (a *App) toggleSelected() tea.Cmd {
	task, ok := a.taskListComp.SelectedTask()
	if !ok {
		return nil
	}
	if err := a.ctrl.ToggleTask(a.taskListComp.Cursor()); err != nil {
		a.setError(err)
		return nil
	}
	if task.Checked || !a.config.UI.NotifyOnComplete || !todo.AllChecked(a.ctrl.Tasks()) {
		return nil
	}

	name := todo.Printable(a.title)
	notify := a.notify
	return func() tea.Msg {
		if err := notify(name, "All tasks done!"); err != nil {
			return notifyErrMsg{err: err}
		}
		return nil
	}
}

func (a *App) copySelected() {
	task, ok := a.taskListComp.SelectedTask()
	if !ok {
		return
	}
	if err := a.copyText(task.Text); err != nil {
		a.setError(err)
		return
	}
	a.statusMsg = "Copied to clipboard"
}

func (a *App) switchTo(id string) {
	if err := a.ctrl.SwitchList(id); err != nil {
		a.setError(err)
		return
	}
	a.taskListComp.SetCursor(0)
}

func (a *App) openInput(mode Mode, placeholder, value string) {
	a.mode = mode
	a.keyState.Reset()
	a.input.Placeholder = placeholder
	a.input.SetValue(value)
	a.input.CursorEnd()
	a.input.Focus()
}

func (a *App) closeInput() {
	a.mode = ModeNormal
	a.renameID = ""
	a.input.Blur()
	a.input.Reset()
}

func (a *App) inputActive() bool {
	switch a.mode {
	case ModeAddTask, ModeNewList, ModeRename:
		return true
	}
	return false
}

// setError shows err in the status bar. User errors get a friendly message;
// anything else is also logged.
func (a *App) setError(err error) {
	if err == nil {
		return
	}
	a.err = err
	a.statusMsg = errorText(err)
	if !todo.IsUserError(err) {
		a.logger.Error("operation failed", "err", err)
	}
}

func errorText(err error) string {
	switch {
	case errors.Is(err, todo.ErrEmptyTask):
		return "You must write something!"
	case errors.Is(err, todo.ErrEmptyName):
		return "The name cannot be empty."
	case errors.Is(err, todo.ErrNoActiveList):
		return "Create a list first (press n)."
	}
	return "Error: " + err.Error()
}

// layout sizes the components to the terminal.
func (a *App) layout() {
	a.tabsComp.SetSize(a.width, 3)
	a.helpComp.SetSize(a.width, a.height)

	// tabs, title, pane borders, input box, status bar
	listHeight := a.height - 3 - 2 - 2 - 3 - 1
	if listHeight < 1 {
		listHeight = 1
	}
	listWidth := a.width - 4
	if listWidth < 10 {
		listWidth = 10
	}
	a.taskListComp.SetSize(listWidth, listHeight)
	a.input.Width = listWidth - 4
}
