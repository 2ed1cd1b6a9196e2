package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/hy4ri/todo-tabs/internal/todo"
	"github.com/hy4ri/todo-tabs/internal/tui/components"
	"github.com/hy4ri/todo-tabs/internal/tui/styles"
)

// View implements tea.Model.
func (a *App) View() string {
	if a.mode == ModeHelp {
		return a.helpComp.View()
	}

	parts := []string{a.tabsComp.View(), a.renderTitle()}

	if a.mode == ModeConfirmDelete {
		parts = append(parts, a.renderConfirm())
	} else {
		pane := styles.MainContent
		if a.width > 0 {
			pane = pane.Width(a.width - 2)
		}
		parts = append(parts, pane.Render(a.taskListComp.View()))
	}

	if a.inputActive() {
		parts = append(parts, a.renderInput())
	}

	parts = append(parts, a.renderStatusBar())
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// renderTitle renders the active list's name and its progress.
func (a *App) renderTitle() string {
	if a.title == "" {
		return styles.Subtitle.Render("No list selected")
	}

	tasks := a.ctrl.Tasks()
	done := 0
	for _, t := range tasks {
		if t.Checked {
			done++
		}
	}

	title := todo.Printable(a.title)
	if a.width > 0 {
		title = components.Truncate(title, a.width-12)
	}
	progress := styles.HelpDesc.Render(fmt.Sprintf(" %d/%d", done, len(tasks)))
	if todo.AllChecked(tasks) {
		progress = styles.StatusBarSuccess.UnsetBackground().Render(" ✓ all done")
	}
	return styles.Title.Render(title) + progress
}

// renderConfirm renders the delete confirmation dialog.
func (a *App) renderConfirm() string {
	name := ""
	for _, l := range a.ctrl.Registry().Lists {
		if l.ID == a.pendingDelete {
			name = todo.Printable(l.Name)
			break
		}
	}

	var b strings.Builder
	b.WriteString(styles.DialogTitle.Render("Delete list"))
	b.WriteString("\n")
	b.WriteString(todo.DeleteConfirmation(name))
	b.WriteString("\n\n")
	b.WriteString(styles.HelpKey.Render("y") + styles.HelpDesc.Render(" delete  "))
	b.WriteString(styles.HelpKey.Render("n") + styles.HelpDesc.Render(" keep"))

	dialog := styles.Dialog
	if a.width > 0 {
		dialog = dialog.Width(min(a.width-4, 60))
	}
	return dialog.Render(b.String())
}

// renderInput renders the text prompt for the current input mode.
func (a *App) renderInput() string {
	var label string
	switch a.mode {
	case ModeAddTask:
		label = "Add task"
	case ModeNewList:
		label = "New list"
	case ModeRename:
		label = "Rename list"
	}
	return styles.InputFocused.Render(styles.InputLabel.Render(label+": ") + a.input.View())
}

// renderStatusBar renders the bottom line with messages or key hints.
func (a *App) renderStatusBar() string {
	var content string
	switch {
	case a.err != nil:
		content = styles.StatusBarError.Render(a.statusMsg)
	case a.statusMsg != "":
		content = styles.StatusBarSuccess.Render(a.statusMsg)
	case a.inputActive():
		content = a.hints([][2]string{{"enter", "save"}, {"esc", "cancel"}})
	default:
		content = a.hints([][2]string{
			{a.keymap.AddTask.Key, "add"},
			{a.keymap.ToggleTask.Key, "check"},
			{"dd", "remove"},
			{a.keymap.NewList.Key, "new list"},
			{a.keymap.PrevList.Key + "/" + a.keymap.NextList.Key, "switch"},
			{a.keymap.Help.Key, "help"},
			{a.keymap.Quit.Key, "quit"},
		})
	}

	bar := styles.StatusBar
	if a.width > 0 {
		bar = bar.Width(a.width)
	}
	return bar.Render(content)
}

func (a *App) hints(pairs [][2]string) string {
	items := make([]string, len(pairs))
	for i, p := range pairs {
		items[i] = styles.StatusBarKey.Render(p[0]) + styles.StatusBarText.Render(" "+p[1])
	}
	return strings.Join(items, styles.StatusBarText.Render(" • "))
}
