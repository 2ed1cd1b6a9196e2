package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/hy4ri/todo-tabs/internal/todo"
	"github.com/hy4ri/todo-tabs/internal/tui/styles"
)

// halfPage is how far ctrl+d and ctrl+u move the cursor.
const halfPage = 10

// TaskListModel manages a scrollable list of tasks.
type TaskListModel struct {
	tasks         []todo.Task
	cursor        int
	width, height int
	viewportReady bool
	viewport      viewport.Model
	emptyMessage  string
}

// NewTaskList creates a new TaskListModel.
func NewTaskList() *TaskListModel {
	return &TaskListModel{
		emptyMessage: "No tasks yet. Press a to add one.",
	}
}

// Init implements Component.
func (t *TaskListModel) Init() tea.Cmd {
	return nil
}

// Update implements Component.
func (t *TaskListModel) Update(msg tea.Msg) (Component, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "j", "down":
			t.MoveCursor(1)
		case "k", "up":
			t.MoveCursor(-1)
		case "G":
			t.MoveCursor(len(t.tasks))
		case "ctrl+d":
			t.MoveCursor(halfPage)
		case "ctrl+u":
			t.MoveCursor(-halfPage)
		}
	}
	return t, nil
}

// View implements Component.
func (t *TaskListModel) View() string {
	if len(t.tasks) == 0 {
		return styles.Muted.Render(t.emptyMessage)
	}

	lines := make([]string, len(t.tasks))
	for i := range t.tasks {
		lines[i] = t.renderTask(i)
	}
	content := strings.Join(lines, "\n")

	if !t.viewportReady {
		return content
	}
	t.viewport.SetContent(content)
	t.syncViewportToCursor()
	return t.viewport.View()
}

// renderTask renders a single task line.
func (t *TaskListModel) renderTask(i int) string {
	task := t.tasks[i]

	checkbox := styles.Checkbox.Render("[ ]")
	if task.Checked {
		checkbox = styles.CheckboxChecked.Render("[x]")
	}

	text := todo.Printable(task.Text)
	if t.width > 0 {
		text = Truncate(text, t.width-8)
	}
	if task.Checked {
		text = styles.TaskCompleted.Render(text)
	}

	style := styles.TaskItem
	if i == t.cursor {
		style = styles.TaskSelected
	}
	return style.Render(checkbox + " " + text)
}

// syncViewportToCursor ensures the viewport shows the cursor line.
func (t *TaskListModel) syncViewportToCursor() {
	vpHeight := t.viewport.Height
	if vpHeight <= 0 {
		return
	}

	top := t.viewport.YOffset
	bottom := top + vpHeight - 1

	if t.cursor < top {
		t.viewport.SetYOffset(t.cursor)
	} else if t.cursor > bottom {
		t.viewport.SetYOffset(t.cursor - vpHeight + 1)
	}
}

// SetSize implements Component.
func (t *TaskListModel) SetSize(width, height int) {
	t.width = width
	t.height = height

	if !t.viewportReady {
		t.viewport = viewport.New(width, height)
		t.viewport.Style = lipgloss.NewStyle()
		t.viewportReady = true
	} else {
		t.viewport.Width = width
		t.viewport.Height = height
	}
}

// SetTasks updates the task list, keeping the cursor in range.
func (t *TaskListModel) SetTasks(tasks []todo.Task) {
	t.tasks = tasks
	if t.cursor >= len(tasks) {
		t.cursor = len(tasks) - 1
	}
	if t.cursor < 0 {
		t.cursor = 0
	}
}

// Cursor returns the current cursor position.
func (t *TaskListModel) Cursor() int {
	return t.cursor
}

// SetCursor sets the cursor position.
func (t *TaskListModel) SetCursor(pos int) {
	if pos >= 0 && pos < len(t.tasks) {
		t.cursor = pos
	}
}

// SelectedTask returns the task under the cursor.
func (t *TaskListModel) SelectedTask() (todo.Task, bool) {
	if t.cursor >= 0 && t.cursor < len(t.tasks) {
		return t.tasks[t.cursor], true
	}
	return todo.Task{}, false
}

// MoveCursor moves the cursor by delta, clamped to the list.
func (t *TaskListModel) MoveCursor(delta int) {
	t.cursor += delta
	if t.cursor >= len(t.tasks) {
		t.cursor = len(t.tasks) - 1
	}
	if t.cursor < 0 {
		t.cursor = 0
	}
}
