package components

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/hy4ri/todo-tabs/internal/todo"
	"github.com/hy4ri/todo-tabs/internal/tui/styles"
)

// maxTabWidth caps a single tab label in cells.
const maxTabWidth = 24

// tabHeight is the rendered height of the strip including borders.
const tabHeight = 3

type tabSpan struct {
	id         string
	start, end int
}

// TabsModel renders one tab per list, in registry order.
type TabsModel struct {
	lists    []todo.ListRecord
	activeID string
	width    int
	spans    []tabSpan
}

// NewTabs creates a new TabsModel.
func NewTabs() *TabsModel {
	return &TabsModel{}
}

// Init implements Component.
func (t *TabsModel) Init() tea.Cmd {
	return nil
}

// Update implements Component. A left click on a tab selects it.
func (t *TabsModel) Update(msg tea.Msg) (Component, tea.Cmd) {
	mouse, ok := msg.(tea.MouseMsg)
	if !ok || mouse.Action != tea.MouseActionPress || mouse.Button != tea.MouseButtonLeft {
		return t, nil
	}
	if mouse.Y >= tabHeight {
		return t, nil
	}
	for _, span := range t.spans {
		if mouse.X >= span.start && mouse.X < span.end {
			id := span.id
			return t, func() tea.Msg { return ListSelectedMsg{ID: id} }
		}
	}
	return t, nil
}

// View implements Component.
func (t *TabsModel) View() string {
	t.spans = nil
	if len(t.lists) == 0 {
		return styles.Muted.Render("No lists. Press n to create one.")
	}

	rendered := make([]string, len(t.lists))
	widths := make([]int, len(t.lists))
	active := 0
	for i, l := range t.lists {
		label := Truncate(fmt.Sprintf("%d %s", i+1, todo.Printable(l.Name)), maxTabWidth)
		style := styles.Tab
		if l.ID == t.activeID {
			style = styles.TabActive
			active = i
		}
		rendered[i] = style.Render(label)
		widths[i] = lipgloss.Width(rendered[i])
	}

	first, last := visibleRange(widths, active, t.width)

	var parts []string
	x := 0
	if first > 0 {
		marker := styles.TabOverflow.Render("‹ ")
		parts = append(parts, marker)
		x += lipgloss.Width(marker)
	}
	for i := first; i <= last; i++ {
		parts = append(parts, rendered[i])
		t.spans = append(t.spans, tabSpan{id: t.lists[i].ID, start: x, end: x + widths[i]})
		x += widths[i]
	}
	if last < len(t.lists)-1 {
		parts = append(parts, styles.TabOverflow.Render(" ›"))
	}

	return lipgloss.JoinHorizontal(lipgloss.Bottom, parts...)
}

// visibleRange picks the run of tabs around active that fits in width.
// A width of zero means unbounded.
func visibleRange(widths []int, active, width int) (int, int) {
	if width <= 0 {
		return 0, len(widths) - 1
	}
	// Leave room for both overflow markers.
	budget := width - 4
	first, last := active, active
	used := widths[active]
	for {
		grew := false
		if last+1 < len(widths) && used+widths[last+1] <= budget {
			last++
			used += widths[last]
			grew = true
		}
		if first > 0 && used+widths[first-1] <= budget {
			first--
			used += widths[first]
			grew = true
		}
		if !grew {
			return first, last
		}
	}
}

// SetSize implements Component.
func (t *TabsModel) SetSize(width, _ int) {
	t.width = width
}

// SetLists replaces the tabs and marks activeID as active.
func (t *TabsModel) SetLists(lists []todo.ListRecord, activeID string) {
	t.lists = lists
	t.activeID = activeID
}

// Neighbor returns the id of the tab delta steps from the active one,
// wrapping around. ok is false when there are no tabs.
func (t *TabsModel) Neighbor(delta int) (string, bool) {
	n := len(t.lists)
	if n == 0 {
		return "", false
	}
	idx := 0
	for i, l := range t.lists {
		if l.ID == t.activeID {
			idx = i
			break
		}
	}
	idx = ((idx+delta)%n + n) % n
	return t.lists[idx].ID, true
}

// At returns the id of the nth tab, counting from 1.
func (t *TabsModel) At(n int) (string, bool) {
	if n < 1 || n > len(t.lists) {
		return "", false
	}
	return t.lists[n-1].ID, true
}
