package components

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/hy4ri/todo-tabs/internal/tui/styles"
)

// HelpModel renders the help view with keyboard shortcuts.
type HelpModel struct {
	width, height int
	keymap        [][]string
}

// NewHelp creates a new HelpModel.
func NewHelp(items [][]string) *HelpModel {
	return &HelpModel{keymap: items}
}

// Init implements Component.
func (h *HelpModel) Init() tea.Cmd {
	return nil
}

// Update implements Component.
func (h *HelpModel) Update(msg tea.Msg) (Component, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "esc", "?", "q":
			return h, func() tea.Msg { return CloseHelpMsg{} }
		}
	}
	return h, nil
}

// View implements Component.
func (h *HelpModel) View() string {
	if len(h.keymap) == 0 {
		return styles.Dialog.Render("No keybindings registered")
	}

	var b strings.Builder
	b.WriteString(styles.Title.Render("Keyboard Shortcuts"))
	b.WriteString("\n")

	keyStyle := styles.HelpKey.Width(16).Align(lipgloss.Right).PaddingRight(2)
	for _, item := range h.keymap {
		if len(item) < 2 {
			continue
		}
		key, desc := item[0], item[1]

		switch {
		case key != "" && desc == "":
			b.WriteString("\n" + styles.SectionHeader.Render(" "+key+" ") + "\n")
		case key == "" && desc == "":
			continue
		default:
			b.WriteString(keyStyle.Render(key) + styles.HelpDesc.Render(desc) + "\n")
		}
	}

	b.WriteString("\n")
	footer := styles.HelpDesc.Render("Press esc or ? to close")
	if h.width > 0 {
		footer = lipgloss.NewStyle().Width(h.width).Align(lipgloss.Center).Render(footer)
	}
	b.WriteString(footer)

	return b.String()
}

// SetSize implements Component.
func (h *HelpModel) SetSize(width, height int) {
	h.width = width
	h.height = height
}
