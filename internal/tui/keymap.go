package tui

import (
	"strconv"

	tea "github.com/charmbracelet/bubbletea"
)

// Key represents a key binding.
type Key struct {
	Key  string
	Help string
}

// Keymap contains all key bindings for the application.
type Keymap struct {
	// Navigation
	Up       Key
	Down     Key
	Bottom   Key
	HalfUp   Key
	HalfDown Key
	PrevList Key
	NextList Key

	// List actions
	NewList    Key
	RenameList Key
	DeleteList Key

	// Task actions
	AddTask    Key
	InsertTask Key
	ToggleTask Key

	// General
	Help Key
	Quit Key
	Back Key
}

// DefaultKeymap returns the key bindings. With vimMode off the h/j/k/l
// letters are left unbound and only the arrow keys navigate.
func DefaultKeymap(vimMode bool) Keymap {
	km := Keymap{
		Up:       Key{Key: "up", Help: "up"},
		Down:     Key{Key: "down", Help: "down"},
		Bottom:   Key{Key: "G", Help: "bottom"},
		HalfUp:   Key{Key: "ctrl+u", Help: "half page up"},
		HalfDown: Key{Key: "ctrl+d", Help: "half page down"},
		PrevList: Key{Key: "left", Help: "previous list"},
		NextList: Key{Key: "right", Help: "next list"},

		NewList:    Key{Key: "n", Help: "new list"},
		RenameList: Key{Key: "r", Help: "rename list"},
		DeleteList: Key{Key: "D", Help: "delete list"},

		AddTask:    Key{Key: "a", Help: "add task"},
		InsertTask: Key{Key: "i", Help: "add task"},
		ToggleTask: Key{Key: "x", Help: "check/uncheck"},

		Help: Key{Key: "?", Help: "help"},
		Quit: Key{Key: "q", Help: "quit"},
		Back: Key{Key: "esc", Help: "back"},
	}
	if vimMode {
		km.Up.Key = "k"
		km.Down.Key = "j"
		km.PrevList.Key = "h"
		km.NextList.Key = "l"
	}
	return km
}

// KeyState tracks multi-key sequences (like 'gg' or 'dd' or 'yy').
type KeyState struct {
	WaitingG bool // Waiting for second 'g' in 'gg'
	WaitingD bool // Waiting for second 'd' in 'dd'
	WaitingY bool // Waiting for second 'y' in 'yy'
}

// Action is the result of interpreting a key press in normal mode.
type Action struct {
	Name string
	N    int // list number for "jump"
}

// HandleKey processes a key press and returns the action to take.
// ok is false when the key is not bound.
func (ks *KeyState) HandleKey(msg tea.KeyMsg, km Keymap) (Action, bool) {
	key := msg.String()

	if ks.WaitingG {
		ks.WaitingG = false
		if key == "g" {
			return Action{Name: "top"}, true
		}
	}
	if ks.WaitingD {
		ks.WaitingD = false
		if key == "d" {
			return Action{Name: "remove"}, true
		}
	}
	if ks.WaitingY {
		ks.WaitingY = false
		if key == "y" {
			return Action{Name: "copy"}, true
		}
	}

	switch key {
	case "g":
		ks.WaitingG = true
		return Action{}, true
	case "d":
		ks.WaitingD = true
		return Action{}, true
	case "y":
		ks.WaitingY = true
		return Action{}, true
	}

	if len(key) == 1 && key[0] >= '1' && key[0] <= '9' {
		n, _ := strconv.Atoi(key)
		return Action{Name: "jump", N: n}, true
	}

	switch key {
	case km.Up.Key, "up":
		return Action{Name: "up"}, true
	case km.Down.Key, "down":
		return Action{Name: "down"}, true
	case km.Bottom.Key:
		return Action{Name: "bottom"}, true
	case km.HalfUp.Key:
		return Action{Name: "half_up"}, true
	case km.HalfDown.Key:
		return Action{Name: "half_down"}, true
	case km.PrevList.Key, "left", "shift+tab":
		return Action{Name: "prev_list"}, true
	case km.NextList.Key, "right", "tab":
		return Action{Name: "next_list"}, true
	case km.NewList.Key:
		return Action{Name: "new_list"}, true
	case km.RenameList.Key:
		return Action{Name: "rename_list"}, true
	case km.DeleteList.Key:
		return Action{Name: "delete_list"}, true
	case km.AddTask.Key, km.InsertTask.Key:
		return Action{Name: "add"}, true
	case km.ToggleTask.Key, " ", "enter":
		return Action{Name: "toggle"}, true
	case km.Help.Key:
		return Action{Name: "help"}, true
	case km.Quit.Key, "ctrl+c":
		return Action{Name: "quit"}, true
	}

	return Action{}, false
}

// Reset clears any pending multi-key sequences.
func (ks *KeyState) Reset() {
	ks.WaitingG = false
	ks.WaitingD = false
	ks.WaitingY = false
}

// HelpItems returns key-description pairs for the help view. A pair with an
// empty description starts a section.
func (k Keymap) HelpItems() [][]string {
	return [][]string{
		{"Lists", ""},
		{k.PrevList.Key + "/" + k.NextList.Key, "Previous/next list"},
		{"tab/shift+tab", "Next/previous list"},
		{"1-9", "Jump to list"},
		{k.NewList.Key, "New list"},
		{k.RenameList.Key, "Rename list"},
		{k.DeleteList.Key, "Delete list"},
		{"", ""},
		{"Tasks", ""},
		{k.Up.Key + "/" + k.Down.Key, "Move up/down"},
		{"gg/" + k.Bottom.Key, "Go to top/bottom"},
		{k.HalfUp.Key + "/" + k.HalfDown.Key, "Half page up/down"},
		{k.AddTask.Key + "/" + k.InsertTask.Key, "Add task"},
		{k.ToggleTask.Key + "/space", "Check/uncheck task"},
		{"dd", "Remove task"},
		{"yy", "Copy task to clipboard"},
		{"", ""},
		{"General", ""},
		{k.Help.Key, "Toggle help"},
		{k.Back.Key, "Cancel"},
		{k.Quit.Key, "Quit"},
	}
}
