package todo

import (
	"fmt"
	"time"
)

// Snapshot is a copy of everything a renderer needs to draw the app.
type Snapshot struct {
	Lists    []ListRecord
	ActiveID string
	Tasks    []Task
}

// ActiveName returns the active list's name, or "" when none is active.
func (s Snapshot) ActiveName() string {
	for _, l := range s.Lists {
		if l.ID == s.ActiveID {
			return l.Name
		}
	}
	return ""
}

// Renderer draws the tab strip and task list.
type Renderer interface {
	// Render redraws everything from the snapshot.
	Render(s Snapshot)

	// ShowTitle updates only the displayed active-list title.
	ShowTitle(title string)
}

// Dialogs are blocking user prompts supplied by the host environment.
type Dialogs interface {
	// Confirm asks a yes/no question.
	Confirm(message string) bool

	// PromptText asks for a line of text. ok is false when the user cancels.
	PromptText(message string) (text string, ok bool)
}

// IDGenerator produces list ids.
type IDGenerator func() string

// TimestampIDs returns an IDGenerator deriving ids from the creation time.
func TimestampIDs(now func() time.Time) IDGenerator {
	if now == nil {
		now = time.Now
	}
	return func() string {
		return fmt.Sprintf("list-%d", now().UnixMilli())
	}
}

// nopRenderer is used when the controller runs headless.
type nopRenderer struct{}

func (nopRenderer) Render(Snapshot)  {}
func (nopRenderer) ShowTitle(string) {}

// AutoDialogs answers every prompt without user interaction.
type AutoDialogs struct {
	Answer bool
	Text   string
}

// Confirm implements Dialogs.
func (d AutoDialogs) Confirm(string) bool { return d.Answer }

// PromptText implements Dialogs.
func (d AutoDialogs) PromptText(string) (string, bool) { return d.Text, d.Answer }
