package components

// ListSelectedMsg is emitted when a tab is clicked in the tab strip.
type ListSelectedMsg struct {
	ID string
}

// CloseHelpMsg is emitted when the help view asks to be closed.
type CloseHelpMsg struct{}
