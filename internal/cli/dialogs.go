package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// promptDialogs asks questions on a line-oriented terminal.
type promptDialogs struct {
	in        *bufio.Reader
	out       io.Writer
	assumeYes bool
}

func newPromptDialogs(in io.Reader, out io.Writer, assumeYes bool) *promptDialogs {
	return &promptDialogs{in: bufio.NewReader(in), out: out, assumeYes: assumeYes}
}

// Confirm implements todo.Dialogs. Only "y" or "yes" counts as consent.
func (d *promptDialogs) Confirm(message string) bool {
	if d.assumeYes {
		return true
	}
	fmt.Fprintf(d.out, "%s [y/N] ", message)
	line, _ := d.readLine()
	switch strings.ToLower(line) {
	case "y", "yes":
		return true
	}
	return false
}

// PromptText implements todo.Dialogs. End of input without a line cancels.
func (d *promptDialogs) PromptText(message string) (string, bool) {
	fmt.Fprintf(d.out, "%s ", message)
	return d.readLine()
}

func (d *promptDialogs) readLine() (string, bool) {
	line, err := d.in.ReadString('\n')
	if err != nil && line == "" {
		fmt.Fprintln(d.out)
		return "", false
	}
	return strings.TrimRight(line, "\r\n"), true
}
