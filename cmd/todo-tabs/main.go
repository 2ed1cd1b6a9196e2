// Package main is the entry point for the todo-tabs application.
package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/hy4ri/todo-tabs/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", color.New(color.FgRed).Sprint("Error:"), err)
		os.Exit(1)
	}
}
