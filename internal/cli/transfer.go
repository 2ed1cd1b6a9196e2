package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/hy4ri/todo-tabs/internal/todo"
	"github.com/spf13/cobra"
)

func exportCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "export",
		Short: "Print all lists and tasks as JSON",
		Long: `Print all lists and tasks as a JSON object of storage keys to strings,
the same shape the browser version kept in localStorage.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := e.openStore()
			if err != nil {
				return err
			}
			data, err := todo.Export(store)
			if err != nil {
				return err
			}

			out, err := json.MarshalIndent(data, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to encode export: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		},
	}
}

func importCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Replace all lists with a JSON export",
		Long: `Replace all lists and tasks with the contents of a JSON export.

The file is a JSON object of storage keys to strings, as written by
'todo-tabs export' or copied from the browser's localStorage. Tasks saved
as HTML by old browser versions are converted.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read import file: %w", err)
			}
			var data map[string]string
			if err := json.Unmarshal(raw, &data); err != nil {
				return fmt.Errorf("failed to parse import file: %w", err)
			}

			store, err := e.openStore()
			if err != nil {
				return err
			}
			if _, exists, err := store.GetItem(todo.ListsKey); err != nil {
				return err
			} else if exists {
				dialogs := newPromptDialogs(cmd.InOrStdin(), cmd.OutOrStdout(), e.assumeYes)
				if !dialogs.Confirm("This replaces all existing lists. Continue?") {
					fmt.Fprintln(cmd.OutOrStdout(), "Cancelled")
					return nil
				}
			}

			res, err := todo.Import(store, data)
			if err != nil {
				return err
			}
			e.logger.Info("imported data", "file", args[0], "lists", res.Lists, "tasks", res.Tasks, "skipped", len(res.Skipped))

			fmt.Fprintf(cmd.OutOrStdout(), "✓ Imported %d list(s) with %d task(s)\n", res.Lists, res.Tasks)
			if len(res.Skipped) > 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", warnMark.Sprint("Skipped:"), strings.Join(res.Skipped, ", "))
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&e.assumeYes, "yes", "y", false, "Replace existing lists without asking")

	return cmd
}
