package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/hy4ri/todo-tabs/internal/todo"
	"github.com/spf13/cobra"
)

func addCmd(e *env) *cobra.Command {
	var listRef string

	cmd := &cobra.Command{
		Use:   "add <text...>",
		Short: "Add a task to the active list",
		Long: `Add a task to the active list.

With --list the task goes to that list instead; the active list stays the same.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctrl, err := e.controller(cmd)
			if err != nil {
				return err
			}

			text := strings.Join(args, " ")
			if listRef == "" {
				if err := ctrl.AddTask(text); err != nil {
					return err
				}
				list, _ := ctrl.ActiveList()
				fmt.Fprintf(cmd.OutOrStdout(), "✓ Added to %s: %s\n", todo.Printable(list.Name), todo.Printable(text))
				return nil
			}

			target, err := resolve(ctrl, listRef)
			if err != nil {
				return err
			}
			previous, _ := ctrl.ActiveList()
			if err := ctrl.SwitchList(target.ID); err != nil {
				return err
			}
			addErr := ctrl.AddTask(text)
			if previous.ID != "" {
				if err := ctrl.SwitchList(previous.ID); err != nil {
					return err
				}
			}
			if addErr != nil {
				return addErr
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Added to %s: %s\n", todo.Printable(target.Name), todo.Printable(text))
			return nil
		},
	}

	cmd.Flags().StringVarP(&listRef, "list", "l", "", "List to add to (id, number or name)")

	return cmd
}

func checkCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "check <n>",
		Short: "Check or uncheck task n of the active list",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			idx, err := taskIndex(args[0])
			if err != nil {
				return err
			}
			ctrl, err := e.controller(cmd)
			if err != nil {
				return err
			}

			if err := ctrl.ToggleTask(idx); err != nil {
				return fmt.Errorf("%w: %s", err, args[0])
			}
			task := ctrl.Tasks()[idx]
			if task.Checked {
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", checkedMark.Sprint("✓ Checked"), todo.Printable(task.Text))
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "○ Unchecked %s\n", todo.Printable(task.Text))
			}
			return nil
		},
	}
}

func rmCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <n>",
		Short: "Remove task n from the active list",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			idx, err := taskIndex(args[0])
			if err != nil {
				return err
			}
			ctrl, err := e.controller(cmd)
			if err != nil {
				return err
			}

			tasks := ctrl.Tasks()
			if err := ctrl.RemoveTask(idx); err != nil {
				return fmt.Errorf("%w: %s", err, args[0])
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Removed %s\n", todo.Printable(tasks[idx].Text))
			return nil
		},
	}
}

// taskIndex converts a 1-based task number to an index.
func taskIndex(arg string) (int, error) {
	n, err := strconv.Atoi(arg)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("invalid task number %q", arg)
	}
	return n - 1, nil
}
