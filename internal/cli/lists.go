package cli

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/hy4ri/todo-tabs/internal/todo"
	"github.com/spf13/cobra"
)

var (
	activeMarker = color.New(color.FgHiMagenta)
	checkedMark  = color.New(color.FgHiGreen)
	doneMark     = color.New(color.FgGreen)
	warnMark     = color.New(color.FgYellow)
)

func listsCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "lists",
		Short: "List all to-do lists",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctrl, err := e.controller(cmd)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			reg := ctrl.Registry()
			if len(reg.Lists) == 0 {
				fmt.Fprintln(out, "No lists. Create one with 'todo-tabs new <name>'.")
				return nil
			}

			for i, l := range reg.Lists {
				tasks, err := ctrl.LoadTasks(l.ID)
				if err != nil {
					return err
				}
				done := 0
				for _, t := range tasks {
					if t.Checked {
						done++
					}
				}
				marker := ""
				if l.ID == reg.ActiveID {
					marker = activeMarker.Sprint(" ←")
				}
				fmt.Fprintf(out, "%d. %s (%d/%d)%s\n", i+1, todo.Printable(l.Name), done, len(tasks), marker)
			}
			return nil
		},
	}
}

func showCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "show [list]",
		Short: "Show the tasks of a list (default: the active one)",
		Long: `Show the tasks of a list without making it active.

A list can be referred to by id, by its position in 'todo-tabs lists',
or by name (case-insensitive).`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctrl, err := e.controller(cmd)
			if err != nil {
				return err
			}

			list, ok := ctrl.ActiveList()
			tasks := ctrl.Tasks()
			if len(args) == 1 {
				list, err = resolve(ctrl, args[0])
				if err != nil {
					return err
				}
				ok = true
				if tasks, err = ctrl.LoadTasks(list.ID); err != nil {
					return err
				}
			}
			if !ok {
				return todo.ErrNoActiveList
			}

			printTasks(cmd, list.Name, tasks)
			return nil
		},
	}
}

func newCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "new [name...]",
		Short: "Create a list and make it active",
		Long:  "Create a list and make it active. Without a name you are asked for one.",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctrl, err := e.controller(cmd)
			if err != nil {
				return err
			}

			var list todo.ListRecord
			if len(args) > 0 {
				list, err = ctrl.CreateList(strings.Join(args, " "))
			} else {
				var ok bool
				list, ok, err = ctrl.PromptNewList()
				if err == nil && !ok {
					fmt.Fprintln(cmd.OutOrStdout(), "Cancelled")
					return nil
				}
			}
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "✓ Created list %s\n", todo.Printable(list.Name))
			return nil
		},
	}
}

func renameCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "rename <list> <name...>",
		Short: "Rename a list",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctrl, err := e.controller(cmd)
			if err != nil {
				return err
			}
			list, err := resolve(ctrl, args[0])
			if err != nil {
				return err
			}

			name := strings.Join(args[1:], " ")
			if err := ctrl.RenameList(list.ID, name); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Renamed %s to %s\n", todo.Printable(list.Name), todo.Printable(strings.TrimSpace(name)))
			return nil
		},
	}
}

func deleteCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <list>",
		Short: "Delete a list and its tasks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctrl, err := e.controller(cmd)
			if err != nil {
				return err
			}
			list, err := resolve(ctrl, args[0])
			if err != nil {
				return err
			}

			if err := ctrl.DeleteList(list.ID); err != nil {
				return err
			}
			if ctrl.Registry().Index(list.ID) >= 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "Kept list %s\n", todo.Printable(list.Name))
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Deleted list %s\n", todo.Printable(list.Name))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&e.assumeYes, "yes", "y", false, "Delete without asking")

	return cmd
}

func switchCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "switch <list>",
		Short: "Make a list the active one",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctrl, err := e.controller(cmd)
			if err != nil {
				return err
			}
			list, err := resolve(ctrl, args[0])
			if err != nil {
				return err
			}

			if err := ctrl.SwitchList(list.ID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Switched to %s\n", todo.Printable(list.Name))
			return nil
		},
	}
}

// resolve looks a list reference up in the registry, naming the reference
// in the error.
func resolve(ctrl *todo.Controller, ref string) (todo.ListRecord, error) {
	list, err := ctrl.Registry().Resolve(ref)
	if err != nil {
		return todo.ListRecord{}, fmt.Errorf("%w: %q", err, ref)
	}
	return list, nil
}

func printTasks(cmd *cobra.Command, name string, tasks []todo.Task) {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, todo.Printable(name))
	if len(tasks) == 0 {
		fmt.Fprintln(out, "  (no tasks)")
		return
	}
	for i, t := range tasks {
		box := "[ ]"
		if t.Checked {
			box = checkedMark.Sprint("[x]")
		}
		fmt.Fprintf(out, "  %d. %s %s\n", i+1, box, todo.Printable(t.Text))
	}
	if todo.AllChecked(tasks) {
		fmt.Fprintln(out, doneMark.Sprint("  All done!"))
	}
}
