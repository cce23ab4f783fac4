package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var addCmd = &cobra.Command{
	Use:   "add [text]",
	Short: "Add a task",
	Long: `Add a task to a project. Without --project the task goes to the
selected project, or the only one if there is exactly one.

Examples:
  blobtask add "Buy milk"
  blobtask add "Call dentist" --project Groceries --desc "ask about Friday"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAdd,
}

var listCmd = &cobra.Command{
	Use:     "list [project]",
	Aliases: []string{"ls"},
	Short:   "List a project's tasks",
	RunE:    runList,
}

var doneCmd = &cobra.Command{
	Use:   "done [task]",
	Short: "Toggle a task's completed flag",
	Args:  cobra.ExactArgs(1),
	RunE:  runDone,
}

var deleteCmd = &cobra.Command{
	Use:     "delete [task]",
	Aliases: []string{"rm"},
	Short:   "Delete a task",
	Args:    cobra.ExactArgs(1),
	RunE:    runDelete,
}

var (
	taskProject string
	taskDesc    string
)

func init() {
	addCmd.Flags().StringVarP(&taskProject, "project", "P", "", "Target project (id prefix or title)")
	addCmd.Flags().StringVarP(&taskDesc, "desc", "d", "", "Optional description")
	listCmd.Flags().StringVarP(&taskProject, "project", "P", "", "Target project (id prefix or title)")
	doneCmd.Flags().StringVarP(&taskProject, "project", "P", "", "Target project (id prefix or title)")
	deleteCmd.Flags().StringVarP(&taskProject, "project", "P", "", "Target project (id prefix or title)")
}

func runAdd(cmd *cobra.Command, args []string) error {
	a, err := startApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := requireProfile(a); err != nil {
		return err
	}

	p, err := defaultProject(a, taskProject)
	if err != nil {
		return err
	}

	text := strings.Join(args, " ")
	if err := a.Projects.AddTask(cmd.Context(), p.ID, text, taskDesc); err != nil {
		return nil
	}

	fmt.Printf("✅ Added to %q: %s\n", p.Title, strings.TrimSpace(text))
	return nil
}

func runList(cmd *cobra.Command, args []string) error {
	a, err := startApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := requireProfile(a); err != nil {
		return err
	}

	arg := taskProject
	if len(args) > 0 {
		arg = args[0]
	}
	p, err := defaultProject(a, arg)
	if err != nil {
		return err
	}

	done, total := p.Progress()
	fmt.Printf("%s (%s): %d/%d done\n", p.Title, p.BlobColor, done, total)

	active := p.ActiveTasks()
	completed := p.CompletedTasks()
	if len(active) == 0 && len(completed) == 0 {
		fmt.Println("  No tasks yet.")
		return nil
	}

	for _, t := range active {
		fmt.Printf("  [ ] %s  %s\n", shortID(t.ID), t.Text)
		if t.Description != "" {
			fmt.Printf("          %s\n", t.Description)
		}
	}
	for _, t := range completed {
		fmt.Printf("  [x] %s  %s\n", shortID(t.ID), t.Text)
	}
	return nil
}

func runDone(cmd *cobra.Command, args []string) error {
	a, err := startApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := requireProfile(a); err != nil {
		return err
	}

	p, err := defaultProject(a, taskProject)
	if err != nil {
		return err
	}
	t, err := findTask(p, args[0])
	if err != nil {
		return err
	}

	if err := a.Projects.ToggleTask(cmd.Context(), p.ID, t.ID); err != nil {
		return nil
	}

	if t.Completed {
		fmt.Printf("↩️  Reopened: %s\n", t.Text)
	} else {
		fmt.Printf("✅ Done: %s\n", t.Text)
	}
	return nil
}

func runDelete(cmd *cobra.Command, args []string) error {
	a, err := startApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := requireProfile(a); err != nil {
		return err
	}

	p, err := defaultProject(a, taskProject)
	if err != nil {
		return err
	}
	t, err := findTask(p, args[0])
	if err != nil {
		return err
	}

	if err := a.Projects.DeleteTask(cmd.Context(), p.ID, t.ID); err != nil {
		return nil
	}

	fmt.Printf("🗑  Deleted: %s\n", t.Text)
	return nil
}
