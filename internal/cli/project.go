package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/driftlab/blobtask/internal/model"
)

var projectCmd = &cobra.Command{
	Use:   "project",
	Short: "Manage projects",
}

var projectNewCmd = &cobra.Command{
	Use:   "new [title]",
	Short: "Create a new project",
	Long: `Create a new project.

Examples:
  blobtask project new "Groceries"
  blobtask project new "Work" --color sky`,
	Args: cobra.MinimumNArgs(1),
	RunE: runProjectNew,
}

var projectListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List projects with their progress",
	RunE:    runProjectList,
}

var projectDeleteCmd = &cobra.Command{
	Use:     "delete [project]",
	Aliases: []string{"rm"},
	Short:   "Delete a project and all its tasks",
	Args:    cobra.ExactArgs(1),
	RunE:    runProjectDelete,
}

var projectColor string

func init() {
	projectNewCmd.Flags().StringVarP(&projectColor, "color", "c", model.BlobColors[0],
		"Blob color tag ("+strings.Join(model.BlobColors, ", ")+")")

	projectCmd.AddCommand(projectNewCmd)
	projectCmd.AddCommand(projectListCmd)
	projectCmd.AddCommand(projectDeleteCmd)
}

func runProjectNew(cmd *cobra.Command, args []string) error {
	a, err := startApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := requireProfile(a); err != nil {
		return err
	}

	title := strings.Join(args, " ")
	p, err := a.Projects.Create(cmd.Context(), title, projectColor)
	if err != nil {
		return nil
	}
	if p.ID == "" {
		return nil
	}

	fmt.Printf("✅ Created project %q (%s, %s)\n", p.Title, shortID(p.ID), p.BlobColor)
	return nil
}

func runProjectList(cmd *cobra.Command, args []string) error {
	a, err := startApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := requireProfile(a); err != nil {
		return err
	}

	projects := a.Projects.List()
	if len(projects) == 0 {
		fmt.Println("No projects yet. Create one with 'blobtask project new <title>'.")
		return nil
	}

	for _, p := range projects {
		done, total := p.Progress()
		marker := " "
		if p.ID == a.Tree.Selected() {
			marker = "*"
		}
		fmt.Printf("%s %s  %-24s %s  %d/%d done  %s\n",
			marker, shortID(p.ID), p.Title, p.BlobColor, done, total,
			p.CreatedAt.Format(time.DateOnly))
	}

	done, total := a.Tree.Progress()
	if total > 0 {
		fmt.Printf("\nOverall: %d/%d tasks done (%d%%)\n", done, total, done*100/total)
	}
	return nil
}

func runProjectDelete(cmd *cobra.Command, args []string) error {
	a, err := startApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := requireProfile(a); err != nil {
		return err
	}

	p, err := findProject(a, args[0])
	if err != nil {
		return err
	}

	if err := a.Projects.Delete(cmd.Context(), p.ID); err != nil {
		return nil
	}

	fmt.Printf("🗑  Deleted project %q\n", p.Title)
	return nil
}
