package cli

import (
	"fmt"
	"strings"

	"github.com/driftlab/blobtask/internal/app"
	"github.com/driftlab/blobtask/internal/model"
)

// requireProfile fails with a hint when no profile exists yet
func requireProfile(a *app.App) error {
	if a.Tree.Profile() == nil {
		return fmt.Errorf("not logged in, run 'blobtask login <name>' first")
	}
	return nil
}

// findProject matches a project by id prefix or exact title
// (case-insensitive). Ambiguous prefixes return an error.
func findProject(a *app.App, arg string) (model.Project, error) {
	arg = strings.TrimSpace(arg)
	var matches []model.Project

	for _, p := range a.Tree.Projects() {
		if strings.EqualFold(p.Title, arg) {
			return p, nil
		}
		if arg != "" && strings.HasPrefix(p.ID, arg) {
			matches = append(matches, p)
		}
	}

	switch len(matches) {
	case 1:
		return matches[0], nil
	case 0:
		return model.Project{}, fmt.Errorf("no project matching %q", arg)
	default:
		return model.Project{}, fmt.Errorf("%q matches %d projects, use more of the id", arg, len(matches))
	}
}

// defaultProject resolves the target for task commands: explicit argument
// first, then the selected project, then the only project if there is
// exactly one.
func defaultProject(a *app.App, arg string) (model.Project, error) {
	if arg != "" {
		return findProject(a, arg)
	}

	if id := a.Tree.Selected(); id != "" {
		if p, ok := a.Tree.Project(id); ok {
			return p, nil
		}
	}

	projects := a.Tree.Projects()
	if len(projects) == 1 {
		return projects[0], nil
	}
	return model.Project{}, fmt.Errorf("no project selected, pass --project")
}

// findTask matches a task inside a project by id prefix or exact text
func findTask(p model.Project, arg string) (model.Task, error) {
	arg = strings.TrimSpace(arg)
	var matches []model.Task

	for _, t := range p.Tasks {
		if strings.EqualFold(t.Text, arg) {
			return t, nil
		}
		if arg != "" && strings.HasPrefix(t.ID, arg) {
			matches = append(matches, t)
		}
	}

	switch len(matches) {
	case 1:
		return matches[0], nil
	case 0:
		return model.Task{}, fmt.Errorf("no task matching %q in %q", arg, p.Title)
	default:
		return model.Task{}, fmt.Errorf("%q matches %d tasks, use more of the id", arg, len(matches))
	}
}

// shortID trims a UUID for display
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
