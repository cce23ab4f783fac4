package repo

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/driftlab/blobtask/internal/logger"
	"github.com/driftlab/blobtask/internal/model"
	"github.com/driftlab/blobtask/internal/state"
	"github.com/driftlab/blobtask/internal/store"
)

// ProjectRepository is CRUD over the per-identity project collection
type ProjectRepository struct {
	projects store.ProjectStore
	tree     *state.Tree
}

// NewProjectRepository creates a project repository
func NewProjectRepository(projects store.ProjectStore, tree *state.Tree) *ProjectRepository {
	return &ProjectRepository{projects: projects, tree: tree}
}

// Subscribe starts the collection watch and mirrors pushes into the tree,
// resorting on every push since the backend does not guarantee order.
func (r *ProjectRepository) Subscribe(ctx context.Context) (store.CancelFunc, error) {
	return r.projects.Watch(ctx,
		func(projects []model.Project) {
			r.tree.ApplyRemoteProjects(projects)
		},
		func(err error) {
			logger.Error("Project watch error", logger.F("error", err))
		})
}

// List returns the cached collection, newest first
func (r *ProjectRepository) List() []model.Project {
	return r.tree.Projects()
}

// Create makes a new project with an empty task sequence. A trimmed-empty
// title is a silent no-op. The new project becomes the default target for
// new tasks when nothing was selected yet.
func (r *ProjectRepository) Create(ctx context.Context, title, colorTag string) (model.Project, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return model.Project{}, nil
	}

	p := model.NewProject(uuid.New().String(), title, colorTag)
	r.tree.UpsertProject(p)
	if r.tree.Selected() == "" {
		r.tree.Select(p.ID)
	}

	r.tree.BeginWrite()
	defer r.tree.EndWrite()
	if err := r.projects.Put(ctx, p); err != nil {
		logger.Error("Failed to persist project", logger.F("project", p.ID), logger.F("error", err))
		return p, err
	}

	logger.Info("Project created", logger.F("project", p.ID), logger.F("title", title))
	return p, nil
}

// Delete removes a project and makes its tasks unreachable. Unknown ids
// are a no-op. Any exit-transition delay belongs to the presentation
// layer, not here.
func (r *ProjectRepository) Delete(ctx context.Context, id string) error {
	if _, ok := r.tree.Project(id); !ok {
		return nil
	}

	r.tree.RemoveProject(id)

	r.tree.BeginWrite()
	defer r.tree.EndWrite()
	if err := r.projects.Delete(ctx, id); err != nil {
		logger.Error("Failed to delete project", logger.F("project", id), logger.F("error", err))
		return err
	}
	return nil
}

// AddTask prepends a task to a project's sequence. Requires a resolved
// project and non-empty trimmed text, else a silent no-op.
func (r *ProjectRepository) AddTask(ctx context.Context, projectID, text, description string) error {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	return r.mutateTasks(ctx, projectID, func(tasks []model.Task) []model.Task {
		t := model.NewTask(uuid.New().String(), text, description)
		return append([]model.Task{t}, tasks...)
	})
}

// ToggleTask flips the completed flag of the matching task
func (r *ProjectRepository) ToggleTask(ctx context.Context, projectID, taskID string) error {
	return r.mutateTasks(ctx, projectID, func(tasks []model.Task) []model.Task {
		for i := range tasks {
			if tasks[i].ID == taskID {
				tasks[i].Completed = !tasks[i].Completed
				break
			}
		}
		return tasks
	})
}

// DeleteTask removes the matching task from the sequence
func (r *ProjectRepository) DeleteTask(ctx context.Context, projectID, taskID string) error {
	return r.mutateTasks(ctx, projectID, func(tasks []model.Task) []model.Task {
		kept := make([]model.Task, 0, len(tasks))
		for _, t := range tasks {
			if t.ID != taskID {
				kept = append(kept, t)
			}
		}
		return kept
	})
}

// mutateTasks is the shared task-mutation path: locate the project
// locally, compute the new sequence, update state optimistically, then
// persist the entire sequence as a single field write. Concurrent writers
// resolve by last write wins over the whole sequence.
func (r *ProjectRepository) mutateTasks(ctx context.Context, projectID string, fn func([]model.Task) []model.Task) error {
	p, ok := r.tree.Project(projectID)
	if !ok {
		return nil
	}

	tasks := make([]model.Task, len(p.Tasks))
	copy(tasks, p.Tasks)
	tasks = fn(tasks)

	r.tree.SetTasks(projectID, tasks)

	r.tree.BeginWrite()
	defer r.tree.EndWrite()
	if err := r.projects.SetTasks(ctx, projectID, tasks); err != nil {
		logger.Error("Failed to persist tasks", logger.F("project", projectID), logger.F("error", err))
		return err
	}
	return nil
}
