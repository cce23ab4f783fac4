// Package state holds the in-memory mirror of profile and projects. The
// tree is the sole in-memory owner of that data: repositories mutate it
// optimistically before persisting, and watch pushes reconcile it with
// whatever the backend currently holds. Pushes landing while an
// optimistic write is still in flight are dropped, so stale server data
// never overwrites a value the user just entered.
package state

import (
	"sync"

	"github.com/driftlab/blobtask/internal/model"
)

// Tree is the application state tree
type Tree struct {
	mu       sync.RWMutex
	profile  *model.Profile
	projects []model.Project
	selected string // default target project for new tasks

	// pendingWrites counts optimistic writes still awaiting their store
	// acknowledgement. Reconciliation pushes arriving in that window are
	// dropped instead of clobbering the optimistic value with stale
	// server data; the acknowledged write echoes back as its own push.
	pendingWrites int

	changed chan struct{}
}

// NewTree creates an empty tree
func NewTree() *Tree {
	return &Tree{
		projects: []model.Project{},
		changed:  make(chan struct{}, 1),
	}
}

// Changed returns a coalescing signal channel the presentation layer can
// block on. At least one signal is delivered after any mutation.
func (t *Tree) Changed() <-chan struct{} {
	return t.changed
}

func (t *Tree) notify() {
	select {
	case t.changed <- struct{}{}:
	default:
	}
}

// Profile returns a copy of the current profile, or nil when logged out
func (t *Tree) Profile() *model.Profile {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.profile == nil {
		return nil
	}
	p := *t.profile
	return &p
}

// SetProfile replaces the profile, from a mutation or a watch push
func (t *Tree) SetProfile(p *model.Profile) {
	t.mu.Lock()
	t.profile = p
	t.mu.Unlock()
	t.notify()
}

// PatchProfile applies fn to the profile in place, if one exists
func (t *Tree) PatchProfile(fn func(*model.Profile)) {
	t.mu.Lock()
	if t.profile != nil {
		fn(t.profile)
	}
	t.mu.Unlock()
	t.notify()
}

// Projects returns a copy of the collection, newest first
func (t *Tree) Projects() []model.Project {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]model.Project, len(t.projects))
	copy(out, t.projects)
	return out
}

// Project returns one project by id
func (t *Tree) Project(id string) (model.Project, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	for _, p := range t.projects {
		if p.ID == id {
			return p, true
		}
	}
	return model.Project{}, false
}

// SetProjects replaces the collection, resorting since storage does not
// guarantee order. A selection pointing at a vanished project is dropped.
func (t *Tree) SetProjects(projects []model.Project) {
	model.SortProjects(projects)

	t.mu.Lock()
	t.projects = projects
	if _, ok := t.findLocked(t.selected); !ok {
		t.selected = ""
	}
	t.mu.Unlock()
	t.notify()
}

// UpsertProject adds or replaces one project and resorts
func (t *Tree) UpsertProject(p model.Project) {
	t.mu.Lock()
	replaced := false
	for i := range t.projects {
		if t.projects[i].ID == p.ID {
			t.projects[i] = p
			replaced = true
			break
		}
	}
	if !replaced {
		t.projects = append(t.projects, p)
	}
	model.SortProjects(t.projects)
	t.mu.Unlock()
	t.notify()
}

// RemoveProject drops one project; unknown ids are a no-op
func (t *Tree) RemoveProject(id string) {
	t.mu.Lock()
	kept := t.projects[:0]
	for _, p := range t.projects {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	t.projects = kept
	if t.selected == id {
		t.selected = ""
	}
	t.mu.Unlock()
	t.notify()
}

// SetTasks replaces one project's whole task sequence
func (t *Tree) SetTasks(projectID string, tasks []model.Task) {
	t.mu.Lock()
	for i := range t.projects {
		if t.projects[i].ID == projectID {
			t.projects[i].Tasks = tasks
			break
		}
	}
	t.mu.Unlock()
	t.notify()
}

// Selected returns the default target project id, empty when none
func (t *Tree) Selected() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.selected
}

// Select sets the default target project
func (t *Tree) Select(id string) {
	t.mu.Lock()
	t.selected = id
	t.mu.Unlock()
	t.notify()
}

// BeginWrite marks an optimistic write as in flight
func (t *Tree) BeginWrite() {
	t.mu.Lock()
	t.pendingWrites++
	t.mu.Unlock()
}

// EndWrite marks an in-flight write as settled, acknowledged or not
func (t *Tree) EndWrite() {
	t.mu.Lock()
	if t.pendingWrites > 0 {
		t.pendingWrites--
	}
	t.mu.Unlock()
}

// ApplyRemoteProfile reconciles a profile push, unless an optimistic
// write is still in flight
func (t *Tree) ApplyRemoteProfile(p *model.Profile) {
	t.mu.Lock()
	if t.pendingWrites > 0 {
		t.mu.Unlock()
		return
	}
	t.profile = p
	t.mu.Unlock()
	t.notify()
}

// ApplyRemoteProjects reconciles a collection push, unless an optimistic
// write is still in flight
func (t *Tree) ApplyRemoteProjects(projects []model.Project) {
	t.mu.Lock()
	if t.pendingWrites > 0 {
		t.mu.Unlock()
		return
	}
	model.SortProjects(projects)
	t.projects = projects
	if _, ok := t.findLocked(t.selected); !ok {
		t.selected = ""
	}
	t.mu.Unlock()
	t.notify()
}

// Clear empties the tree, returning the app to the login state
func (t *Tree) Clear() {
	t.mu.Lock()
	t.profile = nil
	t.projects = []model.Project{}
	t.selected = ""
	t.mu.Unlock()
	t.notify()
}

// Progress returns aggregate done and total task counts across projects
func (t *Tree) Progress() (done, total int) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	for _, p := range t.projects {
		d, n := p.Progress()
		done += d
		total += n
	}
	return done, total
}

func (t *Tree) findLocked(id string) (int, bool) {
	for i, p := range t.projects {
		if p.ID == id {
			return i, true
		}
	}
	return 0, false
}
