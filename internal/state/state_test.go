package state

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/driftlab/blobtask/internal/model"
)

func TestSetProjectsResorts(t *testing.T) {
	tree := NewTree()
	base := time.Now()

	// Pushes arrive in arbitrary order; the tree resorts.
	tree.SetProjects([]model.Project{
		{ID: "old", CreatedAt: base.Add(-time.Hour)},
		{ID: "new", CreatedAt: base},
	})

	projects := tree.Projects()
	assert.Equal(t, "new", projects[0].ID)
	assert.Equal(t, "old", projects[1].ID)
}

func TestSelectionDroppedWhenProjectVanishes(t *testing.T) {
	tree := NewTree()
	tree.SetProjects([]model.Project{{ID: "p1", CreatedAt: time.Now()}})
	tree.Select("p1")

	// A remote push without p1 clears the selection.
	tree.SetProjects([]model.Project{})
	assert.Empty(t, tree.Selected())
}

func TestUpsertReplacesById(t *testing.T) {
	tree := NewTree()
	tree.UpsertProject(model.Project{ID: "p1", Title: "before", CreatedAt: time.Now()})
	tree.UpsertProject(model.Project{ID: "p1", Title: "after", CreatedAt: time.Now()})

	projects := tree.Projects()
	assert.Len(t, projects, 1)
	assert.Equal(t, "after", projects[0].Title)
}

func TestChangedSignalCoalesces(t *testing.T) {
	tree := NewTree()

	tree.SetProfile(&model.Profile{Name: "Ana"})
	tree.Select("nothing")

	// At least one signal is pending after a burst of mutations.
	select {
	case <-tree.Changed():
	default:
		t.Fatal("expected a pending change signal")
	}

	// And the channel did not block on the second mutation.
	select {
	case <-tree.Changed():
		t.Fatal("expected signals to coalesce")
	default:
	}
}

func TestProfileCopyIsolation(t *testing.T) {
	tree := NewTree()
	tree.SetProfile(&model.Profile{Name: "Ana"})

	p := tree.Profile()
	p.Name = "mutated"

	assert.Equal(t, "Ana", tree.Profile().Name)
}

func TestPushDeferredDuringPendingWrite(t *testing.T) {
	tree := NewTree()
	tree.SetProjects([]model.Project{{ID: "p1", Title: "optimistic", CreatedAt: time.Now()}})

	// A stale echo arriving mid-write must not clobber the optimistic value.
	tree.BeginWrite()
	tree.ApplyRemoteProjects([]model.Project{{ID: "p1", Title: "stale", CreatedAt: time.Now()}})
	assert.Equal(t, "optimistic", tree.Projects()[0].Title)

	tree.ApplyRemoteProfile(&model.Profile{Name: "stale"})
	assert.Nil(t, tree.Profile())

	// Once the write settles, pushes reconcile again.
	tree.EndWrite()
	tree.ApplyRemoteProjects([]model.Project{{ID: "p1", Title: "acked", CreatedAt: time.Now()}})
	assert.Equal(t, "acked", tree.Projects()[0].Title)

	tree.ApplyRemoteProfile(&model.Profile{Name: "Ana"})
	assert.Equal(t, "Ana", tree.Profile().Name)
}

func TestAggregateProgress(t *testing.T) {
	tree := NewTree()
	tree.SetProjects([]model.Project{
		{ID: "a", CreatedAt: time.Now(), Tasks: []model.Task{{ID: "t1", Completed: true}, {ID: "t2"}}},
		{ID: "b", CreatedAt: time.Now(), Tasks: []model.Task{{ID: "t3", Completed: true}}},
	})

	done, total := tree.Progress()
	assert.Equal(t, 2, done)
	assert.Equal(t, 3, total)
}
