package app

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/driftlab/blobtask/internal/config"
	"github.com/driftlab/blobtask/internal/model"
)

func startLocalApp(t *testing.T, dbPath string) *App {
	t.Helper()
	a := New(&config.Config{AppID: "blobtask"})
	a.LocalPath = dbPath
	require.NoError(t, a.Start(context.Background()))
	t.Cleanup(a.Close)
	return a
}

// TestLocalModeScenario walks the full first-run flow against on-device
// storage: login, create a project, add a task, complete it.
func TestLocalModeScenario(t *testing.T) {
	ctx := context.Background()
	a := startLocalApp(t, filepath.Join(t.TempDir(), "blobtask.db"))

	assert.True(t, a.Identity.Current().IsLocal())
	assert.Nil(t, a.Tree.Profile(), "fresh install starts logged out")

	require.NoError(t, a.Profiles.Login(ctx, "Ana"))
	assert.Empty(t, a.Projects.List())

	p, err := a.Projects.Create(ctx, "Groceries", model.BlobColors[0])
	require.NoError(t, err)

	listed := a.Projects.List()
	require.Len(t, listed, 1)
	assert.Equal(t, "Groceries", listed[0].Title)
	assert.Empty(t, listed[0].Tasks)

	require.NoError(t, a.Projects.AddTask(ctx, p.ID, "Buy milk", ""))

	got, ok := a.Tree.Project(p.ID)
	require.True(t, ok)
	require.Len(t, got.Tasks, 1)
	assert.Equal(t, "Buy milk", got.Tasks[0].Text)
	assert.False(t, got.Tasks[0].Completed)

	require.NoError(t, a.Projects.ToggleTask(ctx, p.ID, got.Tasks[0].ID))

	got, _ = a.Tree.Project(p.ID)
	assert.True(t, got.Tasks[0].Completed)
	assert.Empty(t, got.ActiveTasks(), "task moved out of the active partition")
	require.Len(t, got.CompletedTasks(), 1)
	assert.Len(t, got.Tasks, 1, "task stays in the underlying sequence")
}

// TestLocalStatePersistsAcrossRestart reopens the same database through a
// second app instance, the way a process restart would.
func TestLocalStatePersistsAcrossRestart(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "blobtask.db")

	a1 := startLocalApp(t, dbPath)
	require.NoError(t, a1.Profiles.Login(ctx, "Ana"))
	_, err := a1.Projects.Create(ctx, "Groceries", model.ColorMint)
	require.NoError(t, err)
	a1.Close()

	a2 := startLocalApp(t, dbPath)
	require.NotNil(t, a2.Tree.Profile())
	assert.Equal(t, "Ana", a2.Tree.Profile().Name)
	require.Len(t, a2.Projects.List(), 1)
	assert.Equal(t, "Groceries", a2.Projects.List()[0].Title)
}

// TestLocalLogoutClearsEverything verifies logout in local mode removes
// both the profile and the project list.
func TestLocalLogoutClearsEverything(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "blobtask.db")

	a := startLocalApp(t, dbPath)
	require.NoError(t, a.Profiles.Login(ctx, "Ana"))
	_, err := a.Projects.Create(ctx, "Groceries", model.ColorMint)
	require.NoError(t, err)

	require.NoError(t, a.Profiles.Logout(ctx))
	assert.Nil(t, a.Tree.Profile())
	assert.Empty(t, a.Projects.List())
	a.Close()

	// Still empty after a restart: the slots are gone, not just the tree.
	a2 := startLocalApp(t, dbPath)
	assert.Nil(t, a2.Tree.Profile())
	assert.Empty(t, a2.Projects.List())
}
