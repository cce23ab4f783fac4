package app

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/driftlab/blobtask/internal/config"
	"github.com/driftlab/blobtask/internal/emulator"
	"github.com/driftlab/blobtask/internal/model"
)

func startRemoteApp(t *testing.T, baseURL, token string) *App {
	t.Helper()
	a := New(&config.Config{
		Backend:   config.Backend{APIKey: "test-key", BaseURL: baseURL},
		AppID:     "testapp",
		AuthToken: token,
	})
	require.NoError(t, a.Start(context.Background()))
	t.Cleanup(a.Close)
	return a
}

func newBackend(t *testing.T) string {
	t.Helper()
	srv, err := emulator.New("test-key")
	require.NoError(t, err)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts.URL
}

func TestRemoteModeScenario(t *testing.T) {
	ctx := context.Background()
	a := startRemoteApp(t, newBackend(t), "bootstrap-1")

	assert.False(t, a.Identity.Current().IsLocal())

	require.NoError(t, a.Profiles.Login(ctx, "Ana"))
	p, err := a.Projects.Create(ctx, "Groceries", model.ColorMint)
	require.NoError(t, err)
	require.NoError(t, a.Projects.AddTask(ctx, p.ID, "Buy milk", ""))

	listed := a.Projects.List()
	require.Len(t, listed, 1)
	require.Len(t, listed[0].Tasks, 1)
}

// TestRemoteLogoutRetainsProjects pins the retention behavior: logout
// deletes only the profile document, so a later login under the same
// identity sees the old projects again.
func TestRemoteLogoutRetainsProjects(t *testing.T) {
	ctx := context.Background()
	backend := newBackend(t)

	a1 := startRemoteApp(t, backend, "bootstrap-1")
	require.NoError(t, a1.Profiles.Login(ctx, "Ana"))
	_, err := a1.Projects.Create(ctx, "Groceries", model.ColorMint)
	require.NoError(t, err)
	require.NoError(t, a1.Profiles.Logout(ctx))
	a1.Close()

	// Same bootstrap token resolves to the same identity.
	a2 := startRemoteApp(t, backend, "bootstrap-1")
	assert.Nil(t, a2.Tree.Profile(), "profile is gone")

	require.NoError(t, a2.Profiles.Login(ctx, "Ana again"))
	projects := a2.Projects.List()
	require.Len(t, projects, 1, "remote projects survive logout")
	assert.Equal(t, "Groceries", projects[0].Title)
}

// TestRemoteReloginResurfacesProjects covers the same retention without a
// restart: logout and login inside one process. The projects watch sees no
// server-side change to push, so login reloads the collection itself.
func TestRemoteReloginResurfacesProjects(t *testing.T) {
	ctx := context.Background()
	a := startRemoteApp(t, newBackend(t), "bootstrap-1")

	require.NoError(t, a.Profiles.Login(ctx, "Ana"))
	_, err := a.Projects.Create(ctx, "Groceries", model.ColorMint)
	require.NoError(t, err)

	require.NoError(t, a.Profiles.Logout(ctx))
	assert.Empty(t, a.Projects.List(), "tree is cleared on logout")

	require.NoError(t, a.Profiles.Login(ctx, "Ana again"))
	projects := a.Projects.List()
	require.Len(t, projects, 1, "retained remote projects come back in-session")
	assert.Equal(t, "Groceries", projects[0].Title)
}

func TestRemoteHandshakeFailureBlocksStart(t *testing.T) {
	a := New(&config.Config{
		Backend: config.Backend{APIKey: "test-key", BaseURL: "http://127.0.0.1:1"},
		AppID:   "testapp",
	})
	err := a.Start(context.Background())
	assert.Error(t, err)
	assert.False(t, a.Identity.Current().Resolved())
	assert.Nil(t, a.Profiles, "no identity transition, nothing wired")
	assert.Nil(t, a.Projects)
}
