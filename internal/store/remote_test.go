package store

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/driftlab/blobtask/internal/emulator"
	"github.com/driftlab/blobtask/internal/model"
)

const testAPIKey = "test-key"

func newTestClient(t *testing.T) *RemoteClient {
	t.Helper()
	srv, err := emulator.New(testAPIKey)
	require.NoError(t, err)

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	return NewRemoteClient(ts.URL, testAPIKey, "testapp", "user-1")
}

func TestRemoteProfileRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := NewRemoteProfileStore(newTestClient(t))

	p, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, p, "absent document maps to nil")

	require.NoError(t, s.Save(ctx, model.NewProfile("Ana")))

	p, err = s.Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, "Ana", p.Name)

	require.NoError(t, s.Patch(ctx, map[string]interface{}{"theme": false}))
	p, err = s.Load(ctx)
	require.NoError(t, err)
	assert.False(t, p.Theme)

	require.NoError(t, s.Delete(ctx))
	p, err = s.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, p)
}

func TestRemoteProjectsCRUD(t *testing.T) {
	ctx := context.Background()
	s := NewRemoteProjectStore(newTestClient(t))

	projects, err := s.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, projects)

	require.NoError(t, s.Put(ctx, model.NewProject("p1", "Groceries", model.ColorMint)))
	require.NoError(t, s.SetTasks(ctx, "p1", []model.Task{model.NewTask("t1", "Buy milk", "")}))

	projects, err = s.List(ctx)
	require.NoError(t, err)
	require.Len(t, projects, 1)
	assert.Equal(t, "Groceries", projects[0].Title)
	require.Len(t, projects[0].Tasks, 1)
	assert.Equal(t, "Buy milk", projects[0].Tasks[0].Text)

	require.NoError(t, s.Delete(ctx, "p1"))
	projects, err = s.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, projects)
}

func TestRemotePurgeIsNoop(t *testing.T) {
	// Remote projects are keyed by identity, not profile: a purge (run on
	// logout) leaves them untouched.
	ctx := context.Background()
	s := NewRemoteProjectStore(newTestClient(t))
	require.NoError(t, s.Put(ctx, model.NewProject("p1", "Groceries", model.ColorMint)))

	require.NoError(t, s.Purge(ctx))

	projects, err := s.List(ctx)
	require.NoError(t, err)
	assert.Len(t, projects, 1)
}

func TestRemoteWatchFiresImmediatelyAndOnChange(t *testing.T) {
	ctx := context.Background()
	client := newTestClient(t)
	s := NewRemoteProjectStore(client)

	pushes := make(chan []model.Project, 8)
	cancel, err := s.Watch(ctx, func(projects []model.Project) {
		pushes <- projects
	}, func(err error) { t.Logf("watch error: %v", err) })
	require.NoError(t, err)
	defer cancel()

	// First push carries the current (empty) collection.
	assert.Empty(t, waitForPush(t, pushes))

	require.NoError(t, s.Put(ctx, model.NewProject("p1", "Groceries", model.ColorMint)))

	got := waitForPush(t, pushes)
	require.Len(t, got, 1)
	assert.Equal(t, "Groceries", got[0].Title)
}

func TestRemoteWatchCancelStopsDelivery(t *testing.T) {
	ctx := context.Background()
	s := NewRemoteProjectStore(newTestClient(t))

	pushes := make(chan []model.Project, 8)
	cancel, err := s.Watch(ctx, func(projects []model.Project) {
		pushes <- projects
	}, nil)
	require.NoError(t, err)

	waitForPush(t, pushes)
	cancel()

	// Give the stream a moment to tear down, then mutate.
	time.Sleep(50 * time.Millisecond)
	require.NoError(t, s.Put(ctx, model.NewProject("p1", "Groceries", model.ColorMint)))

	select {
	case <-pushes:
		t.Fatal("canceled watch must not deliver")
	case <-time.After(200 * time.Millisecond):
	}
}

func TestRemoteRejectsBadAPIKey(t *testing.T) {
	srv, err := emulator.New(testAPIKey)
	require.NoError(t, err)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	s := NewRemoteProjectStore(NewRemoteClient(ts.URL, "wrong-key", "testapp", "user-1"))
	_, err = s.List(context.Background())
	assert.Error(t, err)
}

func waitForPush(t *testing.T, pushes chan []model.Project) []model.Project {
	t.Helper()
	select {
	case got := <-pushes:
		return got
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for watch push")
		return nil
	}
}
