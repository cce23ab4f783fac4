package identity

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

func emulatorConfig(t *testing.T, token string) *config.Config {
	t.Helper()
	srv, err := emulator.New("test-key")
	require.NoError(t, err)

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	return &config.Config{
		Backend:   config.Backend{APIKey: "test-key", BaseURL: ts.URL},
		AppID:     "testapp",
		AuthToken: token,
	}
}

func TestResolveLocalFallback(t *testing.T) {
	// No backend config: the sentinel identity, synchronously, never fails.
	p := NewProvider(&config.Config{AppID: "testapp"})

	var notified model.Identity
	p.OnChange(func(id model.Identity) { notified = id })

	id, err := p.Resolve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, model.Identity(model.LocalIdentity), id)
	assert.True(t, id.IsLocal())
	assert.Equal(t, id, notified, "OnChange fires on initial resolution")
}

func TestResolveAnonymous(t *testing.T) {
	p := NewProvider(emulatorConfig(t, ""))

	id, err := p.Resolve(context.Background())
	require.NoError(t, err)
	assert.True(t, id.Resolved())
	assert.False(t, id.IsLocal())
}

func TestResolveTokenIsStable(t *testing.T) {
	cfg := emulatorConfig(t, "bootstrap-token-1")

	first, err := NewProvider(cfg).Resolve(context.Background())
	require.NoError(t, err)
	second, err := NewProvider(cfg).Resolve(context.Background())
	require.NoError(t, err)

	assert.Equal(t, first, second, "same bootstrap token maps to the same identity")
}

func TestResolveHandshakeFailure(t *testing.T) {
	// A well-formed config pointing at a dead backend: no identity, no
	// local fallback, caller stays blocked.
	p := NewProvider(&config.Config{
		Backend: config.Backend{APIKey: "k", BaseURL: "http://127.0.0.1:1"},
		AppID:   "testapp",
	})

	fired := false
	p.OnChange(func(model.Identity) { fired = true })

	id, err := p.Resolve(context.Background())
	assert.Error(t, err)
	assert.False(t, id.Resolved())
	assert.False(t, fired)
}

func TestResolveBadCredential(t *testing.T) {
	cfg := emulatorConfig(t, "")
	cfg.Backend.APIKey = "wrong-key"

	_, err := NewProvider(cfg).Resolve(context.Background())
	assert.Error(t, err)
}

func TestOnChangeFiresOncePerTransition(t *testing.T) {
	p := NewProvider(&config.Config{AppID: "testapp"})

	calls := 0
	p.OnChange(func(model.Identity) { calls++ })

	_, err := p.Resolve(context.Background())
	require.NoError(t, err)
	_, err = p.Resolve(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, calls, "re-resolution to the same identity is not a transition")
}
