// Package identity establishes the user handle that namespaces all
// persisted data. Resolution happens once at process start: a well-formed
// backend config triggers a remote handshake (bootstrap token preferred,
// anonymous otherwise); anything else falls back to the local sentinel.
package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/driftlab/blobtask/internal/config"
	"github.com/driftlab/blobtask/internal/logger"
	"github.com/driftlab/blobtask/internal/model"
)

// Provider resolves and holds the current identity
type Provider struct {
	cfg        *config.Config
	httpClient *http.Client

	mu        sync.Mutex
	current   model.Identity
	listeners []func(model.Identity)
}

// NewProvider creates a provider from startup configuration
func NewProvider(cfg *config.Config) *Provider {
	return &Provider{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// OnChange registers a callback fired at most once per identity
// transition: initial resolution, and present to absent. Registration
// must happen before Resolve.
func (p *Provider) OnChange(fn func(model.Identity)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.listeners = append(p.listeners, fn)
}

// Current returns the resolved identity, empty until Resolve succeeds
func (p *Provider) Current() model.Identity {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.current
}

// Resolve establishes the identity. The local path never fails; the
// remote handshake can, in which case no identity is set and the caller
// stays blocked (no retry).
func (p *Provider) Resolve(ctx context.Context) (model.Identity, error) {
	if !p.cfg.Backend.Valid() {
		logger.Info("No remote backend configured, using local identity")
		p.set(model.LocalIdentity)
		return model.LocalIdentity, nil
	}

	id, err := p.handshake(ctx)
	if err != nil {
		logger.Error("Identity handshake failed", logger.F("error", err))
		return "", err
	}

	logger.Info("Identity resolved", logger.F("identity", id))
	p.set(id)
	return id, nil
}

// handshake acquires a backend identity, preferring the bootstrap token
func (p *Provider) handshake(ctx context.Context) (model.Identity, error) {
	body, _ := json.Marshal(map[string]string{"token": p.cfg.AuthToken})

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		p.cfg.Backend.BaseURL+"/v1/handshake", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("X-API-Key", p.cfg.Backend.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to reach backend: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("handshake failed: %s", string(respBody))
	}

	var result struct {
		UserID string `json:"user_id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", err
	}
	if result.UserID == "" {
		return "", fmt.Errorf("handshake returned no identity")
	}

	return model.Identity(result.UserID), nil
}

func (p *Provider) set(id model.Identity) {
	p.mu.Lock()
	if p.current == id {
		p.mu.Unlock()
		return
	}
	p.current = id
	listeners := p.listeners
	p.mu.Unlock()

	for _, fn := range listeners {
		fn(id)
	}
}
