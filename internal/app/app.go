// Package app is the composition root: configuration in, wired
// repositories out. The persistence variant is chosen exactly once here,
// based on backend config validity, and injected into the repositories;
// nothing downstream branches on mode.
package app

import (
	"context"
	"fmt"

	"github.com/driftlab/blobtask/internal/config"
	"github.com/driftlab/blobtask/internal/identity"
	"github.com/driftlab/blobtask/internal/logger"
	"github.com/driftlab/blobtask/internal/model"
	"github.com/driftlab/blobtask/internal/repo"
	"github.com/driftlab/blobtask/internal/state"
	"github.com/driftlab/blobtask/internal/store"
)

// App holds the wired application
type App struct {
	Config   *config.Config
	Identity *identity.Provider
	Tree     *state.Tree
	Profiles *repo.ProfileRepository
	Projects *repo.ProjectRepository

	// LocalPath overrides the on-device database location when set
	LocalPath string

	localDB *store.LocalDB
	cancels []store.CancelFunc
}

// New creates an unstarted app
func New(cfg *config.Config) *App {
	return &App{
		Config:   cfg,
		Identity: identity.NewProvider(cfg),
		Tree:     state.NewTree(),
	}
}

// Start resolves the identity and hangs the gate-load off the identity
// transition: the store variant is selected and the watches opened from
// the provider's change callback, which fires synchronously inside
// Resolve. On handshake failure no identity appears, nothing is wired
// and the app stays unstarted, matching the blocked state the UI shows.
func (a *App) Start(ctx context.Context) error {
	var wireErr error
	a.Identity.OnChange(func(id model.Identity) {
		if id.Resolved() {
			wireErr = a.wire(ctx, id)
		}
	})

	if _, err := a.Identity.Resolve(ctx); err != nil {
		return fmt.Errorf("identity not resolved: %w", err)
	}
	return wireErr
}

// wire selects the store variant for the given identity, builds the
// repositories and opens the gate-loading watches.
func (a *App) wire(ctx context.Context, id model.Identity) error {
	var err error
	var profiles store.ProfileStore
	var projects store.ProjectStore

	if id.IsLocal() {
		path := a.LocalPath
		if path == "" {
			path, err = store.DefaultLocalPath()
			if err != nil {
				return err
			}
		}
		db, err := store.OpenLocal(path)
		if err != nil {
			return fmt.Errorf("failed to open local storage: %w", err)
		}
		a.localDB = db
		profiles = store.NewLocalProfileStore(db)
		projects = store.NewLocalProjectStore(db)
	} else {
		client := store.NewRemoteClient(
			a.Config.Backend.BaseURL, a.Config.Backend.APIKey, a.Config.AppID, id)
		profiles = store.NewRemoteProfileStore(client)
		projects = store.NewRemoteProjectStore(client)
	}

	a.Profiles = repo.NewProfileRepository(profiles, projects, a.Tree)
	a.Projects = repo.NewProjectRepository(projects, a.Tree)

	// Profile first, then projects: projects only exist under a profile.
	cancelProfile, err := a.Profiles.Subscribe(ctx)
	if err != nil {
		return fmt.Errorf("failed to subscribe to profile: %w", err)
	}
	a.cancels = append(a.cancels, cancelProfile)

	cancelProjects, err := a.Projects.Subscribe(ctx)
	if err != nil {
		a.Close()
		return fmt.Errorf("failed to subscribe to projects: %w", err)
	}
	a.cancels = append(a.cancels, cancelProjects)

	return nil
}

// Close releases all watches before anything else, so no channel can
// outlive the identity that opened it, then closes local storage.
func (a *App) Close() {
	for _, cancel := range a.cancels {
		cancel()
	}
	a.cancels = nil

	if a.localDB != nil {
		if err := a.localDB.Close(); err != nil {
			logger.Warn("Failed to close local storage", logger.F("error", err))
		}
		a.localDB = nil
	}
}
