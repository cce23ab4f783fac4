// Package repo implements the profile and project repositories: optimistic
// mutations against the state tree, written through to whichever store
// variant was selected at composition time. Store failures are logged and
// the optimistic state is not rolled back; local and remote may diverge
// until the next successful write or restart.
package repo

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/driftlab/blobtask/internal/logger"
	"github.com/driftlab/blobtask/internal/model"
	"github.com/driftlab/blobtask/internal/state"
	"github.com/driftlab/blobtask/internal/store"
)

// ProfileRepository is CRUD over the single per-identity profile
type ProfileRepository struct {
	profiles store.ProfileStore
	projects store.ProjectStore
	tree     *state.Tree
}

// NewProfileRepository creates a profile repository
func NewProfileRepository(profiles store.ProfileStore, projects store.ProjectStore, tree *state.Tree) *ProfileRepository {
	return &ProfileRepository{profiles: profiles, projects: projects, tree: tree}
}

// Subscribe starts the profile watch and mirrors pushes into the tree.
// The store delivers the current value immediately, so this also does the
// initial load. The cancel func must run on identity teardown.
func (r *ProfileRepository) Subscribe(ctx context.Context) (store.CancelFunc, error) {
	return r.profiles.Watch(ctx,
		func(p *model.Profile) {
			r.tree.ApplyRemoteProfile(p)
		},
		func(err error) {
			logger.Error("Profile watch error", logger.F("error", err))
		})
}

// Login creates and persists a fresh profile. A trimmed-empty name is a
// silent no-op. Always a full overwrite, never a merge.
func (r *ProfileRepository) Login(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil
	}

	p := model.NewProfile(name)
	r.tree.SetProfile(&p)

	r.tree.BeginWrite()
	defer r.tree.EndWrite()
	if err := r.profiles.Save(ctx, p); err != nil {
		logger.Error("Failed to persist profile", logger.F("error", err))
		return err
	}

	// A prior logout in this process cleared the tree, and the open
	// watch pushes nothing when the stored collection did not change on
	// the server. Reload explicitly: the local store returns the purged
	// (empty) collection, the remote store returns the retained set.
	projects, err := r.projects.List(ctx)
	if err != nil {
		logger.Error("Failed to reload projects", logger.F("error", err))
	} else {
		r.tree.SetProjects(projects)
	}

	logger.Info("Logged in", logger.F("name", name))
	return nil
}

// Logout deletes the profile and purges projects. The project purge is a
// no-op against the remote store, so remote projects survive and reappear
// on the next login under the same identity. Confirmation is the
// presentation layer's responsibility.
func (r *ProfileRepository) Logout(ctx context.Context) error {
	r.tree.Clear()

	r.tree.BeginWrite()
	defer r.tree.EndWrite()
	if err := r.profiles.Delete(ctx); err != nil {
		logger.Error("Failed to delete profile", logger.F("error", err))
		return err
	}
	if err := r.projects.Purge(ctx); err != nil {
		logger.Error("Failed to purge projects", logger.F("error", err))
		return err
	}

	logger.Info("Logged out")
	return nil
}

// UpdateAvatar encodes the image as a data URI and patches the single
// avatar field, bound to local state immediately.
func (r *ProfileRepository) UpdateAvatar(ctx context.Context, image []byte, mimeType string) error {
	if len(image) == 0 {
		return nil
	}
	if mimeType == "" {
		mimeType = "image/png"
	}

	uri := fmt.Sprintf("data:%s;base64,%s", mimeType, base64.StdEncoding.EncodeToString(image))
	r.tree.PatchProfile(func(p *model.Profile) { p.AvatarURL = uri })

	r.tree.BeginWrite()
	defer r.tree.EndWrite()
	if err := r.profiles.Patch(ctx, map[string]interface{}{"avatar_url": uri}); err != nil {
		logger.Error("Failed to persist avatar", logger.F("error", err))
		return err
	}
	return nil
}

// UpdateTheme patches the theme flag, applied optimistically first
func (r *ProfileRepository) UpdateTheme(ctx context.Context, dark bool) error {
	r.tree.PatchProfile(func(p *model.Profile) { p.Theme = dark })

	r.tree.BeginWrite()
	defer r.tree.EndWrite()
	if err := r.profiles.Patch(ctx, map[string]interface{}{"theme": dark}); err != nil {
		logger.Error("Failed to persist theme", logger.F("error", err))
		return err
	}
	return nil
}
