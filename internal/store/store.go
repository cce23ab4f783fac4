// Package store provides the persistence capability interfaces and their
// two implementations: a remote per-user document backend with live watch
// channels, and a synchronous on-device sqlite store. The variant is
// selected once at composition time; callers never branch on mode.
package store

import (
	"context"

	"github.com/driftlab/blobtask/internal/model"
)

// CancelFunc releases a watch. Every watch must be canceled on teardown
// so no channel outlives its identity.
type CancelFunc func()

// ProfileStore is CRUD over the single per-identity profile document.
type ProfileStore interface {
	// Load returns the current profile, or nil when none exists.
	Load(ctx context.Context) (*model.Profile, error)

	// Save overwrites the whole profile document.
	Save(ctx context.Context, p model.Profile) error

	// Patch overwrites individual fields. Recognized keys are "name",
	// "avatar_url" and "theme".
	Patch(ctx context.Context, fields map[string]interface{}) error

	// Delete removes the profile document.
	Delete(ctx context.Context) error

	// Watch delivers the current profile immediately and again on every
	// change. The local variant delivers exactly once. A nil profile
	// means the document is absent.
	Watch(ctx context.Context, onNext func(*model.Profile), onErr func(error)) (CancelFunc, error)
}

// ProjectStore is CRUD over the per-identity project collection. Task
// mutations rewrite a project's whole task sequence as one field write;
// there is no partial append, so concurrent writers resolve by
// last-writer-wins at document granularity.
type ProjectStore interface {
	// List returns all projects. Order is not guaranteed; callers resort.
	List(ctx context.Context) ([]model.Project, error)

	// Put writes a full project document, replacing any existing one
	// with the same id.
	Put(ctx context.Context, p model.Project) error

	// SetTasks overwrites the task sequence of one project.
	SetTasks(ctx context.Context, projectID string, tasks []model.Task) error

	// Delete removes one project document. Unknown ids are a no-op.
	Delete(ctx context.Context, projectID string) error

	// Purge removes every project for this identity. The remote variant
	// implements this as a no-op: remote projects are keyed by identity,
	// not by profile, and survive logout.
	Purge(ctx context.Context) error

	// Watch delivers the current collection immediately and again on
	// every change. The local variant delivers exactly once.
	Watch(ctx context.Context, onNext func([]model.Project), onErr func(error)) (CancelFunc, error)
}
