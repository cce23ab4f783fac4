package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/driftlab/blobtask/internal/model"
	_ "modernc.org/sqlite"
)

// The three on-device slots. Each holds one serialized JSON value.
const (
	slotProfile  = "blobtask:profile"
	slotProjects = "blobtask:projects"
	slotTheme    = "blobtask:theme"
)

// LocalDB wraps the on-device sqlite database holding the key-value slots
type LocalDB struct {
	*sql.DB
}

// DefaultLocalPath returns the default database path (~/.blobtask/blobtask.db)
func DefaultLocalPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".blobtask", "blobtask.db"), nil
}

// OpenLocal opens or creates the on-device database
func OpenLocal(dbPath string) (*LocalDB, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	sqlDB, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if _, err := sqlDB.Exec(`CREATE TABLE IF NOT EXISTS slots (
		key   TEXT PRIMARY KEY,
		value TEXT NOT NULL
	)`); err != nil {
		return nil, fmt.Errorf("failed to create slots table: %w", err)
	}

	return &LocalDB{DB: sqlDB}, nil
}

// OpenLocalDefault opens the database at the default path
func OpenLocalDefault() (*LocalDB, error) {
	path, err := DefaultLocalPath()
	if err != nil {
		return nil, err
	}
	return OpenLocal(path)
}

func (d *LocalDB) readSlot(ctx context.Context, key string, out interface{}) (bool, error) {
	var raw string
	err := d.QueryRowContext(ctx, `SELECT value FROM slots WHERE key = ?`, key).Scan(&raw)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read slot %s: %w", key, err)
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		return false, fmt.Errorf("failed to decode slot %s: %w", key, err)
	}
	return true, nil
}

func (d *LocalDB) writeSlot(ctx context.Context, key string, v interface{}) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode slot %s: %w", key, err)
	}
	_, err = d.ExecContext(ctx,
		`INSERT INTO slots (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`, key, string(raw))
	if err != nil {
		return fmt.Errorf("failed to write slot %s: %w", key, err)
	}
	return nil
}

func (d *LocalDB) deleteSlot(ctx context.Context, key string) error {
	if _, err := d.ExecContext(ctx, `DELETE FROM slots WHERE key = ?`, key); err != nil {
		return fmt.Errorf("failed to delete slot %s: %w", key, err)
	}
	return nil
}

// LocalProfileStore keeps the profile in the profile slot and mirrors the
// theme flag into its own slot, matching the three-key layout.
type LocalProfileStore struct {
	db *LocalDB
}

// NewLocalProfileStore creates a profile store over an open database
func NewLocalProfileStore(db *LocalDB) *LocalProfileStore {
	return &LocalProfileStore{db: db}
}

func (s *LocalProfileStore) Load(ctx context.Context) (*model.Profile, error) {
	var p model.Profile
	ok, err := s.db.readSlot(ctx, slotProfile, &p)
	if err != nil || !ok {
		return nil, err
	}
	return &p, nil
}

func (s *LocalProfileStore) Save(ctx context.Context, p model.Profile) error {
	if err := s.db.writeSlot(ctx, slotProfile, p); err != nil {
		return err
	}
	return s.db.writeSlot(ctx, slotTheme, p.Theme)
}

func (s *LocalProfileStore) Patch(ctx context.Context, fields map[string]interface{}) error {
	p, err := s.Load(ctx)
	if err != nil {
		return err
	}
	if p == nil {
		return nil
	}

	if v, ok := fields["name"].(string); ok {
		p.Name = v
	}
	if v, ok := fields["avatar_url"].(string); ok {
		p.AvatarURL = v
	}
	if v, ok := fields["theme"].(bool); ok {
		p.Theme = v
	}

	return s.Save(ctx, *p)
}

func (s *LocalProfileStore) Delete(ctx context.Context) error {
	if err := s.db.deleteSlot(ctx, slotProfile); err != nil {
		return err
	}
	return s.db.deleteSlot(ctx, slotTheme)
}

// Watch delivers the stored profile exactly once. Local storage has no
// external change source; later updates come from in-process mutations.
func (s *LocalProfileStore) Watch(ctx context.Context, onNext func(*model.Profile), onErr func(error)) (CancelFunc, error) {
	p, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}
	onNext(p)
	return func() {}, nil
}

// LocalProjectStore keeps the whole project collection in one slot and
// rewrites it read-modify-write on every mutation.
type LocalProjectStore struct {
	db *LocalDB
}

// NewLocalProjectStore creates a project store over an open database
func NewLocalProjectStore(db *LocalDB) *LocalProjectStore {
	return &LocalProjectStore{db: db}
}

func (s *LocalProjectStore) List(ctx context.Context) ([]model.Project, error) {
	var projects []model.Project
	ok, err := s.db.readSlot(ctx, slotProjects, &projects)
	if err != nil {
		return nil, err
	}
	if !ok {
		return []model.Project{}, nil
	}
	return projects, nil
}

func (s *LocalProjectStore) Put(ctx context.Context, p model.Project) error {
	projects, err := s.List(ctx)
	if err != nil {
		return err
	}

	replaced := false
	for i := range projects {
		if projects[i].ID == p.ID {
			projects[i] = p
			replaced = true
			break
		}
	}
	if !replaced {
		projects = append(projects, p)
	}

	return s.db.writeSlot(ctx, slotProjects, projects)
}

func (s *LocalProjectStore) SetTasks(ctx context.Context, projectID string, tasks []model.Task) error {
	projects, err := s.List(ctx)
	if err != nil {
		return err
	}

	for i := range projects {
		if projects[i].ID == projectID {
			projects[i].Tasks = tasks
			return s.db.writeSlot(ctx, slotProjects, projects)
		}
	}
	return nil
}

func (s *LocalProjectStore) Delete(ctx context.Context, projectID string) error {
	projects, err := s.List(ctx)
	if err != nil {
		return err
	}

	kept := projects[:0]
	for _, p := range projects {
		if p.ID != projectID {
			kept = append(kept, p)
		}
	}
	if len(kept) == len(projects) {
		return nil
	}

	return s.db.writeSlot(ctx, slotProjects, kept)
}

// Purge removes the whole local project list. Runs on logout, which in
// local mode clears projects along with the profile.
func (s *LocalProjectStore) Purge(ctx context.Context) error {
	return s.db.deleteSlot(ctx, slotProjects)
}

// Watch delivers the stored collection exactly once, like the profile watch
func (s *LocalProjectStore) Watch(ctx context.Context, onNext func([]model.Project), onErr func(error)) (CancelFunc, error) {
	projects, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	onNext(projects)
	return func() {}, nil
}
