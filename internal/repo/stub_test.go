package repo

import (
	"context"

	"github.com/driftlab/blobtask/internal/model"
	"github.com/driftlab/blobtask/internal/store"
)

// fakeProfileStore counts calls so tests can assert that validation
// rejections never reach persistence.
type fakeProfileStore struct {
	profile *model.Profile

	saveCalls   int
	patchCalls  int
	deleteCalls int
}

func (s *fakeProfileStore) Load(ctx context.Context) (*model.Profile, error) {
	if s.profile == nil {
		return nil, nil
	}
	p := *s.profile
	return &p, nil
}

func (s *fakeProfileStore) Save(ctx context.Context, p model.Profile) error {
	s.saveCalls++
	s.profile = &p
	return nil
}

func (s *fakeProfileStore) Patch(ctx context.Context, fields map[string]interface{}) error {
	s.patchCalls++
	if s.profile == nil {
		return nil
	}
	if v, ok := fields["name"].(string); ok {
		s.profile.Name = v
	}
	if v, ok := fields["avatar_url"].(string); ok {
		s.profile.AvatarURL = v
	}
	if v, ok := fields["theme"].(bool); ok {
		s.profile.Theme = v
	}
	return nil
}

func (s *fakeProfileStore) Delete(ctx context.Context) error {
	s.deleteCalls++
	s.profile = nil
	return nil
}

func (s *fakeProfileStore) Watch(ctx context.Context, onNext func(*model.Profile), onErr func(error)) (store.CancelFunc, error) {
	p, _ := s.Load(ctx)
	onNext(p)
	return func() {}, nil
}

// fakeProjectStore mirrors the fake profile store for the collection
type fakeProjectStore struct {
	projects map[string]model.Project

	putCalls      int
	setTasksCalls int
	deleteCalls   int
	purgeCalls    int
}

func newFakeProjectStore() *fakeProjectStore {
	return &fakeProjectStore{projects: map[string]model.Project{}}
}

func (s *fakeProjectStore) List(ctx context.Context) ([]model.Project, error) {
	out := []model.Project{}
	for _, p := range s.projects {
		out = append(out, p)
	}
	return out, nil
}

func (s *fakeProjectStore) Put(ctx context.Context, p model.Project) error {
	s.putCalls++
	s.projects[p.ID] = p
	return nil
}

func (s *fakeProjectStore) SetTasks(ctx context.Context, projectID string, tasks []model.Task) error {
	s.setTasksCalls++
	if p, ok := s.projects[projectID]; ok {
		p.Tasks = tasks
		s.projects[projectID] = p
	}
	return nil
}

func (s *fakeProjectStore) Delete(ctx context.Context, projectID string) error {
	s.deleteCalls++
	delete(s.projects, projectID)
	return nil
}

func (s *fakeProjectStore) Purge(ctx context.Context) error {
	s.purgeCalls++
	s.projects = map[string]model.Project{}
	return nil
}

func (s *fakeProjectStore) Watch(ctx context.Context, onNext func([]model.Project), onErr func(error)) (store.CancelFunc, error) {
	projects, _ := s.List(ctx)
	onNext(projects)
	return func() {}, nil
}
