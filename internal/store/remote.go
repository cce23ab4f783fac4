package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/driftlab/blobtask/internal/model"
)

// RemoteClient talks to the per-user document backend. One client is
// built per resolved identity; it owns no cached state of its own.
type RemoteClient struct {
	baseURL     string
	apiKey      string
	appID       string
	identity    model.Identity
	httpClient  *http.Client
	watchClient *http.Client // no timeout, watch streams are long-lived
}

// NewRemoteClient creates a client scoped to one identity
func NewRemoteClient(baseURL, apiKey, appID string, identity model.Identity) *RemoteClient {
	return &RemoteClient{
		baseURL:     baseURL,
		apiKey:      apiKey,
		appID:       appID,
		identity:    identity,
		httpClient:  &http.Client{Timeout: 30 * time.Second},
		watchClient: &http.Client{},
	}
}

func (c *RemoteClient) profilePath() string {
	return fmt.Sprintf("artifacts/%s/users/%s/profile/data", c.appID, c.identity)
}

func (c *RemoteClient) projectsPath() string {
	return fmt.Sprintf("artifacts/%s/users/%s/projects", c.appID, c.identity)
}

// do runs one document operation and decodes the response into out when
// out is non-nil. A 404 on GET is reported through errNotFound so stores
// can map absence to nil.
var errNotFound = fmt.Errorf("document not found")

func (c *RemoteClient) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode %s body: %w", method, err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+"/v1/"+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("X-API-Key", c.apiKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to reach backend: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return errNotFound
	}
	if resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%s %s failed: %s", method, path, string(respBody))
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode %s response: %w", path, err)
		}
	}
	return nil
}

// RemoteProfileStore is the ProfileStore over the document backend
type RemoteProfileStore struct {
	client *RemoteClient
}

// NewRemoteProfileStore creates a profile store over a remote client
func NewRemoteProfileStore(client *RemoteClient) *RemoteProfileStore {
	return &RemoteProfileStore{client: client}
}

func (s *RemoteProfileStore) Load(ctx context.Context) (*model.Profile, error) {
	var p model.Profile
	err := s.client.do(ctx, http.MethodGet, s.client.profilePath(), nil, &p)
	if err == errNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *RemoteProfileStore) Save(ctx context.Context, p model.Profile) error {
	return s.client.do(ctx, http.MethodPut, s.client.profilePath(), p, nil)
}

func (s *RemoteProfileStore) Patch(ctx context.Context, fields map[string]interface{}) error {
	return s.client.do(ctx, http.MethodPatch, s.client.profilePath(), fields, nil)
}

func (s *RemoteProfileStore) Delete(ctx context.Context) error {
	err := s.client.do(ctx, http.MethodDelete, s.client.profilePath(), nil, nil)
	if err == errNotFound {
		return nil
	}
	return err
}

func (s *RemoteProfileStore) Watch(ctx context.Context, onNext func(*model.Profile), onErr func(error)) (CancelFunc, error) {
	return s.client.watch(ctx, s.client.profilePath(), func(raw json.RawMessage) error {
		var p *model.Profile
		if err := json.Unmarshal(raw, &p); err != nil {
			return err
		}
		onNext(p)
		return nil
	}, onErr)
}

// RemoteProjectStore is the ProjectStore over the document backend
type RemoteProjectStore struct {
	client *RemoteClient
}

// NewRemoteProjectStore creates a project store over a remote client
func NewRemoteProjectStore(client *RemoteClient) *RemoteProjectStore {
	return &RemoteProjectStore{client: client}
}

func (s *RemoteProjectStore) List(ctx context.Context) ([]model.Project, error) {
	projects := []model.Project{}
	if err := s.client.do(ctx, http.MethodGet, s.client.projectsPath(), nil, &projects); err != nil {
		return nil, err
	}
	return projects, nil
}

func (s *RemoteProjectStore) Put(ctx context.Context, p model.Project) error {
	return s.client.do(ctx, http.MethodPut, s.client.projectsPath()+"/"+p.ID, p, nil)
}

func (s *RemoteProjectStore) SetTasks(ctx context.Context, projectID string, tasks []model.Task) error {
	return s.client.do(ctx, http.MethodPatch, s.client.projectsPath()+"/"+projectID,
		map[string]interface{}{"tasks": tasks}, nil)
}

func (s *RemoteProjectStore) Delete(ctx context.Context, projectID string) error {
	err := s.client.do(ctx, http.MethodDelete, s.client.projectsPath()+"/"+projectID, nil, nil)
	if err == errNotFound {
		return nil
	}
	return err
}

// Purge is intentionally a no-op. Remote projects are keyed by identity,
// not by profile, so they survive logout and reappear on the next login.
func (s *RemoteProjectStore) Purge(ctx context.Context) error {
	return nil
}

func (s *RemoteProjectStore) Watch(ctx context.Context, onNext func([]model.Project), onErr func(error)) (CancelFunc, error) {
	return s.client.watch(ctx, s.client.projectsPath(), func(raw json.RawMessage) error {
		projects := []model.Project{}
		if err := json.Unmarshal(raw, &projects); err != nil {
			return err
		}
		onNext(projects)
		return nil
	}, onErr)
}
