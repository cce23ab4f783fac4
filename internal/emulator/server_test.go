package emulator

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv, err := New("test-key")
	require.NoError(t, err)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func handshake(t *testing.T, ts *httptest.Server, apiKey, token string) (string, int) {
	t.Helper()
	body, _ := json.Marshal(map[string]string{"token": token})
	req, _ := http.NewRequest(http.MethodPost, ts.URL+"/v1/handshake", bytes.NewReader(body))
	req.Header.Set("X-API-Key", apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var result struct {
		UserID string `json:"user_id"`
	}
	json.NewDecoder(resp.Body).Decode(&result)
	return result.UserID, resp.StatusCode
}

func TestHandshakeAnonymousIssuesFreshIdentities(t *testing.T) {
	ts := newTestServer(t)

	id1, status := handshake(t, ts, "test-key", "")
	assert.Equal(t, http.StatusOK, status)
	id2, _ := handshake(t, ts, "test-key", "")

	assert.NotEmpty(t, id1)
	assert.NotEqual(t, id1, id2, "anonymous handshakes get distinct identities")
}

func TestHandshakeTokenIsDeterministic(t *testing.T) {
	ts := newTestServer(t)

	id1, _ := handshake(t, ts, "test-key", "tok-1")
	id2, _ := handshake(t, ts, "test-key", "tok-1")
	other, _ := handshake(t, ts, "test-key", "tok-2")

	assert.Equal(t, id1, id2)
	assert.NotEqual(t, id1, other)
}

func TestAPIKeyRequired(t *testing.T) {
	ts := newTestServer(t)

	_, status := handshake(t, ts, "wrong-key", "")
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestHealthNeedsNoKey(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/health")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestUsersAreIsolated(t *testing.T) {
	ts := newTestServer(t)

	doc := map[string]interface{}{"name": "Ana"}
	body, _ := json.Marshal(doc)
	req, _ := http.NewRequest(http.MethodPut,
		ts.URL+"/v1/artifacts/app/users/u1/profile/data", bytes.NewReader(body))
	req.Header.Set("X-API-Key", "test-key")
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// A different user sees no profile.
	req, _ = http.NewRequest(http.MethodGet,
		ts.URL+"/v1/artifacts/app/users/u2/profile/data", nil)
	req.Header.Set("X-API-Key", "test-key")
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
