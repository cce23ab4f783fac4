package emulator

import (
	"encoding/json"
	"net/http"

	"github.com/labstack/echo/v4"
)

func (s *Server) handleProfileGet(c echo.Context) error {
	s.mu.RLock()
	u, ok := s.users[userKey(c)]
	var profile document
	if ok {
		profile = u.profile
	}
	s.mu.RUnlock()

	if profile == nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "no profile"})
	}
	return c.JSON(http.StatusOK, profile)
}

func (s *Server) handleProfilePut(c echo.Context) error {
	var doc document
	if err := c.Bind(&doc); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid document"})
	}

	key := userKey(c)
	s.mu.Lock()
	s.user(key).profile = doc
	s.broadcast(key+"/profile", mustJSON(doc))
	s.mu.Unlock()

	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleProfilePatch(c echo.Context) error {
	var fields document
	if err := c.Bind(&fields); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid patch"})
	}

	key := userKey(c)
	s.mu.Lock()
	defer s.mu.Unlock()

	u := s.user(key)
	if u.profile == nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "no profile"})
	}
	for k, v := range fields {
		u.profile[k] = v
	}
	s.broadcast(key+"/profile", mustJSON(u.profile))

	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleProfileDelete(c echo.Context) error {
	key := userKey(c)
	s.mu.Lock()
	s.user(key).profile = nil
	s.broadcast(key+"/profile", []byte("null"))
	s.mu.Unlock()

	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleProjectsList(c echo.Context) error {
	s.mu.RLock()
	payload := s.projectsJSON(userKey(c))
	s.mu.RUnlock()

	return c.JSONBlob(http.StatusOK, payload)
}

func (s *Server) handleProjectPut(c echo.Context) error {
	var doc document
	if err := c.Bind(&doc); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid document"})
	}

	key := userKey(c)
	s.mu.Lock()
	s.user(key).projects[c.Param("id")] = doc
	s.broadcast(key+"/projects", s.projectsJSON(key))
	s.mu.Unlock()

	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleProjectPatch(c echo.Context) error {
	var fields document
	if err := c.Bind(&fields); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid patch"})
	}

	key := userKey(c)
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ok := s.user(key).projects[c.Param("id")]
	if !ok {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "no such project"})
	}
	for k, v := range fields {
		doc[k] = v
	}
	s.broadcast(key+"/projects", s.projectsJSON(key))

	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleProjectDelete(c echo.Context) error {
	key := userKey(c)
	s.mu.Lock()
	delete(s.user(key).projects, c.Param("id"))
	s.broadcast(key+"/projects", s.projectsJSON(key))
	s.mu.Unlock()

	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// projectsJSON marshals one identity's project collection. Order is
// whatever map iteration yields; clients sort. Callers hold s.mu.
func (s *Server) projectsJSON(key string) []byte {
	u, ok := s.users[key]
	if !ok || len(u.projects) == 0 {
		return []byte("[]")
	}

	docs := make([]document, 0, len(u.projects))
	for _, d := range u.projects {
		docs = append(docs, d)
	}
	return mustJSON(docs)
}

func mustJSON(v interface{}) []byte {
	raw, err := json.Marshal(v)
	if err != nil {
		return []byte("null")
	}
	return raw
}
