package emulator

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
)

func (s *Server) handleProfileWatch(c echo.Context) error {
	key := userKey(c)

	s.mu.RLock()
	var current []byte = []byte("null")
	if u, ok := s.users[key]; ok && u.profile != nil {
		current = mustJSON(u.profile)
	}
	s.mu.RUnlock()

	return s.streamWatch(c, key+"/profile", current)
}

func (s *Server) handleProjectsWatch(c echo.Context) error {
	key := userKey(c)

	s.mu.RLock()
	current := s.projectsJSON(key)
	s.mu.RUnlock()

	return s.streamWatch(c, key+"/projects", current)
}

// streamWatch serves one server-sent-events subscription: the current
// value straight away, then every change until the client disconnects.
func (s *Server) streamWatch(c echo.Context, path string, current []byte) error {
	ch := make(chan []byte, 8)

	s.mu.Lock()
	s.watchers[path] = append(s.watchers[path], ch)
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		kept := s.watchers[path][:0]
		for _, w := range s.watchers[path] {
			if w != ch {
				kept = append(kept, w)
			}
		}
		s.watchers[path] = kept
		s.mu.Unlock()
	}()

	res := c.Response()
	res.Header().Set(echo.HeaderContentType, "text/event-stream")
	res.Header().Set("Cache-Control", "no-cache")
	res.Header().Set("Connection", "keep-alive")
	res.WriteHeader(http.StatusOK)

	writeEvent := func(payload []byte) error {
		if _, err := fmt.Fprintf(res, "data: %s\n\n", payload); err != nil {
			return err
		}
		res.Flush()
		return nil
	}

	if err := writeEvent(current); err != nil {
		return nil
	}

	ctx := c.Request().Context()
	for {
		select {
		case <-ctx.Done():
			return nil
		case payload := <-ch:
			if err := writeEvent(payload); err != nil {
				return nil
			}
		}
	}
}
