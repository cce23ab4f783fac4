// Package emulator is an in-memory stand-in for the remote document
// backend: per-user profile and project documents with server-sent-event
// watch streams. It exists so the remote variant can be developed and
// tested without a real cloud project; it holds no server-side logic of
// its own and forgets everything on exit.
package emulator

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/crypto/bcrypt"

	"github.com/driftlab/blobtask/internal/logger"
)

// document is a stored JSON object, merged field-wise on PATCH
type document map[string]interface{}

// userDocs holds one identity's documents
type userDocs struct {
	profile  document            // nil when absent
	projects map[string]document // keyed by project id
}

// Server is the emulator
type Server struct {
	echo       *echo.Echo
	apiKeyHash []byte

	mu       sync.RWMutex
	users    map[string]*userDocs    // keyed by app/identity
	watchers map[string][]chan []byte // keyed by watched path
}

// New creates an emulator that accepts the given API key
func New(apiKey string) (*Server, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(apiKey), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash API key: %w", err)
	}

	s := &Server{
		apiKeyHash: hash,
		users:      make(map[string]*userDocs),
		watchers:   make(map[string][]chan []byte),
	}
	s.setupEcho()
	return s, nil
}

func (s *Server) setupEcho() {
	e := echo.New()
	e.HideBanner = true

	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			logger.Info("HTTP request",
				logger.F("method", c.Request().Method),
				logger.F("uri", c.Request().RequestURI),
				logger.F("status", c.Response().Status),
				logger.F("duration", time.Since(start).String()))
			return err
		}
	})
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.CORS())

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	api := e.Group("/v1")
	api.Use(s.apiKeyMiddleware)

	api.POST("/handshake", s.handleHandshake)

	profile := "/artifacts/:app/users/:uid/profile/data"
	api.GET(profile, s.handleProfileGet)
	api.PUT(profile, s.handleProfilePut)
	api.PATCH(profile, s.handleProfilePatch)
	api.DELETE(profile, s.handleProfileDelete)
	api.GET(profile+"/watch", s.handleProfileWatch)

	projects := "/artifacts/:app/users/:uid/projects"
	api.GET(projects, s.handleProjectsList)
	api.GET(projects+"/watch", s.handleProjectsWatch)
	api.PUT(projects+"/:id", s.handleProjectPut)
	api.PATCH(projects+"/:id", s.handleProjectPatch)
	api.DELETE(projects+"/:id", s.handleProjectDelete)

	s.echo = e
}

// apiKeyMiddleware verifies the credential key on every request
func (s *Server) apiKeyMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		key := c.Request().Header.Get("X-API-Key")
		if bcrypt.CompareHashAndPassword(s.apiKeyHash, []byte(key)) != nil {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid API key"})
		}
		return next(c)
	}
}

// handleHandshake issues an identity: a fresh one for anonymous requests,
// a stable token-derived one otherwise, so the same bootstrap token always
// maps to the same identity.
func (s *Server) handleHandshake(c echo.Context) error {
	var req struct {
		Token string `json:"token"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request"})
	}

	var id string
	if req.Token == "" {
		id = uuid.New().String()
	} else {
		id = uuid.NewSHA1(uuid.NameSpaceOID, []byte(req.Token)).String()
	}

	return c.JSON(http.StatusOK, map[string]string{"user_id": id})
}

// Handler exposes the emulator as an http.Handler for tests
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Start serves until the listener fails
func (s *Server) Start(addr string) error {
	return s.echo.Start(addr)
}

func userKey(c echo.Context) string {
	return c.Param("app") + "/" + c.Param("uid")
}

// user returns the document set for one identity, creating it on demand.
// Callers hold s.mu.
func (s *Server) user(key string) *userDocs {
	u, ok := s.users[key]
	if !ok {
		u = &userDocs{projects: make(map[string]document)}
		s.users[key] = u
	}
	return u
}

// broadcast pushes the current value of a watched path to its listeners
func (s *Server) broadcast(path string, payload []byte) {
	for _, ch := range s.watchers[path] {
		select {
		case ch <- payload:
		default:
		}
	}
}
