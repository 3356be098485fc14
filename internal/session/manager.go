package session

import (
	"errors"
	"sync"
	"time"

	"github.com/orsaadi/FileSenderBackhend/internal/models"
)

// ErrNotFound is returned when a code has no session.
var ErrNotFound = errors.New("session not found")

// Registry holds the live relay sessions in memory for the life of the process.
type Registry struct {
	sessions map[string]*models.Session
	mu       sync.RWMutex
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		sessions: make(map[string]*models.Session),
	}
}

// Create registers code with no file, replacing any session already under it.
// The replaced session is returned so its blob can be released.
func (r *Registry) Create(code string) (created, prev *models.Session) {
	r.mu.Lock()
	defer r.mu.Unlock()

	prev = r.sessions[code]
	s := models.NewSession(code)
	r.sessions[code] = s
	cp := *s
	return &cp, prev
}

// Exists reports whether code is registered.
func (r *Registry) Exists(code string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.sessions[code]
	return ok
}

// Get returns a copy of the session registered under code.
func (r *Registry) Get(code string) (*models.Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.sessions[code]
	if !ok {
		return nil, false
	}
	cp := *s
	return &cp, true
}

// SetFile attaches blob to the session under code and returns the blob it replaced.
func (r *Registry) SetFile(code string, blob *models.Blob) (*models.Blob, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[code]
	if !ok {
		return nil, ErrNotFound
	}

	prev := s.Blob
	now := time.Now()
	s.Blob = blob
	s.UploadedAt = &now
	return prev, nil
}

// GetFile returns the blob attached to code. It reports false both for unknown
// codes and for sessions that have no upload yet.
func (r *Registry) GetFile(code string) (*models.Blob, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.sessions[code]
	if !ok || s.Blob == nil {
		return nil, false
	}
	return s.Blob, true
}

// Remove deletes the session under code. Unknown codes are ignored.
func (r *Registry) Remove(code string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, code)
}

// RemoveIfFile deletes the session under code only while it still points at path.
func (r *Registry) RemoveIfFile(code, path string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[code]
	if !ok || s.Blob == nil || s.Blob.Path != path {
		return false
	}
	delete(r.sessions, code)
	return true
}

// ReferencedPaths returns the set of blob paths held by any session.
func (r *Registry) ReferencedPaths() map[string]struct{} {
	r.mu.RLock()
	defer r.mu.RUnlock()

	paths := make(map[string]struct{}, len(r.sessions))
	for _, s := range r.sessions {
		if s.Blob != nil {
			paths[s.Blob.Path] = struct{}{}
		}
	}
	return paths
}

// Len returns the number of live sessions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
