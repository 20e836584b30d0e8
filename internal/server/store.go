package server

import (
	"sync"

	"github.com/google/uuid"
	"github.com/odvcencio/gitscope/pkg/repo"
)

// Store keeps one repo.Session per upload id.
type Store struct {
	parser *repo.Parser

	mu       sync.RWMutex
	sessions map[string]*repo.Session
}

func NewStore(parser *repo.Parser) *Store {
	return &Store{parser: parser, sessions: make(map[string]*repo.Session)}
}

// Create registers a new empty session and returns its id.
func (s *Store) Create() (string, *repo.Session) {
	id := uuid.NewString()
	sess := repo.NewSession(s.parser)

	s.mu.Lock()
	s.sessions[id] = sess
	s.mu.Unlock()
	return id, sess
}

// Get returns the session for id.
func (s *Store) Get(id string) (*repo.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[id]
	return sess, ok
}

// Delete drops the session for id, reporting whether it existed.
func (s *Store) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.sessions[id]
	delete(s.sessions, id)
	return ok
}

// Len returns the number of sessions.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
