package repo

import (
	"context"
	"sync"
)

// Session holds the latest snapshot produced for one upload. Loading again
// replaces the previous snapshot wholesale; a failed load leaves the session
// empty rather than keeping stale state.
type Session struct {
	parser *Parser

	loadMu sync.Mutex // serializes Load
	mu     sync.RWMutex
	snap   *Snapshot
}

// NewSession creates an empty session that parses with p.
func NewSession(p *Parser) *Session {
	return &Session{parser: p}
}

// Load parses entries and replaces the session's snapshot.
func (s *Session) Load(ctx context.Context, entries map[string][]byte) (*Snapshot, error) {
	s.loadMu.Lock()
	defer s.loadMu.Unlock()

	s.mu.Lock()
	s.snap = nil
	s.mu.Unlock()

	snap, err := s.parser.Parse(ctx, entries)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.snap = snap
	s.mu.Unlock()
	return snap, nil
}

// Snapshot returns the current snapshot, if any.
func (s *Session) Snapshot() (*Snapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap, s.snap != nil
}
