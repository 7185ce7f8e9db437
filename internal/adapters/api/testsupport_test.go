package api

import (
	"context"
	"sync"

	"github.com/bnema/rank-admin-cli/internal/domain"
	"github.com/bnema/rank-admin-cli/internal/ports"
)

// memSessionStore keeps the persisted session in memory for tests.
type memSessionStore struct {
	mu      sync.Mutex
	session domain.Session
	saved   bool
}

var _ ports.SessionStore = (*memSessionStore)(nil)

func (s *memSessionStore) Load(context.Context) (domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.saved {
		return domain.Session{}, domain.ErrNoSession
	}
	return s.session, nil
}

func (s *memSessionStore) Save(_ context.Context, session domain.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.session = session
	s.saved = true
	return nil
}

func (s *memSessionStore) Clear(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.session = domain.Session{}
	s.saved = false
	return nil
}

func (s *memSessionStore) current() (domain.Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.session, s.saved
}
