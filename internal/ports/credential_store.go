package ports

import (
	"sync"

	"github.com/bnema/rank-admin-cli/internal/domain"
)

// CredentialStore holds the process-wide Credential. Only the request layer
// and the explicit login/logout flows may mutate it.
type CredentialStore interface {
	Current() domain.Credential
	Set(credential domain.Credential)
	Clear()
}

// InMemoryCredentialStore is the default CredentialStore. Reads and writes
// may come from concurrent request goroutines, so access is guarded.
type InMemoryCredentialStore struct {
	mu         sync.RWMutex
	credential domain.Credential
}

var _ CredentialStore = (*InMemoryCredentialStore)(nil)

func NewInMemoryCredentialStore() *InMemoryCredentialStore {
	return &InMemoryCredentialStore{}
}

func (s *InMemoryCredentialStore) Current() domain.Credential {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.credential
}

func (s *InMemoryCredentialStore) Set(credential domain.Credential) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.credential = credential
}

func (s *InMemoryCredentialStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.credential = domain.Credential{}
}
