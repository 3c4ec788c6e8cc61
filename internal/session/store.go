// Package session holds the process-local, cookie-keyed session state.
// Sessions live in memory only and are lost on restart.
package session

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"sync"

	"github.com/go-while/go-msgboard/internal/models"
)

// TokenLength is the length of the hex-encoded session token.
const TokenLength = 64

// Store is the session repository used by the web layer. It is an
// interface so handlers can be tested against a double.
type Store interface {
	// Create stores the user under a fresh token and returns the token.
	Create(user models.SessionUser) (string, error)

	// Get returns the user stored under token, or false on a miss.
	Get(token string) (models.SessionUser, bool)

	// Destroy removes the session. Destroying an unknown token is not
	// an error.
	Destroy(token string) error
}

// MemoryStore is the default Store: a mutex-guarded map keyed by token.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]models.SessionUser
}

// NewMemoryStore creates an empty in-memory session store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]models.SessionUser),
	}
}

// generateToken creates a cryptographically secure session token
func generateToken() (string, error) {
	bytes := make([]byte, TokenLength/2) // hex encoding doubles the length
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("failed to generate secure session token: %w", err)
	}
	return hex.EncodeToString(bytes), nil
}

// Create stores the user under a fresh token.
func (s *MemoryStore) Create(user models.SessionUser) (string, error) {
	token, err := generateToken()
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	s.sessions[token] = user
	s.mu.Unlock()

	return token, nil
}

// Get returns the user stored under token.
func (s *MemoryStore) Get(token string) (models.SessionUser, bool) {
	if token == "" {
		return models.SessionUser{}, false
	}

	s.mu.RLock()
	user, ok := s.sessions[token]
	s.mu.RUnlock()

	return user, ok
}

// Destroy removes the session stored under token.
func (s *MemoryStore) Destroy(token string) error {
	s.mu.Lock()
	delete(s.sessions, token)
	s.mu.Unlock()
	return nil
}

// Len returns the number of live sessions.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
