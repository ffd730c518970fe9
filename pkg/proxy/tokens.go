package proxy

import (
	"sync"

	"github.com/ds-wizard/fairsharing-proxy/pkg/upstream"
)

// TokenStore caches upstream tokens per username so repeated requests from
// the same account reuse a session instead of signing in every time.
//
// Two concurrent requests for the same username may both miss and both log
// in. Both logins succeed upstream and the later Store wins, so the race
// costs one extra sign-in and nothing else.
type TokenStore struct {
	mu     sync.Mutex
	tokens map[string]*upstream.Token
}

// NewTokenStore creates an empty token store.
func NewTokenStore() *TokenStore {
	return &TokenStore{tokens: make(map[string]*upstream.Token)}
}

// Get returns the cached token for the username, if any.
func (s *TokenStore) Get(username string) (*upstream.Token, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	token, ok := s.tokens[username]
	return token, ok
}

// HasUsable reports whether a cached token for the username exists and does
// not need a refresh.
func (s *TokenStore) HasUsable(username string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	token, ok := s.tokens[username]
	return ok && !token.ShouldRefresh()
}

// Store caches the token under its username.
func (s *TokenStore) Store(token *upstream.Token) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[token.Username] = token
}

// Clear drops the cached token for the username.
func (s *TokenStore) Clear(username string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tokens, username)
}

// Len returns the number of cached tokens.
func (s *TokenStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tokens)
}
