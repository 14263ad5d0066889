package auth

import "sync"

// CredentialStore holds the bearer credential the gateway clients attach to
// outgoing requests. It replaces ambient global token state: it is created
// explicitly, injected into the gateways, and cleared on teardown or when a
// gateway call comes back unauthorized.
type CredentialStore struct {
	mu             sync.RWMutex
	token          string
	onUnauthorized func()
}

// NewCredentialStore creates a store seeded with a previously saved token,
// if any. onUnauthorized is invoked after the credential is discarded in
// response to a 401, so the caller can navigate to its login flow.
func NewCredentialStore(token string, onUnauthorized func()) *CredentialStore {
	return &CredentialStore{
		token:          token,
		onUnauthorized: onUnauthorized,
	}
}

// Token returns the stored credential, or "" when logged out.
func (s *CredentialStore) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// SetToken stores a new credential.
func (s *CredentialStore) SetToken(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
}

// Clear discards the stored credential.
func (s *CredentialStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
}

// HandleUnauthorized discards the credential and signals the owner.
// Called by the gateway transport when any call answers 401.
func (s *CredentialStore) HandleUnauthorized() {
	s.mu.Lock()
	s.token = ""
	callback := s.onUnauthorized
	s.mu.Unlock()

	if callback != nil {
		callback()
	}
}
