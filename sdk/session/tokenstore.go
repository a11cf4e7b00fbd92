package session

import (
	"os"
	"path/filepath"
	"strings"
	"sync"

	log "github.com/sirupsen/logrus"
)

// TokenStore is the single source of truth for the current bearer token.
// The in-memory value is what requests read; it is optionally mirrored to one
// of two file-backed tiers: a durable file that survives restarts ("remember
// me") and a session-scoped file under a per-boot directory.
//
// Storage failures are swallowed: an unwritable or unreadable tier behaves as
// an absent one and is never surfaced to callers.
type TokenStore struct {
	mu          sync.Mutex
	token       string
	durablePath string
	sessionPath string
}

// NewTokenStore creates a store mirroring tokens to the given file paths.
// Either path may be empty, which disables that tier.
func NewTokenStore(durablePath, sessionPath string) *TokenStore {
	return &TokenStore{durablePath: durablePath, sessionPath: sessionPath}
}

// Token returns the current in-memory token, or empty when none is held.
func (s *TokenStore) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

// SetToken updates the in-memory token and, when persist is true, mirrors the
// change to storage. An empty token removes the value from BOTH tiers so no
// stale copy can win a later StoredToken read. A non-empty token is written to
// the tier selected by remember and removed from the other.
func (s *TokenStore) SetToken(token string, remember, persist bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	if !persist {
		return
	}
	if token == "" {
		removeTier(s.durablePath)
		removeTier(s.sessionPath)
		return
	}
	if remember {
		writeTier(s.durablePath, token)
		removeTier(s.sessionPath)
	} else {
		writeTier(s.sessionPath, token)
		removeTier(s.durablePath)
	}
}

// Clear removes the token from memory and from both storage tiers.
func (s *TokenStore) Clear() {
	s.SetToken("", false, true)
}

// StoredToken reads the persisted token. The durable tier wins when both tiers
// somehow hold a value; its presence implies remember=true was last used.
func (s *TokenStore) StoredToken() (token string, remember bool) {
	if v := readTier(s.durablePath); v != "" {
		return v, true
	}
	if v := readTier(s.sessionPath); v != "" {
		return v, false
	}
	return "", false
}

// DurablePath returns the durable-tier file path, for watchers.
func (s *TokenStore) DurablePath() string {
	return s.durablePath
}

// LoadInMemory copies the stored token, if any, into memory without touching
// storage. It returns the loaded token and its remember preference.
func (s *TokenStore) LoadInMemory() (string, bool) {
	token, remember := s.StoredToken()
	if token != "" {
		s.SetToken(token, remember, false)
	}
	return token, remember
}

func writeTier(path, token string) {
	if path == "" {
		return
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		log.Debugf("token store: create dir for %s failed: %v", path, err)
		return
	}
	if err := os.WriteFile(path, []byte(token), 0o600); err != nil {
		log.Debugf("token store: write %s failed: %v", path, err)
	}
}

func removeTier(path string) {
	if path == "" {
		return
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		log.Debugf("token store: remove %s failed: %v", path, err)
	}
}

func readTier(path string) string {
	if path == "" {
		return ""
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}
