package cache

import (
	"sync"
	"time"
)

const (
	// A new code may not be requested for the same email inside this window.
	ResendCooldown = 30 * time.Second
	// Unconsumed codes are evicted after this.
	CodeTTL = 10 * time.Minute
)

type codeEntry struct {
	Code     string
	IssuedAt time.Time
}

// VerificationStore keeps pending email verification codes in memory.
// Entries are deleted once consumed; a janitor evicts expired ones.
type VerificationStore struct {
	mu       sync.RWMutex
	entries  map[string]codeEntry // keyed by email
	cooldown time.Duration
	ttl      time.Duration
	now      func() time.Time
}

func NewVerificationStore() *VerificationStore {
	return &VerificationStore{
		entries:  make(map[string]codeEntry),
		cooldown: ResendCooldown,
		ttl:      CodeTTL,
		now:      time.Now,
	}
}

// Put stores a fresh code for an email. When the previous code for the
// same email is still inside the cooldown window, it is kept and the
// remaining wait is returned with ok=false.
func (s *VerificationStore) Put(email, code string) (retryAfter time.Duration, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, exists := s.entries[email]; exists {
		elapsed := s.now().Sub(existing.IssuedAt)
		if elapsed < s.cooldown {
			return s.cooldown - elapsed, false
		}
	}

	s.entries[email] = codeEntry{Code: code, IssuedAt: s.now()}
	return 0, true
}

// Match reports whether a live, unexpired code matches.
func (s *VerificationStore) Match(email, code string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, exists := s.entries[email]
	if !exists || code == "" {
		return false
	}
	if s.now().Sub(entry.IssuedAt) > s.ttl {
		return false
	}
	return entry.Code == code
}

// Consume matches a code and deletes it on success.
func (s *VerificationStore) Consume(email, code string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, exists := s.entries[email]
	if !exists || code == "" {
		return false
	}
	if s.now().Sub(entry.IssuedAt) > s.ttl {
		delete(s.entries, email)
		return false
	}
	if entry.Code != code {
		return false
	}
	delete(s.entries, email)
	return true
}

// StartJanitor evicts expired entries on an interval.
func (s *VerificationStore) StartJanitor(interval time.Duration) {
	ticker := time.NewTicker(interval)
	go func() {
		for range ticker.C {
			s.evictExpired()
		}
	}()
}

func (s *VerificationStore) evictExpired() {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().Add(-s.ttl)
	for email, entry := range s.entries {
		if entry.IssuedAt.Before(cutoff) {
			delete(s.entries, email)
		}
	}
}
