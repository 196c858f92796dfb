package storage

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"
)

// ErrStoreFull is returned when a new session would exceed the store limit.
var ErrStoreFull = errors.New("session store is full")

// SessionStore keeps one value per browser session in memory. Entries not
// seen for maxAge are dropped by Cleanup; nothing is written to disk.
type SessionStore[T any] struct {
	sessions    map[string]*sessionEntry[T]
	mu          sync.RWMutex
	maxAge      time.Duration
	maxSessions int
	newValue    func() T
	now         func() time.Time
}

type sessionEntry[T any] struct {
	value    T
	lastSeen time.Time
}

// NewSessionStore creates a store that builds a fresh value with newValue for
// every new session. maxSessions caps the number of live sessions; zero means
// no limit.
func NewSessionStore[T any](maxAge time.Duration, maxSessions int, newValue func() T) *SessionStore[T] {
	return &SessionStore[T]{
		sessions:    make(map[string]*sessionEntry[T]),
		maxAge:      maxAge,
		maxSessions: maxSessions,
		newValue:    newValue,
		now:         time.Now,
	}
}

// Lookup returns the value for a live session without creating one.
func (s *SessionStore[T]) Lookup(id string) (T, bool) {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	if entry, ok := s.sessions[id]; ok && now.Sub(entry.lastSeen) < s.maxAge {
		entry.lastSeen = now
		return entry.value, true
	}
	var zero T
	return zero, false
}

// Get returns the value for id, creating a new session when id is unknown or
// expired. The returned id is the one the caller should keep using.
func (s *SessionStore[T]) Get(id string) (string, T, error) {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	if entry, ok := s.sessions[id]; ok && now.Sub(entry.lastSeen) < s.maxAge {
		entry.lastSeen = now
		return id, entry.value, nil
	}

	var zero T
	if s.maxSessions > 0 && len(s.sessions) >= s.maxSessions {
		s.removeIdleLocked(now.Add(-s.maxAge))
		if len(s.sessions) >= s.maxSessions {
			return "", zero, ErrStoreFull
		}
	}

	newID, err := newSessionID()
	if err != nil {
		return "", zero, fmt.Errorf("failed to create session id: %w", err)
	}

	entry := &sessionEntry[T]{value: s.newValue(), lastSeen: now}
	s.sessions[newID] = entry
	return newID, entry.value, nil
}

// Count returns the number of tracked sessions
func (s *SessionStore[T]) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Cleanup removes sessions idle for longer than maxAge and reports how many
// were removed.
func (s *SessionStore[T]) Cleanup() int {
	cutoff := s.now().Add(-s.maxAge)

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.removeIdleLocked(cutoff)
}

func (s *SessionStore[T]) removeIdleLocked(cutoff time.Time) int {
	removed := 0
	for id, entry := range s.sessions {
		if !entry.lastSeen.After(cutoff) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

// SessionSweeper adapts a SessionStore to the scheduler.Task interface.
type SessionSweeper[T any] struct {
	Store *SessionStore[T]
}

func (s SessionSweeper[T]) Name() string {
	return "Session Sweeper"
}

func (s SessionSweeper[T]) RunOnce(ctx context.Context) error {
	removed := s.Store.Cleanup()
	if removed > 0 {
		log.Printf("Removed %d idle sessions (%d active)", removed, s.Store.Count())
	}
	return nil
}

func newSessionID() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
