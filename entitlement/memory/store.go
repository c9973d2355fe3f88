package memorystore

import (
	"context"
	"sync"
	"time"

	"github.com/sharpeagle50/AI-Research-Assistant/entitlement"
)

// Store is the in-memory implementation of entitlement.Store. State lives
// for the process lifetime only; there is no durability and no cross-node
// coordination.
type Store struct {
	mu       sync.Mutex
	sessions map[string]entitlement.Session
	usage    map[string]int
}

// New constructs an empty store.
func New() *Store {
	return &Store{
		sessions: make(map[string]entitlement.Session),
		usage:    make(map[string]int),
	}
}

func (s *Store) Issue(ctx context.Context, plan entitlement.Plan, validity time.Duration) (entitlement.Session, error) {
	_ = ctx
	token, err := entitlement.NewToken()
	if err != nil {
		return entitlement.Session{}, err
	}
	now := time.Now()
	sess := entitlement.Session{
		Token:     token,
		Plan:      plan,
		CreatedAt: now,
		ExpiresAt: now.Add(validity),
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[token] = sess
	return sess, nil
}

// Lookup does not check expiry; an expired session stays visible until the
// next sweep removes it, matching the sweep-driven lifecycle.
func (s *Store) Lookup(ctx context.Context, token string) (entitlement.Session, bool, error) {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[token]
	if !ok {
		return entitlement.Session{}, false, nil
	}
	return sess, true, nil
}

func (s *Store) Usage(ctx context.Context, token string) (int, error) {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.usage[token], nil
}

func (s *Store) RecordUsage(ctx context.Context, token string) (int, error) {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()
	s.usage[token]++
	return s.usage[token], nil
}

func (s *Store) SweepExpired(ctx context.Context, now time.Time) (int, error) {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for token, sess := range s.sessions {
		if sess.Expired(now) {
			delete(s.sessions, token)
			delete(s.usage, token)
			removed++
		}
	}
	return removed, nil
}

func (s *Store) ResetUsage(ctx context.Context) error {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()
	s.usage = make(map[string]int)
	return nil
}

func (s *Store) Close() error { return nil }
