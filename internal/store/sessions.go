package store

import (
	"context"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/mockprep/backend/internal/domain/interview"
)

const (
	DefaultMaxSessions = 10000
	DefaultSessionTTL  = 2 * time.Hour
)

// SessionStore keeps one live interview session per user in memory.
// Entries expire after a period without access and the least recently used
// are evicted once the store is full.
type SessionStore struct {
	mu      sync.Mutex
	entries *expirable.LRU[string, *sessionEntry]
}

type sessionEntry struct {
	lock    chan struct{}
	session *interview.Session
}

func NewSessionStore(size int, ttl time.Duration) *SessionStore {
	if size <= 0 {
		size = DefaultMaxSessions
	}
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &SessionStore{
		entries: expirable.NewLRU[string, *sessionEntry](size, nil, ttl),
	}
}

// Put stores sess as the user's current session, replacing any previous one.
// A request still holding the previous session finishes on that copy.
func (s *SessionStore) Put(userID string, sess *interview.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries.Add(userID, &sessionEntry{
		lock:    make(chan struct{}, 1),
		session: sess,
	})
}

// Acquire returns the user's session with its lock held. The caller must
// call release exactly once. Waiting for the lock honours ctx.
func (s *SessionStore) Acquire(ctx context.Context, userID string) (sess *interview.Session, release func(), err error) {
	for {
		s.mu.Lock()
		entry, ok := s.entries.Get(userID)
		s.mu.Unlock()
		if !ok {
			return nil, nil, ErrNotFound
		}

		select {
		case entry.lock <- struct{}{}:
		case <-ctx.Done():
			return nil, nil, ctx.Err()
		}

		s.mu.Lock()
		current, ok := s.entries.Peek(userID)
		if ok && current == entry {
			// Re-adding restarts the entry's TTL.
			s.entries.Add(userID, entry)
			s.mu.Unlock()

			var once sync.Once
			return entry.session, func() { once.Do(func() { <-entry.lock }) }, nil
		}
		s.mu.Unlock()

		// Replaced or expired while waiting; look again.
		<-entry.lock
	}
}

// Len reports the number of live sessions.
func (s *SessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.entries.Len()
}
