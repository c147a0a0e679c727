package main

import (
	"context"
	"sync"
	"time"
)

// SessionStore persists sessions between turns. Implementations return
// errors wrapping ErrSessionStore when the backend is unreachable.
type SessionStore interface {
	// Get returns the stored session and whether one existed.
	Get(ctx context.Context, userID string) (Session, bool, error)
	// Upsert creates or replaces the session for session.UserID.
	Upsert(ctx context.Context, session Session) error
	Delete(ctx context.Context, userID string) error
}

// MemorySessionStore keeps sessions in process memory, for development
// and single instance deployments without Redis.
type MemorySessionStore struct {
	mu       sync.RWMutex
	sessions map[string]Session
	now      func() time.Time
}

func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{
		sessions: make(map[string]Session),
		now:      time.Now,
	}
}

func (m *MemorySessionStore) Get(ctx context.Context, userID string) (Session, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	session, ok := m.sessions[userID]
	if !ok {
		return Session{}, false, nil
	}
	return session.clone(), true, nil
}

func (m *MemorySessionStore) Upsert(ctx context.Context, session Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	stampSession(&session, m.sessions[session.UserID].CreatedAt, m.now())
	m.sessions[session.UserID] = session.clone()
	return nil
}

func (m *MemorySessionStore) Delete(ctx context.Context, userID string) error {
	m.mu.Lock()
	delete(m.sessions, userID)
	m.mu.Unlock()
	return nil
}

// stampSession keeps the first creation time and sets the update time.
func stampSession(session *Session, created, now time.Time) {
	switch {
	case !session.CreatedAt.IsZero():
	case !created.IsZero():
		session.CreatedAt = created
	default:
		session.CreatedAt = now
	}
	session.UpdatedAt = now
}
