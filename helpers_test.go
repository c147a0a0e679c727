package main

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func defaultCatalog(t *testing.T) *Catalog {
	t.Helper()
	catalog, err := DefaultCatalog()
	require.NoError(t, err)
	return catalog
}

func defaultEngine(t *testing.T) *Engine {
	t.Helper()
	return NewCatalogEngine(defaultCatalog(t))
}

// staticEngines serves one engine to a Conversation.
type staticEngines struct {
	engine *Engine
}

func (s staticEngines) Engine() *Engine { return s.engine }

// spyClassifier returns a fixed result and counts calls.
type spyClassifier struct {
	mu     sync.Mutex
	result Classification
	calls  []string
}

func (s *spyClassifier) Classify(text string) Classification {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, text)
	return s.result
}

func (s *spyClassifier) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls)
}

type sentMessage struct {
	To   string
	Text string
}

// recordingSender stores every message it is asked to send.
type recordingSender struct {
	mu   sync.Mutex
	sent []sentMessage
	err  error
}

func (r *recordingSender) Send(ctx context.Context, to, text string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, sentMessage{To: to, Text: text})
	return r.err
}

func (r *recordingSender) messages() []sentMessage {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]sentMessage(nil), r.sent...)
}

// recordingLog stores entries, or fails every Append when err is set.
type recordingLog struct {
	mu      sync.Mutex
	entries []MessageEntry
	err     error
}

func (r *recordingLog) Append(ctx context.Context, entry MessageEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.entries = append(r.entries, entry)
	return nil
}

func (r *recordingLog) all() []MessageEntry {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]MessageEntry(nil), r.entries...)
}

// brokenStore fails the configured operations.
type brokenStore struct {
	*MemorySessionStore
	getErr    error
	upsertErr error
}

func (b *brokenStore) Get(ctx context.Context, userID string) (Session, bool, error) {
	if b.getErr != nil {
		return Session{}, false, b.getErr
	}
	return b.MemorySessionStore.Get(ctx, userID)
}

func (b *brokenStore) Upsert(ctx context.Context, session Session) error {
	if b.upsertErr != nil {
		return b.upsertErr
	}
	return b.MemorySessionStore.Upsert(ctx, session)
}

// signBody returns the X-Hub-Signature-256 value Meta would send for body.
func signBody(appSecret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(appSecret))
	mac.Write(body)
	return signaturePrefix + hex.EncodeToString(mac.Sum(nil))
}

// sessionCount returns the number of sessions held by m.
func sessionCount(m *MemorySessionStore) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
