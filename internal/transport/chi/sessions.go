package chi

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"sync"

	"github.com/findlight/findlight"
	"github.com/findlight/findlight/internal/domain"
)

// ErrTooManySessions signals the session cap was reached.
var ErrTooManySessions = errors.New("too many sessions")

// SessionStore holds one engine per mounted document view, in memory
// only: search state never persists past the session.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]*findlight.Engine
	max      int
}

// NewSessionStore creates a store capped at max sessions.
func NewSessionStore(max int) *SessionStore {
	return &SessionStore{
		sessions: make(map[string]*findlight.Engine),
		max:      max,
	}
}

// Create registers an engine under a fresh id.
func (st *SessionStore) Create(engine *findlight.Engine) (string, error) {
	st.mu.Lock()
	defer st.mu.Unlock()
	if len(st.sessions) >= st.max {
		return "", ErrTooManySessions
	}
	id := newSessionID()
	st.sessions[id] = engine
	return id, nil
}

// Get returns the engine for id.
func (st *SessionStore) Get(id string) (*findlight.Engine, error) {
	st.mu.Lock()
	defer st.mu.Unlock()
	engine, ok := st.sessions[id]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return engine, nil
}

// Delete closes and removes the engine for id. Idempotent.
func (st *SessionStore) Delete(id string) {
	st.mu.Lock()
	engine, ok := st.sessions[id]
	delete(st.sessions, id)
	st.mu.Unlock()
	if ok {
		engine.Close()
	}
}

// Len returns the number of live sessions.
func (st *SessionStore) Len() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.sessions)
}

func newSessionID() string {
	var b [16]byte
	if _, err := rand.Read(b[:]); err != nil {
		panic("session id entropy unavailable: " + err.Error())
	}
	return hex.EncodeToString(b[:])
}
