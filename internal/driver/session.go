package driver

import (
	"crypto/rand"
	"encoding/hex"
	"sync"
	"time"

	"github.com/citypath/corridor/internal/graph"
	"github.com/citypath/corridor/internal/search"
)

// sessionTTL bounds how long a completed query's label stores stay
// available for a cheaper same-source/destination recompute under a
// different objective (SPEC_FULL.md §4.9 "re-run only the join stage").
const sessionTTL = 5 * time.Minute

// session holds one query's forward/backward label stores (C6) so
// Recompute can re-run only the join stage (C7) under a new mode
// instead of re-running both labeling searches (C5).
type session struct {
	g             *graph.Graph
	shared        *search.SharedState
	wideThreshold float64
	query         Query
	expiresAt     time.Time
}

// sessionStore is a bounded, Mutex-guarded map of in-flight recompute
// sessions, following the teacher's mutex-guarded-map idiom
// (internal/middleware/ratelimit.go's counters, internal/graph.Graph's
// node map). Entries are swept on every insert, so the map never grows
// past the number of distinct queries completed in the last sessionTTL.
type sessionStore struct {
	mu       sync.Mutex
	sessions map[string]*session
}

func newSessionStore() *sessionStore {
	return &sessionStore{sessions: make(map[string]*session)}
}

// put stores a completed query's label sets and returns the id callers
// pass back to Recompute.
func (s *sessionStore) put(q Query, g *graph.Graph, shared *search.SharedState, wideThreshold float64) string {
	id := newSessionID()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.evictLocked()
	s.sessions[id] = &session{
		g: g, shared: shared, wideThreshold: wideThreshold, query: q,
		expiresAt: time.Now().Add(sessionTTL),
	}
	return id
}

func (s *sessionStore) get(id string) (*session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok || time.Now().After(sess.expiresAt) {
		return nil, false
	}
	return sess, true
}

// evictLocked drops expired sessions. Caller must hold s.mu.
func (s *sessionStore) evictLocked() {
	now := time.Now()
	for id, sess := range s.sessions {
		if now.After(sess.expiresAt) {
			delete(s.sessions, id)
		}
	}
}

// newSessionID generates a short random identifier, grounded on the
// teacher's key-generation idiom in internal/apikey/apikey.go.
func newSessionID() string {
	b := make([]byte, 8)
	if _, err := rand.Read(b); err != nil {
		return hex.EncodeToString([]byte(time.Now().String()))[:16]
	}
	return hex.EncodeToString(b)
}
