// Package session tracks the server-assigned conversation identifier for
// one live connection.
package session

import (
	"sync"

	"github.com/palmlink/palmlink/internal/protocol"
)

// State holds the current session identifier. The receive path writes it
// (via Observe), the send path reads it (via Attach); the two run on
// separate goroutines, so access is mutex-guarded. The identifier is an
// opaque capability token assigned by the remote side; no local validation.
type State struct {
	mu sync.RWMutex
	id string
}

// New returns a State seeded with an identifier, which may be empty.
// A non-empty seed resumes a prior conversation.
func New(id string) *State {
	return &State{id: id}
}

// Observe adopts the identifier from a session event. Other event kinds are
// no-ops. A later session event overwrites the held identifier.
func (s *State) Observe(evt protocol.Event) {
	if evt.Kind != protocol.KindSession || evt.SessionID == "" {
		return
	}
	s.mu.Lock()
	s.id = evt.SessionID
	s.mu.Unlock()
}

// Attach stamps the current identifier onto an outbound chat request.
// No-op while unset.
func (s *State) Attach(req *protocol.ChatRequest) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.id != "" {
		req.SessionID = s.id
	}
}

// ID returns the currently held identifier, empty when unset.
func (s *State) ID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.id
}
