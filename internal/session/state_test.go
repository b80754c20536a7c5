package session

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/palmlink/palmlink/internal/protocol"
)

func TestObserveAdoptsSessionID(t *testing.T) {
	s := New("")
	require.Empty(t, s.ID())

	s.Observe(protocol.Event{Kind: protocol.KindSession, SessionID: "abc"})
	require.Equal(t, "abc", s.ID())

	// Non-session events never touch the identifier.
	s.Observe(protocol.Event{Kind: protocol.KindToken, Text: "hi"})
	s.Observe(protocol.Event{Kind: protocol.KindComplete})
	require.Equal(t, "abc", s.ID())

	// A later session event overwrites.
	s.Observe(protocol.Event{Kind: protocol.KindSession, SessionID: "def"})
	require.Equal(t, "def", s.ID())
}

func TestObserveIgnoresEmptyID(t *testing.T) {
	s := New("abc")
	s.Observe(protocol.Event{Kind: protocol.KindSession})
	require.Equal(t, "abc", s.ID())
}

func TestAttachStampsCurrentID(t *testing.T) {
	s := New("")

	req := protocol.NewChat("first")
	s.Attach(&req)
	require.Empty(t, req.SessionID)

	s.Observe(protocol.Event{Kind: protocol.KindSession, SessionID: "abc"})

	req = protocol.NewChat("second")
	s.Attach(&req)
	require.Equal(t, "abc", req.SessionID)
}

func TestResumeSeedsIdentifier(t *testing.T) {
	s := New("resumed")
	req := protocol.NewChat("hello again")
	s.Attach(&req)
	require.Equal(t, "resumed", req.SessionID)
}
