package protocol

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDecodeEventKinds(t *testing.T) {
	tests := []struct {
		name  string
		frame string
		want  Event
	}{
		{
			name:  "session",
			frame: `{"type":"session","session_id":"abc"}`,
			want:  Event{Kind: KindSession, SessionID: "abc"},
		},
		{
			name:  "token",
			frame: `{"type":"token","text":"Hi"}`,
			want:  Event{Kind: KindToken, Text: "Hi"},
		},
		{
			name:  "tool result with error flag",
			frame: `{"type":"tool_result","name":"shell","data":"boom","is_error":true}`,
			want:  Event{Kind: KindToolResult, Name: "shell", Data: "boom", IsError: true},
		},
		{
			name:  "approval needed",
			frame: `{"type":"approval_needed","description":"delete file?"}`,
			want:  Event{Kind: KindApprovalNeeded, Description: "delete file?"},
		},
		{
			name:  "complete",
			frame: `{"type":"complete"}`,
			want:  Event{Kind: KindComplete},
		},
		{
			name:  "error",
			frame: `{"type":"error","message":"agent busy"}`,
			want:  Event{Kind: KindError, Message: "agent busy"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			evt, err := DecodeEvent([]byte(tc.frame))
			require.NoError(t, err)
			require.Equal(t, tc.want, evt)
		})
	}
}

func TestDecodeEventUnknownTypeIsNoOp(t *testing.T) {
	evt, err := DecodeEvent([]byte(`{"type":"bogus","text":"ignored"}`))
	require.NoError(t, err)
	require.Equal(t, KindUnknown, evt.Kind)
}

func TestDecodeEventMalformed(t *testing.T) {
	for _, frame := range []string{
		`{not json`,
		`"just a string"`,
		`{"no_type_here":1}`,
		`{"type":""}`,
		`{"type":null}`,
	} {
		_, err := DecodeEvent([]byte(frame))
		require.ErrorIs(t, err, ErrMalformedFrame, "frame: %s", frame)
	}
}

func TestEncodeChat(t *testing.T) {
	data, err := EncodeChat(NewChat("check my battery"))
	require.NoError(t, err)
	require.JSONEq(t, `{"type":"chat","message":"check my battery"}`, string(data))

	req := NewChat("again")
	req.SessionID = "abc"
	data, err = EncodeChat(req)
	require.NoError(t, err)
	require.JSONEq(t, `{"type":"chat","message":"again","session_id":"abc"}`, string(data))
}

func TestEncodeApproval(t *testing.T) {
	data, err := EncodeApproval(false)
	require.NoError(t, err)
	require.JSONEq(t, `{"type":"approval","approved":false}`, string(data))
}
