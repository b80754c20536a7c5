// Package protocol defines the JSON frames exchanged with the remote agent.
// Every frame, in either direction, carries a "type" discriminator; one
// logical message per WebSocket text frame.
package protocol

import (
	"encoding/json"
	"errors"
	"strings"
)

// Kind discriminates inbound events.
type Kind string

// Inbound event kinds pushed by the agent.
const (
	KindSession        Kind = "session"
	KindToken          Kind = "token"
	KindToolStart      Kind = "tool_start"
	KindToolResult     Kind = "tool_result"
	KindApprovalNeeded Kind = "approval_needed"
	KindComplete       Kind = "complete"
	KindError          Kind = "error"

	// KindUnknown marks a structurally valid frame whose type this client
	// does not recognise. Such frames are no-ops, not decode failures, so a
	// newer server can ship event types an older client quietly skips.
	KindUnknown Kind = ""
)

// ErrMalformedFrame reports a frame that is not valid JSON or lacks a type
// discriminator. Callers drop the frame and continue; it is never fatal to
// the connection.
var ErrMalformedFrame = errors.New("malformed frame")

// Event is an inbound frame decoded from the stream. Exactly one kind is
// active per instance; unused payload fields are zero.
type Event struct {
	Kind        Kind   `json:"type"`
	SessionID   string `json:"session_id,omitempty"`
	Text        string `json:"text,omitempty"`
	Name        string `json:"name,omitempty"`
	Data        string `json:"data,omitempty"`
	IsError     bool   `json:"is_error,omitempty"`
	Description string `json:"description,omitempty"`
	Message     string `json:"message,omitempty"`
}

// DecodeEvent parses a raw frame into an Event. Structural failures return
// ErrMalformedFrame; an unrecognised type yields a KindUnknown event and no
// error. No semantic validation happens here.
func DecodeEvent(data []byte) (Event, error) {
	var raw struct {
		Type        *string `json:"type"`
		SessionID   string  `json:"session_id"`
		Text        string  `json:"text"`
		Name        string  `json:"name"`
		Data        string  `json:"data"`
		IsError     bool    `json:"is_error"`
		Description string  `json:"description"`
		Message     string  `json:"message"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return Event{}, errors.Join(ErrMalformedFrame, err)
	}
	if raw.Type == nil || strings.TrimSpace(*raw.Type) == "" {
		return Event{}, ErrMalformedFrame
	}

	evt := Event{
		SessionID:   raw.SessionID,
		Text:        raw.Text,
		Name:        raw.Name,
		Data:        raw.Data,
		IsError:     raw.IsError,
		Description: raw.Description,
		Message:     raw.Message,
	}

	switch Kind(*raw.Type) {
	case KindSession, KindToken, KindToolStart, KindToolResult,
		KindApprovalNeeded, KindComplete, KindError:
		evt.Kind = Kind(*raw.Type)
	default:
		evt.Kind = KindUnknown
	}
	return evt, nil
}
