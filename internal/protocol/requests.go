package protocol

import "encoding/json"

// ChatRequest submits a user message to the agent. SessionID is stamped on
// by the caller once the server has assigned one, so multi-turn
// conversations route to the same remote session.
type ChatRequest struct {
	Type      string `json:"type"`
	Message   string `json:"message"`
	SessionID string `json:"session_id,omitempty"`
}

// ApprovalRequest answers a pending approval_needed event. It must be sent
// on the same connection before any further chat request.
type ApprovalRequest struct {
	Type     string `json:"type"`
	Approved bool   `json:"approved"`
}

// NewChat builds a chat request frame without a session identifier.
func NewChat(message string) ChatRequest {
	return ChatRequest{Type: "chat", Message: message}
}

// EncodeChat serialises a chat request for the wire.
func EncodeChat(req ChatRequest) ([]byte, error) {
	req.Type = "chat"
	return json.Marshal(req)
}

// EncodeApproval serialises an approval answer for the wire.
func EncodeApproval(approved bool) ([]byte, error) {
	return json.Marshal(ApprovalRequest{Type: "approval", Approved: approved})
}
