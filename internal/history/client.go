// Package history reads prior conversations from the agent's HTTP API.
// These are plain request/response calls, separate from the live stream.
package history

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const maxErrorBodyBytes int64 = 8 << 10

// SessionSummary is one row of the session list.
type SessionSummary struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// Message is one entry of a session transcript.
type Message struct {
	Role     string `json:"role"` // user, assistant, or tool
	Content  string `json:"content"`
	ToolName string `json:"tool_name,omitempty"`
}

// Client calls the history API with bearer authentication and a bounded
// per-request timeout.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewClient builds a history client for the given base URL and token.
func NewClient(baseURL, token string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		token:      token,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// ListSessions fetches the ordered session list.
func (c *Client) ListSessions(ctx context.Context) ([]SessionSummary, error) {
	var sessions []SessionSummary
	if err := c.getJSON(ctx, "/api/sessions", &sessions); err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	return sessions, nil
}

// Messages fetches the ordered transcript of one session.
func (c *Client) Messages(ctx context.Context, sessionID string) ([]Message, error) {
	var messages []Message
	if err := c.getJSON(ctx, "/api/sessions/"+sessionID, &messages); err != nil {
		return nil, fmt.Errorf("fetch session %s: %w", sessionID, err)
	}
	return messages, nil
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		detail := strings.TrimSpace(string(body))
		if detail == "" {
			return fmt.Errorf("server returned %s", resp.Status)
		}
		return fmt.Errorf("server returned %s: %s", resp.Status, detail)
	}

	return json.NewDecoder(resp.Body).Decode(out)
}
