package cli

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"testing"

	"github.com/coder/websocket"
	"github.com/stretchr/testify/require"
)

// runCommand executes the root command with args and returns captured stdout.
func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Chdir(t.TempDir())

	var buf bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

// endpointFlags turns a httptest server URL into --host/--port/--token args.
func endpointFlags(t *testing.T, rawURL string) []string {
	t.Helper()
	u, err := url.Parse(rawURL)
	require.NoError(t, err)
	port, err := strconv.Atoi(u.Port())
	require.NoError(t, err)
	return []string{"--host", u.Hostname(), "--port", strconv.Itoa(port), "--token", "secret"}
}

func TestVersionCommand(t *testing.T) {
	out, err := runCommand(t, "version")
	require.NoError(t, err)
	require.Contains(t, out, "palmlink v")
	require.Contains(t, out, "commit")
}

func TestBareRootRunsChatSemantics(t *testing.T) {
	// No subcommand must not print help and exit clean; it runs chat, which
	// demands an endpoint.
	out, err := runCommand(t)
	require.Error(t, err)
	require.Contains(t, err.Error(), "host is required")
	require.NotContains(t, out, "Available Commands")
}

func TestBareRootSingleMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c, err := websocket.Accept(w, r, nil)
		if err != nil {
			t.Errorf("accept: %v", err)
			return
		}
		defer c.CloseNow()

		ctx := r.Context()
		if _, _, err := c.Read(ctx); err != nil {
			return
		}
		_ = c.Write(ctx, websocket.MessageText, []byte(`{"type":"token","text":"pong"}`))
		_ = c.Write(ctx, websocket.MessageText, []byte(`{"type":"complete"}`))
		_, _, _ = c.Read(ctx)
	}))
	defer srv.Close()

	args := append(endpointFlags(t, srv.URL), "-m", "ping")
	out, err := runCommand(t, args...)
	require.NoError(t, err)
	require.Contains(t, out, "pong")
}

func TestSessionsCommandRequiresEndpoint(t *testing.T) {
	_, err := runCommand(t, "sessions")
	require.Error(t, err)
	require.Contains(t, err.Error(), "host is required")
}

func TestChatCommandRequiresToken(t *testing.T) {
	_, err := runCommand(t, "chat", "--host", "192.168.1.42")
	require.Error(t, err)
	require.Contains(t, err.Error(), "token is required")
}

func TestSessionsCommandListsHistory(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/sessions", r.URL.Path)
		require.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`[{"id":"abc123def456","title":"battery check"}]`))
	}))
	defer srv.Close()

	args := append([]string{"sessions"}, endpointFlags(t, srv.URL)...)
	out, err := runCommand(t, args...)
	require.NoError(t, err)
	require.Contains(t, out, "abc123de...")
	require.Contains(t, out, "battery check")
}

func TestSessionsCommandEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	args := append([]string{"sessions"}, endpointFlags(t, srv.URL)...)
	out, err := runCommand(t, args...)
	require.NoError(t, err)
	require.Contains(t, out, "No sessions found.")
}

func TestShowCommandRendersTranscript(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/sessions/abc123", r.URL.Path)
		_, _ = w.Write([]byte(`[
			{"role":"user","content":"check my battery"},
			{"role":"tool","content":"82%","tool_name":"battery"},
			{"role":"assistant","content":"Your battery is at 82%."}
		]`))
	}))
	defer srv.Close()

	args := append([]string{"show", "abc123"}, endpointFlags(t, srv.URL)...)
	out, err := runCommand(t, args...)
	require.NoError(t, err)
	require.Contains(t, out, "check my battery")
	require.Contains(t, out, "[battery] 82%")
	require.Contains(t, out, "Your battery is at 82%.")
}

func TestShowCommandRequiresSessionArg(t *testing.T) {
	_, err := runCommand(t, "show")
	require.Error(t, err)
}

func TestShortID(t *testing.T) {
	require.Equal(t, "short", shortID("short"))
	require.Equal(t, "abcdefgh...", shortID("abcdefghijkl"))
}
