package history

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestListSessions(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/sessions", r.URL.Path)
		require.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"id":"abc123","title":"battery check"},{"id":"def456","title":"set an alarm"}]`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "secret", time.Second)
	sessions, err := client.ListSessions(context.Background())
	require.NoError(t, err)
	require.Len(t, sessions, 2)
	require.Equal(t, SessionSummary{ID: "abc123", Title: "battery check"}, sessions[0])
}

func TestListSessionsEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "secret", time.Second)
	sessions, err := client.ListSessions(context.Background())
	require.NoError(t, err)
	require.Empty(t, sessions)
}

func TestMessages(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/sessions/abc123", r.URL.Path)
		require.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`[
			{"role":"user","content":"check my battery"},
			{"role":"tool","content":"82%","tool_name":"battery"},
			{"role":"assistant","content":"Your battery is at 82%."}
		]`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "secret", time.Second)
	messages, err := client.Messages(context.Background(), "abc123")
	require.NoError(t, err)
	require.Len(t, messages, 3)
	require.Equal(t, "battery", messages[1].ToolName)
}

func TestErrorStatusSurfacesBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad token", http.StatusUnauthorized)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "wrong", time.Second)
	_, err := client.ListSessions(context.Background())
	require.Error(t, err)
	require.Contains(t, err.Error(), "401")
	require.Contains(t, err.Error(), "bad token")
}

func TestRequestTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer srv.Close()
	defer close(release)

	client := NewClient(srv.URL, "secret", 50*time.Millisecond)
	_, err := client.ListSessions(context.Background())
	require.Error(t, err)
}
