package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/palmlink/palmlink/internal/display"
	"github.com/palmlink/palmlink/internal/history"
)

const toolTranscriptPreviewChars = 200

// NewSessionsCmd lists prior chat sessions from the history API.
func NewSessionsCmd(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "sessions",
		Short: "List chat sessions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := historyClient(opts)
			if err != nil {
				return err
			}

			sessions, err := client.ListSessions(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(sessions) == 0 {
				fmt.Fprintln(out, "No sessions found.")
				return nil
			}
			for _, s := range sessions {
				fmt.Fprintf(out, "  %s  %s\n", display.Notice.Render(shortID(s.ID)), s.Title)
			}
			return nil
		},
	}
}

// NewShowCmd prints the transcript of one session.
func NewShowCmd(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "show <session-id>",
		Short: "Show messages from a session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := historyClient(opts)
			if err != nil {
				return err
			}

			messages, err := client.Messages(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, m := range messages {
				switch m.Role {
				case "user":
					fmt.Fprintf(out, "\n%s %s\n", display.UserLabel.Render("You:"), m.Content)
				case "assistant":
					fmt.Fprintf(out, "\n%s %s\n", display.AssistantLabel.Render("AI:"), m.Content)
				case "tool":
					name := m.ToolName
					if name == "" {
						name = "tool"
					}
					preview := display.Truncate(m.Content, toolTranscriptPreviewChars)
					fmt.Fprintf(out, "  %s %s\n", display.Notice.Render("["+name+"]"), preview)
				}
			}
			return nil
		},
	}
}

func historyClient(opts *Options) (*history.Client, error) {
	cfg, err := loadConfig(opts)
	if err != nil {
		return nil, err
	}
	if err := cfg.RequireEndpoint(); err != nil {
		return nil, err
	}
	timeout := time.Duration(cfg.Client.HistoryTimeoutSeconds) * time.Second
	return history.NewClient(cfg.BaseURL(), cfg.Server.Token, timeout), nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8] + "..."
	}
	return id
}
