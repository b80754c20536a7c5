package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

// NewDoctorCmd returns a health-check command validating config and probing
// the agent's history endpoint.
func NewDoctorCmd(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Validate configuration and agent reachability",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Config OK. Scheme: %s, port: %d, debug listener: %q\n",
				cfg.Server.Scheme, cfg.Server.Port, cfg.Debug.Addr)

			if err := cfg.RequireEndpoint(); err != nil {
				fmt.Fprintf(out, "Endpoint not configured: %v\n", err)
				return nil
			}

			client, err := historyClient(opts)
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(),
				time.Duration(cfg.Client.HistoryTimeoutSeconds)*time.Second)
			defer cancel()

			sessions, err := client.ListSessions(ctx)
			if err != nil {
				return fmt.Errorf("agent unreachable at %s: %w", cfg.BaseURL(), err)
			}
			fmt.Fprintf(out, "Agent reachable at %s. Sessions: %d\n", cfg.BaseURL(), len(sessions))
			return nil
		},
	}
}
