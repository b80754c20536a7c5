package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/palmlink/palmlink/internal/config"
	"github.com/palmlink/palmlink/internal/version"
)

// Options holds global CLI options shared by all commands.
type Options struct {
	ConfigPath string
	Host       string
	Port       int
	Token      string
}

// NewRootCmd constructs the base CLI command tree. Invoked without a
// subcommand the root behaves like chat, so `palmlink --host H --token T`
// drops straight into a conversation.
func NewRootCmd() *cobra.Command {
	opts := &Options{}
	var message string
	var resumeID string

	cmd := &cobra.Command{
		Use:           "palmlink",
		Short:         "PalmLink CLI – talk to your phone-hosted AI agent from a desktop terminal",
		Version:       version.Full(),
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChat(cmd, opts, message, resumeID)
		},
	}

	cmd.Flags().StringVarP(&message, "message", "m", "", "Send a single message and exit")
	cmd.Flags().StringVar(&resumeID, "session", "", "Resume a specific session ID")

	pf := cmd.PersistentFlags()
	pf.StringVar(&opts.ConfigPath, "config", "", "Path to config file (default: configs/config.yaml)")
	pf.StringVar(&opts.Host, "host", "", "Phone IP address or hostname")
	pf.IntVar(&opts.Port, "port", 0, "Agent CLI server port (default: 8642)")
	pf.StringVar(&opts.Token, "token", "", "Bearer token from the agent's settings")

	cmd.AddCommand(NewChatCmd(opts))
	cmd.AddCommand(NewSessionsCmd(opts))
	cmd.AddCommand(NewShowCmd(opts))
	cmd.AddCommand(NewDoctorCmd(opts))
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig wraps config loading with shared options; flags win over file
// and environment values.
func loadConfig(opts *Options) (*config.Config, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if opts.Host != "" {
		cfg.Server.Host = opts.Host
	}
	if opts.Port != 0 {
		cfg.Server.Port = opts.Port
	}
	if opts.Token != "" {
		cfg.Server.Token = opts.Token
	}
	return cfg, nil
}
