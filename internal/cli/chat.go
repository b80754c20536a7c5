package cli

import (
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/palmlink/palmlink/internal/debug"
	"github.com/palmlink/palmlink/internal/display"
	"github.com/palmlink/palmlink/internal/logging"
	"github.com/palmlink/palmlink/internal/observability"
	"github.com/palmlink/palmlink/internal/stream"
)

// NewChatCmd wires the live conversation command: a single message with -m,
// an interactive REPL without it.
func NewChatCmd(opts *Options) *cobra.Command {
	var message string
	var resumeID string

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Start a live conversation with the agent",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChat(cmd, opts, message, resumeID)
		},
	}

	cmd.Flags().StringVarP(&message, "message", "m", "", "Send a single message and exit")
	cmd.Flags().StringVar(&resumeID, "session", "", "Resume a specific session ID")
	return cmd
}

// runChat drives a live conversation. It backs both the chat subcommand and
// the bare root invocation.
func runChat(cmd *cobra.Command, opts *Options, message, resumeID string) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}
	if err := cfg.RequireEndpoint(); err != nil {
		return err
	}

	logger, err := logging.NewLogger(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck // best-effort

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	metrics := observability.NewMetrics()
	go func() {
		if err := debug.NewServer(cfg.Debug, logger, metrics).Run(ctx); err != nil {
			logger.Warn("debug listener stopped", zap.Error(err))
		}
	}()

	printer := display.NewPrinter(cmd.OutOrStdout())
	lines := stream.NewLineReader(cmd.InOrStdin())

	dispatcher, err := stream.Dial(ctx, stream.Options{
		URL:          cfg.SocketURL(),
		SessionID:    resumeID,
		PreviewChars: cfg.Client.ToolPreviewChars,
		TurnTimeout:  time.Duration(cfg.Client.TurnTimeoutSeconds) * time.Second,
		Printer:      printer,
		Approver:     stream.NewTerminalApprover(printer, lines),
		Logger:       logger,
		Metrics:      metrics,
	})
	if err != nil {
		return err
	}

	if strings.TrimSpace(message) != "" {
		return dispatcher.RunSingle(ctx, message)
	}

	printer.Noticef("Connected to %s:%d", cfg.Server.Host, cfg.Server.Port)
	printer.Noticef("Type your message and press Enter. 'exit' to quit.")
	return dispatcher.RunInteractive(ctx, lines)
}
