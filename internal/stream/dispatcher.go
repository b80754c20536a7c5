// Package stream owns the live conversation connection: it dials the agent,
// routes inbound events, drives the turn lifecycle, and coordinates shutdown
// between the receive loop and the interactive input loop.
package stream

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/coder/websocket"
	"go.uber.org/zap"

	"github.com/palmlink/palmlink/internal/display"
	"github.com/palmlink/palmlink/internal/observability"
	"github.com/palmlink/palmlink/internal/protocol"
	"github.com/palmlink/palmlink/internal/session"
)

const maxFrameBytes = 4 << 20

// Options configures a dialed conversation.
type Options struct {
	// URL is the full ws(s) endpoint including the token query parameter.
	URL string
	// SessionID resumes a prior conversation when non-empty.
	SessionID string
	// PreviewChars bounds tool output previews.
	PreviewChars int
	// TurnTimeout is the single-message wait ceiling.
	TurnTimeout time.Duration

	Printer  *display.Printer
	Approver Approver
	Logger   *zap.Logger
	Metrics  *observability.Metrics
}

// Dispatcher owns one live connection for its lifetime. It is created by
// Dial and released on every exit path of RunSingle/RunInteractive.
type Dispatcher struct {
	conn     *websocket.Conn
	state    *session.State
	printer  *display.Printer
	approver Approver
	logger   *zap.Logger
	metrics  *observability.Metrics

	previewChars int
	turnTimeout  time.Duration

	turnEnds  chan struct{}
	turnStart atomic.Int64 // unix nanos of the in-flight chat, 0 when idle
	closeOnce sync.Once
}

// Dial establishes the conversation connection. The bearer token travels in
// the URL's query string; it is never logged.
func Dial(ctx context.Context, opts Options) (*Dispatcher, error) {
	dialCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	conn, resp, err := websocket.Dial(dialCtx, opts.URL, nil)
	if err != nil {
		return nil, dialError(resp, err)
	}
	conn.SetReadLimit(maxFrameBytes)

	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Dispatcher{
		conn:         conn,
		state:        session.New(opts.SessionID),
		printer:      opts.Printer,
		approver:     opts.Approver,
		logger:       logger,
		metrics:      opts.Metrics,
		previewChars: opts.PreviewChars,
		turnTimeout:  opts.TurnTimeout,
		turnEnds:     make(chan struct{}, 1),
	}, nil
}

func dialError(resp *http.Response, err error) error {
	if resp == nil {
		return fmt.Errorf("connect failed: %w", err)
	}
	if resp.Body != nil {
		defer resp.Body.Close()
	}
	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return fmt.Errorf("connect failed (%s): check the bearer token", resp.Status)
	}
	return fmt.Errorf("connect failed (%s): %w", resp.Status, err)
}

// RunSingle sends one chat request eagerly and streams the reply until the
// turn concludes. The whole exchange is bounded by the turn timeout so the
// process never hangs past the ceiling, even if the transport drops without
// a close frame.
func (d *Dispatcher) RunSingle(ctx context.Context, message string) error {
	ctx, cancel := context.WithTimeout(ctx, d.turnTimeout)
	defer cancel()
	defer d.Close()

	if err := d.sendChat(ctx, message); err != nil {
		return err
	}
	d.printer.AssistantPrompt()

	return d.receive(ctx, true)
}

// RunInteractive runs the receive loop and the input loop concurrently until
// either side signals termination. The connection is closed on every exit
// path.
func (d *Dispatcher) RunInteractive(ctx context.Context, lines *LineReader) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	defer d.Close()

	recvErr := make(chan error, 1)
	go func() {
		recvErr <- d.receive(ctx, false)
	}()

	inputErr := make(chan error, 1)
	go func() {
		inputErr <- d.inputLoop(ctx, lines)
	}()

	select {
	case err := <-recvErr:
		// Transport ended while the input loop may still be blocked on the
		// terminal; it exits with the process.
		return err
	case err := <-inputErr:
		// Local shutdown: close the connection, let the receive loop drain,
		// and discard its teardown error.
		d.Close()
		<-recvErr
		return err
	}
}

// Close releases the connection. Safe to call multiple times and from any
// goroutine.
func (d *Dispatcher) Close() {
	d.closeOnce.Do(func() {
		_ = d.conn.Close(websocket.StatusNormalClosure, "client closed")
	})
}

func (d *Dispatcher) sendChat(ctx context.Context, message string) error {
	req := protocol.NewChat(message)
	d.state.Attach(&req)

	data, err := protocol.EncodeChat(req)
	if err != nil {
		return fmt.Errorf("encode chat: %w", err)
	}

	d.turnStart.Store(time.Now().UnixNano())
	if err := d.conn.Write(ctx, websocket.MessageText, data); err != nil {
		d.metrics.RecordTransportError("send")
		return fmt.Errorf("send chat: %w", err)
	}
	return nil
}

func (d *Dispatcher) sendApproval(ctx context.Context, approved bool) error {
	data, err := protocol.EncodeApproval(approved)
	if err != nil {
		return fmt.Errorf("encode approval: %w", err)
	}
	if err := d.conn.Write(ctx, websocket.MessageText, data); err != nil {
		d.metrics.RecordTransportError("send")
		return fmt.Errorf("send approval: %w", err)
	}
	return nil
}

// receive is the dispatch loop: it decodes each inbound frame and routes it
// by kind. Malformed frames are dropped, unknown kinds skipped; the loop
// ends only on transport error, local shutdown, or turn completion in
// single-message mode.
func (d *Dispatcher) receive(ctx context.Context, single bool) error {
	for {
		_, data, err := d.conn.Read(ctx)
		if err != nil {
			return d.readError(ctx, err, single)
		}

		evt, derr := d.decode(data)
		if derr != nil {
			continue
		}

		switch evt.Kind {
		case protocol.KindSession:
			d.state.Observe(evt)

		case protocol.KindToken:
			d.printer.Token(evt.Text)

		case protocol.KindToolStart:
			d.printer.ToolStart(evt.Name)

		case protocol.KindToolResult:
			d.printer.ToolResult(evt.Name, evt.Data, evt.IsError, d.previewChars)

		case protocol.KindApprovalNeeded:
			approved := d.approver.Approve(evt.Description)
			d.metrics.RecordApproval(approved)
			if err := d.sendApproval(ctx, approved); err != nil {
				return err
			}

		case protocol.KindComplete:
			d.printer.Newline()
			d.finishTurn("complete")
			if single {
				return nil
			}

		case protocol.KindError:
			d.printer.Error(evt.Message)
			d.finishTurn("error")
			if single {
				return nil
			}

		default:
			// Unknown kinds are skipped for forward compatibility.
		}
	}
}

func (d *Dispatcher) decode(data []byte) (protocol.Event, error) {
	evt, err := protocol.DecodeEvent(data)
	if err != nil {
		d.metrics.RecordDroppedFrame()
		d.logger.Debug("dropping malformed frame", zap.Error(err))
		return protocol.Event{}, err
	}
	d.metrics.RecordFrame(string(evt.Kind))
	return evt, nil
}

func (d *Dispatcher) readError(ctx context.Context, err error, single bool) error {
	switch {
	case websocket.CloseStatus(err) == websocket.StatusNormalClosure:
		return nil
	case errors.Is(err, context.Canceled):
		// Local interrupt or shutdown: a normal, non-error termination.
		return nil
	case errors.Is(err, context.DeadlineExceeded) && single:
		d.metrics.RecordTransportError("timeout")
		return fmt.Errorf("timed out after %s waiting for the reply", d.turnTimeout)
	case errors.Is(err, io.EOF):
		d.metrics.RecordTransportError("closed")
		return fmt.Errorf("connection closed by remote: %w", err)
	default:
		if ctx.Err() != nil {
			return nil
		}
		d.metrics.RecordTransportError("read")
		return fmt.Errorf("connection error: %w", err)
	}
}

func (d *Dispatcher) finishTurn(outcome string) {
	var dur time.Duration
	if started := d.turnStart.Swap(0); started > 0 {
		dur = time.Since(time.Unix(0, started))
	}
	d.metrics.RecordTurn(outcome, dur)

	select {
	case d.turnEnds <- struct{}{}:
	default:
	}
}
