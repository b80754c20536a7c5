package stream

import (
	"bufio"
	"context"
	"errors"
	"io"
	"strings"
	"sync"
)

// LineReader serialises line reads from one terminal stream. The chat input
// loop and the approval gate share a single instance, so an approval prompt
// takes the next line instead of racing the chat prompt for it.
type LineReader struct {
	mu sync.Mutex
	sc *bufio.Scanner
}

// maxLineBytes bounds a single input line. The scanner default of 64 KiB is
// too small for a long pasted message.
const maxLineBytes = 1 << 20

// NewLineReader wraps the given reader, normally stdin.
func NewLineReader(r io.Reader) *LineReader {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), maxLineBytes)
	return &LineReader{sc: sc}
}

// ReadLine blocks for the next line. Returns io.EOF once input is exhausted.
func (l *LineReader) ReadLine() (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.sc.Scan() {
		return l.sc.Text(), nil
	}
	if err := l.sc.Err(); err != nil {
		return "", err
	}
	return "", io.EOF
}

// isQuit reports whether a trimmed input line asks to end the session.
func isQuit(line string) bool {
	switch strings.ToLower(line) {
	case "exit", "quit", "/q":
		return true
	}
	return false
}

// inputLoop is the interactive producer of chat requests. It runs
// concurrently with the receive loop and communicates with it only through
// the connection's send side and the turn-completion signal: a fresh prompt
// appears only after the previous turn concluded, which keeps at most one
// chat request in flight.
func (d *Dispatcher) inputLoop(ctx context.Context, lines *LineReader) error {
	for {
		d.printer.UserPrompt()

		line, err := lines.ReadLine()
		if err != nil {
			d.printer.Newline()
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}

		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if isQuit(trimmed) {
			return nil
		}

		// A complete/error frame observed outside a turn leaves a stale
		// signal behind; clear it so the wait below sees only this turn's
		// conclusion.
		select {
		case <-d.turnEnds:
		default:
		}

		if err := d.sendChat(ctx, line); err != nil {
			return err
		}
		d.printer.AssistantPrompt()

		select {
		case <-d.turnEnds:
		case <-ctx.Done():
			return nil
		}
	}
}
