package display

import (
	"fmt"
	"io"
	"sync"
)

// Printer serialises all terminal writes for one conversation. Output is
// append-only; token fragments are written without a trailing newline so the
// stream renders as it arrives.
type Printer struct {
	mu  sync.Mutex
	out io.Writer
}

// NewPrinter wraps the given writer, normally stdout.
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// Token appends a streamed text fragment verbatim.
func (p *Printer) Token(text string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprint(p.out, text)
}

// AssistantPrompt prints the "AI:" prefix ahead of streamed output.
func (p *Printer) AssistantPrompt() {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintf(p.out, "\n%s ", AssistantLabel.Render("AI:"))
}

// UserPrompt prints the interactive "You:" prompt.
func (p *Printer) UserPrompt() {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintf(p.out, "\n%s ", UserLabel.Render("You:"))
}

// ToolStart prints a status line for a tool invocation.
func (p *Printer) ToolStart(name string) {
	if name == "" {
		name = "unknown"
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintf(p.out, "\n  %s\n", ToolRunning.Render(fmt.Sprintf("[running %s...]", name)))
}

// ToolResult prints a bounded preview of a tool's output.
func (p *Printer) ToolResult(name, data string, isError bool, previewChars int) {
	if name == "" {
		name = "tool"
	}
	style := ToolOutput
	if isError {
		style = ToolFailed
	}
	preview := Truncate(data, previewChars)
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintf(p.out, "  %s\n", style.Render(fmt.Sprintf("[%s] %s", name, preview)))
}

// ApprovalPrompt shows a pending approval description and the y/n prompt.
func (p *Printer) ApprovalPrompt(description string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintf(p.out, "\n  %s %s\n", Approval.Render("Approval needed:"), description)
	fmt.Fprintf(p.out, "  %s ", UserLabel.Render("Approve? [y/n]:"))
}

// Error prints a remote-reported application error.
func (p *Printer) Error(message string) {
	if message == "" {
		message = "unknown"
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintf(p.out, "\n%s\n", ErrorText.Render("Error: "+message))
}

// Noticef prints a dim informational line.
func (p *Printer) Noticef(format string, args ...any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintf(p.out, "%s\n", Notice.Render(fmt.Sprintf(format, args...)))
}

// Newline terminates the current streamed line.
func (p *Printer) Newline() {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintln(p.out)
}
