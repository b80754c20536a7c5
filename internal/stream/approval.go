package stream

import (
	"strings"

	"github.com/palmlink/palmlink/internal/display"
)

// Approver answers an approval_needed prompt. The remote agent blocks until
// the answer arrives, and no local timeout applies; the remote side owns any
// timeout policy.
type Approver interface {
	Approve(description string) bool
}

// TerminalApprover prompts y/n on the controlling terminal through the
// shared line reader. End of input counts as a deny: a prompt that can no
// longer be answered must not authorise side effects.
type TerminalApprover struct {
	printer *display.Printer
	lines   *LineReader
}

// NewTerminalApprover wires the approval prompt to the shared terminal surfaces.
func NewTerminalApprover(printer *display.Printer, lines *LineReader) *TerminalApprover {
	return &TerminalApprover{printer: printer, lines: lines}
}

// Approve displays the description and blocks for a single y/n answer.
func (a *TerminalApprover) Approve(description string) bool {
	a.printer.ApprovalPrompt(description)

	line, err := a.lines.ReadLine()
	if err != nil {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}
	return false
}
