package ui

import (
	"fmt"
	"io"
)

// Progress tracks completion of sequential per-project steps with a simple
// counter display. Execution is single-threaded throughout, so no locking.
type Progress struct {
	out       io.Writer
	total     int
	completed int
}

// NewProgress creates a progress tracker for n steps.
func NewProgress(out io.Writer, total int) *Progress {
	return &Progress{out: out, total: total}
}

// Done marks one step as completed and prints the current progress.
func (p *Progress) Done(label string) {
	p.completed++
	_, _ = fmt.Fprintf(p.out, "[%d/%d] %s\n", p.completed, p.total, label)
}

// Log prints an informational message within the progress context.
func (p *Progress) Log(format string, args ...any) {
	_, _ = fmt.Fprintf(p.out, format+"\n", args...)
}
