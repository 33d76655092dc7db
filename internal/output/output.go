// Package output provides the line sinks commands write to.
package output

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// Sink receives the lines a command produces.
type Sink interface {
	Info(line string)
	Error(line string)
}

// Console writes info lines to Out and error lines to Err. Error lines are
// red when Err is a color terminal and plain otherwise.
type Console struct {
	Out io.Writer
	Err io.Writer

	errStyle lipgloss.Style
}

// NewConsole returns a Console writing to out and errw.
func NewConsole(out, errw io.Writer) *Console {
	style := lipgloss.NewRenderer(errw).NewStyle().
		Foreground(lipgloss.Color("9")).
		TabWidth(lipgloss.NoTabConversion)
	return &Console{Out: out, Err: errw, errStyle: style}
}

// Info writes line to Out.
func (c *Console) Info(line string) { fmt.Fprintln(c.Out, line) }

// Error writes line to Err. Each physical line is styled on its own so
// multi-line messages are not padded to a common width.
func (c *Console) Error(line string) {
	parts := strings.Split(line, "\n")
	for i, p := range parts {
		parts[i] = c.errStyle.Render(p)
	}
	fmt.Fprintln(c.Err, strings.Join(parts, "\n"))
}

// Level tells info lines from error lines in a Recorder.
type Level string

const (
	LevelInfo  Level = "info"
	LevelError Level = "error"
)

// Line is a single recorded line.
type Line struct {
	Level   Level
	Message string
}

// Recorder keeps every line in memory. It is safe for concurrent use.
type Recorder struct {
	mu    sync.Mutex
	lines []Line
}

// Info records an info line.
func (r *Recorder) Info(line string) { r.add(LevelInfo, line) }

// Error records an error line.
func (r *Recorder) Error(line string) { r.add(LevelError, line) }

func (r *Recorder) add(level Level, msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lines = append(r.lines, Line{Level: level, Message: msg})
}

// Lines returns a copy of everything recorded so far.
func (r *Recorder) Lines() []Line {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Line(nil), r.lines...)
}

// Messages returns the recorded messages of the given level, in order.
func (r *Recorder) Messages(level Level) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.lines))
	for _, l := range r.lines {
		if l.Level == level {
			out = append(out, l.Message)
		}
	}
	return out
}

// String joins all info lines with newlines.
func (r *Recorder) String() string {
	return strings.Join(r.Messages(LevelInfo), "\n")
}
