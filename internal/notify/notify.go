// Package notify delivers user-visible status messages, decoupled from the
// debug log: the log is an append-only diagnostic file, notifications are what
// a person actually sees on the terminal.
package notify

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// Notifier is a write-only surface for user-visible messages.
type Notifier interface {
	Info(msg string)
	Warn(msg string)
	Error(msg string)
}

var (
	infoStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
)

// Console writes styled notifications to a terminal stream.
type Console struct {
	out io.Writer
}

// NewConsole returns a Notifier writing to stderr, keeping stdout clean for
// command output.
func NewConsole() *Console {
	return &Console{out: os.Stderr}
}

// NewConsoleWriter returns a Notifier writing to w.
func NewConsoleWriter(w io.Writer) *Console {
	return &Console{out: w}
}

func (c *Console) Info(msg string)  { fmt.Fprintln(c.out, infoStyle.Render(msg)) }
func (c *Console) Warn(msg string)  { fmt.Fprintln(c.out, warnStyle.Render(msg)) }
func (c *Console) Error(msg string) { fmt.Fprintln(c.out, errorStyle.Render("Error: "+msg)) }

// Recorder captures notifications for test assertions.
type Recorder struct {
	mu     sync.Mutex
	Infos  []string
	Warns  []string
	Errors []string
}

// NewRecorder returns an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) Info(msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Infos = append(r.Infos, msg)
}

func (r *Recorder) Warn(msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Warns = append(r.Warns, msg)
}

func (r *Recorder) Error(msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Errors = append(r.Errors, msg)
}

var (
	_ Notifier = (*Console)(nil)
	_ Notifier = (*Recorder)(nil)
)
