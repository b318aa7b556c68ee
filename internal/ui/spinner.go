package ui

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/rileyhilliard/campus/internal/anim"
)

// SpinnerState represents the current state of a spinner.
type SpinnerState int

const (
	SpinnerPending SpinnerState = iota
	SpinnerInProgress
	SpinnerSuccess
	SpinnerFailed
)

// SpinnerInterval is how often the spinner advances a frame.
const SpinnerInterval = 80 * time.Millisecond

// Spinner displays an animated single-line status indicator with a label.
type Spinner struct {
	mu           sync.Mutex
	label        string
	state        SpinnerState
	startTime    time.Time
	loop         *anim.Loop
	style        lipgloss.Style
	interval     time.Duration
	output       func(string)
	lastRendered string
}

// NewSpinner creates a spinner cycling through frames.
// Output defaults to fmt.Print; use SetOutput to customize.
func NewSpinner(label string, frames anim.Frames) *Spinner {
	return &Spinner{
		label:    label,
		state:    SpinnerPending,
		loop:     anim.NewLoop(frames),
		style:    lipgloss.NewStyle().Foreground(ColorInfo),
		interval: SpinnerInterval,
		output:   func(s string) { fmt.Print(s) },
	}
}

// SetOutput sets the output function for the spinner.
func (s *Spinner) SetOutput(fn func(string)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.output = fn
}

// SetInterval changes the frame interval. It takes effect on the next Start.
func (s *Spinner) SetInterval(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.interval = d
}

// Start begins the spinner animation. Starting a running spinner is a no-op.
func (s *Spinner) Start() {
	s.mu.Lock()
	if s.state == SpinnerInProgress {
		s.mu.Unlock()
		return
	}
	s.state = SpinnerInProgress
	s.startTime = time.Now()
	interval := s.interval
	s.mu.Unlock()

	s.render(s.loop.Frame())
	s.loop.Start(interval, s.render)
}

// Stop halts the animation and clears the spinner line.
func (s *Spinner) Stop() {
	s.loop.Stop()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.clear()
}

// Success stops the spinner and prints the label with a success mark.
func (s *Spinner) Success() {
	s.finish(SpinnerSuccess, SymbolSuccess, SuccessStyle())
}

// Fail stops the spinner and prints the label with a failure mark.
func (s *Spinner) Fail() {
	s.finish(SpinnerFailed, SymbolFail, ErrorStyle())
}

// State returns the current spinner state.
func (s *Spinner) State() SpinnerState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Label returns the spinner's label.
func (s *Spinner) Label() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.label
}

// Frames returns how many frames the spinner has advanced.
func (s *Spinner) Frames() uint64 {
	return s.loop.Ticks()
}

func (s *Spinner) finish(state SpinnerState, symbol string, style lipgloss.Style) {
	s.loop.Stop()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = state
	s.clear()
	s.output(fmt.Sprintf("%s %s %s\n", style.Render(symbol), s.label,
		MutedStyle().Render(formatDuration(time.Since(s.startTime)))))
}

func (s *Spinner) render(frame string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	line := s.style.Render(frame) + " " + s.label
	s.clear()
	s.output(line)
	s.lastRendered = line
}

// clear blanks the previously rendered line. Callers hold mu.
func (s *Spinner) clear() {
	if s.lastRendered == "" {
		return
	}
	s.output("\r" + strings.Repeat(" ", DisplayWidth(s.lastRendered)) + "\r")
	s.lastRendered = ""
}

// StartupAnimation shows the boot progress bar on out for d, or until ctx
// is cancelled, then clears it.
func StartupAnimation(ctx context.Context, out io.Writer, d time.Duration) {
	if d <= 0 {
		return
	}
	sp := NewSpinner("正在启动服务器...", anim.Bar)
	sp.SetOutput(func(s string) { _, _ = io.WriteString(out, s) })
	sp.Start()
	defer sp.Stop()

	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}

// formatDuration formats a duration for display (e.g., "0.3s", "1.2s").
func formatDuration(d time.Duration) string {
	secs := d.Seconds()
	if secs < 0.1 {
		return fmt.Sprintf("%.2fs", secs)
	}
	return fmt.Sprintf("%.1fs", secs)
}
