package dashboard

import (
	"io"
	"os"

	"golang.org/x/term"

	"github.com/rileyhilliard/campus/internal/errors"
)

// Terminal is where a session draws.
type Terminal interface {
	io.Writer
	// Width returns the column count, or an error when it cannot be
	// determined (for example when output is not a terminal).
	Width() (int, error)
	// Resized subscribes to size changes. Events are coalesced; the
	// returned function unsubscribes and may be called more than once.
	Resized() (<-chan struct{}, func())
}

// StdTerminal is a Terminal over an *os.File, usually os.Stdout.
type StdTerminal struct {
	f *os.File
}

// NewStdTerminal wraps f.
func NewStdTerminal(f *os.File) *StdTerminal {
	return &StdTerminal{f: f}
}

func (t *StdTerminal) Write(p []byte) (int, error) {
	return t.f.Write(p)
}

// Width queries the terminal size.
func (t *StdTerminal) Width() (int, error) {
	w, _, err := term.GetSize(int(t.f.Fd()))
	if err != nil {
		return 0, errors.WrapWithCode(err, errors.ErrLayout,
			"Cannot determine terminal width",
			"Run in a terminal, or use 'campus status' for a one-shot report")
	}
	if w <= 0 {
		return 0, errors.New(errors.ErrLayout,
			"Terminal reported zero width",
			"Run in a terminal, or use 'campus status' for a one-shot report")
	}
	return w, nil
}

// IsTerminal reports whether the file is attached to a terminal.
func (t *StdTerminal) IsTerminal() bool {
	return term.IsTerminal(int(t.f.Fd()))
}

// Resized subscribes to size-change notifications.
func (t *StdTerminal) Resized() (<-chan struct{}, func()) {
	return watchResize(t.f)
}

// notify performs a non-blocking send so bursts collapse into one event.
func notify(ch chan struct{}) {
	select {
	case ch <- struct{}{}:
	default:
	}
}
