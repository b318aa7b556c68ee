package dashboard

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/muesli/termenv"

	"github.com/rileyhilliard/campus/internal/anim"
	"github.com/rileyhilliard/campus/internal/config"
	"github.com/rileyhilliard/campus/internal/errors"
	"github.com/rileyhilliard/campus/internal/logger"
	"github.com/rileyhilliard/campus/internal/ui"
)

// State is the lifecycle state of a Session.
type State int

const (
	StateIdle State = iota
	StateStarting
	StateRunning
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateStarting:
		return "starting"
	case StateRunning:
		return "running"
	case StateStopped:
		return "stopped"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Terminal control sequences.
var (
	clearScreen = termenv.CSI + fmt.Sprintf(termenv.EraseDisplaySeq, 2) +
		termenv.CSI + fmt.Sprintf(termenv.CursorPositionSeq, 1, 1)
	eraseLineRight = termenv.CSI + termenv.EraseLineRightSeq
	eraseBelow     = termenv.CSI + fmt.Sprintf(termenv.EraseDisplaySeq, 0)
)

func cursorUp(n int) string {
	return termenv.CSI + fmt.Sprintf(termenv.CursorUpSeq, n)
}

// Options configures a Session.
type Options struct {
	// Width is the total panel width. Zero means the terminal width; a
	// terminal narrower than Width shrinks the panel to fit.
	Width    int
	Interval time.Duration
	Frames   anim.Frames
	// Redraw is config.RedrawInPlace (default) or config.RedrawClear.
	Redraw string
	// Theme defaults to ui.DefaultTheme.
	Theme  *ui.Theme
	Logger logger.Logger
}

// Session draws the status panel and keeps its spinner animating.
//
// Start collects one snapshot, clears the screen and draws the panel, then
// redraws it in place on every tick from the cached snapshot. A terminal
// resize clears and redraws in full. Stop tears everything down; once it
// returns nothing is written to the terminal again.
//
// Redrawing in place assumes the panel fits in the viewport. A terminal
// shorter than the panel scrolls and leaves stale copies behind; use
// config.RedrawClear there.
type Session struct {
	term  Terminal
	snap  Snapshotter
	info  ServerInfo
	opts  Options
	theme ui.Theme
	log   logger.Logger
	loop  *anim.Loop

	mu        sync.Mutex
	state     State
	rec       StatusRecord
	width     int
	lastLines int
	renders   int
	redraws   int

	unsubscribe func()
	quit        chan struct{}
	watchDone   chan struct{}

	stopOnce sync.Once
}

// NewSession creates an idle session. Sessions share nothing, so any
// number may exist at once.
func NewSession(term Terminal, snap Snapshotter, info ServerInfo, opts Options) *Session {
	theme := ui.DefaultTheme()
	if opts.Theme != nil {
		theme = *opts.Theme
	}
	log := opts.Logger
	if log == nil {
		log = logger.Noop()
	}
	if opts.Redraw == "" {
		opts.Redraw = config.RedrawInPlace
	}
	return &Session{
		term:  term,
		snap:  snap,
		info:  info,
		opts:  opts,
		theme: theme,
		log:   log,
		loop:  anim.NewLoop(opts.Frames),
	}
}

// Start collects the first snapshot and begins animating. It returns once
// the first frame is on screen.
//
// Snapshot failures are drawn on the panel, not returned. Start fails only
// when the panel cannot be laid out, when ctx is done before the first
// frame, or when the session was already started. A Stop that lands while
// the snapshot is being collected makes Start return nil without drawing.
func (s *Session) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.state != StateIdle {
		st := s.state
		s.mu.Unlock()
		return errors.New(errors.ErrPanel,
			fmt.Sprintf("Status panel can't start from state %s", st),
			"Create a new session to show the panel again")
	}
	s.state = StateStarting

	events, unsubscribe := s.term.Resized()
	s.unsubscribe = unsubscribe
	s.quit = make(chan struct{})
	s.watchDone = make(chan struct{})
	go s.watch(events, s.quit, s.watchDone)
	s.mu.Unlock()

	s.log.Debug("collecting initial snapshot")
	rec := s.snap.Collect(ctx)

	s.mu.Lock()
	if s.state == StateStopped {
		s.mu.Unlock()
		return nil
	}
	if err := ctx.Err(); err != nil {
		s.mu.Unlock()
		s.Stop()
		return err
	}
	width, err := s.layoutWidth()
	if err != nil {
		s.mu.Unlock()
		s.Stop()
		return err
	}

	s.rec = rec
	s.width = width
	s.fullRender(s.loop.Frame())
	s.state = StateRunning
	s.loop.Start(s.opts.Interval, s.tick)
	s.mu.Unlock()

	s.log.Info("status panel running (width %d, redraw %s)", width, s.opts.Redraw)
	return nil
}

// Stop cancels the animation and the resize subscription. It is safe to
// call any number of times from any goroutine; concurrent callers block
// until teardown is complete.
func (s *Session) Stop() {
	s.stopOnce.Do(func() {
		s.mu.Lock()
		prev := s.state
		s.state = StateStopped
		unsubscribe, quit, done := s.unsubscribe, s.quit, s.watchDone
		s.mu.Unlock()

		// Outside mu: a pending tick needs the lock to observe Stopped.
		s.loop.Stop()
		if unsubscribe != nil {
			unsubscribe()
		}
		if quit != nil {
			close(quit)
			<-done
		}
		s.log.Debug("status panel stopped (was %s)", prev)
	})
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Record returns the cached snapshot the panel is drawn from.
func (s *Session) Record() StatusRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rec
}

// FullRenders counts clear-and-draw renders, including the first.
func (s *Session) FullRenders() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.renders
}

// Redraws counts in-place redraws.
func (s *Session) Redraws() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.redraws
}

// Ticks reports how many animation ticks have fired.
func (s *Session) Ticks() uint64 {
	return s.loop.Ticks()
}

// Frame returns the current spinner frame.
func (s *Session) Frame() string {
	return s.loop.Frame()
}

// layoutWidth must be called with mu held.
func (s *Session) layoutWidth() (int, error) {
	tw, err := s.term.Width()
	if err != nil {
		if errors.IsCode(err, errors.ErrLayout) {
			return 0, err
		}
		return 0, errors.WrapWithCode(err, errors.ErrLayout,
			"Cannot determine terminal width",
			"Run in a terminal, or use 'campus status' for a one-shot report")
	}

	w := s.opts.Width
	if w <= 0 || w > tw {
		w = tw
	}
	if w < config.MinPanelWidth {
		return 0, errors.New(errors.ErrLayout,
			fmt.Sprintf("Terminal is too narrow (%d columns, need %d)", tw, config.MinPanelWidth),
			"Widen the window, or use 'campus status' for a one-shot report")
	}
	return w, nil
}

func (s *Session) tick(frame string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateRunning {
		return
	}
	if s.opts.Redraw == config.RedrawClear {
		s.fullRender(frame)
		return
	}
	s.redraw(frame)
}

func (s *Session) watch(events <-chan struct{}, quit, done chan struct{}) {
	defer close(done)
	for {
		select {
		case <-quit:
			return
		case <-events:
			s.resized()
		}
	}
}

func (s *Session) resized() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateRunning {
		return
	}
	if w, err := s.layoutWidth(); err != nil {
		s.log.Warn("keeping width %d after resize: %v", s.width, errors.Brief(err))
	} else {
		s.width = w
	}
	s.fullRender(s.loop.Frame())
}

func (s *Session) lines(frame string) []string {
	return BuildPanel(s.info, s.rec, frame, s.width, s.theme).RenderWith(s.theme)
}

// fullRender clears the screen and draws from the top. mu must be held.
func (s *Session) fullRender(frame string) {
	lines := s.lines(frame)

	var b strings.Builder
	b.WriteString(clearScreen)
	for _, l := range lines {
		b.WriteString(l)
		b.WriteByte('\n')
	}
	s.write(b.String())

	s.lastLines = len(lines)
	s.renders++
}

// redraw moves the cursor back over the previous frame and overwrites it.
// mu must be held.
func (s *Session) redraw(frame string) {
	lines := s.lines(frame)

	var b strings.Builder
	if s.lastLines > 0 {
		b.WriteString(cursorUp(s.lastLines))
	}
	b.WriteByte('\r')
	for _, l := range lines {
		b.WriteString(l)
		b.WriteString(eraseLineRight)
		b.WriteByte('\n')
	}
	if len(lines) < s.lastLines {
		b.WriteString(eraseBelow)
	}
	s.write(b.String())

	s.lastLines = len(lines)
	s.redraws++
}

func (s *Session) write(out string) {
	if _, err := s.term.Write([]byte(out)); err != nil {
		s.log.Warn("panel write failed: %v", err)
	}
}
