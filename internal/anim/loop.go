// Package anim drives cyclic frame animations from a single ticker goroutine.
//
// A Loop owns its frame index and its ticker. Starting a running loop
// replaces the previous ticker, and Stop waits for the ticker goroutine to
// exit, so once Stop returns the tick callback is never invoked again.
package anim

import (
	"sync"
	"time"
)

// DefaultInterval is the tick interval used when Start is given a
// non-positive duration.
const DefaultInterval = 80 * time.Millisecond

// Frames is an ordered, cyclic sequence of glyphs.
type Frames []string

// Dots is the braille spinner shown next to the running indicator.
var Dots = Frames{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// Bar is the block progress sequence shown while the server boots.
var Bar = Frames{
	"▰▱▱▱▱▱▱",
	"▰▰▱▱▱▱▱",
	"▰▰▰▱▱▱▱",
	"▰▰▰▰▱▱▱",
	"▰▰▰▰▰▱▱",
	"▰▰▰▰▰▰▱",
	"▰▰▰▰▰▰▰",
	"▰▰▰▰▰▰▰",
	"▱▰▰▰▰▰▰",
	"▱▱▰▰▰▰▰",
	"▱▱▱▰▰▰▰",
	"▱▱▱▱▰▰▰",
	"▱▱▱▱▱▰▰",
	"▱▱▱▱▱▱▰",
}

// Loop is a cancellable, non-reentrant repeating task that advances a
// frame index on every tick.
type Loop struct {
	// ctl serialises Start and Stop so two tickers can never coexist.
	ctl sync.Mutex

	mu      sync.Mutex
	frames  Frames
	index   int
	ticks   uint64
	running bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

// NewLoop creates a stopped loop over frames. An empty sequence falls back
// to Dots.
func NewLoop(frames Frames) *Loop {
	if len(frames) == 0 {
		frames = Dots
	}
	return &Loop{frames: frames}
}

// Start begins ticking every interval. Each tick advances the frame and
// then calls onTick with the new frame on the loop goroutine. A panic in
// onTick is not recovered.
//
// onTick must not call Stop or Start on the same loop.
func (l *Loop) Start(interval time.Duration, onTick func(frame string)) {
	if interval <= 0 {
		interval = DefaultInterval
	}

	l.ctl.Lock()
	defer l.ctl.Unlock()

	l.halt()

	stop := make(chan struct{})
	done := make(chan struct{})

	l.mu.Lock()
	l.running = true
	l.stopCh = stop
	l.doneCh = done
	l.mu.Unlock()

	go l.run(interval, onTick, stop, done)
}

// Stop cancels the ticker and waits for the loop goroutine to exit.
// Calling Stop on a stopped loop is a no-op.
func (l *Loop) Stop() {
	l.ctl.Lock()
	defer l.ctl.Unlock()
	l.halt()
}

// halt must be called with ctl held.
func (l *Loop) halt() {
	l.mu.Lock()
	if !l.running {
		l.mu.Unlock()
		return
	}
	l.running = false
	stop, done := l.stopCh, l.doneCh
	l.mu.Unlock()

	close(stop)
	<-done
}

// Running reports whether the ticker is active.
func (l *Loop) Running() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.running
}

// Frame returns the current frame glyph.
func (l *Loop) Frame() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.frames[l.index]
}

// Index returns the current position in the frame sequence.
func (l *Loop) Index() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.index
}

// Ticks returns how many ticks have fired over the loop's lifetime.
// It is never reset, including across restarts.
func (l *Loop) Ticks() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.ticks
}

func (l *Loop) advance() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.index = (l.index + 1) % len(l.frames)
	l.ticks++
	return l.frames[l.index]
}

func (l *Loop) run(interval time.Duration, onTick func(string), stop, done chan struct{}) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	defer close(done)

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			// A tick and a stop can be ready together; stop wins.
			select {
			case <-stop:
				return
			default:
			}
			frame := l.advance()
			if onTick != nil {
				onTick(frame)
			}
		}
	}
}
