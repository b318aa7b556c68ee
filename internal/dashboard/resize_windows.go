//go:build windows

package dashboard

import (
	"os"
	"sync"
	"time"

	"golang.org/x/term"
)

// resizePoll is how often the console size is checked. Windows consoles
// have no resize signal.
const resizePoll = 250 * time.Millisecond

func watchResize(f *os.File) (<-chan struct{}, func()) {
	out := make(chan struct{}, 1)
	quit := make(chan struct{})

	go func() {
		ticker := time.NewTicker(resizePoll)
		defer ticker.Stop()
		lastW, lastH, _ := term.GetSize(int(f.Fd()))
		for {
			select {
			case <-quit:
				return
			case <-ticker.C:
				w, h, err := term.GetSize(int(f.Fd()))
				if err != nil || (w == lastW && h == lastH) {
					continue
				}
				lastW, lastH = w, h
				notify(out)
			}
		}
	}()

	var once sync.Once
	return out, func() { once.Do(func() { close(quit) }) }
}
