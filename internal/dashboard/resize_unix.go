//go:build !windows

package dashboard

import (
	"os"
	"os/signal"
	"sync"
	"syscall"
)

// watchResize forwards SIGWINCH as resize events.
func watchResize(_ *os.File) (<-chan struct{}, func()) {
	sig := make(chan os.Signal, 1)
	out := make(chan struct{}, 1)
	quit := make(chan struct{})
	signal.Notify(sig, syscall.SIGWINCH)

	go func() {
		for {
			select {
			case <-quit:
				return
			case <-sig:
				notify(out)
			}
		}
	}()

	var once sync.Once
	return out, func() {
		once.Do(func() {
			signal.Stop(sig)
			close(quit)
		})
	}
}
