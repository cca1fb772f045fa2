package app

import (
	"sync"
	"time"
)

// Animator drives the optional year-advance loop on a fixed interval.
// The callback runs serially on the loop goroutine, and time.Ticker
// coalesces ticks that fire while a callback is still running, so
// renders never queue up behind a slow one. Stop is idempotent and safe
// to call from any goroutine.
type Animator struct {
	interval time.Duration
	tick     func()
	stop     chan struct{}
	stopOnce sync.Once
}

func NewAnimator(interval time.Duration, tick func()) *Animator {
	return &Animator{
		interval: interval,
		tick:     tick,
		stop:     make(chan struct{}),
	}
}

// Start launches the loop. Returns immediately.
func (an *Animator) Start() {
	go func() {
		t := time.NewTicker(an.interval)
		defer t.Stop()
		for {
			select {
			case <-an.stop:
				return
			case <-t.C:
				an.tick()
			}
		}
	}()
}

// Stop halts the loop.
func (an *Animator) Stop() {
	an.stopOnce.Do(func() { close(an.stop) })
}
