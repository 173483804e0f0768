// Package speech reads dashboard text aloud through an external synthesizer.
//
// Only one announcement is active at a time: starting a new one cancels the
// previous utterance and waits for it to stop before speaking.
package speech

import (
	"context"
	"sync"
)

// Runner speaks text and returns when done or when ctx is cancelled.
type Runner func(ctx context.Context, text string) error

// Announcer owns the single active announcement slot.
type Announcer struct {
	run Runner

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// NewAnnouncer returns an Announcer backed by run.
func NewAnnouncer(run Runner) *Announcer {
	return &Announcer{run: run}
}

// Speak cancels any announcement in flight, then starts speaking text in the
// background. The returned channel receives the runner's result once and is
// then closed. A cancelled utterance reports context.Canceled.
func (a *Announcer) Speak(ctx context.Context, text string) <-chan error {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.stopLocked()

	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	result := make(chan error, 1)
	a.cancel, a.done = cancel, done

	go func() {
		err := a.run(ctx, text)
		if ctx.Err() != nil {
			err = ctx.Err()
		}
		cancel()
		close(done)
		result <- err
		close(result)
	}()
	return result
}

// Stop cancels the active announcement, if any, and waits for it to end.
func (a *Announcer) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.stopLocked()
}

// Speaking reports whether an announcement is still running.
func (a *Announcer) Speaking() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.done == nil {
		return false
	}
	select {
	case <-a.done:
		return false
	default:
		return true
	}
}

func (a *Announcer) stopLocked() {
	if a.cancel == nil {
		return
	}
	a.cancel()
	<-a.done
	a.cancel, a.done = nil, nil
}
