// Package reveal produces typewriter-style text reveals as cancellable sequences.
package reveal

import (
	"context"
	"sync"
	"time"
	"unicode/utf8"
)

// DefaultInterval is the delay between two revealed runes.
const DefaultInterval = 20 * time.Millisecond

// Reveal yields growing rune prefixes of text, one per interval, ending with the
// full text. The channel is closed when the text is complete or ctx is done.
// Prefixes are produced only as the consumer receives them. A zero interval
// yields the prefixes without delay.
func Reveal(ctx context.Context, text string, interval time.Duration) <-chan string {
	out := make(chan string)
	go func() {
		defer close(out)

		var ticker *time.Ticker
		if interval > 0 {
			ticker = time.NewTicker(interval)
			defer ticker.Stop()
		}

		for end := 0; end < len(text); {
			_, size := utf8.DecodeRuneInString(text[end:])
			end += size

			select {
			case out <- text[:end]:
			case <-ctx.Done():
				return
			}

			if ticker != nil && end < len(text) {
				select {
				case <-ticker.C:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out
}

// Revealer runs one reveal at a time. Show cancels the reveal still in progress.
type Revealer struct {
	interval time.Duration
	render   func(prefix string)

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// NewRevealer calls render with each prefix. render runs on the reveal goroutine.
func NewRevealer(interval time.Duration, render func(prefix string)) *Revealer {
	return &Revealer{interval: interval, render: render}
}

// Show stops any running reveal and starts revealing text.
// The returned channel is closed when this reveal finishes or is stopped.
func (r *Revealer) Show(ctx context.Context, text string) <-chan struct{} {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.stopLocked()

	revealCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	r.cancel = cancel
	r.done = done

	prefixes := Reveal(revealCtx, text, r.interval)
	go func() {
		defer close(done)
		for prefix := range prefixes {
			r.render(prefix)
		}
	}()
	return done
}

// Stop cancels the running reveal and waits for it to finish.
func (r *Revealer) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stopLocked()
}

func (r *Revealer) stopLocked() {
	if r.cancel == nil {
		return
	}
	r.cancel()
	<-r.done
	r.cancel = nil
	r.done = nil
}
