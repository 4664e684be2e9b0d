package reveal_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/Buchara777/AI-Adventure/gameplay-client/internal/reveal"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collect(ch <-chan string) []string {
	var out []string
	for s := range ch {
		out = append(out, s)
	}
	return out
}

func TestReveal(t *testing.T) {
	t.Run("Yields growing prefixes in order", func(t *testing.T) {
		got := collect(reveal.Reveal(context.Background(), "Dark", time.Millisecond))
		assert.Equal(t, []string{"D", "Da", "Dar", "Dark"}, got)
	})

	t.Run("Prefixes are whole runes", func(t *testing.T) {
		got := collect(reveal.Reveal(context.Background(), "тьма", 0))
		assert.Equal(t, []string{"т", "ть", "тьм", "тьма"}, got)
	})

	t.Run("Empty text closes immediately", func(t *testing.T) {
		assert.Empty(t, collect(reveal.Reveal(context.Background(), "", time.Millisecond)))
	})

	t.Run("Restartable from the first rune", func(t *testing.T) {
		first := collect(reveal.Reveal(context.Background(), "ab", 0))
		second := collect(reveal.Reveal(context.Background(), "ab", 0))
		assert.Equal(t, first, second)
	})

	t.Run("Stops on cancel", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		ch := reveal.Reveal(ctx, "a long line of story text", time.Hour)

		assert.Equal(t, "a", <-ch)
		cancel()

		select {
		case _, ok := <-ch:
			assert.False(t, ok, "channel should be closed after cancel")
		case <-time.After(time.Second):
			t.Fatal("reveal did not stop after cancel")
		}
	})
}

func TestRevealer(t *testing.T) {
	t.Run("Show renders the full text", func(t *testing.T) {
		var mu sync.Mutex
		var last string
		r := reveal.NewRevealer(0, func(prefix string) {
			mu.Lock()
			last = prefix
			mu.Unlock()
		})

		<-r.Show(context.Background(), "The end.")

		mu.Lock()
		defer mu.Unlock()
		assert.Equal(t, "The end.", last)
	})

	t.Run("New text cancels the previous reveal", func(t *testing.T) {
		var mu sync.Mutex
		var rendered []string
		r := reveal.NewRevealer(time.Hour, func(prefix string) {
			mu.Lock()
			rendered = append(rendered, prefix)
			mu.Unlock()
		})

		firstDone := r.Show(context.Background(), "first text")
		require.Eventually(t, func() bool {
			mu.Lock()
			defer mu.Unlock()
			return len(rendered) == 1
		}, time.Second, time.Millisecond)

		r.Show(context.Background(), "second")

		select {
		case <-firstDone:
		default:
			t.Fatal("first reveal should be finished once Show returns")
		}

		require.Eventually(t, func() bool {
			mu.Lock()
			defer mu.Unlock()
			return rendered[len(rendered)-1] == "s"
		}, time.Second, time.Millisecond)
		r.Stop()

		mu.Lock()
		defer mu.Unlock()
		assert.Equal(t, []string{"f", "s"}, rendered)
	})
}
