package config

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_SeedsDefaultWhenNil(t *testing.T) {
	s := NewStore(nil)
	require.NotNil(t, s.Get())
	assert.Equal(t, DefaultConfig().Title, s.Get().Title)
}

func TestStore_SwapReturnsPrevious(t *testing.T) {
	first := &Config{Title: "first"}
	second := &Config{Title: "second"}

	s := NewStore(first)
	old := s.Swap(second)
	assert.Same(t, first, old)
	assert.Same(t, second, s.Get())
}

func TestStore_SubscribeReceivesSwaps(t *testing.T) {
	s := NewStore(&Config{Title: "initial"})
	ch := s.Subscribe()

	next := &Config{Title: "next"}
	s.Swap(next)

	select {
	case got := <-ch:
		assert.Same(t, next, got)
	default:
		t.Fatal("expected a change notification")
	}
}

func TestStore_SlowSubscriberDoesNotBlockSwap(t *testing.T) {
	s := NewStore(&Config{Title: "initial"})
	s.Subscribe() // never drained

	for i := 0; i < 100; i++ {
		s.Swap(&Config{Title: "spin"})
	}
	// Reaching here without deadlock is the assertion.
}

func TestStore_ConcurrentReadersSeeCompleteSnapshots(t *testing.T) {
	// Each snapshot carries internally consistent fields; a reader must
	// never observe a mix of two snapshots.
	a := &Config{Title: "a", Quote: "a"}
	b := &Config{Title: "b", Quote: "b"}
	s := NewStore(a)

	var wg sync.WaitGroup
	stop := make(chan struct{})

	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				default:
				}
				cfg := s.Get()
				if cfg.Title != cfg.Quote {
					t.Error("observed torn snapshot")
					return
				}
			}
		}()
	}

	for i := 0; i < 1000; i++ {
		if i%2 == 0 {
			s.Swap(b)
		} else {
			s.Swap(a)
		}
	}
	close(stop)
	wg.Wait()
}

func TestStore_ConcurrentSwapAndUnsubscribe(t *testing.T) {
	// Unsubscribing while swaps are in flight must never panic: a closed
	// subscriber channel may not be sent to.
	s := NewStore(&Config{Title: "initial"})

	var wg sync.WaitGroup
	stop := make(chan struct{})
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			next := &Config{Title: "spin"}
			for {
				select {
				case <-stop:
					return
				default:
				}
				s.Swap(next)
			}
		}()
	}

	for i := 0; i < 5000; i++ {
		ch := s.Subscribe()
		s.Unsubscribe(ch)
	}
	close(stop)
	wg.Wait()
}

func TestStore_Unsubscribe(t *testing.T) {
	s := NewStore(&Config{Title: "initial"})
	ch := s.Subscribe()
	s.Unsubscribe(ch)

	s.Swap(&Config{Title: "next"})

	_, open := <-ch
	assert.False(t, open, "channel should be closed after unsubscribe")
}
