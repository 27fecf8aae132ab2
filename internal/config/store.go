package config

import (
	"sync"
	"sync/atomic"

	"fredon/pkg/logging"
)

// Store holds the currently active configuration snapshot behind an
// atomically replaceable pointer. Reads never block and never observe a
// partially constructed value: a reader gets either the old snapshot or the
// new one, never a mix.
type Store struct {
	current atomic.Pointer[Config]

	mu   sync.Mutex
	subs []chan *Config
}

// NewStore creates a store seeded with the given snapshot.
func NewStore(initial *Config) *Store {
	s := &Store{}
	if initial == nil {
		initial = DefaultConfig()
	}
	s.current.Store(initial)
	return s
}

// Get returns the current snapshot. The returned Config must be treated as
// read-only.
func (s *Store) Get() *Config {
	return s.current.Load()
}

// Swap atomically replaces the current snapshot and notifies subscribers.
// It returns the previous snapshot.
//
// The sends happen under the mutex so Unsubscribe can never close a channel
// between the subscriber list being read and the send. They are non-blocking,
// so the lock is never held across a stalled subscriber.
func (s *Store) Swap(cfg *Config) *Config {
	old := s.current.Swap(cfg)

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, ch := range s.subs {
		select {
		case ch <- cfg:
		default:
			logging.Warn("ConfigStore", "Subscriber channel full, dropping change notification")
		}
	}
	return old
}

// Subscribe returns a buffered channel that receives each new snapshot after
// a swap. Slow subscribers miss notifications rather than blocking the swap.
func (s *Store) Subscribe() <-chan *Config {
	ch := make(chan *Config, 8)
	s.mu.Lock()
	s.subs = append(s.subs, ch)
	s.mu.Unlock()
	return ch
}

// Unsubscribe removes a channel previously returned by Subscribe.
func (s *Store) Unsubscribe(ch <-chan *Config) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, sub := range s.subs {
		if sub == ch {
			s.subs = append(s.subs[:i], s.subs[i+1:]...)
			close(sub)
			return
		}
	}
}
