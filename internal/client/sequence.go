package client

import (
	"errors"
	"sync"
)

// ErrSuperseded is returned when a newer request on the same slot was
// issued before this one's response arrived. The response is discarded.
var ErrSuperseded = errors.New("superseded by a newer request")

// Sequencer hands out increasing tokens per interaction slot so that only
// the most recently issued request on a slot has its response applied.
type Sequencer struct {
	mu     sync.Mutex
	latest map[string]uint64
}

// NewSequencer creates an empty sequencer.
func NewSequencer() *Sequencer {
	return &Sequencer{latest: make(map[string]uint64)}
}

// Next issues a token for slot, superseding every earlier token on it.
func (s *Sequencer) Next(slot string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.latest[slot]++
	return s.latest[slot]
}

// Current reports whether token is still the newest on slot.
func (s *Sequencer) Current(slot string, token uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.latest[slot] == token
}
