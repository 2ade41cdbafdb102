package core

import (
	"sync"

	"github.com/user/virtualscroll/internal/virtuallist"
)

// State holds the shared UI state of the demo host
type State struct {
	mu sync.RWMutex

	// Scroll state, in pixels along the list axis
	ScrollOffset float64

	// Last resolved range, kept for the status bar
	LastRange virtuallist.VisibleRange

	// Measurement bookkeeping
	MeasuredItems  int
	FlushedBatches int

	config *Config
}

// NewState creates a new application state
func NewState(config *Config) *State {
	return &State{config: config}
}

// SetScroll updates the scroll offset, clamping at zero
func (s *State) SetScroll(offset float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if offset < 0 {
		offset = 0
	}
	s.ScrollOffset = offset
}

// Scroll returns the current scroll offset
func (s *State) Scroll() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ScrollOffset
}

// RecordRange stores the last resolved visible range
func (s *State) RecordRange(vr virtuallist.VisibleRange) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.LastRange = vr
}

// Range returns the last resolved visible range
func (s *State) Range() virtuallist.VisibleRange {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.LastRange
}

// RecordFlush accounts one flushed measurement batch of n items
func (s *State) RecordFlush(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.MeasuredItems += n
	s.FlushedBatches++
}

// MeasureStats returns measurement counters for the status bar
func (s *State) MeasureStats() (items, batches int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.MeasuredItems, s.FlushedBatches
}
