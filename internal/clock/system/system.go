// Package system provides llmstxt.Clock implementations.
package system

import (
	"sync"
	"time"

	"github.com/JakeFAU/llmstxt-crawler/internal/llmstxt"
)

// Clock reads the wall clock in UTC.
type Clock struct{}

// New creates a new Clock.
func New() *Clock {
	return &Clock{}
}

// Now returns the current time.
func (Clock) Now() time.Time {
	return time.Now().UTC()
}

// Manual is a settable clock for tests and reproducible runs.
type Manual struct {
	mu  sync.Mutex
	now time.Time
}

// NewManual returns a Manual clock reading start.
func NewManual(start time.Time) *Manual {
	return &Manual{now: start.UTC()}
}

// Now returns the current manual time.
func (m *Manual) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// Advance moves the clock forward by d.
func (m *Manual) Advance(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = m.now.Add(d)
}

var (
	_ llmstxt.Clock = (*Clock)(nil)
	_ llmstxt.Clock = (*Manual)(nil)
)
