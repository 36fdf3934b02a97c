package testutil

import (
	"fmt"
	"sync"
	"time"
)

// StubClock always reports the same instant.
type StubClock struct {
	now time.Time
}

// FixedClock returns the clock the record store tests are written against:
// 2024-01-15 10:30:00 UTC.
func FixedClock() StubClock {
	return StubClock{now: time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)}
}

func (c StubClock) Now() time.Time { return c.now }

// StubIDGenerator hands out "<prefix>-1", "<prefix>-2", ... Safe for
// concurrent use.
type StubIDGenerator struct {
	prefix string

	mu sync.Mutex
	n  int
}

func NewStubIDGenerator(prefix string) *StubIDGenerator {
	return &StubIDGenerator{prefix: prefix}
}

func (g *StubIDGenerator) New() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return fmt.Sprintf("%s-%d", g.prefix, g.n)
}
