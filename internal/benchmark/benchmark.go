// Package benchmark provides named interval timers composed into a
// human-readable summary. It is a passive observer — timers never affect
// scan behavior or control flow.
package benchmark

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

// NamedTimer captures the start and end of one named interval.
type NamedTimer struct {
	Name     string
	start    time.Time
	end      time.Time
	finished bool
}

// End captures the end time for this timer.
func (t *NamedTimer) End() {
	t.end = time.Now()
	t.finished = true
}

// Duration returns the elapsed interval once End has been called.
func (t *NamedTimer) Duration() time.Duration {
	if !t.finished {
		return time.Since(t.start)
	}
	return t.end.Sub(t.start)
}

// Benchmark accumulates named timers across a run.
type Benchmark struct {
	mu     sync.Mutex
	timers []*NamedTimer
}

// New returns an empty benchmark set.
func New() *Benchmark {
	return &Benchmark{}
}

// Start begins a new named timer and records it.
func (b *Benchmark) Start(name string) *NamedTimer {
	t := &NamedTimer{Name: name, start: time.Now()}
	b.mu.Lock()
	b.timers = append(b.timers, t)
	b.mu.Unlock()
	return t
}

// Summary renders every recorded timer as a human-readable line.
func (b *Benchmark) Summary() string {
	b.mu.Lock()
	defer b.mu.Unlock()

	var sb strings.Builder
	sb.WriteString("Benchmarks:\n")
	for _, t := range b.timers {
		fmt.Fprintf(&sb, "  %s: %s\n", t.Name, t.Duration())
	}
	return sb.String()
}
