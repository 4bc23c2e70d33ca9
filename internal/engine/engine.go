// Package engine drives the batched, timeout-bounded, retry-capable TCP
// connect scan: the system's core scheduler.
package engine

import (
	"context"
	"fmt"
	"net"
	"net/netip"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/vulnverified/portsweep/internal/planner"
	"github.com/vulnverified/portsweep/internal/portspec"
	"github.com/vulnverified/portsweep/internal/probe"
)

// ProgressReporter is called by the engine to report scan progress. Run
// calls Attempt once at the start of every pass and does not call Warn;
// windows are not reported. Implementations must be safe for concurrent
// use; the engine itself only calls it from the single driver goroutine.
type ProgressReporter interface {
	Attempt(num, total int)
	Warn(msg string)
}

// Config holds the immutable configuration for one scan run.
type Config struct {
	Hosts     []net.IP
	Strategy  portspec.PortStrategy
	BatchSize uint16
	Timeout   time.Duration
	Tries     int
	Quiet     bool

	// DialerFactory builds the Dialer used for each scan pass. Tests
	// inject a counting or erroring mock here; production code leaves it
	// nil and gets probe.StdDialer.
	DialerFactory func(timeout time.Duration) probe.Dialer
}

// OpenSet is the deduplicated set of socket addresses for which at least
// one probe, across all attempts, succeeded.
type OpenSet map[netip.AddrPort]struct{}

// Grouped returns the open set as a host -> ascending ports mapping, the
// shape the CLI's output renderers and the external fingerprinting
// dispatch both consume. Hosts are map keys, so their iteration order is
// not defined.
func (s OpenSet) Grouped() map[string][]uint16 {
	grouped := make(map[string][]uint16)
	for addr := range s {
		host := addr.Addr().String()
		grouped[host] = append(grouped[host], addr.Port())
	}
	for host := range grouped {
		sort.Slice(grouped[host], func(i, j int) bool { return grouped[host][i] < grouped[host][j] })
	}
	return grouped
}

// Engine is the batch scheduler: single-entry, not reusable across runs.
type Engine struct {
	cfg      Config
	progress ProgressReporter
}

// New constructs an Engine. batch_size = 0 is rejected as a configuration
// error per spec — the engine requires at least one in-flight probe.
func New(cfg Config, progress ProgressReporter) (*Engine, error) {
	if cfg.BatchSize == 0 {
		return nil, fmt.Errorf("batch size must be >= 1")
	}
	if cfg.Tries < 1 {
		return nil, fmt.Errorf("tries must be >= 1")
	}
	if cfg.Timeout <= 0 {
		return nil, fmt.Errorf("timeout must be positive")
	}
	if progress == nil {
		progress = noopReporter{}
	}
	return &Engine{cfg: cfg, progress: progress}, nil
}

// Run executes the full scan: materializes the plan once, then repeats it
// Tries times, walking each pass in fixed-size windows of BatchSize items.
// Every window is a join-all barrier — no window begins before the
// previous one finishes, so at most BatchSize sockets are open at any
// instant from this engine. Run suspends at the window barrier and inside
// each probe's own timeout race; it returns only when the plan is
// exhausted or ctx is cancelled between windows.
func (e *Engine) Run(ctx context.Context) (OpenSet, error) {
	plan := planner.Plan(e.cfg.Hosts, e.cfg.Strategy)
	result := make(OpenSet)

	if len(plan) == 0 {
		return result, nil
	}

	dialerFactory := e.cfg.DialerFactory
	if dialerFactory == nil {
		dialerFactory = probe.StdDialer
	}

	for attempt := 1; attempt <= e.cfg.Tries; attempt++ {
		e.progress.Attempt(attempt, e.cfg.Tries)

		if err := ctx.Err(); err != nil {
			return result, err
		}

		dialer := dialerFactory(e.cfg.Timeout)

		for start := 0; start < len(plan); start += int(e.cfg.BatchSize) {
			end := start + int(e.cfg.BatchSize)
			if end > len(plan) {
				end = len(plan)
			}
			window := plan[start:end]

			outcomes := make([]probe.Outcome, len(window))
			group, gctx := errgroup.WithContext(ctx)
			for i, item := range window {
				i, item := i, item
				group.Go(func() error {
					addr, ok := toAddrPort(item.Host, item.Port)
					if !ok {
						outcomes[i] = probe.Outcome{Open: false}
						return nil
					}
					outcomes[i] = probe.Connect(gctx, dialer, addr, e.cfg.Timeout)
					return nil
				})
			}
			// errgroup.Group.Go's closures never return an error — every
			// probe outcome is classified as Open/Unreachable internally —
			// so Wait only ever blocks until the window's goroutines exit.
			_ = group.Wait()

			for _, o := range outcomes {
				if o.Open {
					result[o.Addr] = struct{}{}
				}
			}

			if err := ctx.Err(); err != nil {
				return result, err
			}
		}
	}

	return result, nil
}

func toAddrPort(ip net.IP, port uint16) (netip.AddrPort, bool) {
	addr, ok := netip.AddrFromSlice(ip)
	if !ok {
		return netip.AddrPort{}, false
	}
	return netip.AddrPortFrom(addr.Unmap(), port), true
}

type noopReporter struct{}

func (noopReporter) Attempt(num, total int) {}
func (noopReporter) Warn(msg string)        {}
