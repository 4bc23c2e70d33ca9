// Package governor inspects and adjusts the process open-file limit and
// derives a safe batch size from it.
package governor

import (
	"fmt"
	"math"

	"golang.org/x/sys/unix"
)

// Average and default file-descriptor figures used by InferBatchSize.
// AVG is the safest batch size based on experimentation; DEFAULT is the
// average Ubuntu soft limit.
const (
	AverageBatchSize          uint64 = 3000
	DefaultFileDescriptorsCap uint64 = 8000
)

// CurrentLimit reads the current open-file soft limit. On a platform
// without a per-process open-file limit this returns a very large
// sentinel and a nil error, so InferBatchSize stays total everywhere.
func CurrentLimit() (uint64, error) {
	var rlim unix.Rlimit
	if err := unix.Getrlimit(unix.RLIMIT_NOFILE, &rlim); err != nil {
		return math.MaxUint64, nil
	}
	return rlim.Cur, nil
}

// RaiseTo makes a best-effort attempt to raise both the soft and hard
// open-file limits to n. Failure is never fatal; callers log it as a
// resource warning and continue with whatever CurrentLimit reports.
func RaiseTo(n uint64) error {
	rlim := unix.Rlimit{Cur: n, Max: n}
	if err := unix.Setrlimit(unix.RLIMIT_NOFILE, &rlim); err != nil {
		return fmt.Errorf("raise ulimit to %d: %w", n, err)
	}
	return nil
}

// InferBatchSize is a total function mapping a requested batch size and
// the current file-descriptor limit to a safe batch size. Cases are
// applied top-down and must not be reordered — the boundary tests pin
// down this exact table.
func InferBatchSize(requested, limit uint64) uint16 {
	batchSize := requested

	switch {
	case limit >= requested:
		// Limit comfortably covers the request; use it as-is.
	case limit < AverageBatchSize:
		// Very small ulimit: halve it rather than saturate the descriptor table.
		batchSize = limit / 2
	case limit > DefaultFileDescriptorsCap:
		// High ulimit but an even higher request: cap at the experimentally
		// safe average rather than trust the raw limit.
		batchSize = AverageBatchSize
	default:
		// AVG <= limit <= DEFAULT: leave slack below the hard ceiling.
		batchSize = limit - 100
	}

	if batchSize > 65535 {
		batchSize = 65535
	}
	if batchSize < 1 {
		batchSize = 1
	}
	return uint16(batchSize)
}

// ShouldAdvise reports whether the governor should tell the user they can
// raise their batch size: the limit exceeds the request and the user did
// not pin the limit explicitly via --ulimit.
func ShouldAdvise(requested, limit uint64, userPinnedUlimit bool) bool {
	return limit > requested && !userPinnedUlimit
}
