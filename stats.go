package vmarena

import (
	"fmt"
)

// Stats is a snapshot of arena usage.
//
// Note on semantics:
//   - Capacity: bytes reserved from the OS (fixed for the arena's lifetime)
//   - Committed: bytes currently backed by physical memory
//   - Used: bytes between the base and the bump offset, padding included
//   - Padding: bytes skipped for alignment since the last reset
//   - Allocs, Commits, Resets: cumulative counts over the arena's lifetime
type Stats struct {
	Capacity          int
	Committed         int
	Used              int
	Padding           int
	PageSize          int
	CommitGranularity int
	Generation        uint32
	Allocs            uint64
	Commits           uint64
	Resets            uint64
}

// Stats returns the current arena statistics.
func (a *Arena) Stats() Stats {
	return Stats{
		Capacity:          a.Cap(),
		Committed:         a.committed,
		Used:              a.bump,
		Padding:           a.padding,
		PageSize:          a.pageSize,
		CommitGranularity: a.granularity,
		Generation:        a.generation,
		Allocs:            a.allocs,
		Commits:           a.commits,
		Resets:            a.resets,
	}
}

// Usage returns the used share of the committed memory in percent.
func (s Stats) Usage() float64 {
	if s.Committed == 0 {
		return 0
	}
	return float64(s.Used) / float64(s.Committed) * 100
}

func (a *Arena) String() string {
	stats := a.Stats()
	if a.closed {
		return fmt.Sprintf("Arena{closed, generation: %d}", stats.Generation)
	}
	return fmt.Sprintf(
		"Arena{capacity: %s, committed: %s, used: %s, padding: %s, usage: %.1f%%, allocs: %d, generation: %d}",
		FormatSize(stats.Capacity),
		FormatSize(stats.Committed),
		FormatSize(stats.Used),
		FormatSize(stats.Padding),
		stats.Usage(),
		stats.Allocs,
		stats.Generation,
	)
}
