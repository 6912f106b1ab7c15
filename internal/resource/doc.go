// Package resource implements a committed-memory budget shared between arenas.
//
// An arena reserves address space for free, but every page it commits costs
// physical memory. The Controller bounds the sum of committed bytes across
// all arenas that share it:
//
//	rc := resource.NewController(resource.Config{
//	    MemoryLimitBytes: 1 << 30, // 1GB of committed pages
//	})
//
//	// Non-blocking acquire (returns error immediately if limit exceeded)
//	if err := rc.AcquireMemory(64 * 1024); err != nil {
//	    // ErrMemoryLimitExceeded - the allocation fails, the arena is unchanged
//	}
//	defer rc.ReleaseMemory(64 * 1024)
//
// Memory tracking uses a weighted semaphore for hard limits and atomic counters
// for usage tracking. AcquireMemory never blocks.
//
// # Thread Safety
//
// All Controller methods are safe for concurrent use, so one Controller can
// back arenas owned by different goroutines.
//
// # Nil Safety
//
// All methods handle nil Controller gracefully - they become no-ops.
package resource
