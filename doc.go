// Package vmarena provides a region-based memory allocator backed directly by
// operating-system virtual memory, and a growable typed sequence built on it.
//
// An Arena reserves its whole capacity of address space up front, which costs
// no physical memory, and commits pages lazily in fixed batches as a bump
// pointer advances. Allocations never move and are never freed one by one:
// Reset discards all of them at once and Close returns the reservation to the OS.
//
// # Quick Start
//
//	a, err := vmarena.New(64 * vmarena.MiB)
//	if err != nil { ... }
//	defer a.Close()
//
//	p, _ := vmarena.Alloc(a, point{X: 1, Y: 2})   // *point in arena memory
//	buf, _ := vmarena.AllocSlice[uint32](a, 1024) // zeroed []uint32
//
//	a.Reset() // p and buf are now invalid
//
// # Typed Sequences
//
// Vec owns one arena and appends elements contiguously, so element addresses
// stay fixed as the sequence grows:
//
//	v, _ := vmarena.NewVec[float32](vmarena.GiB)
//	defer v.Close()
//
//	for i := range 1000 {
//	    v.Append(float32(i))
//	}
//	fmt.Println(v.Len(), *v.At(999)) // 1000 999
//
// # Lifetimes
//
// Nothing tracks the pointers and slices an arena hands out. They are valid
// until the next Reset or Close and must not be used afterwards. Ref is a
// checked alternative: a handle that carries the arena generation and reports
// ErrStaleRef after a Reset.
//
// Arena memory is invisible to the garbage collector, so element types must
// not contain Go pointers. Alloc, AllocSlice and NewVec reject such types
// with ErrPointerType.
//
// Close is the only operation that returns the address space to the OS. An
// Arena or Vec dropped without Close is never unmapped, since slices it handed
// out may still be in use; the leak is logged at warn level and reported to
// MetricsCollector.RecordLeak.
//
// # Errors
//
// Allocations past the reserved capacity fail with a *CapacityError matching
// ErrCapacityExceeded and leave the arena unchanged. Failures of the OS to
// reserve or commit memory are returned wrapped (matching ErrOutOfMemory when
// the OS reports exhaustion); they are not recoverable by retrying.
//
// # Concurrency
//
// An Arena or Vec has a single owner and is not safe for concurrent use.
// MemoryBudget and the metrics collectors may be shared between owners.
package vmarena
