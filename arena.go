package vmarena

import (
	"fmt"
	"runtime"
	"unsafe"

	"github.com/hupe1980/vmarena/internal/conv"
	"github.com/hupe1980/vmarena/internal/mem"
	"github.com/hupe1980/vmarena/internal/vm"
)

// Arena is a bump allocator over one contiguous virtual address range.
//
// The range is reserved once by New and never moves, so every allocation keeps
// its address until Reset or Close. Physical pages are committed lazily in
// batches of CommitGranularity bytes as the bump offset crosses the committed
// boundary.
//
// An Arena has a single owner: it is not safe for concurrent use. Memory handed
// out by an Arena is valid until the next Reset or Close; nothing tracks
// outstanding slices or pointers, and those do not keep the Arena alive.
//
// Close is the only way to release the reservation. An Arena that is collected
// without Close leaks its address space; the leak is logged and reported to the
// metrics collector.
type Arena struct {
	res  *reservation
	base unsafe.Pointer

	// Offsets from base. 0 <= bump <= committed <= len(res.region).
	bump      int
	committed int

	pageSize    int
	granularity int
	generation  uint32
	closed      bool

	allocs  uint64
	padding int
	commits uint64
	resets  uint64

	logger  *Logger
	metrics MetricsCollector
	cleanup runtime.Cleanup
}

// reservation owns the address range and its budget charge.
type reservation struct {
	platform vm.Platform
	region   []byte
	budget   MemoryAcquirer
	charged  int64
}

func (r *reservation) release() error {
	if r.region == nil {
		return nil
	}
	err := r.platform.Release(r.region)
	r.region = nil
	r.refund(r.charged)
	return err
}

func (r *reservation) charge(bytes int) error {
	if r.budget == nil {
		return nil
	}
	if err := r.budget.AcquireMemory(int64(bytes)); err != nil {
		return err
	}
	r.charged += int64(bytes)
	return nil
}

func (r *reservation) refund(bytes int64) {
	if r.budget == nil || bytes <= 0 {
		return
	}
	r.budget.ReleaseMemory(bytes)
	r.charged -= bytes
}

// New reserves capacity bytes of address space, rounded up to a whole number of
// OS pages. No physical memory is committed until the first allocation.
//
// Capacity is a hard ceiling on the live bytes between resets; the arena never
// grows.
func New(capacity int, optFns ...Option) (*Arena, error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidCapacity, capacity)
	}

	opts := defaultOptions()
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.platform == nil {
		opts.platform = vm.Default()
	}

	pageSize := opts.platform.PageSize()
	if capacity > maxCapacity(pageSize) {
		return nil, fmt.Errorf("%w: %d overflows when rounded to %d-byte pages", ErrInvalidCapacity, capacity, pageSize)
	}
	size := mem.CeilAlign(capacity, pageSize)

	region, err := opts.platform.Reserve(size)
	opts.logger.LogReserve(size, err)
	opts.metricsCollector.RecordReserve(size, err)
	if err != nil {
		return nil, fmt.Errorf("vmarena: reserve %d bytes: %w", size, err)
	}

	res := &reservation{
		platform: opts.platform,
		region:   region,
		budget:   opts.budget,
	}
	base := unsafe.Pointer(unsafe.SliceData(region)) //nolint:gosec // arena base address

	// Both factors are powers of two, so a product that fits is one as well.
	granularity, err := conv.MulInt(opts.pagesPerCommit, pageSize)
	if err != nil {
		granularity = mem.MaxPowerOfTwo
	}

	a := &Arena{
		res:         res,
		base:        base,
		pageSize:    pageSize,
		granularity: granularity,
		generation:  1,
		logger:      opts.logger.WithArena(uintptr(base), size),
		metrics:     opts.metricsCollector,
	}
	a.cleanup = runtime.AddCleanup(a, reportLeak, leak{
		size:    size,
		logger:  a.logger,
		metrics: a.metrics,
	})

	return a, nil
}

// leak is what the cleanup of an unclosed Arena knows about it. It must not
// reference the Arena itself.
type leak struct {
	size    int
	logger  *Logger
	metrics MetricsCollector
}

// reportLeak runs when an Arena is collected without Close. The reservation is
// not released: memory handed out by the arena may still be referenced.
func reportLeak(l leak) {
	l.logger.LogLeak(l.size)
	l.metrics.RecordLeak(l.size)
}

func maxCapacity(pageSize int) int {
	return int(^uint(0)>>1) - pageSize + 1
}

// Alloc allocates size bytes aligned to align and returns the start address.
//
// align must be a power of two. The memory is not zeroed when it is reused
// within one commit cycle; fresh pages read as zero.
//
// If the allocation does not fit in the reservation, Alloc returns a
// *CapacityError and the arena is unchanged. OS commit failures are returned
// as-is and are not recoverable.
func (a *Arena) Alloc(size, align int) (unsafe.Pointer, error) {
	off, err := a.alloc(size, align)
	if err != nil {
		return nil, err
	}
	return unsafe.Add(a.base, off), nil
}

// AllocBytes allocates a byte slice of the given size with len == cap == size.
// A zero size returns an empty, non-nil slice.
func (a *Arena) AllocBytes(size int) ([]byte, error) {
	off, err := a.alloc(size, 1)
	if err != nil {
		return nil, err
	}
	return unsafe.Slice((*byte)(unsafe.Add(a.base, off)), size), nil
}

// alloc is the only place that advances the bump offset.
func (a *Arena) alloc(size, align int) (int, error) {
	if a.closed {
		return 0, ErrClosed
	}
	if size < 0 {
		return 0, fmt.Errorf("%w: %d", ErrInvalidSize, size)
	}
	if !mem.IsPowerOfTwo(align) {
		return 0, fmt.Errorf("%w: %d", ErrInvalidAlignment, align)
	}

	end := len(a.res.region)
	available := end - a.bump
	pad := mem.PaddingAddr(uintptr(a.base)+uintptr(a.bump), align) //nolint:gosec // bump is bounded by the reservation

	if pad > available || size > available-pad {
		return 0, &CapacityError{
			Requested: pad + size,
			Available: available,
			Capacity:  end,
		}
	}

	start := a.bump + pad
	next := start + size

	if next > a.committed {
		if err := a.commit(next); err != nil {
			return 0, err
		}
	}

	a.bump = next
	a.allocs++
	a.padding += pad
	a.metrics.RecordAlloc(size, pad)

	return start, nil
}

// commit moves the committed boundary to cover next, rounded up to the commit
// granularity and clamped to the reservation.
func (a *Arena) commit(next int) error {
	from := a.committed
	end := len(a.res.region)
	to := end
	if pad := mem.Padding(next, a.granularity); pad < end-next {
		to = next + pad
	}
	delta := to - from

	if err := a.res.charge(delta); err != nil {
		err = fmt.Errorf("vmarena: commit %d bytes: %w", delta, err)
		a.logger.LogCommit(from, to, err)
		return err
	}

	if err := a.res.platform.Commit(a.res.region[from:to]); err != nil {
		a.res.refund(int64(delta))
		a.logger.LogCommit(from, to, err)
		a.metrics.RecordCommit(delta, err)
		return fmt.Errorf("vmarena: commit %d bytes: %w", delta, err)
	}

	a.committed = to
	a.commits++
	a.logger.LogCommit(from, to, nil)
	a.metrics.RecordCommit(delta, nil)

	return nil
}

// Reset discards every allocation, returns all committed pages to the OS and
// rewinds the arena to its base address. The reservation is kept.
//
// All memory obtained before Reset must no longer be used. Refs from before the
// reset report ErrStaleRef.
//
// If the OS fails to uncommit, the arena is still rewound and usable and the
// error is returned.
func (a *Arena) Reset() error {
	if a.closed {
		return ErrClosed
	}

	live := a.bump
	uncommitted := a.committed

	var err error
	if uncommitted > 0 {
		err = a.res.platform.Uncommit(a.res.region[:uncommitted])
		a.metrics.RecordUncommit(uncommitted, err)
		a.res.refund(int64(uncommitted))
	}

	a.bump = 0
	a.committed = 0
	a.padding = 0
	a.nextGeneration()
	a.resets++

	a.logger.LogReset(live, uncommitted, a.generation, err)
	a.metrics.RecordReset(live)

	if err != nil {
		return fmt.Errorf("vmarena: reset: %w", err)
	}
	return nil
}

// Close releases the whole reservation in one call, whatever is committed.
// Close is idempotent.
//
// A failed release is logged and returned once; the arena is closed anyway
// and the reservation is leaked rather than released again later.
func (a *Arena) Close() error {
	if a.closed {
		return nil
	}
	a.closed = true
	a.nextGeneration()
	a.cleanup.Stop()

	size := len(a.res.region)
	committed := a.committed

	err := a.res.release()
	a.logger.LogRelease(size, err)
	a.metrics.RecordRelease(size, committed, err)

	a.base = nil
	a.bump = 0
	a.committed = 0

	if err != nil {
		return fmt.Errorf("vmarena: release %d bytes: %w", size, err)
	}
	return nil
}

// nextGeneration skips 0 on wrap-around; the zero Ref has generation 0.
func (a *Arena) nextGeneration() {
	a.generation++
	if a.generation == 0 {
		a.generation = 1
	}
}

// Cap returns the reserved capacity in bytes.
func (a *Arena) Cap() int {
	if a.closed {
		return 0
	}
	return len(a.res.region)
}

// Len returns the number of bytes between the base and the bump offset,
// alignment padding included.
func (a *Arena) Len() int {
	return a.bump
}

// Available returns the number of bytes left before the end of the reservation.
func (a *Arena) Available() int {
	return a.Cap() - a.bump
}

// Committed returns the number of committed bytes from the base.
func (a *Arena) Committed() int {
	return a.committed
}

// PageSize returns the OS page size used by the arena.
func (a *Arena) PageSize() int {
	return a.pageSize
}

// CommitGranularity returns the number of bytes committed per batch.
func (a *Arena) CommitGranularity() int {
	return a.granularity
}

// Generation returns the current generation. It starts at 1 and increases on
// every Reset and on Close.
func (a *Arena) Generation() uint32 {
	return a.generation
}

// Closed reports whether Close has been called.
func (a *Arena) Closed() bool {
	return a.closed
}

// Base returns the address of the first reserved byte, or nil after Close.
func (a *Arena) Base() unsafe.Pointer {
	return a.base
}
