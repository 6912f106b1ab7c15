package vm

import (
	"errors"
	"fmt"
	"sync"

	"github.com/hupe1980/vmarena/internal/mem"
)

// ErrNotReserved is returned by Heap.Release for a region it does not own.
var ErrNotReserved = errors.New("vm: region not reserved")

// Heap is a Platform backed by the Go heap.
//
// Reserve allocates the full size up front, so nothing is saved compared to a
// real reservation. Commit and Uncommit only track page state: Uncommit zeroes
// the range the way an OS returns fresh pages. Heap validates every range
// against its live reservations and counts calls, which makes it the platform
// of choice for tests.
type Heap struct {
	pageSize int

	mu        sync.Mutex
	regions   map[uintptr]*heapRegion
	committed int
	calls     map[Op]int
	inject    map[Op]error
}

type heapRegion struct {
	data  []byte
	pages []bool
}

// NewHeap creates a Heap platform with the given page size.
// pageSize must be a power of two.
func NewHeap(pageSize int) *Heap {
	if !mem.IsPowerOfTwo(pageSize) {
		panic(fmt.Sprintf("vm: page size %d is not a power of two", pageSize))
	}
	return &Heap{
		pageSize: pageSize,
		regions:  make(map[uintptr]*heapRegion),
		calls:    make(map[Op]int),
		inject:   make(map[Op]error),
	}
}

// PageSize implements Platform.
func (h *Heap) PageSize() int { return h.pageSize }

// Reserve implements Platform.
func (h *Heap) Reserve(size int) ([]byte, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.calls[OpReserve]++
	if err := h.injected(OpReserve, size); err != nil {
		return nil, err
	}
	if err := checkSize(size, h.pageSize); err != nil {
		return nil, err
	}

	data := mem.AllocAligned(size, h.pageSize)
	h.regions[addrOf(data)] = &heapRegion{
		data:  data,
		pages: make([]bool, size/h.pageSize),
	}
	return data, nil
}

// Commit implements Platform.
func (h *Heap) Commit(b []byte) error {
	if len(b) == 0 {
		return nil
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	h.calls[OpCommit]++
	if err := h.injected(OpCommit, len(b)); err != nil {
		return err
	}
	r, first, err := h.lookup(b)
	if err != nil {
		return err
	}

	for i := first; i < first+len(b)/h.pageSize; i++ {
		if !r.pages[i] {
			r.pages[i] = true
			h.committed += h.pageSize
		}
	}
	return nil
}

// Uncommit implements Platform.
func (h *Heap) Uncommit(b []byte) error {
	if len(b) == 0 {
		return nil
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	h.calls[OpUncommit]++
	if err := h.injected(OpUncommit, len(b)); err != nil {
		return err
	}
	r, first, err := h.lookup(b)
	if err != nil {
		return err
	}

	for i := first; i < first+len(b)/h.pageSize; i++ {
		if r.pages[i] {
			r.pages[i] = false
			h.committed -= h.pageSize
		}
	}
	clear(b)
	return nil
}

// Release implements Platform.
func (h *Heap) Release(region []byte) error {
	if len(region) == 0 {
		return nil
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	h.calls[OpRelease]++
	if err := h.injected(OpRelease, len(region)); err != nil {
		return err
	}
	base := addrOf(region)
	r, ok := h.regions[base]
	if !ok || len(r.data) != len(region) {
		return &Error{Op: OpRelease, Size: len(region), Err: ErrNotReserved}
	}

	for _, c := range r.pages {
		if c {
			h.committed -= h.pageSize
		}
	}
	delete(h.regions, base)
	return nil
}

// Committed returns the number of committed bytes across all live reservations.
func (h *Heap) Committed() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.committed
}

// Reserved returns the number of reserved bytes across all live reservations.
func (h *Heap) Reserved() int {
	h.mu.Lock()
	defer h.mu.Unlock()

	n := 0
	for _, r := range h.regions {
		n += len(r.data)
	}
	return n
}

// IsCommitted reports whether every page backing b is committed.
func (h *Heap) IsCommitted(b []byte) bool {
	if len(b) == 0 {
		return true
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	r, off := h.find(b)
	if r == nil {
		return false
	}
	for i := off / h.pageSize; i <= (off+len(b)-1)/h.pageSize; i++ {
		if !r.pages[i] {
			return false
		}
	}
	return true
}

// Calls returns how many times op was invoked, including failed calls.
func (h *Heap) Calls(op Op) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.calls[op]
}

// FailNext makes the next call of op fail with err wrapped in an *Error.
func (h *Heap) FailNext(op Op, err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.inject[op] = err
}

func (h *Heap) injected(op Op, size int) error {
	err, ok := h.inject[op]
	if !ok {
		return nil
	}
	delete(h.inject, op)
	return &Error{Op: op, Size: size, Err: err}
}

// lookup validates a page-aligned range and returns its region and first page index.
func (h *Heap) lookup(b []byte) (*heapRegion, int, error) {
	if err := checkRange(addrOf(b), len(b), h.pageSize); err != nil {
		return nil, 0, err
	}
	r, off := h.find(b)
	if r == nil {
		return nil, 0, fmt.Errorf("%w: %d bytes at %#x", ErrOutOfBounds, len(b), addrOf(b))
	}
	return r, off / h.pageSize, nil
}

// find returns the reservation containing b and the byte offset of b within it.
func (h *Heap) find(b []byte) (*heapRegion, int) {
	addr := addrOf(b)
	for base, r := range h.regions {
		if addr >= base && addr+uintptr(len(b)) <= base+uintptr(len(r.data)) {
			return r, int(addr - base) //nolint:gosec // bounded by region size
		}
	}
	return nil, 0
}
