package vm

import (
	"errors"
	"fmt"
)

// Platform is the virtual-memory capability set.
type Platform interface {
	// Reserve obtains size bytes of address space with no access rights.
	Reserve(size int) ([]byte, error)
	// Commit grants read/write access to b, which must lie in a reservation.
	// Committing already committed pages is harmless.
	Commit(b []byte) error
	// Uncommit revokes access to b and returns its physical pages to the OS.
	// The reservation stays intact and may be committed again.
	Uncommit(b []byte) error
	// Release returns a whole reservation, committed or not, to the OS.
	// region must be the exact slice returned by Reserve.
	Release(region []byte) error
	// PageSize returns the native page granularity in bytes.
	PageSize() int
}

// Op names a platform operation.
type Op string

const (
	OpReserve  Op = "reserve"
	OpCommit   Op = "commit"
	OpUncommit Op = "uncommit"
	OpRelease  Op = "release"
)

var (
	// ErrInvalidSize is returned for sizes that are not positive.
	ErrInvalidSize = errors.New("vm: invalid size")
	// ErrUnaligned is returned when an address or size is not a multiple of the page size.
	ErrUnaligned = errors.New("vm: not page aligned")
	// ErrOutOfBounds is returned when a range lies outside any live reservation.
	ErrOutOfBounds = errors.New("vm: range outside reservation")
	// ErrOutOfMemory matches OS failures caused by exhausted address space or memory.
	ErrOutOfMemory = errors.New("vm: out of memory")
)

// Error records a failed platform operation.
type Error struct {
	Op   Op
	Size int
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("vm: %s %d bytes: %v", e.Op, e.Size, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether the OS error means memory exhaustion.
func (e *Error) Is(target error) bool {
	return target == ErrOutOfMemory && isOutOfMemory(e.Err)
}

func checkSize(size, pageSize int) error {
	if size <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidSize, size)
	}
	if size%pageSize != 0 {
		return fmt.Errorf("%w: size %d, page size %d", ErrUnaligned, size, pageSize)
	}
	return nil
}

// checkRange validates a non-empty sub-slice passed to Commit or Uncommit.
func checkRange(addr uintptr, size, pageSize int) error {
	if addr%uintptr(pageSize) != 0 { //nolint:gosec // page size is positive
		return fmt.Errorf("%w: address %#x, page size %d", ErrUnaligned, addr, pageSize)
	}
	return checkSize(size, pageSize)
}
