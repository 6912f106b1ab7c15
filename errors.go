package vmarena

import (
	"errors"
	"fmt"

	"github.com/hupe1980/vmarena/internal/resource"
	"github.com/hupe1980/vmarena/internal/vm"
)

var (
	// ErrCapacityExceeded is matched by *CapacityError.
	ErrCapacityExceeded = errors.New("vmarena: capacity exceeded")
	// ErrInvalidCapacity is returned by New for a non-positive capacity.
	ErrInvalidCapacity = errors.New("vmarena: invalid capacity")
	// ErrInvalidAlignment is returned for alignments that are not a power of two.
	ErrInvalidAlignment = errors.New("vmarena: alignment must be a power of two")
	// ErrInvalidSize is returned for negative or overflowing allocation sizes.
	ErrInvalidSize = errors.New("vmarena: invalid size")
	// ErrClosed is returned by operations on a closed arena.
	ErrClosed = errors.New("vmarena: arena is closed")
	// ErrStaleRef is returned when a Ref outlived a Reset or Close of its arena.
	ErrStaleRef = errors.New("vmarena: stale reference")
	// ErrPointerType is returned for element types that contain Go pointers.
	// Arena memory is not scanned by the garbage collector.
	ErrPointerType = errors.New("vmarena: type contains Go pointers")
	// ErrZeroSizeElement is returned by NewVec for zero-size element types.
	ErrZeroSizeElement = errors.New("vmarena: zero-size element type")

	// ErrMemoryLimitExceeded is returned when a commit would exceed the memory budget.
	ErrMemoryLimitExceeded = resource.ErrMemoryLimitExceeded
	// ErrOutOfMemory matches OS failures to reserve or commit memory.
	// These are not recoverable: retrying the same arena operation does not help.
	ErrOutOfMemory = vm.ErrOutOfMemory
)

// CapacityError indicates that an allocation does not fit in the arena's reservation.
// The arena is left unchanged.
type CapacityError struct {
	Requested int // bytes requested, including alignment padding
	Available int // bytes left before the end of the reservation
	Capacity  int // total reserved bytes
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("vmarena: capacity exceeded: requested %d bytes, %d of %d available",
		e.Requested, e.Available, e.Capacity)
}

func (e *CapacityError) Unwrap() error { return ErrCapacityExceeded }
