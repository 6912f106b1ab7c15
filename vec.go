package vmarena

import (
	"fmt"
	"iter"
	"unsafe"

	"github.com/hupe1980/vmarena/internal/conv"
)

// Vec is an append-only sequence of T stored contiguously in an Arena it owns.
//
// Vec stores no length: elements are the only allocations in the arena and Go
// sizes are multiples of their alignment, so the length is the bump offset
// divided by the element size. Element addresses never move; they stay valid
// until Clear or Close.
//
// A Vec is not safe for concurrent use.
type Vec[T any] struct {
	arena     *Arena
	elemSize  int
	elemAlign int
}

// NewVec creates a Vec backed by a new arena of capacity bytes.
func NewVec[T any](capacity int, opts ...Option) (*Vec[T], error) {
	var zero T
	if unsafe.Sizeof(zero) == 0 {
		return nil, fmt.Errorf("%w: %T", ErrZeroSizeElement, zero)
	}
	if err := checkPointerFree[T](); err != nil {
		return nil, err
	}

	a, err := New(capacity, opts...)
	if err != nil {
		return nil, err
	}

	return &Vec[T]{
		arena:     a,
		elemSize:  int(unsafe.Sizeof(zero)),
		elemAlign: int(unsafe.Alignof(zero)),
	}, nil
}

// Append adds x at the end of the sequence.
// When the arena is full it returns a *CapacityError and the Vec is unchanged.
func (v *Vec[T]) Append(x T) error {
	p, err := v.arena.Alloc(v.elemSize, v.elemAlign)
	if err != nil {
		return err
	}
	*(*T)(p) = x
	return nil
}

// AppendSlice adds all of xs, or none of them if they do not fit.
func (v *Vec[T]) AppendSlice(xs ...T) error {
	if len(xs) == 0 {
		return nil
	}

	size, err := conv.MulInt(len(xs), v.elemSize)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidSize, err)
	}

	p, err := v.arena.Alloc(size, v.elemAlign)
	if err != nil {
		return err
	}
	copy(unsafe.Slice((*T)(p), len(xs)), xs)
	return nil
}

// Len returns the number of elements.
func (v *Vec[T]) Len() int {
	return v.arena.Len() / v.elemSize
}

// IsEmpty reports whether the Vec has no elements.
func (v *Vec[T]) IsEmpty() bool {
	return v.Len() == 0
}

// Cap returns the maximum number of elements the arena can hold.
func (v *Vec[T]) Cap() int {
	return v.arena.Cap() / v.elemSize
}

// Get returns a pointer to element i, or false if i is out of range.
// The pointer may be used to modify the element in place.
func (v *Vec[T]) Get(i int) (*T, bool) {
	if i < 0 || i >= v.Len() {
		return nil, false
	}
	return v.ptr(i), true
}

// At returns a pointer to element i. It panics if i is out of range.
func (v *Vec[T]) At(i int) *T {
	if n := v.Len(); i < 0 || i >= n {
		panic(fmt.Sprintf("vmarena: index out of range [%d] with length %d", i, n))
	}
	return v.ptr(i)
}

func (v *Vec[T]) ptr(i int) *T {
	return (*T)(unsafe.Add(v.arena.base, i*v.elemSize))
}

// Slice returns the elements as a slice that aliases arena memory.
// Writes through the slice modify the Vec. The slice is valid until the next
// Clear or Close, and its length does not follow later appends.
func (v *Vec[T]) Slice() []T {
	n := v.Len()
	if n == 0 {
		return nil
	}
	return unsafe.Slice((*T)(v.arena.base), n)
}

// All returns an iterator over index/value pairs. Values are copies; use
// Pointers or Slice to modify elements.
func (v *Vec[T]) All() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		for i := 0; i < v.Len(); i++ {
			if !yield(i, *v.ptr(i)) {
				return
			}
		}
	}
}

// Pointers returns an iterator over index/pointer pairs for in-place updates.
func (v *Vec[T]) Pointers() iter.Seq2[int, *T] {
	return func(yield func(int, *T) bool) {
		for i := 0; i < v.Len(); i++ {
			if !yield(i, v.ptr(i)) {
				return
			}
		}
	}
}

// Values returns an iterator over the elements.
func (v *Vec[T]) Values() iter.Seq[T] {
	return func(yield func(T) bool) {
		for i := 0; i < v.Len(); i++ {
			if !yield(*v.ptr(i)) {
				return
			}
		}
	}
}

// Clear removes all elements by resetting the arena.
// Pointers and slices obtained before Clear must no longer be used.
func (v *Vec[T]) Clear() error {
	return v.arena.Reset()
}

// Close releases the arena. The Vec must not be used afterwards.
func (v *Vec[T]) Close() error {
	return v.arena.Close()
}

// Arena returns the arena backing the Vec for inspection (Stats, Committed...).
// Allocating from it directly breaks the Vec's length.
func (v *Vec[T]) Arena() *Arena {
	return v.arena
}

func (v *Vec[T]) String() string {
	return fmt.Sprint(v.Slice())
}
