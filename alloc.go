package vmarena

import (
	"fmt"
	"reflect"
	"sync"
	"unsafe"

	"github.com/hupe1980/vmarena/internal/conv"
)

// Alloc copies v into the arena and returns a pointer to the copy.
//
// The pointer is valid until the next Reset or Close of a. T must not contain
// Go pointers (strings, slices, maps, interfaces, pointers...); such types are
// rejected with ErrPointerType because the garbage collector does not scan
// arena memory.
func Alloc[T any](a *Arena, v T) (*T, error) {
	if err := checkPointerFree[T](); err != nil {
		return nil, err
	}

	p, err := a.Alloc(int(unsafe.Sizeof(v)), int(unsafe.Alignof(v)))
	if err != nil {
		return nil, err
	}

	ptr := (*T)(p)
	*ptr = v
	return ptr, nil
}

// AllocSlice allocates a zeroed slice of n elements with len == cap == n.
// A zero n returns nil.
func AllocSlice[T any](a *Arena, n int) ([]T, error) {
	if a.closed {
		return nil, ErrClosed
	}
	if n < 0 {
		return nil, fmt.Errorf("%w: %d elements", ErrInvalidSize, n)
	}
	if err := checkPointerFree[T](); err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, nil
	}

	var zero T
	size, err := conv.MulInt(n, int(unsafe.Sizeof(zero)))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSize, err)
	}

	p, err := a.Alloc(size, int(unsafe.Alignof(zero)))
	if err != nil {
		return nil, err
	}

	s := unsafe.Slice((*T)(p), n)
	clear(s)
	return s, nil
}

// AllocSliceOf allocates a slice in the arena holding a copy of vs.
func AllocSliceOf[T any](a *Arena, vs ...T) ([]T, error) {
	s, err := AllocSlice[T](a, len(vs))
	if err != nil {
		return nil, err
	}
	copy(s, vs)
	return s, nil
}

// Ref is a generation-checked handle to a value in an Arena.
//
// Unlike a raw pointer, a Ref detects use after its arena was Reset or Closed:
// Get then returns ErrStaleRef instead of memory that now belongs to someone
// else. The zero Ref is never valid.
type Ref[T any] struct {
	arena *Arena
	gen   uint32
	off   int
}

// AllocRef copies v into the arena and returns a handle to it.
func AllocRef[T any](a *Arena, v T) (Ref[T], error) {
	if err := checkPointerFree[T](); err != nil {
		return Ref[T]{}, err
	}

	off, err := a.alloc(int(unsafe.Sizeof(v)), int(unsafe.Alignof(v)))
	if err != nil {
		return Ref[T]{}, err
	}

	*(*T)(unsafe.Add(a.base, off)) = v
	return Ref[T]{arena: a, gen: a.generation, off: off}, nil
}

// Get returns a pointer to the referenced value.
// The pointer itself is not checked again; re-resolve the Ref after a Reset.
func (r Ref[T]) Get() (*T, error) {
	if r.arena == nil {
		return nil, ErrStaleRef
	}
	if r.arena.closed {
		return nil, ErrClosed
	}
	if r.gen != r.arena.generation {
		return nil, fmt.Errorf("%w: generation %d, arena at %d", ErrStaleRef, r.gen, r.arena.generation)
	}
	return (*T)(unsafe.Add(r.arena.base, r.off)), nil
}

// Valid reports whether Get would succeed.
func (r Ref[T]) Valid() bool {
	return r.arena != nil && !r.arena.closed && r.gen == r.arena.generation
}

// Generation returns the arena generation the Ref was allocated in.
func (r Ref[T]) Generation() uint32 {
	return r.gen
}

var pointerFree sync.Map // reflect.Type -> bool

func checkPointerFree[T any]() error {
	t := reflect.TypeFor[T]()

	free, ok := pointerFree.Load(t)
	if !ok {
		free, _ = pointerFree.LoadOrStore(t, isPointerFree(t))
	}
	if !free.(bool) { //nolint:forcetypeassert // only bools are stored
		return fmt.Errorf("%w: %s", ErrPointerType, t)
	}
	return nil
}

func isPointerFree(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64, reflect.Complex64, reflect.Complex128:
		return true
	case reflect.Array:
		return t.Len() == 0 || isPointerFree(t.Elem())
	case reflect.Struct:
		for i := 0; i < t.NumField(); i++ {
			if !isPointerFree(t.Field(i).Type) {
				return false
			}
		}
		return true
	default:
		return false
	}
}
