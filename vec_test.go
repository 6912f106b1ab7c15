package vmarena

import (
	"runtime"
	"slices"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/vmarena/internal/vm"
)

func newTestVec[T any](t *testing.T, capacity int, opts ...Option) *Vec[T] {
	t.Helper()

	v, err := NewVec[T](capacity, append([]Option{withPlatform(vm.NewHeap(testPageSize))}, opts...)...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = v.Close() })

	return v
}

func TestVec_AppendClearReuse(t *testing.T) {
	v := newTestVec[uint32](t, MiB)
	assert.True(t, v.IsEmpty())

	for i := range uint32(1000) {
		require.NoError(t, v.Append(i))
	}
	assert.Equal(t, 1000, v.Len())
	assert.False(t, v.IsEmpty())

	first := v.At(0)
	for i := range 1000 {
		assert.Equal(t, uint32(i), *v.At(i))
	}

	require.NoError(t, v.Clear())
	assert.Equal(t, 0, v.Len())
	assert.True(t, v.IsEmpty())

	for i := range uint32(5) {
		require.NoError(t, v.Append(i+100))
	}
	assert.Equal(t, 5, v.Len())
	assert.Equal(t, unsafe.Pointer(first), unsafe.Pointer(v.At(0)), "storage is reused from the base")
	assert.Equal(t, []uint32{100, 101, 102, 103, 104}, v.Slice())
}

func TestVec_Get(t *testing.T) {
	v := newTestVec[point](t, MiB)
	require.NoError(t, v.AppendSlice(point{1, 1}, point{2, 2}))

	p, ok := v.Get(1)
	require.True(t, ok)
	assert.Equal(t, point{2, 2}, *p)

	p.X = 20
	assert.Equal(t, int32(20), v.At(1).X, "Get returns a pointer into the Vec")

	_, ok = v.Get(2)
	assert.False(t, ok)
	_, ok = v.Get(-1)
	assert.False(t, ok)

	assert.PanicsWithValue(t, "vmarena: index out of range [2] with length 2", func() {
		v.At(2)
	})
	assert.PanicsWithValue(t, "vmarena: index out of range [-1] with length 2", func() {
		v.At(-1)
	})
}

func TestVec_AddressesAreStable(t *testing.T) {
	v := newTestVec[uint64](t, MiB)

	require.NoError(t, v.Append(42))
	p := v.At(0)

	// Crosses several commit batches.
	for i := range uint64(100_000) {
		require.NoError(t, v.Append(i))
	}

	assert.Same(t, p, v.At(0))
	assert.Equal(t, uint64(42), *p)
}

func TestVec_Iterators(t *testing.T) {
	v := newTestVec[int64](t, MiB)
	require.NoError(t, v.AppendSlice(10, 20, 30))

	var idx []int
	var vals []int64
	for i, x := range v.All() {
		idx = append(idx, i)
		vals = append(vals, x)
	}
	assert.Equal(t, []int{0, 1, 2}, idx)
	assert.Equal(t, []int64{10, 20, 30}, vals)

	assert.Equal(t, []int64{10, 20, 30}, slices.Collect(v.Values()))

	// Early break.
	var n int
	for range v.Values() {
		n++
		break
	}
	assert.Equal(t, 1, n)
}

func TestVec_Slice(t *testing.T) {
	v := newTestVec[float32](t, MiB)
	assert.Nil(t, v.Slice())

	require.NoError(t, v.AppendSlice(1, 2, 3))
	s := v.Slice()
	s[0] = 9
	assert.Equal(t, float32(9), *v.At(0))

	require.NoError(t, v.Append(4))
	assert.Len(t, s, 3)
	assert.Len(t, v.Slice(), 4)
}

func TestVec_Capacity(t *testing.T) {
	v := newTestVec[uint64](t, testPageSize)
	assert.Equal(t, testPageSize/8, v.Cap())

	require.NoError(t, v.AppendSlice(make([]uint64, v.Cap()-2)...))

	// All or nothing.
	err := v.AppendSlice(1, 2, 3)
	var capErr *CapacityError
	require.ErrorAs(t, err, &capErr)
	assert.Equal(t, 24, capErr.Requested)
	assert.Equal(t, 16, capErr.Available)
	assert.Equal(t, v.Cap()-2, v.Len())

	require.NoError(t, v.AppendSlice(1, 2))
	assert.ErrorIs(t, v.Append(3), ErrCapacityExceeded)
	assert.Equal(t, v.Cap(), v.Len())

	require.NoError(t, v.AppendSlice())
}

func TestVec_InvalidElement(t *testing.T) {
	_, err := NewVec[struct{}](MiB, withPlatform(vm.NewHeap(testPageSize)))
	assert.ErrorIs(t, err, ErrZeroSizeElement)

	_, err = NewVec[string](MiB, withPlatform(vm.NewHeap(testPageSize)))
	assert.ErrorIs(t, err, ErrPointerType)

	heap := vm.NewHeap(testPageSize)
	_, err = NewVec[int](0, withPlatform(heap))
	assert.ErrorIs(t, err, ErrInvalidCapacity)
	assert.Equal(t, 0, heap.Reserved())
}

func TestVec_Close(t *testing.T) {
	heap := vm.NewHeap(testPageSize)
	v, err := NewVec[int32](MiB, withPlatform(heap))
	require.NoError(t, err)
	require.NoError(t, v.Append(1))

	require.NoError(t, v.Close())
	assert.Equal(t, 0, heap.Reserved())
	assert.True(t, v.Arena().Closed())
	assert.ErrorIs(t, v.Append(2), ErrClosed)
	assert.Equal(t, 0, v.Len())
	assert.Equal(t, 0, v.Cap())
	assert.ErrorIs(t, v.Clear(), ErrClosed)
	require.NoError(t, v.Close())
}

func TestVec_String(t *testing.T) {
	v := newTestVec[int16](t, MiB)
	assert.Equal(t, "[]", v.String())

	require.NoError(t, v.AppendSlice(1, -2, 3))
	assert.Equal(t, "[1 -2 3]", v.String())
}

func TestVec_SliceOutlivesVec(t *testing.T) {
	s := sliceOfUnclosedVec(t)

	for range 5 {
		runtime.GC()
	}

	require.Len(t, s, 100)
	for i, x := range s {
		assert.Equal(t, uint32(i), x)
	}
}

// sliceOfUnclosedVec drops an OS-backed Vec without Close and keeps only its
// slice. The reservation is leaked on purpose.
//
//go:noinline
func sliceOfUnclosedVec(t *testing.T) []uint32 {
	t.Helper()

	v, err := NewVec[uint32](MiB)
	require.NoError(t, err)
	for i := range uint32(100) {
		require.NoError(t, v.Append(i))
	}
	return v.Slice()
}

func TestVec_Pointers(t *testing.T) {
	v := newTestVec[point](t, MiB)
	require.NoError(t, v.AppendSlice(point{1, 1}, point{2, 2}, point{3, 3}))

	for i, p := range v.Pointers() {
		assert.Same(t, v.At(i), p)
		p.Y *= 10
	}
	assert.Equal(t, []point{{1, 10}, {2, 20}, {3, 30}}, v.Slice())

	var n int
	for range v.Pointers() {
		n++
		break
	}
	assert.Equal(t, 1, n)
}
