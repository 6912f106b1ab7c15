package mem

import (
	"fmt"
	"math"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
)

func TestIsPowerOfTwo(t *testing.T) {
	for _, v := range []int{1, 2, 4, 8, 4096, 1 << 40} {
		assert.True(t, IsPowerOfTwo(v), "v=%d", v)
	}
	for _, v := range []int{-8, -1, 0, 3, 6, 12, 4095} {
		assert.False(t, IsPowerOfTwo(v), "v=%d", v)
	}
}

func TestCeilAlign(t *testing.T) {
	t.Run("align 8", func(t *testing.T) {
		want := []int{0, 8, 8, 8, 8, 8, 8, 8, 8, 16}
		for v, w := range want {
			assert.Equal(t, w, CeilAlign(v, 8), "v=%d", v)
		}
	})

	t.Run("align 16", func(t *testing.T) {
		cases := map[int]int{0: 0, 1: 16, 5: 16, 15: 16, 16: 16, 17: 32, 19: 32}
		for v, w := range cases {
			assert.Equal(t, w, CeilAlign(v, 16), "v=%d", v)
		}
	})

	t.Run("properties", func(t *testing.T) {
		for _, a := range []int{1, 2, 4, 8, 64, 4096, 65536} {
			for v := 0; v < 3*a+7; v++ {
				got := CeilAlign(v, a)
				assert.GreaterOrEqual(t, got, v)
				assert.Zero(t, got%a)
				assert.Less(t, got-a, v)
			}
		}
	})

	t.Run("non power of two", func(t *testing.T) {
		assert.Panics(t, func() { CeilAlign(10, 3) })
		assert.Panics(t, func() { CeilAlign(10, 0) })
	})
}

func TestPaddingAddr(t *testing.T) {
	assert.Equal(t, 0, PaddingAddr(0x1000, 4096))
	assert.Equal(t, 7, PaddingAddr(0x1001, 8))
	assert.Equal(t, 0, PaddingAddr(0x1001, 1))
	assert.Panics(t, func() { PaddingAddr(0x1000, 24) })
}

func TestNextPowerOfTwo(t *testing.T) {
	cases := map[int]int{-3: 1, 0: 1, 1: 1, 2: 2, 3: 4, 16: 16, 17: 32}
	for v, w := range cases {
		assert.Equal(t, w, NextPowerOfTwo(v), "v=%d", v)
	}

	t.Run("saturates", func(t *testing.T) {
		assert.Equal(t, MaxPowerOfTwo, NextPowerOfTwo(MaxPowerOfTwo))
		assert.Equal(t, MaxPowerOfTwo, NextPowerOfTwo(MaxPowerOfTwo+1))
		assert.Equal(t, MaxPowerOfTwo, NextPowerOfTwo(math.MaxInt))
		assert.True(t, IsPowerOfTwo(MaxPowerOfTwo))
	})
}

func TestAllocAligned(t *testing.T) {
	sizes := []int{1, 10, 63, 64, 65, 100, 4096}

	for _, align := range []int{8, 64, 4096} {
		for _, size := range sizes {
			buf := AllocAligned(size, align)
			assert.Len(t, buf, size)

			addr := uintptr(unsafe.Pointer(&buf[0]))
			assert.Equal(t, uintptr(0), addr%uintptr(align), "Address %d should be aligned to %d for size %d", addr, align, size)
		}
	}

	assert.Nil(t, AllocAligned(0, 64))
	assert.Nil(t, AllocAligned(-1, 64))
}

func BenchmarkAllocAligned(b *testing.B) {
	sizes := []int{64, 256, 1024, 4096}
	for _, size := range sizes {
		b.Run(fmt.Sprintf("size=%d", size), func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				_ = AllocAligned(size, 64)
			}
		})
	}
}
