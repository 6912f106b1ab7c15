package mem

import (
	"math/bits"
	"unsafe"
)

// MaxPowerOfTwo is the largest power of two that fits in an int.
const MaxPowerOfTwo = 1 << (bits.UintSize - 2)

// IsPowerOfTwo reports whether v is a positive power of two.
func IsPowerOfTwo(v int) bool {
	return v > 0 && v&(v-1) == 0
}

// CeilAlign rounds v up to the next multiple of align.
// It computes v + (-v mod align) with a mask.
// align must be a power of two; CeilAlign panics otherwise.
func CeilAlign(v, align int) int {
	return v + Padding(v, align)
}

// Padding returns the number of bytes needed to move v up to the next multiple of align.
// align must be a power of two; Padding panics otherwise.
func Padding(v, align int) int {
	if !IsPowerOfTwo(align) {
		panic("mem: alignment must be a power of two")
	}
	return -v & (align - 1)
}

// PaddingAddr is Padding for a machine address.
func PaddingAddr(addr uintptr, align int) int {
	if !IsPowerOfTwo(align) {
		panic("mem: alignment must be a power of two")
	}
	return int(-addr & uintptr(align-1)) //nolint:gosec // result < align
}

// NextPowerOfTwo returns the smallest power of two that is >= v.
// Values <= 1 return 1; values above MaxPowerOfTwo saturate to MaxPowerOfTwo.
func NextPowerOfTwo(v int) int {
	if v <= 1 {
		return 1
	}
	if v > MaxPowerOfTwo {
		return MaxPowerOfTwo
	}
	return 1 << bits.Len(uint(v-1))
}

// AllocAligned allocates a byte slice of the given size whose first byte is
// aligned to align, which must be a power of two.
//
// Note: This function allocates align extra bytes to find an aligned offset.
// The underlying array is kept alive by the returned slice, and the slack after
// the returned range keeps one-past-the-end pointers inside the allocation.
func AllocAligned(size, align int) []byte {
	if size <= 0 {
		return nil
	}

	buf := make([]byte, size+align)

	addr := uintptr(unsafe.Pointer(&buf[0])) //nolint:gosec // unsafe is required for memory alignment
	offset := PaddingAddr(addr, align)

	return buf[offset : offset+size]
}
