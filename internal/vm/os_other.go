//go:build !(linux || darwin || freebsd || netbsd || openbsd || dragonfly || windows)

package vm

import (
	"os"
	"unsafe"
)

// Default returns a Heap platform; this target has no virtual-memory API.
func Default() Platform {
	return NewHeap(os.Getpagesize())
}

func isOutOfMemory(error) bool { return false }

func addrOf(b []byte) uintptr {
	return uintptr(unsafe.Pointer(unsafe.SliceData(b))) //nolint:gosec // address arithmetic only
}
