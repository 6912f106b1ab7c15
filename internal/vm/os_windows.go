//go:build windows

package vm

import (
	"errors"
	"unsafe"

	"golang.org/x/sys/windows"
)

type osPlatform struct {
	pageSize int
}

// Default returns the platform for the running OS.
func Default() Platform {
	return osPlatform{pageSize: windows.Getpagesize()}
}

func (p osPlatform) PageSize() int { return p.pageSize }

func (p osPlatform) Reserve(size int) ([]byte, error) {
	if err := checkSize(size, p.pageSize); err != nil {
		return nil, err
	}

	addr, err := windows.VirtualAlloc(0, uintptr(size), windows.MEM_RESERVE, windows.PAGE_NOACCESS)
	if err != nil {
		return nil, &Error{Op: OpReserve, Size: size, Err: err}
	}

	return unsafe.Slice((*byte)(unsafe.Pointer(addr)), size), nil //nolint:gosec // VirtualAlloc returns an OS address
}

func (p osPlatform) Commit(b []byte) error {
	if len(b) == 0 {
		return nil
	}
	if err := checkRange(addrOf(b), len(b), p.pageSize); err != nil {
		return err
	}

	if _, err := windows.VirtualAlloc(addrOf(b), uintptr(len(b)), windows.MEM_COMMIT, windows.PAGE_READWRITE); err != nil {
		return &Error{Op: OpCommit, Size: len(b), Err: err}
	}
	return nil
}

func (p osPlatform) Uncommit(b []byte) error {
	if len(b) == 0 {
		return nil
	}
	if err := checkRange(addrOf(b), len(b), p.pageSize); err != nil {
		return err
	}

	if err := windows.VirtualFree(addrOf(b), uintptr(len(b)), windows.MEM_DECOMMIT); err != nil {
		return &Error{Op: OpUncommit, Size: len(b), Err: err}
	}
	return nil
}

func (p osPlatform) Release(region []byte) error {
	if len(region) == 0 {
		return nil
	}
	// MEM_RELEASE requires a zero size and frees the entire reservation.
	if err := windows.VirtualFree(addrOf(region), 0, windows.MEM_RELEASE); err != nil {
		return &Error{Op: OpRelease, Size: len(region), Err: err}
	}
	return nil
}

func isOutOfMemory(err error) bool {
	return errors.Is(err, windows.ERROR_NOT_ENOUGH_MEMORY) || errors.Is(err, windows.ERROR_OUTOFMEMORY)
}

func addrOf(b []byte) uintptr {
	return uintptr(unsafe.Pointer(unsafe.SliceData(b))) //nolint:gosec // address arithmetic only
}
