//go:build linux || darwin || freebsd || netbsd || openbsd || dragonfly

package vm

import (
	"errors"
	"unsafe"

	"golang.org/x/sys/unix"
)

type osPlatform struct {
	pageSize int
}

// Default returns the platform for the running OS.
func Default() Platform {
	return osPlatform{pageSize: unix.Getpagesize()}
}

func (p osPlatform) PageSize() int { return p.pageSize }

func (p osPlatform) Reserve(size int) ([]byte, error) {
	if err := checkSize(size, p.pageSize); err != nil {
		return nil, err
	}

	data, err := unix.Mmap(-1, 0, size, unix.PROT_NONE, reserveFlags)
	if err != nil {
		return nil, &Error{Op: OpReserve, Size: size, Err: err}
	}
	return data, nil
}

func (p osPlatform) Commit(b []byte) error {
	if len(b) == 0 {
		return nil
	}
	if err := checkRange(addrOf(b), len(b), p.pageSize); err != nil {
		return err
	}

	if err := unix.Mprotect(b, unix.PROT_READ|unix.PROT_WRITE); err != nil {
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

	// MADV_DONTNEED drops the physical pages; private anonymous pages read back as zero.
	if err := unix.Madvise(b, unix.MADV_DONTNEED); err != nil {
		return &Error{Op: OpUncommit, Size: len(b), Err: err}
	}
	if err := unix.Mprotect(b, unix.PROT_NONE); err != nil {
		return &Error{Op: OpUncommit, Size: len(b), Err: err}
	}
	return nil
}

func (p osPlatform) Release(region []byte) error {
	if len(region) == 0 {
		return nil
	}
	if err := unix.Munmap(region); err != nil {
		return &Error{Op: OpRelease, Size: len(region), Err: err}
	}
	return nil
}

func isOutOfMemory(err error) bool {
	return errors.Is(err, unix.ENOMEM)
}

func addrOf(b []byte) uintptr {
	return uintptr(unsafe.Pointer(unsafe.SliceData(b))) //nolint:gosec // address arithmetic only
}
