// Package vm wraps the operating system's virtual-memory API.
//
// # Overview
//
// A Platform exposes four operations and one query:
//
//   - Reserve claims address space with no access and no physical backing
//   - Commit makes reserved pages readable and writable
//   - Uncommit returns physical pages to the OS but keeps the reservation
//   - Release gives the whole reservation back in one call
//   - PageSize reports the native page granularity
//
// Sizes are in bytes and must be positive multiples of PageSize. Commit and
// Uncommit take sub-slices of a region returned by Reserve; Release takes the
// region itself.
//
// # Usage
//
//	p := vm.Default()
//	region, err := p.Reserve(1 << 30) // 1GB of address space, no memory charged
//	if err != nil { ... }
//	defer p.Release(region)
//
//	if err := p.Commit(region[:64*1024]); err != nil { ... }
//	region[0] = 42
//
// # Platform Support
//
// The implementation is selected at build time:
//
//   - Unix (Linux, macOS, BSD): mmap(2) with PROT_NONE, mprotect(2), madvise(2), munmap(2)
//   - Windows: VirtualAlloc / VirtualFree with MEM_RESERVE, MEM_COMMIT, MEM_DECOMMIT, MEM_RELEASE
//   - Other targets: a Heap platform on the Go heap
//
// # Thread Safety
//
// The OS platforms hold no state. Calls on overlapping ranges must be
// serialized by the caller. Heap is safe for concurrent use.
package vm
