// Package mem provides alignment arithmetic and aligned allocation utilities.
//
// # Alignment
//
// All alignments are powers of two. CeilAlign rounds a value up with a mask
// instead of a division, so it is only defined for power-of-two alignments:
//
//	mem.CeilAlign(13, 8)   // 16
//	mem.CeilAlign(4096, 4096) // 4096
//
// # Aligned Allocation
//
// AllocAligned returns heap memory whose first byte sits on a requested
// power-of-two boundary. It backs the heap platform used on targets without
// a virtual-memory API.
package mem
