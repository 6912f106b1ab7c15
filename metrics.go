package vmarena

import (
	"sync/atomic"
)

// MetricsCollector defines an interface for collecting arena metrics.
// Implement this interface to integrate with monitoring systems; the metrics
// package provides a Prometheus implementation.
//
// Collectors may be shared between arenas owned by different goroutines and
// must be safe for concurrent use.
type MetricsCollector interface {
	// RecordReserve is called after an arena reserves its address space.
	RecordReserve(bytes int, err error)

	// RecordCommit is called after the committed boundary is moved.
	// bytes is the size of the newly committed range.
	RecordCommit(bytes int, err error)

	// RecordUncommit is called after a reset returns pages to the OS.
	RecordUncommit(bytes int, err error)

	// RecordRelease is called after an arena releases its reservation.
	// committed is the number of bytes that were still committed.
	RecordRelease(reserved, committed int, err error)

	// RecordAlloc is called after each successful allocation.
	// padding is the number of bytes skipped for alignment.
	RecordAlloc(bytes, padding int)

	// RecordReset is called after each reset with the live bytes it discarded.
	RecordReset(live int)

	// RecordLeak is called when an arena is garbage collected without Close.
	// The reservation stays mapped, so reserved and committed totals are unchanged.
	// It runs on a runtime cleanup goroutine.
	RecordLeak(reserved int)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordReserve(int, error)      {}
func (NoopMetricsCollector) RecordCommit(int, error)       {}
func (NoopMetricsCollector) RecordUncommit(int, error)     {}
func (NoopMetricsCollector) RecordRelease(int, int, error) {}
func (NoopMetricsCollector) RecordAlloc(int, int)          {}
func (NoopMetricsCollector) RecordReset(int)               {}
func (NoopMetricsCollector) RecordLeak(int)                {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	ReserveCount   atomic.Int64
	ReservedBytes  atomic.Int64
	CommitCount    atomic.Int64
	CommittedBytes atomic.Int64
	UncommitCount  atomic.Int64
	ReleaseCount   atomic.Int64
	OSErrors       atomic.Int64
	AllocCount     atomic.Int64
	AllocBytes     atomic.Int64
	PaddingBytes   atomic.Int64
	ResetCount     atomic.Int64
	DiscardedBytes atomic.Int64
	LeakCount      atomic.Int64
	LeakedBytes    atomic.Int64
}

// RecordReserve implements MetricsCollector.
func (b *BasicMetricsCollector) RecordReserve(bytes int, err error) {
	if err != nil {
		b.OSErrors.Add(1)
		return
	}
	b.ReserveCount.Add(1)
	b.ReservedBytes.Add(int64(bytes))
}

// RecordCommit implements MetricsCollector.
func (b *BasicMetricsCollector) RecordCommit(bytes int, err error) {
	if err != nil {
		b.OSErrors.Add(1)
		return
	}
	b.CommitCount.Add(1)
	b.CommittedBytes.Add(int64(bytes))
}

// RecordUncommit implements MetricsCollector.
func (b *BasicMetricsCollector) RecordUncommit(bytes int, err error) {
	if err != nil {
		b.OSErrors.Add(1)
	}
	b.UncommitCount.Add(1)
	b.CommittedBytes.Add(-int64(bytes))
}

// RecordRelease implements MetricsCollector.
func (b *BasicMetricsCollector) RecordRelease(reserved, committed int, err error) {
	if err != nil {
		b.OSErrors.Add(1)
	}
	b.ReleaseCount.Add(1)
	b.ReservedBytes.Add(-int64(reserved))
	b.CommittedBytes.Add(-int64(committed))
}

// RecordAlloc implements MetricsCollector.
func (b *BasicMetricsCollector) RecordAlloc(bytes, padding int) {
	b.AllocCount.Add(1)
	b.AllocBytes.Add(int64(bytes))
	b.PaddingBytes.Add(int64(padding))
}

// RecordReset implements MetricsCollector.
func (b *BasicMetricsCollector) RecordReset(live int) {
	b.ResetCount.Add(1)
	b.DiscardedBytes.Add(int64(live))
}

// RecordLeak implements MetricsCollector.
func (b *BasicMetricsCollector) RecordLeak(reserved int) {
	b.LeakCount.Add(1)
	b.LeakedBytes.Add(int64(reserved))
}
