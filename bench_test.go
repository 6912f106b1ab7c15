package vmarena

import (
	"testing"
)

func BenchmarkArena_Alloc(b *testing.B) {
	a, err := New(GiB)
	if err != nil {
		b.Fatal(err)
	}
	defer a.Close()

	b.ReportAllocs()
	for b.Loop() {
		if _, err := a.Alloc(64, 8); err != nil {
			if err := a.Reset(); err != nil {
				b.Fatal(err)
			}
		}
	}
}

func BenchmarkAlloc_Struct(b *testing.B) {
	a, err := New(GiB)
	if err != nil {
		b.Fatal(err)
	}
	defer a.Close()

	b.ReportAllocs()
	for b.Loop() {
		if _, err := Alloc(a, point{X: 1, Y: 2}); err != nil {
			if err := a.Reset(); err != nil {
				b.Fatal(err)
			}
		}
	}
}

func BenchmarkVec_Append(b *testing.B) {
	v, err := NewVec[uint64](GiB)
	if err != nil {
		b.Fatal(err)
	}
	defer v.Close()

	b.ReportAllocs()
	for b.Loop() {
		if err := v.Append(42); err != nil {
			if err := v.Clear(); err != nil {
				b.Fatal(err)
			}
		}
	}
}

func BenchmarkArena_Reset(b *testing.B) {
	a, err := New(64 * MiB)
	if err != nil {
		b.Fatal(err)
	}
	defer a.Close()

	b.ReportAllocs()
	for b.Loop() {
		if _, err := a.AllocBytes(MiB); err != nil {
			b.Fatal(err)
		}
		if err := a.Reset(); err != nil {
			b.Fatal(err)
		}
	}
}
