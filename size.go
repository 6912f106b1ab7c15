package vmarena

import (
	"fmt"

	"github.com/dustin/go-humanize"

	"github.com/hupe1980/vmarena/internal/conv"
	"github.com/hupe1980/vmarena/internal/mem"
)

// Binary size units for arena capacities.
const (
	KiB = 1 << 10
	MiB = 1 << 20
	GiB = 1 << 30
	TiB = 1 << 40
)

// ParseSize parses a human-readable size such as "64MiB", "1 GiB" or "4096".
// Decimal units ("MB") are powers of 1000, binary units ("MiB") powers of 1024.
func ParseSize(s string) (int, error) {
	n, err := humanize.ParseBytes(s)
	if err != nil {
		return 0, fmt.Errorf("vmarena: parse size %q: %w", s, err)
	}
	v, err := conv.Uint64ToInt(n)
	if err != nil {
		return 0, fmt.Errorf("vmarena: parse size %q: %w", s, err)
	}
	return v, nil
}

// FormatSize renders a byte count with binary units, e.g. "64 KiB".
func FormatSize(n int) string {
	if n < 0 {
		return "-" + humanize.IBytes(uint64(-(n+1))+1)
	}
	return humanize.IBytes(uint64(n))
}

// CeilAlign rounds v up to the next multiple of align.
// align must be a power of two; CeilAlign panics otherwise.
func CeilAlign(v, align int) int {
	return mem.CeilAlign(v, align)
}
