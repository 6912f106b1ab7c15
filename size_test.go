package vmarena

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSize(t *testing.T) {
	cases := []struct {
		in   string
		want int
	}{
		{"4096", 4096},
		{"64KiB", 64 * KiB},
		{"64 MiB", 64 * MiB},
		{"1GiB", GiB},
		{"2 TiB", 2 * TiB},
		{"1 MB", 1_000_000},
		{"1.5 KiB", 1536},
	}

	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ParseSize(tc.in)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}

	t.Run("invalid", func(t *testing.T) {
		_, err := ParseSize("lots")
		assert.Error(t, err)
	})
}

func TestFormatSize(t *testing.T) {
	assert.Equal(t, "0 B", FormatSize(0))
	assert.Equal(t, "4.0 KiB", FormatSize(4*KiB))
	assert.Equal(t, "64 MiB", FormatSize(64*MiB))
	assert.Equal(t, "-1.0 KiB", FormatSize(-KiB))
}

func TestCeilAlign(t *testing.T) {
	assert.Equal(t, 0, CeilAlign(0, 8))
	assert.Equal(t, 8, CeilAlign(1, 8))
	assert.Equal(t, 4096, CeilAlign(4095, 4096))
	assert.Equal(t, 4096, CeilAlign(4096, 4096))
	assert.Panics(t, func() { CeilAlign(1, 3) })
}
