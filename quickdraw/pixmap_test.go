package quickdraw

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExpandIndexed1bpp(t *testing.T) {
	clut := &ColorTable{Entries: []ColorTableEntry{
		{Index: 0, Color: RGB(0, 0, 0)},
		{Index: 1, Color: RGB(255, 255, 255)},
	}}
	// 2x1 image: one byte, top bit (MSB) = pixel 0, next bit = pixel 1.
	pixelData := []byte{0b10000000}
	surface, err := ExpandIndexed(pixelData, 1, 2, 1, 1, clut, nil, 0)
	require.NoError(t, err)
	require.Equal(t, RGB(255, 255, 255), surface.At(0, 0))
	require.Equal(t, RGB(0, 0, 0), surface.At(1, 0))
}

func TestExpandIndexed4bpp(t *testing.T) {
	clut := &ColorTable{}
	for i := uint16(0); i < 16; i++ {
		clut.Entries = append(clut.Entries, ColorTableEntry{Index: i, Color: RGB(uint8(i), 0, 0)})
	}
	// one byte holds two 4-bit indices: high nibble=3, low nibble=7.
	pixelData := []byte{0x37}
	surface, err := ExpandIndexed(pixelData, 1, 2, 1, 4, clut, nil, 0)
	require.NoError(t, err)
	require.Equal(t, RGB(3, 0, 0), surface.At(0, 0))
	require.Equal(t, RGB(7, 0, 0), surface.At(1, 0))
}

func TestBuildPixelDataRoundTrip(t *testing.T) {
	indices := []uint16{3, 7, 1, 0}
	packed := BuildPixelData(indices, 4, 1, 4)
	require.Equal(t, 2, RowBytesFor(4, 4))

	clut := &ColorTable{}
	for i := uint16(0); i < 8; i++ {
		clut.Entries = append(clut.Entries, ColorTableEntry{Index: i, Color: RGB(uint8(i), 0, 0)})
	}
	surface, err := ExpandIndexed(packed, RowBytesFor(4, 4), 4, 1, 4, clut, nil, 0)
	require.NoError(t, err)
	for x, want := range indices {
		require.Equal(t, RGB(uint8(want), 0, 0), surface.At(x, 0))
	}
}

func TestExpandIndexedUnsupported(t *testing.T) {
	_, err := ExpandIndexed(nil, 1, 1, 1, 3, &ColorTable{}, nil, 0)
	require.ErrorIs(t, err, ErrUnsupportedPixelConfig)
}
