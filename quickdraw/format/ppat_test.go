package format

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/TheDiamondProject/graphite/data"
	"github.com/TheDiamondProject/graphite/quickdraw"
)

// TestMonochromePatternRoundTrip checks that a plain (non-color) ppat
// carries only its 8-byte fallback pattern through encode/decode.
func TestMonochromePatternRoundTrip(t *testing.T) {
	cp := &ColorPattern{
		Type:       patternSimple,
		Monochrome: [8]byte{0xAA, 0x55, 0xAA, 0x55, 0xAA, 0x55, 0xAA, 0x55},
	}

	w := data.NewWriter(data.BigEndian, 0)
	cp.WriteTo(w)

	r := data.NewReader(w.Block())
	decoded, err := ReadColorPattern(r)
	require.NoError(t, err)

	require.Equal(t, cp.Monochrome, decoded.Monochrome)
	require.Nil(t, decoded.PixMap)
}

// TestColorPatternRoundTrip checks that a color ppat's PixMap, color table
// and packed pixel plane all survive encode/decode.
func TestColorPatternRoundTrip(t *testing.T) {
	bounds := quickdraw.Rect{Top: 0, Left: 0, Bottom: 1, Right: 2}
	pm := &quickdraw.PixMap{
		RowBytes:  1,
		Bounds:    bounds,
		PackType:  quickdraw.PackNone,
		PixelSize: 8,
	}
	ct := &quickdraw.ColorTable{
		Entries: []quickdraw.ColorTableEntry{
			{Index: 0, Color: quickdraw.RGB(0, 0, 0)},
			{Index: 1, Color: quickdraw.RGB(0xFF, 0xFF, 0xFF)},
		},
	}
	pixelData := []byte{0x01}

	cp := &ColorPattern{
		Type:       patternColor,
		Monochrome: [8]byte{0xFF, 0, 0xFF, 0, 0xFF, 0, 0xFF, 0},
		PixMap:     pm,
		ColorTable: ct,
		PixelData:  pixelData,
	}

	w := data.NewWriter(data.BigEndian, 0)
	cp.WriteTo(w)

	r := data.NewReader(w.Block())
	decoded, err := ReadColorPattern(r)
	require.NoError(t, err)

	require.Equal(t, cp.Monochrome, decoded.Monochrome)
	require.Equal(t, cp.PixelData, decoded.PixelData)
	require.Equal(t, pm.Bounds, decoded.PixMap.Bounds)
	require.Equal(t, 2, len(decoded.ColorTable.Entries))
}
