package format

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/TheDiamondProject/graphite/data"
	"github.com/TheDiamondProject/graphite/quickdraw"
)

func twoColorIcon() *ColorIcon {
	bounds := quickdraw.Rect{Top: 0, Left: 0, Bottom: 2, Right: 2}
	pm := &quickdraw.PixMap{
		RowBytes:  2,
		Bounds:    bounds,
		PackType:  quickdraw.PackNone,
		PixelType: 0,
		PixelSize: 8,
	}
	ct := &quickdraw.ColorTable{
		Entries: []quickdraw.ColorTableEntry{
			{Index: 0, Color: quickdraw.Color{R: 0xFF, G: 0, B: 0, A: 0xFF}},
			{Index: 1, Color: quickdraw.Color{R: 0, G: 0xFF, B: 0, A: 0xFF}},
		},
	}
	pixelData := []byte{0x00, 0x01, 0x01, 0x00}
	maskBounds := bounds
	mask := []byte{0xFF, 0xFF}

	surface, err := quickdraw.ExpandIndexed(pixelData, int(pm.RowBytes), 2, 2, int(pm.PixelSize), ct, mask, 1)
	if err != nil {
		panic(err)
	}

	return &ColorIcon{
		PixMap:         pm,
		ColorTable:     ct,
		Mask:           mask,
		MaskRowBytes:   1,
		MaskBounds:     maskBounds,
		Bitmap:         mask,
		BitmapRowBytes: 1,
		BitmapBounds:   maskBounds,
		PixelData:      pixelData,
		Surface:        surface,
	}
}

// TestColorIconRoundTrip checks that encoding a color icon and decoding it
// back reproduces the pixel plane and mask/bitmap bounds exactly.
func TestColorIconRoundTrip(t *testing.T) {
	ci := twoColorIcon()

	w := data.NewWriter(data.BigEndian, 0)
	ci.WriteTo(w)

	r := data.NewReader(w.Block())
	decoded, err := ReadColorIcon(r)
	require.NoError(t, err)

	require.Equal(t, ci.PixelData, decoded.PixelData)
	require.Equal(t, ci.MaskBounds, decoded.MaskBounds)
	require.Equal(t, ci.BitmapBounds, decoded.BitmapBounds)
	require.Equal(t, ci.Mask, decoded.Mask)
	require.Equal(t, ci.Bitmap, decoded.Bitmap)
}
