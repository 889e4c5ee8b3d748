package spriteworld

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/TheDiamondProject/graphite/data"
	"github.com/TheDiamondProject/graphite/quickdraw"
)

// TestRledTransparentFrame replays scenario S4: a 1-frame 2x1 sprite whose
// opcode stream is line_start, eof, eof (the second eof tolerated as
// trailing noise since frame_count is 1) and decodes to two cleared
// pixels.
func TestRledTransparentFrame(t *testing.T) {
	w := data.NewWriter(data.BigEndian, 0)
	writeHeader(w, 2, 1, 16, 0, 1)
	w.WriteLong(uint32(rledLineStart) << 24)
	w.WriteLong(uint32(rledEOF) << 24)
	w.WriteLong(uint32(rledEOF) << 24)

	sheet, err := DecodeRled(data.NewReader(w.Block()))
	require.NoError(t, err)
	require.Equal(t, 1, sheet.FrameCount)
	require.Equal(t, 6, sheet.GridWidth)

	frame := sheet.Frame(0)
	require.Equal(t, quickdraw.Color{}, frame.At(0, 0))
	require.Equal(t, quickdraw.Color{}, frame.At(1, 0))
}

// TestRledColorRoundTrip encodes a two-frame sheet of solid colors and
// checks each frame decodes back to its source color.
func TestRledColorRoundTrip(t *testing.T) {
	const w, h = 4, 2
	red := quickdraw.NewSurface(w, h)
	red.Fill(quickdraw.RGB(0xFF, 0x00, 0x00)) // 0x1F at 5 bits, expanded back to 0xFF
	blue := quickdraw.NewSurface(w, h)
	blue.Fill(quickdraw.RGB(0x00, 0x00, 0xFF))

	block, err := EncodeRled([]*quickdraw.Surface{red, blue}, 128)
	require.NoError(t, err)

	sheet, err := DecodeRled(data.NewReader(block))
	require.NoError(t, err)
	require.Equal(t, 2, sheet.FrameCount)

	f0, f1 := sheet.Frame(0), sheet.Frame(1)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			require.Equal(t, red.At(x, y), f0.At(x, y))
			require.Equal(t, blue.At(x, y), f1.At(x, y))
		}
	}
}

// TestRledTransparentPixelsRoundTrip checks that EncodeRled emits a
// transparent_run for zero-alpha pixels instead of letting them fall
// through to RGB555To888's opaque fill, for a row that mixes opaque and
// transparent spans.
func TestRledTransparentPixelsRoundTrip(t *testing.T) {
	const w, h = 4, 1
	frame := quickdraw.NewSurface(w, h)
	opaque := quickdraw.RGB(0xFF, 0x00, 0x00)
	frame.SetXY(0, 0, opaque)
	frame.SetXY(1, 0, opaque)
	frame.SetXY(2, 0, quickdraw.Color{})
	frame.SetXY(3, 0, opaque)

	block, err := EncodeRled([]*quickdraw.Surface{frame}, 0)
	require.NoError(t, err)

	sheet, err := DecodeRled(data.NewReader(block))
	require.NoError(t, err)

	got := sheet.Frame(0)
	require.Equal(t, opaque, got.At(0, 0))
	require.Equal(t, opaque, got.At(1, 0))
	require.Equal(t, quickdraw.Color{}, got.At(2, 0))
	require.Equal(t, opaque, got.At(3, 0))
}
