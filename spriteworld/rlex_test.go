package spriteworld

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/TheDiamondProject/graphite/data"
	"github.com/TheDiamondProject/graphite/quickdraw"
)

// TestRlexTransparentToOpaqueRoundTrip replays property 6: a two-frame 2x2
// sprite, frame 0 fully transparent and frame 1 solid opaque red, round
// tripped through encode/decode with the documented <=2/255 per-channel
// tolerance (YCbCr quantization is lossy).
func TestRlexTransparentToOpaqueRoundTrip(t *testing.T) {
	const w, h = 2, 2
	clear := quickdraw.NewSurface(w, h)
	red := quickdraw.NewSurface(w, h)
	red.Fill(quickdraw.Color{R: 255, G: 0, B: 0, A: 255})

	block, err := EncodeRlex([]*quickdraw.Surface{clear, red}, 0)
	require.NoError(t, err)

	sheet, err := DecodeRlex(data.NewReader(block))
	require.NoError(t, err)
	require.Equal(t, 2, sheet.FrameCount)
	require.Equal(t, 2, sheet.GridWidth) // ceil(sqrt(2)) == 2

	f0, f1 := sheet.Frame(0), sheet.Frame(1)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			require.Equal(t, quickdraw.Color{}, f0.At(x, y))

			got := f1.At(x, y)
			requireChannelClose(t, 255, got.R)
			requireChannelClose(t, 0, got.G)
			requireChannelClose(t, 0, got.B)
			require.Equal(t, uint8(255), got.A)
		}
	}
}

func requireChannelClose(t *testing.T, want, got uint8) {
	t.Helper()
	diff := int(want) - int(got)
	if diff < 0 {
		diff = -diff
	}
	require.LessOrEqualf(t, diff, 2, "channel %d too far from %d", got, want)
}

// TestRlexGridWidth checks the ceil(sqrt(frame_count)) grid rule across a
// few frame counts, independent of rlëD's fixed 6-wide grid.
func TestRlexGridWidth(t *testing.T) {
	cases := []struct {
		frames int
		want   int
	}{
		{1, 1},
		{2, 2},
		{4, 2},
		{5, 3},
		{9, 3},
		{10, 4},
	}
	for _, c := range cases {
		frames := make([]*quickdraw.Surface, c.frames)
		for i := range frames {
			frames[i] = quickdraw.NewSurface(1, 1)
		}
		block, err := EncodeRlex(frames, 0)
		require.NoError(t, err)
		sheet, err := DecodeRlex(data.NewReader(block))
		require.NoError(t, err)
		require.Equalf(t, c.want, sheet.GridWidth, "frame count %d", c.frames)
	}
}
