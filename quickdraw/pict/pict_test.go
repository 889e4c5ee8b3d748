package pict

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/TheDiamondProject/graphite/data"
	"github.com/TheDiamondProject/graphite/quickdraw"
)

// TestUniformRectRoundTrip checks that a uniform-color surface survives an
// Encode/Decode round trip: every decoded pixel matches the source color.
func TestUniformRectRoundTrip(t *testing.T) {
	const w, h = 4, 4
	surface := quickdraw.NewSurface(w, h)
	want := quickdraw.RGB(128, 64, 32)
	surface.Fill(want)

	block, err := Encode(surface, EncodeOptions{})
	require.NoError(t, err)

	picture, err := Decode(data.NewReader(block), DecodeOptions{})
	require.NoError(t, err)

	require.Equal(t, w, picture.Surface.Width)
	require.Equal(t, h, picture.Surface.Height)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			got := picture.Surface.At(x, y)
			require.Equalf(t, want.R, got.R, "x=%d y=%d", x, y)
			require.Equalf(t, want.G, got.G, "x=%d y=%d", x, y)
			require.Equalf(t, want.B, got.B, "x=%d y=%d", x, y)
		}
	}
}

// TestUniformRectRoundTripWithAlpha exercises the 4-component encode path.
func TestUniformRectRoundTripWithAlpha(t *testing.T) {
	const w, h = 3, 2
	surface := quickdraw.NewSurface(w, h)
	want := quickdraw.Color{R: 10, G: 20, B: 30, A: 200}
	surface.Fill(want)

	block, err := Encode(surface, EncodeOptions{PreserveAlpha: true})
	require.NoError(t, err)

	picture, err := Decode(data.NewReader(block), DecodeOptions{})
	require.NoError(t, err)

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			require.Equal(t, want, picture.Surface.At(x, y))
		}
	}
}

// writeCompressedQuickTimePicture builds a minimal v2 PICT stream (extended
// ext_header variant) whose only drawing opcode is compressed_quicktime,
// with the given matte_size/mask_size wrapper fields, followed by a
// trailing marker the test's stub QuickTimeDecoder reads back to prove the
// wrapper was correctly skipped before delegating.
func writeCompressedQuickTimePicture(frame quickdraw.Rect, matteSize, maskSize uint32) *data.Block {
	w := data.NewWriter(data.BigEndian, 0)
	w.WriteShort(0) // picture size, informational
	frame.WriteTo(w)
	w.WriteShort(0x0011)
	w.WriteShort(0x02FF)

	w.WriteShort(0x0C00) // ext_header
	w.WriteLong(0xFFFE0000)
	w.WriteLong(0) // reserved hRes
	w.WriteLong(0) // reserved vRes
	frame.WriteTo(w)

	w.WriteShort(0x8200) // compressed_quicktime
	w.WriteLong(0)       // length, unused
	w.WriteBytes(make([]byte, 38))
	w.WriteLong(matteSize)
	quickdraw.Rect{}.WriteTo(w) // matte_rect
	w.WriteBytes(make([]byte, 2))
	quickdraw.Rect{}.WriteTo(w) // source_rect
	w.WriteBytes(make([]byte, 4))
	w.WriteLong(maskSize)
	if matteSize > 0 {
		w.WriteLong(0xD00DFEED) // matte image_description marker, discarded
	}
	if maskSize > 0 {
		w.WriteBytes(make([]byte, int(maskSize)))
	}
	w.WriteLong(0xCAFEBABE) // main image_description marker

	w.WriteShort(0x00FF) // eof
	return w.Block()
}

// TestCompressedQuickTimeWrapperSkipped checks that the QTImageCompMgr
// wrapper ahead of the embedded image_description (length, 38 reserved
// bytes, matte size/rect, source rect, mask size) is fully consumed before
// the configured QuickTimeDecoder is invoked, rather than misaligning it
// by feeding the wrapper bytes in as picture data.
func TestCompressedQuickTimeWrapperSkipped(t *testing.T) {
	frame := quickdraw.Rect{Top: 0, Left: 0, Bottom: 4, Right: 4}
	block := writeCompressedQuickTimePicture(frame, 0, 0)

	var gotMarker uint32
	opts := DecodeOptions{
		QuickTimeDecoder: func(r *data.Reader, f quickdraw.Rect) (*quickdraw.Surface, error) {
			marker, err := r.ReadLong()
			if err != nil {
				return nil, err
			}
			gotMarker = marker
			s := quickdraw.NewSurface(f.Width(), f.Height())
			s.Fill(quickdraw.RGB(1, 2, 3))
			return s, nil
		},
	}

	picture, err := Decode(data.NewReader(block), opts)
	require.NoError(t, err)
	require.Equal(t, uint32(0xCAFEBABE), gotMarker)
	require.Equal(t, quickdraw.RGB(1, 2, 3), picture.Surface.At(0, 0))
}

// TestCompressedQuickTimeWithMatteAndMask checks that a non-zero matte_size
// triggers a discarded matte image_description decode and a non-zero
// mask_size is skipped wholesale, both ahead of the real decode call.
func TestCompressedQuickTimeWithMatteAndMask(t *testing.T) {
	frame := quickdraw.Rect{Top: 0, Left: 0, Bottom: 4, Right: 4}
	block := writeCompressedQuickTimePicture(frame, 4, 6)

	var markers []uint32
	opts := DecodeOptions{
		QuickTimeDecoder: func(r *data.Reader, f quickdraw.Rect) (*quickdraw.Surface, error) {
			marker, err := r.ReadLong()
			if err != nil {
				return nil, err
			}
			markers = append(markers, marker)
			s := quickdraw.NewSurface(f.Width(), f.Height())
			s.Fill(quickdraw.RGB(9, 9, 9))
			return s, nil
		},
	}

	picture, err := Decode(data.NewReader(block), opts)
	require.NoError(t, err)
	require.Equal(t, []uint32{0xD00DFEED, 0xCAFEBABE}, markers)
	require.Equal(t, quickdraw.RGB(9, 9, 9), picture.Surface.At(0, 0))
}
