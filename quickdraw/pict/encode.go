package pict

import (
	"go.uber.org/zap"

	"github.com/TheDiamondProject/graphite/compression"
	"github.com/TheDiamondProject/graphite/data"
	"github.com/TheDiamondProject/graphite/quickdraw"
)

// EncodeOptions configures Encode. PreserveAlpha selects a 4-component
// (A,R,G,B) packbits_component plane layout instead of the default
// 3-component (R,G,B) one.
type EncodeOptions struct {
	Logger        *zap.Logger
	PreserveAlpha bool
}

// Encode renders surface as a v2 picture: an ext_header (dpi 72x72),
// def_hilite, a clip_region covering the whole frame, a single
// direct_bits_rect carrying the surface as packbits_component planes, and
// a final word-aligned eof. PICT is never emitted as v1.
func Encode(surface *quickdraw.Surface, opts EncodeOptions) (*data.Block, error) {
	width, height := surface.Width, surface.Height
	frame := quickdraw.Rect{Top: 0, Left: 0, Bottom: int16(height), Right: int16(width)}

	w := data.NewWriter(data.BigEndian, 0)
	w.WriteShort(0) // picture size, left unset
	frame.WriteTo(w)
	w.WriteShort(0x0011)
	w.WriteShort(0x02FF)

	w.WriteShort(opExtHeader)
	w.WriteLong(1) // version; top half != 0xFFFE selects the standard (Fixed-rect) branch
	writeFixedRect(w, quickdraw.Rect{Top: 0, Left: 0, Bottom: int16(height), Right: int16(width)})

	w.WriteShort(opDefHilite)

	w.WriteShort(opClipRegion)
	w.WriteShort(10)
	frame.WriteTo(w)

	componentCount := 3
	if opts.PreserveAlpha {
		componentCount = 4
	}
	pm := &quickdraw.PixMap{
		RowBytes:       uint16(width * 4),
		Bounds:         frame,
		PackType:       quickdraw.PackBitsComponent,
		PixelType:      16,
		PixelSize:      32,
		ComponentCount: uint16(componentCount),
		ComponentSize:  8,
	}

	w.WriteShort(opDirectBitsRect)
	w.WriteShort(pm.RowBytes | 0x8000)
	pm.WriteTo(w)
	frame.WriteTo(w) // source rect
	frame.WriteTo(w) // destination rect
	w.WriteShort(0)  // transfer mode: srcCopy

	writeComponentPlanes(w, surface, componentCount)

	if w.Position()%2 != 0 {
		w.WriteByte(0)
	}
	w.WriteShort(opEndOfPicture)

	return w.Block(), nil
}

func writeFixedRect(w *data.Writer, r quickdraw.Rect) {
	w.WriteFixedPoint(data.Fixed(int32(r.Top) << 16))
	w.WriteFixedPoint(data.Fixed(int32(r.Left) << 16))
	w.WriteFixedPoint(data.Fixed(int32(r.Bottom) << 16))
	w.WriteFixedPoint(data.Fixed(int32(r.Right) << 16))
}

// writeComponentPlanes emits, per scanline, one PackBits(1)-compressed,
// length-prefixed plane per component in (A,)R,G,B order.
func writeComponentPlanes(w *data.Writer, surface *quickdraw.Surface, componentCount int) {
	width, height := surface.Width, surface.Height
	for y := 0; y < height; y++ {
		planes := make([][]byte, componentCount)
		for c := range planes {
			planes[c] = make([]byte, width)
		}
		for x := 0; x < width; x++ {
			c := surface.At(x, y)
			if componentCount == 4 {
				planes[0][x] = c.A
				planes[1][x] = c.R
				planes[2][x] = c.G
				planes[3][x] = c.B
			} else {
				planes[0][x] = c.R
				planes[1][x] = c.G
				planes[2][x] = c.B
			}
		}
		for _, plane := range planes {
			packed := compression.Compress(plane, 1)
			if width > 250 {
				w.WriteShort(uint16(len(packed)))
			} else {
				w.WriteByte(byte(len(packed)))
			}
			w.WriteBytes(packed)
		}
	}
}
