// Package spriteworld decodes and encodes the two classic sprite sheet
// formats: rlëD (16-bit RGB555, byte-opcode stream) and rlëX (32-bit,
// YCbCr-delta stream).
package spriteworld

import (
	"github.com/TheDiamondProject/graphite/data"
	"github.com/TheDiamondProject/graphite/quickdraw"
)

// SpriteSheet is a decoded sprite resource: every frame composited onto a
// single grid surface, row-major, frame (0,0) at the top-left cell.
type SpriteSheet struct {
	FrameWidth, FrameHeight int
	BPP                     uint16
	PaletteID               uint16
	FrameCount              int
	GridWidth, GridHeight   int
	Surface                 *quickdraw.Surface
}

// Frame returns a copy of the i'th frame, cropped from the grid surface.
func (s *SpriteSheet) Frame(i int) *quickdraw.Surface {
	col, row := i%s.GridWidth, i/s.GridWidth
	frame := quickdraw.NewSurface(s.FrameWidth, s.FrameHeight)
	for y := 0; y < s.FrameHeight; y++ {
		for x := 0; x < s.FrameWidth; x++ {
			frame.SetXY(x, y, s.Surface.At(col*s.FrameWidth+x, row*s.FrameHeight+y))
		}
	}
	return frame
}

func ceilDiv(a, b int) int { return (a + b - 1) / b }

// readHeader decodes the 16-byte header both sprite formats share:
// frame_size (mac v,h order), bpp, palette_id, frame_count, reserved[6].
func readHeader(r *data.Reader) (width, height int, bpp, paletteID uint16, frameCount int, err error) {
	size, err := quickdraw.ReadSize(r)
	if err != nil {
		return
	}
	bpp, err = r.ReadShort()
	if err != nil {
		return
	}
	paletteID, err = r.ReadShort()
	if err != nil {
		return
	}
	count, err := r.ReadShort()
	if err != nil {
		return
	}
	if err = r.Skip(6); err != nil {
		return
	}
	width, height = int(size.Width), int(size.Height)
	frameCount = int(count)
	return
}

func writeHeader(w *data.Writer, width, height int, bpp, paletteID uint16, frameCount int) {
	quickdraw.Size{Width: int16(width), Height: int16(height)}.WriteTo(w)
	w.WriteShort(bpp)
	w.WriteShort(paletteID)
	w.WriteShort(uint16(frameCount))
	w.WriteBytes(make([]byte, 6))
}

func newSheet(width, height int, bpp, paletteID uint16, frameCount, gridWidth, gridHeight int) *SpriteSheet {
	return &SpriteSheet{
		FrameWidth:  width,
		FrameHeight: height,
		BPP:         bpp,
		PaletteID:   paletteID,
		FrameCount:  frameCount,
		GridWidth:   gridWidth,
		GridHeight:  gridHeight,
		Surface:     quickdraw.NewSurface(width*gridWidth, height*gridHeight),
	}
}
