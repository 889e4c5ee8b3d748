package quickdraw

import "github.com/TheDiamondProject/graphite/data"

// Surface is a 2-D BGRA pixel grid backed by a data.Block.
type Surface struct {
	Width, Height int
	block         *data.Block
}

// NewSurface allocates a cleared width x height BGRA surface.
func NewSurface(width, height int) *Surface {
	return &Surface{Width: width, Height: height, block: data.NewBlock(width * height * 4)}
}

// Bytes returns the raw BGRA backing bytes.
func (s *Surface) Bytes() []byte { return s.block.Bytes() }

func (s *Surface) offset(x, y int) int { return (y*s.Width + x) * 4 }

// Set writes a color at a linear pixel offset (not a byte offset).
func (s *Surface) Set(pixelOffset int, c Color) {
	b := s.block.Bytes()
	i := pixelOffset * 4
	b[i+0] = c.B
	b[i+1] = c.G
	b[i+2] = c.R
	b[i+3] = c.A
}

// SetXY writes a color at (x, y).
func (s *Surface) SetXY(x, y int, c Color) {
	if x < 0 || y < 0 || x >= s.Width || y >= s.Height {
		return
	}
	s.Set(y*s.Width+x, c)
}

// At returns the color at (x, y).
func (s *Surface) At(x, y int) Color {
	if x < 0 || y < 0 || x >= s.Width || y >= s.Height {
		return Color{}
	}
	b := s.block.Bytes()
	i := s.offset(x, y)
	return Color{B: b[i], G: b[i+1], R: b[i+2], A: b[i+3]}
}

// Fill sets every pixel to c.
func (s *Surface) Fill(c Color) {
	for y := 0; y < s.Height; y++ {
		for x := 0; x < s.Width; x++ {
			s.SetXY(x, y, c)
		}
	}
}

// Blit copies src into s such that src's (0,0) lands at (dx, dy) in s,
// clipping to s's bounds.
func (s *Surface) Blit(src *Surface, dx, dy int) {
	for y := 0; y < src.Height; y++ {
		for x := 0; x < src.Width; x++ {
			s.SetXY(dx+x, dy+y, src.At(x, y))
		}
	}
}
