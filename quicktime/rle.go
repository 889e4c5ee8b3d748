package quicktime

import (
	"github.com/pkg/errors"

	"github.com/TheDiamondProject/graphite/data"
	"github.com/TheDiamondProject/graphite/quickdraw"
)

// groupSize returns how many pixels one literal/run unit covers at the
// given depth: 8-bit frames pack four palette indices per unit, every
// other depth is one pixel per unit.
func groupSize(depth int) int {
	if depth == 8 {
		return 4
	}
	return 1
}

func readPixelGroup(r *data.Reader, desc *ImageDescription) ([]quickdraw.Color, error) {
	n := groupSize(desc.Depth)
	group := make([]quickdraw.Color, n)

	switch desc.Depth {
	case 8:
		for i := 0; i < n; i++ {
			idx, err := r.ReadByte()
			if err != nil {
				return nil, err
			}
			c, _ := desc.ColorTable.At(uint16(idx))
			group[i] = c
		}
	case 16:
		word, err := r.ReadShort()
		if err != nil {
			return nil, err
		}
		group[0] = quickdraw.RGB555To888(word)
	case 24:
		rgb, err := r.ReadBytes(3)
		if err != nil {
			return nil, err
		}
		group[0] = quickdraw.RGB(rgb[0], rgb[1], rgb[2])
	case 32:
		argb, err := r.ReadBytes(4)
		if err != nil {
			return nil, err
		}
		group[0] = quickdraw.Color{A: argb[0], R: argb[1], G: argb[2], B: argb[3]}
	default:
		return nil, errors.Errorf("quicktime: unsupported rle depth %d", desc.Depth)
	}
	return group, nil
}

// decodeAnimation decodes the QuickTime Animation ('rle ') codec.
func decodeAnimation(r *data.Reader, desc *ImageDescription) (*quickdraw.Surface, error) {
	if _, err := r.ReadLong(); err != nil { // chunk_size, unused
		return nil, err
	}
	header, err := r.ReadShort()
	if err != nil {
		return nil, err
	}

	y := 0
	if header&0x0008 != 0 {
		startY, err := r.ReadShort()
		if err != nil {
			return nil, err
		}
		y = int(startY)
		if err := r.Skip(6); err != nil {
			return nil, err
		}
	}

	surface := quickdraw.NewSurface(desc.Width, desc.Height)
rows:
	for y < desc.Height {
		skip, err := r.ReadByte()
		if err != nil {
			return nil, err
		}
		if skip == 0 {
			break
		}
		x := int(skip) - 1

		for y < desc.Height {
			code, err := r.ReadSignedByteAt(0, data.Advance)
			if err != nil {
				return nil, err
			}
			switch {
			case code == 0:
				continue rows
			case code == -1:
				x = 0
				y++
			case code > 0:
				for i := 0; i < int(code); i++ {
					group, err := readPixelGroup(r, desc)
					if err != nil {
						return nil, err
					}
					for _, c := range group {
						surface.SetXY(x, y, c)
						x++
					}
				}
			default:
				group, err := readPixelGroup(r, desc)
				if err != nil {
					return nil, err
				}
				for i := 0; i < -int(code); i++ {
					for _, c := range group {
						surface.SetXY(x, y, c)
						x++
					}
				}
			}
		}
	}
	return surface, nil
}
