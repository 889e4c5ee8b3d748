package quicktime

import (
	"github.com/TheDiamondProject/graphite/compression"
	"github.com/TheDiamondProject/graphite/data"
	"github.com/TheDiamondProject/graphite/quickdraw"
)

// decodePlanar decodes the planar ('8BPS') codec: an atom prelude naming
// the channel count, followed by either raw or PackBits(16)-compressed
// per-channel planes.
func decodePlanar(r *data.Reader, desc *ImageDescription) (*quickdraw.Surface, error) {
	var version uint32
	channels := 0

	// The atom prelude's extent isn't self-delimited; data_size in the
	// image_description header tells us how many trailing bytes are pixel
	// data, so atoms stop there rather than at a sentinel atom.
	atomsEnd := r.Position() + r.Remaining() - desc.DataSize
	for r.Position() < atomsEnd && atomsEnd-r.Position() >= 10 {
		atomType, err := r.ReadLongAt(4, data.Peek)
		if err != nil {
			return nil, err
		}
		if err := r.Skip(8); err != nil {
			return nil, err
		}
		atomValue, err := r.ReadShort()
		if err != nil {
			return nil, err
		}
		switch fourCC(atomType) {
		case "vers":
			version = uint32(atomValue)
		case "chct":
			channels = int(atomValue)
		}
	}

	if channels == 0 {
		channels = defaultChannelCount(desc.Depth)
	}

	rowBytes := quickdraw.RowBytesFor(desc.Width, 8)
	if desc.Depth == 1 {
		rowBytes = quickdraw.RowBytesFor(desc.Width, 1)
	}

	planes := make([][]byte, channels)
	if version == 0 {
		for c := 0; c < channels; c++ {
			plane, err := r.ReadBytes(rowBytes * desc.Height)
			if err != nil {
				return nil, err
			}
			planes[c] = plane
		}
	} else {
		lengths := make([][]uint16, channels)
		for c := 0; c < channels; c++ {
			lengths[c] = make([]uint16, desc.Height)
			for y := 0; y < desc.Height; y++ {
				n, err := r.ReadShort()
				if err != nil {
					return nil, err
				}
				lengths[c][y] = n
			}
		}
		for c := 0; c < channels; c++ {
			plane := make([]byte, 0, rowBytes*desc.Height)
			for y := 0; y < desc.Height; y++ {
				packed, err := r.ReadBytes(int(lengths[c][y]))
				if err != nil {
					return nil, err
				}
				row, err := compression.Decompress(packed, 2)
				if err != nil {
					return nil, err
				}
				plane = append(plane, row...)
			}
			planes[c] = plane
		}
	}

	return assemblePlanar(planes, desc, rowBytes)
}

func defaultChannelCount(depth int) int {
	switch depth {
	case 24:
		return 3
	case 32:
		return 4
	default:
		return 1
	}
}

func assemblePlanar(planes [][]byte, desc *ImageDescription, rowBytes int) (*quickdraw.Surface, error) {
	surface := quickdraw.NewSurface(desc.Width, desc.Height)

	switch desc.Depth {
	case 1:
		for y := 0; y < desc.Height; y++ {
			for x := 0; x < desc.Width; x++ {
				byteIdx := y*rowBytes + x/8
				bit := (planes[0][byteIdx] >> uint(7-x%8)) & 1
				if bit == 0 {
					surface.SetXY(x, y, quickdraw.RGB(255, 255, 255))
				} else {
					surface.SetXY(x, y, quickdraw.RGB(0, 0, 0))
				}
			}
		}
	case 8:
		for y := 0; y < desc.Height; y++ {
			for x := 0; x < desc.Width; x++ {
				idx := planes[0][y*rowBytes+x]
				c, _ := desc.ColorTable.At(uint16(idx))
				surface.SetXY(x, y, c)
			}
		}
	case 24, 32:
		hasAlpha := desc.Depth == 32 && len(planes) == 4
		for y := 0; y < desc.Height; y++ {
			for x := 0; x < desc.Width; x++ {
				i := y*rowBytes + x
				c := quickdraw.Color{A: 0xFF}
				if hasAlpha {
					c.A = planes[0][i]
					c.R = planes[1][i]
					c.G = planes[2][i]
					c.B = planes[3][i]
				} else {
					c.R = planes[0][i]
					c.G = planes[1][i]
					c.B = planes[2][i]
				}
				surface.SetXY(x, y, c)
			}
		}
	}
	return surface, nil
}
