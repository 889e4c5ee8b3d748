package pict

import (
	"github.com/TheDiamondProject/graphite/compression"
	"github.com/TheDiamondProject/graphite/data"
	"github.com/TheDiamondProject/graphite/quickdraw"
)

// readAndBlitIndirectBits parses a bits_rect/pack_bits_rect (or their
// region-qualified variants) operand — indexed pixel data behind either a
// full PixMap or a legacy 1-bpp BitMap — and blits the result onto the
// picture surface, translated by -origin.
func (d *decoder) readAndBlitIndirectBits(hasRegion bool) error {
	rowBytesField, err := d.r.ReadShort()
	if err != nil {
		return err
	}

	var bounds quickdraw.Rect
	var rowBytes, bpp int
	var clut *quickdraw.ColorTable
	var pm *quickdraw.PixMap

	if rowBytesField&0x8000 != 0 {
		pm, err = quickdraw.ReadPixMap(d.r, rowBytesField)
		if err != nil {
			return err
		}
		bounds = pm.Bounds
		rowBytes = int(pm.RowBytes)
		bpp = int(pm.PixelSize)
		clut, err = quickdraw.ReadColorTable(d.r)
		if err != nil {
			return err
		}
	} else {
		bounds, err = quickdraw.ReadRect(d.r)
		if err != nil {
			return err
		}
		rowBytes = int(rowBytesField)
		bpp = 1
		clut = &quickdraw.ColorTable{Entries: []quickdraw.ColorTableEntry{
			{Index: 0, Color: quickdraw.RGB(0xFF, 0xFF, 0xFF)},
			{Index: 1, Color: quickdraw.RGB(0, 0, 0)},
		}}
	}

	if _, err := quickdraw.ReadRect(d.r); err != nil { // source rect
		return err
	}
	destRect, err := quickdraw.ReadRect(d.r)
	if err != nil {
		return err
	}
	if _, err := d.r.ReadShort(); err != nil { // transfer mode
		return err
	}
	if hasRegion {
		if err := d.skipRegion(); err != nil {
			return err
		}
	}

	height := bounds.Height()
	width := bounds.Width()
	pixelData, err := quickdraw.ReadPackedScanlines(d.r, rowBytes, height)
	if err != nil {
		return err
	}

	surface, err := quickdraw.ExpandIndexed(pixelData, rowBytes, width, height, bpp, clut, nil, 0)
	if err != nil {
		return err
	}
	d.surface.Blit(surface, int(destRect.Left)-int(d.origin.X), int(destRect.Top)-int(d.origin.Y))
	return nil
}

// readAndBlitDirectBits parses a direct_bits_rect/direct_bits_region
// operand — a PixMap whose pack_type selects a direct-color scanline
// layout rather than an indexed one — and blits the assembled surface.
func (d *decoder) readAndBlitDirectBits(hasRegion bool) error {
	rowBytesField, err := d.r.ReadShort()
	if err != nil {
		return err
	}
	pm, err := quickdraw.ReadPixMap(d.r, rowBytesField)
	if err != nil {
		return err
	}

	if _, err := quickdraw.ReadRect(d.r); err != nil { // source rect
		return err
	}
	destRect, err := quickdraw.ReadRect(d.r)
	if err != nil {
		return err
	}
	if _, err := d.r.ReadShort(); err != nil { // transfer mode
		return err
	}
	if hasRegion {
		if err := d.skipRegion(); err != nil {
			return err
		}
	}

	width, height := pm.Bounds.Width(), pm.Bounds.Height()
	surface := quickdraw.NewSurface(width, height)

	switch pm.PackType {
	case quickdraw.PackNone, quickdraw.PackARGB:
		rowBytes := width * 4
		raw, err := d.r.ReadBytes(rowBytes * height)
		if err != nil {
			return err
		}
		for y := 0; y < height; y++ {
			row := raw[y*rowBytes : (y+1)*rowBytes]
			for x := 0; x < width; x++ {
				px := row[x*4 : x*4+4]
				surface.SetXY(x, y, quickdraw.Color{A: px[0], R: px[1], G: px[2], B: px[3]})
			}
		}
	case quickdraw.PackRGB:
		rowBytes := width * 3
		raw, err := d.r.ReadBytes(rowBytes * height)
		if err != nil {
			return err
		}
		for y := 0; y < height; y++ {
			row := raw[y*rowBytes : (y+1)*rowBytes]
			for x := 0; x < width; x++ {
				px := row[x*3 : x*3+3]
				surface.SetXY(x, y, quickdraw.RGB(px[0], px[1], px[2]))
			}
		}
	case quickdraw.PackBitsWord:
		rowBytes := width * 2
		plane, err := readPackedWords(d.r, rowBytes, height)
		if err != nil {
			return err
		}
		for y := 0; y < height; y++ {
			for x := 0; x < width; x++ {
				word := uint16(plane[y*rowBytes+x*2])<<8 | uint16(plane[y*rowBytes+x*2+1])
				surface.SetXY(x, y, quickdraw.RGB555To888(word))
			}
		}
	case quickdraw.PackBitsComponent:
		componentCount := int(pm.ComponentCount)
		if componentCount != 3 && componentCount != 4 {
			componentCount = 3
		}
		planes := make([][]byte, componentCount)
		for y := 0; y < height; y++ {
			for c := 0; c < componentCount; c++ {
				row, err := readComponentPlane(d.r, width)
				if err != nil {
					return err
				}
				planes[c] = append(planes[c], row...)
			}
		}
		for y := 0; y < height; y++ {
			for x := 0; x < width; x++ {
				idx := y*width + x
				var col quickdraw.Color
				col.A = 0xFF
				base := 0
				if componentCount == 4 {
					col.A = planes[0][idx]
					base = 1
				}
				col.R = planes[base][idx]
				col.G = planes[base+1][idx]
				col.B = planes[base+2][idx]
				surface.SetXY(x, y, col)
			}
		}
	default:
		return &UnsupportedPackTypeError{PackType: uint16(pm.PackType)}
	}

	d.surface.Blit(surface, int(destRect.Left)-int(d.origin.X), int(destRect.Top)-int(d.origin.Y))
	return nil
}

// readComponentPlane reads one length-prefixed, PackBits(1)-compressed
// scanline of a packbits_component plane. Unlike the general PixMap
// scanline packer, component planes are always length-prefixed regardless
// of width, matching the encoder's unconditional framing.
func readComponentPlane(r *data.Reader, width int) ([]byte, error) {
	var rowLen int
	if width > 250 {
		n, err := r.ReadShort()
		if err != nil {
			return nil, err
		}
		rowLen = int(n)
	} else {
		n, err := r.ReadByte()
		if err != nil {
			return nil, err
		}
		rowLen = int(n)
	}
	packed, err := r.ReadBytes(rowLen)
	if err != nil {
		return nil, err
	}
	return compression.Decompress(packed, 1)
}

// readPackedWords reads a PackBits(16)-compressed scanline plane.
func readPackedWords(r *data.Reader, rowBytes, height int) ([]byte, error) {
	if rowBytes < 8 {
		return r.ReadBytes(rowBytes * height)
	}
	out := make([]byte, 0, rowBytes*height)
	for y := 0; y < height; y++ {
		var rowLen int
		if rowBytes > 250 {
			n, err := r.ReadShort()
			if err != nil {
				return nil, err
			}
			rowLen = int(n)
		} else {
			n, err := r.ReadByte()
			if err != nil {
				return nil, err
			}
			rowLen = int(n)
		}
		packed, err := r.ReadBytes(rowLen)
		if err != nil {
			return nil, err
		}
		row, err := compression.Decompress(packed, 2)
		if err != nil {
			return nil, err
		}
		out = append(out, row...)
	}
	return out, nil
}
