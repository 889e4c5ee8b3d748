// Package format decodes the compound QuickDraw icon and pattern
// resources built on top of the quickdraw package's primitives: color
// icons (cicn) and color patterns (ppat).
package format

import (
	"github.com/TheDiamondProject/graphite/data"
	"github.com/TheDiamondProject/graphite/quickdraw"
)

// ColorIcon is a decoded `cicn` resource: a 1-bpp mask, a 1-bpp monochrome
// fallback bitmap, and the color pixel data they accompany.
type ColorIcon struct {
	PixMap         *quickdraw.PixMap
	ColorTable     *quickdraw.ColorTable
	Mask           []byte // 1-bpp, MaskRowBytes*MaskBounds.Height() bytes
	MaskRowBytes   int
	MaskBounds     quickdraw.Rect
	Bitmap         []byte // 1-bpp monochrome fallback
	BitmapRowBytes int
	BitmapBounds   quickdraw.Rect
	PixelData      []byte // unpacked, row-major indexed pixel plane
	Surface        *quickdraw.Surface
}

// ReadColorIcon decodes a `cicn` resource body.
func ReadColorIcon(r *data.Reader) (*ColorIcon, error) {
	pixRowBytes, err := r.ReadShort()
	if err != nil {
		return nil, err
	}
	pm, err := quickdraw.ReadPixMap(r, pixRowBytes)
	if err != nil {
		return nil, err
	}

	maskRowBytes, err := r.ReadShort()
	if err != nil {
		return nil, err
	}
	maskBounds, err := quickdraw.ReadRect(r)
	if err != nil {
		return nil, err
	}

	bmRowBytes, err := r.ReadShort()
	if err != nil {
		return nil, err
	}
	bmBounds, err := quickdraw.ReadRect(r)
	if err != nil {
		return nil, err
	}

	if _, err := r.ReadLong(); err != nil { // iconData handle, unused on disk
		return nil, err
	}
	if _, err := r.ReadLong(); err != nil { // reserved
		return nil, err
	}

	maskSize := int(maskRowBytes) * maskBounds.Height()
	mask, err := r.ReadBytes(maskSize)
	if err != nil {
		return nil, err
	}

	bmSize := int(bmRowBytes) * bmBounds.Height()
	bitmap, err := r.ReadBytes(bmSize)
	if err != nil {
		return nil, err
	}

	ct, err := quickdraw.ReadColorTable(r)
	if err != nil {
		return nil, err
	}

	pixelData, err := readPackedPixels(r, pm)
	if err != nil {
		return nil, err
	}

	width, height := pm.Bounds.Width(), pm.Bounds.Height()
	surface, err := quickdraw.ExpandIndexed(pixelData, int(pm.RowBytes), width, height, int(pm.PixelSize), ct, mask, int(maskRowBytes))
	if err != nil {
		return nil, err
	}

	return &ColorIcon{
		PixMap:         pm,
		ColorTable:     ct,
		Mask:           mask,
		MaskRowBytes:   int(maskRowBytes),
		MaskBounds:     maskBounds,
		Bitmap:         bitmap,
		BitmapRowBytes: int(bmRowBytes),
		BitmapBounds:   bmBounds,
		PixelData:      pixelData,
		Surface:        surface,
	}, nil
}

// readPackedPixels reads a cicn/ppat pixel plane, PackBits-decompressing it
// when the PixMap's pack_type calls for it.
func readPackedPixels(r *data.Reader, pm *quickdraw.PixMap) ([]byte, error) {
	rowBytes := int(pm.RowBytes)
	height := pm.Bounds.Height()
	if pm.PackType == quickdraw.PackNone {
		return r.ReadBytes(rowBytes * height)
	}
	return quickdraw.ReadPackedScanlines(r, rowBytes, height)
}

// writePackedPixels mirrors readPackedPixels, PackBits-compressing each
// scanline independently when pm.PackType calls for it.
func writePackedPixels(w *data.Writer, pm *quickdraw.PixMap, pixelData []byte) {
	rowBytes := int(pm.RowBytes)
	height := pm.Bounds.Height()
	if pm.PackType == quickdraw.PackNone {
		w.WriteBytes(pixelData)
		return
	}
	quickdraw.WritePackedScanlines(w, pixelData, rowBytes, height)
}

// WriteTo encodes the color icon back to its on-disk `cicn` form.
func (c *ColorIcon) WriteTo(w *data.Writer) {
	w.WriteShort(c.PixMap.RowBytes | 0x8000)
	c.PixMap.WriteTo(w)

	w.WriteShort(uint16(c.MaskRowBytes))
	c.MaskBounds.WriteTo(w)
	w.WriteShort(uint16(c.BitmapRowBytes))
	c.BitmapBounds.WriteTo(w)

	w.WriteLong(0) // iconData handle
	w.WriteLong(0) // reserved

	w.WriteBytes(c.Mask)
	w.WriteBytes(c.Bitmap)

	c.ColorTable.WriteTo(w)

	writePackedPixels(w, c.PixMap, c.PixelData)
}
