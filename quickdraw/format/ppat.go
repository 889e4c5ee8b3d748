package format

import (
	"github.com/TheDiamondProject/graphite/data"
	"github.com/TheDiamondProject/graphite/quickdraw"
)

// patternType distinguishes the three on-disk ppat variants: a plain 8x8
// monochrome pattern, an old-style indexed pattern, or a full color
// PixMap-backed pattern.
type patternType uint16

const (
	patternSimple  patternType = 0
	patternOld     patternType = 1
	patternColor   patternType = 2
)

// ColorPattern is a decoded `ppat` resource. Every variant carries the
// classic 8-byte monochrome fallback; patternColor additionally carries a
// color PixMap, its color table and pixel plane.
type ColorPattern struct {
	Type       patternType
	Monochrome [8]byte // 1-bpp 8x8 fallback pattern, MSB-first per row

	PixMap     *quickdraw.PixMap
	ColorTable *quickdraw.ColorTable
	PixelData  []byte
	Surface    *quickdraw.Surface
}

// ReadColorPattern decodes a `ppat` resource body. The on-disk record is a
// patternType word and the 8-byte monochrome pattern, then - for
// patternColor only - five longs (PixMap handle offset, pixel-data handle
// offset, expanded-data handle, expanded-data size, valid/wide flags) that
// are read and ignored, followed inline by the PixMap (row_bytes first),
// its color table and its pixel plane.
func ReadColorPattern(r *data.Reader) (*ColorPattern, error) {
	kind, err := r.ReadShort()
	if err != nil {
		return nil, err
	}
	var mono [8]byte
	monoBytes, err := r.ReadBytes(8)
	if err != nil {
		return nil, err
	}
	copy(mono[:], monoBytes)

	cp := &ColorPattern{Type: patternType(kind), Monochrome: mono}
	if cp.Type != patternColor {
		return cp, nil
	}

	if _, err := r.ReadLong(); err != nil { // pixMap handle offset, unused inline
		return nil, err
	}
	if _, err := r.ReadLong(); err != nil { // pixData handle offset, unused inline
		return nil, err
	}
	if _, err := r.ReadLong(); err != nil { // expanded-data handle, reserved
		return nil, err
	}
	if _, err := r.ReadLong(); err != nil { // expanded-data size, reserved
		return nil, err
	}
	if _, err := r.ReadLong(); err != nil { // pattern valid/wide flags, reserved
		return nil, err
	}

	pixRowBytes, err := r.ReadShort()
	if err != nil {
		return nil, err
	}
	pm, err := quickdraw.ReadPixMap(r, pixRowBytes)
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
	surface, err := quickdraw.ExpandIndexed(pixelData, int(pm.RowBytes), width, height, int(pm.PixelSize), ct, nil, 0)
	if err != nil {
		return nil, err
	}

	cp.PixMap = pm
	cp.ColorTable = ct
	cp.PixelData = pixelData
	cp.Surface = surface
	return cp, nil
}

// WriteTo encodes the color pattern back to its on-disk `ppat` form.
func (c *ColorPattern) WriteTo(w *data.Writer) {
	w.WriteShort(uint16(c.Type))
	w.WriteBytes(c.Monochrome[:])
	if c.Type != patternColor {
		return
	}

	w.WriteLong(0) // pixMap handle offset
	w.WriteLong(0) // pixData handle offset
	w.WriteLong(0) // expanded-data handle
	w.WriteLong(0) // expanded-data size
	w.WriteLong(0) // valid/wide flags

	w.WriteShort(c.PixMap.RowBytes | 0x8000)
	c.PixMap.WriteTo(w)
	c.ColorTable.WriteTo(w)
	writePackedPixels(w, c.PixMap, c.PixelData)
}
