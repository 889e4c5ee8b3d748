package quickdraw

import (
	"github.com/pkg/errors"

	"github.com/TheDiamondProject/graphite/compression"
	"github.com/TheDiamondProject/graphite/data"
)

// PackType identifies how DirectBitsRect/PackBitsRect scanlines are
// packed.
type PackType uint16

const (
	PackNone            PackType = 0
	PackARGB            PackType = 1
	PackRGB             PackType = 2
	PackBitsWord        PackType = 3
	PackBitsComponent   PackType = 4
)

// PixMap is the 50-byte (including the omitted base address) QuickDraw
// pixel-plane descriptor.
type PixMap struct {
	RowBytes         uint16 // low 15 bits only; ReadPixMap strips the high "is-PixMap" flag
	Bounds           Rect
	PackType         PackType
	PackSize         uint32
	HRes, VRes       data.Fixed
	PixelType        uint16
	PixelSize        uint16
	ComponentCount   uint16
	ComponentSize    uint16
	PlaneBytes       uint32
	ColorTableOffset uint32
}

// ReadPixMap decodes a PixMap body. The caller has already consumed the
// row_bytes field and passes its raw value in via rowBytes; the high
// "is-PixMap" flag bit is masked off here. A standalone PixMap's
// base_address field is never stored in a resource and is omitted here.
func ReadPixMap(r *data.Reader, rowBytes uint16) (*PixMap, error) {
	bounds, err := ReadRect(r)
	if err != nil {
		return nil, err
	}
	if _, err := r.ReadShort(); err != nil { // pmVersion, unused
		return nil, err
	}
	packType, err := r.ReadShort()
	if err != nil {
		return nil, err
	}
	packSize, err := r.ReadLong()
	if err != nil {
		return nil, err
	}
	hRes, err := r.ReadFixedPoint()
	if err != nil {
		return nil, err
	}
	vRes, err := r.ReadFixedPoint()
	if err != nil {
		return nil, err
	}
	pixelType, err := r.ReadShort()
	if err != nil {
		return nil, err
	}
	pixelSize, err := r.ReadShort()
	if err != nil {
		return nil, err
	}
	cmpCount, err := r.ReadShort()
	if err != nil {
		return nil, err
	}
	cmpSize, err := r.ReadShort()
	if err != nil {
		return nil, err
	}
	planeBytes, err := r.ReadLong()
	if err != nil {
		return nil, err
	}
	colorTableOffset, err := r.ReadLong()
	if err != nil {
		return nil, err
	}
	if _, err := r.ReadLong(); err != nil { // pmReserved
		return nil, err
	}

	return &PixMap{
		RowBytes:         rowBytes & 0x7FFF,
		Bounds:           bounds,
		PackType:         PackType(packType),
		PackSize:         packSize,
		HRes:             hRes,
		VRes:             vRes,
		PixelType:        pixelType,
		PixelSize:        pixelSize,
		ComponentCount:   cmpCount,
		ComponentSize:    cmpSize,
		PlaneBytes:       planeBytes,
		ColorTableOffset: colorTableOffset,
	}, nil
}

// WriteTo encodes the PixMap body (the row_bytes "is-PixMap" flag bit is
// the caller's responsibility, since only the caller knows whether the
// value is shared with a BitMap's row_bytes field).
func (p *PixMap) WriteTo(w *data.Writer) {
	p.Bounds.WriteTo(w)
	w.WriteShort(0) // pmVersion
	w.WriteShort(uint16(p.PackType))
	w.WriteLong(p.PackSize)
	w.WriteFixedPoint(p.HRes)
	w.WriteFixedPoint(p.VRes)
	w.WriteShort(p.PixelType)
	w.WriteShort(p.PixelSize)
	w.WriteShort(p.ComponentCount)
	w.WriteShort(p.ComponentSize)
	w.WriteLong(p.PlaneBytes)
	w.WriteLong(p.ColorTableOffset)
	w.WriteLong(0) // pmReserved
}

// ExpandIndexed expands row-major, MSB-first packed indexed pixel data
// (1/2/4/8 bpp) into a Surface using clut for palette lookup. mask, if
// non-nil, is ANDed in as a same-geometry 1-bpp mask plane (cicn support).
func ExpandIndexed(pixelData []byte, rowBytes, width, height, bpp int, clut *ColorTable, mask []byte, maskRowBytes int) (*Surface, error) {
	switch bpp {
	case 1, 2, 4, 8:
	default:
		return nil, &UnsupportedPixelConfigError{ComponentSize: bpp, ComponentCount: 1}
	}

	surface := NewSurface(width, height)
	perByte := 8 / bpp
	diff := 8 - bpp
	mod := perByte

	for y := 0; y < height; y++ {
		rowStart := y * rowBytes
		maskRowStart := y * maskRowBytes
		for x := 0; x < width; x++ {
			byteIdx := rowStart + x/perByte
			if byteIdx >= len(pixelData) {
				continue
			}
			var index uint16
			if bpp == 8 {
				index = uint16(pixelData[byteIdx])
			} else {
				shift := diff - (x%mod)*bpp
				indexMask := byte((1 << bpp) - 1)
				index = uint16((pixelData[byteIdx] >> uint(shift)) & indexMask)
			}
			c, _ := clut.At(index)
			if mask != nil {
				mByteIdx := maskRowStart + x/8
				if mByteIdx < len(mask) {
					bit := (mask[mByteIdx] >> uint(7-x%8)) & 1
					if bit == 0 {
						c.A = 0
					}
				}
			}
			surface.SetXY(x, y, c)
		}
	}
	return surface, nil
}

// BuildPixelData packs a row-major stream of palette indices into an
// MSB-first indexed byte plane at the given bit depth.
func BuildPixelData(indices []uint16, width, height, bpp int) []byte {
	perByte := 8 / bpp
	diff := 8 - bpp
	rowBytes := (width + perByte - 1) / perByte
	out := make([]byte, rowBytes*height)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			idx := indices[y*width+x]
			byteIdx := y*rowBytes + x/perByte
			if bpp == 8 {
				out[byteIdx] = byte(idx)
				continue
			}
			shift := diff - (x%perByte)*bpp
			mask := byte((1 << bpp) - 1)
			out[byteIdx] |= byte(idx&uint16(mask)) << uint(shift)
		}
	}
	return out
}

// RowBytesFor returns the row_bytes implied by a pixel width at a given
// bit depth (ceil(width / (8/bpp))).
func RowBytesFor(width, bpp int) int {
	perByte := 8 / bpp
	return (width + perByte - 1) / perByte
}

// ReadPackedScanlines reads a rowBytes*height pixel plane, PackBits(1)
// decompressing it scanline by scanline (each prefixed with its own
// compressed length, u16 when rowBytes>250 else u8) whenever rowBytes is
// large enough for QuickDraw to bother packing it. Shared by cicn/ppat and
// PICT's indirect/direct bits readers.
func ReadPackedScanlines(r *data.Reader, rowBytes, height int) ([]byte, error) {
	total := rowBytes * height
	if rowBytes < 8 {
		return r.ReadBytes(total)
	}

	out := make([]byte, 0, total)
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
		row, err := compression.Decompress(packed, 1)
		if err != nil {
			return nil, errors.Wrap(err, "quickdraw: packbits scanline")
		}
		out = append(out, row...)
	}
	return out, nil
}

// WritePackedScanlines mirrors ReadPackedScanlines.
func WritePackedScanlines(w *data.Writer, pixelData []byte, rowBytes, height int) {
	if rowBytes < 8 {
		w.WriteBytes(pixelData)
		return
	}
	for y := 0; y < height; y++ {
		row := pixelData[y*rowBytes : (y+1)*rowBytes]
		packed := compression.Compress(row, 1)
		if rowBytes > 250 {
			w.WriteShort(uint16(len(packed)))
		} else {
			w.WriteByte(byte(len(packed)))
		}
		w.WriteBytes(packed)
	}
}
