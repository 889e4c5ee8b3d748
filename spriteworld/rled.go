package spriteworld

import (
	"github.com/pkg/errors"

	"github.com/TheDiamondProject/graphite/data"
	"github.com/TheDiamondProject/graphite/quickdraw"
)

const (
	rledEOF            = 0x00
	rledLineStart      = 0x01
	rledPixelData      = 0x02
	rledTransparentRun = 0x03
	rledPixelRun       = 0x04
)

// rledGridWidth is the fixed grid column count rlëD packs its frames into,
// regardless of frame count.
const rledGridWidth = 6

// ErrUnknownRledOpcode is returned when a frame's opcode stream contains a
// byte outside {eof, line_start, pixel_data, transparent_run, pixel_run}.
var ErrUnknownRledOpcode = errors.New("spriteworld: unknown rled opcode")

// DecodeRled decodes an `rlëD` sprite sheet.
func DecodeRled(r *data.Reader) (*SpriteSheet, error) {
	width, height, bpp, paletteID, frameCount, err := readHeader(r)
	if err != nil {
		return nil, err
	}

	gridHeight := ceilDiv(frameCount, rledGridWidth)
	sheet := newSheet(width, height, bpp, paletteID, frameCount, rledGridWidth, gridHeight)

	for i := 0; i < frameCount; i++ {
		frame := quickdraw.NewSurface(width, height)
		if err := decodeRledFrame(r, frame); err != nil {
			return nil, errors.Wrapf(err, "spriteworld: rled frame %d", i)
		}
		col, row := i%rledGridWidth, i/rledGridWidth
		sheet.Surface.Blit(frame, col*width, row*height)
	}
	return sheet, nil
}

func decodeRledFrame(r *data.Reader, frame *quickdraw.Surface) error {
	row := -1
	writeX := 0
	rowByteStart := r.Position()

	for {
		opWord, err := r.ReadLong()
		if err != nil {
			return err
		}
		op := byte(opWord >> 24)
		count := int(opWord & 0xFFFFFF)

		switch op {
		case rledEOF:
			return nil
		case rledLineStart:
			row++
			writeX = 0
			rowByteStart = r.Position()
		case rledPixelData:
			raw, err := r.ReadBytes(count)
			if err != nil {
				return err
			}
			for i := 0; i+1 < count; i += 2 {
				word := uint16(raw[i])<<8 | uint16(raw[i+1])
				frame.SetXY(writeX, row, quickdraw.RGB555To888(word))
				writeX++
			}
			if consumed := r.Position() - rowByteStart; consumed%4 != 0 {
				if err := r.Skip(4 - consumed%4); err != nil {
					return err
				}
			}
		case rledPixelRun:
			word, err := r.ReadLong()
			if err != nil {
				return err
			}
			upper, lower := uint16(word>>16), uint16(word)
			for p := 0; p < count/4; p++ {
				frame.SetXY(writeX, row, quickdraw.RGB555To888(upper))
				writeX++
				frame.SetXY(writeX, row, quickdraw.RGB555To888(lower))
				writeX++
			}
		case rledTransparentRun:
			writeX += count / 2
		default:
			return errors.Wrapf(ErrUnknownRledOpcode, "0x%02X", op)
		}
	}
}

// EncodeRled encodes frames (all of identical dimensions) as an `rlëD`
// sheet. Each frame is emitted as one line_start per row followed by
// alternating pixel_data and transparent_run opcodes, switching whenever a
// pixel's opacity changes, then eof.
func EncodeRled(frames []*quickdraw.Surface, paletteID uint16) (*data.Block, error) {
	if len(frames) == 0 {
		return nil, errors.New("spriteworld: EncodeRled requires at least one frame")
	}
	width, height := frames[0].Width, frames[0].Height

	w := data.NewWriter(data.BigEndian, 0)
	writeHeader(w, width, height, 16, paletteID, len(frames))

	for _, frame := range frames {
		for y := 0; y < height; y++ {
			w.WriteLong(uint32(rledLineStart) << 24)
			encodeRledRow(w, frame, y, width)
		}
		w.WriteLong(uint32(rledEOF) << 24)
	}
	return w.Block(), nil
}

// encodeRledRow emits one scanline as a sequence of pixel_data and
// transparent_run opcodes: a run flushes whenever a pixel's opacity
// differs from the run being accumulated, mirroring encodeRlexFrame's
// flush-on-change shape. Zero-alpha pixels fall into a transparent_run
// rather than round-tripping through RGB555To888's opaque fill.
func encodeRledRow(w *data.Writer, frame *quickdraw.Surface, y, width int) {
	var pixels []byte
	transparentCount := 0

	flushPixels := func() {
		if len(pixels) == 0 {
			return
		}
		w.WriteLong(uint32(rledPixelData)<<24 | uint32(len(pixels)))
		w.WriteBytes(pixels)
		if pad := len(pixels) % 4; pad != 0 {
			w.WriteBytes(make([]byte, 4-pad))
		}
		pixels = nil
	}
	flushTransparent := func() {
		if transparentCount == 0 {
			return
		}
		w.WriteLong(uint32(rledTransparentRun)<<24 | uint32(transparentCount*2))
		transparentCount = 0
	}

	for x := 0; x < width; x++ {
		c := frame.At(x, y)
		if c.A == 0 {
			flushPixels()
			transparentCount++
			continue
		}
		flushTransparent()
		word := rgb888To555(c)
		pixels = append(pixels, byte(word>>8), byte(word))
	}
	flushPixels()
	flushTransparent()
}

func rgb888To555(c quickdraw.Color) uint16 {
	r5 := uint16(c.R) >> 3
	g5 := uint16(c.G) >> 3
	b5 := uint16(c.B) >> 3
	return r5<<10 | g5<<5 | b5
}
