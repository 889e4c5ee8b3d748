package spriteworld

import (
	"math"

	"github.com/pkg/errors"

	"github.com/TheDiamondProject/graphite/data"
	"github.com/TheDiamondProject/graphite/quickdraw"
)

const (
	rlexEOF      = 0x00
	rlexSetY     = 0x01
	rlexSetCr    = 0x02
	rlexSetCb    = 0x03
	rlexSetAlpha = 0x04
	rlexAdvance  = 0x05
)

// ErrUnknownRlexOpcode is returned when a frame's opcode stream contains a
// byte outside the documented set.
var ErrUnknownRlexOpcode = errors.New("spriteworld: unknown rlex opcode")

// DecodeRlex decodes an `rlëX` sprite sheet. Frames are laid out on a
// ceil(sqrt(frame_count))-wide grid.
func DecodeRlex(r *data.Reader) (*SpriteSheet, error) {
	width, height, bpp, paletteID, frameCount, err := readHeader(r)
	if err != nil {
		return nil, err
	}

	gridWidth := ceilSqrtInt(frameCount)
	gridHeight := ceilDiv(frameCount, gridWidth)
	sheet := newSheet(width, height, bpp, paletteID, frameCount, gridWidth, gridHeight)

	for i := 0; i < frameCount; i++ {
		frame := quickdraw.NewSurface(width, height)
		if err := decodeRlexFrame(r, frame); err != nil {
			return nil, errors.Wrapf(err, "spriteworld: rlex frame %d", i)
		}
		col, row := i%gridWidth, i/gridWidth
		sheet.Surface.Blit(frame, col*width, row*height)
	}
	return sheet, nil
}

func decodeRlexFrame(r *data.Reader, frame *quickdraw.Surface) error {
	y, cb, cr, alpha := uint8(0), uint8(128), uint8(128), uint8(255)
	x, row := 0, 0
	width, height := frame.Width, frame.Height

	advance := func(n int) {
		c := ycbcrToRGB(y, cb, cr, alpha)
		for k := 0; k < n && row < height; k++ {
			frame.SetXY(x, row, c)
			x++
			if x >= width {
				x = 0
				row++
			}
		}
	}

	for {
		op, err := r.ReadByte()
		if err != nil {
			return err
		}
		switch {
		case op == rlexEOF:
			return nil
		case op == rlexSetY:
			if y, err = r.ReadByte(); err != nil {
				return err
			}
		case op == rlexSetCr:
			if cr, err = r.ReadByte(); err != nil {
				return err
			}
		case op == rlexSetCb:
			if cb, err = r.ReadByte(); err != nil {
				return err
			}
		case op == rlexSetAlpha:
			if alpha, err = r.ReadByte(); err != nil {
				return err
			}
		case op == rlexAdvance:
			n, err := readLE32(r)
			if err != nil {
				return err
			}
			advance(int(n))
		case op >= 0x80:
			advance(int(op & 0x7F))
		default:
			return errors.Wrapf(ErrUnknownRlexOpcode, "0x%02X", op)
		}
	}
}

// EncodeRlex encodes frames (all of identical dimensions) as an `rlëX`
// sheet, emitting a set_* opcode whenever a channel changes and flushing
// the accumulated run with short_advance (<128 pixels) or advance
// (otherwise).
func EncodeRlex(frames []*quickdraw.Surface, paletteID uint16) (*data.Block, error) {
	if len(frames) == 0 {
		return nil, errors.New("spriteworld: EncodeRlex requires at least one frame")
	}
	width, height := frames[0].Width, frames[0].Height

	w := data.NewWriter(data.BigEndian, 0)
	writeHeader(w, width, height, 32, paletteID, len(frames))
	for _, frame := range frames {
		encodeRlexFrame(w, frame)
	}
	return w.Block(), nil
}

func encodeRlexFrame(w *data.Writer, frame *quickdraw.Surface) {
	curY, curCb, curCr, curAlpha := uint8(0), uint8(128), uint8(128), uint8(255)
	runLen := 0

	flush := func() {
		if runLen == 0 {
			return
		}
		if runLen < 128 {
			w.WriteByte(byte(0x80 | runLen))
		} else {
			w.WriteByte(rlexAdvance)
			writeLE32(w, uint32(runLen))
		}
		runLen = 0
	}

	width, height := frame.Width, frame.Height
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			c := frame.At(x, y)
			py, pcb, pcr := rgbToYCbCr(c)
			if py != curY || pcb != curCb || pcr != curCr || c.A != curAlpha {
				flush()
				if py != curY {
					w.WriteByte(rlexSetY)
					w.WriteByte(py)
					curY = py
				}
				if pcr != curCr {
					w.WriteByte(rlexSetCr)
					w.WriteByte(pcr)
					curCr = pcr
				}
				if pcb != curCb {
					w.WriteByte(rlexSetCb)
					w.WriteByte(pcb)
					curCb = pcb
				}
				if c.A != curAlpha {
					w.WriteByte(rlexSetAlpha)
					w.WriteByte(c.A)
					curAlpha = c.A
				}
			}
			runLen++
		}
	}
	flush()
	w.WriteByte(rlexEOF)
}

func readLE32(r *data.Reader) (uint32, error) {
	b, err := r.ReadBytes(4)
	if err != nil {
		return 0, err
	}
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24, nil
}

func writeLE32(w *data.Writer, v uint32) {
	w.WriteBytes([]byte{byte(v), byte(v >> 8), byte(v >> 16), byte(v >> 24)})
}

func ceilSqrtInt(n int) int {
	if n <= 1 {
		return 1
	}
	root := int(math.Sqrt(float64(n)))
	for root*root < n {
		root++
	}
	for root > 1 && (root-1)*(root-1) >= n {
		root--
	}
	return root
}
