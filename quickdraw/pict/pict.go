// Package pict implements a decoder and encoder for the QuickDraw PICT
// picture format: a finite-state opcode stream describing drawing
// primitives and embedded bitmaps.
package pict

import (
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/TheDiamondProject/graphite/data"
	"github.com/TheDiamondProject/graphite/quickdraw"
)

// Picture is a decoded PICT resource: the frame it was authored at and the
// surface its opcode stream painted onto.
type Picture struct {
	FrameRect quickdraw.Rect
	Surface   *quickdraw.Surface
}

// QuickTimeDecoder decodes an embedded QuickTime image_description chunk
// (opcode 0x8200) into a surface; callers that need compressed_quicktime
// support supply one via DecodeOptions to avoid this package depending on
// the quicktime package, which itself depends on pict for nested 'qdrw'
// pictures.
type QuickTimeDecoder func(r *data.Reader, frame quickdraw.Rect) (*quickdraw.Surface, error)

// DecodeOptions configures Decode.
type DecodeOptions struct {
	Logger           *zap.Logger
	QuickTimeDecoder QuickTimeDecoder
}

type decoder struct {
	r       *data.Reader
	logger  *zap.Logger
	opts    DecodeOptions
	frame   quickdraw.Rect
	origin  quickdraw.Point
	surface *quickdraw.Surface
}

// Decode reads a PICT resource body and renders it onto a freshly
// allocated surface sized to its frame rect.
func Decode(r *data.Reader, opts DecodeOptions) (*Picture, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	if _, err := r.ReadShort(); err != nil { // picture size, informational only
		return nil, err
	}
	frame, err := quickdraw.ReadRect(r)
	if err != nil {
		return nil, err
	}

	marker, err := r.ReadShortAt(0, data.Peek)
	if err != nil {
		return nil, err
	}

	d := &decoder{r: r, logger: logger, opts: opts, frame: frame}

	if marker == 0x1101 {
		if _, err := r.ReadShort(); err != nil {
			return nil, err
		}
		d.surface = quickdraw.NewSurface(frame.Width(), frame.Height())
		if err := d.runV1(); err != nil {
			return nil, err
		}
		return &Picture{FrameRect: d.frame, Surface: d.surface}, nil
	}

	if _, err := r.ReadShort(); err != nil { // 0x0011
		return nil, err
	}
	if _, err := r.ReadShort(); err != nil { // 0x02FF
		return nil, err
	}
	if err := d.readExtHeader(); err != nil {
		return nil, err
	}

	d.surface = quickdraw.NewSurface(d.frame.Width(), d.frame.Height())
	if err := d.runV2(); err != nil {
		return nil, err
	}
	return &Picture{FrameRect: d.frame, Surface: d.surface}, nil
}

// readExtHeader consumes the mandatory leading ext_header opcode (0x0C00)
// and its version-tagged body.
func (d *decoder) readExtHeader() error {
	op, err := d.r.ReadShort()
	if err != nil {
		return err
	}
	if op != opExtHeader {
		return &UnsupportedOpcodeError{Opcode: op}
	}

	version, err := d.r.ReadLong()
	if err != nil {
		return err
	}

	if version>>16 == 0xFFFE {
		if _, err := d.r.ReadLong(); err != nil { // reserved hRes
			return err
		}
		if _, err := d.r.ReadLong(); err != nil { // reserved vRes
			return err
		}
		optimal, err := quickdraw.ReadRect(d.r)
		if err != nil {
			return err
		}
		d.frame = optimal
		return nil
	}

	optimal, err := readFixedRect(d.r)
	if err != nil {
		return err
	}
	optimalW, optimalH := optimal.Right-optimal.Left, optimal.Bottom-optimal.Top
	if optimalW.Float64() <= 0 || optimalH.Float64() <= 0 {
		return errors.New("pict: ext_header optimal rect is non-positive")
	}
	dpiX := float64(d.frame.Width()) / optimalW.Float64()
	dpiY := float64(d.frame.Height()) / optimalH.Float64()
	if dpiX <= 0 || dpiY <= 0 {
		return errors.New("pict: ext_header derives a non-positive dpi ratio")
	}
	return nil
}

type fixedRect struct {
	Top, Left, Bottom, Right data.Fixed
}

func readFixedRect(r *data.Reader) (fixedRect, error) {
	top, err := r.ReadFixedPoint()
	if err != nil {
		return fixedRect{}, err
	}
	left, err := r.ReadFixedPoint()
	if err != nil {
		return fixedRect{}, err
	}
	bottom, err := r.ReadFixedPoint()
	if err != nil {
		return fixedRect{}, err
	}
	right, err := r.ReadFixedPoint()
	if err != nil {
		return fixedRect{}, err
	}
	return fixedRect{Top: top, Left: left, Bottom: bottom, Right: right}, nil
}

// runV2 dispatches the v2 opcode stream until eof or end of data.
func (d *decoder) runV2() error {
	for d.r.Remaining() > 0 {
		if d.r.Position()%2 != 0 {
			if err := d.r.Skip(1); err != nil {
				return err
			}
		}
		op, err := d.r.ReadShort()
		if err != nil {
			return err
		}
		if op == opEndOfPicture {
			return nil
		}
		if err := d.dispatch(op); err != nil {
			return err
		}
	}
	return nil
}

func (d *decoder) dispatch(op uint16) error {
	switch {
	case noOpcodes[op]:
		return nil
	case regionOpcodes[op]:
		return d.skipRegion()
	case sixByteColorOpcodes[op]:
		return d.r.Skip(6)
	case op == opOrigin:
		p, err := quickdraw.ReadPoint(d.r)
		if err != nil {
			return err
		}
		d.origin.X += p.X
		d.origin.Y += p.Y
		return nil
	}
	if n, ok := fixedSkip[op]; ok {
		return d.r.Skip(n)
	}

	switch op {
	case opBitsRect:
		return d.readAndBlitIndirectBits(false)
	case opPackBitsRect:
		return d.readAndBlitIndirectBits(false)
	case opBitsRegion:
		return d.readAndBlitIndirectBits(true)
	case opPackBitsRegion:
		return d.readAndBlitIndirectBits(true)
	case opDirectBitsRect:
		return d.readAndBlitDirectBits(false)
	case opDirectBitsRegion:
		return d.readAndBlitDirectBits(true)
	case opShortComment:
		return d.r.Skip(2)
	case opLongComment:
		if _, err := d.r.ReadShort(); err != nil {
			return err
		}
		n, err := d.r.ReadShort()
		if err != nil {
			return err
		}
		return d.r.Skip(int(n))
	case opCompressedQuickTime:
		return d.readCompressedQuickTime()
	case opUncompressedQuickTime:
		return d.readUncompressedQuickTime()
	}
	return &UnsupportedOpcodeError{Opcode: op}
}

// skipRegion reads a region header (size, bounding rect) and discards the
// remaining point-list bytes the size field accounts for.
func (d *decoder) skipRegion() error {
	size, err := d.r.ReadShort()
	if err != nil {
		return err
	}
	if _, err := quickdraw.ReadRect(d.r); err != nil {
		return err
	}
	rest := int(size) - 10
	if rest < 0 {
		return errors.New("pict: region size smaller than its own header")
	}
	return d.r.Skip(rest)
}

// readCompressedQuickTime reads the QTImageCompMgr wrapper ahead of the
// embedded image_description: a discarded length, 38 reserved bytes, a
// matte size/rect pair, a source rect, and a mask size, before handing off
// to the configured QuickTimeDecoder. A matte image_description (when
// matte_size > 0) and a mask chunk (when mask_size > 0) precede the actual
// picture's own image_description and are skipped over rather than
// rendered, matching the original's matte/mask handling.
func (d *decoder) readCompressedQuickTime() error {
	if _, err := d.r.ReadLong(); err != nil { // length, unused: every field below is self-delimiting
		return err
	}
	if err := d.r.Skip(38); err != nil {
		return err
	}
	matteSize, err := d.r.ReadLong()
	if err != nil {
		return err
	}
	if _, err := quickdraw.ReadRect(d.r); err != nil { // matte_rect
		return err
	}
	if err := d.r.Skip(2); err != nil {
		return err
	}
	if _, err := quickdraw.ReadRect(d.r); err != nil { // source_rect
		return err
	}
	if err := d.r.Skip(4); err != nil {
		return err
	}
	maskSize, err := d.r.ReadLong()
	if err != nil {
		return err
	}

	if d.opts.QuickTimeDecoder == nil {
		d.logger.Warn("pict: skipping compressed_quicktime opcode, no decoder configured")
		return nil
	}

	if matteSize > 0 {
		if _, err := d.opts.QuickTimeDecoder(d.r, d.frame); err != nil {
			d.logger.Warn("pict: compressed_quicktime matte image description failed to decode", zap.Error(err))
		}
	}
	if maskSize > 0 {
		if err := d.r.Skip(int(maskSize)); err != nil {
			return err
		}
	}

	surface, err := d.opts.QuickTimeDecoder(d.r, d.frame)
	if err != nil {
		d.logger.Warn("pict: compressed_quicktime decode failed, leaving region blank", zap.Error(err))
		return nil
	}
	d.surface.Blit(surface, -int(d.origin.X), -int(d.origin.Y))
	return nil
}

func (d *decoder) readUncompressedQuickTime() error {
	size, err := d.r.ReadLong()
	if err != nil {
		return err
	}
	end := d.r.Position() + int(size)
	if _, err := d.r.ReadShort(); err != nil { // version
		return err
	}
	matteSize, err := d.r.ReadLong()
	if err != nil {
		return err
	}
	if err := d.r.Skip(int(matteSize)); err != nil {
		return err
	}
	remaining := end - d.r.Position()
	if remaining < 0 {
		return errors.New("pict: uncompressed_quicktime matte overruns its own chunk")
	}
	sub, err := d.r.ReadBytes(remaining)
	if err != nil {
		return err
	}
	picture, err := Decode(data.NewReader(data.NewBlockFromBytes(sub)), d.opts)
	if err != nil {
		d.logger.Warn("pict: nested uncompressed_quicktime picture failed to decode", zap.Error(err))
		return nil
	}
	d.surface.Blit(picture.Surface, -int(d.origin.X), -int(d.origin.Y))
	return nil
}

// runV1 tolerates the legacy 1-byte, non-word-aligned opcode stream just
// far enough to locate eof; PICT v1 pixel opcodes are not rendered (PICT
// is never emitted as v1).
func (d *decoder) runV1() error {
	for d.r.Remaining() > 0 {
		op, err := d.r.ReadByte()
		if err != nil {
			return err
		}
		if op == 0xFF {
			return nil
		}
		wide := uint16(op)
		if noOpcodes[wide] {
			continue
		}
		if n, ok := fixedSkip[wide]; ok {
			if err := d.r.Skip(n); err != nil {
				return err
			}
			continue
		}
		return &UnsupportedOpcodeError{Opcode: wide}
	}
	return nil
}
