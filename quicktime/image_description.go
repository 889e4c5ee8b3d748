// Package quicktime decodes QuickTime `image_description` atoms and their
// pixel payload sub-codecs: QuickTime Animation (`rle `), planar `8BPS`,
// uncompressed `raw `, and nested QuickDraw pictures (`qdrw`).
package quicktime

import (
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/TheDiamondProject/graphite/data"
	"github.com/TheDiamondProject/graphite/quickdraw"
	"github.com/TheDiamondProject/graphite/quickdraw/pict"
)

// ErrUnsupportedCompressor is returned for any compressor FourCC outside
// {'rle ', '8BPS', 'raw ', 'qdrw'}.
var ErrUnsupportedCompressor = errors.New("quicktime: unsupported compressor")

// UnsupportedCompressorError carries the offending FourCC.
type UnsupportedCompressorError struct {
	FourCC string
}

func (e *UnsupportedCompressorError) Error() string {
	return errors.Wrapf(ErrUnsupportedCompressor, "%q", e.FourCC).Error()
}

func (e *UnsupportedCompressorError) Unwrap() error { return ErrUnsupportedCompressor }

// ClutLookup resolves an external color table by resource id, used when an
// image_description's clut_id is positive rather than inline (0).
type ClutLookup func(id int16) (*quickdraw.ColorTable, error)

// ImageDescription is a decoded image_description atom header.
type ImageDescription struct {
	Compressor string
	Width      int
	Height     int
	Depth      int
	Grayscale  bool
	ColorTable *quickdraw.ColorTable
	DataSize   int
}

// DecodeOptions configures Decode.
type DecodeOptions struct {
	Logger     *zap.Logger
	ClutLookup ClutLookup
}

func fourCC(v uint32) string {
	return string([]byte{byte(v >> 24), byte(v >> 16), byte(v >> 8), byte(v)})
}

// readHeader parses the fixed 86-byte image_description prefix and, when
// clut_id == 0, the inline clut that immediately follows it.
func readHeader(r *data.Reader, opts DecodeOptions) (*ImageDescription, error) {
	if _, err := r.ReadSignedLong(); err != nil { // atom length, unused: data_size governs payload extent
		return nil, err
	}
	compressor, err := r.ReadLong()
	if err != nil {
		return nil, err
	}
	if err := r.Skip(8); err != nil {
		return nil, err
	}
	if _, err := r.ReadLong(); err != nil { // version, unused
		return nil, err
	}
	if err := r.Skip(12); err != nil {
		return nil, err
	}
	width, err := r.ReadSignedShort()
	if err != nil {
		return nil, err
	}
	height, err := r.ReadSignedShort()
	if err != nil {
		return nil, err
	}
	if err := r.Skip(8); err != nil {
		return nil, err
	}
	dataSize, err := r.ReadSignedLong()
	if err != nil {
		return nil, err
	}
	if err := r.Skip(34); err != nil {
		return nil, err
	}
	depth, err := r.ReadSignedShort()
	if err != nil {
		return nil, err
	}
	clutID, err := r.ReadSignedShort()
	if err != nil {
		return nil, err
	}

	desc := &ImageDescription{
		Compressor: fourCC(compressor),
		Width:      int(width),
		Height:     int(height),
		Depth:      int(depth),
		DataSize:   int(dataSize),
	}
	if desc.Depth > 32 {
		desc.Grayscale = true
		desc.Depth -= 32
	}

	if clutID == 0 {
		ct, err := quickdraw.ReadColorTable(r)
		if err != nil {
			return nil, errors.Wrap(err, "quicktime: inline clut")
		}
		desc.ColorTable = ct
	} else if clutID > 0 {
		if opts.ClutLookup == nil {
			return nil, errors.Errorf("quicktime: clut_id %d requires a ClutLookup", clutID)
		}
		ct, err := opts.ClutLookup(clutID)
		if err != nil {
			return nil, errors.Wrapf(err, "quicktime: resolving clut_id %d", clutID)
		}
		desc.ColorTable = ct
	}

	return desc, nil
}

// Decode parses an image_description atom and decodes its pixel payload
// into a surface, dispatching to the sub-codec named by the compressor
// FourCC. A 'qdrw' payload is a nested PICT, decoded via pict.Decode
// directly since quicktime already depends on pict (pict cannot depend
// back on quicktime without a cycle, which is why its own embedded-PICT
// hook for compressed_quicktime takes an injected callback instead).
func Decode(r *data.Reader, opts DecodeOptions) (*quickdraw.Surface, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	desc, err := readHeader(r, opts)
	if err != nil {
		return nil, err
	}

	switch desc.Compressor {
	case "rle ":
		return decodeAnimation(r, desc)
	case "8BPS":
		return decodePlanar(r, desc)
	case "raw ":
		return decodeRaw(r, desc)
	case "qdrw":
		picture, err := pict.Decode(r, pict.DecodeOptions{Logger: logger})
		if err != nil {
			return nil, errors.Wrap(err, "quicktime: nested qdrw picture")
		}
		return picture.Surface, nil
	default:
		return nil, &UnsupportedCompressorError{FourCC: desc.Compressor}
	}
}
