package rsrc

import (
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/TheDiamondProject/graphite/data"
)

// Format identifies which of the three on-disk resource-file layouts a
// File was loaded from, or should be serialized to.
type Format int

const (
	FormatClassic Format = iota
	FormatExtended
	FormatRez
)

func (f Format) String() string {
	switch f {
	case FormatClassic:
		return "classic"
	case FormatExtended:
		return "extended"
	case FormatRez:
		return "rez"
	default:
		return "unknown"
	}
}

// File is a resource-fork container: an insertion-ordered map of type
// buckets, each an insertion-ordered set of identifier-keyed resources.
type File struct {
	source    *data.Block
	format    Format
	path      string
	types     map[TypeKey]*Type
	typeOrder []TypeKey
	log       *zap.Logger
}

// OpenOption configures Open.
type OpenOption func(*openConfig)

type openConfig struct {
	logger *zap.Logger
}

// WithLogger attaches a structured logger used for non-fatal diagnostics:
// debug records as each format driver is tried, rejected or accepted.
// Defaults to a no-op logger.
func WithLogger(l *zap.Logger) OpenOption {
	return func(c *openConfig) { c.logger = l }
}

// New creates an empty, in-memory resource file ready for AddResource and
// Save.
func New() *File {
	return &File{types: make(map[TypeKey]*Type), log: zap.NewNop()}
}

// Open loads a resource file from disk, auto-detecting its layout by
// trying extended, then Rez, then classic, in that order. The first
// driver whose magic and internal preamble validate wins.
func Open(path string, opts ...OpenOption) (*File, error) {
	cfg := openConfig{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&cfg)
	}

	block, err := data.NewBlockFromFile(path)
	if err != nil {
		return nil, err
	}
	return OpenBlock(block, path, cfg.logger)
}

// OpenBlock detects and parses a resource file already loaded into
// memory, useful for resource forks embedded in another container.
func OpenBlock(block *data.Block, path string, logger *zap.Logger) (*File, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	type driver struct {
		name  string
		parse func(*data.Block, *zap.Logger) (*File, error)
	}
	drivers := []driver{
		{"extended", parseExtended},
		{"rez", parseRez},
		{"classic", parseClassic},
	}

	for _, d := range drivers {
		f, err := d.parse(block, logger)
		if err == nil {
			f.source = block
			f.path = path
			logger.Debug("rsrc: detected format", zap.String("format", d.name), zap.String("path", path))
			return f, nil
		}
		if !errors.Is(err, errNotMyFormat) {
			return nil, errors.Wrapf(err, "rsrc: %s: %s driver", path, d.name)
		}
		logger.Debug("rsrc: format did not match, trying next", zap.String("format", d.name), zap.String("path", path))
	}
	return nil, errors.Wrapf(ErrMalformedResourceFile, "rsrc: %s: no driver recognized this file", path)
}

// Format returns the format the file was loaded from (or last saved as).
func (f *File) Format() Format { return f.format }

// Path returns the source path, if the file was loaded from or saved to
// one.
func (f *File) Path() string { return f.path }

// Types returns the bucket keys in insertion order.
func (f *File) Types() []TypeKey {
	out := make([]TypeKey, len(f.typeOrder))
	copy(out, f.typeOrder)
	return out
}

// TypeCodes returns the distinct 4-byte type codes present, in first-seen
// order (buckets qualified by different attributes but sharing a code
// appear once).
func (f *File) TypeCodes() []string {
	seen := make(map[string]bool)
	var out []string
	for _, key := range f.typeOrder {
		t := f.types[key]
		if !seen[t.Code] {
			seen[t.Code] = true
			out = append(out, t.Code)
		}
	}
	return out
}

// Type returns the bucket for a code and attribute set, if one exists.
func (f *File) Type(code string, attrs Attributes) (*Type, bool) {
	key := NewTypeKey(code, attrs)
	t, ok := f.types[key]
	return t, ok
}

// typeOrCreate returns the existing bucket for (code, attrs), creating and
// registering a new one (in insertion order) if absent.
func (f *File) typeOrCreate(code string, attrs Attributes) (*Type, error) {
	if _, err := normalizeCode(code); err != nil {
		return nil, err
	}
	key := NewTypeKey(code, attrs)
	if t, ok := f.types[key]; ok {
		return t, nil
	}
	t := newType(code, attrs)
	if f.types == nil {
		f.types = make(map[TypeKey]*Type)
	}
	f.types[key] = t
	f.typeOrder = append(f.typeOrder, key)
	return t, nil
}

// AddResource creates or grows the qualified bucket for typeCode and
// appends a new resource to it.
func (f *File) AddResource(typeCode string, id int64, name string, payload []byte, attrs Attributes) (*Resource, error) {
	t, err := f.typeOrCreate(typeCode, attrs)
	if err != nil {
		return nil, err
	}
	return t.AddResource(id, name, payload), nil
}

// Find resolves a resource by type code, id and (optional) attribute set.
func (f *File) Find(typeCode string, id int64, attrs Attributes) (*Resource, error) {
	t, ok := f.Type(typeCode, attrs)
	if !ok {
		return nil, errors.Wrapf(ErrResourceNotFound, "rsrc: type %q not present", typeCode)
	}
	r, ok := t.Find(id)
	if !ok {
		return nil, errors.Wrapf(ErrResourceNotFound, "rsrc: %s #%d", typeCode, id)
	}
	return r, nil
}

// Save serializes the file via the given format's persistence driver and
// writes it to path.
func (f *File) Save(path string, format Format) error {
	var block *data.Block
	var err error
	switch format {
	case FormatClassic:
		block, err = writeClassic(f)
	case FormatExtended:
		block, err = writeExtended(f)
	case FormatRez:
		block, err = writeRez(f)
	default:
		return errors.Errorf("rsrc: unknown format %d", format)
	}
	if err != nil {
		return err
	}
	w := data.NewWriter(block.Order(), block.Size())
	w.WriteData(block)
	if err := w.Save(path, -1); err != nil {
		return err
	}
	f.format = format
	f.path = path
	return nil
}
