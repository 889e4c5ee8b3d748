package font

import (
	"github.com/TheDiamondProject/graphite/data"
)

// Association ties a point size and style bitmask to the `FOND`/`NFNT`
// resource id that actually renders it.
type Association struct {
	PointSize int16
	Style     int16
	ID        int16
}

// KernPair is a single kerning adjustment between two characters for one
// style.
type KernPair struct {
	Char1  uint8
	Char2  uint8
	Offset int16
}

// StyleKerning holds every kerning pair recorded for one style bitmask.
type StyleKerning struct {
	Style int16
	Pairs []KernPair
}

// StyleWidths holds the fixed-point glyph width table for one style
// bitmask, indexed by character code from FirstChar through LastChar+2 (the
// trailing two entries are the family's default and missing-glyph widths).
type StyleWidths struct {
	Style     int16
	WidthTabs map[int]uint16
}

// Descriptor is a decoded `FOND` resource: a font family's association,
// width, and kerning tables. Classic Mac OS consulted this to pick which
// bitmap or outline resource rendered a given point size and style.
type Descriptor struct {
	Fixed    bool
	FamilyID int16
	First    int16
	Last     int16

	Ascent  int16
	Descent int16
	Leading int16
	WidMax  int16

	Associations []Association
	Widths       []StyleWidths
	Kerning      []StyleKerning
}

// DecodeDescriptor parses a `FOND` resource body.
func DecodeDescriptor(r *data.Reader) (*Descriptor, error) {
	flags, err := r.ReadShort()
	if err != nil {
		return nil, err
	}
	familyID, err := r.ReadSignedShort()
	if err != nil {
		return nil, err
	}
	first, err := r.ReadSignedShort()
	if err != nil {
		return nil, err
	}
	last, err := r.ReadSignedShort()
	if err != nil {
		return nil, err
	}
	ascent, err := r.ReadSignedShort()
	if err != nil {
		return nil, err
	}
	descent, err := r.ReadSignedShort()
	if err != nil {
		return nil, err
	}
	leading, err := r.ReadSignedShort()
	if err != nil {
		return nil, err
	}
	widMax, err := r.ReadSignedShort()
	if err != nil {
		return nil, err
	}
	widOff, err := r.ReadSignedLong()
	if err != nil {
		return nil, err
	}
	kernOff, err := r.ReadSignedLong()
	if err != nil {
		return nil, err
	}
	styleOff, err := r.ReadSignedLong()
	if err != nil {
		return nil, err
	}
	// 9 reserved shorts (bounding box, glyph-width table pointers kept only
	// in memory by the original toolbox), a reserved long, and a reserved
	// short ahead of the association table.
	if err := r.Skip(2*9 + 4 + 2); err != nil {
		return nil, err
	}

	desc := &Descriptor{
		Fixed:    flags&0x8000 != 0,
		FamilyID: familyID,
		First:    first,
		Last:     last,
		Ascent:   ascent,
		Descent:  descent,
		Leading:  leading,
		WidMax:   widMax,
	}

	assocCount, err := r.ReadSignedShort()
	if err != nil {
		return nil, err
	}
	desc.Associations = make([]Association, int(assocCount)+1)
	for i := range desc.Associations {
		size, err := r.ReadSignedShort()
		if err != nil {
			return nil, err
		}
		style, err := r.ReadSignedShort()
		if err != nil {
			return nil, err
		}
		id, err := r.ReadSignedShort()
		if err != nil {
			return nil, err
		}
		desc.Associations[i] = Association{PointSize: size, Style: style, ID: id}
	}

	if widOff != 0 {
		if err := r.SetPosition(int(widOff)); err != nil {
			return nil, err
		}
		widths, err := decodeWidthTables(r, int(first), int(last))
		if err != nil {
			return nil, err
		}
		desc.Widths = widths
	}

	if kernOff != 0 {
		if err := r.SetPosition(int(kernOff)); err != nil {
			return nil, err
		}
		kerning, err := decodeKerningTables(r)
		if err != nil {
			return nil, err
		}
		desc.Kerning = kerning
	}

	// styleOff leads to the PostScript glyph-name substitution table, used
	// only by PostScript printer drivers picking an outline font to
	// substitute for a bitmap family; out of scope here (no printing).
	_ = styleOff

	return desc, nil
}

func decodeWidthTables(r *data.Reader, first, last int) ([]StyleWidths, error) {
	count, err := r.ReadSignedShort()
	if err != nil {
		return nil, err
	}
	tables := make([]StyleWidths, int(count)+1)
	for i := range tables {
		style, err := r.ReadSignedShort()
		if err != nil {
			return nil, err
		}
		tabs := make(map[int]uint16, last-first+3)
		for ch := first; ch <= last+2; ch++ {
			width, err := r.ReadShort()
			if err != nil {
				return nil, err
			}
			tabs[ch] = width
		}
		tables[i] = StyleWidths{Style: style, WidthTabs: tabs}
	}
	return tables, nil
}

func decodeKerningTables(r *data.Reader) ([]StyleKerning, error) {
	count, err := r.ReadSignedShort()
	if err != nil {
		return nil, err
	}
	tables := make([]StyleKerning, int(count)+1)
	for i := range tables {
		style, err := r.ReadSignedShort()
		if err != nil {
			return nil, err
		}
		pairCount, err := r.ReadShort()
		if err != nil {
			return nil, err
		}
		pairs := make([]KernPair, pairCount)
		for j := range pairs {
			ch1, err := r.ReadByte()
			if err != nil {
				return nil, err
			}
			ch2, err := r.ReadByte()
			if err != nil {
				return nil, err
			}
			offset, err := r.ReadSignedShort()
			if err != nil {
				return nil, err
			}
			pairs[j] = KernPair{Char1: ch1, Char2: ch2, Offset: offset}
		}
		tables[i] = StyleKerning{Style: style, Pairs: pairs}
	}
	return tables, nil
}
