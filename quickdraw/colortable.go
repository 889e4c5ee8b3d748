package quickdraw

import "github.com/TheDiamondProject/graphite/data"

// DeviceFlag marks a clut as device-dependent rather than pixmap-indexed;
// when set, decoded entries are positioned by their sequential order in
// the table rather than by their serialized index field.
const DeviceFlag uint16 = 0x8000

// ColorTableEntry pairs a palette index with its color.
type ColorTableEntry struct {
	Index uint16
	Color Color
}

// ColorTable is a `clut` resource: an ordered palette with a seed and a
// flag word, looked up by sequential scan since tables are always small.
type ColorTable struct {
	Seed    uint32
	Flags   uint16
	Entries []ColorTableEntry
}

// ReadColorTable decodes a `clut` resource body.
func ReadColorTable(r *data.Reader) (*ColorTable, error) {
	seed, err := r.ReadLong()
	if err != nil {
		return nil, err
	}
	flags, err := r.ReadShort()
	if err != nil {
		return nil, err
	}
	countMinusOne, err := r.ReadShort()
	if err != nil {
		return nil, err
	}
	count := int(countMinusOne) + 1

	ct := &ColorTable{Seed: seed, Flags: flags, Entries: make([]ColorTableEntry, count)}
	device := flags&DeviceFlag != 0
	for i := 0; i < count; i++ {
		idx, err := r.ReadShort()
		if err != nil {
			return nil, err
		}
		rr, err := r.ReadShort()
		if err != nil {
			return nil, err
		}
		gg, err := r.ReadShort()
		if err != nil {
			return nil, err
		}
		bb, err := r.ReadShort()
		if err != nil {
			return nil, err
		}
		pos := idx
		if device {
			pos = uint16(i)
		}
		ct.Entries[i] = ColorTableEntry{
			Index: pos,
			Color: Color{R: word16To8(rr), G: word16To8(gg), B: word16To8(bb), A: 0xFF},
		}
	}
	return ct, nil
}

// WriteTo encodes the color table back to its on-disk form.
func (t *ColorTable) WriteTo(w *data.Writer) {
	w.WriteLong(t.Seed)
	w.WriteShort(t.Flags)
	w.WriteShort(uint16(len(t.Entries) - 1))
	for _, e := range t.Entries {
		w.WriteShort(e.Index)
		w.WriteShort(byte8To16(e.Color.R))
		w.WriteShort(byte8To16(e.Color.G))
		w.WriteShort(byte8To16(e.Color.B))
	}
}

// Len returns the number of entries in the table.
func (t *ColorTable) Len() int { return len(t.Entries) }

// At performs a sequential scan for the entry at the given palette index.
func (t *ColorTable) At(index uint16) (Color, bool) {
	for _, e := range t.Entries {
		if e.Index == index {
			return e.Color, true
		}
	}
	return Color{}, false
}

// Set returns the index of an existing entry with an exact color match, or
// appends c at the next free index. Repeated calls with the same color are
// idempotent.
func (t *ColorTable) Set(c Color) uint16 {
	for _, e := range t.Entries {
		if e.Color.Uint32() == c.Uint32() {
			return e.Index
		}
	}
	next := uint16(0)
	for _, e := range t.Entries {
		if e.Index >= next {
			next = e.Index + 1
		}
	}
	t.Entries = append(t.Entries, ColorTableEntry{Index: next, Color: c})
	return next
}
