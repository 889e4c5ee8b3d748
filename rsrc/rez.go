package rsrc

import (
	"bytes"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/TheDiamondProject/graphite/data"
)

// rezMagic opens every Rez resource file; the header section it introduces
// is little-endian, while the map that follows the data section switches to
// big-endian partway through parsing.
const rezMagic = "BRGR"
const rezVersion uint32 = 1

// rezEntryRecordSize is one little-endian header entry: data_offset,
// data_size and an unused field, each a u32. The header carries one entry
// per resource plus a trailing entry describing the map itself.
const rezEntryRecordSize = 4 + 4 + 4

// rezMapHeaderSize is the big-endian map's own fixed header: an unused u32
// and the type count.
const rezMapHeaderSize = 4 + 4

// rezTypeRecordSize is a type bucket's big-endian header: a 4-byte code,
// first_type_offset and count, each a u32.
const rezTypeRecordSize = 4 + 4 + 4

const rezNameFieldSize = 256

// rezResourceRecordSize is a big-endian per-resource map record: a 1-based
// global index, a 4-byte code duplicating the type bucket's, a signed id,
// and a fixed-width NUL-padded name.
const rezResourceRecordSize = 4 + 4 + 2 + rezNameFieldSize

// rezMapNameField is the literal, NUL-terminated marker separating the
// header's entry table from the resource data it describes.
var rezMapNameField = []byte("resource.map\x00")

type rezResourceRecord struct {
	id      int32
	name    string
	payload []byte
}

type rezTypeRecord struct {
	code      string
	resources []rezResourceRecord
}

type rezEntry struct {
	dataOffset uint32
	dataSize   uint32
}

// parseRez decodes the Rez compiler container format: a little-endian
// magic/version/header-length preamble, a table of little-endian data
// offset/size entries (one per resource, plus a trailing entry for the map
// itself), the literal marker "resource.map\0", the resource data, and
// finally a big-endian map of type buckets and fixed 266-byte resource
// records that name a resource's position in the entry table rather than
// carrying its data offset directly.
func parseRez(block *data.Block, logger *zap.Logger) (*File, error) {
	if block.Size() < 12 {
		return nil, errNotMyFormat
	}
	r := data.NewReader(block)

	magic, err := r.ReadBytes(4)
	if err != nil || string(magic) != rezMagic {
		return nil, errNotMyFormat
	}
	// The block is shared with the other drivers; put its byte order back
	// if this turns out not to be a Rez file after all.
	order := block.Order()
	r.Block().ChangeByteOrder(data.LittleEndian)
	version, err := r.ReadLong()
	if err != nil || version != rezVersion {
		block.ChangeByteOrder(order)
		return nil, errNotMyFormat
	}
	headerLength, err := r.ReadLong()
	if err != nil {
		block.ChangeByteOrder(order)
		return nil, errNotMyFormat
	}

	// The magic and version matched: we're committed to this driver now.
	if _, err := r.ReadLong(); err != nil { // unknown
		return nil, errors.Wrap(ErrMalformedResourceFile, "rsrc: rez: truncated header")
	}
	if _, err := r.ReadLong(); err != nil { // first index, always 1
		return nil, errors.Wrap(ErrMalformedResourceFile, "rsrc: rez: truncated header")
	}
	entryCount, err := r.ReadLong()
	if err != nil || entryCount == 0 {
		return nil, errors.Wrap(ErrMalformedResourceFile, "rsrc: rez: truncated header")
	}
	if expect := 12 + entryCount*rezEntryRecordSize + uint32(len(rezMapNameField)); expect != headerLength {
		return nil, errors.Wrap(ErrMalformedResourceFile, "rsrc: rez: header length mismatch")
	}

	entries := make([]rezEntry, entryCount)
	for i := range entries {
		dataOffset, err := r.ReadLong()
		if err != nil {
			return nil, errors.Wrap(ErrMalformedResourceFile, "rsrc: rez: truncated entry table")
		}
		dataSize, err := r.ReadLong()
		if err != nil {
			return nil, errors.Wrap(ErrMalformedResourceFile, "rsrc: rez: truncated entry table")
		}
		if _, err := r.ReadLong(); err != nil { // unknown
			return nil, errors.Wrap(ErrMalformedResourceFile, "rsrc: rez: truncated entry table")
		}
		entries[i] = rezEntry{dataOffset: dataOffset, dataSize: dataSize}
	}

	marker, err := r.ReadBytes(len(rezMapNameField))
	if err != nil || !bytes.Equal(marker, rezMapNameField) {
		return nil, errors.Wrap(ErrMalformedResourceFile, "rsrc: rez: missing resource.map marker")
	}

	// The trailing entry describes the map itself; the rest describe the
	// resources, in the same order their map records were written.
	mapEntry := entries[entryCount-1]
	resourceEntries := entries[:entryCount-1]

	if err := r.SetPosition(int(mapEntry.dataOffset)); err != nil {
		return nil, errors.Wrap(ErrMalformedResourceFile, "rsrc: rez: map offset out of range")
	}
	r.Block().ChangeByteOrder(data.BigEndian)

	if _, err := r.ReadLong(); err != nil { // unknown
		return nil, errors.Wrap(ErrMalformedResourceFile, "rsrc: rez: truncated map header")
	}
	typeCount, err := r.ReadLong()
	if err != nil {
		return nil, errors.Wrap(ErrMalformedResourceFile, "rsrc: rez: truncated map header")
	}

	mapBase := int(mapEntry.dataOffset)
	type typeHeader struct {
		code            string
		firstTypeOffset uint32
		count           uint32
	}
	headers := make([]typeHeader, typeCount)
	for i := range headers {
		codeBytes, err := r.ReadBytes(4)
		if err != nil {
			return nil, errors.Wrap(ErrMalformedResourceFile, "rsrc: rez: truncated type record")
		}
		firstTypeOffset, err := r.ReadLong()
		if err != nil {
			return nil, errors.Wrap(ErrMalformedResourceFile, "rsrc: rez: truncated type record")
		}
		count, err := r.ReadLong()
		if err != nil {
			return nil, errors.Wrap(ErrMalformedResourceFile, "rsrc: rez: truncated type record")
		}
		headers[i] = typeHeader{code: string(codeBytes), firstTypeOffset: firstTypeOffset, count: count}
	}

	f := New()
	for _, h := range headers {
		t, err := f.typeOrCreate(h.code, nil)
		if err != nil {
			return nil, errors.Wrap(ErrMalformedResourceFile, "rsrc: rez: invalid type code")
		}
		if err := r.SetPosition(mapBase + int(h.firstTypeOffset)); err != nil {
			return nil, errors.Wrap(ErrMalformedResourceFile, "rsrc: rez: type offset out of range")
		}
		for j := 0; j < int(h.count); j++ {
			index, err := r.ReadLong()
			if err != nil {
				return nil, errors.Wrap(ErrMalformedResourceFile, "rsrc: rez: truncated resource record")
			}
			if _, err := r.ReadBytes(4); err != nil { // type code, duplicated
				return nil, errors.Wrap(ErrMalformedResourceFile, "rsrc: rez: truncated resource record")
			}
			id, err := r.ReadSignedShort()
			if err != nil {
				return nil, errors.Wrap(ErrMalformedResourceFile, "rsrc: rez: truncated resource record")
			}
			nameField, err := r.ReadBytes(rezNameFieldSize)
			if err != nil {
				return nil, errors.Wrap(ErrMalformedResourceFile, "rsrc: rez: truncated resource record")
			}
			name := data.MacRomanToUTF8(trimNulPadding(nameField))

			if index == 0 || int(index) > len(resourceEntries) {
				return nil, errors.Wrap(ErrMalformedResourceFile, "rsrc: rez: resource index out of range")
			}
			entry := resourceEntries[index-1]

			r.SavePosition()
			payload, err := readRezDataBlob(r, int(entry.dataOffset), int(entry.dataSize))
			if err != nil {
				return nil, err
			}
			if err := r.RestorePosition(); err != nil {
				return nil, errors.Wrap(ErrMalformedResourceFile, "rsrc: rez: cursor stack underflow")
			}

			t.AddResource(int64(id), name, payload)
		}
	}

	f.format = FormatRez
	logger.Debug("rsrc: rez: parsed", zap.Int("types", int(typeCount)))
	return f, nil
}

func trimNulPadding(b []byte) []byte {
	if idx := indexByteSlice(b, 0); idx >= 0 {
		return b[:idx]
	}
	return b
}

func indexByteSlice(b []byte, c byte) int {
	for i, v := range b {
		if v == c {
			return i
		}
	}
	return -1
}

func readRezDataBlob(r *data.Reader, pos, size int) ([]byte, error) {
	if err := r.SetPosition(pos); err != nil {
		return nil, errors.Wrap(ErrMalformedResourceFile, "rsrc: rez: data offset out of range")
	}
	payload, err := r.ReadBytes(size)
	if err != nil {
		return nil, errors.Wrap(ErrMalformedResourceFile, "rsrc: rez: truncated resource data")
	}
	return payload, nil
}

// writeRez encodes f into the Rez layout. Bucket attributes are dropped
// (Rez has no attribute list, like classic) and names longer than 256
// MacRoman bytes are truncated to fit the fixed inline name field.
func writeRez(f *File) (*data.Block, error) {
	var types []rezTypeRecord
	for _, key := range f.typeOrder {
		t := f.types[key]
		tr := rezTypeRecord{code: t.Code}
		for _, res := range t.resources {
			if res.id < -32768 || res.id > 32767 {
				return nil, errors.Wrapf(ErrFormatOverflow, "rsrc: rez: id %d out of int16 range", res.id)
			}
			tr.resources = append(tr.resources, rezResourceRecord{
				id:      int32(res.id),
				name:    res.name,
				payload: res.Data(),
			})
		}
		types = append(types, tr)
	}

	resourceCount := 0
	for _, t := range types {
		resourceCount += len(t.resources)
	}
	entryCount := uint32(resourceCount + 1)
	headerLength := 12 + entryCount*rezEntryRecordSize + uint32(len(rezMapNameField))

	w := data.NewWriter(data.LittleEndian, 0)
	w.WriteBytes([]byte(rezMagic))
	w.WriteLong(rezVersion)
	w.WriteLong(headerLength)

	resourceOffset := uint32(w.Position()) + headerLength

	w.WriteLong(1) // unknown
	w.WriteLong(1) // first index
	w.WriteLong(entryCount)
	for _, t := range types {
		for _, res := range t.resources {
			size := uint32(len(res.payload))
			w.WriteLong(resourceOffset)
			w.WriteLong(size)
			w.WriteLong(0) // unknown
			resourceOffset += size
		}
	}

	typeCount := uint32(len(types))
	typeOffset := uint32(rezMapHeaderSize) + typeCount*rezTypeRecordSize
	mapLength := typeOffset + uint32(resourceCount)*rezResourceRecordSize

	w.WriteLong(resourceOffset) // the map's own entry: its data offset, ...
	w.WriteLong(mapLength)      // ...its length...
	w.WriteLong(12 + entryCount*rezEntryRecordSize) // ...and an unknown value

	w.WriteBytes(rezMapNameField)

	for _, t := range types {
		for _, res := range t.resources {
			w.WriteBytes(res.payload)
		}
	}

	w.Block().ChangeByteOrder(data.BigEndian)
	w.WriteLong(8) // unknown
	w.WriteLong(typeCount)

	for _, t := range types {
		w.WriteBytes([]byte(t.code))
		w.WriteLong(typeOffset)
		w.WriteLong(uint32(len(t.resources)))
		typeOffset += uint32(len(t.resources)) * rezResourceRecordSize
	}

	index := uint32(1)
	for _, t := range types {
		for _, res := range t.resources {
			w.WriteLong(index)
			index++
			w.WriteBytes([]byte(t.code))
			w.WriteSignedShort(int16(res.id))

			enc := data.UTF8ToMacRoman(res.name)
			if len(enc) > rezNameFieldSize {
				enc = enc[:rezNameFieldSize]
			}
			w.WriteBytes(enc)
			w.WriteBytes(make([]byte, rezNameFieldSize-len(enc)))
		}
	}

	return w.Block(), nil
}
