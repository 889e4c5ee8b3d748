package rsrc

import (
	"encoding/binary"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/TheDiamondProject/graphite/data"
)

// extendedVersion is the sole format discriminator parseExtended has: a
// bare u64 version marker, not a magic string. No other persistence driver
// shares this header shape, so version != 1 is enough to rule the driver
// out rather than treat it as a malformed extended file.
const extendedVersion uint64 = 1

// extendedHeaderSize is the version quad plus the four-quad data/map
// offset/length preamble that follows it.
const extendedHeaderSize = 8 + 4*8

// extendedDefaultDataOffset is where newly written files start their data
// section; the gap between the header and it is zero-padded.
const extendedDefaultDataOffset = 256

// extendedMapHeaderSize is the map's fixed-width header: the four-quad
// preamble mirror (without the version quad), 6 reserved bytes, a flags
// short, and the type/name/attribute list offset quads.
const extendedMapHeaderSize = 4*8 + 6 + 2 + 8 + 8 + 8

// extendedTypeRecordSize is a type bucket's fixed-width header: a 4-byte
// code, count-1, resource_offset, attribute_count and attribute_offset,
// each a quad.
const extendedTypeRecordSize = 4 + 8 + 8 + 8 + 8

// extendedResourceRecordSize is a resource record's fixed width: id,
// name_offset and data_offset quads, a single attribute byte, and a
// reserved long. Unlike classic, there is no padding to an 8-byte boundary.
const extendedResourceRecordSize = 8 + 8 + 1 + 8 + 4

type extendedResourceRecord struct {
	id         int64
	name       string
	hasName    bool
	dataOffset uint64
	payload    []byte
}

type extendedTypeRecord struct {
	code      string
	attrs     Attributes
	resources []extendedResourceRecord
}

// parseExtended decodes the extended 64-bit resource-fork layout: a
// version-tagged header widened to 64-bit offsets and lengths, a map whose
// type buckets point at a separate attribute list rather than inlining
// attributes, and fixed 29-byte resource records.
func parseExtended(block *data.Block, logger *zap.Logger) (*File, error) {
	if block.Size() < extendedHeaderSize {
		return nil, errNotMyFormat
	}
	r := data.NewReader(block)

	version, err := r.ReadQuad()
	if err != nil || version != extendedVersion {
		return nil, errNotMyFormat
	}
	dataOffset, _ := r.ReadQuad()
	mapOffset, _ := r.ReadQuad()
	dataLength, _ := r.ReadQuad()
	mapLength, _ := r.ReadQuad()

	if dataOffset < extendedHeaderSize {
		return nil, errNotMyFormat
	}
	if mapOffset != dataOffset+dataLength {
		return nil, errNotMyFormat
	}
	if dataOffset+dataLength+mapLength > uint64(block.Size()) {
		return nil, errNotMyFormat
	}

	// From here on the preamble has committed us to the extended driver;
	// any further inconsistency is a malformed file, not a format miss.
	if err := r.SetPosition(int(mapOffset)); err != nil {
		return nil, errors.Wrap(ErrMalformedResourceFile, "rsrc: extended: map offset out of range")
	}
	mDataOffset, _ := r.ReadQuad()
	mMapOffset, _ := r.ReadQuad()
	mDataLength, _ := r.ReadQuad()
	mMapLength, _ := r.ReadQuad()
	if mDataOffset != dataOffset || mMapOffset != mapOffset || mDataLength != dataLength || mMapLength != mapLength {
		return nil, errors.Wrap(ErrMalformedResourceFile, "rsrc: extended: map preamble mirror mismatch")
	}

	if err := r.Skip(6); err != nil { // reserved
		return nil, errors.Wrap(ErrMalformedResourceFile, "rsrc: extended: truncated map header")
	}
	if _, err := r.ReadShort(); err != nil { // flags
		return nil, errors.Wrap(ErrMalformedResourceFile, "rsrc: extended: truncated map header")
	}
	typeListOffsetRel, err := r.ReadQuad()
	if err != nil {
		return nil, errors.Wrap(ErrMalformedResourceFile, "rsrc: extended: truncated map header")
	}
	nameListOffsetRel, err := r.ReadQuad()
	if err != nil {
		return nil, errors.Wrap(ErrMalformedResourceFile, "rsrc: extended: truncated map header")
	}
	attributeListAbsolute, err := r.ReadQuad()
	if err != nil {
		return nil, errors.Wrap(ErrMalformedResourceFile, "rsrc: extended: truncated map header")
	}

	typeListBase := int(mapOffset) + int(typeListOffsetRel)
	nameListBase := int(mapOffset) + int(nameListOffsetRel)

	if err := r.SetPosition(typeListBase); err != nil {
		return nil, errors.Wrap(ErrMalformedResourceFile, "rsrc: extended: type list offset out of range")
	}
	typeCountMinusOne, err := r.ReadQuad()
	if err != nil {
		return nil, errors.Wrap(ErrMalformedResourceFile, "rsrc: extended: truncated type list")
	}
	typeCount := int(typeCountMinusOne) + 1

	type typeHeader struct {
		code              string
		resCountMinusOne  uint64
		resourceOffsetRel uint64
		attrCount         uint64
		attrOffsetRel     uint64
	}
	headers := make([]typeHeader, typeCount)
	for i := 0; i < typeCount; i++ {
		codeBytes, err := r.ReadBytes(4)
		if err != nil {
			return nil, errors.Wrap(ErrMalformedResourceFile, "rsrc: extended: truncated type header")
		}
		resCountMinusOne, err := r.ReadQuad()
		if err != nil {
			return nil, errors.Wrap(ErrMalformedResourceFile, "rsrc: extended: truncated type header")
		}
		resourceOffsetRel, err := r.ReadQuad()
		if err != nil {
			return nil, errors.Wrap(ErrMalformedResourceFile, "rsrc: extended: truncated type header")
		}
		attrCount, err := r.ReadQuad()
		if err != nil {
			return nil, errors.Wrap(ErrMalformedResourceFile, "rsrc: extended: truncated type header")
		}
		attrOffsetRel, err := r.ReadQuad()
		if err != nil {
			return nil, errors.Wrap(ErrMalformedResourceFile, "rsrc: extended: truncated type header")
		}
		headers[i] = typeHeader{
			code:              string(codeBytes),
			resCountMinusOne:  resCountMinusOne,
			resourceOffsetRel: resourceOffsetRel,
			attrCount:         attrCount,
			attrOffsetRel:     attrOffsetRel,
		}
	}

	f := New()
	for _, h := range headers {
		attrs := make(Attributes, h.attrCount)
		if h.attrCount > 0 {
			if err := r.SetPosition(int(attributeListAbsolute + h.attrOffsetRel)); err != nil {
				return nil, errors.Wrap(ErrMalformedResourceFile, "rsrc: extended: attribute list offset out of range")
			}
			for a := 0; a < int(h.attrCount); a++ {
				k, err := r.ReadCString(0)
				if err != nil {
					return nil, errors.Wrap(ErrMalformedResourceFile, "rsrc: extended: truncated attribute")
				}
				v, err := r.ReadCString(0)
				if err != nil {
					return nil, errors.Wrap(ErrMalformedResourceFile, "rsrc: extended: truncated attribute")
				}
				attrs[k] = v
			}
		}

		t, err := f.typeOrCreate(h.code, attrs)
		if err != nil {
			return nil, errors.Wrap(ErrMalformedResourceFile, "rsrc: extended: invalid type code")
		}

		resCount := int(h.resCountMinusOne) + 1
		if err := r.SetPosition(typeListBase + int(h.resourceOffsetRel)); err != nil {
			return nil, errors.Wrap(ErrMalformedResourceFile, "rsrc: extended: resource list offset out of range")
		}
		for j := 0; j < resCount; j++ {
			id, err := r.ReadSignedQuad()
			if err != nil {
				return nil, errors.Wrap(ErrMalformedResourceFile, "rsrc: extended: truncated resource record")
			}
			nameOffset, err := r.ReadQuad()
			if err != nil {
				return nil, errors.Wrap(ErrMalformedResourceFile, "rsrc: extended: truncated resource record")
			}
			if _, err := r.ReadByte(); err != nil { // per-resource attribute byte, not persisted
				return nil, errors.Wrap(ErrMalformedResourceFile, "rsrc: extended: truncated resource record")
			}
			dataOff, err := r.ReadQuad()
			if err != nil {
				return nil, errors.Wrap(ErrMalformedResourceFile, "rsrc: extended: truncated resource record")
			}
			if _, err := r.ReadLong(); err != nil { // reserved
				return nil, errors.Wrap(ErrMalformedResourceFile, "rsrc: extended: truncated resource record")
			}

			r.SavePosition()
			payload, err := readExtendedDataBlob(r, int(dataOffset+dataOff))
			if err != nil {
				return nil, err
			}
			name := ""
			if nameOffset != ^uint64(0) {
				name, err = readExtendedName(r, nameListBase+int(nameOffset))
				if err != nil {
					return nil, err
				}
			}
			if err := r.RestorePosition(); err != nil {
				return nil, errors.Wrap(ErrMalformedResourceFile, "rsrc: extended: cursor stack underflow")
			}

			t.AddResource(id, name, payload)
		}
	}

	f.format = FormatExtended
	logger.Debug("rsrc: extended: parsed", zap.Int("types", typeCount))
	return f, nil
}

func readExtendedDataBlob(r *data.Reader, pos int) ([]byte, error) {
	if err := r.SetPosition(pos); err != nil {
		return nil, errors.Wrap(ErrMalformedResourceFile, "rsrc: extended: data offset out of range")
	}
	length, err := r.ReadQuad()
	if err != nil {
		return nil, errors.Wrap(ErrMalformedResourceFile, "rsrc: extended: truncated data length")
	}
	payload, err := r.ReadBytes(int(length))
	if err != nil {
		return nil, errors.Wrap(ErrMalformedResourceFile, "rsrc: extended: truncated resource data")
	}
	return payload, nil
}

func readExtendedName(r *data.Reader, pos int) (string, error) {
	if err := r.SetPosition(pos); err != nil {
		return "", errors.Wrap(ErrMalformedResourceFile, "rsrc: extended: name offset out of range")
	}
	name, err := r.ReadPString()
	if err != nil {
		return "", errors.Wrap(ErrMalformedResourceFile, "rsrc: extended: truncated resource name")
	}
	return name, nil
}

// writeExtended encodes f into the extended 64-bit layout. Attributes live
// in a dedicated section referenced by each type bucket's attribute_count
// and attribute_offset rather than being inlined into the type record, and
// every resource record is a fixed, unpadded 29 bytes.
func writeExtended(f *File) (*data.Block, error) {
	var types []extendedTypeRecord
	dataCursor := uint64(0)
	var dataSection []byte

	for _, key := range f.typeOrder {
		t := f.types[key]
		tr := extendedTypeRecord{code: t.Code, attrs: t.Attributes}
		for _, res := range t.resources {
			payload := res.Data()
			blob := make([]byte, 8+len(payload))
			binary.BigEndian.PutUint64(blob[:8], uint64(len(payload)))
			copy(blob[8:], payload)

			tr.resources = append(tr.resources, extendedResourceRecord{
				id:         res.id,
				name:       res.name,
				hasName:    res.name != "",
				dataOffset: dataCursor,
				payload:    payload,
			})
			dataCursor += uint64(len(blob))
			dataSection = append(dataSection, blob...)
		}
		types = append(types, tr)
	}
	dataLength := dataCursor

	totalResources := 0
	for _, t := range types {
		totalResources += len(t.resources)
	}
	typeListSize := 8 + len(types)*extendedTypeRecordSize // type_count-1 quad + type records
	resourceListSize := totalResources * extendedResourceRecordSize
	nameListOffsetRel := uint64(extendedMapHeaderSize + typeListSize + resourceListSize)

	// Name list: pstr entries for named resources only, addressed by a
	// running offset shared across the whole file, not reset per type.
	var nameSection []byte
	nameCursor := uint64(0)
	nameOffsets := make([][]uint64, len(types))
	for ti, t := range types {
		nameOffsets[ti] = make([]uint64, len(t.resources))
		for ri, res := range t.resources {
			if !res.hasName {
				nameOffsets[ti][ri] = ^uint64(0)
				continue
			}
			enc := data.UTF8ToMacRoman(res.name)
			if len(enc) > 255 {
				enc = enc[:255]
			}
			nameOffsets[ti][ri] = nameCursor
			nameSection = append(nameSection, byte(len(enc)))
			nameSection = append(nameSection, enc...)
			nameCursor += uint64(1 + len(enc))
		}
	}

	// Attribute list: (cstr name, cstr value) pairs, type-ordered; each
	// type's attribute_offset is the running byte count into this section
	// as of that type, accumulated across all types in file order.
	var attrSection []byte
	attrOffsets := make([]uint64, len(types))
	attrCursor := uint64(0)
	for ti, t := range types {
		attrOffsets[ti] = attrCursor
		for k, v := range t.attrs {
			attrSection = append(attrSection, []byte(k)...)
			attrSection = append(attrSection, 0)
			attrSection = append(attrSection, []byte(v)...)
			attrSection = append(attrSection, 0)
			attrCursor += uint64(len(k) + 1 + len(v) + 1)
		}
	}

	mapHeaderAndListsSize := extendedMapHeaderSize + typeListSize + resourceListSize + len(nameSection)
	mapLength := uint64(mapHeaderAndListsSize + len(attrSection))

	dataOffset := uint64(extendedDefaultDataOffset)
	mapOffset := dataOffset + dataLength
	attributeListAbsolute := mapOffset + uint64(mapHeaderAndListsSize)

	w := data.NewWriter(data.BigEndian, int(mapOffset+mapLength))

	w.WriteQuad(extendedVersion)
	w.WriteQuad(dataOffset)
	w.WriteQuad(mapOffset)
	w.WriteQuad(dataLength)
	w.WriteQuad(mapLength)
	w.PadToSize(int(dataOffset))
	w.WriteBytes(dataSection)

	// The map's own preamble mirror carries no version quad.
	w.WriteQuad(dataOffset)
	w.WriteQuad(mapOffset)
	w.WriteQuad(dataLength)
	w.WriteQuad(mapLength)
	w.WriteBytes(make([]byte, 6)) // reserved
	w.WriteShort(0)               // flags
	w.WriteQuad(uint64(extendedMapHeaderSize)) // type_list_offset, relative to map_offset
	w.WriteQuad(nameListOffsetRel)             // name_list_offset, relative to map_offset
	w.WriteQuad(attributeListAbsolute)         // attribute_list_offset, absolute

	w.WriteQuad(uint64(len(types) - 1))
	resourceOffsetRel := uint64(8 + len(types)*extendedTypeRecordSize)
	for ti, t := range types {
		w.WriteBytes([]byte(t.code))
		w.WriteQuad(uint64(len(t.resources) - 1))
		w.WriteQuad(resourceOffsetRel)
		w.WriteQuad(uint64(len(t.attrs)))
		w.WriteQuad(attrOffsets[ti])
		resourceOffsetRel += uint64(len(t.resources) * extendedResourceRecordSize)
	}
	for ti, t := range types {
		for ri, res := range t.resources {
			w.WriteSignedQuad(res.id)
			w.WriteQuad(nameOffsets[ti][ri])
			w.WriteByte(0) // per-resource attribute byte, not persisted
			w.WriteQuad(res.dataOffset)
			w.WriteLong(0) // reserved
		}
	}
	w.WriteBytes(nameSection)
	w.WriteBytes(attrSection)

	return w.Block(), nil
}
