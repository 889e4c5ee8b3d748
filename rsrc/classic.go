package rsrc

import (
	"encoding/binary"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/TheDiamondProject/graphite/data"
)

// classicMaxOffset is the largest value a 24-bit data offset can hold; a
// data section longer than this fails to write in this format.
const classicMaxOffset = 1<<24 - 1

type classicResourceRecord struct {
	id         int16
	name       string
	nameOffset uint16
	hasName    bool
	attr       uint8
	dataOffset uint32
	payload    []byte
}

type classicTypeRecord struct {
	code      string
	attrs     Attributes
	resources []classicResourceRecord
}

// parseClassic decodes the classic 24-bit resource-fork layout: a 16-byte
// preamble naming the data and map sections, mirrored at the start of the
// map, followed by a type list and per-type resource records.
func parseClassic(block *data.Block, logger *zap.Logger) (*File, error) {
	if block.Size() < 16 {
		return nil, errNotMyFormat
	}
	r := data.NewReader(block)

	dataOffset, err := r.ReadLong()
	if err != nil {
		return nil, errNotMyFormat
	}
	mapOffset, err := r.ReadLong()
	if err != nil {
		return nil, errNotMyFormat
	}
	dataLength, err := r.ReadLong()
	if err != nil {
		return nil, errNotMyFormat
	}
	mapLength, err := r.ReadLong()
	if err != nil {
		return nil, errNotMyFormat
	}

	if dataOffset < 16 {
		return nil, errNotMyFormat
	}
	if mapOffset != dataOffset+dataLength {
		return nil, errNotMyFormat
	}
	if uint64(dataOffset)+uint64(dataLength)+uint64(mapLength) > uint64(block.Size()) {
		return nil, errNotMyFormat
	}

	// From here on the preamble has committed us to the classic driver;
	// any further inconsistency is a malformed file, not a format miss.
	if err := r.SetPosition(int(mapOffset)); err != nil {
		return nil, errors.Wrap(ErrMalformedResourceFile, "rsrc: classic: map offset out of range")
	}
	mDataOffset, _ := r.ReadLong()
	mMapOffset, _ := r.ReadLong()
	mDataLength, _ := r.ReadLong()
	mMapLength, _ := r.ReadLong()
	mirrorIsZero := mDataOffset == 0 && mMapOffset == 0 && mDataLength == 0 && mMapLength == 0
	mirrorMatches := mDataOffset == dataOffset && mMapOffset == mapOffset && mDataLength == dataLength && mMapLength == mapLength
	if !mirrorIsZero && !mirrorMatches {
		return nil, errors.Wrap(ErrMalformedResourceFile, "rsrc: classic: map preamble mirror mismatch")
	}

	if err := r.Skip(6); err != nil { // next-map handle, file ref num
		return nil, errors.Wrap(ErrMalformedResourceFile, "rsrc: classic: truncated map header")
	}
	if _, err := r.ReadShort(); err != nil { // attributes (unused at file scope)
		return nil, errors.Wrap(ErrMalformedResourceFile, "rsrc: classic: truncated map header")
	}
	typeListOffsetRel, err := r.ReadShort()
	if err != nil {
		return nil, errors.Wrap(ErrMalformedResourceFile, "rsrc: classic: truncated map header")
	}
	nameListOffsetRel, err := r.ReadShort()
	if err != nil {
		return nil, errors.Wrap(ErrMalformedResourceFile, "rsrc: classic: truncated map header")
	}

	typeListBase := int(mapOffset) + int(typeListOffsetRel)
	nameListBase := int(mapOffset) + int(nameListOffsetRel)

	if err := r.SetPosition(typeListBase); err != nil {
		return nil, errors.Wrap(ErrMalformedResourceFile, "rsrc: classic: type list offset out of range")
	}
	typeCountMinusOne, err := r.ReadShort()
	if err != nil {
		return nil, errors.Wrap(ErrMalformedResourceFile, "rsrc: classic: truncated type list")
	}
	typeCount := int(typeCountMinusOne) + 1

	type typeHeader struct {
		code          string
		resCountMin1  uint16
		firstResOffRel uint16
	}
	headers := make([]typeHeader, typeCount)
	for i := 0; i < typeCount; i++ {
		codeBytes, err := r.ReadBytes(4)
		if err != nil {
			return nil, errors.Wrap(ErrMalformedResourceFile, "rsrc: classic: truncated type list")
		}
		resCountMin1, err := r.ReadShort()
		if err != nil {
			return nil, errors.Wrap(ErrMalformedResourceFile, "rsrc: classic: truncated type list")
		}
		firstResOffRel, err := r.ReadShort()
		if err != nil {
			return nil, errors.Wrap(ErrMalformedResourceFile, "rsrc: classic: truncated type list")
		}
		headers[i] = typeHeader{code: string(codeBytes), resCountMin1: resCountMin1, firstResOffRel: firstResOffRel}
	}

	f := New()
	for _, h := range headers {
		resCount := int(h.resCountMin1) + 1
		if err := r.SetPosition(typeListBase + int(h.firstResOffRel)); err != nil {
			return nil, errors.Wrap(ErrMalformedResourceFile, "rsrc: classic: resource list offset out of range")
		}
		t, err := f.typeOrCreate(h.code, nil)
		if err != nil {
			return nil, errors.Wrap(ErrMalformedResourceFile, "rsrc: classic: invalid type code")
		}
		for i := 0; i < resCount; i++ {
			id, err := r.ReadSignedShort()
			if err != nil {
				return nil, errors.Wrap(ErrMalformedResourceFile, "rsrc: classic: truncated resource record")
			}
			nameOffset, err := r.ReadShort()
			if err != nil {
				return nil, errors.Wrap(ErrMalformedResourceFile, "rsrc: classic: truncated resource record")
			}
			if _, err := r.ReadByte(); err != nil { // per-resource attribute byte
				return nil, errors.Wrap(ErrMalformedResourceFile, "rsrc: classic: truncated resource record")
			}
			dataOff, err := r.ReadTriple()
			if err != nil {
				return nil, errors.Wrap(ErrMalformedResourceFile, "rsrc: classic: truncated resource record")
			}
			if err := r.Skip(4); err != nil { // handle, unused on disk
				return nil, errors.Wrap(ErrMalformedResourceFile, "rsrc: classic: truncated resource record")
			}

			r.SavePosition()
			payload, err := readClassicDataBlob(r, int(dataOffset)+int(dataOff))
			if err != nil {
				return nil, err
			}
			name := ""
			if nameOffset != 0xFFFF {
				name, err = readClassicName(r, nameListBase+int(nameOffset))
				if err != nil {
					return nil, err
				}
			}
			if err := r.RestorePosition(); err != nil {
				return nil, errors.Wrap(ErrMalformedResourceFile, "rsrc: classic: cursor stack underflow")
			}

			t.AddResource(int64(id), name, payload)
		}
	}

	f.format = FormatClassic
	logger.Debug("rsrc: classic: parsed", zap.Int("types", typeCount))
	return f, nil
}

func readClassicDataBlob(r *data.Reader, pos int) ([]byte, error) {
	if err := r.SetPosition(pos); err != nil {
		return nil, errors.Wrap(ErrMalformedResourceFile, "rsrc: classic: data offset out of range")
	}
	length, err := r.ReadLong()
	if err != nil {
		return nil, errors.Wrap(ErrMalformedResourceFile, "rsrc: classic: truncated data length")
	}
	payload, err := r.ReadBytes(int(length))
	if err != nil {
		return nil, errors.Wrap(ErrMalformedResourceFile, "rsrc: classic: truncated resource data")
	}
	return payload, nil
}

func readClassicName(r *data.Reader, pos int) (string, error) {
	if err := r.SetPosition(pos); err != nil {
		return "", errors.Wrap(ErrMalformedResourceFile, "rsrc: classic: name offset out of range")
	}
	name, err := r.ReadPString()
	if err != nil {
		return "", errors.Wrap(ErrMalformedResourceFile, "rsrc: classic: truncated resource name")
	}
	return name, nil
}

// writeClassic encodes f into the classic 24-bit layout. Every bucket must
// carry no attributes (the classic map has no room to record them) and
// every id must fit in an int16, or the write is refused.
func writeClassic(f *File) (*data.Block, error) {
	var types []classicTypeRecord
	dataCursor := uint32(0)
	var dataSection []byte

	for _, key := range f.typeOrder {
		t := f.types[key]
		if len(t.Attributes) != 0 {
			return nil, errors.Wrapf(ErrFormatOverflow, "rsrc: classic: type %q has attributes, unrepresentable in this format", t.Code)
		}
		tr := classicTypeRecord{code: t.Code, attrs: t.Attributes}
		for _, res := range t.resources {
			if res.id < -32768 || res.id > 32767 {
				return nil, errors.Wrapf(ErrFormatOverflow, "rsrc: classic: id %d out of int16 range", res.id)
			}
			payload := res.Data()

			blob := make([]byte, 4+len(payload))
			binary.BigEndian.PutUint32(blob[:4], uint32(len(payload)))
			copy(blob[4:], payload)

			rec := classicResourceRecord{
				id:         int16(res.id),
				name:       res.name,
				hasName:    res.name != "",
				dataOffset: dataCursor,
				payload:    payload,
			}
			dataCursor += uint32(len(blob))
			dataSection = append(dataSection, blob...)
			tr.resources = append(tr.resources, rec)
		}
		types = append(types, tr)
	}

	dataLength := uint32(len(dataSection))
	if dataLength > classicMaxOffset {
		return nil, errors.Wrap(ErrFormatOverflow, "rsrc: classic: data section exceeds 24-bit addressing")
	}

	const mapHeaderSize = 28
	typeListHeaderSize := 2 + 8*len(types)
	totalResources := 0
	for _, t := range types {
		totalResources += len(t.resources)
	}
	nameListOffsetRel := uint16(mapHeaderSize + typeListHeaderSize + totalResources*12)

	nameOffsets := make([][]uint16, len(types))
	var nameSection []byte
	nameCursor := uint16(0)
	for ti, t := range types {
		nameOffsets[ti] = make([]uint16, len(t.resources))
		for ri, res := range t.resources {
			if !res.hasName {
				nameOffsets[ti][ri] = 0xFFFF
				continue
			}
			enc := data.UTF8ToMacRoman(res.name)
			if len(enc) > 255 {
				enc = enc[:255]
			}
			nameOffsets[ti][ri] = nameCursor
			nameSection = append(nameSection, byte(len(enc)))
			nameSection = append(nameSection, enc...)
			nameCursor += uint16(1 + len(enc))
		}
	}

	mapLength := uint32(mapHeaderSize+typeListHeaderSize+totalResources*12) + uint32(len(nameSection))

	dataOffset := uint32(16)
	mapOffset := dataOffset + dataLength

	total := int(mapOffset) + int(mapLength)
	w := data.NewWriter(data.BigEndian, total)

	w.WriteLong(dataOffset)
	w.WriteLong(mapOffset)
	w.WriteLong(dataLength)
	w.WriteLong(mapLength)
	w.WriteBytes(dataSection)

	w.WriteLong(dataOffset)
	w.WriteLong(mapOffset)
	w.WriteLong(dataLength)
	w.WriteLong(mapLength)
	w.WriteLong(0) // next-map handle
	w.WriteShort(0) // file ref num
	w.WriteShort(0) // attributes
	w.WriteShort(uint16(mapHeaderSize))
	w.WriteShort(nameListOffsetRel)

	w.WriteShort(uint16(len(types) - 1))
	resOffsetRel := uint16(typeListHeaderSize)
	for _, t := range types {
		w.WriteBytes([]byte(t.code))
		w.WriteShort(uint16(len(t.resources) - 1))
		w.WriteShort(resOffsetRel)
		resOffsetRel += uint16(len(t.resources) * 12)
	}
	for ti, t := range types {
		for ri, res := range t.resources {
			w.WriteSignedShort(res.id)
			w.WriteShort(nameOffsets[ti][ri])
			w.WriteByte(0) // per-resource attribute byte
			w.WriteTriple(res.dataOffset)
			w.WriteLong(0) // handle, unused on disk
		}
	}
	w.WriteBytes(nameSection)

	return w.Block(), nil
}
