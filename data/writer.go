package data

import (
	"encoding/binary"
	"os"

	"github.com/pkg/errors"
)

// Writer is a sequential cursor over an owning Block that grows the block
// as needed. Unlike Reader, a Writer always owns the Block it was
// constructed around (NewWriter allocates one) so that ExpandStorage has
// somewhere to grow into.
type Writer struct {
	block    *Block
	position int
}

// NewWriter allocates a fresh owning Block of the given initial capacity
// and binds a Writer to it.
func NewWriter(order ByteOrder, initialCapacity int) *Writer {
	b := NewBlock(initialCapacity)
	b.data = b.raw[:0]
	b.order = order
	return &Writer{block: b}
}

// Block returns the underlying Block.
func (w *Writer) Block() *Block { return w.block }

// Position returns the current write cursor.
func (w *Writer) Position() int { return w.position }

// Size returns the number of bytes written so far.
func (w *Writer) Size() int { return w.block.Size() }

func (w *Writer) order() binary.ByteOrder {
	if w.block.Order() == LittleEndian {
		return binary.LittleEndian
	}
	return binary.BigEndian
}

// ensureRequiredSpace grows the block's raw capacity, if necessary, so that
// n more bytes can be appended without reallocating again immediately.
func (w *Writer) ensureRequiredSpace(n int) {
	need := w.position + n
	if need <= cap(w.block.raw) {
		return
	}
	newCap := alignedCapacity(need * 2)
	grown := make([]byte, newCap)
	copy(grown, w.block.raw[:w.block.Size()])
	w.block.raw = grown
}

// ExpandStorage grows the writer's owned block by at least n bytes of raw
// capacity ahead of the current size.
func (w *Writer) ExpandStorage(n int) { w.ensureRequiredSpace(n) }

func (w *Writer) put(b []byte) {
	w.ensureRequiredSpace(len(b))
	end := w.position + len(b)
	if end > w.block.Size() {
		w.block.data = w.block.raw[:end]
	}
	copy(w.block.data[w.position:end], b)
	w.position = end
}

// WriteByte writes a single byte.
func (w *Writer) WriteByte(v byte) error {
	w.put([]byte{v})
	return nil
}

// WriteSignedByte writes a signed byte.
func (w *Writer) WriteSignedByte(v int8) { w.put([]byte{byte(v)}) }

// WriteShort writes a uint16 in the block's byte order.
func (w *Writer) WriteShort(v uint16) {
	var b [2]byte
	w.order().PutUint16(b[:], v)
	w.put(b[:])
}

// WriteSignedShort writes an int16.
func (w *Writer) WriteSignedShort(v int16) { w.WriteShort(uint16(v)) }

// WriteTriple writes exactly 3 bytes of v (the low 24 bits).
func (w *Writer) WriteTriple(v uint32) {
	if w.block.Order() == LittleEndian {
		w.put([]byte{byte(v), byte(v >> 8), byte(v >> 16)})
		return
	}
	w.put([]byte{byte(v >> 16), byte(v >> 8), byte(v)})
}

// WriteLong writes a uint32.
func (w *Writer) WriteLong(v uint32) {
	var b [4]byte
	w.order().PutUint32(b[:], v)
	w.put(b[:])
}

// WriteSignedLong writes an int32.
func (w *Writer) WriteSignedLong(v int32) { w.WriteLong(uint32(v)) }

// WriteQuad writes a uint64.
func (w *Writer) WriteQuad(v uint64) {
	var b [8]byte
	w.order().PutUint64(b[:], v)
	w.put(b[:])
}

// WriteSignedQuad writes an int64.
func (w *Writer) WriteSignedQuad(v int64) { w.WriteQuad(uint64(v)) }

// WriteFixedPoint writes a 16.16 fixed-point value.
func (w *Writer) WriteFixedPoint(v Fixed) { w.WriteSignedLong(int32(v)) }

// WriteEnum writes v using the given byte width (1, 2, 4 or 8).
func (w *Writer) WriteEnum(v uint64, size int) error {
	switch size {
	case 1:
		return w.WriteByte(byte(v))
	case 2:
		w.WriteShort(uint16(v))
	case 4:
		w.WriteLong(uint32(v))
	case 8:
		w.WriteQuad(v)
	default:
		return errors.Errorf("data: unsupported enum width %d", size)
	}
	return nil
}

// WritePString writes a length-prefixed MacRoman string, truncating the
// MacRoman encoding to 255 bytes if necessary.
func (w *Writer) WritePString(s string) {
	enc := UTF8ToMacRoman(s)
	if len(enc) > 255 {
		enc = enc[:255]
	}
	w.WriteByte(byte(len(enc)))
	w.put(enc)
}

// WriteCString writes a fixed-length NUL-padded string when length > 0, or
// the string plus a single trailing NUL when length == 0.
func (w *Writer) WriteCString(s string, length int) {
	b := []byte(s)
	if length == 0 {
		w.put(b)
		w.WriteByte(0)
		return
	}
	if len(b) > length {
		b = b[:length]
	}
	w.put(b)
	for i := len(b); i < length; i++ {
		w.WriteByte(0)
	}
}

// WriteBytes appends raw bytes verbatim.
func (w *Writer) WriteBytes(b []byte) { w.put(b) }

// WriteData appends the contents of another Block verbatim.
func (w *Writer) WriteData(b *Block) { w.put(b.Bytes()) }

// PadToSize pads the writer with zero bytes until its size reaches n. A
// no-op if the writer is already at or past n.
func (w *Writer) PadToSize(n int) {
	if n <= w.Size() {
		return
	}
	w.put(make([]byte, n-w.Size()))
}

// Save writes the first size bytes (or the whole block, if size < 0) to
// path.
func (w *Writer) Save(path string, size int) error {
	data := w.block.Bytes()
	if size >= 0 && size < len(data) {
		data = data[:size]
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrapf(ErrIoWrite, "data: %s: %v", path, err)
	}
	return nil
}
