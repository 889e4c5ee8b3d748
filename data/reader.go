package data

import (
	"encoding/binary"

	"github.com/pkg/errors"
)

// Mode selects whether a read advances the reader's cursor past the value
// it returns (Advance, the default) or leaves the cursor untouched (Peek).
type Mode int

const (
	Advance Mode = iota
	Peek
)

// Fixed is a signed 16.16 fixed-point value, QuickDraw's native format for
// DPI ratios and a handful of other scalars.
type Fixed int32

// Float64 returns the fixed-point value as a float64.
func (f Fixed) Float64() float64 { return float64(f) / 65536.0 }

// Reader is a sequential, position-tracking cursor over a Block. Multiple
// Readers may be bound to the same Block, but a single Reader is not safe
// for concurrent use from more than one goroutine.
type Reader struct {
	block    *Block
	position int
	stack    []int
}

// NewReader binds a Reader to an existing Block, cursor at zero.
func NewReader(block *Block) *Reader {
	return &Reader{block: block}
}

// NewReaderFromFile loads path into an owning Block and binds a Reader to
// it.
func NewReaderFromFile(path string) (*Reader, error) {
	block, err := NewBlockFromFile(path)
	if err != nil {
		return nil, err
	}
	return NewReader(block), nil
}

// Block returns the underlying Block.
func (r *Reader) Block() *Block { return r.block }

// Size returns the total number of bytes available to the reader.
func (r *Reader) Size() int { return r.block.Size() }

// Position returns the current cursor position.
func (r *Reader) Position() int { return r.position }

// Remaining returns the number of unread bytes from the current position.
func (r *Reader) Remaining() int { return r.block.Size() - r.position }

// SetPosition moves the cursor to an absolute position.
func (r *Reader) SetPosition(pos int) error {
	if pos < 0 || pos > r.block.Size() {
		return errors.Wrapf(ErrCursorOutOfRange, "data: position %d out of [0,%d]", pos, r.block.Size())
	}
	r.position = pos
	return nil
}

// Skip advances the cursor by n bytes (n may be negative).
func (r *Reader) Skip(n int) error { return r.SetPosition(r.position + n) }

// SavePosition pushes the current cursor onto the LIFO position stack.
func (r *Reader) SavePosition() { r.stack = append(r.stack, r.position) }

// RestorePosition pops the most recently saved position and restores it.
func (r *Reader) RestorePosition() error {
	if len(r.stack) == 0 {
		return ErrStackEmpty
	}
	n := len(r.stack) - 1
	r.position = r.stack[n]
	r.stack = r.stack[:n]
	return nil
}

func (r *Reader) order() binary.ByteOrder {
	if r.block.Order() == LittleEndian {
		return binary.LittleEndian
	}
	return binary.BigEndian
}

// span returns the byte range [position+offset, position+offset+n) and
// advances the cursor past it unless mode is Peek.
func (r *Reader) span(offset, n int, mode Mode) ([]byte, error) {
	start := r.position + offset
	end := start + n
	if start < 0 || end > r.block.Size() {
		return nil, errors.Wrapf(ErrCursorOutOfRange, "data: read [%d:%d] exceeds size %d", start, end, r.block.Size())
	}
	out := r.block.data[start:end]
	if mode == Advance {
		r.position = end
	}
	return out, nil
}

// ReadByteAt reads a single byte at offset bytes from the cursor.
func (r *Reader) ReadByteAt(offset int, mode Mode) (byte, error) {
	b, err := r.span(offset, 1, mode)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// ReadByte reads and advances past a single byte.
func (r *Reader) ReadByte() (byte, error) { return r.ReadByteAt(0, Advance) }

// PeekByte reads a single byte without advancing the cursor.
func (r *Reader) PeekByte() (byte, error) { return r.ReadByteAt(0, Peek) }

// ReadSignedByteAt reads a signed byte.
func (r *Reader) ReadSignedByteAt(offset int, mode Mode) (int8, error) {
	b, err := r.ReadByteAt(offset, mode)
	return int8(b), err
}

// ReadShortAt reads a big/little-endian (per block order) uint16.
func (r *Reader) ReadShortAt(offset int, mode Mode) (uint16, error) {
	b, err := r.span(offset, 2, mode)
	if err != nil {
		return 0, err
	}
	return r.order().Uint16(b), nil
}

func (r *Reader) ReadShort() (uint16, error) { return r.ReadShortAt(0, Advance) }

// ReadSignedShortAt reads a signed 16-bit integer.
func (r *Reader) ReadSignedShortAt(offset int, mode Mode) (int16, error) {
	v, err := r.ReadShortAt(offset, mode)
	return int16(v), err
}

func (r *Reader) ReadSignedShort() (int16, error) { return r.ReadSignedShortAt(0, Advance) }

// ReadTripleAt reads exactly 3 bytes, zero-extended into a uint32.
func (r *Reader) ReadTripleAt(offset int, mode Mode) (uint32, error) {
	b, err := r.span(offset, 3, mode)
	if err != nil {
		return 0, err
	}
	if r.block.Order() == LittleEndian {
		return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16, nil
	}
	return uint32(b[2]) | uint32(b[1])<<8 | uint32(b[0])<<16, nil
}

func (r *Reader) ReadTriple() (uint32, error) { return r.ReadTripleAt(0, Advance) }

// ReadLongAt reads a uint32.
func (r *Reader) ReadLongAt(offset int, mode Mode) (uint32, error) {
	b, err := r.span(offset, 4, mode)
	if err != nil {
		return 0, err
	}
	return r.order().Uint32(b), nil
}

func (r *Reader) ReadLong() (uint32, error) { return r.ReadLongAt(0, Advance) }

// ReadSignedLongAt reads a signed 32-bit integer.
func (r *Reader) ReadSignedLongAt(offset int, mode Mode) (int32, error) {
	v, err := r.ReadLongAt(offset, mode)
	return int32(v), err
}

func (r *Reader) ReadSignedLong() (int32, error) { return r.ReadSignedLongAt(0, Advance) }

// ReadQuadAt reads a uint64.
func (r *Reader) ReadQuadAt(offset int, mode Mode) (uint64, error) {
	b, err := r.span(offset, 8, mode)
	if err != nil {
		return 0, err
	}
	return r.order().Uint64(b), nil
}

func (r *Reader) ReadQuad() (uint64, error) { return r.ReadQuadAt(0, Advance) }

// ReadSignedQuadAt reads a signed 64-bit integer.
func (r *Reader) ReadSignedQuadAt(offset int, mode Mode) (int64, error) {
	v, err := r.ReadQuadAt(offset, mode)
	return int64(v), err
}

func (r *Reader) ReadSignedQuad() (int64, error) { return r.ReadSignedQuadAt(0, Advance) }

// ReadFixedPointAt reads a signed 16.16 fixed-point value.
func (r *Reader) ReadFixedPointAt(offset int, mode Mode) (Fixed, error) {
	v, err := r.ReadSignedLongAt(offset, mode)
	return Fixed(v), err
}

func (r *Reader) ReadFixedPoint() (Fixed, error) { return r.ReadFixedPointAt(0, Advance) }

// ReadIntegerAt reads an arbitrary-width (1, 2, 4 or 8 byte) unsigned
// integer, dispatching on the declared width.
func (r *Reader) ReadIntegerAt(size, offset int, mode Mode) (uint64, error) {
	switch size {
	case 1:
		v, err := r.ReadByteAt(offset, mode)
		return uint64(v), err
	case 2:
		v, err := r.ReadShortAt(offset, mode)
		return uint64(v), err
	case 4:
		v, err := r.ReadLongAt(offset, mode)
		return uint64(v), err
	case 8:
		return r.ReadQuadAt(offset, mode)
	default:
		return 0, errors.Errorf("data: unsupported integer width %d", size)
	}
}

func (r *Reader) ReadInteger(size int) (uint64, error) { return r.ReadIntegerAt(size, 0, Advance) }

// ReadEnum is an alias of ReadInteger: on-disk enums are plain
// fixed-width integers dispatched on their declared size.
func (r *Reader) ReadEnum(size int) (uint64, error) { return r.ReadInteger(size) }

// ReadPString reads a length-prefixed MacRoman string (one length byte,
// then that many MacRoman bytes) and decodes it to UTF-8.
func (r *Reader) ReadPString() (string, error) {
	n, err := r.ReadByte()
	if err != nil {
		return "", err
	}
	raw, err := r.span(0, int(n), Advance)
	if err != nil {
		return "", err
	}
	return MacRomanToUTF8(raw), nil
}

// ReadCString reads a NUL-terminated string. If length is 0 it scans
// forward until a NUL byte (consuming the NUL); otherwise it reads exactly
// length bytes and, for string interpretation, stops at the first NUL
// found within them.
func (r *Reader) ReadCString(length int) (string, error) {
	if length == 0 {
		start := r.position
		for {
			b, err := r.ReadByte()
			if err != nil {
				return "", err
			}
			if b == 0 {
				return string(r.block.data[start : r.position-1]), nil
			}
		}
	}
	raw, err := r.span(0, length, Advance)
	if err != nil {
		return "", err
	}
	if idx := indexByte(raw, 0); idx >= 0 {
		raw = raw[:idx]
	}
	return string(raw), nil
}

func indexByte(b []byte, c byte) int {
	for i, v := range b {
		if v == c {
			return i
		}
	}
	return -1
}

// ReadData returns a zero-copy borrowed sub-slice of length n at the
// current cursor, advancing past it.
func (r *Reader) ReadData(n int) (*Block, error) {
	start := r.position
	if _, err := r.span(0, n, Advance); err != nil {
		return nil, err
	}
	return r.block.Slice(start, n)
}

// ReadBytes returns a freshly-copied slice of length n at the current
// cursor, advancing past it.
func (r *Reader) ReadBytes(n int) ([]byte, error) {
	b, err := r.span(0, n, Advance)
	if err != nil {
		return nil, err
	}
	out := make([]byte, n)
	copy(out, b)
	return out, nil
}

// Constructable is implemented by types that know how to read themselves
// from a Reader.
type Constructable interface {
	ReadFrom(r *Reader) error
}

// Read constructs a T (which must be a pointer type implementing
// Constructable) and has it consume bytes from r.
func Read[T Constructable](r *Reader, v T) error { return v.ReadFrom(r) }

// Decompressor decodes a compressed span of length n starting at the
// reader's cursor, returning the expanded bytes and leaving the cursor
// past the compressed span (not the expanded one).
type Decompressor interface {
	Decompress(compressed []byte) ([]byte, error)
}

// ReadCompressedData decompresses len bytes in place via codec.
func (r *Reader) ReadCompressedData(length int, codec Decompressor) ([]byte, error) {
	raw, err := r.span(0, length, Advance)
	if err != nil {
		return nil, err
	}
	return codec.Decompress(raw)
}
