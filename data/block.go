// Package data implements the byte-block and reader/writer primitives that
// every resource-fork and QuickDraw/Sound-Manager codec in this module is
// built on: an endian-aware, optionally-owning contiguous memory block, and
// a pair of sequential cursors (Reader, Writer) bound to one.
package data

import (
	"os"

	"github.com/pkg/errors"
)

// ByteOrder identifies the wire byte order a Block's contents are encoded
// in. It is distinct from the host's native order; Reader/Writer swap on
// demand when the two differ.
type ByteOrder int

const (
	BigEndian ByteOrder = iota
	LittleEndian
)

// Block is a scoped, optionally-owning contiguous byte buffer with an
// attached byte order. A Block produced by Slice shares its parent's
// backing array, so the parent stays alive for as long as any slice of
// it is reachable.
type Block struct {
	raw   []byte // full raw backing array; len(raw) is the aligned raw capacity
	data  []byte // logical view into raw; len(data) is the logical size
	order ByteOrder
	owns  bool // true if this Block resulted from an allocation/load, not a Slice
}

// alignedCapacity rounds n up to the next multiple of simdWidth so that
// block storage starts on a SIMD-friendly boundary.
func alignedCapacity(n int) int {
	if n <= 0 {
		return simdWidth
	}
	if rem := n % simdWidth; rem != 0 {
		n += simdWidth - rem
	}
	return n
}

// NewBlock allocates an owning Block of the given logical size, backed by
// an aligned-capacity buffer, defaulting to big-endian (the classic
// resource-fork order).
func NewBlock(size int) *Block {
	raw := make([]byte, alignedCapacity(size))
	return &Block{raw: raw, data: raw[:size], order: BigEndian, owns: true}
}

// NewBlockFromBytes copies b into a new owning Block.
func NewBlockFromBytes(b []byte) *Block {
	blk := NewBlock(len(b))
	copy(blk.data, b)
	return blk
}

// NewBlockFromRaw wraps an existing slice without copying. If own is true
// the Block is treated as owning (IncreaseSizeTo may grow it up to its
// existing capacity); if false it behaves like a borrowed Slice.
func NewBlockFromRaw(raw []byte, own bool) *Block {
	return &Block{raw: raw, data: raw, order: BigEndian, owns: own}
}

// NewBlockFromFile loads an entire file into a new owning Block.
func NewBlockFromFile(path string) (*Block, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(ErrIoOpen, "data: %s: %v", path, err)
	}
	return NewBlockFromBytes(b), nil
}

// Clone returns a deep, independently-owned copy of the block.
func (b *Block) Clone() *Block {
	out := NewBlock(b.Size())
	copy(out.data, b.data)
	out.order = b.order
	return out
}

// Slice returns a zero-copy borrowed view over b's backing array, covering
// [offset, offset+length). The returned Block inherits b's byte order and
// does not own its storage; its capacity equals its length, so
// IncreaseSizeTo cannot grow it.
func (b *Block) Slice(offset, length int) (*Block, error) {
	if offset < 0 || length < 0 || offset+length > b.Size() {
		return nil, errors.Wrapf(ErrCapacityExceeded, "data: slice [%d:%d] exceeds size %d", offset, offset+length, b.Size())
	}
	sub := b.data[offset : offset+length : offset+length]
	return &Block{raw: sub, data: sub, order: b.order, owns: false}, nil
}

// Bytes returns the block's logical contents. Callers must not retain a
// mutated view past the block's lifetime without cloning.
func (b *Block) Bytes() []byte { return b.data }

// Size returns the logical size in bytes.
func (b *Block) Size() int { return len(b.data) }

// Capacity returns the raw (aligned) backing capacity.
func (b *Block) Capacity() int { return cap(b.raw) }

// Owns reports whether this Block owns its backing storage, as opposed to
// borrowing a sub-slice of another Block.
func (b *Block) Owns() bool { return b.owns }

// Order returns the block's attached byte order.
func (b *Block) Order() ByteOrder { return b.order }

// ChangeByteOrder updates the block's attached byte order in place. Any
// Reader/Writer bound to this block will recompute their swap decision on
// their next read/write.
func (b *Block) ChangeByteOrder(order ByteOrder) { b.order = order }

// IncreaseSizeTo grows the logical size without reallocating, failing if n
// exceeds the raw capacity. Only meaningful on owning blocks; borrowed
// slices have no spare capacity to grow into by construction.
func (b *Block) IncreaseSizeTo(n int) error {
	if n < 0 || n > cap(b.raw) {
		return errors.Wrapf(ErrCapacityExceeded, "data: cannot grow to %d (raw capacity %d)", n, cap(b.raw))
	}
	b.data = b.raw[:n]
	return nil
}

// Set bulk-fills count bytes starting at offset with value.
func (b *Block) Set(value byte, count, offset int) error {
	if offset < 0 || count < 0 || offset+count > b.Size() {
		return errors.Wrapf(ErrCapacityExceeded, "data: set [%d:%d] exceeds size %d", offset, offset+count, b.Size())
	}
	region := b.data[offset : offset+count]
	// Fill by repeatedly doubling the already-filled prefix with copy; no
	// hand-rolled SIMD tail is used.
	if len(region) > 0 {
		region[0] = value
		for i := 1; i < len(region); i *= 2 {
			copy(region[i:], region[:i])
		}
	}
	return nil
}
