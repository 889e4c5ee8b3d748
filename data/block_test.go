package data

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBlockSliceIsZeroCopy(t *testing.T) {
	blk := NewBlockFromBytes([]byte("hello world"))
	sub, err := blk.Slice(6, 5)
	require.NoError(t, err)
	require.Equal(t, "world", string(sub.Bytes()))
	require.False(t, sub.Owns())

	// Mutating the parent's backing array is visible through the slice,
	// proving no copy was made.
	blk.Bytes()[6] = 'W'
	require.Equal(t, "World", string(sub.Bytes()))
}

func TestBlockSliceOutOfRange(t *testing.T) {
	blk := NewBlock(4)
	_, err := blk.Slice(2, 10)
	require.Error(t, err)
}

func TestBlockCloneIsIndependent(t *testing.T) {
	blk := NewBlockFromBytes([]byte{1, 2, 3})
	clone := blk.Clone()
	clone.Bytes()[0] = 99
	require.Equal(t, byte(1), blk.Bytes()[0])
	require.True(t, clone.Owns())
}

func TestBlockIncreaseSizeTo(t *testing.T) {
	blk := NewBlock(4)
	require.NoError(t, blk.IncreaseSizeTo(blk.Capacity()))
	err := blk.IncreaseSizeTo(blk.Capacity() + 1)
	require.ErrorIs(t, err, ErrCapacityExceeded)
}

func TestBlockSet(t *testing.T) {
	blk := NewBlock(6)
	require.NoError(t, blk.Set(0xAB, 6, 0))
	for _, v := range blk.Bytes() {
		require.Equal(t, byte(0xAB), v)
	}
}

func TestAlignedCapacityRoundsUp(t *testing.T) {
	blk := NewBlock(1)
	require.Equal(t, simdWidth, blk.Capacity())
}
