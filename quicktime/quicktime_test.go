package quicktime

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/TheDiamondProject/graphite/data"
	"github.com/TheDiamondProject/graphite/quickdraw"
)

func writeHeader(w *data.Writer, compressor string, width, height, depth int16, dataSize int32, clut *quickdraw.ColorTable) {
	w.WriteSignedLong(0) // atom length
	w.WriteLong(uint32(compressor[0])<<24 | uint32(compressor[1])<<16 | uint32(compressor[2])<<8 | uint32(compressor[3]))
	w.WriteBytes(make([]byte, 8))
	w.WriteLong(0) // version
	w.WriteBytes(make([]byte, 12))
	w.WriteSignedShort(width)
	w.WriteSignedShort(height)
	w.WriteBytes(make([]byte, 8))
	w.WriteSignedLong(dataSize)
	w.WriteBytes(make([]byte, 34))
	w.WriteSignedShort(depth)
	w.WriteSignedShort(0) // clut_id == 0: inline clut follows
	clut.WriteTo(w)
}

func twoEntryClut() *quickdraw.ColorTable {
	return &quickdraw.ColorTable{
		Seed:  1,
		Flags: 0,
		Entries: []quickdraw.ColorTableEntry{
			{Index: 0, Color: quickdraw.RGB(0, 0, 0)},
			{Index: 1, Color: quickdraw.RGB(255, 255, 255)},
		},
	}
}

func TestDecodeRawPalette(t *testing.T) {
	w := data.NewWriter(data.BigEndian, 0)
	writeHeader(w, "raw ", 2, 1, 8, 2, twoEntryClut())
	w.WriteBytes([]byte{1, 0})

	surface, err := Decode(data.NewReader(w.Block()), DecodeOptions{})
	require.NoError(t, err)
	require.Equal(t, quickdraw.RGB(255, 255, 255), surface.At(0, 0))
	require.Equal(t, quickdraw.RGB(0, 0, 0), surface.At(1, 0))
}

func TestDecodeUnsupportedCompressor(t *testing.T) {
	w := data.NewWriter(data.BigEndian, 0)
	writeHeader(w, "zzzz", 1, 1, 8, 0, twoEntryClut())

	_, err := Decode(data.NewReader(w.Block()), DecodeOptions{})
	require.Error(t, err)
	var unsupported *UnsupportedCompressorError
	require.ErrorAs(t, err, &unsupported)
	require.Equal(t, "zzzz", unsupported.FourCC)
}

func TestDecodePlanar8BitRaw(t *testing.T) {
	w := data.NewWriter(data.BigEndian, 0)
	// prelude: one chct atom (atom_size u32, atom_type, atom_value), data_size covers
	// the 1-channel 2x2 raw payload that follows.
	dataSize := int32(4)
	writeHeader(w, "8BPS", 2, 2, 8, dataSize, twoEntryClut())
	w.WriteLong(10) // atom_size
	w.WriteLong(uint32('c')<<24 | uint32('h')<<16 | uint32('c')<<8 | uint32('t'))
	w.WriteShort(1) // channel count
	w.WriteBytes([]byte{1, 0, 0, 1})

	surface, err := Decode(data.NewReader(w.Block()), DecodeOptions{})
	require.NoError(t, err)
	require.Equal(t, quickdraw.RGB(255, 255, 255), surface.At(0, 0))
	require.Equal(t, quickdraw.RGB(0, 0, 0), surface.At(1, 0))
	require.Equal(t, quickdraw.RGB(0, 0, 0), surface.At(0, 1))
	require.Equal(t, quickdraw.RGB(255, 255, 255), surface.At(1, 1))
}

func TestDecodeAnimationLiteralRun(t *testing.T) {
	w := data.NewWriter(data.BigEndian, 0)
	writeHeader(w, "rle ", 2, 1, 8, 0, twoEntryClut())
	w.WriteLong(0)  // chunk_size, unused by the decoder
	w.WriteShort(0) // header, no explicit starting row
	w.WriteByte(1)  // skip: start at x=0
	w.WriteSignedByte(1)
	w.WriteBytes([]byte{1, 0, 1, 0}) // one 4-index literal group (8bpp groups of 4)
	w.WriteSignedByte(0)             // inner-loop exit
	w.WriteByte(0)                   // end of frame

	surface, err := decodeAnimation(data.NewReader(w.Block()), &ImageDescription{
		Compressor: "rle ", Width: 4, Height: 1, Depth: 8, ColorTable: twoEntryClut(),
	})
	require.NoError(t, err)
	require.Equal(t, quickdraw.RGB(255, 255, 255), surface.At(0, 0))
	require.Equal(t, quickdraw.RGB(0, 0, 0), surface.At(1, 0))
	require.Equal(t, quickdraw.RGB(255, 255, 255), surface.At(2, 0))
	require.Equal(t, quickdraw.RGB(0, 0, 0), surface.At(3, 0))
}
