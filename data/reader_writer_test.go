package data

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestByteOrderRoundTrip checks that, for every arithmetic width, writing
// then reading back under both big- and little-endian order recovers the
// value that was written.
func TestByteOrderRoundTrip(t *testing.T) {
	widths := []struct {
		name  string
		write func(w *Writer, v uint64)
		read  func(r *Reader) (uint64, error)
		value uint64
	}{
		{"byte", func(w *Writer, v uint64) { w.WriteByte(byte(v)) }, func(r *Reader) (uint64, error) { v, err := r.ReadByte(); return uint64(v), err }, 0xAB},
		{"short", func(w *Writer, v uint64) { w.WriteShort(uint16(v)) }, func(r *Reader) (uint64, error) { v, err := r.ReadShort(); return uint64(v), err }, 0xABCD},
		{"long", func(w *Writer, v uint64) { w.WriteLong(uint32(v)) }, func(r *Reader) (uint64, error) { v, err := r.ReadLong(); return uint64(v), err }, 0xDEADBEEF},
		{"quad", func(w *Writer, v uint64) { w.WriteQuad(v) }, func(r *Reader) (uint64, error) { return r.ReadQuad() }, 0x0123456789ABCDEF},
	}

	for _, order := range []ByteOrder{BigEndian, LittleEndian} {
		for _, wd := range widths {
			w := NewWriter(order, 8)
			wd.write(w, wd.value)
			w.block.ChangeByteOrder(order)
			r := NewReader(w.Block())
			got, err := wd.read(r)
			require.NoError(t, err)
			require.Equalf(t, wd.value, got, "width=%s order=%v", wd.name, order)
		}
	}
}

func TestReaderPositionStack(t *testing.T) {
	r := NewReader(NewBlockFromBytes([]byte{1, 2, 3, 4}))
	r.SavePosition()
	require.NoError(t, r.SetPosition(3))
	require.NoError(t, r.RestorePosition())
	require.Equal(t, 0, r.Position())
	require.ErrorIs(t, r.RestorePosition(), ErrStackEmpty)
}

func TestReaderCursorOutOfRange(t *testing.T) {
	r := NewReader(NewBlockFromBytes([]byte{1, 2}))
	err := r.SetPosition(10)
	require.ErrorIs(t, err, ErrCursorOutOfRange)
}

func TestReaderTriple(t *testing.T) {
	w := NewWriter(BigEndian, 4)
	w.WriteTriple(0x00ABCDEF)
	r := NewReader(w.Block())
	v, err := r.ReadTriple()
	require.NoError(t, err)
	require.Equal(t, uint32(0xABCDEF), v)
}

func TestReaderPStringRoundTrip(t *testing.T) {
	w := NewWriter(BigEndian, 16)
	w.WritePString("Résumé")
	r := NewReader(w.Block())
	s, err := r.ReadPString()
	require.NoError(t, err)
	require.Equal(t, "Résumé", s)
}

func TestReaderCStringNulTerminated(t *testing.T) {
	w := NewWriter(BigEndian, 16)
	w.WriteCString("abc", 0)
	w.WriteByte('X')
	r := NewReader(w.Block())
	s, err := r.ReadCString(0)
	require.NoError(t, err)
	require.Equal(t, "abc", s)
	tail, err := r.ReadByte()
	require.NoError(t, err)
	require.Equal(t, byte('X'), tail)
}

func TestReaderCStringFixedLength(t *testing.T) {
	w := NewWriter(BigEndian, 16)
	w.WriteCString("ab", 5)
	r := NewReader(w.Block())
	s, err := r.ReadCString(5)
	require.NoError(t, err)
	require.Equal(t, "ab", s)
	require.Equal(t, 5, r.Position())
}

func TestReadDataIsBorrowed(t *testing.T) {
	w := NewWriter(BigEndian, 8)
	w.WriteBytes([]byte{1, 2, 3, 4})
	r := NewReader(w.Block())
	sub, err := r.ReadData(4)
	require.NoError(t, err)
	require.False(t, sub.Owns())
	require.Equal(t, []byte{1, 2, 3, 4}, sub.Bytes())
}

func TestWriterPadToSize(t *testing.T) {
	w := NewWriter(BigEndian, 4)
	w.WriteByte(1)
	w.PadToSize(4)
	require.Equal(t, 4, w.Size())
	require.Equal(t, []byte{1, 0, 0, 0}, w.Block().Bytes())
}

func TestFixedPointRoundTrip(t *testing.T) {
	w := NewWriter(BigEndian, 4)
	w.WriteFixedPoint(Fixed(72 << 16))
	r := NewReader(w.Block())
	f, err := r.ReadFixedPoint()
	require.NoError(t, err)
	require.Equal(t, 72.0, f.Float64())
}
