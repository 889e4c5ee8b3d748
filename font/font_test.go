package font

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/TheDiamondProject/graphite/data"
	"github.com/TheDiamondProject/graphite/rsrc"
)

func writeFond(w *data.Writer, familyID int16, first, last int16) {
	w.WriteShort(0)             // flags: not fixed-width
	w.WriteSignedShort(familyID)
	w.WriteSignedShort(first)
	w.WriteSignedShort(last)
	w.WriteSignedShort(9)  // ascent
	w.WriteSignedShort(2)  // descent
	w.WriteSignedShort(0)  // leading
	w.WriteSignedShort(10) // widMax
	w.WriteSignedLong(0)   // widOff: none
	w.WriteSignedLong(0)   // kernOff: none
	w.WriteSignedLong(0)   // styleOff: none
	w.WriteBytes(make([]byte, 2*9+4+2))

	// one association: 12pt plain -> NFNT/FOND id 128
	w.WriteSignedShort(0) // assoc_count - 1
	w.WriteSignedShort(12)
	w.WriteSignedShort(0)
	w.WriteSignedShort(128)
}

func TestDecodeDescriptor(t *testing.T) {
	w := data.NewWriter(data.BigEndian, 0)
	writeFond(w, 1001, 32, 126)

	desc, err := DecodeDescriptor(data.NewReader(w.Block()))
	require.NoError(t, err)
	require.False(t, desc.Fixed)
	require.EqualValues(t, 1001, desc.FamilyID)
	require.EqualValues(t, 32, desc.First)
	require.EqualValues(t, 126, desc.Last)
	require.Len(t, desc.Associations, 1)
	require.EqualValues(t, 12, desc.Associations[0].PointSize)
	require.EqualValues(t, 128, desc.Associations[0].ID)
	require.Nil(t, desc.Widths)
	require.Nil(t, desc.Kerning)
}

func TestOutlineFontRoundTrip(t *testing.T) {
	original := &OutlineFont{TTF: []byte{0, 1, 0, 0, 'g', 'l', 'y', 'f'}}
	w := data.NewWriter(data.BigEndian, 0)
	original.WriteTo(w)

	decoded, err := DecodeOutlineFont(data.NewReader(w.Block()))
	require.NoError(t, err)
	require.Equal(t, original.TTF, decoded.TTF)
}

func TestManagerScanAndLookup(t *testing.T) {
	f := rsrc.New()
	_, err := f.AddResource("sfnt", 128, "Helvetica", []byte{0, 1, 0, 0}, rsrc.Attributes{})
	require.NoError(t, err)

	resolver := rsrc.NewManager()
	resolver.Push(f)

	fm := NewManager()
	require.NoError(t, fm.Scan(resolver))

	ttf, ok := fm.Named("Helvetica")
	require.True(t, ok)
	require.Equal(t, []byte{0, 1, 0, 0}, ttf)

	_, ok = fm.Named("Times")
	require.False(t, ok)
}
