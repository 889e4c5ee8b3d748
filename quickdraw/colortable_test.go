package quickdraw

import (
	"testing"

	"github.com/TheDiamondProject/graphite/data"
	"github.com/stretchr/testify/require"
)

// TestColorTableScenarioS3 decodes a two-entry red/green color table.
func TestColorTableScenarioS3(t *testing.T) {
	w := data.NewWriter(data.BigEndian, 32)
	w.WriteLong(0x00000000)    // seed
	w.WriteShort(0x0000)       // flags
	w.WriteShort(0x0001)       // count-1
	w.WriteShort(0x0000)       // entry 0 index
	w.WriteShort(0xFFFF)       // R
	w.WriteShort(0x0000)       // G
	w.WriteShort(0x0000)       // B
	w.WriteShort(0x0001)       // entry 1 index
	w.WriteShort(0x0000)       // R
	w.WriteShort(0xFFFF)       // G
	w.WriteShort(0x0000)       // B

	r := data.NewReader(w.Block())
	ct, err := ReadColorTable(r)
	require.NoError(t, err)
	require.Equal(t, 2, ct.Len())

	c0, ok := ct.At(0)
	require.True(t, ok)
	require.Equal(t, Color{R: 255, G: 0, B: 0, A: 255}, c0)

	c1, ok := ct.At(1)
	require.True(t, ok)
	require.Equal(t, Color{R: 0, G: 255, B: 0, A: 255}, c1)
}

// TestColorTableSetIdempotent checks that Set is idempotent for repeated
// identical colors.
func TestColorTableSetIdempotent(t *testing.T) {
	ct := &ColorTable{}
	i1 := ct.Set(RGB(10, 20, 30))
	i2 := ct.Set(RGB(10, 20, 30))
	require.Equal(t, i1, i2)
	require.Equal(t, 1, ct.Len())

	i3 := ct.Set(RGB(1, 2, 3))
	require.NotEqual(t, i1, i3)
	require.Equal(t, 2, ct.Len())
}
