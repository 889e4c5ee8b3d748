package compression

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestPackBitsScenarioS2 checks a mixed repeat-then-literal run against a
// known encoding.
func TestPackBitsScenarioS2(t *testing.T) {
	src := []byte{0xAA, 0xAA, 0xAA, 0xAA, 0x01, 0x02}
	got := Compress(src, 1)
	require.Equal(t, []byte{0xFD, 0xAA, 0x01, 0x01, 0x02}, got)

	decoded, err := Decompress(got, 1)
	require.NoError(t, err)
	require.Equal(t, src, decoded)
}

// TestPackBitsInverse checks that Decompress inverts Compress across a
// range of input shapes.
func TestPackBitsInverse(t *testing.T) {
	cases := [][]byte{
		{0x00, 0x01},
		bytes.Repeat([]byte{0x42}, 300),
		[]byte("the quick brown fox jumps over the lazy dog"),
		{1, 2, 3, 4, 5, 6, 7, 8, 9, 10},
	}
	for _, stride := range []int{1, 2} {
		for _, src := range cases {
			if len(src)%stride != 0 {
				src = src[:len(src)-(len(src)%stride)]
			}
			if len(src) == 0 {
				continue
			}
			compressed := Compress(src, stride)
			decoded, err := Decompress(compressed, stride)
			require.NoError(t, err)
			require.Equal(t, src, decoded)
		}
	}
}

func TestPackBitsNoOpByte(t *testing.T) {
	decoded, err := Decompress([]byte{0x80, 0x00, 0x00}, 1)
	require.NoError(t, err)
	require.Equal(t, []byte{0x00}, decoded)
}

func TestPackBitsTruncated(t *testing.T) {
	_, err := Decompress([]byte{0x05, 0x01, 0x02}, 1)
	require.ErrorIs(t, err, ErrTruncated)

	_, err = Decompress([]byte{0xFE}, 1)
	require.ErrorIs(t, err, ErrTruncated)
}
