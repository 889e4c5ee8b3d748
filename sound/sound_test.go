package sound

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/TheDiamondProject/graphite/data"
)

// TestIMA4FlatPacket decodes a 34-byte IMA4 packet with a zero preamble
// (predictor=0, index=0) and nibble bytes of 0x08 throughout. Both the low
// and high nibble of 0x08 carry zero magnitude bits (nibble&7 == 0), so the
// documented diff formula (stepsize>>3, gated by the magnitude bits, negated
// by the sign bit) yields a zero step at every position: the packet decodes
// to 64 samples flat at the center value.
func TestIMA4FlatPacket(t *testing.T) {
	packet := make([]byte, ima4PacketSize)
	for i := 2; i < ima4PacketSize; i++ {
		packet[i] = 0x08
	}

	samples, err := decodeIMA4Packet(packet)
	require.NoError(t, err)
	require.Len(t, samples, ima4FramesPerPacket)
	for _, s := range samples {
		require.Equal(t, uint32(32768), s)
	}
}

// TestIMA4StepsUp checks that a first nibble with only its low magnitude
// bit set moves the first sample up from the center by step_table[0]>>2
// (step_table[0]>>3 is zero for the initial step of 7).
func TestIMA4StepsUp(t *testing.T) {
	packet := make([]byte, ima4PacketSize)
	packet[2] = 0x01 // low nibble 0x1 first
	samples, err := decodeIMA4Packet(packet)
	require.NoError(t, err)
	require.Equal(t, uint32(32768+ima4StepTable[0]>>2), samples[0])
}

func TestDecodeStandardSound(t *testing.T) {
	w := data.NewWriter(data.BigEndian, 0)
	w.WriteShort(1) // type1
	w.WriteShort(1) // num_data_formats
	w.WriteShort(sampledSynth)
	w.WriteLong(0) // channel init option
	w.WriteShort(1)
	w.WriteShort(0x8000 | bufferCommand)
	w.WriteShort(0)
	w.WriteLong(20)

	w.WriteLong(0)
	w.WriteLong(4) // length
	w.WriteLong(22050 << 16)
	w.WriteLong(0)
	w.WriteLong(0)
	w.WriteByte(encodingStdSH)
	w.WriteByte(0)
	w.WriteBytes([]byte{10, 20, 30, 40})

	s, err := Decode(data.NewReader(w.Block()), DecodeOptions{})
	require.NoError(t, err)
	require.Equal(t, Descriptor{Format: "lpcm", BitWidth: 8, Channels: 1}, s.Descriptor)
	require.Equal(t, []uint32{10, 20, 30, 40}, s.Samples[0])
	require.Equal(t, uint32(22050), s.SampleRateInt)
}

func TestDecodeRejectsUnsupportedShape(t *testing.T) {
	w := data.NewWriter(data.BigEndian, 0)
	w.WriteShort(3) // unsupported list format
	_, err := Decode(data.NewReader(w.Block()), DecodeOptions{})
	require.ErrorIs(t, err, ErrInvalidSoundFormat)
}

func TestEncodeDecodeStandardRoundTrip(t *testing.T) {
	s := &Sound{
		SampleRateInt: 11025,
		Descriptor:    Descriptor{Format: "lpcm", BitWidth: 8, Channels: 1},
		Samples:       [][]uint32{{1, 2, 3, 254}},
	}
	block, err := Encode(s)
	require.NoError(t, err)

	decoded, err := Decode(data.NewReader(block), DecodeOptions{})
	require.NoError(t, err)
	require.Equal(t, s.Samples, decoded.Samples)
	require.Equal(t, s.SampleRateInt, decoded.SampleRateInt)
}
