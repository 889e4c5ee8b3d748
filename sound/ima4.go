package sound

import (
	"bytes"

	"github.com/icza/bitio"
	"github.com/pkg/errors"
)

// ima4FramesPerPacket is the fixed IMA4 packet shape Apple's compressed
// sound header assumes: a 2-byte preamble followed by 32 bytes of nibbles,
// decoding to 64 samples.
const (
	ima4PacketSize     = 34
	ima4FramesPerPacket = 64
)

var ima4IndexTable = [16]int32{
	-1, -1, -1, -1, 2, 4, 6, 8,
	-1, -1, -1, -1, 2, 4, 6, 8,
}

var ima4StepTable = [89]int32{
	7, 8, 9, 10, 11, 12, 13, 14, 16, 17,
	19, 21, 23, 25, 28, 31, 34, 37, 41, 45,
	50, 55, 60, 66, 73, 80, 88, 97, 107, 118,
	130, 143, 157, 173, 190, 209, 230, 253, 279, 307,
	337, 371, 408, 449, 494, 544, 598, 658, 724, 796,
	876, 963, 1060, 1166, 1282, 1411, 1552, 1707, 1878, 2066,
	2272, 2499, 2749, 3024, 3327, 3660, 4026, 4428, 4871, 5358,
	5894, 6484, 7132, 7845, 8630, 9493, 10442, 11487, 12635, 13899,
	15289, 16818, 18500, 20350, 22385, 24623, 27086, 29794, 32767,
}

func ima4StepIndex(index int32, nibble uint8) int32 {
	index += ima4IndexTable[nibble]
	if index < 0 {
		return 0
	}
	if index > 88 {
		return 88
	}
	return index
}

func ima4Predictor(predictor int32, nibble uint8, index int32) int32 {
	step := ima4StepTable[index]
	diff := step >> 3
	if nibble&4 != 0 {
		diff += step
	}
	if nibble&2 != 0 {
		diff += step >> 1
	}
	if nibble&1 != 0 {
		diff += step >> 2
	}
	if nibble&8 != 0 {
		diff = -diff
	}
	predictor += diff
	if predictor < -32768 {
		return -32768
	}
	if predictor > 32767 {
		return 32767
	}
	return predictor
}

// decodeIMA4Packet expands one 34-byte IMA4 packet into 64 samples, 16-bit
// unsigned centered at 32768 (equivalently signed 16-bit after subtracting
// 32768 — this package keeps the unsigned-centered form throughout, since
// that matches the bare predictor arithmetic without an extra cast).
func decodeIMA4Packet(packet []byte) ([]uint32, error) {
	if len(packet) != ima4PacketSize {
		return nil, errors.Errorf("sound: ima4 packet must be %d bytes, got %d", ima4PacketSize, len(packet))
	}

	preamble := uint16(packet[0])<<8 | uint16(packet[1])
	predictor := int32(int16(preamble & 0xFF80))
	index := int32(preamble & 0x007F)
	if index > 88 {
		index = 88
	}

	// IMA4 packs nibbles low-then-high within each byte, the reverse of
	// bitio's MSB-first bit order, so bytes come off the bit reader whole
	// and are split by hand rather than read 4 bits at a time.
	br := bitio.NewReader(bytes.NewReader(packet[2:]))
	samples := make([]uint32, 0, ima4FramesPerPacket)
	for i := 0; i < ima4FramesPerPacket/2; i++ {
		b, err := br.ReadByte()
		if err != nil {
			return nil, errors.Wrap(err, "sound: ima4 nibble stream")
		}
		for _, n := range [2]uint8{b & 0x0F, b >> 4} {
			predictor = ima4Predictor(predictor, n, index)
			index = ima4StepIndex(index, n)
			samples = append(samples, uint32(32768+predictor))
		}
	}
	return samples, nil
}
