// Package sound decodes and encodes `snd ` Sound Manager resources: the
// sound-list header, the standard/extended/compressed sound header
// variants, and IMA4 ADPCM expansion.
package sound

import (
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/TheDiamondProject/graphite/data"
)

type listFormat uint16

const (
	formatType1 listFormat = 1
	formatType2 listFormat = 2
)

const sampledSynth = 5
const bufferCommand = 1

const (
	encodingStdSH = 0x00
	encodingExtSH = 0xFF
	encodingCmpSH = 0xFE
)

// ErrInvalidSoundFormat is returned when the sound list or sound header
// shape falls outside the two supported variants.
var ErrInvalidSoundFormat = errors.New("sound: invalid snd format")

// Descriptor summarizes the decoded sample format, independent of which
// header variant produced it.
type Descriptor struct {
	Format   string // "lpcm" for every variant this package decodes
	BitWidth int
	Channels int
}

// Sound is a decoded `snd ` resource: sample rate, format descriptor, and
// per-channel sample data (channel-major: the interleaved frames of the
// compressed and extended headers are split into one slice per channel).
type Sound struct {
	SampleRateInt  uint32
	SampleRateFrac uint16
	Descriptor     Descriptor
	Samples        [][]uint32
}

// DecodeOptions configures Decode.
type DecodeOptions struct {
	Logger *zap.Logger
}

// Decode parses a `snd ` resource's sound list and sampled payload.
func Decode(r *data.Reader, opts DecodeOptions) (*Sound, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	listStart := r.Position()

	format, err := r.ReadShort()
	if err != nil {
		return nil, err
	}

	switch listFormat(format) {
	case formatType1:
		numDataFormats, err := r.ReadShort()
		if err != nil {
			return nil, err
		}
		if numDataFormats != 1 {
			return nil, errors.Wrapf(ErrInvalidSoundFormat, "expected 1 data format, got %d", numDataFormats)
		}
		dataFormatID, err := r.ReadShort()
		if err != nil {
			return nil, err
		}
		if dataFormatID != sampledSynth {
			return nil, errors.Wrapf(ErrInvalidSoundFormat, "expected sampledSynth modifier, got %d", dataFormatID)
		}
		if _, err := r.ReadLong(); err != nil { // channel init option, unused
			return nil, err
		}
	case formatType2:
		if _, err := r.ReadShort(); err != nil { // reference count, unused
			return nil, err
		}
	default:
		return nil, errors.Wrapf(ErrInvalidSoundFormat, "unsupported list format %d", format)
	}

	numCommands, err := r.ReadShort()
	if err != nil {
		return nil, err
	}
	if numCommands != 1 {
		return nil, errors.Wrapf(ErrInvalidSoundFormat, "expected exactly 1 command, got %d", numCommands)
	}

	cmd, err := r.ReadShort()
	if err != nil {
		return nil, err
	}
	if _, err := r.ReadShort(); err != nil { // param1, unused
		return nil, err
	}
	param2, err := r.ReadLong()
	if err != nil {
		return nil, err
	}
	if cmd&0x7FFF != bufferCommand {
		return nil, errors.Wrapf(ErrInvalidSoundFormat, "expected buffer command, got %d", cmd&0x7FFF)
	}

	if err := r.SetPosition(listStart + int(param2)); err != nil {
		return nil, err
	}

	if _, err := r.ReadLong(); err != nil { // sample pointer, unused in-memory
		return nil, err
	}
	length, err := r.ReadLong()
	if err != nil {
		return nil, err
	}
	sampleRate, err := r.ReadLong()
	if err != nil {
		return nil, err
	}
	if _, err := r.ReadLong(); err != nil { // loop start, unused
		return nil, err
	}
	if _, err := r.ReadLong(); err != nil { // loop end, unused
		return nil, err
	}
	encoding, err := r.ReadByte()
	if err != nil {
		return nil, err
	}
	if _, err := r.ReadByte(); err != nil { // base frequency, unused
		return nil, err
	}

	s := &Sound{
		SampleRateInt:  sampleRate >> 16,
		SampleRateFrac: uint16(sampleRate & 0xFFFF),
	}

	switch encoding {
	case encodingStdSH:
		if err := decodeStandard(r, length, s); err != nil {
			return nil, err
		}
	case encodingExtSH:
		if err := decodeExtended(r, length, s); err != nil {
			return nil, err
		}
	case encodingCmpSH:
		if err := decodeCompressed(r, length, s, logger); err != nil {
			return nil, err
		}
	default:
		return nil, errors.Wrapf(ErrInvalidSoundFormat, "unsupported sound encoding 0x%02X", encoding)
	}

	return s, nil
}

func decodeStandard(r *data.Reader, length uint32, s *Sound) error {
	samples := make([]uint32, length)
	for i := range samples {
		b, err := r.ReadByte()
		if err != nil {
			return err
		}
		samples[i] = uint32(b)
	}
	s.Samples = [][]uint32{samples}
	s.Descriptor = Descriptor{Format: "lpcm", BitWidth: 8, Channels: 1}
	return nil
}

func decodeExtended(r *data.Reader, channels uint32, s *Sound) error {
	frameCount, err := r.ReadLong()
	if err != nil {
		return err
	}
	if err := r.Skip(10 + 4 + 4 + 4); err != nil { // aiff sample rate, marker/instrument/aes chunks
		return err
	}
	sampleSize, err := r.ReadShort()
	if err != nil {
		return err
	}
	if err := r.Skip(14); err != nil { // future_use
		return err
	}

	samples := make([][]uint32, channels)
	for c := range samples {
		samples[c] = make([]uint32, frameCount)
	}
	for f := uint32(0); f < frameCount; f++ {
		for c := uint32(0); c < channels; c++ {
			var v uint32
			if sampleSize == 8 {
				b, err := r.ReadByte()
				if err != nil {
					return err
				}
				v = uint32(b)
			} else {
				sh, err := r.ReadShort()
				if err != nil {
					return err
				}
				v = uint32(sh)
			}
			samples[c][f] = v
		}
	}
	s.Samples = samples
	s.Descriptor = Descriptor{Format: "lpcm", BitWidth: int(sampleSize), Channels: int(channels)}
	return nil
}

func decodeCompressed(r *data.Reader, channels uint32, s *Sound, logger *zap.Logger) error {
	frameCount, err := r.ReadLong()
	if err != nil {
		return err
	}
	if err := r.Skip(10 + 4); err != nil { // aiff sample rate, marker_chunk
		return err
	}
	format, err := r.ReadLong()
	if err != nil {
		return err
	}
	if err := r.Skip(12); err != nil { // future_use_2, state_vars, leftover_samples
		return err
	}
	if _, err := r.ReadSignedShort(); err != nil { // compression_id, unused beyond format dispatch
		return err
	}
	if _, err := r.ReadShort(); err != nil { // packet_size, unused
		return err
	}
	if err := r.Skip(2); err != nil { // snth_id
		return err
	}
	if _, err := r.ReadShort(); err != nil { // sample_size, ima4 implies 16-bit output
		return err
	}

	switch format {
	case 0x696D6134: // 'ima4'
		return decodeIMA4(r, channels, frameCount, s)
	case 0x4D414333, 0x4D414336: // 'MAC3', 'MAC6'
		logger.Warn("sound: MAC3/MAC6 compressed sound is not decoded, rejecting", zap.Uint32("format", format))
		return errors.Wrapf(ErrInvalidSoundFormat, "MAC3/MAC6 decoding unsupported, format 0x%08X", format)
	default:
		return errors.Wrapf(ErrInvalidSoundFormat, "unsupported compressed sound format 0x%08X", format)
	}
}

func decodeIMA4(r *data.Reader, channels, frameCount uint32, s *Sound) error {
	samples := make([][]uint32, channels)
	for c := range samples {
		samples[c] = make([]uint32, frameCount*ima4FramesPerPacket)
	}
	for f := uint32(0); f < frameCount; f++ {
		for c := uint32(0); c < channels; c++ {
			packet, err := r.ReadBytes(ima4PacketSize)
			if err != nil {
				return err
			}
			decoded, err := decodeIMA4Packet(packet)
			if err != nil {
				return err
			}
			copy(samples[c][f*ima4FramesPerPacket:], decoded)
		}
	}
	s.Samples = samples
	s.Descriptor = Descriptor{Format: "lpcm", BitWidth: 16, Channels: int(channels)}
	return nil
}

// Encode writes a format-1 sound list wrapping a single standard (8-bit
// mono) sampled sound header, mirroring what Decode's encodingStdSH branch
// reads back.
func Encode(s *Sound) (*data.Block, error) {
	if len(s.Samples) == 0 {
		return nil, errors.New("sound: cannot encode a sound with no channels")
	}

	w := data.NewWriter(data.BigEndian, 0)
	w.WriteShort(uint16(formatType1))
	w.WriteShort(1)             // num_data_formats
	w.WriteShort(sampledSynth)  // data_format_id
	w.WriteLong(0)              // channel_init_option (initMono)
	w.WriteShort(1)             // num_commands
	w.WriteShort(0x8000 | bufferCommand)
	w.WriteShort(0) // param1
	w.WriteLong(20) // param2: offset from record start to sound data

	samples := s.Samples[0]
	w.WriteLong(0) // sample pointer
	w.WriteLong(uint32(len(samples)))
	w.WriteLong(uint32(s.SampleRateInt)<<16 | uint32(s.SampleRateFrac))
	w.WriteLong(0) // loop start
	w.WriteLong(0) // loop end
	w.WriteByte(encodingStdSH)
	w.WriteByte(0) // base frequency

	shift := uint(0)
	if s.Descriptor.BitWidth > 8 {
		shift = uint(s.Descriptor.BitWidth - 8)
	}
	for _, v := range samples {
		w.WriteByte(byte(v >> shift))
	}
	return w.Block(), nil
}
