// Package compression implements Apple's PackBits run-length codec,
// parameterised by a "stride" — the size in bytes of the atomic unit a run
// repeats (1 for classic byte runs, 2 for the 16-bit word runs PICT's
// packbits_word pixel packing uses).
package compression

import "github.com/pkg/errors"

// ErrTruncated is returned when a compressed stream ends mid-literal-run
// or is missing the payload unit for a repeat run.
var ErrTruncated = errors.New("compression: packbits stream truncated")

// Codec adapts a fixed stride to the data.Decompressor interface so it can
// be passed to data.Reader.ReadCompressedData.
type Codec struct {
	Stride int
}

// Decompress implements data.Decompressor.
func (c Codec) Decompress(compressed []byte) ([]byte, error) {
	return Decompress(compressed, c.Stride)
}

// Decompress expands a PackBits stream whose runs are stride-byte units.
func Decompress(src []byte, stride int) ([]byte, error) {
	out := make([]byte, 0, len(src)*2)
	i := 0
	for i < len(src) {
		n := int8(src[i])
		i++
		switch {
		case n >= 0:
			count := (int(n) + 1) * stride
			if i+count > len(src) {
				return nil, ErrTruncated
			}
			out = append(out, src[i:i+count]...)
			i += count
		case n == -128:
			// no-op
		default:
			if i+stride > len(src) {
				return nil, ErrTruncated
			}
			unit := src[i : i+stride]
			i += stride
			reps := 1 - int(n)
			for r := 0; r < reps; r++ {
				out = append(out, unit...)
			}
		}
	}
	return out, nil
}

// Compress encodes src (whose length must be a multiple of stride) into a
// PackBits stream of stride-byte units, alternating repeat and literal
// runs greedily: a run of >=2 identical units is emitted as a repeat op,
// otherwise units accumulate into a literal run until the next repeat run
// is found or 128 units have been buffered.
func Compress(src []byte, stride int) []byte {
	units := len(src) / stride
	out := make([]byte, 0, len(src)+len(src)/64+2)

	unitAt := func(i int) []byte { return src[i*stride : i*stride+stride] }
	unitsEqual := func(a, b int) bool {
		ua, ub := unitAt(a), unitAt(b)
		for k := range ua {
			if ua[k] != ub[k] {
				return false
			}
		}
		return true
	}

	i := 0
	for i < units {
		runLen := 1
		for i+runLen < units && runLen < 128 && unitsEqual(i, i+runLen) {
			runLen++
		}
		if runLen >= 2 {
			out = append(out, byte(-(runLen - 1)))
			out = append(out, unitAt(i)...)
			i += runLen
			continue
		}

		litStart := i
		litLen := 0
		for i < units && litLen < 128 {
			if i+1 < units && unitsEqual(i, i+1) {
				break
			}
			litLen++
			i++
		}
		out = append(out, byte(litLen-1))
		out = append(out, src[litStart*stride:litStart*stride+litLen*stride]...)
	}
	return out
}
