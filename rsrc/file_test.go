package rsrc

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestClassicScenarioS1 builds a minimal classic resource file with
// writeClassic and checks that parseClassic recovers its single resource.
func TestClassicScenarioS1(t *testing.T) {
	f := New()
	_, err := f.AddResource("TEXT", 128, "greeting", []byte("hello, world"), nil)
	require.NoError(t, err)

	block, err := writeClassic(f)
	require.NoError(t, err)

	parsed, err := parseClassic(block, noopLogger())
	require.NoError(t, err)

	r, err := parsed.Find("TEXT", 128, nil)
	require.NoError(t, err)
	require.Equal(t, []byte("hello, world"), r.Data())
	require.Equal(t, "greeting", r.Name())
}

// TestContainerRoundTrip checks that adding resources, saving, and
// re-opening under each of the three formats reproduces the same type
// codes, ids, names and payloads.
func TestContainerRoundTrip(t *testing.T) {
	for _, format := range []Format{FormatClassic, FormatExtended, FormatRez} {
		t.Run(format.String(), func(t *testing.T) {
			f := New()
			_, err := f.AddResource("PICT", 1000, "", []byte{0x00, 0x0B}, nil)
			require.NoError(t, err)
			_, err = f.AddResource("PICT", 1001, "second", []byte{0xAA, 0xBB, 0xCC}, nil)
			require.NoError(t, err)
			_, err = f.AddResource("snd ", 128, "beep", []byte("PCM payload"), nil)
			require.NoError(t, err)

			var block []byte
			var writeErr error
			switch format {
			case FormatClassic:
				b, err := writeClassic(f)
				writeErr = err
				if err == nil {
					block = b.Bytes()
				}
			case FormatExtended:
				b, err := writeExtended(f)
				writeErr = err
				if err == nil {
					block = b.Bytes()
				}
			case FormatRez:
				b, err := writeRez(f)
				writeErr = err
				if err == nil {
					block = b.Bytes()
				}
			}
			require.NoError(t, writeErr)

			reopened, err := OpenBlock(newBEBlock(block), "", noopLogger())
			require.NoError(t, err)
			require.Equal(t, format, reopened.Format())

			r1, err := reopened.Find("PICT", 1000, nil)
			require.NoError(t, err)
			require.Equal(t, []byte{0x00, 0x0B}, r1.Data())

			r2, err := reopened.Find("PICT", 1001, nil)
			require.NoError(t, err)
			require.Equal(t, []byte{0xAA, 0xBB, 0xCC}, r2.Data())
			require.Equal(t, "second", r2.Name())

			r3, err := reopened.Find("snd ", 128, nil)
			require.NoError(t, err)
			require.Equal(t, []byte("PCM payload"), r3.Data())
			require.Equal(t, "beep", r3.Name())
		})
	}
}

// TestExtendedPreservesAttributes checks the property classic/Rez can't:
// per-type attributes round-trip through the extended format.
func TestExtendedPreservesAttributes(t *testing.T) {
	f := New()
	_, err := f.AddResource("PICT", 1, "", []byte{0x01}, Attributes{"lang": "en"})
	require.NoError(t, err)

	block, err := writeExtended(f)
	require.NoError(t, err)

	reopened, err := parseExtended(block, noopLogger())
	require.NoError(t, err)

	typ, ok := reopened.Type("PICT", Attributes{"lang": "en"})
	require.True(t, ok)
	require.Equal(t, "en", typ.Attributes["lang"])
}
