package data

import "golang.org/x/text/encoding/charmap"

// MacRomanToUTF8 decodes MacRoman bytes to a UTF-8 string using
// golang.org/x/text's table-driven charmap.
func MacRomanToUTF8(b []byte) string {
	out, err := charmap.Macintosh.NewDecoder().Bytes(b)
	if err != nil {
		// charmap.Macintosh is a total mapping (every byte value decodes
		// to something); NewDecoder().Bytes only fails on a reader error,
		// which bytes.Reader never produces.
		return string(b)
	}
	return string(out)
}

// UTF8ToMacRoman encodes a UTF-8 string to MacRoman bytes, best-effort
// substituting '?' for codepoints with no MacRoman representation.
func UTF8ToMacRoman(s string) []byte {
	out, err := charmap.Macintosh.NewEncoder().Bytes([]byte(s))
	if err != nil {
		// Fall back to a lossy per-rune encode so writers never fail on
		// stray Unicode in a resource name.
		enc := charmap.Macintosh.NewEncoder()
		buf := make([]byte, 0, len(s))
		for _, r := range s {
			b, encErr := enc.Bytes([]byte(string(r)))
			if encErr != nil || len(b) == 0 {
				buf = append(buf, '?')
				continue
			}
			buf = append(buf, b...)
		}
		return buf
	}
	return out
}
