package rsrc

import (
	"strconv"

	"github.com/cespare/xxhash/v2"
)

// TypeKey identifies a type bucket: a 4-byte type code qualified by its
// attribute set. Two buckets with the same code but different attributes
// coexist under different keys.
type TypeKey uint64

// NewTypeKey hashes a type code and its attribute set into a TypeKey.
// xxhash gives a fast, well-distributed 64-bit digest over the
// code+canonical-attributes string.
func NewTypeKey(code string, attrs Attributes) TypeKey {
	h := xxhash.New()
	_, _ = h.WriteString(code)
	_, _ = h.WriteString("\x00")
	_, _ = h.WriteString(attrs.canonical())
	return TypeKey(h.Sum64())
}

func normalizeCode(code string) (string, error) {
	if len(code) != 4 {
		return "", &InvalidTypeCodeError{Code: code}
	}
	return code, nil
}

// InvalidTypeCodeError reports a type code that is not exactly 4 bytes.
type InvalidTypeCodeError struct {
	Code string
}

func (e *InvalidTypeCodeError) Error() string {
	return "rsrc: invalid type code " + strconv.Quote(e.Code)
}

func (e *InvalidTypeCodeError) Unwrap() error { return ErrInvalidTypeCode }
