// Package font decodes classic Mac font resources: FOND family-association
// records and sfnt outline blobs.
package font

import "github.com/TheDiamondProject/graphite/data"

// OutlineFont is a `sfnt` resource: a TrueType/OpenType font table blob
// carried through a resource fork unchanged. No table parsing is attempted;
// consumers hand the bytes to their own font rasterizer.
type OutlineFont struct {
	TTF []byte
}

// DecodeOutlineFont captures the remainder of the reader's backing data as
// an opaque sfnt blob.
func DecodeOutlineFont(r *data.Reader) (*OutlineFont, error) {
	remaining, err := r.ReadBytes(r.Remaining())
	if err != nil {
		return nil, err
	}
	return &OutlineFont{TTF: remaining}, nil
}

// WriteTo writes the blob back out unchanged.
func (f *OutlineFont) WriteTo(w *data.Writer) {
	w.WriteBytes(f.TTF)
}
