package quicktime

import (
	"github.com/TheDiamondProject/graphite/data"
	"github.com/TheDiamondProject/graphite/quickdraw"
)

// decodeRaw decodes the uncompressed ('raw ') codec: 8 bpp is a direct
// palette lookup per byte, and 1/2/4 bpp pack 8/depth pixels MSB-first per
// byte.
func decodeRaw(r *data.Reader, desc *ImageDescription) (*quickdraw.Surface, error) {
	rowBytes := quickdraw.RowBytesFor(desc.Width, desc.Depth)
	pixelData, err := r.ReadBytes(rowBytes * desc.Height)
	if err != nil {
		return nil, err
	}
	return quickdraw.ExpandIndexed(pixelData, rowBytes, desc.Width, desc.Height, desc.Depth, desc.ColorTable, nil, 0)
}
