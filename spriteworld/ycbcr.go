package spriteworld

import "github.com/TheDiamondProject/graphite/quickdraw"

func clamp255(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v + 0.5)
}

// ycbcrToRGB converts a BT.601 YCbCr triple (Cb/Cr offset-128) to 8-bit
// RGB with saturating rounding.
func ycbcrToRGB(y, cb, cr uint8, alpha uint8) quickdraw.Color {
	fy, fcb, fcr := float64(y), float64(cb)-128, float64(cr)-128
	return quickdraw.Color{
		R: clamp255(fy + 1.402*fcr),
		G: clamp255(fy - 0.344136*fcb - 0.714136*fcr),
		B: clamp255(fy + 1.772*fcb),
		A: alpha,
	}
}

// rgbToYCbCr is ycbcrToRGB's inverse, used by the rlëX encoder.
func rgbToYCbCr(c quickdraw.Color) (y, cb, cr uint8) {
	r, g, b := float64(c.R), float64(c.G), float64(c.B)
	y = clamp255(0.299*r + 0.587*g + 0.114*b)
	cb = clamp255(128 - 0.168736*r - 0.331264*g + 0.5*b)
	cr = clamp255(128 + 0.5*r - 0.418688*g - 0.081312*b)
	return
}
