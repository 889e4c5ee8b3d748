package quickdraw

// Color is a straightforward 8-bit-per-channel RGBA color.
type Color struct {
	R, G, B, A uint8
}

// RGB constructs an opaque Color.
func RGB(r, g, b uint8) Color { return Color{R: r, G: g, B: b, A: 0xFF} }

// word16To8 scales a 16-bit channel value down to 8 bits, as QuickDraw
// color tables store 16-bit-per-channel RGB.
func word16To8(w uint16) uint8 { return uint8((uint32(w) * 255) / 65535) }

// byte8To16 scales an 8-bit channel value up to 16 bits.
func byte8To16(b uint8) uint16 { return uint16((uint32(b) * 65535) / 255) }

// Uint32 packs the color as 0xAARRGGBB, the comparison key ColorTable.Set
// uses for exact-match lookups.
func (c Color) Uint32() uint32 {
	return uint32(c.A)<<24 | uint32(c.R)<<16 | uint32(c.G)<<8 | uint32(c.B)
}

// RGB555To888 expands a 15-bit 0RRRRRGGGGGBBBBB word to 8-bit-per-channel
// color by replicating each channel's top 3 bits into its low bits. Used
// by PICT's packbits_word pixel data and by rlëD sprite frames, both of
// which pack color the same way.
func RGB555To888(word uint16) Color {
	expand := func(c uint16) uint8 { return uint8((c << 3) | (c >> 2)) }
	return Color{
		R: expand((word >> 10) & 0x1F),
		G: expand((word >> 5) & 0x1F),
		B: expand(word & 0x1F),
		A: 0xFF,
	}
}
