package pict

// Opcode values from the QuickDraw v2 picture opcode table. Only the
// closed set this decoder dispatches on is named; anything else is an
// UnsupportedOpcodeError.
const (
	opNop        uint16 = 0x0000
	opClipRegion uint16 = 0x0001
	opPnSize     uint16 = 0x0007
	opPnMode     uint16 = 0x0008
	opPnPattern  uint16 = 0x0009
	opFillPattern uint16 = 0x000A
	opOvalSize   uint16 = 0x000B
	opOrigin     uint16 = 0x000C
	opTxFont     uint16 = 0x0003
	opTxFace     uint16 = 0x0004
	opTxMode     uint16 = 0x0005
	opSpExtra    uint16 = 0x0006
	opTxSize     uint16 = 0x000D
	opFgColor    uint16 = 0x000E
	opBkColor    uint16 = 0x000F
	opTxRatio    uint16 = 0x0010
	opChExtra    uint16 = 0x0016
	opRGBFgColor uint16 = 0x001A
	opRGBBkColor uint16 = 0x001B
	opHiliteMode uint16 = 0x001C
	opHiliteColor uint16 = 0x001D
	opDefHilite  uint16 = 0x001E
	opOpColor    uint16 = 0x001F
	opLine         uint16 = 0x0020
	opLineFrom     uint16 = 0x0021
	opShortLine    uint16 = 0x0022
	opShortLineFrom uint16 = 0x0023
	opFrameRect     uint16 = 0x0030
	opPaintRect     uint16 = 0x0031
	opEraseRect     uint16 = 0x0032
	opInvertRect    uint16 = 0x0033
	opFillRect      uint16 = 0x0034
	opFrameSameRect uint16 = 0x0038
	opPaintSameRect uint16 = 0x0039
	opEraseSameRect uint16 = 0x003A
	opInvertSameRect uint16 = 0x003B
	opFillSameRect  uint16 = 0x003C
	opFrameRegion   uint16 = 0x0080
	opPaintRegion   uint16 = 0x0081
	opEraseRegion   uint16 = 0x0082
	opInvertRegion  uint16 = 0x0083
	opFillRegion    uint16 = 0x0084
	opBitsRect          uint16 = 0x0090
	opBitsRegion        uint16 = 0x0091
	opPackBitsRect      uint16 = 0x0098
	opPackBitsRegion    uint16 = 0x0099
	opDirectBitsRect    uint16 = 0x009A
	opDirectBitsRegion  uint16 = 0x009B
	opShortComment      uint16 = 0x00A0
	opLongComment       uint16 = 0x00A1
	opEndOfPicture      uint16 = 0x00FF
	opExtHeader         uint16 = 0x0C00
	opCompressedQuickTime   uint16 = 0x8200
	opUncompressedQuickTime uint16 = 0x8201
)

// fixedSkip names opcodes whose bodies are a fixed, opcode-specific byte
// count the decoder skips without interpreting (pen/text state, one-off
// line and rect primitives the codec doesn't render).
var fixedSkip = map[uint16]int{
	opPnSize:      4, // Point
	opPnMode:      2,
	opPnPattern:   8, // 8x8 1-bpp pattern
	opFillPattern: 8,
	opOvalSize:    4,
	opTxFont:      2,
	opTxFace:      2, // word-aligned even though the field is a byte
	opTxMode:      2,
	opSpExtra:     4, // Fixed
	opTxSize:      2,
	opFgColor:     4,
	opBkColor:     4,
	opTxRatio:     8, // numerator Point + denominator Point
	opChExtra:     2,
	opLine:          8, // two points
	opLineFrom:      4, // one point
	opShortLine:     6, // point + two signed bytes (word-aligned)
	opShortLineFrom: 2,
	opFrameRect:  8,
	opPaintRect:  8,
	opEraseRect:  8,
	opInvertRect: 8,
	opFillRect:   8,
	opFrameSameRect:  0,
	opPaintSameRect:  0,
	opEraseSameRect:  0,
	opInvertSameRect: 0,
	opFillSameRect:   0,
}

// noOpcodes perform no action and consume no operand bytes.
var noOpcodes = map[uint16]bool{
	opNop:        true,
	opEndOfPicture: true,
	opExtHeader:  true,
	opHiliteMode: true,
	opDefHilite:  true,
}

// sixByteColorOpcodes skip a 6-byte (3x uint16 RGB) operand.
var sixByteColorOpcodes = map[uint16]bool{
	opRGBFgColor:  true,
	opRGBBkColor:  true,
	opHiliteColor: true,
	opOpColor:     true,
}

// regionOpcodes read a region (size u16, rect, then size-10 skipped bytes).
var regionOpcodes = map[uint16]bool{
	opClipRegion:   true,
	opFrameRegion:  true,
	opPaintRegion:  true,
	opEraseRegion:  true,
	opInvertRegion: true,
	opFillRegion:   true,
}
