package png

// ColorType is the IHDR colour type byte: it selects how each pixel's
// samples are interpreted.
type ColorType uint8

const (
	ColorGrayscale      ColorType = 0
	ColorRGB            ColorType = 2
	ColorPalette        ColorType = 3
	ColorGrayscaleAlpha ColorType = 4
	ColorRGBA           ColorType = 6
)

// Interlace selects the scanline transmission order.
type Interlace uint8

const (
	InterlaceNone  Interlace = 0
	InterlaceAdam7 Interlace = 1
)

// samplesPerPixel returns the number of samples that make up one pixel for
// c, per §6 of the PNG specification.
func samplesPerPixel(c ColorType) int {
	switch c {
	case ColorGrayscale, ColorPalette:
		return 1
	case ColorRGB:
		return 3
	case ColorGrayscaleAlpha:
		return 2
	case ColorRGBA:
		return 4
	}
	return 0
}

// validColorDepth reports whether bitDepth is a legal sample depth for c.
func validColorDepth(c ColorType, bitDepth uint8) bool {
	switch c {
	case ColorGrayscale:
		return bitDepth == 1 || bitDepth == 2 || bitDepth == 4 || bitDepth == 8 || bitDepth == 16
	case ColorRGB, ColorGrayscaleAlpha, ColorRGBA:
		return bitDepth == 8 || bitDepth == 16
	case ColorPalette:
		return bitDepth == 1 || bitDepth == 2 || bitDepth == 4 || bitDepth == 8
	}
	return false
}

// PaletteEntry is one RGB triplet of a PLTE chunk.
type PaletteEntry struct {
	R, G, B uint8
}

// Image is the in-memory, fully decoded representation of a PNG: a
// row-major, top-down buffer of unpacked samples holding values at the
// image's native sample depth (one uint16 per sample), plus whatever
// palette/transparency/metadata chunks accompanied it.
type Image struct {
	Width, Height int
	ColorType     ColorType
	BitDepth      uint8
	Interlace     Interlace

	// Palette holds the PLTE entries for ColorPalette images.
	Palette []PaletteEntry
	// PaletteAlpha holds the tRNS alpha values for palette entries, in the
	// same order as Palette; it may be shorter than Palette (remaining
	// entries are fully opaque).
	PaletteAlpha []uint8
	// TransparentGray/TransparentRGB hold a tRNS colour key for
	// non-alpha, non-palette colour types.
	TransparentGray uint16
	TransparentRGB  [3]uint16
	HasTransparency bool

	// Pix is the unpacked, native-bit-depth pixel buffer: one row per
	// scanline, samplesPerPixel(ColorType) samples per pixel, each sample
	// stored as a uint16 (values above 255 only occur at BitDepth 16).
	Pix []uint16

	Metadata Metadata
}

// Metadata carries the ancillary chunk contents this codec understands.
// Unknown ancillary chunks are dropped unless PreserveUnknownChunks is set
// on decode options, in which case they land in Metadata.Unknown.
type Metadata struct {
	Gamma       *uint32 // gAMA, image gamma * 100000
	Chromaticities *Chromaticities
	SRGBIntent  *uint8
	ICCProfile  *ICCProfile
	Background  *Background
	PhysicalPixelDims *PhysicalPixelDims
	SignificantBits []uint8
	Time        *Time
	Text        []TextEntry
	CompressedText []CompressedTextEntry
	InternationalText []InternationalTextEntry
	Unknown     []UnknownChunk
}

// Chromaticities is the parsed payload of a cHRM chunk: CIE x,y pairs
// times 100000, per §4 of the PNG specification.
type Chromaticities struct {
	WhiteX, WhiteY uint32
	RedX, RedY     uint32
	GreenX, GreenY uint32
	BlueX, BlueY   uint32
}

// ICCProfile is the parsed payload of an iCCP chunk. The profile bytes are
// carried verbatim; no colour management is applied (Non-goal).
type ICCProfile struct {
	Name    string
	Profile []byte
}

// Background is the parsed payload of a bKGD chunk; which fields are valid
// depends on the image's ColorType.
type Background struct {
	PaletteIndex uint8
	Gray         uint16
	RGB          [3]uint16
}

// PhysicalPixelDims is the parsed payload of a pHYs chunk.
type PhysicalPixelDims struct {
	X, Y uint32
	Unit uint8
}

// Time is the parsed payload of a tIME chunk.
type Time struct {
	Year                     uint16
	Month, Day               uint8
	Hour, Minute, Second     uint8
}

// TextEntry is one tEXt chunk.
type TextEntry struct {
	Keyword, Text string
}

// CompressedTextEntry is one zTXt chunk, already zlib-decompressed.
type CompressedTextEntry struct {
	Keyword, Text string
}

// InternationalTextEntry is one iTXt chunk.
type InternationalTextEntry struct {
	Keyword, LanguageTag, TranslatedKeyword, Text string
	Compressed                                    bool
}

// UnknownChunk preserves an unrecognised chunk verbatim when requested.
type UnknownChunk struct {
	Type string
	Data []byte
}
