package png

import (
	stderrors "errors"

	"github.com/XC-Zero/pngz/internal/deflate"
)

// Decode parses a complete PNG byte stream into an Image using
// DefaultDecodeOptions.
func Decode(data []byte) (*Image, error) {
	return DecodeWithOptions(data, DefaultDecodeOptions())
}

// decodeState tracks the chunk-ordering machine §4.8 describes while
// streaming through the chunk sequence.
type decodeState struct {
	sawIHDR, sawPLTE, sawIDAT, sawIEND bool
	idatRunEnded                       bool // a non-IDAT chunk appeared after IDAT began
}

// DecodeWithOptions parses data under the given policy.
func DecodeWithOptions(data []byte, opts DecodeOptions) (*Image, error) {
	if opts.MaxChunkLength == 0 {
		opts.MaxChunkLength = maxChunkLength
	}
	if opts.MaxPixels == 0 {
		opts.MaxPixels = DefaultDecodeOptions().MaxPixels
	}

	cr, err := newChunkReader(data)
	if err != nil {
		return nil, err
	}
	cr.maxLen = opts.MaxChunkLength

	img := &Image{}
	var st decodeState
	var ihdr ihdrData
	var idatPayload []byte

	for !st.sawIEND {
		c, err := cr.readOne(opts.StrictAncillaryCRC)
		if err != nil {
			return nil, err
		}

		if !st.sawIHDR {
			if c.typ != typeIHDR {
				return nil, newErr(InvalidChunkOrder, "first chunk must be IHDR")
			}
			ihdr, err = parseIHDR(c.data)
			if err != nil {
				return nil, err
			}
			if uint64(ihdr.width)*uint64(ihdr.height) > opts.MaxPixels {
				return nil, newErrf(ImageTooLarge, "%dx%d exceeds configured pixel cap", ihdr.width, ihdr.height)
			}
			img.Width = int(ihdr.width)
			img.Height = int(ihdr.height)
			img.ColorType = ColorType(ihdr.colorType)
			img.BitDepth = ihdr.bitDepth
			img.Interlace = Interlace(ihdr.interlaceMethod)
			st.sawIHDR = true
			continue
		}

		if !opts.StrictAncillaryCRC && !c.critical() && computedCRC(c.typ, c.data) != c.crc {
			continue // lenient policy: skip the corrupt ancillary chunk
		}

		switch c.typ {
		case typeIHDR:
			return nil, newErr(DuplicateChunk, "duplicate IHDR")
		case typePLTE:
			if st.sawPLTE {
				return nil, newErr(DuplicateChunk, "duplicate PLTE")
			}
			if st.sawIDAT {
				return nil, newErr(InvalidChunkOrder, "PLTE must precede IDAT")
			}
			if img.ColorType == ColorGrayscale || img.ColorType == ColorGrayscaleAlpha {
				return nil, newErr(InvalidPalette, "PLTE must not appear for this colour type")
			}
			if len(c.data)%3 != 0 || len(c.data) == 0 || len(c.data) > 768 {
				return nil, newErr(InvalidPalette, "PLTE length must be a positive multiple of 3, <= 768")
			}
			n := len(c.data) / 3
			if n > 1<<int(ihdr.bitDepth) && img.ColorType == ColorPalette {
				return nil, newErr(InvalidPalette, "PLTE has more entries than the bit depth allows")
			}
			img.Palette = make([]PaletteEntry, n)
			for i := range img.Palette {
				img.Palette[i] = PaletteEntry{R: c.data[i*3], G: c.data[i*3+1], B: c.data[i*3+2]}
			}
			st.sawPLTE = true
		case typeIDAT:
			if st.idatRunEnded {
				return nil, newErr(InvalidChunkOrder, "IDAT chunks must be contiguous")
			}
			if img.ColorType == ColorPalette && !st.sawPLTE {
				return nil, newErr(MissingRequiredChunk, "palette images require PLTE before IDAT")
			}
			idatPayload = append(idatPayload, c.data...)
			st.sawIDAT = true
		case typeIEND:
			if !st.sawIDAT {
				return nil, newErr(MissingRequiredChunk, "no IDAT chunk present")
			}
			if len(c.data) != 0 {
				return nil, newErr(InvalidIHDR, "IEND payload must be empty")
			}
			st.sawIEND = true
		default:
			if st.sawIDAT {
				st.idatRunEnded = true
			}
			if err := decodeAncillary(img, c, &st, opts); err != nil {
				return nil, err
			}
		}
	}

	if opts.AllowTrailingData == false && cr.pos != len(cr.src) {
		return nil, newErr(TrailingData, "bytes remain after IEND")
	}

	inflated, err := deflate.InflateZlib(idatPayload)
	if err != nil {
		return nil, translateZlibErr(err)
	}

	if err := unfilterAndUnpack(img, inflated); err != nil {
		return nil, err
	}

	if img.ColorType == ColorPalette {
		if err := validatePaletteIndices(img); err != nil {
			return nil, err
		}
	}
	return img, nil
}

func decodeAncillary(img *Image, c *rawChunk, st *decodeState, opts DecodeOptions) error {
	if isPreIDATMetadata(c.typ) && st.sawIDAT {
		return newErrf(InvalidChunkOrder, "%s must precede IDAT", c.typ)
	}
	switch c.typ {
	case typeTRNS:
		return decodeTRNS(img, c.data)
	case typeGAMA:
		v, err := parseGAMA(c.data)
		if err != nil {
			return err
		}
		img.Metadata.Gamma = &v
	case typeCHRM:
		v, err := parseCHRM(c.data)
		if err != nil {
			return err
		}
		img.Metadata.Chromaticities = &v
	case typeSRGB:
		v, err := parseSRGB(c.data)
		if err != nil {
			return err
		}
		img.Metadata.SRGBIntent = &v
	case typeICCP:
		v, err := parseICCP(c.data)
		if err != nil {
			return err
		}
		img.Metadata.ICCProfile = &v
	case typeBKGD:
		v, err := parseBKGD(c.data, img.ColorType)
		if err != nil {
			return err
		}
		img.Metadata.Background = &v
	case typePHYS:
		v, err := parsePHYS(c.data)
		if err != nil {
			return err
		}
		img.Metadata.PhysicalPixelDims = &v
	case typeSBIT:
		img.Metadata.SignificantBits = append([]byte(nil), c.data...)
	case typeTIME:
		v, err := parseTIME(c.data)
		if err != nil {
			return err
		}
		img.Metadata.Time = &v
	case typeTEXT:
		v, err := parseTEXT(c.data)
		if err != nil {
			return err
		}
		img.Metadata.Text = append(img.Metadata.Text, v)
	case typeZTXT:
		v, err := parseZTXT(c.data)
		if err != nil {
			return err
		}
		img.Metadata.CompressedText = append(img.Metadata.CompressedText, v)
	case typeITXT:
		v, err := parseITXT(c.data)
		if err != nil {
			return err
		}
		img.Metadata.InternationalText = append(img.Metadata.InternationalText, v)
	case typeHIST:
		// Histogram entries are advisory only; not surfaced on Image.
	default:
		if opts.PreserveUnknownChunks {
			img.Metadata.Unknown = append(img.Metadata.Unknown, UnknownChunk{Type: c.typ, Data: append([]byte(nil), c.data...)})
		}
	}
	return nil
}

func decodeTRNS(img *Image, data []byte) error {
	switch img.ColorType {
	case ColorPalette:
		if len(data) > len(img.Palette) {
			return newErr(InvalidIHDR, "tRNS longer than PLTE")
		}
		img.PaletteAlpha = append([]byte(nil), data...)
	case ColorGrayscale:
		if len(data) != 2 {
			return newErr(InvalidIHDR, "tRNS must be 2 bytes for grayscale images")
		}
		img.TransparentGray = uint16(data[0])<<8 | uint16(data[1])
		img.HasTransparency = true
	case ColorRGB:
		if len(data) != 6 {
			return newErr(InvalidIHDR, "tRNS must be 6 bytes for truecolor images")
		}
		for i := 0; i < 3; i++ {
			img.TransparentRGB[i] = uint16(data[i*2])<<8 | uint16(data[i*2+1])
		}
		img.HasTransparency = true
	default:
		return newErr(InvalidIHDR, "tRNS is prohibited for colour types with an alpha channel")
	}
	return nil
}

func validatePaletteIndices(img *Image) error {
	n := len(img.Palette)
	for _, v := range img.Pix {
		if int(v) >= n {
			return newErrf(PaletteIndexOutOfRange, "index %d >= palette length %d", v, n)
		}
	}
	return nil
}

// translateZlibErr maps the internal deflate/zlib error taxonomy onto this
// package's public Kind values.
func translateZlibErr(err error) error {
	switch {
	case stderrors.Is(err, deflate.ErrUnsupportedZlibFeature):
		return wrapErr(UnsupportedZlibFeature, err, "zlib preset dictionary")
	case stderrors.Is(err, deflate.ErrChecksumMismatch):
		return wrapErr(ChecksumMismatch, err, "IDAT adler-32")
	case stderrors.Is(err, deflate.ErrInvalidBlockType):
		return wrapErr(InvalidBlockType, err, "IDAT deflate stream")
	case stderrors.Is(err, deflate.ErrInvalidHuffmanCode):
		return wrapErr(InvalidHuffmanCode, err, "IDAT deflate stream")
	case stderrors.Is(err, deflate.ErrInvalidDistanceTooFar):
		return wrapErr(InvalidDistanceTooFar, err, "IDAT deflate stream")
	case stderrors.Is(err, deflate.ErrInvalidBackReference):
		return wrapErr(InvalidBackReference, err, "IDAT deflate stream")
	case stderrors.Is(err, deflate.ErrUnexpectedEOF):
		return wrapErr(TruncatedImage, err, "IDAT deflate stream ended early")
	default:
		return wrapErr(TruncatedImage, err, "IDAT decompression failed")
	}
}

func unfilterAndUnpack(img *Image, inflated []byte) error {
	spp := samplesPerPixel(img.ColorType)
	img.Pix = make([]uint16, img.Width*img.Height*spp)

	ps := passes(img.Width, img.Height, img.Interlace)
	off := 0
	for _, p := range ps {
		rowBytes := bytesPerRow(p.width, img.ColorType, img.BitDepth)
		bpp := bytesPerPixelCeil(img.ColorType, img.BitDepth)
		var prev []byte
		rowSamples := make([]uint16, p.width*spp)
		for y := 0; y < p.height; y++ {
			if off+1+rowBytes > len(inflated) {
				return newErr(TruncatedImage, "inflated stream shorter than expected")
			}
			filterType := inflated[off]
			cur := append([]byte(nil), inflated[off+1:off+1+rowBytes]...)
			off += 1 + rowBytes

			if err := unfilterRow(filterType, cur, prev, bpp); err != nil {
				return err
			}
			unpackRow(cur, p.width, img.ColorType, img.BitDepth, rowSamples)
			scatterRow(img.Pix, img.Width, spp, p, y, rowSamples)
			prev = cur
		}
	}
	if off < len(inflated) {
		return newErr(ExtraImageData, "inflated stream longer than expected")
	}
	return nil
}
