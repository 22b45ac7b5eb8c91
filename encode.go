package png

import (
	"github.com/XC-Zero/pngz/internal/deflate"
)

// Encode serializes img into a complete PNG byte stream using
// DefaultEncodeOptions.
func Encode(img *Image) ([]byte, error) {
	return EncodeWithOptions(img, DefaultEncodeOptions())
}

// EncodeWithOptions serializes img under the given policy. It is the
// mirror image of DecodeWithOptions: IHDR, then PLTE/tRNS for palette
// images, then the filtered, optionally interlaced, deflated raster split
// into IDATChunkSize-capped chunks, then IEND.
func EncodeWithOptions(img *Image, opts EncodeOptions) ([]byte, error) {
	if err := validateImageForEncode(img); err != nil {
		return nil, err
	}
	if opts.Interlace == InterlaceAdam7 && img.Interlace != InterlaceAdam7 {
		interlaced := *img
		interlaced.Interlace = InterlaceAdam7
		img = &interlaced
	}
	if opts.IDATChunkSize <= 0 {
		opts.IDATChunkSize = DefaultEncodeOptions().IDATChunkSize
	}

	out := append([]byte(nil), pngSignature[:]...)
	out = writeChunk(out, typeIHDR, encodeIHDR(img))

	if img.ColorType == ColorPalette {
		out = writeChunk(out, typePLTE, encodePLTE(img.Palette))
		if len(img.PaletteAlpha) > 0 {
			out = writeChunk(out, typeTRNS, img.PaletteAlpha)
		}
	} else if img.HasTransparency {
		out = writeChunk(out, typeTRNS, encodeTRNS(img))
	}

	out = appendAncillaryChunks(out, img)

	filtered := packAndFilter(img, opts)
	level := deflate.Level(opts.CompressionLevel)
	compressed := deflate.DeflateZlib(filtered, level)

	for off := 0; off < len(compressed); off += opts.IDATChunkSize {
		end := off + opts.IDATChunkSize
		if end > len(compressed) {
			end = len(compressed)
		}
		out = writeChunk(out, typeIDAT, compressed[off:end])
	}
	if len(compressed) == 0 {
		out = writeChunk(out, typeIDAT, nil)
	}

	out = writeChunk(out, typeIEND, nil)
	return out, nil
}

func validateImageForEncode(img *Image) error {
	if img.Width <= 0 || img.Height <= 0 {
		return newErr(InvalidIHDR, "width and height must be positive")
	}
	if !validColorDepth(img.ColorType, img.BitDepth) {
		return newErrf(InvalidIHDR, "bit depth %d invalid for colour type %d", img.BitDepth, img.ColorType)
	}
	spp := samplesPerPixel(img.ColorType)
	if len(img.Pix) != img.Width*img.Height*spp {
		return newErrf(InvalidIHDR, "Pix has %d samples, want %d", len(img.Pix), img.Width*img.Height*spp)
	}
	if img.ColorType == ColorPalette {
		if len(img.Palette) == 0 || len(img.Palette) > 256 {
			return newErr(InvalidPalette, "palette must have 1-256 entries")
		}
		if len(img.Palette) > 1<<int(img.BitDepth) {
			return newErr(InvalidPalette, "palette has more entries than the bit depth allows")
		}
		if len(img.PaletteAlpha) > len(img.Palette) {
			return newErr(InvalidPalette, "tRNS longer than PLTE")
		}
	}
	return nil
}

func encodePLTE(palette []PaletteEntry) []byte {
	data := make([]byte, 0, len(palette)*3)
	for _, p := range palette {
		data = append(data, p.R, p.G, p.B)
	}
	return data
}

func encodeTRNS(img *Image) []byte {
	switch img.ColorType {
	case ColorGrayscale:
		return []byte{byte(img.TransparentGray >> 8), byte(img.TransparentGray)}
	case ColorRGB:
		data := make([]byte, 0, 6)
		for _, v := range img.TransparentRGB {
			data = append(data, byte(v>>8), byte(v))
		}
		return data
	}
	return nil
}

func appendAncillaryChunks(out []byte, img *Image) []byte {
	m := &img.Metadata
	if m.Gamma != nil {
		out = writeChunk(out, typeGAMA, encodeGAMA(*m.Gamma))
	}
	if m.Chromaticities != nil {
		out = writeChunk(out, typeCHRM, encodeCHRM(*m.Chromaticities))
	}
	if m.SRGBIntent != nil {
		out = writeChunk(out, typeSRGB, encodeSRGB(*m.SRGBIntent))
	}
	if m.ICCProfile != nil {
		out = writeChunk(out, typeICCP, encodeICCP(*m.ICCProfile))
	}
	if m.Background != nil {
		out = writeChunk(out, typeBKGD, encodeBKGD(*m.Background, img.ColorType))
	}
	if m.PhysicalPixelDims != nil {
		out = writeChunk(out, typePHYS, encodePHYS(*m.PhysicalPixelDims))
	}
	if len(m.SignificantBits) > 0 {
		out = writeChunk(out, typeSBIT, m.SignificantBits)
	}
	if m.Time != nil {
		out = writeChunk(out, typeTIME, encodeTIME(*m.Time))
	}
	for _, t := range m.Text {
		out = writeChunk(out, typeTEXT, encodeTEXT(t))
	}
	for _, t := range m.CompressedText {
		out = writeChunk(out, typeZTXT, encodeZTXT(t))
	}
	for _, t := range m.InternationalText {
		out = writeChunk(out, typeITXT, encodeITXT(t))
	}
	for _, u := range m.Unknown {
		out = writeChunk(out, u.Type, u.Data)
	}
	return out
}

// packAndFilter packs img's pixels into (optionally Adam7-interlaced)
// scanlines and applies a filter to each, producing the byte stream that
// feeds the DEFLATE stage.
func packAndFilter(img *Image, opts EncodeOptions) []byte {
	spp := samplesPerPixel(img.ColorType)
	bpp := bytesPerPixelCeil(img.ColorType, img.BitDepth)
	var out []byte

	var scratch [numFilters][]byte
	for i := range scratch {
		scratch[i] = make([]byte, 0, bytesPerRow(img.Width, img.ColorType, img.BitDepth))
	}

	for _, p := range passes(img.Width, img.Height, img.Interlace) {
		rowBytes := bytesPerRow(p.width, img.ColorType, img.BitDepth)
		var prevRaw []byte
		rowSamples := make([]uint16, p.width*spp)
		for y := 0; y < p.height; y++ {
			gatherRow(img.Pix, img.Width, spp, p, y, rowSamples)
			raw := make([]byte, rowBytes)
			packRow(rowSamples, p.width, img.ColorType, img.BitDepth, raw)

			var filterType byte
			var encoded []byte
			if opts.FilterStrategy == FilterFixed {
				filterType = opts.FilterFixedType
				encoded = filterRow(filterType, raw, prevRaw, bpp, nil)
			} else {
				filterType, encoded = chooseFilter(raw, prevRaw, bpp, scratch[:])
			}
			out = append(out, filterType)
			out = append(out, encoded...)
			prevRaw = raw
		}
	}
	return out
}
