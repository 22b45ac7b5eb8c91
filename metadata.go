package png

import (
	"encoding/binary"
	"strings"
	"time"

	"github.com/XC-Zero/pngz/internal/deflate"
)

const nullSeparator = "\x00"

// ToTime converts a tIME chunk's fields to a UTC time.Time.
func (t Time) ToTime() time.Time {
	return time.Date(int(t.Year), time.Month(t.Month), int(t.Day), int(t.Hour), int(t.Minute), int(t.Second), 0, time.UTC)
}

func parseGAMA(data []byte) (uint32, error) {
	if len(data) != 4 {
		return 0, newErr(InvalidIHDR, "gAMA payload must be 4 bytes")
	}
	return binary.BigEndian.Uint32(data), nil
}

func parseCHRM(data []byte) (Chromaticities, error) {
	var c Chromaticities
	if len(data) != 32 {
		return c, newErr(InvalidIHDR, "cHRM payload must be 32 bytes")
	}
	vals := [8]*uint32{&c.WhiteX, &c.WhiteY, &c.RedX, &c.RedY, &c.GreenX, &c.GreenY, &c.BlueX, &c.BlueY}
	for i, v := range vals {
		*v = binary.BigEndian.Uint32(data[i*4:])
	}
	return c, nil
}

func parseSRGB(data []byte) (uint8, error) {
	if len(data) != 1 {
		return 0, newErr(InvalidIHDR, "sRGB payload must be 1 byte")
	}
	return data[0], nil
}

func parseICCP(data []byte) (ICCProfile, error) {
	idx := strings.IndexByte(string(data), 0)
	if idx < 0 || idx > 79 {
		return ICCProfile{}, newErr(InvalidIHDR, "iCCP missing null-terminated name")
	}
	// data[idx+1] is the compression method (only 0 is defined); the
	// profile bytes that follow are zlib-compressed.
	compressed := data[idx+2:]
	profile, err := deflate.InflateZlib(compressed)
	if err != nil {
		return ICCProfile{}, wrapErr(ChecksumMismatch, err, "iCCP profile")
	}
	return ICCProfile{Name: string(data[:idx]), Profile: profile}, nil
}

func parseBKGD(data []byte, c ColorType) (Background, error) {
	var bg Background
	switch c {
	case ColorPalette:
		if len(data) != 1 {
			return bg, newErr(InvalidIHDR, "bKGD payload must be 1 byte for palette images")
		}
		bg.PaletteIndex = data[0]
	case ColorGrayscale, ColorGrayscaleAlpha:
		if len(data) != 2 {
			return bg, newErr(InvalidIHDR, "bKGD payload must be 2 bytes for grayscale images")
		}
		bg.Gray = binary.BigEndian.Uint16(data)
	case ColorRGB, ColorRGBA:
		if len(data) != 6 {
			return bg, newErr(InvalidIHDR, "bKGD payload must be 6 bytes for truecolor images")
		}
		for i := 0; i < 3; i++ {
			bg.RGB[i] = binary.BigEndian.Uint16(data[i*2:])
		}
	}
	return bg, nil
}

func parsePHYS(data []byte) (PhysicalPixelDims, error) {
	var p PhysicalPixelDims
	if len(data) != 9 {
		return p, newErr(InvalidIHDR, "pHYs payload must be 9 bytes")
	}
	p.X = binary.BigEndian.Uint32(data[0:4])
	p.Y = binary.BigEndian.Uint32(data[4:8])
	p.Unit = data[8]
	return p, nil
}

func parseTIME(data []byte) (Time, error) {
	var t Time
	if len(data) != 7 {
		return t, newErr(InvalidIHDR, "tIME payload must be 7 bytes")
	}
	t.Year = binary.BigEndian.Uint16(data[0:2])
	t.Month = data[2]
	t.Day = data[3]
	t.Hour = data[4]
	t.Minute = data[5]
	t.Second = data[6]
	return t, nil
}

func parseTEXT(data []byte) (TextEntry, error) {
	parts := strings.SplitN(string(data), nullSeparator, 2)
	if len(parts) != 2 {
		return TextEntry{}, newErr(InvalidIHDR, "tEXt missing null separator")
	}
	return TextEntry{Keyword: parts[0], Text: parts[1]}, nil
}

func parseZTXT(data []byte) (CompressedTextEntry, error) {
	parts := strings.SplitN(string(data), nullSeparator, 2)
	if len(parts) != 2 || len(parts[1]) < 1 {
		return CompressedTextEntry{}, newErr(InvalidIHDR, "zTXt malformed")
	}
	// parts[1][0] is the compression method (only 0 is defined).
	text, err := deflate.InflateZlib([]byte(parts[1][1:]))
	if err != nil {
		return CompressedTextEntry{}, wrapErr(ChecksumMismatch, err, "zTXt text")
	}
	return CompressedTextEntry{Keyword: parts[0], Text: string(text)}, nil
}

func parseITXT(data []byte) (InternationalTextEntry, error) {
	parts := strings.SplitN(string(data), nullSeparator, 2)
	if len(parts) != 2 || len(parts[1]) < 2 {
		return InternationalTextEntry{}, newErr(InvalidIHDR, "iTXt malformed")
	}
	keyword := parts[0]
	rest := parts[1]
	compressedFlag := rest[0]
	// rest[1] is the compression method; skip it.
	rest = rest[2:]
	fields := strings.SplitN(rest, nullSeparator, 3)
	if len(fields) != 3 {
		return InternationalTextEntry{}, newErr(InvalidIHDR, "iTXt missing language/translated-keyword fields")
	}
	text := fields[2]
	compressed := compressedFlag != 0
	if compressed {
		raw, err := deflate.InflateZlib([]byte(text))
		if err != nil {
			return InternationalTextEntry{}, wrapErr(ChecksumMismatch, err, "iTXt text")
		}
		text = string(raw)
	}
	return InternationalTextEntry{
		Keyword:           keyword,
		LanguageTag:       fields[0],
		TranslatedKeyword: fields[1],
		Text:              text,
		Compressed:        compressed,
	}, nil
}

func encodeGAMA(v uint32) []byte {
	data := make([]byte, 4)
	binary.BigEndian.PutUint32(data, v)
	return data
}

func encodeCHRM(c Chromaticities) []byte {
	data := make([]byte, 32)
	vals := [8]uint32{c.WhiteX, c.WhiteY, c.RedX, c.RedY, c.GreenX, c.GreenY, c.BlueX, c.BlueY}
	for i, v := range vals {
		binary.BigEndian.PutUint32(data[i*4:], v)
	}
	return data
}

func encodeSRGB(intent uint8) []byte {
	return []byte{intent}
}

func encodeICCP(p ICCProfile) []byte {
	compressed := deflate.DeflateZlib(p.Profile, deflate.DefaultCompression)
	data := make([]byte, 0, len(p.Name)+2+len(compressed))
	data = append(data, p.Name...)
	data = append(data, 0, 0) // name terminator, compression method 0
	data = append(data, compressed...)
	return data
}

func encodeBKGD(bg Background, c ColorType) []byte {
	switch c {
	case ColorPalette:
		return []byte{bg.PaletteIndex}
	case ColorGrayscale, ColorGrayscaleAlpha:
		data := make([]byte, 2)
		binary.BigEndian.PutUint16(data, bg.Gray)
		return data
	case ColorRGB, ColorRGBA:
		data := make([]byte, 6)
		for i, v := range bg.RGB {
			binary.BigEndian.PutUint16(data[i*2:], v)
		}
		return data
	}
	return nil
}

func encodePHYS(p PhysicalPixelDims) []byte {
	data := make([]byte, 9)
	binary.BigEndian.PutUint32(data[0:4], p.X)
	binary.BigEndian.PutUint32(data[4:8], p.Y)
	data[8] = p.Unit
	return data
}

func encodeTIME(t Time) []byte {
	return []byte{byte(t.Year >> 8), byte(t.Year), t.Month, t.Day, t.Hour, t.Minute, t.Second}
}

func encodeTEXT(t TextEntry) []byte {
	return append([]byte(t.Keyword+nullSeparator), t.Text...)
}

func encodeZTXT(t CompressedTextEntry) []byte {
	compressed := deflate.DeflateZlib([]byte(t.Text), deflate.DefaultCompression)
	data := append([]byte(t.Keyword+nullSeparator), 0) // compression method 0
	return append(data, compressed...)
}

func encodeITXT(t InternationalTextEntry) []byte {
	data := make([]byte, 0, len(t.Keyword)+len(t.Text)+16)
	data = append(data, t.Keyword...)
	data = append(data, 0)
	if t.Compressed {
		data = append(data, 1, 0)
	} else {
		data = append(data, 0, 0)
	}
	data = append(data, t.LanguageTag...)
	data = append(data, 0)
	data = append(data, t.TranslatedKeyword...)
	data = append(data, 0)
	if t.Compressed {
		data = append(data, deflate.DeflateZlib([]byte(t.Text), deflate.DefaultCompression)...)
	} else {
		data = append(data, t.Text...)
	}
	return data
}
