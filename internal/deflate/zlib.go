package deflate

import (
	"github.com/pkg/errors"

	"github.com/XC-Zero/pngz/internal/checksum"
)

// ErrUnsupportedZlibFeature is returned for a preset dictionary, which this
// codec does not support.
var ErrUnsupportedZlibFeature = errors.New("zlib: preset dictionary unsupported")

// ErrChecksumMismatch is returned when the trailing Adler-32 does not match
// the decompressed payload.
var ErrChecksumMismatch = errors.New("zlib: adler-32 checksum mismatch")

// ErrShortZlibStream is returned when fewer than the 6 required framing
// bytes (2-byte header + 4-byte trailer) are present.
var ErrShortZlibStream = errors.New("zlib: stream too short")

// InflateZlib parses the RFC 1950 wrapper (2-byte header, DEFLATE body,
// 4-byte big-endian Adler-32 trailer) and returns the decompressed payload.
func InflateZlib(src []byte) ([]byte, error) {
	if len(src) < 6 {
		return nil, errors.WithStack(ErrShortZlibStream)
	}
	cmf, flg := src[0], src[1]
	if cmf&0x0F != 8 {
		return nil, errors.New("zlib: unsupported compression method")
	}
	if (uint16(cmf)*256+uint16(flg))%31 != 0 {
		return nil, errors.New("zlib: header checksum failed")
	}
	if flg&0x20 != 0 {
		return nil, errors.WithStack(ErrUnsupportedZlibFeature)
	}

	body := src[2 : len(src)-4]
	trailer := src[len(src)-4:]
	out, err := Inflate(body)
	if err != nil {
		return nil, err
	}

	want := uint32(trailer[0])<<24 | uint32(trailer[1])<<16 | uint32(trailer[2])<<8 | uint32(trailer[3])
	if checksum.Adler32(out) != want {
		return nil, errors.WithStack(ErrChecksumMismatch)
	}
	return out, nil
}

// DeflateZlib wraps a DEFLATE stream of src (encoded at level) with the
// RFC 1950 header and Adler-32 trailer.
func DeflateZlib(src []byte, level Level) []byte {
	body := Deflate(src, level)
	out := make([]byte, 0, len(body)+6)
	// CMF: CM=8 (deflate), CINFO=7 (32K window). FLG chosen so
	// (CMF*256+FLG) % 31 == 0 with FLEVEL=0 (fastest) and FDICT=0.
	const cmf = 0x78
	flg := byte(0)
	rem := (int(cmf)*256 + int(flg)) % 31
	if rem != 0 {
		flg += byte(31 - rem)
	}
	out = append(out, cmf, flg)
	out = append(out, body...)
	sum := checksum.Adler32(src)
	out = append(out, byte(sum>>24), byte(sum>>16), byte(sum>>8), byte(sum))
	return out
}
