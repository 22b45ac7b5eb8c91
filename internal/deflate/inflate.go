// Package deflate implements RFC 1951 DEFLATE compression and
// decompression, plus the RFC 1950 zlib wrapper PNG's IDAT stream uses.
package deflate

import (
	"github.com/pkg/errors"

	"github.com/XC-Zero/pngz/internal/bitio"
	"github.com/XC-Zero/pngz/internal/huffman"
)

// ErrInvalidBlockType is returned for a BTYPE=11 block header.
var ErrInvalidBlockType = errors.New("deflate: invalid block type")

// ErrInvalidHuffmanCode is returned when a dynamic block's code-length
// vectors fail the Kraft-inequality check, or a code length exceeds 15.
var ErrInvalidHuffmanCode = errors.New("deflate: invalid huffman code")

// ErrInvalidDistanceTooFar is returned when a back-reference distance
// exceeds the number of bytes emitted so far.
var ErrInvalidDistanceTooFar = errors.New("deflate: distance too far back")

// ErrInvalidBackReference is returned for a malformed length/distance pair.
var ErrInvalidBackReference = errors.New("deflate: invalid back-reference")

// ErrUnexpectedEOF mirrors bitio.ErrUnexpectedEOF for callers that only
// import this package.
var ErrUnexpectedEOF = bitio.ErrUnexpectedEOF

// window is a 32 KiB ring buffer of emitted bytes, used to satisfy
// back-references. Overlapping copies (length > distance) are resolved
// byte-by-byte since source and destination ranges alias.
type window struct {
	buf   [windowSize]byte
	total int // total bytes ever written, for distance validation
}

func (w *window) writeByte(b byte) {
	w.buf[w.total%windowSize] = b
	w.total++
}

func (w *window) copyMatch(dist, length int, out []byte) ([]byte, error) {
	if dist <= 0 || dist > maxDistance {
		return out, errors.WithStack(ErrInvalidBackReference)
	}
	if dist > w.total {
		return out, errors.WithStack(ErrInvalidDistanceTooFar)
	}
	for i := 0; i < length; i++ {
		b := w.buf[(w.total-dist)%windowSize]
		out = append(out, b)
		w.writeByte(b)
	}
	return out, nil
}

// Inflate decompresses a raw DEFLATE stream (no zlib wrapper) and returns
// the uncompressed bytes.
func Inflate(src []byte) ([]byte, error) {
	r := bitio.NewReader(src)
	w := &window{}
	var out []byte

	for {
		final, err := r.ReadBit()
		if err != nil {
			return nil, errors.WithStack(err)
		}
		btype, err := r.ReadBits(2)
		if err != nil {
			return nil, errors.WithStack(err)
		}

		switch btype {
		case btypeStored:
			out, err = inflateStored(r, w, out)
		case btypeFixed:
			out, err = inflateHuffmanBlock(r, w, out, fixedLitTable(), fixedDistTable())
		case btypeDynamic:
			out, err = inflateDynamicBlock(r, w, out)
		default:
			err = errors.WithStack(ErrInvalidBlockType)
		}
		if err != nil {
			return nil, err
		}
		if final == 1 {
			break
		}
	}
	return out, nil
}

var (
	cachedFixedLit  *huffman.Table
	cachedFixedDist *huffman.Table
)

func fixedLitTable() *huffman.Table {
	if cachedFixedLit == nil {
		t, err := huffman.Build(fixedLitLenLengths())
		if err != nil {
			panic(err) // fixed table is a compile-time constant, never invalid
		}
		cachedFixedLit = t
	}
	return cachedFixedLit
}

func fixedDistTable() *huffman.Table {
	if cachedFixedDist == nil {
		// The fixed distance code is only 30 of the 32 codes a 5-bit
		// prefix allows; RFC 1951 leaves it incomplete, so this uses
		// BuildFixed rather than Build.
		t, err := huffman.BuildFixed(fixedDistLengths())
		if err != nil {
			panic(err)
		}
		cachedFixedDist = t
	}
	return cachedFixedDist
}

func inflateStored(r *bitio.Reader, w *window, out []byte) ([]byte, error) {
	r.AlignToByte()
	lenBytes := make([]byte, 4)
	if err := r.ReadBytes(lenBytes); err != nil {
		return nil, errors.WithStack(err)
	}
	length := int(lenBytes[0]) | int(lenBytes[1])<<8
	nlength := int(lenBytes[2]) | int(lenBytes[3])<<8
	if length != nlength^0xFFFF {
		return nil, errors.Wrap(ErrInvalidBackReference, "stored block LEN/NLEN mismatch")
	}
	data := make([]byte, length)
	if err := r.ReadBytes(data); err != nil {
		return nil, errors.WithStack(err)
	}
	for _, b := range data {
		w.writeByte(b)
	}
	return append(out, data...), nil
}

func inflateHuffmanBlock(r *bitio.Reader, w *window, out []byte, lit, dist *huffman.Table) ([]byte, error) {
	for {
		sym, err := lit.Decode(r)
		if err != nil {
			return nil, errors.Wrap(err, "literal/length symbol")
		}
		switch {
		case sym < 256:
			out = append(out, byte(sym))
			w.writeByte(byte(sym))
		case sym == endOfBlock:
			return out, nil
		default:
			li := sym - 257
			if li < 0 || li >= len(lengthBase) {
				return nil, errors.WithStack(ErrInvalidBackReference)
			}
			extra, err := r.ReadBits(lengthExtraBits[li])
			if err != nil {
				return nil, errors.WithStack(err)
			}
			length := lengthBase[li] + int(extra)

			dsym, err := dist.Decode(r)
			if err != nil {
				return nil, errors.Wrap(err, "distance symbol")
			}
			if dsym < 0 || dsym >= len(distBase) {
				return nil, errors.WithStack(ErrInvalidBackReference)
			}
			dextra, err := r.ReadBits(distExtraBits[dsym])
			if err != nil {
				return nil, errors.WithStack(err)
			}
			distance := distBase[dsym] + int(dextra)

			out, err = w.copyMatch(distance, length, out)
			if err != nil {
				return nil, err
			}
		}
	}
}

func inflateDynamicBlock(r *bitio.Reader, w *window, out []byte) ([]byte, error) {
	hlit, err := r.ReadBits(5)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	hdist, err := r.ReadBits(5)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	hclen, err := r.ReadBits(4)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	nlit := int(hlit) + 257
	ndist := int(hdist) + 1
	nclen := int(hclen) + 4

	clLengths := make([]int, 19)
	for i := 0; i < nclen; i++ {
		v, err := r.ReadBits(3)
		if err != nil {
			return nil, errors.WithStack(err)
		}
		clLengths[codeLengthOrder[i]] = int(v)
	}
	clTable, err := huffman.Build(clLengths)
	if err != nil {
		return nil, errors.Wrap(ErrInvalidHuffmanCode, err.Error())
	}

	lengths := make([]int, 0, nlit+ndist)
	for len(lengths) < nlit+ndist {
		sym, err := clTable.Decode(r)
		if err != nil {
			return nil, errors.Wrap(ErrInvalidHuffmanCode, "code-length symbol: "+err.Error())
		}
		switch {
		case sym <= 15:
			lengths = append(lengths, sym)
		case sym == 16:
			if len(lengths) == 0 {
				return nil, errors.Wrap(ErrInvalidHuffmanCode, "repeat with no previous length")
			}
			rep, err := r.ReadBits(2)
			if err != nil {
				return nil, errors.WithStack(err)
			}
			prev := lengths[len(lengths)-1]
			for i := 0; i < int(rep)+3; i++ {
				lengths = append(lengths, prev)
			}
		case sym == 17:
			rep, err := r.ReadBits(3)
			if err != nil {
				return nil, errors.WithStack(err)
			}
			for i := 0; i < int(rep)+3; i++ {
				lengths = append(lengths, 0)
			}
		case sym == 18:
			rep, err := r.ReadBits(7)
			if err != nil {
				return nil, errors.WithStack(err)
			}
			for i := 0; i < int(rep)+11; i++ {
				lengths = append(lengths, 0)
			}
		default:
			return nil, errors.Wrap(ErrInvalidHuffmanCode, "bad code-length symbol")
		}
	}
	if len(lengths) != nlit+ndist {
		return nil, errors.Wrap(ErrInvalidHuffmanCode, "code-length run overshoots")
	}

	litTable, err := huffman.Build(lengths[:nlit])
	if err != nil {
		return nil, errors.Wrap(ErrInvalidHuffmanCode, err.Error())
	}
	distTable, err := huffman.Build(lengths[nlit:])
	if err != nil {
		return nil, errors.Wrap(ErrInvalidHuffmanCode, err.Error())
	}
	return inflateHuffmanBlock(r, w, out, litTable, distTable)
}
