package deflate

import (
	"github.com/XC-Zero/pngz/internal/bitio"
)

// Level selects an encoding strategy. The encoder is deterministic for a
// given input and Level.
type Level int

const (
	// NoCompression emits one stored block per (at most) 65535-byte chunk.
	// It is the minimum conforming encoder RFC 1951 allows.
	NoCompression Level = iota
	// DefaultCompression runs LZ77 over a hash chain and emits a single
	// fixed-Huffman block. Deterministic, single-threaded, no dynamic
	// Huffman construction.
	DefaultCompression
)

// Deflate compresses src into a raw DEFLATE stream (no zlib wrapper).
func Deflate(src []byte, level Level) []byte {
	w := bitio.NewWriter()
	switch level {
	case NoCompression:
		deflateStored(w, src)
	default:
		deflateFixedLZ77(w, src)
	}
	w.Flush()
	return w.Bytes()
}

func deflateStored(w *bitio.Writer, src []byte) {
	const maxChunk = 65535
	if len(src) == 0 {
		w.WriteBit(1)
		w.WriteBits(btypeStored, 2)
		w.Flush()
		w.WriteBytes([]byte{0, 0, 0xFF, 0xFF})
		return
	}
	for off := 0; off < len(src); off += maxChunk {
		end := off + maxChunk
		if end > len(src) {
			end = len(src)
		}
		chunk := src[off:end]
		final := uint16(0)
		if end == len(src) {
			final = 1
		}
		w.WriteBit(uint8(final))
		w.WriteBits(btypeStored, 2)
		w.Flush()
		n := len(chunk)
		w.WriteBytes([]byte{byte(n), byte(n >> 8), byte(^n), byte(^n >> 8)})
		w.WriteBytes(chunk)
	}
}
