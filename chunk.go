package png

import (
	"encoding/binary"

	"github.com/XC-Zero/pngz/internal/checksum"
)

var pngSignature = [8]byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}

// maxChunkLength is the largest payload length a chunk may declare,
// per §6: length must fit in 2^31-1.
const maxChunkLength = 1<<31 - 1

// rawChunk is one (length, type, data, CRC) frame as it appears on the
// wire, before any semantic interpretation.
type rawChunk struct {
	typ  string
	data []byte
	crc  uint32
}

func (c rawChunk) critical() bool { return c.typ[0]&0x20 == 0 }

func computedCRC(typ string, data []byte) uint32 {
	h := checksum.NewCRC32()
	h.Update([]byte(typ))
	h.Update(data)
	return h.Final()
}

// chunkReader is the streaming iterator Decode uses internally, and which
// ChunkIterator exposes for host inspection.
type chunkReader struct {
	src    []byte
	pos    int
	maxLen uint32
}

func newChunkReader(src []byte) (*chunkReader, error) {
	if len(src) < 8 {
		return nil, newErr(BadSignature, "input shorter than PNG signature")
	}
	for i, b := range pngSignature {
		if src[i] != b {
			return nil, newErr(BadSignature, "signature mismatch")
		}
	}
	return &chunkReader{src: src, pos: 8, maxLen: maxChunkLength}, nil
}

// ChunkIterator inspects the chunk framing of a PNG byte stream without
// decoding pixels, per the "streaming chunk iterator" surface in §6.
type ChunkIterator struct {
	r *chunkReader
}

// NewChunkIterator validates the PNG signature and returns an iterator
// positioned at the first chunk.
func NewChunkIterator(data []byte) (*ChunkIterator, error) {
	r, err := newChunkReader(data)
	if err != nil {
		return nil, err
	}
	return &ChunkIterator{r: r}, nil
}

// ChunkInfo is one chunk as exposed to a host inspecting a PNG stream.
type ChunkInfo struct {
	Type string
	Data []byte
}

// Next returns the next chunk, or (nil, nil) once IEND has been consumed.
// Ancillary CRC failures are reported just as critical ones are: callers
// wanting a lenient policy should use DecodeWithOptions with
// DecodeOptions.StrictAncillaryCRC set to false instead of this iterator.
func (it *ChunkIterator) Next() (*ChunkInfo, error) {
	if it.r.pos >= len(it.r.src) {
		return nil, nil
	}
	c, err := it.r.readOne(true)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, nil
	}
	if c.typ == typeIEND {
		it.r.pos = len(it.r.src) // nothing after IEND is read
	}
	return &ChunkInfo{Type: c.typ, Data: c.data}, nil
}

// readOne reads a single frame, validating its length and (if
// strictAncillaryCRC or the chunk is critical) its CRC.
func (r *chunkReader) readOne(strictAncillaryCRC bool) (*rawChunk, error) {
	if r.pos+8 > len(r.src) {
		return nil, newErr(TruncatedInput, "chunk header truncated")
	}
	length := binary.BigEndian.Uint32(r.src[r.pos:])
	if length > maxChunkLength {
		return nil, newErr(ChunkTooLarge, "chunk length exceeds 2^31-1")
	}
	if length > r.maxLen {
		return nil, newErrf(ChunkTooLarge, "chunk length %d exceeds configured maximum %d", length, r.maxLen)
	}
	r.pos += 4
	if r.pos+4 > len(r.src) {
		return nil, newErr(TruncatedInput, "chunk type truncated")
	}
	typ := string(r.src[r.pos : r.pos+4])
	r.pos += 4

	if r.pos+int(length)+4 > len(r.src) {
		return nil, newErr(TruncatedInput, "chunk data/crc truncated")
	}
	data := r.src[r.pos : r.pos+int(length)]
	r.pos += int(length)
	crc := binary.BigEndian.Uint32(r.src[r.pos:])
	r.pos += 4

	c := rawChunk{typ: typ, data: data, crc: crc}
	if c.critical() || strictAncillaryCRC {
		if computedCRC(typ, data) != crc {
			return &c, newErr(CrcMismatch, "chunk "+typ+" failed CRC check")
		}
	}
	return &c, nil
}

func writeChunk(out []byte, typ string, data []byte) []byte {
	var lenBuf [4]byte
	binary.BigEndian.PutUint32(lenBuf[:], uint32(len(data)))
	out = append(out, lenBuf[:]...)
	out = append(out, typ...)
	out = append(out, data...)
	crc := computedCRC(typ, data)
	var crcBuf [4]byte
	binary.BigEndian.PutUint32(crcBuf[:], crc)
	out = append(out, crcBuf[:]...)
	return out
}
