// Package bitio implements the LSB-first bit-level primitives DEFLATE
// requires: a reader that can peek and consume up to 16 bits at a time, and
// a writer with the symmetric byte-aligned flush.
package bitio

import "github.com/pkg/errors"

// ErrUnexpectedEOF is returned when the backing slice is exhausted but more
// bits were requested.
var ErrUnexpectedEOF = errors.New("bitio: unexpected eof")

// maxWidth is the largest bit word the reader/writer ever holds pending.
// RFC 1951 never asks for more than 16 bits in one call; 24 bits of headroom
// means a whole byte can always be folded in without overflow.
const maxWidth = 24

// Reader delivers bits LSB-first from a backing byte slice: the first bit
// read from byte b is b&1. It is owned by a single caller and is never
// safe for concurrent use.
type Reader struct {
	src     []byte
	pos     int    // next unread byte in src
	bitBuf  uint32 // pending bits, low bitN bits are valid
	bitN    uint
}

// NewReader wraps src for bit-level reading starting at its first byte.
func NewReader(src []byte) *Reader {
	return &Reader{src: src}
}

// fill ensures at least n bits are buffered, reading whole bytes from src.
func (r *Reader) fill(n uint) error {
	for r.bitN < n {
		if r.pos >= len(r.src) {
			return ErrUnexpectedEOF
		}
		r.bitBuf |= uint32(r.src[r.pos]) << r.bitN
		r.pos++
		r.bitN += 8
	}
	return nil
}

// PeekBits returns the next n bits (n in [0,16]) without consuming them.
// Calling PeekBits again before Consume returns the identical value.
func (r *Reader) PeekBits(n uint) (uint16, error) {
	if n == 0 {
		return 0, nil
	}
	if err := r.fill(n); err != nil {
		return 0, err
	}
	return uint16(r.bitBuf & ((1 << n) - 1)), nil
}

// Consume discards n bits previously returned by PeekBits.
func (r *Reader) Consume(n uint) {
	r.bitBuf >>= n
	r.bitN -= n
}

// PeekBitsTolerant behaves like PeekBits but never fails: when fewer than n
// bits remain in the backing slice, it zero-pads the high bits and reports
// how many of the low bits are genuinely backed by input. Huffman decoding
// needs this because the final code of a block may be shorter than the
// table's lookup width, so peeking the full width can legitimately run
// past the last real bit.
func (r *Reader) PeekBitsTolerant(n uint) (value uint16, available uint) {
	for r.bitN < n && r.pos < len(r.src) {
		r.bitBuf |= uint32(r.src[r.pos]) << r.bitN
		r.pos++
		r.bitN += 8
	}
	avail := r.bitN
	if avail > n {
		avail = n
	}
	return uint16(r.bitBuf & ((1 << n) - 1)), avail
}

// ReadBits reads and consumes n bits (n in [0,16]), LSB-first.
func (r *Reader) ReadBits(n uint) (uint16, error) {
	v, err := r.PeekBits(n)
	if err != nil {
		return 0, err
	}
	r.Consume(n)
	return v, nil
}

// ReadBit reads a single bit.
func (r *Reader) ReadBit() (uint8, error) {
	v, err := r.ReadBits(1)
	return uint8(v), err
}

// AlignToByte discards any pending bits so the next read starts at a byte
// boundary of the backing slice.
func (r *Reader) AlignToByte() {
	r.pos -= int(r.bitN / 8) // give back whole bytes that were only buffered
	r.bitBuf = 0
	r.bitN = 0
}

// ReadByte byte-aligns and returns the next whole byte.
func (r *Reader) ReadByte() (byte, error) {
	r.AlignToByte()
	if r.pos >= len(r.src) {
		return 0, ErrUnexpectedEOF
	}
	b := r.src[r.pos]
	r.pos++
	return b, nil
}

// ReadBytes byte-aligns and fills dst from the backing slice.
func (r *Reader) ReadBytes(dst []byte) error {
	r.AlignToByte()
	if r.pos+len(dst) > len(r.src) {
		return ErrUnexpectedEOF
	}
	copy(dst, r.src[r.pos:r.pos+len(dst)])
	r.pos += len(dst)
	return nil
}
