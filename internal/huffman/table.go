// Package huffman builds canonical Huffman decode tables from code-length
// arrays and decodes symbols from a bitio.Reader. One package serves every
// alphabet DEFLATE needs: literal/length, distance, and code-length.
package huffman

import (
	"math/bits"

	"github.com/pkg/errors"

	"github.com/XC-Zero/pngz/internal/bitio"
)

// MaxCodeLength is the largest code length RFC 1951 permits for any
// alphabet (literal/length, distance, or code-length).
const MaxCodeLength = 15

// ErrInvalidCode reports a code-length vector that is not a valid canonical
// Huffman code: either over-subscribed (Kraft sum > 1) or under-subscribed
// by more than the single-leaf exception.
var ErrInvalidCode = errors.New("huffman: invalid code lengths")

// entry packs a decoded symbol together with the number of bits it
// consumed, so a single table lookup yields both.
type entry struct {
	sym uint16
	len uint8
}

// Table is an immutable canonical Huffman decoder built once and reused for
// every symbol of one DEFLATE block. It holds a flat lookup array indexed
// by the low maxLen bits of the stream (read LSB-first, so codes are
// stored bit-reversed); short codes are replicated across every extension
// of their unused high bits so a single PeekBits(maxLen) resolves any code.
type Table struct {
	entries []entry
	maxLen  uint
}

// Build constructs a Table from lengths, where lengths[i] is the code
// length of symbol i (0 meaning the symbol does not occur). It validates
// the Kraft inequality: the lengths must sum (as 2^-len) to exactly 1,
// except when exactly one symbol is present; that symbol is then decoded
// from every bit pattern of its own length. Use this for
// any code transmitted by the encoder (code-length, dynamic literal/
// length, dynamic distance): RFC 1951 requires those to be complete.
func Build(lengths []int) (*Table, error) {
	return build(lengths, true)
}

// BuildFixed constructs a Table the same way as Build but tolerates an
// incomplete code (Kraft sum < 1) for any number of present symbols, not
// just the single-leaf case. RFC 1951's fixed distance code is exactly
// this: 30 five-bit codes out of the 32 a 5-bit prefix allows, with the
// remaining two bit patterns simply never emitted by a conforming
// encoder. A conforming decoder builds this table without validating
// completeness at all (see the reference decoder's fixed-table setup,
// which constructs the fixed tables unconditionally).
func BuildFixed(lengths []int) (*Table, error) {
	return build(lengths, false)
}

func build(lengths []int, requireComplete bool) (*Table, error) {
	maxLen := 0
	present := 0
	var lastSym int
	counts := make([]int, MaxCodeLength+1)
	for sym, l := range lengths {
		if l == 0 {
			continue
		}
		if l < 0 || l > MaxCodeLength {
			return nil, errors.Wrap(ErrInvalidCode, "code length out of range")
		}
		counts[l]++
		present++
		lastSym = sym
		if l > maxLen {
			maxLen = l
		}
	}
	if present == 0 {
		return &Table{maxLen: 0}, nil
	}

	// Kraft sum, scaled by 2^maxLen so it stays integer.
	kraft := 0
	for l := 1; l <= maxLen; l++ {
		kraft += counts[l] << uint(maxLen-l)
	}
	full := 1 << uint(maxLen)
	if kraft > full {
		return nil, errors.Wrap(ErrInvalidCode, "over-subscribed code space")
	}
	if requireComplete && kraft < full && present != 1 {
		return nil, errors.Wrap(ErrInvalidCode, "under-subscribed code space")
	}

	// Canonical first code per length.
	nextCode := make([]int, MaxCodeLength+2)
	code := 0
	for l := 1; l <= maxLen; l++ {
		code = (code + counts[l-1]) << 1
		nextCode[l] = code
	}

	t := &Table{
		entries: make([]entry, full),
		maxLen:  uint(maxLen),
	}

	if present == 1 {
		// Single-leaf exception: the lone symbol is read at its own code
		// length; fill the whole table so every bit pattern of that length
		// decodes it.
		for i := range t.entries {
			t.entries[i] = entry{sym: uint16(lastSym), len: uint8(maxLen)}
		}
		return t, nil
	}

	for sym, l := range lengths {
		if l == 0 {
			continue
		}
		c := nextCode[l]
		nextCode[l]++
		rev := reverseBits(uint16(c), uint(l))
		step := 1 << uint(l)
		for i := int(rev); i < full; i += step {
			t.entries[i] = entry{sym: uint16(sym), len: uint8(l)}
		}
	}
	return t, nil
}

func reverseBits(v uint16, n uint) uint16 {
	return bits.Reverse16(v << (16 - n))
}

// CanonicalCodes assigns each present symbol its canonical code value
// (MSB-first, not bit-reversed) for the given code-length vector. Encoders
// write each returned code by emitting its length bits from the most
// significant bit down, per RFC 1951's Huffman code packing rule.
func CanonicalCodes(lengths []int) ([]uint16, error) {
	maxLen := 0
	counts := make([]int, MaxCodeLength+1)
	for _, l := range lengths {
		if l == 0 {
			continue
		}
		if l < 0 || l > MaxCodeLength {
			return nil, errors.Wrap(ErrInvalidCode, "code length out of range")
		}
		counts[l]++
		if l > maxLen {
			maxLen = l
		}
	}
	nextCode := make([]int, MaxCodeLength+2)
	code := 0
	for l := 1; l <= maxLen; l++ {
		code = (code + counts[l-1]) << 1
		nextCode[l] = code
	}
	codes := make([]uint16, len(lengths))
	for sym, l := range lengths {
		if l == 0 {
			continue
		}
		codes[sym] = uint16(nextCode[l])
		nextCode[l]++
	}
	return codes, nil
}

// Decode reads one symbol from r using t.
func (t *Table) Decode(r *bitio.Reader) (int, error) {
	if t.maxLen == 0 {
		return 0, errors.Wrap(ErrInvalidCode, "empty table")
	}
	peek, available := r.PeekBitsTolerant(t.maxLen)
	e := t.entries[peek]
	if e.len == 0 {
		return 0, errors.Wrap(ErrInvalidCode, "unresolvable code")
	}
	if uint(e.len) > available {
		return 0, errors.Wrap(bitio.ErrUnexpectedEOF, "huffman code truncated")
	}
	r.Consume(uint(e.len))
	return int(e.sym), nil
}
