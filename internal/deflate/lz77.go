package deflate

import (
	"github.com/XC-Zero/pngz/internal/bitio"
	"github.com/XC-Zero/pngz/internal/huffman"
)

// hashBits sizes the rolling 3-byte hash table for the chain matcher.
const hashBits = 15
const hashSize = 1 << hashBits
const hashShift = (hashBits + minMatchLen - 1) / minMatchLen

func hash3(b0, b1, b2 byte) uint32 {
	return ((uint32(b0)<<8|uint32(b1))<<8 | uint32(b2)) * 2654435761 >> (32 - hashBits)
}

// token is one LZ77-coded unit: either a literal byte or a length/distance
// back-reference.
type token struct {
	isMatch  bool
	lit      byte
	length   int
	distance int
}

// lz77Parse finds matches with a hash-chain search over src, producing the
// literal/match token stream a Huffman stage then encodes. Minimum match
// length 3, maximum 258, maximum distance 32768, exactly as RFC 1951
// requires.
func lz77Parse(src []byte) []token {
	var tokens []token
	if len(src) == 0 {
		return tokens
	}

	head := make([]int, hashSize)
	for i := range head {
		head[i] = -1
	}
	prev := make([]int, len(src))

	insert := func(pos int) {
		if pos+minMatchLen > len(src) {
			return
		}
		h := hash3(src[pos], src[pos+1], src[pos+2])
		prev[pos] = head[h]
		head[h] = pos
	}

	const maxChainLen = 128

	i := 0
	for i < len(src) {
		bestLen, bestDist := 0, 0
		if i+minMatchLen <= len(src) {
			h := hash3(src[i], src[i+1], src[i+2])
			cand := head[h]
			chain := 0
			for cand >= 0 && chain < maxChainLen {
				if i-cand > maxDistance {
					break
				}
				l := matchLength(src, cand, i)
				if l > bestLen {
					bestLen = l
					bestDist = i - cand
				}
				cand = prev[cand]
				chain++
			}
		}

		if bestLen >= minMatchLen {
			tokens = append(tokens, token{isMatch: true, length: bestLen, distance: bestDist})
			for k := 0; k < bestLen; k++ {
				insert(i + k)
			}
			i += bestLen
		} else {
			tokens = append(tokens, token{lit: src[i]})
			insert(i)
			i++
		}
	}
	return tokens
}

func matchLength(src []byte, a, b int) int {
	max := len(src) - b
	if limit := maxMatchLen; max > limit {
		max = limit
	}
	n := 0
	for n < max && src[a+n] == src[b+n] {
		n++
	}
	return n
}

// deflateFixedLZ77 emits a single fixed-Huffman DEFLATE block encoding the
// LZ77 token stream produced from src.
func deflateFixedLZ77(w *bitio.Writer, src []byte) {
	tokens := lz77Parse(src)

	litCodes, _ := huffman.CanonicalCodes(fixedLitLenLengths())
	litLens := fixedLitLenLengths()
	distCodes, _ := huffman.CanonicalCodes(fixedDistLengths())
	distLens := fixedDistLengths()

	w.WriteBit(1) // BFINAL: this encoder always emits one block.
	w.WriteBits(btypeFixed, 2)

	writeCode := func(code uint16, length int) {
		for b := length - 1; b >= 0; b-- {
			w.WriteBit(uint8((code >> uint(b)) & 1))
		}
	}

	for _, t := range tokens {
		if !t.isMatch {
			writeCode(litCodes[t.lit], litLens[t.lit])
			continue
		}
		li := lengthSymbol(t.length)
		writeCode(litCodes[257+li], litLens[257+li])
		extra := t.length - lengthBase[li]
		w.WriteBits(uint16(extra), lengthExtraBits[li])

		di := distSymbol(t.distance)
		writeCode(distCodes[di], distLens[di])
		dextra := t.distance - distBase[di]
		w.WriteBits(uint16(dextra), distExtraBits[di])
	}
	writeCode(litCodes[endOfBlock], litLens[endOfBlock])
}

func lengthSymbol(length int) int {
	for i := len(lengthBase) - 1; i >= 0; i-- {
		if length >= lengthBase[i] {
			return i
		}
	}
	return 0
}

func distSymbol(dist int) int {
	for i := len(distBase) - 1; i >= 0; i-- {
		if dist >= distBase[i] {
			return i
		}
	}
	return 0
}
