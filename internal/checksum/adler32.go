package checksum

const adlerMod = 65521

// Adler32Hasher is a streaming Adler-32 accumulator, as used by the zlib
// trailer.
type Adler32Hasher struct {
	a, b uint32
}

// NewAdler32 returns a hasher in the A=1, B=0 initial state.
func NewAdler32() *Adler32Hasher {
	h := &Adler32Hasher{}
	h.Reset()
	return h
}

// Reset restores the initial state.
func (h *Adler32Hasher) Reset() {
	h.a = 1
	h.b = 0
}

// Update folds b into the running checksum. Sums are reduced modulo 65521
// every 5552 bytes so the intermediate math never overflows uint32.
func (h *Adler32Hasher) Update(p []byte) {
	a, b := h.a, h.b
	for len(p) > 0 {
		chunk := p
		if len(chunk) > 5552 {
			chunk = chunk[:5552]
		}
		for _, v := range chunk {
			a += uint32(v)
			b += a
		}
		a %= adlerMod
		b %= adlerMod
		p = p[len(chunk):]
	}
	h.a, h.b = a, b
}

// Final returns (B<<16)|A.
func (h *Adler32Hasher) Final() uint32 { return (h.b << 16) | h.a }

// Adler32 computes the one-shot checksum of b.
func Adler32(b []byte) uint32 {
	h := NewAdler32()
	h.Update(b)
	return h.Final()
}
