package bitio

import "testing"

func TestWriterReaderRoundTrip(t *testing.T) {
	w := NewWriter()
	if err := w.WriteBits(0x3, 2); err != nil {
		t.Fatal(err)
	}
	if err := w.WriteBits(0x1A5, 9); err != nil {
		t.Fatal(err)
	}
	if err := w.WriteBit(1); err != nil {
		t.Fatal(err)
	}
	if err := w.Flush(); err != nil {
		t.Fatal(err)
	}
	if err := w.WriteByte(0x42); err != nil {
		t.Fatal(err)
	}

	r := NewReader(w.Bytes())
	v, err := r.ReadBits(2)
	if err != nil || v != 0x3 {
		t.Fatalf("ReadBits(2) = %d, %v; want 3, nil", v, err)
	}
	v, err = r.ReadBits(9)
	if err != nil || v != 0x1A5 {
		t.Fatalf("ReadBits(9) = %d, %v; want 0x1A5, nil", v, err)
	}
	bit, err := r.ReadBit()
	if err != nil || bit != 1 {
		t.Fatalf("ReadBit() = %d, %v; want 1, nil", bit, err)
	}
	b, err := r.ReadByte()
	if err != nil || b != 0x42 {
		t.Fatalf("ReadByte() = %#x, %v; want 0x42, nil", b, err)
	}
}

func TestPeekDoesNotConsume(t *testing.T) {
	w := NewWriter()
	w.WriteBits(0xAB, 8)
	w.Flush()

	r := NewReader(w.Bytes())
	v1, err := r.PeekBits(8)
	if err != nil {
		t.Fatal(err)
	}
	v2, err := r.PeekBits(8)
	if err != nil {
		t.Fatal(err)
	}
	if v1 != v2 || v1 != 0xAB {
		t.Fatalf("peek not idempotent: %#x, %#x", v1, v2)
	}
	r.Consume(8)
	if _, err := r.PeekBits(1); err == nil {
		t.Fatal("expected EOF after consuming all bits")
	}
}

func TestPeekBitsTolerant(t *testing.T) {
	w := NewWriter()
	w.WriteBits(0x5, 3)
	w.Flush()

	r := NewReader(w.Bytes())
	v, avail := r.PeekBitsTolerant(3)
	if avail != 3 || v != 0x5 {
		t.Fatalf("PeekBitsTolerant(3) = %d avail=%d, want 5 avail=3", v, avail)
	}
	r.Consume(3)

	// Only 5 zero-padding bits remain in this byte; asking for 9 should
	// report availability capped to what's actually backed by input.
	_, avail = r.PeekBitsTolerant(9)
	if avail != 5 {
		t.Fatalf("PeekBitsTolerant(9) avail = %d, want 5", avail)
	}
}

func TestWriteBytesAligns(t *testing.T) {
	w := NewWriter()
	w.WriteBits(0x1, 3)
	w.WriteBytes([]byte{0xAA, 0xBB})
	out := w.Bytes()
	if len(out) != 3 {
		t.Fatalf("len(out) = %d, want 3 (1 padded byte + 2 literal)", len(out))
	}
	if out[1] != 0xAA || out[2] != 0xBB {
		t.Fatalf("out = %x, want [_, aa, bb]", out)
	}
}

func TestFixedWriterOverflow(t *testing.T) {
	sink := make([]byte, 1)
	w := NewFixed(sink)
	if err := w.WriteByte(0x01); err != nil {
		t.Fatal(err)
	}
	if err := w.WriteByte(0x02); err != ErrBufferOverflow {
		t.Fatalf("expected ErrBufferOverflow, got %v", err)
	}
}
