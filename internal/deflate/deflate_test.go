package deflate

import (
	"bytes"
	"strings"
	"testing"
)

func TestStoredRoundTrip(t *testing.T) {
	src := []byte("hello, world! this round-trips through a stored block.")
	compressed := Deflate(src, NoCompression)
	got, err := Inflate(compressed)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, src) {
		t.Fatalf("round trip mismatch: got %q, want %q", got, src)
	}
}

func TestStoredRoundTripEmpty(t *testing.T) {
	compressed := Deflate(nil, NoCompression)
	got, err := Inflate(compressed)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Fatalf("round trip of empty input produced %d bytes", len(got))
	}
}

func TestStoredRoundTripMultiChunk(t *testing.T) {
	src := bytes.Repeat([]byte{0xAB}, 70000) // spans two 65535-byte stored blocks
	compressed := Deflate(src, NoCompression)
	got, err := Inflate(compressed)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, src) {
		t.Fatal("round trip mismatch across stored block boundary")
	}
}

func TestFixedLZ77RoundTripRepetitive(t *testing.T) {
	src := bytes.Repeat([]byte("abcabcabcabcabc"), 200)
	compressed := Deflate(src, DefaultCompression)
	got, err := Inflate(compressed)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, src) {
		t.Fatal("LZ77 round trip mismatch on repetitive input")
	}
	if len(compressed) >= len(src) {
		t.Fatalf("expected compression to shrink repetitive input: %d >= %d", len(compressed), len(src))
	}
}

func TestFixedLZ77RoundTripText(t *testing.T) {
	src := []byte(strings.Repeat("the quick brown fox jumps over the lazy dog. ", 50))
	compressed := Deflate(src, DefaultCompression)
	got, err := Inflate(compressed)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, src) {
		t.Fatal("LZ77 round trip mismatch on text input")
	}
}

func TestFixedLZ77RoundTripLongMatch(t *testing.T) {
	// Forces a match length above 258, which requires the encoder to split
	// it into multiple length/distance tokens.
	src := bytes.Repeat([]byte{'z'}, 1000)
	compressed := Deflate(src, DefaultCompression)
	got, err := Inflate(compressed)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, src) {
		t.Fatal("LZ77 round trip mismatch on long run")
	}
}

func TestFixedLZ77RoundTripEmpty(t *testing.T) {
	compressed := Deflate(nil, DefaultCompression)
	got, err := Inflate(compressed)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Fatalf("round trip of empty input produced %d bytes", len(got))
	}
}

func TestInflateRejectsBadBlockType(t *testing.T) {
	// BFINAL=1, BTYPE=3 (reserved/invalid), LSB-first in the first byte.
	_, err := Inflate([]byte{0x07})
	if err == nil {
		t.Fatal("expected error for reserved block type")
	}
}

func TestInflateRejectsTruncatedStream(t *testing.T) {
	compressed := Deflate([]byte("some data to compress for truncation testing"), DefaultCompression)
	_, err := Inflate(compressed[:len(compressed)/2])
	if err == nil {
		t.Fatal("expected error decoding a truncated stream")
	}
}

func TestZlibRoundTrip(t *testing.T) {
	src := []byte("zlib wrapper round trip, including the adler-32 trailer.")
	wrapped := DeflateZlib(src, DefaultCompression)
	got, err := InflateZlib(wrapped)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, src) {
		t.Fatalf("zlib round trip mismatch: got %q, want %q", got, src)
	}
}

func TestZlibRejectsBadHeaderCheck(t *testing.T) {
	wrapped := DeflateZlib([]byte("x"), NoCompression)
	wrapped[1] ^= 0xFF // corrupt FLG so the mod-31 check fails
	if _, err := InflateZlib(wrapped); err == nil {
		t.Fatal("expected error for corrupted zlib header")
	}
}

func TestZlibRejectsChecksumMismatch(t *testing.T) {
	wrapped := DeflateZlib([]byte("some payload"), NoCompression)
	wrapped[len(wrapped)-1] ^= 0xFF // corrupt the adler-32 trailer
	if _, err := InflateZlib(wrapped); err == nil {
		t.Fatal("expected error for adler-32 mismatch")
	}
}

func TestZlibRejectsPresetDictionary(t *testing.T) {
	wrapped := DeflateZlib([]byte("x"), NoCompression)
	// FLG = 0x20 sets FDICT and keeps the header check valid
	// (0x78*256 + 0x20 = 30752 = 31*992), so only FDICT can cause rejection.
	wrapped[1] = 0x20
	if _, err := InflateZlib(wrapped); err == nil {
		t.Fatal("expected error for preset dictionary")
	}
}
