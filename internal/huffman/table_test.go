package huffman

import (
	"testing"

	"github.com/XC-Zero/pngz/internal/bitio"
)

// encode writes sym's canonical code (codes[sym] has length lengths[sym])
// MSB-first, matching how a real DEFLATE encoder packs Huffman codes.
func encode(w *bitio.Writer, codes []uint16, lengths []int, sym int) {
	l := lengths[sym]
	c := codes[sym]
	for b := l - 1; b >= 0; b-- {
		bit := (c >> uint(b)) & 1
		w.WriteBit(uint8(bit))
	}
}

func TestBuildDecodeRoundTrip(t *testing.T) {
	// A small, valid canonical code: 4 symbols of lengths 1,2,3,3.
	lengths := []int{1, 2, 3, 3}
	codes, err := CanonicalCodes(lengths)
	if err != nil {
		t.Fatal(err)
	}
	table, err := Build(lengths)
	if err != nil {
		t.Fatal(err)
	}

	w := bitio.NewWriter()
	seq := []int{0, 1, 2, 3, 0, 3, 1, 0}
	for _, sym := range seq {
		encode(w, codes, lengths, sym)
	}
	w.Flush()

	r := bitio.NewReader(w.Bytes())
	for _, want := range seq {
		got, err := table.Decode(r)
		if err != nil {
			t.Fatalf("Decode: %v", err)
		}
		if got != want {
			t.Fatalf("Decode() = %d, want %d", got, want)
		}
	}
}

func TestBuildSingleLeaf(t *testing.T) {
	lengths := []int{0, 1, 0}
	table, err := Build(lengths)
	if err != nil {
		t.Fatal(err)
	}
	w := bitio.NewWriter()
	w.WriteBit(1)
	w.WriteBit(0)
	w.Flush()
	r := bitio.NewReader(w.Bytes())
	for i := 0; i < 2; i++ {
		got, err := table.Decode(r)
		if err != nil {
			t.Fatal(err)
		}
		if got != 1 {
			t.Fatalf("Decode() = %d, want 1 (single-leaf symbol)", got)
		}
	}
}

func TestBuildOverSubscribed(t *testing.T) {
	// Two length-1 codes exhaust the 1-bit space; a third overflows it.
	lengths := []int{1, 1, 1}
	if _, err := Build(lengths); err == nil {
		t.Fatal("expected error for over-subscribed code")
	}
}

func TestBuildUnderSubscribed(t *testing.T) {
	// Two length-2 symbols leave half the code space unused with more
	// than one symbol present: invalid per RFC 1951.
	lengths := []int{2, 2}
	if _, err := Build(lengths); err == nil {
		t.Fatal("expected error for under-subscribed code")
	}
}

func TestBuildFixedToleratesIncompleteCode(t *testing.T) {
	// 30 symbols at length 5 leave 2 of the 32 five-bit patterns unused,
	// exactly the shape of RFC 1951's fixed distance code. Build rejects
	// this; BuildFixed must accept it.
	lengths := make([]int, 30)
	for i := range lengths {
		lengths[i] = 5
	}
	if _, err := Build(lengths); err == nil {
		t.Fatal("expected Build to reject an incomplete code with >1 symbol present")
	}
	table, err := BuildFixed(lengths)
	if err != nil {
		t.Fatalf("BuildFixed: %v", err)
	}
	codes, err := CanonicalCodes(lengths)
	if err != nil {
		t.Fatal(err)
	}
	w := bitio.NewWriter()
	encode(w, codes, lengths, 0)
	encode(w, codes, lengths, 29)
	w.Flush()
	r := bitio.NewReader(w.Bytes())
	if got, err := table.Decode(r); err != nil || got != 0 {
		t.Fatalf("Decode() = %d, %v, want 0, nil", got, err)
	}
	if got, err := table.Decode(r); err != nil || got != 29 {
		t.Fatalf("Decode() = %d, %v, want 29, nil", got, err)
	}
}

func TestBuildEmpty(t *testing.T) {
	table, err := Build([]int{0, 0, 0})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := table.Decode(bitio.NewReader(nil)); err == nil {
		t.Fatal("expected error decoding from an empty table")
	}
}
