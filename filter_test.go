package png

import (
	"bytes"
	"testing"
)

func TestPaethTieBreak(t *testing.T) {
	// a=6, b=0, c=2: p = 4, so |p-a| = |p-c| = 2 and |p-b| = 4. a and c
	// tie, and the rule (a wins ties with b and c, b wins ties with c)
	// must select a (6), not c (2).
	if got := paeth(6, 0, 2); got != 6 {
		t.Fatalf("paeth(6,0,2) = %d, want 6", got)
	}
	// a closer than b and c: must return a.
	if got := paeth(10, 100, 100); got != 10 {
		t.Fatalf("paeth(10,100,100) = %d, want 10", got)
	}
}

func TestFilterRoundTrip(t *testing.T) {
	cur := []byte{10, 20, 30, 40, 50, 60}
	prev := []byte{5, 15, 25, 35, 45, 55}
	bpp := 3

	for ft := byte(0); ft < numFilters; ft++ {
		encoded := filterRow(ft, cur, prev, bpp, nil)
		decoded := append([]byte(nil), encoded...)
		if err := unfilterRow(ft, decoded, prev, bpp); err != nil {
			t.Fatalf("filter %d: unfilterRow: %v", ft, err)
		}
		if !bytes.Equal(decoded, cur) {
			t.Fatalf("filter %d: round trip mismatch: got %v, want %v", ft, decoded, cur)
		}
	}
}

func TestFilterRoundTripFirstRow(t *testing.T) {
	cur := []byte{1, 2, 3, 4}
	bpp := 1
	for ft := byte(0); ft < numFilters; ft++ {
		encoded := filterRow(ft, cur, nil, bpp, nil)
		decoded := append([]byte(nil), encoded...)
		if err := unfilterRow(ft, decoded, nil, bpp); err != nil {
			t.Fatalf("filter %d: unfilterRow: %v", ft, err)
		}
		if !bytes.Equal(decoded, cur) {
			t.Fatalf("filter %d first row: round trip mismatch: got %v, want %v", ft, decoded, cur)
		}
	}
}

func TestUnfilterRowUnknownType(t *testing.T) {
	if err := unfilterRow(9, []byte{1, 2, 3}, nil, 1); err == nil {
		t.Fatal("expected error for unknown filter type")
	}
}

func TestChooseFilterPicksLowestSAD(t *testing.T) {
	cur := bytes.Repeat([]byte{7}, 16)
	prev := bytes.Repeat([]byte{7}, 16)
	var scratch [numFilters][]byte
	for i := range scratch {
		scratch[i] = make([]byte, 0, 16)
	}
	ft, encoded := chooseFilter(cur, prev, 3, scratch[:])
	// Every byte equals the one above it, so Up filtering zeroes the
	// entire row: the minimal possible SAD.
	if ft != filterUp {
		t.Fatalf("chooseFilter = %d, want filterUp (%d)", ft, filterUp)
	}
	for _, b := range encoded {
		if b != 0 {
			t.Fatalf("expected all-zero Up-filtered row, got %v", encoded)
		}
	}
}
