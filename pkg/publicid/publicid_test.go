package publicid

import (
	"strings"
	"testing"
)

func TestNewLengthAndAlphabet(t *testing.T) {
	id := New(Length)
	if len(id) != Length {
		t.Fatalf("expected %d chars, got %d", Length, len(id))
	}
	for _, r := range id {
		if !strings.ContainsRune(alphabet, r) {
			t.Fatalf("unexpected character %q in id %s", r, id)
		}
	}
}

func TestNewDefaultsOnBadLength(t *testing.T) {
	if got := len(New(0)); got != Length {
		t.Fatalf("expected default length %d, got %d", Length, got)
	}
	if got := len(New(-5)); got != Length {
		t.Fatalf("expected default length %d, got %d", Length, got)
	}
}

func TestNewIsNotConstant(t *testing.T) {
	seen := map[string]struct{}{}
	for i := 0; i < 50; i++ {
		seen[New(16)] = struct{}{}
	}
	if len(seen) < 50 {
		t.Fatalf("expected 50 distinct ids, got %d", len(seen))
	}
}
