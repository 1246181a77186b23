package randx

import (
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestHexLengthAndAlphabet(t *testing.T) {
	var src Crypto

	for _, n := range []int{0, 1, 2, 3, 8, 13} {
		got := src.Hex(n)
		if len(got) != n {
			t.Fatalf("Hex(%d) length = %d", n, len(got))
		}
		for _, c := range got {
			if !strings.ContainsRune("0123456789abcdef", c) {
				t.Fatalf("Hex(%d) = %q contains %q", n, got, c)
			}
		}
	}
}

func TestIntnBounds(t *testing.T) {
	var src Crypto

	if got := src.Intn(0); got != 0 {
		t.Fatalf("Intn(0) = %d", got)
	}
	for range 200 {
		if got := src.Intn(10); got < 0 || got >= 10 {
			t.Fatalf("Intn(10) = %d", got)
		}
	}
}

func TestSessionIDIsUUID(t *testing.T) {
	a, b := SessionID(), SessionID()
	if _, err := uuid.Parse(a); err != nil {
		t.Fatalf("invalid uuid %q: %v", a, err)
	}
	if a == b {
		t.Fatal("session ids should differ")
	}
}
