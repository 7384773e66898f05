package security

import "testing"

func TestPINHasherDeterministic(t *testing.T) {
	h := NewPINHasher("test_salt")

	first := h.Digest("1234")
	second := h.Digest("1234")

	if first != second {
		t.Fatalf("expected identical digests, got %q and %q", first, second)
	}
	if len(first) != 64 {
		t.Fatalf("expected 64 hex chars, got %d", len(first))
	}
}

func TestPINHasherDistinctPINs(t *testing.T) {
	h := NewPINHasher("test_salt")

	if h.Digest("1234") == h.Digest("1235") {
		t.Fatal("distinct PINs produced the same digest")
	}
}

func TestPINHasherSaltChangesDigest(t *testing.T) {
	a := NewPINHasher("salt_a")
	b := NewPINHasher("salt_b")

	if a.Digest("1234") == b.Digest("1234") {
		t.Fatal("distinct salts produced the same digest")
	}
}

func TestPINHasherKnownVector(t *testing.T) {
	// sha256("1234" + "default_salt_value")
	h := NewPINHasher("default_salt_value")

	const want = "86ca83925a69b1a66c2cf15bb233269098c2049312843280ba7b217a397b7b8e"
	if got := h.Digest("1234"); got != want {
		t.Fatalf("digest mismatch: got %q want %q", got, want)
	}
}
