package common

import (
	"encoding/base64"
	"encoding/hex"
	"testing"
)

// ---------- MakeRandURLSafeString ----------

func TestMakeRandURLSafeString_LengthAndAlphabet(t *testing.T) {
	const n = 32
	s, err := MakeRandURLSafeString(n)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		t.Fatalf("string is not valid base64url: %v", err)
	}
	if len(b) != n {
		t.Fatalf("expected %d decoded bytes, got %d", n, len(b))
	}
}

func TestMakeRandURLSafeString_ZeroSize(t *testing.T) {
	s, err := MakeRandURLSafeString(0)
	if err != nil {
		t.Fatalf("unexpected error for size=0: %v", err)
	}
	if s != "" {
		t.Fatalf("expected empty string for size=0, got %q", s)
	}
}

func TestMakeRandURLSafeString_EntropyHint(t *testing.T) {
	a, err := MakeRandURLSafeString(RefreshTokenByteSize)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := MakeRandURLSafeString(RefreshTokenByteSize)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a == b {
		t.Logf("warning: two random secrets are identical; extremely unlikely")
	}
}

// ---------- HashToken ----------

func TestHashToken_Deterministic(t *testing.T) {
	if HashToken("secret") != HashToken("secret") {
		t.Fatalf("digest of the same input must be stable")
	}
	if HashToken("secret") == HashToken("secret2") {
		t.Fatalf("different inputs must not collide trivially")
	}
}

func TestHashToken_ShapeAndVector(t *testing.T) {
	h := HashToken("abc")
	if len(h) != 64 {
		t.Fatalf("expected 64 hex chars, got %d", len(h))
	}
	if _, err := hex.DecodeString(h); err != nil {
		t.Fatalf("digest is not valid hex: %v", err)
	}
	// SHA-256("abc"), fixed vector.
	const want = "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad"
	if h != want {
		t.Fatalf("digest mismatch: got %s want %s", h, want)
	}
}
