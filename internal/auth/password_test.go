package auth

import (
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestHashAndVerify(t *testing.T) {
	h := NewHasher(bcrypt.MinCost)

	hash, err := h.Hash("secret1")
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}
	if hash == "secret1" {
		t.Fatalf("hash must not equal the plaintext")
	}
	if !h.Verify("secret1", hash) {
		t.Fatalf("expected Verify to succeed for the original password")
	}
	if h.Verify("secret2", hash) {
		t.Fatalf("expected Verify to fail for a different password")
	}
}

func TestHashIsSalted(t *testing.T) {
	h := NewHasher(bcrypt.MinCost)

	h1, err := h.Hash("secret1")
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}
	h2, err := h.Hash("secret1")
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}
	if h1 == h2 {
		t.Fatalf("two hashes of the same password must differ")
	}
}

func TestVerifyMalformedHash(t *testing.T) {
	h := NewHasher(bcrypt.MinCost)
	if h.Verify("secret1", "not-a-bcrypt-hash") {
		t.Fatalf("expected Verify to fail for a malformed hash")
	}
}

func TestNewHasherClampsCost(t *testing.T) {
	h := NewHasher(999)
	if h.cost != bcrypt.DefaultCost {
		t.Fatalf("expected out-of-range cost to fall back to default, got %d", h.cost)
	}
}
