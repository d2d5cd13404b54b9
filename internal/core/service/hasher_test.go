package service

import "testing"

func TestBcryptHasher_HashAndVerify(t *testing.T) {
	h := NewBcryptHasher()

	hash, err := h.Hash("s3cret")
	if err != nil {
		t.Fatalf("Hash returned error: %v", err)
	}
	if hash == "s3cret" {
		t.Fatalf("hash equals the plaintext")
	}
	if !h.Verify(hash, "s3cret") {
		t.Fatalf("Verify rejected the original password")
	}
	if h.Verify(hash, "wrong") {
		t.Fatalf("Verify accepted a wrong password")
	}
}

func TestBcryptHasher_SaltedPerCall(t *testing.T) {
	h := NewBcryptHasher()

	first, err := h.Hash("same-password")
	if err != nil {
		t.Fatalf("Hash returned error: %v", err)
	}
	second, err := h.Hash("same-password")
	if err != nil {
		t.Fatalf("Hash returned error: %v", err)
	}
	if first == second {
		t.Fatalf("two hashes of the same password are identical")
	}
	if !h.Verify(first, "same-password") || !h.Verify(second, "same-password") {
		t.Fatalf("both hashes should verify against the password")
	}
}

func TestBcryptHasher_MalformedHash(t *testing.T) {
	h := NewBcryptHasher()
	if h.Verify("not-a-bcrypt-hash", "anything") {
		t.Fatalf("Verify accepted a malformed stored hash")
	}
}
