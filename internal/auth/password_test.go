package auth

import "testing"

func TestPlaintextVerifier(t *testing.T) {
	v := PlaintextVerifier{}

	stored, err := v.Store("secret1")
	if err != nil {
		t.Fatalf("Store() error = %v", err)
	}
	// The original scheme: what you store is what you typed.
	if stored != "secret1" {
		t.Errorf("Store() = %q, want %q", stored, "secret1")
	}

	ok, err := v.Verify(stored, "secret1")
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	if !ok {
		t.Error("Verify() = false for the correct password")
	}

	ok, err = v.Verify(stored, "wrongpass")
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	if ok {
		t.Error("Verify() = true for the wrong password")
	}
}

func TestBcryptVerifier(t *testing.T) {
	v := NewBcryptVerifierForTest(4) // bcrypt minimum cost, keeps the test fast

	stored, err := v.Store("secret1")
	if err != nil {
		t.Fatalf("Store() error = %v", err)
	}
	if stored == "secret1" {
		t.Error("Store() returned the plaintext — expected a bcrypt hash")
	}

	ok, err := v.Verify(stored, "secret1")
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	if !ok {
		t.Error("Verify() = false for the correct password")
	}

	ok, err = v.Verify(stored, "wrongpass")
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	if ok {
		t.Error("Verify() = true for the wrong password")
	}
}

func TestBcryptVerifier_RejectsOverlongPassword(t *testing.T) {
	v := NewBcryptVerifierForTest(4)

	long := make([]byte, 73)
	for i := range long {
		long[i] = 'a'
	}
	if _, err := v.Store(string(long)); err == nil {
		t.Error("Store() should reject passwords over 72 bytes")
	}
}

func TestBcryptVerifier_HashesDiffer(t *testing.T) {
	// bcrypt salts every hash — two users with the same password must not
	// share a stored value.
	v := NewBcryptVerifierForTest(4)

	a, err := v.Store("secret1")
	if err != nil {
		t.Fatalf("Store() error = %v", err)
	}
	b, err := v.Store("secret1")
	if err != nil {
		t.Fatalf("Store() error = %v", err)
	}
	if a == b {
		t.Error("two hashes of the same password are identical — missing salt?")
	}
}
