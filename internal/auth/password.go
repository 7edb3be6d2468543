package auth

import (
	"crypto/subtle"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// Verifier turns a plaintext password into its stored form and checks a
// login attempt against a stored value.
//
// WHY AN INTERFACE FOR SOMETHING THIS SMALL?
// The inherited data model stores passwords verbatim — a defect we preserve
// for behavioural parity with existing databases, NOT a recommendation.
// Keeping the comparison behind one interface means the insecure scheme
// lives in exactly one place, and swapping in bcrypt is a one-line change in
// main.go rather than a hunt through callers. Both implementations live here
// so the secure replacement is always one import away.
type Verifier interface {
	// Store converts a new plaintext password into its stored form.
	Store(plaintext string) (string, error)
	// Verify reports whether the login attempt matches the stored value.
	// A mismatch is nil=false, not an error — wrong passwords are expected.
	Verify(stored, attempt string) (bool, error)
}

// PlaintextVerifier reproduces the original scheme: the stored value IS the
// password, and verification is string equality.
//
// We still compare in constant time — even a broken scheme should not leak
// match length through timing.
type PlaintextVerifier struct{}

var _ Verifier = PlaintextVerifier{}

func (PlaintextVerifier) Store(plaintext string) (string, error) {
	return plaintext, nil
}

func (PlaintextVerifier) Verify(stored, attempt string) (bool, error) {
	return subtle.ConstantTimeCompare([]byte(stored), []byte(attempt)) == 1, nil
}

// defaultCost is the bcrypt work factor for BcryptVerifier.
// Cost 12 takes roughly 250ms on a modern machine — negligible for a login,
// brutal for an attacker brute-forcing a stolen database.
const defaultCost = 12

// BcryptVerifier is the secure drop-in replacement: bcrypt hash on store,
// constant-time hash comparison on verify. Selected with AUTH_MODE=bcrypt.
//
// Note: a database written by PlaintextVerifier is not readable by
// BcryptVerifier (the stored values are not hashes). The switch is for new
// deployments; there is no migration path for existing rows.
type BcryptVerifier struct {
	cost int
}

var _ Verifier = (*BcryptVerifier)(nil)

// NewBcryptVerifier creates a BcryptVerifier with the default cost.
func NewBcryptVerifier() *BcryptVerifier {
	return &BcryptVerifier{cost: defaultCost}
}

// NewBcryptVerifierForTest uses a custom (low) cost so tests skip the
// ~250ms per hash. Do not use outside tests.
func NewBcryptVerifierForTest(cost int) *BcryptVerifier {
	return &BcryptVerifier{cost: cost}
}

func (v *BcryptVerifier) Store(plaintext string) (string, error) {
	if len(plaintext) > 72 {
		// bcrypt silently truncates past 72 bytes; reject instead.
		return "", fmt.Errorf("auth: password must be 72 bytes or fewer")
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(plaintext), v.cost)
	if err != nil {
		return "", fmt.Errorf("auth: hashing password: %w", err)
	}
	return string(hashed), nil
}

func (v *BcryptVerifier) Verify(stored, attempt string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(stored), []byte(attempt))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return false, nil
		}
		return false, fmt.Errorf("auth: comparing password hash: %w", err)
	}
	return true, nil
}
