// Package auth holds authentication utilities: credential validation rules
// and the password verifier the login flow is built on.
package auth

import (
	"regexp"
	"unicode/utf8"

	"github.com/sakif/taskora/internal/apperror"
)

// Validation rules for signup. The messages are user-facing — they are
// exactly what the signup form shows next to the offending field.
const (
	MinUsernameLength = 3
	MinPasswordLength = 6
)

// usernameRe allows letters, digits and underscores only.
var usernameRe = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)

// emailRe is the usual pragmatic email shape: something@something.something,
// no whitespace, no second @. Full RFC 5322 validation buys nothing here —
// the only authoritative check for an address is sending mail to it.
var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidateUsername checks the username shape. Returns nil when valid, an
// apperror.ErrValidation with a user-facing message otherwise.
func ValidateUsername(username string) error {
	if utf8.RuneCountInString(username) < MinUsernameLength {
		return apperror.ValidationFailed("username", "Username must be at least 3 characters")
	}
	if !usernameRe.MatchString(username) {
		return apperror.ValidationFailed("username", "Username can only contain letters, numbers, and underscores")
	}
	return nil
}

// ValidateEmail checks the email shape.
func ValidateEmail(email string) error {
	if !emailRe.MatchString(email) {
		return apperror.ValidationFailed("email", "Please enter a valid email address")
	}
	return nil
}

// ValidatePassword checks the minimum password length. Length is the only
// rule — composition requirements are the verifier's concern, not the form's.
// Length means characters, not bytes: a multibyte rune counts once.
func ValidatePassword(password string) error {
	if utf8.RuneCountInString(password) < MinPasswordLength {
		return apperror.ValidationFailed("password", "Password must be at least 6 characters")
	}
	return nil
}
