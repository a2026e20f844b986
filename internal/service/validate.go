package service

import (
	"net/mail"
	"strings"
	"unicode"
)

// MinPasswordLength is the floor of the password strength policy.
const MinPasswordLength = 8

// NormalizeEmail lower-cases and trims an email address. Uniqueness and
// lookups both operate on the normalized form, so two registrations that
// differ only in case collide.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidateEmail checks address syntax. Addresses with a display name
// ("Alice <a@x.com>") are rejected; only the bare form is an identity.
func ValidateEmail(email string) error {
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return ErrInvalidEmail
	}
	return nil
}

// ValidatePassword enforces the minimum strength policy: at least
// MinPasswordLength characters with a mix of letters, digits, and symbols.
func ValidatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return ErrWeakPassword
	}

	var hasLetter, hasDigit, hasSymbol bool
	for _, r := range password {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		default:
			hasSymbol = true
		}
	}

	if !hasLetter || !hasDigit || !hasSymbol {
		return ErrWeakPassword
	}
	return nil
}
