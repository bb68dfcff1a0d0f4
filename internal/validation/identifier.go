package validation

import (
	"errors"
	"strings"
)

// IsEmailIdentifier reports whether a login identifier should be treated as an email address.
func IsEmailIdentifier(identifier string) bool {
	return strings.Contains(identifier, "@")
}

// ValidateIdentifier checks a login identifier, which is either an email or a phone number.
func ValidateIdentifier(identifier string) error {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return errors.New("email or phone number is required")
	}
	if IsEmailIdentifier(identifier) {
		return ValidateEmail(identifier)
	}
	err := ValidatePhone(identifier)
	if err != nil {
		return errors.New("enter a valid email or 10 digit phone number")
	}
	return nil
}
