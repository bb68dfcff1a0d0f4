package validation

import (
	"errors"
	"regexp"
)

var phonePattern = regexp.MustCompile(`^[1-9]\d{9}$`)

// ValidatePhone accepts ten-digit national numbers without a leading zero.
func ValidatePhone(phone string) error {
	if phone == "" {
		return errors.New("phone number is required")
	}
	if !phonePattern.MatchString(phone) {
		return errors.New("phone number must be 10 digits")
	}
	return nil
}
