package validation

import (
	"errors"
	"fmt"
	"strings"
)

// ValidateName validates a first or last name. field is used in messages ("first name").
func ValidateName(field, name string) error {
	trimmed := strings.TrimSpace(name)

	if trimmed == "" {
		return fmt.Errorf("%s is required", field)
	}

	if len(trimmed) > 100 {
		return errors.New(field + " is too long (max 100 characters)")
	}

	return nil
}
