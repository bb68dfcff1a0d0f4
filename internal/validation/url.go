package validation

import (
	"errors"
	"net/url"
	"strings"
)

// ValidateFileURL accepts absolute http(s) URLs with a host.
func ValidateFileURL(raw string) error {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return errors.New("file URL is required")
	}

	u, err := url.Parse(raw)
	if err != nil {
		return errors.New("file URL is malformed")
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return errors.New("file URL must use http or https")
	}

	if u.Host == "" {
		return errors.New("file URL must include a host")
	}

	return nil
}
