package service

import (
	"encoding/base64"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/printmate/printmate/internal/repository"
)

var errMalformedCursor = errors.New("malformed cursor")

// encodeCursor packs a listing position as base64url("<unix nanos>:<id>").
// Clients treat the result as opaque.
func encodeCursor(p repository.Position) string {
	raw := strconv.FormatInt(p.UploadedAt.UnixNano(), 10) + ":" + p.ID
	return base64.RawURLEncoding.EncodeToString([]byte(raw))
}

func decodeCursor(cursor string) (*repository.Position, error) {
	raw, err := base64.RawURLEncoding.DecodeString(cursor)
	if err != nil {
		return nil, errMalformedCursor
	}

	nanos, id, ok := strings.Cut(string(raw), ":")
	if !ok || id == "" {
		return nil, errMalformedCursor
	}

	n, err := strconv.ParseInt(nanos, 10, 64)
	if err != nil {
		return nil, errMalformedCursor
	}

	return &repository.Position{
		UploadedAt: time.Unix(0, n).UTC(),
		ID:         id,
	}, nil
}
