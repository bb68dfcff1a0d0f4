package model

import (
	"strconv"
	"strings"
	"time"
)

const (
	FileTypeImage        = "image"
	FileTypeDocument     = "document"
	FileTypePDF          = "pdf"
	FileTypeVideo        = "video"
	FileTypeFolder       = "folder"
	FileTypeSpreadsheet  = "spreadsheet"
	FileTypePresentation = "presentation"
	FileTypeOther        = "other"
)

var fileTypes = map[string]bool{
	FileTypeImage:        true,
	FileTypeDocument:     true,
	FileTypePDF:          true,
	FileTypeVideo:        true,
	FileTypeFolder:       true,
	FileTypeSpreadsheet:  true,
	FileTypePresentation: true,
	FileTypeOther:        true,
}

// NormalizeFileType maps unknown types to "other".
func NormalizeFileType(t string) string {
	t = strings.ToLower(strings.TrimSpace(t))
	if fileTypes[t] {
		return t
	}
	return FileTypeOther
}

type File struct {
	ID           string    `db:"id" json:"id"`
	OwnerID      string    `db:"user_id" json:"ownerId"`
	Name         string    `db:"name" json:"name"`
	PublicID     string    `db:"public_id" json:"publicId"`
	Type         string    `db:"type" json:"type"`
	SizeBytes    int64     `db:"size_bytes" json:"sizeBytes"`
	UploadedAt   time.Time `db:"uploaded_at" json:"uploadedAt"`
	URL          string    `db:"url" json:"url"`
	Format       string    `db:"format" json:"format"`
	ResourceType string    `db:"resource_type" json:"resourceType"`
	Width        *int      `db:"width" json:"width,omitempty"`
	Height       *int      `db:"height" json:"height,omitempty"`

	// Computed fields (not in database)
	Size         string `db:"-" json:"size"`
	ThumbnailURL string `db:"-" json:"thumbnailUrl"`
	PreviewURL   string `db:"-" json:"previewUrl"`
}

var sizeUnits = []string{"B", "KB", "MB", "GB"}

// FormatSize renders a byte count with base-1024 units, e.g. 1536 -> "1.5 KB".
// Zero and negative sizes render as "0 B"; anything past GB stays in GB.
func FormatSize(bytes int64) string {
	if bytes <= 0 {
		return "0 B"
	}

	value := float64(bytes)
	unit := 0
	for value >= 1024 && unit < len(sizeUnits)-1 {
		value /= 1024
		unit++
	}

	s := strconv.FormatFloat(value, 'f', 1, 64)
	s = strings.TrimSuffix(s, ".0")
	return s + " " + sizeUnits[unit]
}
