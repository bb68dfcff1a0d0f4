package media

import "strings"

const (
	cloudinaryBase      = "https://res.cloudinary.com/"
	cloudinaryThumbnail = "c_fill,h_300,w_300"
)

type CloudinaryHost struct {
	cloudName string
}

func NewCloudinaryHost(cloudName string) *CloudinaryHost {
	return &CloudinaryHost{cloudName: strings.TrimSpace(cloudName)}
}

// URL returns the delivery URL, with a 300x300 fill crop for thumbnails.
func (h *CloudinaryHost) URL(publicID string, mode Mode) string {
	if h.cloudName == "" || publicID == "" {
		return ""
	}

	var b strings.Builder
	b.WriteString(cloudinaryBase)
	b.WriteString(h.cloudName)
	b.WriteString("/image/upload/")
	if mode == Thumbnail {
		b.WriteString(cloudinaryThumbnail)
		b.WriteByte('/')
	}
	b.WriteString(publicID)
	return b.String()
}
