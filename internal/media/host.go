package media

import (
	"context"
	"fmt"
	"log/slog"

	cfg "github.com/printmate/printmate/internal/config"
)

// Mode selects the rendition of a stored asset.
type Mode string

const (
	Thumbnail Mode = "thumbnail"
	Preview   Mode = "preview"
)

// Host turns an opaque public ID into a retrievable URL.
// An empty string means no URL can be produced (missing configuration or public ID).
type Host interface {
	URL(publicID string, mode Mode) string
}

// New builds the media host selected by MEDIA_HOST.
func New(ctx context.Context, c *cfg.Config) (Host, error) {
	switch c.MediaHost {
	case cfg.MediaHostCloudinary:
		if c.CloudinaryCloudName == "" {
			slog.Warn("cloudinary cloud name not set, previews will be empty")
		}
		return NewCloudinaryHost(c.CloudinaryCloudName), nil
	case cfg.MediaHostS3:
		slog.Info("initializing S3 media host",
			"bucket", c.S3Bucket,
			"region", c.S3Region,
			"endpoint", c.S3Endpoint,
		)
		host, err := NewS3Host(ctx, S3Config{
			Region:        c.S3Region,
			Bucket:        c.S3Bucket,
			AccessKey:     c.S3AccessKey,
			SecretKey:     c.S3SecretKey,
			Endpoint:      c.S3Endpoint,
			PresignExpiry: c.S3PresignExpiry,
		})
		if err != nil {
			return nil, err
		}
		err = host.Check(ctx)
		if err != nil {
			slog.Warn("media bucket not reachable", "bucket", c.S3Bucket, "error", err)
		}
		return host, nil
	default:
		return nil, fmt.Errorf("unknown media host %q", c.MediaHost)
	}
}
