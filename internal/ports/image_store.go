package ports

import (
	"context"
	"io"
)

// Metadata of an image persisted by an ImageStore.
type StoredImage struct {
	Path          string
	ThumbnailPath string
	Width         int
	Height        int
	SizeBytes     int64
}

// Port: storage for uploaded images and their thumbnails.
type ImageStore interface {
	// Save decodes the image read from r, writes it with a thumbnail under a unique name.
	Save(ctx context.Context, filename string, r io.Reader) (StoredImage, error)
	Delete(ctx context.Context, paths ...string) error
}
