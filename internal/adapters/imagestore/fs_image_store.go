package imagestore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"waste-collection-service/internal/platform/obs"
	"waste-collection-service/internal/ports"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
)

const (
	imagesDir     = "camera_images"
	thumbnailsDir = "camera_images/thumbnails"
)

// FSImageStore writes images and thumbnails below Root.
// Returned paths are relative to Root with forward slashes.
type FSImageStore struct {
	Root string
	// Thumbnails fit inside ThumbSize x ThumbSize, keeping the aspect ratio.
	ThumbSize int
	// Upper bound on bytes read from a single upload.
	MaxBytes int64
}

func NewFSImageStore(root string) *FSImageStore {
	return &FSImageStore{Root: root, ThumbSize: 300, MaxBytes: 10 << 20}
}

func (s *FSImageStore) Save(ctx context.Context, filename string, r io.Reader) (_ ports.StoredImage, err error) {
	defer obs.Time(ctx, "imagestore.Save")(&err)

	if s.Root == "" {
		return ports.StoredImage{}, errors.New("save image: root directory is empty")
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		return ports.StoredImage{}, fmt.Errorf("save image %q: missing file extension", filename)
	}

	data, err := io.ReadAll(io.LimitReader(r, s.MaxBytes+1))
	if err != nil {
		return ports.StoredImage{}, fmt.Errorf("save image %q: read: %w", filename, err)
	}
	if int64(len(data)) > s.MaxBytes {
		return ports.StoredImage{}, fmt.Errorf("save image %q: larger than %d bytes", filename, s.MaxBytes)
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return ports.StoredImage{}, fmt.Errorf("save image %q: decode: %w", filename, err)
	}

	for _, dir := range []string{imagesDir, thumbnailsDir} {
		if err := os.MkdirAll(filepath.Join(s.Root, filepath.FromSlash(dir)), 0o755); err != nil {
			return ports.StoredImage{}, fmt.Errorf("save image: create %s: %w", dir, err)
		}
	}

	name := uuid.NewString()
	rel := imagesDir + "/" + name + ext
	thumbRel := thumbnailsDir + "/" + name + "_thumb" + ext

	if err := os.WriteFile(s.abs(rel), data, 0o644); err != nil {
		return ports.StoredImage{}, fmt.Errorf("save image %q: write image: %w", filename, err)
	}

	thumb := imaging.Fit(img, s.ThumbSize, s.ThumbSize, imaging.Lanczos)
	if err := imaging.Save(thumb, s.abs(thumbRel)); err != nil {
		_ = os.Remove(s.abs(rel))
		return ports.StoredImage{}, fmt.Errorf("save image %q: write thumbnail: %w", filename, err)
	}

	b := img.Bounds()
	return ports.StoredImage{
		Path:          rel,
		ThumbnailPath: thumbRel,
		Width:         b.Dx(),
		Height:        b.Dy(),
		SizeBytes:     int64(len(data)),
	}, nil
}

// Delete removes stored files. Missing files are ignored.
func (s *FSImageStore) Delete(ctx context.Context, paths ...string) error {
	for _, p := range paths {
		if p == "" {
			continue
		}
		if err := os.Remove(s.abs(p)); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("delete image %q: %w", p, err)
		}
	}
	return nil
}

// abs resolves a stored path, refusing to escape Root.
func (s *FSImageStore) abs(rel string) string {
	clean := filepath.Clean("/" + filepath.FromSlash(rel))
	return filepath.Join(s.Root, clean)
}
