package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"path/filepath"
	"strings"
	"time"
	"waste-collection-service/internal/domain"
	"waste-collection-service/internal/platform/obs"
	"waste-collection-service/internal/ports"
)

// ErrInvalidUpload wraps every rejected upload.
var ErrInvalidUpload = errors.New("invalid upload")

const (
	MaxUploadBytes = 10 << 20
	MaxUploadFiles = 20
)

var (
	allowedImageExts  = map[string]bool{".jpg": true, ".jpeg": true, ".png": true, ".gif": true}
	allowedImageTypes = map[string]bool{"image/jpeg": true, "image/png": true, "image/gif": true}
)

// One file of a multipart upload.
type UploadFile struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// ImageUpload validates camera images, stores them with a thumbnail and records them.
type ImageUpload struct {
	Cameras ports.CameraRepository
	Images  ports.CameraImageRepository
	Store   ports.ImageStore
	Now     func() time.Time
}

func (u *ImageUpload) now() time.Time {
	if u.Now != nil {
		return u.Now()
	}
	return time.Now()
}

// ValidateUpload checks one file against the allowed types and size.
func ValidateUpload(f UploadFile) error {
	ext := strings.ToLower(filepath.Ext(f.Filename))
	if !allowedImageExts[ext] {
		return fmt.Errorf("%w: %q has unsupported extension %q", ErrInvalidUpload, f.Filename, ext)
	}

	ct := strings.ToLower(strings.TrimSpace(f.ContentType))
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = strings.TrimSpace(ct[:i])
	}
	if !allowedImageTypes[ct] {
		return fmt.Errorf("%w: %q has unsupported content type %q", ErrInvalidUpload, f.Filename, f.ContentType)
	}

	if f.Size > MaxUploadBytes {
		return fmt.Errorf("%w: %q is larger than 10MB", ErrInvalidUpload, f.Filename)
	}
	return nil
}

// Upload stores every file for the camera. The batch is all-or-nothing:
// files and rows written before a failure are removed again.
func (u *ImageUpload) Upload(
	ctx context.Context,
	cameraID int64,
	analysis domain.AnalysisType,
	files []UploadFile,
) (out []*domain.CameraImage, err error) {
	defer obs.Time(ctx, "image_upload")(&err)

	if len(files) == 0 {
		return nil, fmt.Errorf("%w: no files", ErrInvalidUpload)
	}
	if len(files) > MaxUploadFiles {
		return nil, fmt.Errorf("%w: at most %d files per upload, got %d", ErrInvalidUpload, MaxUploadFiles, len(files))
	}
	for _, f := range files {
		if err := ValidateUpload(f); err != nil {
			return nil, err
		}
	}

	if _, err := u.Cameras.Get(ctx, cameraID); err != nil {
		return nil, fmt.Errorf("image upload: get camera %d: %w", cameraID, err)
	}

	out = make([]*domain.CameraImage, 0, len(files))
	defer func() {
		if err != nil {
			u.rollback(ctx, out)
			out = nil
		}
	}()

	for _, f := range files {
		stored, err := u.Store.Save(ctx, f.Filename, f.Body)
		if err != nil {
			return out, fmt.Errorf("image upload: %w", err)
		}

		img := &domain.CameraImage{
			CameraID:      cameraID,
			AnalysisType:  analysis,
			Path:          stored.Path,
			ThumbnailPath: stored.ThumbnailPath,
			Width:         stored.Width,
			Height:        stored.Height,
			SizeBytes:     stored.SizeBytes,
			UploadedAt:    u.now(),
		}
		if err := u.Images.Create(ctx, img); err != nil {
			_ = u.Store.Delete(ctx, stored.Path, stored.ThumbnailPath)
			return out, fmt.Errorf("image upload: record %q: %w", f.Filename, err)
		}
		out = append(out, img)
	}

	return out, nil
}

func (u *ImageUpload) rollback(ctx context.Context, imgs []*domain.CameraImage) {
	for _, img := range imgs {
		if err := u.Images.Delete(ctx, img.ID); err != nil {
			log.Printf("image upload rollback: delete row id=%d err=%v", img.ID, err)
		}
		if err := u.Store.Delete(ctx, img.Path, img.ThumbnailPath); err != nil {
			log.Printf("image upload rollback: delete files id=%d err=%v", img.ID, err)
		}
	}
}

// DeleteImage removes the row and its files.
func (u *ImageUpload) DeleteImage(ctx context.Context, id int64) error {
	img, err := u.Images.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("delete image: %w", err)
	}
	if err := u.Images.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete image: %w", err)
	}
	if err := u.Store.Delete(ctx, img.Path, img.ThumbnailPath); err != nil {
		return fmt.Errorf("delete image: %w", err)
	}
	return nil
}

// DeleteCamera removes the camera, its image rows and their files.
func (u *ImageUpload) DeleteCamera(ctx context.Context, cameraID int64) error {
	imgs, err := u.Images.ListByCamera(ctx, cameraID)
	if err != nil {
		return fmt.Errorf("delete camera %d: list images: %w", cameraID, err)
	}
	if err := u.Cameras.Delete(ctx, cameraID); err != nil {
		return fmt.Errorf("delete camera %d: %w", cameraID, err)
	}
	for _, img := range imgs {
		if err := u.Store.Delete(ctx, img.Path, img.ThumbnailPath); err != nil {
			log.Printf("delete camera: remove files camera_id=%d image_id=%d err=%v", cameraID, img.ID, err)
		}
	}
	return nil
}
