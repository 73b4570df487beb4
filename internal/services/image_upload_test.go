package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"waste-collection-service/internal/domain"
)

func jpeg(name string) UploadFile {
	return UploadFile{Filename: name, ContentType: "image/jpeg", Size: 3, Body: strings.NewReader("abc")}
}

func newUploadFixture() (*ImageUpload, *memImages, *memImageStore) {
	images := newMemImages()
	store := newMemImageStore()
	u := &ImageUpload{
		Cameras: &memCameras{rows: map[int64]*domain.Camera{1: {ID: 1, CameraID: "CAM01", Active: true}}},
		Images:  images,
		Store:   store,
	}
	return u, images, store
}

func TestValidateUpload(t *testing.T) {
	tests := []struct {
		name string
		file UploadFile
		ok   bool
	}{
		{"jpeg", jpeg("a.jpg"), true},
		{"upper case ext", UploadFile{Filename: "A.JPEG", ContentType: "image/jpeg"}, true},
		{"png with params", UploadFile{Filename: "a.png", ContentType: "image/png; charset=binary"}, true},
		{"gif", UploadFile{Filename: "a.gif", ContentType: "image/gif"}, true},
		{"bad ext", UploadFile{Filename: "a.bmp", ContentType: "image/jpeg"}, false},
		{"no ext", UploadFile{Filename: "photo", ContentType: "image/jpeg"}, false},
		{"bad type", UploadFile{Filename: "a.jpg", ContentType: "application/pdf"}, false},
		{"too big", UploadFile{Filename: "a.jpg", ContentType: "image/jpeg", Size: MaxUploadBytes + 1}, false},
		{"exactly max", UploadFile{Filename: "a.jpg", ContentType: "image/jpeg", Size: MaxUploadBytes}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateUpload(tt.file)
			if tt.ok && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !tt.ok && !errors.Is(err, ErrInvalidUpload) {
				t.Fatalf("err = %v, want ErrInvalidUpload", err)
			}
		})
	}
}

func TestUploadStoresAndRecords(t *testing.T) {
	u, images, store := newUploadFixture()

	out, err := u.Upload(context.Background(), 1, domain.AnalysisFillLevel, []UploadFile{jpeg("a.jpg"), jpeg("b.jpg")})
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if len(out) != 2 || len(images.rows) != 2 {
		t.Fatalf("stored %d images, %d rows; want 2", len(out), len(images.rows))
	}
	if out[0].AnalysisType != domain.AnalysisFillLevel || out[0].CameraID != 1 {
		t.Fatalf("image = %+v", out[0])
	}
	if out[0].ThumbnailPath == "" || out[0].SizeBytes != 3 {
		t.Fatalf("image metadata = %+v", out[0])
	}
	if len(store.saved) != 4 {
		t.Fatalf("stored files = %d, want 4", len(store.saved))
	}

	if err := u.DeleteImage(context.Background(), out[0].ID); err != nil {
		t.Fatalf("DeleteImage: %v", err)
	}
	if len(images.rows) != 1 || len(store.saved) != 2 {
		t.Fatalf("after delete: rows=%d files=%d", len(images.rows), len(store.saved))
	}

	if err := u.DeleteCamera(context.Background(), 1); err != nil {
		t.Fatalf("DeleteCamera: %v", err)
	}
	if len(store.saved) != 0 {
		t.Fatalf("camera files left behind: %v", store.saved)
	}
}

func TestUploadRejectsBatch(t *testing.T) {
	u, images, _ := newUploadFixture()
	ctx := context.Background()

	if _, err := u.Upload(ctx, 1, domain.AnalysisGeneral, nil); !errors.Is(err, ErrInvalidUpload) {
		t.Fatalf("empty batch: err = %v", err)
	}

	many := make([]UploadFile, MaxUploadFiles+1)
	for i := range many {
		many[i] = jpeg("x.jpg")
	}
	if _, err := u.Upload(ctx, 1, domain.AnalysisGeneral, many); !errors.Is(err, ErrInvalidUpload) {
		t.Fatalf("oversized batch: err = %v", err)
	}

	mixed := []UploadFile{jpeg("a.jpg"), {Filename: "b.txt", ContentType: "text/plain"}}
	if _, err := u.Upload(ctx, 1, domain.AnalysisGeneral, mixed); !errors.Is(err, ErrInvalidUpload) {
		t.Fatalf("mixed batch: err = %v", err)
	}
	if len(images.rows) != 0 {
		t.Fatalf("rejected batch wrote %d rows", len(images.rows))
	}

	if _, err := u.Upload(ctx, 42, domain.AnalysisGeneral, []UploadFile{jpeg("a.jpg")}); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("unknown camera: err = %v", err)
	}
}

func TestUploadRollsBackOnFailure(t *testing.T) {
	u, images, store := newUploadFixture()
	images.createErr = errBoom
	images.failAt = 2

	out, err := u.Upload(context.Background(), 1, domain.AnalysisGeneral, []UploadFile{jpeg("a.jpg"), jpeg("b.jpg"), jpeg("c.jpg")})
	if !errors.Is(err, errBoom) {
		t.Fatalf("err = %v, want errBoom", err)
	}
	if out != nil {
		t.Fatalf("out = %v, want nil on failure", out)
	}
	if len(images.rows) != 0 {
		t.Fatalf("rows left after rollback: %d", len(images.rows))
	}
	if len(store.saved) != 0 {
		t.Fatalf("files left after rollback: %v", store.saved)
	}
}
