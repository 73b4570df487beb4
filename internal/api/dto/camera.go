package dto

import (
	"time"
	"waste-collection-service/internal/domain"
)

type CameraRequest struct {
	CameraID  string  `json:"camera_id" validate:"required,max=50"`
	Name      string  `json:"name" validate:"max=100"`
	BinID     string  `json:"bin_id" validate:"max=50"`
	Latitude  float64 `json:"latitude" validate:"gte=-90,lte=90"`
	Longitude float64 `json:"longitude" validate:"gte=-180,lte=180"`
	Active    *bool   `json:"active"`
}

func (r CameraRequest) ToDomain() *domain.Camera {
	active := true
	if r.Active != nil {
		active = *r.Active
	}
	return &domain.Camera{
		CameraID: r.CameraID,
		Name:     r.Name,
		BinID:    r.BinID,
		Lat:      r.Latitude,
		Lon:      r.Longitude,
		Active:   active,
	}
}

type CameraResponse struct {
	ID        int64   `json:"id"`
	CameraID  string  `json:"camera_id"`
	Name      string  `json:"name"`
	BinID     string  `json:"bin_id,omitempty"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Active    bool    `json:"active"`
}

func NewCameraResponse(c *domain.Camera) CameraResponse {
	return CameraResponse{
		ID:        c.ID,
		CameraID:  c.CameraID,
		Name:      c.Name,
		BinID:     c.BinID,
		Latitude:  c.Lat,
		Longitude: c.Lon,
		Active:    c.Active,
	}
}

type ListCamerasResponse struct {
	Cameras []CameraResponse `json:"cameras"`
}

type CameraImageResponse struct {
	ID            int64     `json:"id"`
	CameraID      int64     `json:"camera_id"`
	AnalysisType  string    `json:"analysis_type"`
	Path          string    `json:"path"`
	ThumbnailPath string    `json:"thumbnail_path"`
	Width         int       `json:"width"`
	Height        int       `json:"height"`
	SizeBytes     int64     `json:"size_bytes"`
	UploadedAt    time.Time `json:"uploaded_at"`
}

func NewCameraImageResponse(img *domain.CameraImage) CameraImageResponse {
	return CameraImageResponse{
		ID:            img.ID,
		CameraID:      img.CameraID,
		AnalysisType:  string(img.AnalysisType),
		Path:          img.Path,
		ThumbnailPath: img.ThumbnailPath,
		Width:         img.Width,
		Height:        img.Height,
		SizeBytes:     img.SizeBytes,
		UploadedAt:    img.UploadedAt,
	}
}

type ListCameraImagesResponse struct {
	Images []CameraImageResponse `json:"images"`
}
