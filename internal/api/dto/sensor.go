package dto

import (
	"time"
	"waste-collection-service/internal/domain"
)

// Same shape the sensor updater consumes, so the endpoint can feed another instance.
type SensorReadingRequest struct {
	SensorID          string   `json:"sensor_id" validate:"max=50"`
	BinID             string   `json:"bin_id" validate:"required,max=50"`
	FillLevel         *float64 `json:"fill_level" validate:"required"`
	Latitude          *float64 `json:"latitude" validate:"omitempty,gte=-90,lte=90"`
	Longitude         *float64 `json:"longitude" validate:"omitempty,gte=-180,lte=180"`
	OrganicPercentage *float64 `json:"organic_percentage" validate:"omitempty,gte=0,lte=100"`
	PlasticPercentage *float64 `json:"plastic_percentage" validate:"omitempty,gte=0,lte=100"`
	MetalPercentage   *float64 `json:"metal_percentage" validate:"omitempty,gte=0,lte=100"`
}

func (r SensorReadingRequest) ToDomain() domain.SensorReading {
	return domain.SensorReading{
		SensorID:   r.SensorID,
		BinID:      r.BinID,
		FillLevel:  *r.FillLevel,
		Lat:        r.Latitude,
		Lon:        r.Longitude,
		OrganicPct: r.OrganicPercentage,
		PlasticPct: r.PlasticPercentage,
		MetalPct:   r.MetalPercentage,
	}
}

type SensorReadingResponse struct {
	ID                int64     `json:"id"`
	SensorID          string    `json:"sensor_id,omitempty"`
	BinID             string    `json:"bin_id"`
	FillLevel         float64   `json:"fill_level"`
	Latitude          *float64  `json:"latitude,omitempty"`
	Longitude         *float64  `json:"longitude,omitempty"`
	OrganicPercentage *float64  `json:"organic_percentage,omitempty"`
	PlasticPercentage *float64  `json:"plastic_percentage,omitempty"`
	MetalPercentage   *float64  `json:"metal_percentage,omitempty"`
	Timestamp         time.Time `json:"timestamp"`
}

func NewSensorReadingResponse(r *domain.SensorReading) SensorReadingResponse {
	return SensorReadingResponse{
		ID:                r.ID,
		SensorID:          r.SensorID,
		BinID:             r.BinID,
		FillLevel:         r.FillLevel,
		Latitude:          r.Lat,
		Longitude:         r.Lon,
		OrganicPercentage: r.OrganicPct,
		PlasticPercentage: r.PlasticPct,
		MetalPercentage:   r.MetalPct,
		Timestamp:         r.RecordedAt,
	}
}

type SensorDataResponse struct {
	Results []SensorReadingResponse `json:"results"`
}

type SensorIngestResponse struct {
	Created bool        `json:"created"`
	Bin     BinResponse `json:"bin"`
}
