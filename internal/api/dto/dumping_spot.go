package dto

import "waste-collection-service/internal/domain"

type DumpingSpotRequest struct {
	SpotID         string   `json:"spot_id" validate:"required,max=50"`
	Latitude       *float64 `json:"latitude" validate:"required,gte=-90,lte=90"`
	Longitude      *float64 `json:"longitude" validate:"required,gte=-180,lte=180"`
	TotalCapacity  float64  `json:"total_capacity" validate:"gte=0"`
	OrganicContent float64  `json:"organic_content" validate:"gte=0"`
	PlasticContent float64  `json:"plastic_content" validate:"gte=0"`
	MetalContent   float64  `json:"metal_content" validate:"gte=0"`
}

func (r DumpingSpotRequest) ToDomain() *domain.DumpingSpot {
	return &domain.DumpingSpot{
		SpotID:         r.SpotID,
		Lat:            *r.Latitude,
		Lon:            *r.Longitude,
		TotalCapacity:  r.TotalCapacity,
		OrganicContent: r.OrganicContent,
		PlasticContent: r.PlasticContent,
		MetalContent:   r.MetalContent,
	}
}

type DumpingSpotResponse struct {
	ID                int64   `json:"id"`
	SpotID            string  `json:"spot_id"`
	Latitude          float64 `json:"latitude"`
	Longitude         float64 `json:"longitude"`
	TotalCapacity     float64 `json:"total_capacity"`
	OrganicContent    float64 `json:"organic_content"`
	PlasticContent    float64 `json:"plastic_content"`
	MetalContent      float64 `json:"metal_content"`
	CurrentFillLevel  float64 `json:"current_fill_level"`
	OrganicPercentage float64 `json:"organic_percentage"`
	PlasticPercentage float64 `json:"plastic_percentage"`
	MetalPercentage   float64 `json:"metal_percentage"`
}

func NewDumpingSpotResponse(d *domain.DumpingSpot) DumpingSpotResponse {
	return DumpingSpotResponse{
		ID:                d.ID,
		SpotID:            d.SpotID,
		Latitude:          d.Lat,
		Longitude:         d.Lon,
		TotalCapacity:     d.TotalCapacity,
		OrganicContent:    d.OrganicContent,
		PlasticContent:    d.PlasticContent,
		MetalContent:      d.MetalContent,
		CurrentFillLevel:  d.CurrentFillLevel(),
		OrganicPercentage: d.OrganicPct(),
		PlasticPercentage: d.PlasticPct(),
		MetalPercentage:   d.MetalPct(),
	}
}

type ListDumpingSpotsResponse struct {
	DumpingSpots []DumpingSpotResponse `json:"dumping_spots"`
}
