package dto

import (
	"time"
	"waste-collection-service/internal/domain"
)

// Fill level is unbounded: sensors report faults as out-of-range sentinels.
type BinRequest struct {
	BinID             string   `json:"bin_id" validate:"required,max=50"`
	FillLevel         *float64 `json:"fill_level" validate:"required"`
	Latitude          *float64 `json:"latitude" validate:"required,gte=-90,lte=90"`
	Longitude         *float64 `json:"longitude" validate:"required,gte=-180,lte=180"`
	OrganicPercentage float64  `json:"organic_percentage" validate:"gte=0,lte=100"`
	PlasticPercentage float64  `json:"plastic_percentage" validate:"gte=0,lte=100"`
	MetalPercentage   float64  `json:"metal_percentage" validate:"gte=0,lte=100"`
}

func (r BinRequest) ToDomain() *domain.Bin {
	return &domain.Bin{
		BinID:      r.BinID,
		FillLevel:  *r.FillLevel,
		Lat:        *r.Latitude,
		Lon:        *r.Longitude,
		OrganicPct: r.OrganicPercentage,
		PlasticPct: r.PlasticPercentage,
		MetalPct:   r.MetalPercentage,
	}
}

type BinResponse struct {
	ID                int64     `json:"id"`
	BinID             string    `json:"bin_id"`
	FillLevel         float64   `json:"fill_level"`
	Latitude          float64   `json:"latitude"`
	Longitude         float64   `json:"longitude"`
	OrganicPercentage float64   `json:"organic_percentage"`
	PlasticPercentage float64   `json:"plastic_percentage"`
	MetalPercentage   float64   `json:"metal_percentage"`
	LastUpdated       time.Time `json:"last_updated"`
	Status            string    `json:"status"`
	MarkerColor       string    `json:"marker_color"`
}

func NewBinResponse(b *domain.Bin) BinResponse {
	return BinResponse{
		ID:                b.ID,
		BinID:             b.BinID,
		FillLevel:         b.FillLevel,
		Latitude:          b.Lat,
		Longitude:         b.Lon,
		OrganicPercentage: b.OrganicPct,
		PlasticPercentage: b.PlasticPct,
		MetalPercentage:   b.MetalPct,
		LastUpdated:       b.LastUpdated,
		Status:            b.Status(),
		MarkerColor:       b.MarkerColor(),
	}
}

type ListBinsResponse struct {
	Bins []BinResponse `json:"bins"`
}

type NearbyBinResponse struct {
	BinResponse
	DistanceKm float64 `json:"distance_km"`
}

type NearbyBinsResponse struct {
	Center   [2]float64          `json:"center"`
	RadiusKm float64             `json:"radius_km"`
	Bins     []NearbyBinResponse `json:"bins"`
}

type SupportTicketResponse struct {
	BinID       string    `json:"bin_id"`
	FillLevel   float64   `json:"fill_level"`
	Latitude    float64   `json:"latitude"`
	Longitude   float64   `json:"longitude"`
	LastUpdated time.Time `json:"last_updated"`
	Reason      string    `json:"reason"`
	Severity    string    `json:"severity"`
}

type SupportResponse struct {
	Critical  int                     `json:"critical"`
	Warning   int                     `json:"warning"`
	ValidBins int                     `json:"valid_bins"`
	Tickets   []SupportTicketResponse `json:"tickets"`
}
