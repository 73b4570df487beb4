package dto

import (
	"time"
	"waste-collection-service/internal/domain"
)

type TruckRequest struct {
	TruckID          string  `json:"truck_id" validate:"required,max=50"`
	DriverName       string  `json:"driver_name" validate:"max=100"`
	CurrentLatitude  float64 `json:"current_latitude" validate:"gte=-90,lte=90"`
	CurrentLongitude float64 `json:"current_longitude" validate:"gte=-180,lte=180"`
	FuelLevel        float64 `json:"fuel_level" validate:"gte=0,lte=100"`
	Status           string  `json:"status" validate:"omitempty,oneof=ACTIVE IDLE MAINTENANCE"`
}

func (r TruckRequest) ToDomain() *domain.Truck {
	t := domain.NewTruck(r.TruckID, r.DriverName, domain.Point{Lat: r.CurrentLatitude, Lon: r.CurrentLongitude})
	t.FuelLevel = r.FuelLevel
	if r.Status != "" {
		t.Status = domain.TruckStatus(r.Status)
	}
	return t
}

type TruckResponse struct {
	ID               int64     `json:"id"`
	TruckID          string    `json:"truck_id"`
	DriverName       string    `json:"driver_name"`
	CurrentLatitude  float64   `json:"current_latitude"`
	CurrentLongitude float64   `json:"current_longitude"`
	FuelLevel        float64   `json:"fuel_level"`
	Status           string    `json:"status"`
	LastUpdated      time.Time `json:"last_updated"`
}

func NewTruckResponse(t *domain.Truck) TruckResponse {
	return TruckResponse{
		ID:               t.ID,
		TruckID:          t.TruckID,
		DriverName:       t.DriverName,
		CurrentLatitude:  t.Lat,
		CurrentLongitude: t.Lon,
		FuelLevel:        t.FuelLevel,
		Status:           string(t.Status),
		LastUpdated:      t.LastUpdated,
	}
}

type ListTrucksResponse struct {
	Trucks []TruckResponse `json:"trucks"`
}
