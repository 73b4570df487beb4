package domain

import (
	"fmt"
	"time"
)

type TruckStatus string

const (
	TruckActive      TruckStatus = "ACTIVE"
	TruckIdle        TruckStatus = "IDLE"
	TruckMaintenance TruckStatus = "MAINTENANCE"
)

func ParseTruckStatus(s string) (TruckStatus, error) {
	switch TruckStatus(s) {
	case "":
		return TruckIdle, nil
	case TruckActive, TruckIdle, TruckMaintenance:
		return TruckStatus(s), nil
	}
	return "", fmt.Errorf("parse truck status: unknown status %q", s)
}

// Collection truck whose current position is the origin of a route.
type Truck struct {
	ID          int64
	TruckID     string
	DriverName  string
	Lat         float64
	Lon         float64
	FuelLevel   float64
	Status      TruckStatus
	LastUpdated time.Time
}

func NewTruck(truckID, driver string, at Point) *Truck {
	return &Truck{
		TruckID:    truckID,
		DriverName: driver,
		Lat:        at.Lat,
		Lon:        at.Lon,
		Status:     TruckIdle,
	}
}

// Current location used as the route origin.
func (t *Truck) Origin() Point { return Point{Lat: t.Lat, Lon: t.Lon} }

// Move the truck and stamp the update time.
func (t *Truck) MoveTo(p Point, at time.Time) {
	t.Lat = p.Lat
	t.Lon = p.Lon
	t.LastUpdated = at
}
