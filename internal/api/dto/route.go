package dto

type RouteRequest struct {
	TruckID      string   `json:"truck_id" validate:"required,max=50"`
	BinIDs       []string `json:"bin_ids" validate:"dive,required,max=50"`
	MinFillLevel *float64 `json:"min_fill_level" validate:"omitempty,gte=0,lte=100"`
	StrictInput  bool     `json:"strict_input"`
}

type RouteVisitResponse struct {
	Kind      string  `json:"kind"`
	ID        string  `json:"id"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	LegKm     float64 `json:"leg_km"`
}

type RouteResponse struct {
	TruckID         string               `json:"truck_id"`
	Path            [][2]float64         `json:"path"`
	Visits          []RouteVisitResponse `json:"visits"`
	TotalDistanceKm float64              `json:"total_distance_km"`
	DumpingSpot     string               `json:"dumping_spot,omitempty"`
}
