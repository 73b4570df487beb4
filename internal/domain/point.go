package domain

// Immutable geographic coordinates in degrees (latitude, longitude).
// Range is not enforced here; validation belongs to the API boundary.
type Point struct {
	Lat float64
	Lon float64
}

// Return coordinates as [lon, lat] for GeoJSON compatibility.
func (p Point) CoordsToList() []float64 { return []float64{p.Lon, p.Lat} }

// A collection candidate the route must visit.
// FillLevel is informational; it only matters for upstream selection.
type Stop struct {
	ID        string
	Point     Point
	FillLevel float64
}

// A disposal destination that may end a route.
// Capacity is informational and never enforced by the planner.
type Terminal struct {
	ID       string
	Point    Point
	Capacity float64
}
