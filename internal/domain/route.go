package domain

type VisitKind string

const (
	VisitStop     VisitKind = "stop"
	VisitTerminal VisitKind = "terminal"
)

// Represents one leg appended to a route after the origin.
// LegKm is the haversine distance from the previous path point.
type RouteVisit struct {
	Kind  VisitKind
	ID    string
	Point Point
	LegKm float64
}

// Represents a planned collection route for a single truck.
// Path always starts at the origin; Visits[i] describes Path[i+1].
// It is immutable planning data and contains no side effects.
type Route struct {
	Path            []Point
	Visits          []RouteVisit
	TotalDistanceKm float64
}

// Return the terminal the route ends at, if any.
func (r Route) Terminal() (RouteVisit, bool) {
	if len(r.Visits) == 0 {
		return RouteVisit{}, false
	}
	last := r.Visits[len(r.Visits)-1]
	if last.Kind != VisitTerminal {
		return RouteVisit{}, false
	}
	return last, true
}
