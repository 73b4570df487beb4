package handlers

import (
	"log"
	"net/http"
	"waste-collection-service/internal/api/dto"
	"waste-collection-service/internal/domain"
	"waste-collection-service/internal/ports"
	"waste-collection-service/internal/services"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

type RouteHandler struct {
	Trucks ports.TruckRepository
	Bins   ports.BinRepository
	Spots  ports.DumpingSpotRepository
}

// Plan computes a collection route for one truck.
// With ?format=geojson the route is returned as a FeatureCollection.
func (h *RouteHandler) Plan(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format != "" && format != "json" && format != "geojson" {
		writeError(w, r, http.StatusBadRequest, "format must be json or geojson")
		return
	}

	var req dto.RouteRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	plan, err := services.PlanCollection(r.Context(), services.PlanCollectionRequest{
		TruckID:      req.TruckID,
		BinIDs:       req.BinIDs,
		MinFillLevel: req.MinFillLevel,
		StrictInput:  req.StrictInput,
	}, h.Trucks, h.Bins, h.Spots)
	if err != nil {
		writeServiceError(w, r, "plan collection", err)
		return
	}

	if format == "geojson" {
		body, err := routeFeatureCollection(plan).MarshalJSON()
		if err != nil {
			writeServiceError(w, r, "encode geojson", err)
			return
		}
		w.Header().Set("Content-Type", "application/geo+json")
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write(body); err != nil {
			log.Printf("write failed: method=%s path=%s err=%v", r.Method, r.URL.Path, err)
		}
		return
	}

	res := dto.RouteResponse{
		TruckID:         plan.Truck.TruckID,
		Path:            make([][2]float64, 0, len(plan.Route.Path)),
		Visits:          make([]dto.RouteVisitResponse, 0, len(plan.Route.Visits)),
		TotalDistanceKm: plan.Route.TotalDistanceKm,
	}
	for _, p := range plan.Route.Path {
		res.Path = append(res.Path, [2]float64{p.Lat, p.Lon})
	}
	for _, v := range plan.Route.Visits {
		res.Visits = append(res.Visits, dto.RouteVisitResponse{
			Kind:      string(v.Kind),
			ID:        v.ID,
			Latitude:  v.Point.Lat,
			Longitude: v.Point.Lon,
			LegKm:     v.LegKm,
		})
	}
	if t, ok := plan.Route.Terminal(); ok {
		res.DumpingSpot = t.ID
	}

	writeJSON(w, r, http.StatusOK, res)
}

// routeFeatureCollection renders the route as a LineString followed by one
// Point feature per path position, in [lon, lat] order.
func routeFeatureCollection(plan *services.CollectionPlan) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()

	line := make(orb.LineString, 0, len(plan.Route.Path))
	for _, p := range plan.Route.Path {
		line = append(line, toOrb(p))
	}
	route := geojson.NewFeature(line)
	route.Properties["kind"] = "route"
	route.Properties["truck_id"] = plan.Truck.TruckID
	route.Properties["total_distance_km"] = plan.Route.TotalDistanceKm
	fc.Append(route)

	origin := geojson.NewFeature(toOrb(plan.Truck.Origin()))
	origin.Properties["kind"] = "origin"
	origin.Properties["id"] = plan.Truck.TruckID
	fc.Append(origin)

	fill := make(map[string]float64, len(plan.Bins))
	for _, b := range plan.Bins {
		fill[b.BinID] = b.FillLevel
	}

	for i, v := range plan.Route.Visits {
		f := geojson.NewFeature(toOrb(v.Point))
		f.Properties["kind"] = string(v.Kind)
		f.Properties["id"] = v.ID
		f.Properties["order"] = i + 1
		f.Properties["leg_km"] = v.LegKm
		if v.Kind == domain.VisitStop {
			f.Properties["fill_level"] = fill[v.ID]
		}
		fc.Append(f)
	}

	return fc
}

func toOrb(p domain.Point) orb.Point {
	c := p.CoordsToList()
	return orb.Point{c[0], c[1]}
}
