package handlers

import (
	"net/http"
	"time"
	"waste-collection-service/internal/api/dto"
	"waste-collection-service/internal/domain"
	"waste-collection-service/internal/ports"
	"waste-collection-service/internal/services"
)

const defaultNearbyRadiusKm = 1.0

// BinHandler exposes bin CRUD plus triage and radius lookups.
type BinHandler struct {
	Repo  ports.BinRepository
	Index ports.BinIndexBuilder
	Now   func() time.Time
}

func (h *BinHandler) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}

func (h *BinHandler) List(w http.ResponseWriter, r *http.Request) {
	bins, err := h.Repo.List(r.Context())
	if err != nil {
		writeServiceError(w, r, "list bins", err)
		return
	}

	res := dto.ListBinsResponse{Bins: make([]dto.BinResponse, 0, len(bins))}
	for _, b := range bins {
		res.Bins = append(res.Bins, dto.NewBinResponse(b))
	}
	writeJSON(w, r, http.StatusOK, res)
}

func (h *BinHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.BinRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	b := req.ToDomain()
	b.LastUpdated = h.now()
	if err := h.Repo.Create(r.Context(), b); err != nil {
		writeServiceError(w, r, "create bin", err)
		return
	}
	writeJSON(w, r, http.StatusCreated, dto.NewBinResponse(b))
}

func (h *BinHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	b, err := h.Repo.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, "get bin", err)
		return
	}
	writeJSON(w, r, http.StatusOK, dto.NewBinResponse(b))
}

func (h *BinHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req dto.BinRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	b := req.ToDomain()
	b.ID = id
	b.LastUpdated = h.now()
	if err := h.Repo.Update(r.Context(), b); err != nil {
		writeServiceError(w, r, "update bin", err)
		return
	}
	writeJSON(w, r, http.StatusOK, dto.NewBinResponse(b))
}

func (h *BinHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.Repo.Delete(r.Context(), id); err != nil {
		writeServiceError(w, r, "delete bin", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Support lists bins whose readings point at a faulty or silent sensor.
func (h *BinHandler) Support(w http.ResponseWriter, r *http.Request) {
	rep, err := services.TriageBins(r.Context(), h.Repo, h.now())
	if err != nil {
		writeServiceError(w, r, "triage bins", err)
		return
	}

	res := dto.SupportResponse{
		Critical:  rep.Critical,
		Warning:   rep.Warning,
		ValidBins: rep.Valid,
		Tickets:   make([]dto.SupportTicketResponse, 0, len(rep.Tickets)),
	}
	for _, t := range rep.Tickets {
		res.Tickets = append(res.Tickets, dto.SupportTicketResponse{
			BinID:       t.Bin.BinID,
			FillLevel:   t.Bin.FillLevel,
			Latitude:    t.Bin.Lat,
			Longitude:   t.Bin.Lon,
			LastUpdated: t.Bin.LastUpdated,
			Reason:      t.Reason,
			Severity:    string(t.Severity),
		})
	}
	writeJSON(w, r, http.StatusOK, res)
}

// Nearby answers GET /bins/nearby?lat=..&lon=..&radius_km=..
func (h *BinHandler) Nearby(w http.ResponseWriter, r *http.Request) {
	lat, okLat := queryFloat(r, "lat")
	lon, okLon := queryFloat(r, "lon")
	if !okLat || !okLon || lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		writeError(w, r, http.StatusBadRequest, "lat and lon must be valid coordinates")
		return
	}

	radius := defaultNearbyRadiusKm
	if r.URL.Query().Has("radius_km") {
		v, ok := queryFloat(r, "radius_km")
		if !ok || v < 0 {
			writeError(w, r, http.StatusBadRequest, "radius_km must be a non-negative number")
			return
		}
		radius = v
	}

	center := domain.Point{Lat: lat, Lon: lon}
	hits, err := services.NearbyBins(r.Context(), h.Repo, h.Index, center, radius)
	if err != nil {
		writeServiceError(w, r, "nearby bins", err)
		return
	}

	res := dto.NearbyBinsResponse{
		Center:   [2]float64{lat, lon},
		RadiusKm: radius,
		Bins:     make([]dto.NearbyBinResponse, 0, len(hits)),
	}
	for _, hit := range hits {
		res.Bins = append(res.Bins, dto.NearbyBinResponse{
			BinResponse: dto.NewBinResponse(hit.Bin),
			DistanceKm:  hit.DistanceKm,
		})
	}
	writeJSON(w, r, http.StatusOK, res)
}
