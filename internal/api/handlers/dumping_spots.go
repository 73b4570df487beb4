package handlers

import (
	"net/http"
	"waste-collection-service/internal/api/dto"
	"waste-collection-service/internal/ports"
)

// DumpingSpotHandler serves dumping spots with their derived fill and composition.
type DumpingSpotHandler struct {
	Repo ports.DumpingSpotRepository
}

func (h *DumpingSpotHandler) List(w http.ResponseWriter, r *http.Request) {
	spots, err := h.Repo.List(r.Context())
	if err != nil {
		writeServiceError(w, r, "list dumping spots", err)
		return
	}

	res := dto.ListDumpingSpotsResponse{DumpingSpots: make([]dto.DumpingSpotResponse, 0, len(spots))}
	for _, s := range spots {
		res.DumpingSpots = append(res.DumpingSpots, dto.NewDumpingSpotResponse(s))
	}
	writeJSON(w, r, http.StatusOK, res)
}

func (h *DumpingSpotHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.DumpingSpotRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	s := req.ToDomain()
	if err := h.Repo.Create(r.Context(), s); err != nil {
		writeServiceError(w, r, "create dumping spot", err)
		return
	}
	writeJSON(w, r, http.StatusCreated, dto.NewDumpingSpotResponse(s))
}

func (h *DumpingSpotHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	s, err := h.Repo.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, "get dumping spot", err)
		return
	}
	writeJSON(w, r, http.StatusOK, dto.NewDumpingSpotResponse(s))
}

func (h *DumpingSpotHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req dto.DumpingSpotRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	s := req.ToDomain()
	s.ID = id
	if err := h.Repo.Update(r.Context(), s); err != nil {
		writeServiceError(w, r, "update dumping spot", err)
		return
	}
	writeJSON(w, r, http.StatusOK, dto.NewDumpingSpotResponse(s))
}

func (h *DumpingSpotHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.Repo.Delete(r.Context(), id); err != nil {
		writeServiceError(w, r, "delete dumping spot", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
