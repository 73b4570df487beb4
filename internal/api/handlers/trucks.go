package handlers

import (
	"net/http"
	"time"
	"waste-collection-service/internal/api/dto"
	"waste-collection-service/internal/ports"
)

type TruckHandler struct {
	Repo ports.TruckRepository
	Now  func() time.Time
}

func (h *TruckHandler) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}

func (h *TruckHandler) List(w http.ResponseWriter, r *http.Request) {
	trucks, err := h.Repo.List(r.Context())
	if err != nil {
		writeServiceError(w, r, "list trucks", err)
		return
	}

	res := dto.ListTrucksResponse{Trucks: make([]dto.TruckResponse, 0, len(trucks))}
	for _, t := range trucks {
		res.Trucks = append(res.Trucks, dto.NewTruckResponse(t))
	}
	writeJSON(w, r, http.StatusOK, res)
}

func (h *TruckHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.TruckRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	t := req.ToDomain()
	t.LastUpdated = h.now()
	if err := h.Repo.Create(r.Context(), t); err != nil {
		writeServiceError(w, r, "create truck", err)
		return
	}
	writeJSON(w, r, http.StatusCreated, dto.NewTruckResponse(t))
}

func (h *TruckHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	t, err := h.Repo.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, "get truck", err)
		return
	}
	writeJSON(w, r, http.StatusOK, dto.NewTruckResponse(t))
}

func (h *TruckHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req dto.TruckRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	t := req.ToDomain()
	t.ID = id
	t.LastUpdated = h.now()
	if err := h.Repo.Update(r.Context(), t); err != nil {
		writeServiceError(w, r, "update truck", err)
		return
	}
	writeJSON(w, r, http.StatusOK, dto.NewTruckResponse(t))
}

func (h *TruckHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.Repo.Delete(r.Context(), id); err != nil {
		writeServiceError(w, r, "delete truck", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
