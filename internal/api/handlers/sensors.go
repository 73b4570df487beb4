package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"waste-collection-service/internal/api/dto"
	"waste-collection-service/internal/domain"
	"waste-collection-service/internal/ports"
	"waste-collection-service/internal/services"
)

const (
	defaultReadingsLimit = 100
	maxReadingsLimit     = 1000
)

type SensorHandler struct {
	Readings ports.SensorReadingRepository
	Bins     ports.BinRepository
	Sync     *services.SensorSync
}

// List answers in the {"results": [...]} shape polled by the updater.
func (h *SensorHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := defaultReadingsLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > maxReadingsLimit {
			writeError(w, r, http.StatusBadRequest, "limit must be between 1 and 1000")
			return
		}
		limit = n
	}

	readings, err := h.Readings.ListRecent(r.Context(), limit)
	if err != nil {
		writeServiceError(w, r, "list sensor readings", err)
		return
	}

	res := dto.SensorDataResponse{Results: make([]dto.SensorReadingResponse, 0, len(readings))}
	for _, rd := range readings {
		res.Results = append(res.Results, dto.NewSensorReadingResponse(rd))
	}
	writeJSON(w, r, http.StatusOK, res)
}

// Ingest applies a single reading to its bin, creating the bin when needed.
func (h *SensorHandler) Ingest(w http.ResponseWriter, r *http.Request) {
	var req dto.SensorReadingRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.BinID = strings.TrimSpace(req.BinID)
	if req.BinID == "" {
		writeError(w, r, http.StatusBadRequest, "BinID is required")
		return
	}

	res, err := h.Sync.Apply(r.Context(), []domain.SensorReading{req.ToDomain()})
	if err != nil {
		writeServiceError(w, r, "ingest sensor reading", err)
		return
	}

	b, err := h.Bins.GetByBinID(r.Context(), req.BinID)
	if err != nil {
		writeServiceError(w, r, "ingest sensor reading", err)
		return
	}

	status := http.StatusOK
	if res.Created > 0 {
		status = http.StatusCreated
	}
	writeJSON(w, r, status, dto.SensorIngestResponse{Created: res.Created > 0, Bin: dto.NewBinResponse(b)})
}
