package handlers

import (
	"bytes"
	"log"
	"net/http"
	"strconv"
	"time"
	"waste-collection-service/internal/report"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ReportHandler struct {
	Source report.Source
	Now    func() time.Time
}

// Summary streams the workbook produced by cmd/report.
func (h *ReportHandler) Summary(w http.ResponseWriter, r *http.Request) {
	now := time.Now()
	if h.Now != nil {
		now = h.Now()
	}

	// Buffered so a failed build can still answer with a JSON error.
	var buf bytes.Buffer
	if err := report.Write(r.Context(), &buf, h.Source, now); err != nil {
		writeServiceError(w, r, "build report", err)
		return
	}

	name := "waste-report-" + now.UTC().Format("20060102") + ".xlsx"
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		log.Printf("write failed: method=%s path=%s err=%v", r.Method, r.URL.Path, err)
	}
}
