package handlers

import (
	"errors"
	"mime/multipart"
	"net/http"
	"waste-collection-service/internal/api/dto"
	"waste-collection-service/internal/domain"
	"waste-collection-service/internal/ports"
	"waste-collection-service/internal/services"
)

// Multipart bodies may carry a full batch plus form overhead.
const maxUploadRequestBytes = services.MaxUploadFiles*services.MaxUploadBytes + 1<<20

type CameraHandler struct {
	Cameras ports.CameraRepository
	Images  ports.CameraImageRepository
	Upload  *services.ImageUpload
}

func (h *CameraHandler) List(w http.ResponseWriter, r *http.Request) {
	cams, err := h.Cameras.List(r.Context())
	if err != nil {
		writeServiceError(w, r, "list cameras", err)
		return
	}

	res := dto.ListCamerasResponse{Cameras: make([]dto.CameraResponse, 0, len(cams))}
	for _, c := range cams {
		res.Cameras = append(res.Cameras, dto.NewCameraResponse(c))
	}
	writeJSON(w, r, http.StatusOK, res)
}

func (h *CameraHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CameraRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	c := req.ToDomain()
	if err := h.Cameras.Create(r.Context(), c); err != nil {
		writeServiceError(w, r, "create camera", err)
		return
	}
	writeJSON(w, r, http.StatusCreated, dto.NewCameraResponse(c))
}

func (h *CameraHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	c, err := h.Cameras.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, "get camera", err)
		return
	}
	writeJSON(w, r, http.StatusOK, dto.NewCameraResponse(c))
}

func (h *CameraHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.Upload.DeleteCamera(r.Context(), id); err != nil {
		writeServiceError(w, r, "delete camera", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *CameraHandler) ListImages(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if _, err := h.Cameras.Get(r.Context(), id); err != nil {
		writeServiceError(w, r, "list camera images", err)
		return
	}

	imgs, err := h.Images.ListByCamera(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, "list camera images", err)
		return
	}

	res := dto.ListCameraImagesResponse{Images: make([]dto.CameraImageResponse, 0, len(imgs))}
	for _, img := range imgs {
		res.Images = append(res.Images, dto.NewCameraImageResponse(img))
	}
	writeJSON(w, r, http.StatusOK, res)
}

// UploadImages accepts multipart/form-data with one or more "images" parts
// and an optional "analysis_type" field.
func (h *CameraHandler) UploadImages(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadRequestBytes)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, r, http.StatusRequestEntityTooLarge, "upload too large")
			return
		}
		writeError(w, r, http.StatusBadRequest, "invalid multipart form")
		return
	}
	defer r.MultipartForm.RemoveAll()

	analysis, err := domain.ParseAnalysisType(r.FormValue("analysis_type"))
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "analysis_type must be one of [WASTE_DETECTION FILL_LEVEL GENERAL MAINTENANCE]")
		return
	}

	headers := r.MultipartForm.File["images"]
	files := make([]services.UploadFile, 0, len(headers))
	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			writeError(w, r, http.StatusBadRequest, "cannot read uploaded file")
			return
		}
		defer func(f multipart.File) { _ = f.Close() }(f)

		files = append(files, services.UploadFile{
			Filename:    fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Size:        fh.Size,
			Body:        f,
		})
	}

	imgs, err := h.Upload.Upload(r.Context(), id, analysis, files)
	if err != nil {
		writeServiceError(w, r, "upload camera images", err)
		return
	}

	res := dto.ListCameraImagesResponse{Images: make([]dto.CameraImageResponse, 0, len(imgs))}
	for _, img := range imgs {
		res.Images = append(res.Images, dto.NewCameraImageResponse(img))
	}
	writeJSON(w, r, http.StatusCreated, res)
}
