package api

import (
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/google/uuid"

	"github.com/knearme/portfolio-service/pkg/portfolio"
)

// ImageHandler handles HTTP requests for individual project images
type ImageHandler struct {
	service portfolio.Service
}

// NewImageHandler creates a new image handler
func NewImageHandler(service portfolio.Service) *ImageHandler {
	return &ImageHandler{service: service}
}

// Routes returns the routes for images
func (h *ImageHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/{id}", h.GetImage)
	r.Delete("/{id}", h.DeleteImage)
	r.Post("/{id}/upload", h.UploadImage)
	r.Get("/{id}/download", h.DownloadImage)
	r.Get("/{id}/urls", h.GetImageURLs)

	return r
}

// ImageResponse is the response body for a project image
type ImageResponse struct {
	ID           string    `json:"id"`
	ProjectID    string    `json:"project_id"`
	StoreName    string    `json:"store_name,omitempty"`
	StoragePath  string    `json:"storage_path"`
	MimeType     string    `json:"mime_type,omitempty"`
	AltText      *string   `json:"alt_text,omitempty"`
	DisplayOrder int       `json:"display_order"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func toImageResponse(img *portfolio.ProjectImage) ImageResponse {
	return ImageResponse{
		ID:           img.ID.String(),
		ProjectID:    img.ProjectID.String(),
		StoreName:    img.StoreName,
		StoragePath:  img.StoragePath,
		MimeType:     img.MimeType,
		AltText:      img.AltText,
		DisplayOrder: img.DisplayOrder,
		CreatedAt:    img.CreatedAt,
		UpdatedAt:    img.UpdatedAt,
	}
}

// GetImage retrieves an image record by ID
func (h *ImageHandler) GetImage(w http.ResponseWriter, r *http.Request) {
	idStr := chi.URLParam(r, "id")
	id, err := uuid.Parse(idStr)
	if err != nil {
		http.Error(w, "Invalid image ID", http.StatusBadRequest)
		return
	}

	image, err := h.service.GetImage(r.Context(), id)
	if err != nil {
		slog.Error("Failed to get image", "image_id", idStr, "error", err)
		http.Error(w, err.Error(), statusForError(err))
		return
	}

	render.JSON(w, r, toImageResponse(image))
}

// UploadImage streams the request body into the image's photo store
func (h *ImageHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	idStr := chi.URLParam(r, "id")
	id, err := uuid.Parse(idStr)
	if err != nil {
		http.Error(w, "Invalid image ID", http.StatusBadRequest)
		return
	}

	if err := h.service.UploadImage(r.Context(), id, r.Body); err != nil {
		slog.Error("Failed to upload image", "image_id", idStr, "error", err)
		http.Error(w, err.Error(), statusForError(err))
		return
	}

	slog.Info("Image uploaded", "image_id", idStr)
	render.JSON(w, r, map[string]string{"status": "uploaded"})
}

// DownloadImage streams the image binary to the client
func (h *ImageHandler) DownloadImage(w http.ResponseWriter, r *http.Request) {
	idStr := chi.URLParam(r, "id")
	id, err := uuid.Parse(idStr)
	if err != nil {
		http.Error(w, "Invalid image ID", http.StatusBadRequest)
		return
	}

	rc, err := h.service.DownloadImage(r.Context(), id)
	if err != nil {
		slog.Error("Failed to download image", "image_id", idStr, "error", err)
		http.Error(w, err.Error(), statusForError(err))
		return
	}
	defer rc.Close()

	w.Header().Set("Content-Type", "application/octet-stream")
	if _, err := io.Copy(w, rc); err != nil {
		slog.Error("Failed to stream image", "image_id", idStr, "error", err)
	}
}

// ImageURLsResponse carries the presigned URLs for an image
type ImageURLsResponse struct {
	UploadURL   string `json:"upload_url,omitempty"`
	DownloadURL string `json:"download_url,omitempty"`
	PreviewURL  string `json:"preview_url,omitempty"`
}

// GetImageURLs returns presigned upload/download/preview URLs where the
// photo store supports them
func (h *ImageHandler) GetImageURLs(w http.ResponseWriter, r *http.Request) {
	idStr := chi.URLParam(r, "id")
	id, err := uuid.Parse(idStr)
	if err != nil {
		http.Error(w, "Invalid image ID", http.StatusBadRequest)
		return
	}

	if _, err := h.service.GetImage(r.Context(), id); err != nil {
		http.Error(w, err.Error(), statusForError(err))
		return
	}

	var resp ImageURLsResponse
	if u, err := h.service.GetImageUploadURL(r.Context(), id); err == nil {
		resp.UploadURL = u
	}
	if u, err := h.service.GetImageDownloadURL(r.Context(), id); err == nil {
		resp.DownloadURL = u
	}
	if u, err := h.service.GetImagePreviewURL(r.Context(), id); err == nil {
		resp.PreviewURL = u
	}

	render.JSON(w, r, resp)
}

// DeleteImage removes an image record and its stored binary
func (h *ImageHandler) DeleteImage(w http.ResponseWriter, r *http.Request) {
	idStr := chi.URLParam(r, "id")
	id, err := uuid.Parse(idStr)
	if err != nil {
		http.Error(w, "Invalid image ID", http.StatusBadRequest)
		return
	}

	if err := h.service.DeleteImage(r.Context(), id); err != nil {
		slog.Error("Failed to delete image", "image_id", idStr, "error", err)
		http.Error(w, err.Error(), statusForError(err))
		return
	}

	slog.Info("Image deleted", "image_id", idStr)
	w.WriteHeader(http.StatusNoContent)
}
