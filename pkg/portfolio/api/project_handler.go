package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/google/uuid"

	"github.com/knearme/portfolio-service/pkg/portfolio"
)

// ProjectHandler handles HTTP requests for portfolio projects
type ProjectHandler struct {
	service portfolio.Service
}

// NewProjectHandler creates a new project handler
func NewProjectHandler(service portfolio.Service) *ProjectHandler {
	return &ProjectHandler{service: service}
}

// Routes returns the routes for projects
func (h *ProjectHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/", h.CreateProject)
	r.Get("/", h.ListProjects)
	r.Get("/{id}", h.GetProject)
	r.Put("/{id}", h.UpdateProject)
	r.Delete("/{id}", h.DeleteProject)
	r.Get("/slug/{slug}", h.GetProjectBySlug)

	r.Post("/{id}/publish", h.PublishProject)
	r.Post("/{id}/archive", h.ArchiveProject)

	r.Get("/{id}/related", h.ListRelatedProjects)

	r.Post("/{id}/images", h.AddImage)
	r.Get("/{id}/images", h.ListImages)
	r.Put("/{id}/images/order", h.ReorderImages)

	return r
}

// CreateProjectRequest is the request body for creating a project
type CreateProjectRequest struct {
	TenantID         string `json:"tenant_id"`
	BusinessID       string `json:"business_id"`
	Title            string `json:"title"`
	Summary          string `json:"summary,omitempty"`
	Description      string `json:"description,omitempty"`
	CitySlug         string `json:"city_slug,omitempty"`
	City             string `json:"city,omitempty"`
	ProjectType      string `json:"project_type,omitempty"`
	ProjectTypeLabel string `json:"project_type_label,omitempty"`
}

// UpdateProjectRequest is the request body for updating a project
type UpdateProjectRequest struct {
	Title            *string `json:"title,omitempty"`
	Summary          *string `json:"summary,omitempty"`
	Description      *string `json:"description,omitempty"`
	CitySlug         *string `json:"city_slug,omitempty"`
	City             *string `json:"city,omitempty"`
	ProjectType      *string `json:"project_type,omitempty"`
	ProjectTypeLabel *string `json:"project_type_label,omitempty"`
}

// ProjectResponse is the response body for a project
type ProjectResponse struct {
	ID               string     `json:"id"`
	TenantID         string     `json:"tenant_id"`
	BusinessID       string     `json:"business_id"`
	Title            string     `json:"title"`
	Slug             string     `json:"slug"`
	Summary          string     `json:"summary,omitempty"`
	Description      string     `json:"description,omitempty"`
	CitySlug         string     `json:"city_slug,omitempty"`
	City             string     `json:"city,omitempty"`
	ProjectType      string     `json:"project_type,omitempty"`
	ProjectTypeLabel string     `json:"project_type_label,omitempty"`
	Status           string     `json:"status"`
	PublishedAt      *time.Time `json:"published_at,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

func toProjectResponse(p *portfolio.Project) ProjectResponse {
	return ProjectResponse{
		ID:               p.ID.String(),
		TenantID:         p.TenantID.String(),
		BusinessID:       p.BusinessID.String(),
		Title:            p.Title,
		Slug:             p.Slug,
		Summary:          p.Summary,
		Description:      p.Description,
		CitySlug:         p.CitySlug,
		City:             p.City,
		ProjectType:      p.ProjectType,
		ProjectTypeLabel: p.ProjectTypeLabel,
		Status:           p.Status,
		PublishedAt:      p.PublishedAt,
		CreatedAt:        p.CreatedAt,
		UpdatedAt:        p.UpdatedAt,
	}
}

// CreateProject creates a new project
func (h *ProjectHandler) CreateProject(w http.ResponseWriter, r *http.Request) {
	var req CreateProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	tenantID, err := uuid.Parse(req.TenantID)
	if err != nil {
		slog.Error("Invalid tenant ID", "tenant_id", req.TenantID, "error", err)
		http.Error(w, "Invalid tenant ID", http.StatusBadRequest)
		return
	}

	businessID, err := uuid.Parse(req.BusinessID)
	if err != nil {
		slog.Error("Invalid business ID", "business_id", req.BusinessID, "error", err)
		http.Error(w, "Invalid business ID", http.StatusBadRequest)
		return
	}

	if req.Title == "" {
		http.Error(w, "Title is required", http.StatusBadRequest)
		return
	}

	project, err := h.service.CreateProject(r.Context(), portfolio.CreateProjectRequest{
		TenantID:         tenantID,
		BusinessID:       businessID,
		Title:            req.Title,
		Summary:          req.Summary,
		Description:      req.Description,
		CitySlug:         req.CitySlug,
		City:             req.City,
		ProjectType:      req.ProjectType,
		ProjectTypeLabel: req.ProjectTypeLabel,
	})
	if err != nil {
		slog.Error("Failed to create project", "error", err)
		http.Error(w, err.Error(), statusForError(err))
		return
	}

	slog.Info("Project created", "project_id", project.ID.String())
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, toProjectResponse(project))
}

// GetProject retrieves a project by ID
func (h *ProjectHandler) GetProject(w http.ResponseWriter, r *http.Request) {
	idStr := chi.URLParam(r, "id")
	id, err := uuid.Parse(idStr)
	if err != nil {
		slog.Error("Invalid project ID", "project_id", idStr, "error", err)
		http.Error(w, "Invalid project ID", http.StatusBadRequest)
		return
	}

	project, err := h.service.GetProject(r.Context(), id)
	if err != nil {
		slog.Error("Failed to get project", "project_id", idStr, "error", err)
		http.Error(w, err.Error(), statusForError(err))
		return
	}

	render.JSON(w, r, toProjectResponse(project))
}

// GetProjectBySlug retrieves a project by tenant and slug
func (h *ProjectHandler) GetProjectBySlug(w http.ResponseWriter, r *http.Request) {
	tenantID, err := uuid.Parse(r.URL.Query().Get("tenant_id"))
	if err != nil {
		http.Error(w, "Invalid tenant ID", http.StatusBadRequest)
		return
	}

	slug := chi.URLParam(r, "slug")
	project, err := h.service.GetProjectBySlug(r.Context(), tenantID, slug)
	if err != nil {
		slog.Error("Failed to get project by slug", "slug", slug, "error", err)
		http.Error(w, err.Error(), statusForError(err))
		return
	}

	render.JSON(w, r, toProjectResponse(project))
}

// UpdateProject updates mutable project fields
func (h *ProjectHandler) UpdateProject(w http.ResponseWriter, r *http.Request) {
	idStr := chi.URLParam(r, "id")
	id, err := uuid.Parse(idStr)
	if err != nil {
		http.Error(w, "Invalid project ID", http.StatusBadRequest)
		return
	}

	var req UpdateProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	project, err := h.service.GetProject(r.Context(), id)
	if err != nil {
		slog.Error("Failed to get project", "project_id", idStr, "error", err)
		http.Error(w, err.Error(), statusForError(err))
		return
	}

	if req.Title != nil {
		project.Title = *req.Title
	}
	if req.Summary != nil {
		project.Summary = *req.Summary
	}
	if req.Description != nil {
		project.Description = *req.Description
	}
	if req.CitySlug != nil {
		project.CitySlug = *req.CitySlug
	}
	if req.City != nil {
		project.City = *req.City
	}
	if req.ProjectType != nil {
		project.ProjectType = *req.ProjectType
	}
	if req.ProjectTypeLabel != nil {
		project.ProjectTypeLabel = *req.ProjectTypeLabel
	}

	if err := h.service.UpdateProject(r.Context(), portfolio.UpdateProjectRequest{Project: project}); err != nil {
		slog.Error("Failed to update project", "project_id", idStr, "error", err)
		http.Error(w, err.Error(), statusForError(err))
		return
	}

	render.JSON(w, r, toProjectResponse(project))
}

// PublishProject transitions a project to published
func (h *ProjectHandler) PublishProject(w http.ResponseWriter, r *http.Request) {
	idStr := chi.URLParam(r, "id")
	id, err := uuid.Parse(idStr)
	if err != nil {
		http.Error(w, "Invalid project ID", http.StatusBadRequest)
		return
	}

	project, err := h.service.PublishProject(r.Context(), id)
	if err != nil {
		slog.Error("Failed to publish project", "project_id", idStr, "error", err)
		http.Error(w, err.Error(), statusForError(err))
		return
	}

	slog.Info("Project published", "project_id", idStr)
	render.JSON(w, r, toProjectResponse(project))
}

// ArchiveProject transitions a project to archived
func (h *ProjectHandler) ArchiveProject(w http.ResponseWriter, r *http.Request) {
	idStr := chi.URLParam(r, "id")
	id, err := uuid.Parse(idStr)
	if err != nil {
		http.Error(w, "Invalid project ID", http.StatusBadRequest)
		return
	}

	project, err := h.service.ArchiveProject(r.Context(), id)
	if err != nil {
		slog.Error("Failed to archive project", "project_id", idStr, "error", err)
		http.Error(w, err.Error(), statusForError(err))
		return
	}

	slog.Info("Project archived", "project_id", idStr)
	render.JSON(w, r, toProjectResponse(project))
}

// DeleteProject deletes a project by ID
func (h *ProjectHandler) DeleteProject(w http.ResponseWriter, r *http.Request) {
	idStr := chi.URLParam(r, "id")
	id, err := uuid.Parse(idStr)
	if err != nil {
		http.Error(w, "Invalid project ID", http.StatusBadRequest)
		return
	}

	if err := h.service.DeleteProject(r.Context(), id); err != nil {
		slog.Error("Failed to delete project", "project_id", idStr, "error", err)
		http.Error(w, err.Error(), statusForError(err))
		return
	}

	slog.Info("Project deleted", "project_id", idStr)
	w.WriteHeader(http.StatusNoContent)
}

// ListProjects lists projects with optional filters
func (h *ProjectHandler) ListProjects(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var filters portfolio.ProjectListFilters

	if v := q.Get("tenant_id"); v != "" {
		tenantID, err := uuid.Parse(v)
		if err != nil {
			http.Error(w, "Invalid tenant ID", http.StatusBadRequest)
			return
		}
		filters.TenantID = &tenantID
	}
	if v := q.Get("business_id"); v != "" {
		businessID, err := uuid.Parse(v)
		if err != nil {
			http.Error(w, "Invalid business ID", http.StatusBadRequest)
			return
		}
		filters.BusinessID = &businessID
	}
	if v := q.Get("city_slug"); v != "" {
		filters.CitySlug = &v
	}
	if v := q.Get("project_type"); v != "" {
		filters.ProjectType = &v
	}
	if v := q.Get("status"); v != "" {
		if !portfolio.ProjectStatus(v).IsValid() {
			http.Error(w, "Invalid status", http.StatusBadRequest)
			return
		}
		filters.Status = &v
	}
	if v := q.Get("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil || limit < 0 {
			http.Error(w, "Invalid limit", http.StatusBadRequest)
			return
		}
		filters.Limit = &limit
	}
	if v := q.Get("offset"); v != "" {
		offset, err := strconv.Atoi(v)
		if err != nil || offset < 0 {
			http.Error(w, "Invalid offset", http.StatusBadRequest)
			return
		}
		filters.Offset = &offset
	}

	projects, err := h.service.ListProjects(r.Context(), filters)
	if err != nil {
		slog.Error("Failed to list projects", "error", err)
		http.Error(w, err.Error(), statusForError(err))
		return
	}

	resp := make([]ProjectResponse, 0, len(projects))
	for _, p := range projects {
		resp = append(resp, toProjectResponse(p))
	}

	render.JSON(w, r, resp)
}

// ListRelatedProjects returns the related-projects rail for a project.
// An absent limit parameter falls back to the default rail size; an explicit
// limit=0 returns an empty rail.
func (h *ProjectHandler) ListRelatedProjects(w http.ResponseWriter, r *http.Request) {
	idStr := chi.URLParam(r, "id")
	id, err := uuid.Parse(idStr)
	if err != nil {
		http.Error(w, "Invalid project ID", http.StatusBadRequest)
		return
	}

	limit := portfolio.DefaultRelatedLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		limit, err = strconv.Atoi(v)
		if err != nil || limit < 0 {
			http.Error(w, "Invalid limit", http.StatusBadRequest)
			return
		}
	}

	related, err := h.service.ListRelatedProjects(r.Context(), id, limit)
	if err != nil {
		slog.Error("Failed to list related projects", "project_id", idStr, "error", err)
		http.Error(w, err.Error(), statusForError(err))
		return
	}

	if related == nil {
		related = []portfolio.RelatedProject{}
	}
	render.JSON(w, r, related)
}

// AddImageRequest is the request body for attaching an image to a project
type AddImageRequest struct {
	FileName     string  `json:"file_name"`
	MimeType     string  `json:"mime_type,omitempty"`
	AltText      *string `json:"alt_text,omitempty"`
	DisplayOrder *int    `json:"display_order,omitempty"`
	StoreName    string  `json:"store_name,omitempty"`
}

// AddImageResponse is the response body after attaching an image
type AddImageResponse struct {
	ImageResponse
	UploadURL string `json:"upload_url,omitempty"`
}

// AddImage attaches an image record to a project and returns an upload URL
// when the photo store supports presigning
func (h *ProjectHandler) AddImage(w http.ResponseWriter, r *http.Request) {
	idStr := chi.URLParam(r, "id")
	id, err := uuid.Parse(idStr)
	if err != nil {
		http.Error(w, "Invalid project ID", http.StatusBadRequest)
		return
	}

	var req AddImageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if req.FileName == "" {
		http.Error(w, "File name is required", http.StatusBadRequest)
		return
	}

	image, err := h.service.AddImage(r.Context(), portfolio.AddImageRequest{
		ProjectID:    id,
		AltText:      req.AltText,
		DisplayOrder: req.DisplayOrder,
		FileName:     req.FileName,
		MimeType:     req.MimeType,
		StoreName:    req.StoreName,
	})
	if err != nil {
		slog.Error("Failed to add image", "project_id", idStr, "error", err)
		http.Error(w, err.Error(), statusForError(err))
		return
	}

	resp := AddImageResponse{ImageResponse: toImageResponse(image)}

	// Best effort: direct-upload stores have no presigned URLs
	if uploadURL, err := h.service.GetImageUploadURL(r.Context(), image.ID); err == nil {
		resp.UploadURL = uploadURL
	}

	slog.Info("Image added", "project_id", idStr, "image_id", image.ID.String())
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, resp)
}

// ListImages lists a project's images in gallery order
func (h *ProjectHandler) ListImages(w http.ResponseWriter, r *http.Request) {
	idStr := chi.URLParam(r, "id")
	id, err := uuid.Parse(idStr)
	if err != nil {
		http.Error(w, "Invalid project ID", http.StatusBadRequest)
		return
	}

	images, err := h.service.ListImages(r.Context(), id)
	if err != nil {
		slog.Error("Failed to list images", "project_id", idStr, "error", err)
		http.Error(w, err.Error(), statusForError(err))
		return
	}

	resp := make([]ImageResponse, 0, len(images))
	for _, img := range images {
		resp = append(resp, toImageResponse(img))
	}

	render.JSON(w, r, resp)
}

// ReorderImagesRequest is the request body for reordering a project's gallery
type ReorderImagesRequest struct {
	ImageIDs []string `json:"image_ids"`
}

// ReorderImages applies a new gallery order to a project's images
func (h *ProjectHandler) ReorderImages(w http.ResponseWriter, r *http.Request) {
	idStr := chi.URLParam(r, "id")
	id, err := uuid.Parse(idStr)
	if err != nil {
		http.Error(w, "Invalid project ID", http.StatusBadRequest)
		return
	}

	var req ReorderImagesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	orderedIDs := make([]uuid.UUID, 0, len(req.ImageIDs))
	for _, s := range req.ImageIDs {
		imageID, err := uuid.Parse(s)
		if err != nil {
			http.Error(w, "Invalid image ID", http.StatusBadRequest)
			return
		}
		orderedIDs = append(orderedIDs, imageID)
	}

	if err := h.service.ReorderImages(r.Context(), id, orderedIDs); err != nil {
		slog.Error("Failed to reorder images", "project_id", idStr, "error", err)
		http.Error(w, err.Error(), statusForError(err))
		return
	}

	slog.Info("Images reordered", "project_id", idStr)
	w.WriteHeader(http.StatusNoContent)
}
