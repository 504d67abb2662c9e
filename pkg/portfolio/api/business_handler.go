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

// BusinessHandler handles HTTP requests for contractor businesses
type BusinessHandler struct {
	service portfolio.Service
}

// NewBusinessHandler creates a new business handler
func NewBusinessHandler(service portfolio.Service) *BusinessHandler {
	return &BusinessHandler{service: service}
}

// Routes returns the routes for businesses
func (h *BusinessHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/", h.CreateBusiness)
	r.Get("/", h.ListBusinesses)
	r.Get("/nearest", h.NearestBusinesses)
	r.Get("/{id}", h.GetBusiness)
	r.Delete("/{id}", h.DeleteBusiness)
	r.Get("/slug/{slug}", h.GetBusinessBySlug)

	return r
}

// CreateBusinessRequest is the request body for creating a business
type CreateBusinessRequest struct {
	TenantID  string   `json:"tenant_id"`
	Name      string   `json:"name"`
	CitySlug  string   `json:"city_slug,omitempty"`
	City      string   `json:"city,omitempty"`
	Phone     string   `json:"phone,omitempty"`
	Website   string   `json:"website,omitempty"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
}

// BusinessResponse is the response body for a business
type BusinessResponse struct {
	ID        string    `json:"id"`
	TenantID  string    `json:"tenant_id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	CitySlug  string    `json:"city_slug,omitempty"`
	City      string    `json:"city,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	Website   string    `json:"website,omitempty"`
	Latitude  *float64  `json:"latitude,omitempty"`
	Longitude *float64  `json:"longitude,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toBusinessResponse(b *portfolio.Business) BusinessResponse {
	return BusinessResponse{
		ID:        b.ID.String(),
		TenantID:  b.TenantID.String(),
		Name:      b.Name,
		Slug:      b.Slug,
		CitySlug:  b.CitySlug,
		City:      b.City,
		Phone:     b.Phone,
		Website:   b.Website,
		Latitude:  b.Latitude,
		Longitude: b.Longitude,
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}
}

// CreateBusiness creates a new business
func (h *BusinessHandler) CreateBusiness(w http.ResponseWriter, r *http.Request) {
	var req CreateBusinessRequest
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

	if req.Name == "" {
		http.Error(w, "Name is required", http.StatusBadRequest)
		return
	}

	business, err := h.service.CreateBusiness(r.Context(), portfolio.CreateBusinessRequest{
		TenantID:  tenantID,
		Name:      req.Name,
		CitySlug:  req.CitySlug,
		City:      req.City,
		Phone:     req.Phone,
		Website:   req.Website,
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
	})
	if err != nil {
		slog.Error("Failed to create business", "error", err)
		http.Error(w, err.Error(), statusForError(err))
		return
	}

	slog.Info("Business created", "business_id", business.ID.String())
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, toBusinessResponse(business))
}

// GetBusiness retrieves a business by ID
func (h *BusinessHandler) GetBusiness(w http.ResponseWriter, r *http.Request) {
	idStr := chi.URLParam(r, "id")
	id, err := uuid.Parse(idStr)
	if err != nil {
		slog.Error("Invalid business ID", "business_id", idStr, "error", err)
		http.Error(w, "Invalid business ID", http.StatusBadRequest)
		return
	}

	business, err := h.service.GetBusiness(r.Context(), id)
	if err != nil {
		slog.Error("Failed to get business", "business_id", idStr, "error", err)
		http.Error(w, err.Error(), statusForError(err))
		return
	}

	render.JSON(w, r, toBusinessResponse(business))
}

// GetBusinessBySlug retrieves a business by tenant and slug
func (h *BusinessHandler) GetBusinessBySlug(w http.ResponseWriter, r *http.Request) {
	tenantID, err := uuid.Parse(r.URL.Query().Get("tenant_id"))
	if err != nil {
		http.Error(w, "Invalid tenant ID", http.StatusBadRequest)
		return
	}

	slug := chi.URLParam(r, "slug")
	business, err := h.service.GetBusinessBySlug(r.Context(), tenantID, slug)
	if err != nil {
		slog.Error("Failed to get business by slug", "slug", slug, "error", err)
		http.Error(w, err.Error(), statusForError(err))
		return
	}

	render.JSON(w, r, toBusinessResponse(business))
}

// ListBusinesses lists businesses for a tenant
func (h *BusinessHandler) ListBusinesses(w http.ResponseWriter, r *http.Request) {
	tenantID, err := uuid.Parse(r.URL.Query().Get("tenant_id"))
	if err != nil {
		http.Error(w, "Invalid tenant ID", http.StatusBadRequest)
		return
	}

	businesses, err := h.service.ListBusinesses(r.Context(), tenantID)
	if err != nil {
		slog.Error("Failed to list businesses", "tenant_id", tenantID.String(), "error", err)
		http.Error(w, err.Error(), statusForError(err))
		return
	}

	resp := make([]BusinessResponse, 0, len(businesses))
	for _, b := range businesses {
		resp = append(resp, toBusinessResponse(b))
	}

	render.JSON(w, r, resp)
}

// NearestBusinessResponse pairs a business with its distance in kilometers
type NearestBusinessResponse struct {
	Business BusinessResponse `json:"business"`
	Km       float64          `json:"km"`
}

// NearestBusinesses lists businesses closest to a point, nearest first
func (h *BusinessHandler) NearestBusinesses(w http.ResponseWriter, r *http.Request) {
	tenantID, err := uuid.Parse(r.URL.Query().Get("tenant_id"))
	if err != nil {
		http.Error(w, "Invalid tenant ID", http.StatusBadRequest)
		return
	}

	lat, err := strconv.ParseFloat(r.URL.Query().Get("lat"), 64)
	if err != nil {
		http.Error(w, "Invalid latitude", http.StatusBadRequest)
		return
	}
	lng, err := strconv.ParseFloat(r.URL.Query().Get("lng"), 64)
	if err != nil {
		http.Error(w, "Invalid longitude", http.StatusBadRequest)
		return
	}

	limit := 10
	if v := r.URL.Query().Get("limit"); v != "" {
		limit, err = strconv.Atoi(v)
		if err != nil || limit < 0 {
			http.Error(w, "Invalid limit", http.StatusBadRequest)
			return
		}
	}

	nearest, err := h.service.NearestBusinesses(r.Context(), tenantID, lat, lng, limit)
	if err != nil {
		slog.Error("Failed to list nearest businesses", "tenant_id", tenantID.String(), "error", err)
		http.Error(w, err.Error(), statusForError(err))
		return
	}

	resp := make([]NearestBusinessResponse, 0, len(nearest))
	for _, n := range nearest {
		resp = append(resp, NearestBusinessResponse{
			Business: toBusinessResponse(n.Business),
			Km:       n.Km,
		})
	}

	render.JSON(w, r, resp)
}

// DeleteBusiness deletes a business by ID
func (h *BusinessHandler) DeleteBusiness(w http.ResponseWriter, r *http.Request) {
	idStr := chi.URLParam(r, "id")
	id, err := uuid.Parse(idStr)
	if err != nil {
		http.Error(w, "Invalid business ID", http.StatusBadRequest)
		return
	}

	if err := h.service.DeleteBusiness(r.Context(), id); err != nil {
		slog.Error("Failed to delete business", "business_id", idStr, "error", err)
		http.Error(w, err.Error(), statusForError(err))
		return
	}

	slog.Info("Business deleted", "business_id", idStr)
	w.WriteHeader(http.StatusNoContent)
}
