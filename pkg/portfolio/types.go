package portfolio

import (
	"time"

	"github.com/google/uuid"
)

// ProjectStatus is the domain type for project lifecycle states.
type ProjectStatus string

// Project status constants (typed).
const (
	ProjectStatusDraft     ProjectStatus = "draft"
	ProjectStatusPublished ProjectStatus = "published"
	ProjectStatusArchived  ProjectStatus = "archived"
)

// IsValid reports whether the status is one of the known lifecycle states.
func (s ProjectStatus) IsValid() bool {
	switch s {
	case ProjectStatusDraft, ProjectStatusPublished, ProjectStatusArchived:
		return true
	default:
		return false
	}
}

// Business represents a contractor whose work is showcased on the platform.
// Latitude/Longitude are optional; they are only set for businesses that have
// been geocoded and feed the nearest-business directory fallback.
type Business struct {
	ID        uuid.UUID  `json:"id"`
	TenantID  uuid.UUID  `json:"tenant_id"`
	Name      string     `json:"name"`
	Slug      string     `json:"slug"`
	CitySlug  string     `json:"city_slug"`
	City      string     `json:"city,omitempty"`
	Phone     string     `json:"phone,omitempty"`
	Website   string     `json:"website,omitempty"`
	Latitude  *float64   `json:"latitude,omitempty"`
	Longitude *float64   `json:"longitude,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"`
}

// Project represents a single portfolio entry: one job a contractor completed
// in one city. CitySlug and ProjectType are the grouping keys the related
// selection buckets on; City and ProjectTypeLabel are their display forms and
// carry no invariants.
type Project struct {
	ID               uuid.UUID  `json:"id"`
	TenantID         uuid.UUID  `json:"tenant_id"`
	BusinessID       uuid.UUID  `json:"business_id"`
	Title            string     `json:"title"`
	Slug             string     `json:"slug"`
	Summary          string     `json:"summary,omitempty"`
	Description      string     `json:"description,omitempty"`
	CitySlug         string     `json:"city_slug"`
	City             string     `json:"city,omitempty"`
	ProjectType      string     `json:"project_type"`
	ProjectTypeLabel string     `json:"project_type_label,omitempty"`
	Status           string     `json:"status"`
	PublishedAt      *time.Time `json:"published_at,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
	DeletedAt        *time.Time `json:"deleted_at,omitempty"`
}

// ProjectImage is one photo attached to a project. DisplayOrder controls
// gallery position; the image with the lowest order is the project's cover.
type ProjectImage struct {
	ID           uuid.UUID `json:"id"`
	ProjectID    uuid.UUID `json:"project_id"`
	StoreName    string    `json:"store_name,omitempty"`
	StoragePath  string    `json:"storage_path"`
	MimeType     string    `json:"mime_type,omitempty"`
	AltText      *string   `json:"alt_text,omitempty"`
	DisplayOrder int       `json:"display_order"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// RelatedProject is the shaped result returned for the related-projects rail.
// BusinessName and CoverImage are optionally populated derived fields.
type RelatedProject struct {
	ID               uuid.UUID     `json:"id"`
	Title            string        `json:"title"`
	Slug             string        `json:"slug"`
	CitySlug         string        `json:"city_slug"`
	City             string        `json:"city,omitempty"`
	ProjectType      string        `json:"project_type"`
	ProjectTypeLabel string        `json:"project_type_label,omitempty"`
	BusinessID       uuid.UUID     `json:"business_id"`
	BusinessName     string        `json:"business_name,omitempty"`
	CoverImage       *ProjectImage `json:"cover_image,omitempty"`
}

// BusinessDistance pairs a business with its distance from a query point, in
// kilometers. Returned by the nearest-business directory fallback.
type BusinessDistance struct {
	Business *Business `json:"business"`
	Km       float64   `json:"km"`
}

// ProjectListFilters defines filtering options for listing projects.
type ProjectListFilters struct {
	TenantID    *uuid.UUID
	BusinessID  *uuid.UUID
	CitySlug    *string
	ProjectType *string
	Status      *string
	Limit       *int
	Offset      *int
}
