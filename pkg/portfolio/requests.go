package portfolio

import "github.com/google/uuid"

// Request/Response DTOs

// CreateBusinessRequest contains parameters for creating a business
type CreateBusinessRequest struct {
	TenantID  uuid.UUID
	Name      string
	CitySlug  string
	City      string
	Phone     string
	Website   string
	Latitude  *float64
	Longitude *float64
}

// CreateProjectRequest contains parameters for creating a project.
// The slug is generated from Title; on collision within the tenant a short
// random suffix is appended.
type CreateProjectRequest struct {
	TenantID         uuid.UUID
	BusinessID       uuid.UUID
	Title            string
	Summary          string
	Description      string
	CitySlug         string
	City             string
	ProjectType      string
	ProjectTypeLabel string
}

// UpdateProjectRequest contains parameters for updating a project
type UpdateProjectRequest struct {
	Project *Project
}

// AddImageRequest contains parameters for attaching an image to a project.
// DisplayOrder nil means "append after the current last image".
type AddImageRequest struct {
	ProjectID    uuid.UUID
	AltText      *string
	DisplayOrder *int
	FileName     string
	MimeType     string
	StoreName    string // photo store to use; empty means the default store
}
