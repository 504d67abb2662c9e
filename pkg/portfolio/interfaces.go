package portfolio

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"
)

// Repository defines the interface for business, project, and image
// persistence.
type Repository interface {
	// Business operations
	CreateBusiness(ctx context.Context, business *Business) error
	GetBusiness(ctx context.Context, id uuid.UUID) (*Business, error)
	GetBusinessBySlug(ctx context.Context, tenantID uuid.UUID, slug string) (*Business, error)
	UpdateBusiness(ctx context.Context, business *Business) error
	DeleteBusiness(ctx context.Context, id uuid.UUID) error
	ListBusinesses(ctx context.Context, tenantID uuid.UUID) ([]*Business, error)
	// ListGeocodedBusinesses returns businesses with coordinates set, for the
	// nearest-business directory fallback.
	ListGeocodedBusinesses(ctx context.Context, tenantID uuid.UUID) ([]*Business, error)

	// Project operations
	CreateProject(ctx context.Context, project *Project) error
	GetProject(ctx context.Context, id uuid.UUID) (*Project, error)
	GetProjectBySlug(ctx context.Context, tenantID uuid.UUID, slug string) (*Project, error)
	UpdateProject(ctx context.Context, project *Project) error
	DeleteProject(ctx context.Context, id uuid.UUID) error
	ListProjects(ctx context.Context, filters ProjectListFilters) ([]*Project, error)
	// ListRelatedCandidates returns the candidate pool for related-projects
	// selection: published projects in the same tenant matching at least one
	// of the three relationship predicates, excluding the current project,
	// newest first, capped at params.Limit.
	ListRelatedCandidates(ctx context.Context, params RelatedCandidatesParams) ([]*Project, error)

	// Image operations
	CreateImage(ctx context.Context, image *ProjectImage) error
	GetImage(ctx context.Context, id uuid.UUID) (*ProjectImage, error)
	ListImagesByProject(ctx context.Context, projectID uuid.UUID) ([]*ProjectImage, error)
	UpdateImage(ctx context.Context, image *ProjectImage) error
	DeleteImage(ctx context.Context, id uuid.UUID) error
}

// RelatedCandidatesParams contains parameters for fetching the related
// candidate pool.
type RelatedCandidatesParams struct {
	TenantID uuid.UUID
	Current  ProjectRef
	Limit    int // defaults to RelatedCandidatePoolSize when <= 0
}

// PhotoStore defines the interface for project image binary storage.
type PhotoStore interface {
	// GetUploadURL returns a URL for uploading an image
	GetUploadURL(ctx context.Context, key string) (string, error)

	// Upload stores an image directly
	Upload(ctx context.Context, key string, reader io.Reader) error

	// UploadWithParams stores an image with additional parameters
	UploadWithParams(ctx context.Context, reader io.Reader, params UploadParams) error

	// GetDownloadURL returns a URL for downloading an image
	GetDownloadURL(ctx context.Context, key string, downloadFilename string) (string, error)

	// GetPreviewURL returns a URL for inline display of an image
	GetPreviewURL(ctx context.Context, key string) (string, error)

	// Download retrieves an image directly
	Download(ctx context.Context, key string) (io.ReadCloser, error)

	// Delete removes an image
	Delete(ctx context.Context, key string) error

	// GetPhotoMeta retrieves storage metadata for an image
	GetPhotoMeta(ctx context.Context, key string) (*PhotoMeta, error)
}

// PhotoMeta contains storage metadata about an image binary
type PhotoMeta struct {
	Key         string
	Size        int64
	ContentType string
	UpdatedAt   time.Time
	ETag        string
	Metadata    map[string]string
}

// UploadParams contains parameters for uploading an image binary
type UploadParams struct {
	Key      string
	MimeType string
}
