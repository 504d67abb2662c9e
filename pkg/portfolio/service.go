package portfolio

import (
	"context"
	"io"

	"github.com/google/uuid"
)

// Service defines the main interface for the portfolio library
type Service interface {
	// Business operations
	CreateBusiness(ctx context.Context, req CreateBusinessRequest) (*Business, error)
	GetBusiness(ctx context.Context, id uuid.UUID) (*Business, error)
	GetBusinessBySlug(ctx context.Context, tenantID uuid.UUID, slug string) (*Business, error)
	ListBusinesses(ctx context.Context, tenantID uuid.UUID) ([]*Business, error)
	DeleteBusiness(ctx context.Context, id uuid.UUID) error
	NearestBusinesses(ctx context.Context, tenantID uuid.UUID, lat, lng float64, limit int) ([]BusinessDistance, error)

	// Project operations
	CreateProject(ctx context.Context, req CreateProjectRequest) (*Project, error)
	GetProject(ctx context.Context, id uuid.UUID) (*Project, error)
	GetProjectBySlug(ctx context.Context, tenantID uuid.UUID, slug string) (*Project, error)
	UpdateProject(ctx context.Context, req UpdateProjectRequest) error
	PublishProject(ctx context.Context, id uuid.UUID) (*Project, error)
	ArchiveProject(ctx context.Context, id uuid.UUID) (*Project, error)
	DeleteProject(ctx context.Context, id uuid.UUID) error
	ListProjects(ctx context.Context, filters ProjectListFilters) ([]*Project, error)

	// Related-projects selection
	ListRelatedProjects(ctx context.Context, projectID uuid.UUID, limit int) ([]RelatedProject, error)

	// Image operations
	AddImage(ctx context.Context, req AddImageRequest) (*ProjectImage, error)
	GetImage(ctx context.Context, id uuid.UUID) (*ProjectImage, error)
	ListImages(ctx context.Context, projectID uuid.UUID) ([]*ProjectImage, error)
	ReorderImages(ctx context.Context, projectID uuid.UUID, orderedIDs []uuid.UUID) error
	DeleteImage(ctx context.Context, id uuid.UUID) error

	// Image upload/download operations
	UploadImage(ctx context.Context, id uuid.UUID, reader io.Reader) error
	DownloadImage(ctx context.Context, id uuid.UUID) (io.ReadCloser, error)
	GetImageUploadURL(ctx context.Context, id uuid.UUID) (string, error)
	GetImageDownloadURL(ctx context.Context, id uuid.UUID) (string, error)
	GetImagePreviewURL(ctx context.Context, id uuid.UUID) (string, error)

	// Photo store operations
	RegisterPhotoStore(name string, store PhotoStore)
	GetPhotoStore(name string) (PhotoStore, error)
}
