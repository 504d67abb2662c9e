package portfolio

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
)

// service implements the Service interface
type service struct {
	repository   Repository
	photoStores  map[string]PhotoStore
	defaultStore string
}

// Option represents a functional option for configuring the service
type Option func(*service)

// WithRepository sets the repository for the service
func WithRepository(repo Repository) Option {
	return func(s *service) {
		s.repository = repo
	}
}

// WithPhotoStore adds a photo storage backend
func WithPhotoStore(name string, store PhotoStore) Option {
	return func(s *service) {
		if s.photoStores == nil {
			s.photoStores = make(map[string]PhotoStore)
		}
		s.photoStores[name] = store
		if s.defaultStore == "" {
			s.defaultStore = name
		}
	}
}

// WithDefaultPhotoStore selects which registered store new images use
func WithDefaultPhotoStore(name string) Option {
	return func(s *service) {
		s.defaultStore = name
	}
}

// New creates a new service instance with the given options
func New(options ...Option) (Service, error) {
	s := &service{
		photoStores: make(map[string]PhotoStore),
	}

	for _, option := range options {
		option(s)
	}

	if s.repository == nil {
		return nil, fmt.Errorf("repository is required")
	}

	return s, nil
}

// Business operations

func (s *service) CreateBusiness(ctx context.Context, req CreateBusinessRequest) (*Business, error) {
	now := time.Now().UTC()
	business := &Business{
		ID:        uuid.New(),
		TenantID:  req.TenantID,
		Name:      req.Name,
		CitySlug:  req.CitySlug,
		City:      req.City,
		Phone:     req.Phone,
		Website:   req.Website,
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
		CreatedAt: now,
		UpdatedAt: now,
	}

	slug, err := s.uniqueBusinessSlug(ctx, req.TenantID, req.Name)
	if err != nil {
		return nil, &BusinessError{BusinessID: business.ID, Op: "create", Err: err}
	}
	business.Slug = slug

	if err := s.repository.CreateBusiness(ctx, business); err != nil {
		return nil, &BusinessError{BusinessID: business.ID, Op: "create", Err: err}
	}

	return business, nil
}

func (s *service) GetBusiness(ctx context.Context, id uuid.UUID) (*Business, error) {
	return s.repository.GetBusiness(ctx, id)
}

func (s *service) GetBusinessBySlug(ctx context.Context, tenantID uuid.UUID, slug string) (*Business, error) {
	return s.repository.GetBusinessBySlug(ctx, tenantID, slug)
}

func (s *service) ListBusinesses(ctx context.Context, tenantID uuid.UUID) ([]*Business, error) {
	return s.repository.ListBusinesses(ctx, tenantID)
}

func (s *service) DeleteBusiness(ctx context.Context, id uuid.UUID) error {
	if err := s.repository.DeleteBusiness(ctx, id); err != nil {
		return &BusinessError{BusinessID: id, Op: "delete", Err: err}
	}
	return nil
}

func (s *service) NearestBusinesses(ctx context.Context, tenantID uuid.UUID, lat, lng float64, limit int) ([]BusinessDistance, error) {
	if limit <= 0 {
		limit = DefaultRelatedLimit
	}

	businesses, err := s.repository.ListGeocodedBusinesses(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("list geocoded businesses: %w", err)
	}
	if len(businesses) == 0 {
		return nil, fmt.Errorf("tenant %s: %w", tenantID, ErrNotGeocoded)
	}

	return NearestBusinesses(lat, lng, businesses, limit), nil
}

// Project operations

func (s *service) CreateProject(ctx context.Context, req CreateProjectRequest) (*Project, error) {
	// Verify the business exists before attaching work to it
	if _, err := s.repository.GetBusiness(ctx, req.BusinessID); err != nil {
		return nil, fmt.Errorf("business not found: %w", err)
	}

	now := time.Now().UTC()
	project := &Project{
		ID:               uuid.New(),
		TenantID:         req.TenantID,
		BusinessID:       req.BusinessID,
		Title:            req.Title,
		Summary:          req.Summary,
		Description:      req.Description,
		CitySlug:         req.CitySlug,
		City:             req.City,
		ProjectType:      req.ProjectType,
		ProjectTypeLabel: req.ProjectTypeLabel,
		Status:           string(ProjectStatusDraft),
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	slug, err := s.uniqueProjectSlug(ctx, req.TenantID, req.Title)
	if err != nil {
		return nil, &ProjectError{ProjectID: project.ID, Op: "create", Err: err}
	}
	project.Slug = slug

	if err := s.repository.CreateProject(ctx, project); err != nil {
		return nil, &ProjectError{ProjectID: project.ID, Op: "create", Err: err}
	}

	return project, nil
}

func (s *service) GetProject(ctx context.Context, id uuid.UUID) (*Project, error) {
	return s.repository.GetProject(ctx, id)
}

func (s *service) GetProjectBySlug(ctx context.Context, tenantID uuid.UUID, slug string) (*Project, error) {
	return s.repository.GetProjectBySlug(ctx, tenantID, slug)
}

func (s *service) UpdateProject(ctx context.Context, req UpdateProjectRequest) error {
	req.Project.UpdatedAt = time.Now().UTC()

	if err := s.repository.UpdateProject(ctx, req.Project); err != nil {
		return &ProjectError{ProjectID: req.Project.ID, Op: "update", Err: err}
	}

	return nil
}

func (s *service) PublishProject(ctx context.Context, id uuid.UUID) (*Project, error) {
	project, err := s.repository.GetProject(ctx, id)
	if err != nil {
		return nil, &ProjectError{ProjectID: id, Op: "publish", Err: err}
	}

	if _, err := canPublishProject(ProjectStatus(project.Status)); err != nil {
		return nil, &ProjectError{ProjectID: id, Op: "publish", Err: err}
	}

	now := time.Now().UTC()
	project.Status = string(ProjectStatusPublished)
	project.PublishedAt = &now
	project.UpdatedAt = now

	if err := s.repository.UpdateProject(ctx, project); err != nil {
		return nil, &ProjectError{ProjectID: id, Op: "publish", Err: err}
	}

	return project, nil
}

func (s *service) ArchiveProject(ctx context.Context, id uuid.UUID) (*Project, error) {
	project, err := s.repository.GetProject(ctx, id)
	if err != nil {
		return nil, &ProjectError{ProjectID: id, Op: "archive", Err: err}
	}

	if _, err := canArchiveProject(ProjectStatus(project.Status)); err != nil {
		return nil, &ProjectError{ProjectID: id, Op: "archive", Err: err}
	}

	project.Status = string(ProjectStatusArchived)
	project.UpdatedAt = time.Now().UTC()

	if err := s.repository.UpdateProject(ctx, project); err != nil {
		return nil, &ProjectError{ProjectID: id, Op: "archive", Err: err}
	}

	return project, nil
}

func (s *service) DeleteProject(ctx context.Context, id uuid.UUID) error {
	if err := s.repository.DeleteProject(ctx, id); err != nil {
		return &ProjectError{ProjectID: id, Op: "delete", Err: err}
	}
	return nil
}

func (s *service) ListProjects(ctx context.Context, filters ProjectListFilters) ([]*Project, error) {
	return s.repository.ListProjects(ctx, filters)
}

// Related-projects selection

func (s *service) ListRelatedProjects(ctx context.Context, projectID uuid.UUID, limit int) ([]RelatedProject, error) {
	current, err := s.repository.GetProject(ctx, projectID)
	if err != nil {
		return nil, &ProjectError{ProjectID: projectID, Op: "related", Err: err}
	}

	ref := RefOf(current)
	candidates, err := s.repository.ListRelatedCandidates(ctx, RelatedCandidatesParams{
		TenantID: current.TenantID,
		Current:  ref,
		Limit:    RelatedCandidatePoolSize,
	})
	if err != nil {
		return nil, &ProjectError{ProjectID: projectID, Op: "related", Err: err}
	}

	selected := SelectRelated(ref, candidates, limit)

	// Shape results; business names are looked up once per distinct business.
	names := make(map[uuid.UUID]string, len(selected))
	result := make([]RelatedProject, 0, len(selected))
	for _, p := range selected {
		related := RelatedProject{
			ID:               p.ID,
			Title:            p.Title,
			Slug:             p.Slug,
			CitySlug:         p.CitySlug,
			City:             p.City,
			ProjectType:      p.ProjectType,
			ProjectTypeLabel: p.ProjectTypeLabel,
			BusinessID:       p.BusinessID,
		}

		name, ok := names[p.BusinessID]
		if !ok {
			if business, err := s.repository.GetBusiness(ctx, p.BusinessID); err == nil {
				name = business.Name
			}
			names[p.BusinessID] = name
		}
		related.BusinessName = name

		// A missing image list just means no cover; the card renders without one.
		if images, err := s.repository.ListImagesByProject(ctx, p.ID); err == nil {
			related.CoverImage = ResolveCover(derefImages(images))
		}

		result = append(result, related)
	}

	return result, nil
}

func derefImages(images []*ProjectImage) []ProjectImage {
	out := make([]ProjectImage, 0, len(images))
	for _, img := range images {
		if img != nil {
			out = append(out, *img)
		}
	}
	return out
}

// Image operations

func (s *service) AddImage(ctx context.Context, req AddImageRequest) (*ProjectImage, error) {
	project, err := s.repository.GetProject(ctx, req.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("project not found: %w", err)
	}

	storeName := req.StoreName
	if storeName == "" {
		storeName = s.defaultStore
	}
	if _, err := s.GetPhotoStore(storeName); err != nil {
		return nil, err
	}

	displayOrder := 0
	if req.DisplayOrder != nil {
		displayOrder = *req.DisplayOrder
	} else {
		existing, err := s.repository.ListImagesByProject(ctx, project.ID)
		if err != nil {
			return nil, fmt.Errorf("list images: %w", err)
		}
		for _, img := range existing {
			if img.DisplayOrder >= displayOrder {
				displayOrder = img.DisplayOrder + 1
			}
		}
	}

	now := time.Now().UTC()
	image := &ProjectImage{
		ID:           uuid.New(),
		ProjectID:    project.ID,
		StoreName:    storeName,
		MimeType:     req.MimeType,
		AltText:      req.AltText,
		DisplayOrder: displayOrder,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	image.StoragePath = imageKey(project.ID, image.ID, req.FileName)

	if err := s.repository.CreateImage(ctx, image); err != nil {
		return nil, fmt.Errorf("create image: %w", err)
	}

	return image, nil
}

// imageKey builds the storage key for an image binary. The image id keeps
// keys unique; the original extension is preserved for content-type sniffing.
func imageKey(projectID, imageID uuid.UUID, fileName string) string {
	ext := strings.ToLower(path.Ext(fileName))
	return fmt.Sprintf("projects/%s/%s%s", projectID, imageID, ext)
}

func (s *service) GetImage(ctx context.Context, id uuid.UUID) (*ProjectImage, error) {
	return s.repository.GetImage(ctx, id)
}

func (s *service) ListImages(ctx context.Context, projectID uuid.UUID) ([]*ProjectImage, error) {
	return s.repository.ListImagesByProject(ctx, projectID)
}

func (s *service) ReorderImages(ctx context.Context, projectID uuid.UUID, orderedIDs []uuid.UUID) error {
	images, err := s.repository.ListImagesByProject(ctx, projectID)
	if err != nil {
		return fmt.Errorf("list images: %w", err)
	}

	byID := make(map[uuid.UUID]*ProjectImage, len(images))
	for _, img := range images {
		byID[img.ID] = img
	}

	now := time.Now().UTC()
	for position, id := range orderedIDs {
		img, ok := byID[id]
		if !ok {
			return fmt.Errorf("%w: %s does not belong to project %s", ErrImageNotFound, id, projectID)
		}
		if img.DisplayOrder == position {
			continue
		}
		img.DisplayOrder = position
		img.UpdatedAt = now
		if err := s.repository.UpdateImage(ctx, img); err != nil {
			return fmt.Errorf("update image order: %w", err)
		}
	}

	return nil
}

func (s *service) DeleteImage(ctx context.Context, id uuid.UUID) error {
	image, err := s.repository.GetImage(ctx, id)
	if err != nil {
		return err
	}

	// Remove the binary first; a dangling row is worse than a dangling blob.
	if store, err := s.GetPhotoStore(image.StoreName); err == nil {
		if err := store.Delete(ctx, image.StoragePath); err != nil {
			return &PhotoStoreError{Backend: image.StoreName, Key: image.StoragePath, Op: "delete", Err: err}
		}
	}

	return s.repository.DeleteImage(ctx, id)
}

// Image upload/download operations

func (s *service) UploadImage(ctx context.Context, id uuid.UUID, reader io.Reader) error {
	image, store, err := s.imageStore(ctx, id)
	if err != nil {
		return err
	}

	params := UploadParams{Key: image.StoragePath, MimeType: image.MimeType}
	if err := store.UploadWithParams(ctx, reader, params); err != nil {
		return &PhotoStoreError{Backend: image.StoreName, Key: image.StoragePath, Op: "upload", Err: err}
	}

	return nil
}

func (s *service) DownloadImage(ctx context.Context, id uuid.UUID) (io.ReadCloser, error) {
	image, store, err := s.imageStore(ctx, id)
	if err != nil {
		return nil, err
	}

	rc, err := store.Download(ctx, image.StoragePath)
	if err != nil {
		return nil, &PhotoStoreError{Backend: image.StoreName, Key: image.StoragePath, Op: "download", Err: err}
	}

	return rc, nil
}

func (s *service) GetImageUploadURL(ctx context.Context, id uuid.UUID) (string, error) {
	image, store, err := s.imageStore(ctx, id)
	if err != nil {
		return "", err
	}
	return store.GetUploadURL(ctx, image.StoragePath)
}

func (s *service) GetImageDownloadURL(ctx context.Context, id uuid.UUID) (string, error) {
	image, store, err := s.imageStore(ctx, id)
	if err != nil {
		return "", err
	}
	return store.GetDownloadURL(ctx, image.StoragePath, "")
}

func (s *service) GetImagePreviewURL(ctx context.Context, id uuid.UUID) (string, error) {
	image, store, err := s.imageStore(ctx, id)
	if err != nil {
		return "", err
	}
	return store.GetPreviewURL(ctx, image.StoragePath)
}

func (s *service) imageStore(ctx context.Context, id uuid.UUID) (*ProjectImage, PhotoStore, error) {
	image, err := s.repository.GetImage(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	store, err := s.GetPhotoStore(image.StoreName)
	if err != nil {
		return nil, nil, err
	}

	return image, store, nil
}

// Photo store operations

func (s *service) RegisterPhotoStore(name string, store PhotoStore) {
	if s.photoStores == nil {
		s.photoStores = make(map[string]PhotoStore)
	}
	s.photoStores[name] = store
	if s.defaultStore == "" {
		s.defaultStore = name
	}
}

func (s *service) GetPhotoStore(name string) (PhotoStore, error) {
	store, ok := s.photoStores[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrPhotoStoreNotFound, name)
	}
	return store, nil
}

// Slug helpers

func (s *service) uniqueProjectSlug(ctx context.Context, tenantID uuid.UUID, title string) (string, error) {
	return s.uniqueSlug(title, func(candidate string) (bool, error) {
		_, err := s.repository.GetProjectBySlug(ctx, tenantID, candidate)
		if errors.Is(err, ErrProjectNotFound) {
			return true, nil
		}
		if err != nil {
			return false, err
		}
		return false, nil
	})
}

func (s *service) uniqueBusinessSlug(ctx context.Context, tenantID uuid.UUID, name string) (string, error) {
	return s.uniqueSlug(name, func(candidate string) (bool, error) {
		_, err := s.repository.GetBusinessBySlug(ctx, tenantID, candidate)
		if errors.Is(err, ErrBusinessNotFound) {
			return true, nil
		}
		if err != nil {
			return false, err
		}
		return false, nil
	})
}

// uniqueSlug slugifies source and, while taken reports a collision, retries
// with a random suffix. Five attempts is far beyond what collisions on an
// 8-hex suffix need; hitting the cap means the free check is broken.
func (s *service) uniqueSlug(source string, free func(string) (bool, error)) (string, error) {
	base := Slugify(source)
	if base == "" {
		base = uniqueSuffix()
	}

	candidate := base
	for attempt := 0; attempt < 5; attempt++ {
		ok, err := free(candidate)
		if err != nil {
			return "", err
		}
		if ok {
			return candidate, nil
		}
		candidate = base + "-" + uniqueSuffix()
	}

	return "", fmt.Errorf("%w: %s", ErrSlugConflict, base)
}
