package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/knearme/portfolio-service/pkg/portfolio"
)

// Repository implements portfolio.Repository using in-memory storage
type Repository struct {
	mu               sync.RWMutex
	businesses       map[uuid.UUID]*portfolio.Business
	projects         map[uuid.UUID]*portfolio.Project
	images           map[uuid.UUID]*portfolio.ProjectImage
	imagesByProject  map[uuid.UUID][]uuid.UUID // project_id -> []image_id
	insertionCounter int
	insertionOrder   map[uuid.UUID]int // stable ordering for equal timestamps
}

// New creates a new in-memory repository
func New() portfolio.Repository {
	return &Repository{
		businesses:      make(map[uuid.UUID]*portfolio.Business),
		projects:        make(map[uuid.UUID]*portfolio.Project),
		images:          make(map[uuid.UUID]*portfolio.ProjectImage),
		imagesByProject: make(map[uuid.UUID][]uuid.UUID),
		insertionOrder:  make(map[uuid.UUID]int),
	}
}

// Business operations

func (r *Repository) CreateBusiness(ctx context.Context, business *portfolio.Business) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Create a copy to avoid external modifications
	businessCopy := *business
	r.businesses[business.ID] = &businessCopy

	return nil
}

func (r *Repository) GetBusiness(ctx context.Context, id uuid.UUID) (*portfolio.Business, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	business, exists := r.businesses[id]
	if !exists || business.DeletedAt != nil {
		return nil, portfolio.ErrBusinessNotFound
	}

	businessCopy := *business
	return &businessCopy, nil
}

func (r *Repository) GetBusinessBySlug(ctx context.Context, tenantID uuid.UUID, slug string) (*portfolio.Business, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, business := range r.businesses {
		if business.TenantID == tenantID && business.Slug == slug && business.DeletedAt == nil {
			businessCopy := *business
			return &businessCopy, nil
		}
	}

	return nil, portfolio.ErrBusinessNotFound
}

func (r *Repository) UpdateBusiness(ctx context.Context, business *portfolio.Business) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.businesses[business.ID]; !exists {
		return portfolio.ErrBusinessNotFound
	}

	businessCopy := *business
	r.businesses[business.ID] = &businessCopy

	return nil
}

func (r *Repository) DeleteBusiness(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	business, exists := r.businesses[id]
	if !exists || business.DeletedAt != nil {
		return portfolio.ErrBusinessNotFound
	}

	now := time.Now()
	business.DeletedAt = &now
	business.UpdatedAt = now
	return nil
}

func (r *Repository) ListBusinesses(ctx context.Context, tenantID uuid.UUID) ([]*portfolio.Business, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*portfolio.Business
	for _, business := range r.businesses {
		if business.TenantID == tenantID && business.DeletedAt == nil {
			businessCopy := *business
			result = append(result, &businessCopy)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Name < result[j].Name
	})

	return result, nil
}

func (r *Repository) ListGeocodedBusinesses(ctx context.Context, tenantID uuid.UUID) ([]*portfolio.Business, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*portfolio.Business
	for _, business := range r.businesses {
		if business.TenantID != tenantID || business.DeletedAt != nil {
			continue
		}
		if business.Latitude == nil || business.Longitude == nil {
			continue
		}
		businessCopy := *business
		result = append(result, &businessCopy)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Name < result[j].Name
	})

	return result, nil
}

// Project operations

func (r *Repository) CreateProject(ctx context.Context, project *portfolio.Project) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	projectCopy := *project
	r.projects[project.ID] = &projectCopy
	r.insertionCounter++
	r.insertionOrder[project.ID] = r.insertionCounter

	return nil
}

func (r *Repository) GetProject(ctx context.Context, id uuid.UUID) (*portfolio.Project, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	project, exists := r.projects[id]
	if !exists || project.DeletedAt != nil {
		return nil, portfolio.ErrProjectNotFound
	}

	projectCopy := *project
	return &projectCopy, nil
}

func (r *Repository) GetProjectBySlug(ctx context.Context, tenantID uuid.UUID, slug string) (*portfolio.Project, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, project := range r.projects {
		if project.TenantID == tenantID && project.Slug == slug && project.DeletedAt == nil {
			projectCopy := *project
			return &projectCopy, nil
		}
	}

	return nil, portfolio.ErrProjectNotFound
}

func (r *Repository) UpdateProject(ctx context.Context, project *portfolio.Project) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.projects[project.ID]; !exists {
		return portfolio.ErrProjectNotFound
	}

	projectCopy := *project
	r.projects[project.ID] = &projectCopy

	return nil
}

func (r *Repository) DeleteProject(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	project, exists := r.projects[id]
	if !exists || project.DeletedAt != nil {
		return portfolio.ErrProjectNotFound
	}

	now := time.Now()
	project.DeletedAt = &now
	project.UpdatedAt = now
	return nil
}

func (r *Repository) ListProjects(ctx context.Context, filters portfolio.ProjectListFilters) ([]*portfolio.Project, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*portfolio.Project
	for _, project := range r.projects {
		if project.DeletedAt != nil {
			continue
		}
		if filters.TenantID != nil && project.TenantID != *filters.TenantID {
			continue
		}
		if filters.BusinessID != nil && project.BusinessID != *filters.BusinessID {
			continue
		}
		if filters.CitySlug != nil && project.CitySlug != *filters.CitySlug {
			continue
		}
		if filters.ProjectType != nil && project.ProjectType != *filters.ProjectType {
			continue
		}
		if filters.Status != nil && project.Status != *filters.Status {
			continue
		}
		projectCopy := *project
		result = append(result, &projectCopy)
	}

	r.sortByRecency(result)

	// Apply limit and offset
	if filters.Offset != nil && *filters.Offset > 0 {
		if *filters.Offset >= len(result) {
			return []*portfolio.Project{}, nil
		}
		result = result[*filters.Offset:]
	}

	if filters.Limit != nil && *filters.Limit > 0 && *filters.Limit < len(result) {
		result = result[:*filters.Limit]
	}

	return result, nil
}

func (r *Repository) ListRelatedCandidates(ctx context.Context, params portfolio.RelatedCandidatesParams) ([]*portfolio.Project, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	limit := params.Limit
	if limit <= 0 {
		limit = portfolio.RelatedCandidatePoolSize
	}

	current := params.Current

	var result []*portfolio.Project
	for _, project := range r.projects {
		if project.DeletedAt != nil || project.TenantID != params.TenantID {
			continue
		}
		if project.ID == current.ID {
			continue
		}
		if project.Status != string(portfolio.ProjectStatusPublished) {
			continue
		}
		// Any of the three relationship predicates admits a candidate; the
		// selector does the bucketing.
		if project.BusinessID != current.BusinessID &&
			project.ProjectType != current.ProjectType &&
			project.CitySlug != current.CitySlug {
			continue
		}
		projectCopy := *project
		result = append(result, &projectCopy)
	}

	r.sortByRecency(result)

	if len(result) > limit {
		result = result[:limit]
	}

	return result, nil
}

// sortByRecency orders projects newest first by published_at, falling back to
// created_at for drafts, with insertion order as the tiebreak so results are
// stable across calls.
func (r *Repository) sortByRecency(projects []*portfolio.Project) {
	recency := func(p *portfolio.Project) time.Time {
		if p.PublishedAt != nil {
			return *p.PublishedAt
		}
		return p.CreatedAt
	}
	sort.Slice(projects, func(i, j int) bool {
		ti, tj := recency(projects[i]), recency(projects[j])
		if !ti.Equal(tj) {
			return ti.After(tj)
		}
		return r.insertionOrder[projects[i].ID] > r.insertionOrder[projects[j].ID]
	})
}

// Image operations

func (r *Repository) CreateImage(ctx context.Context, image *portfolio.ProjectImage) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Verify project exists
	project, exists := r.projects[image.ProjectID]
	if !exists || project.DeletedAt != nil {
		return portfolio.ErrProjectNotFound
	}

	imageCopy := *image
	r.images[image.ID] = &imageCopy
	r.imagesByProject[image.ProjectID] = append(r.imagesByProject[image.ProjectID], image.ID)

	return nil
}

func (r *Repository) GetImage(ctx context.Context, id uuid.UUID) (*portfolio.ProjectImage, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	image, exists := r.images[id]
	if !exists {
		return nil, portfolio.ErrImageNotFound
	}

	imageCopy := *image
	return &imageCopy, nil
}

func (r *Repository) ListImagesByProject(ctx context.Context, projectID uuid.UUID) ([]*portfolio.ProjectImage, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	imageIDs, exists := r.imagesByProject[projectID]
	if !exists {
		return []*portfolio.ProjectImage{}, nil
	}

	result := make([]*portfolio.ProjectImage, 0, len(imageIDs))
	for _, imageID := range imageIDs {
		if image, exists := r.images[imageID]; exists {
			imageCopy := *image
			result = append(result, &imageCopy)
		}
	}

	// Gallery order: display order ascending, attach order as tiebreak (the
	// per-project id list preserves it).
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].DisplayOrder < result[j].DisplayOrder
	})

	return result, nil
}

func (r *Repository) UpdateImage(ctx context.Context, image *portfolio.ProjectImage) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.images[image.ID]; !exists {
		return portfolio.ErrImageNotFound
	}

	imageCopy := *image
	r.images[image.ID] = &imageCopy

	return nil
}

func (r *Repository) DeleteImage(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	image, exists := r.images[id]
	if !exists {
		return portfolio.ErrImageNotFound
	}

	delete(r.images, id)

	ids := r.imagesByProject[image.ProjectID]
	for i, imageID := range ids {
		if imageID == id {
			r.imagesByProject[image.ProjectID] = append(ids[:i], ids[i+1:]...)
			break
		}
	}

	return nil
}
