package memory_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/knearme/portfolio-service/pkg/portfolio"
	"github.com/knearme/portfolio-service/pkg/portfolio/repo/memory"
)

func newBusiness(tenantID uuid.UUID, name, slug string) *portfolio.Business {
	now := time.Now().UTC()
	return &portfolio.Business{
		ID:        uuid.New(),
		TenantID:  tenantID,
		Name:      name,
		Slug:      slug,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func newProject(tenantID, businessID uuid.UUID, slug, citySlug, projectType string, status portfolio.ProjectStatus) *portfolio.Project {
	now := time.Now().UTC()
	p := &portfolio.Project{
		ID:          uuid.New(),
		TenantID:    tenantID,
		BusinessID:  businessID,
		Title:       slug,
		Slug:        slug,
		CitySlug:    citySlug,
		ProjectType: projectType,
		Status:      string(status),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if status == portfolio.ProjectStatusPublished {
		p.PublishedAt = &now
	}
	return p
}

func TestBusinessRepository(t *testing.T) {
	repo := memory.New()
	ctx := context.Background()
	tenantID := uuid.New()

	t.Run("create and get", func(t *testing.T) {
		business := newBusiness(tenantID, "Acme Roofing", "acme-roofing")
		require.NoError(t, repo.CreateBusiness(ctx, business))

		got, err := repo.GetBusiness(ctx, business.ID)
		require.NoError(t, err)
		assert.Equal(t, business.Name, got.Name)

		bySlug, err := repo.GetBusinessBySlug(ctx, tenantID, "acme-roofing")
		require.NoError(t, err)
		assert.Equal(t, business.ID, bySlug.ID)
	})

	t.Run("stored copy is isolated", func(t *testing.T) {
		business := newBusiness(tenantID, "Copy Co", "copy-co")
		require.NoError(t, repo.CreateBusiness(ctx, business))

		business.Name = "Mutated"

		got, err := repo.GetBusiness(ctx, business.ID)
		require.NoError(t, err)
		assert.Equal(t, "Copy Co", got.Name)
	})

	t.Run("update", func(t *testing.T) {
		business := newBusiness(tenantID, "Old Name", "old-name")
		require.NoError(t, repo.CreateBusiness(ctx, business))

		business.Name = "New Name"
		require.NoError(t, repo.UpdateBusiness(ctx, business))

		got, err := repo.GetBusiness(ctx, business.ID)
		require.NoError(t, err)
		assert.Equal(t, "New Name", got.Name)
	})

	t.Run("soft delete hides and frees slug lookup", func(t *testing.T) {
		business := newBusiness(tenantID, "Doomed", "doomed")
		require.NoError(t, repo.CreateBusiness(ctx, business))
		require.NoError(t, repo.DeleteBusiness(ctx, business.ID))

		_, err := repo.GetBusiness(ctx, business.ID)
		assert.ErrorIs(t, err, portfolio.ErrBusinessNotFound)

		_, err = repo.GetBusinessBySlug(ctx, tenantID, "doomed")
		assert.ErrorIs(t, err, portfolio.ErrBusinessNotFound)
	})

	t.Run("delete twice reports not found", func(t *testing.T) {
		business := newBusiness(tenantID, "Twice Gone", "twice-gone")
		require.NoError(t, repo.CreateBusiness(ctx, business))
		require.NoError(t, repo.DeleteBusiness(ctx, business.ID))

		err := repo.DeleteBusiness(ctx, business.ID)
		assert.ErrorIs(t, err, portfolio.ErrBusinessNotFound)
	})

	t.Run("missing business", func(t *testing.T) {
		_, err := repo.GetBusiness(ctx, uuid.New())
		assert.ErrorIs(t, err, portfolio.ErrBusinessNotFound)
	})

	t.Run("geocoded listing skips unlocated", func(t *testing.T) {
		repo := memory.New()

		located := newBusiness(tenantID, "Located", "located")
		lat, lng := 39.7, -105.0
		located.Latitude = &lat
		located.Longitude = &lng
		require.NoError(t, repo.CreateBusiness(ctx, located))
		require.NoError(t, repo.CreateBusiness(ctx, newBusiness(tenantID, "Unlocated", "unlocated")))

		geocoded, err := repo.ListGeocodedBusinesses(ctx, tenantID)
		require.NoError(t, err)
		require.Len(t, geocoded, 1)
		assert.Equal(t, located.ID, geocoded[0].ID)
	})
}

func TestProjectRepository(t *testing.T) {
	repo := memory.New()
	ctx := context.Background()
	tenantID := uuid.New()
	businessID := uuid.New()

	t.Run("create and get", func(t *testing.T) {
		project := newProject(tenantID, businessID, "job-1", "denver-co", "masonry", portfolio.ProjectStatusDraft)
		require.NoError(t, repo.CreateProject(ctx, project))

		got, err := repo.GetProject(ctx, project.ID)
		require.NoError(t, err)
		assert.Equal(t, project.Slug, got.Slug)
	})

	t.Run("soft delete", func(t *testing.T) {
		project := newProject(tenantID, businessID, "job-gone", "denver-co", "masonry", portfolio.ProjectStatusDraft)
		require.NoError(t, repo.CreateProject(ctx, project))
		require.NoError(t, repo.DeleteProject(ctx, project.ID))

		_, err := repo.GetProject(ctx, project.ID)
		assert.ErrorIs(t, err, portfolio.ErrProjectNotFound)
	})

	t.Run("delete twice reports not found", func(t *testing.T) {
		project := newProject(tenantID, businessID, "job-twice", "denver-co", "masonry", portfolio.ProjectStatusDraft)
		require.NoError(t, repo.CreateProject(ctx, project))
		require.NoError(t, repo.DeleteProject(ctx, project.ID))

		err := repo.DeleteProject(ctx, project.ID)
		assert.ErrorIs(t, err, portfolio.ErrProjectNotFound)
	})

	t.Run("list filters", func(t *testing.T) {
		repo := memory.New()

		published := newProject(tenantID, businessID, "pub", "denver-co", "masonry", portfolio.ProjectStatusPublished)
		draft := newProject(tenantID, businessID, "draft", "denver-co", "masonry", portfolio.ProjectStatusDraft)
		otherCity := newProject(tenantID, businessID, "other", "boulder-co", "masonry", portfolio.ProjectStatusPublished)
		require.NoError(t, repo.CreateProject(ctx, published))
		require.NoError(t, repo.CreateProject(ctx, draft))
		require.NoError(t, repo.CreateProject(ctx, otherCity))

		status := string(portfolio.ProjectStatusPublished)
		city := "denver-co"
		result, err := repo.ListProjects(ctx, portfolio.ProjectListFilters{
			TenantID: &tenantID,
			Status:   &status,
			CitySlug: &city,
		})
		require.NoError(t, err)
		require.Len(t, result, 1)
		assert.Equal(t, published.ID, result[0].ID)
	})
}

func TestListRelatedCandidates(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	bizID := uuid.New()

	current := newProject(tenantID, bizID, "current", "denver-co", "chimney-repair", portfolio.ProjectStatusPublished)

	seed := func(t *testing.T, projects ...*portfolio.Project) portfolio.Repository {
		t.Helper()
		repo := memory.New()
		require.NoError(t, repo.CreateProject(ctx, current))
		for _, p := range projects {
			require.NoError(t, repo.CreateProject(ctx, p))
		}
		return repo
	}

	params := portfolio.RelatedCandidatesParams{
		TenantID: tenantID,
		Current:  portfolio.RefOf(current),
		Limit:    20,
	}

	t.Run("matches any of the three predicates", func(t *testing.T) {
		sameBiz := newProject(tenantID, bizID, "same-biz", "boulder-co", "roofing", portfolio.ProjectStatusPublished)
		sameType := newProject(tenantID, uuid.New(), "same-type", "boulder-co", "chimney-repair", portfolio.ProjectStatusPublished)
		sameCity := newProject(tenantID, uuid.New(), "same-city", "denver-co", "roofing", portfolio.ProjectStatusPublished)
		unrelated := newProject(tenantID, uuid.New(), "unrelated", "boulder-co", "roofing", portfolio.ProjectStatusPublished)

		repo := seed(t, sameBiz, sameType, sameCity, unrelated)

		candidates, err := repo.ListRelatedCandidates(ctx, params)
		require.NoError(t, err)

		ids := map[uuid.UUID]bool{}
		for _, c := range candidates {
			ids[c.ID] = true
		}
		assert.True(t, ids[sameBiz.ID])
		assert.True(t, ids[sameType.ID])
		assert.True(t, ids[sameCity.ID])
		assert.False(t, ids[unrelated.ID])
		assert.False(t, ids[current.ID], "current project must be excluded")
	})

	t.Run("only published candidates", func(t *testing.T) {
		draft := newProject(tenantID, bizID, "draft", "denver-co", "chimney-repair", portfolio.ProjectStatusDraft)
		archived := newProject(tenantID, bizID, "archived", "denver-co", "chimney-repair", portfolio.ProjectStatusArchived)

		repo := seed(t, draft, archived)

		candidates, err := repo.ListRelatedCandidates(ctx, params)
		require.NoError(t, err)
		assert.Empty(t, candidates)
	})

	t.Run("other tenants excluded", func(t *testing.T) {
		foreign := newProject(uuid.New(), bizID, "foreign", "denver-co", "chimney-repair", portfolio.ProjectStatusPublished)

		repo := seed(t, foreign)

		candidates, err := repo.ListRelatedCandidates(ctx, params)
		require.NoError(t, err)
		assert.Empty(t, candidates)
	})

	t.Run("newest first and capped", func(t *testing.T) {
		old := newProject(tenantID, bizID, "old", "boulder-co", "roofing", portfolio.ProjectStatusPublished)
		past := time.Now().UTC().Add(-24 * time.Hour)
		old.PublishedAt = &past

		recent := newProject(tenantID, bizID, "recent", "boulder-co", "roofing", portfolio.ProjectStatusPublished)

		repo := seed(t, old, recent)

		candidates, err := repo.ListRelatedCandidates(ctx, params)
		require.NoError(t, err)
		require.Len(t, candidates, 2)
		assert.Equal(t, recent.ID, candidates[0].ID)
		assert.Equal(t, old.ID, candidates[1].ID)

		capped, err := repo.ListRelatedCandidates(ctx, portfolio.RelatedCandidatesParams{
			TenantID: tenantID,
			Current:  portfolio.RefOf(current),
			Limit:    1,
		})
		require.NoError(t, err)
		require.Len(t, capped, 1)
		assert.Equal(t, recent.ID, capped[0].ID)
	})
}

func TestImageRepository(t *testing.T) {
	repo := memory.New()
	ctx := context.Background()
	tenantID := uuid.New()

	project := newProject(tenantID, uuid.New(), "gallery", "denver-co", "masonry", portfolio.ProjectStatusPublished)
	require.NoError(t, repo.CreateProject(ctx, project))
	projectID := project.ID

	addImage := func(t *testing.T, order int) *portfolio.ProjectImage {
		t.Helper()
		now := time.Now().UTC()
		img := &portfolio.ProjectImage{
			ID:           uuid.New(),
			ProjectID:    projectID,
			StoreName:    "memory",
			StoragePath:  "projects/p/i.jpg",
			DisplayOrder: order,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		require.NoError(t, repo.CreateImage(ctx, img))
		return img
	}

	t.Run("listed in gallery order", func(t *testing.T) {
		third := addImage(t, 2)
		first := addImage(t, 0)
		second := addImage(t, 1)

		images, err := repo.ListImagesByProject(ctx, projectID)
		require.NoError(t, err)
		require.Len(t, images, 3)
		assert.Equal(t, first.ID, images[0].ID)
		assert.Equal(t, second.ID, images[1].ID)
		assert.Equal(t, third.ID, images[2].ID)
	})

	t.Run("update display order", func(t *testing.T) {
		img := addImage(t, 10)
		img.DisplayOrder = 5
		require.NoError(t, repo.UpdateImage(ctx, img))

		got, err := repo.GetImage(ctx, img.ID)
		require.NoError(t, err)
		assert.Equal(t, 5, got.DisplayOrder)
	})

	t.Run("delete", func(t *testing.T) {
		img := addImage(t, 20)
		require.NoError(t, repo.DeleteImage(ctx, img.ID))

		_, err := repo.GetImage(ctx, img.ID)
		assert.ErrorIs(t, err, portfolio.ErrImageNotFound)
	})

	t.Run("missing image", func(t *testing.T) {
		_, err := repo.GetImage(ctx, uuid.New())
		assert.ErrorIs(t, err, portfolio.ErrImageNotFound)
	})
}
