package portfolio_test

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/knearme/portfolio-service/pkg/portfolio"
	"github.com/knearme/portfolio-service/pkg/portfolio/repo/memory"
	memorystorage "github.com/knearme/portfolio-service/pkg/portfolio/storage/memory"
)

func TestServiceCreation(t *testing.T) {
	tests := []struct {
		name        string
		options     []portfolio.Option
		expectError bool
	}{
		{
			name:        "no options should fail",
			options:     []portfolio.Option{},
			expectError: true,
		},
		{
			name: "with repository should succeed",
			options: []portfolio.Option{
				portfolio.WithRepository(memory.New()),
			},
			expectError: false,
		},
		{
			name: "with repository and photo store should succeed",
			options: []portfolio.Option{
				portfolio.WithRepository(memory.New()),
				portfolio.WithPhotoStore("memory", memorystorage.New()),
			},
			expectError: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, err := portfolio.New(tt.options...)

			if tt.expectError {
				assert.Error(t, err)
				assert.Nil(t, svc)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, svc)
			}
		})
	}
}

func setupTestService(t *testing.T) portfolio.Service {
	t.Helper()

	svc, err := portfolio.New(
		portfolio.WithRepository(memory.New()),
		portfolio.WithPhotoStore("memory", memorystorage.New()),
		portfolio.WithDefaultPhotoStore("memory"),
	)
	require.NoError(t, err)
	require.NotNil(t, svc)

	return svc
}

func createTestBusiness(t *testing.T, svc portfolio.Service, tenantID uuid.UUID, name string) *portfolio.Business {
	t.Helper()

	business, err := svc.CreateBusiness(context.Background(), portfolio.CreateBusinessRequest{
		TenantID: tenantID,
		Name:     name,
		CitySlug: "denver-co",
		City:     "Denver",
	})
	require.NoError(t, err)

	return business
}

func createTestProject(t *testing.T, svc portfolio.Service, tenantID, businessID uuid.UUID, title, citySlug, projectType string) *portfolio.Project {
	t.Helper()

	project, err := svc.CreateProject(context.Background(), portfolio.CreateProjectRequest{
		TenantID:    tenantID,
		BusinessID:  businessID,
		Title:       title,
		CitySlug:    citySlug,
		ProjectType: projectType,
	})
	require.NoError(t, err)

	return project
}

func TestBusinessLifecycle(t *testing.T) {
	svc := setupTestService(t)
	ctx := context.Background()
	tenantID := uuid.New()

	t.Run("create generates slug", func(t *testing.T) {
		business := createTestBusiness(t, svc, tenantID, "Smith & Sons Chimney")
		assert.Equal(t, "smith-sons-chimney", business.Slug)
		assert.NotEqual(t, uuid.Nil, business.ID)
	})

	t.Run("slug collision appends suffix", func(t *testing.T) {
		first := createTestBusiness(t, svc, tenantID, "Acme Roofing")
		second := createTestBusiness(t, svc, tenantID, "Acme Roofing")

		assert.Equal(t, "acme-roofing", first.Slug)
		assert.NotEqual(t, first.Slug, second.Slug)
		assert.True(t, strings.HasPrefix(second.Slug, "acme-roofing-"))
	})

	t.Run("get by slug", func(t *testing.T) {
		business := createTestBusiness(t, svc, tenantID, "Lookup Masonry")

		found, err := svc.GetBusinessBySlug(ctx, tenantID, business.Slug)
		require.NoError(t, err)
		assert.Equal(t, business.ID, found.ID)
	})

	t.Run("delete hides business", func(t *testing.T) {
		business := createTestBusiness(t, svc, tenantID, "Gone Gutters")

		require.NoError(t, svc.DeleteBusiness(ctx, business.ID))

		_, err := svc.GetBusiness(ctx, business.ID)
		assert.ErrorIs(t, err, portfolio.ErrBusinessNotFound)
	})

	t.Run("get missing business", func(t *testing.T) {
		_, err := svc.GetBusiness(ctx, uuid.New())
		assert.ErrorIs(t, err, portfolio.ErrBusinessNotFound)
	})
}

func TestNearestBusinessesService(t *testing.T) {
	svc := setupTestService(t)
	ctx := context.Background()
	tenantID := uuid.New()

	addGeocoded := func(name string, lat, lng float64) *portfolio.Business {
		business, err := svc.CreateBusiness(ctx, portfolio.CreateBusinessRequest{
			TenantID:  tenantID,
			Name:      name,
			Latitude:  &lat,
			Longitude: &lng,
		})
		require.NoError(t, err)
		return business
	}

	denver := addGeocoded("Denver Roofing", 39.7392, -104.9903)
	boulder := addGeocoded("Boulder Masonry", 40.0150, -105.2705)

	// not geocoded, should never be returned
	_ = createTestBusiness(t, svc, tenantID, "No Address Plumbing")

	nearest, err := svc.NearestBusinesses(ctx, tenantID, 39.75, -105.0, 10)
	require.NoError(t, err)
	require.Len(t, nearest, 2)
	assert.Equal(t, denver.ID, nearest[0].Business.ID)
	assert.Equal(t, boulder.ID, nearest[1].Business.ID)
}

func TestNearestBusinessesNoneGeocoded(t *testing.T) {
	svc := setupTestService(t)
	ctx := context.Background()
	tenantID := uuid.New()

	_ = createTestBusiness(t, svc, tenantID, "No Address Plumbing")

	_, err := svc.NearestBusinesses(ctx, tenantID, 39.75, -105.0, 10)
	assert.ErrorIs(t, err, portfolio.ErrNotGeocoded)
}

func TestProjectLifecycle(t *testing.T) {
	svc := setupTestService(t)
	ctx := context.Background()
	tenantID := uuid.New()
	business := createTestBusiness(t, svc, tenantID, "Lifecycle Contracting")

	t.Run("create starts as draft", func(t *testing.T) {
		project := createTestProject(t, svc, tenantID, business.ID, "Brick Repointing", "denver-co", "masonry")
		assert.Equal(t, string(portfolio.ProjectStatusDraft), project.Status)
		assert.Equal(t, "brick-repointing", project.Slug)
		assert.Nil(t, project.PublishedAt)
	})

	t.Run("publish stamps published_at", func(t *testing.T) {
		project := createTestProject(t, svc, tenantID, business.ID, "Flue Liner Install", "denver-co", "chimney-repair")

		published, err := svc.PublishProject(ctx, project.ID)
		require.NoError(t, err)
		assert.Equal(t, string(portfolio.ProjectStatusPublished), published.Status)
		require.NotNil(t, published.PublishedAt)
	})

	t.Run("publish twice rejected", func(t *testing.T) {
		project := createTestProject(t, svc, tenantID, business.ID, "Crown Rebuild", "denver-co", "chimney-repair")

		_, err := svc.PublishProject(ctx, project.ID)
		require.NoError(t, err)

		_, err = svc.PublishProject(ctx, project.ID)
		assert.ErrorIs(t, err, portfolio.ErrInvalidStatusTransition)
	})

	t.Run("archive then republish", func(t *testing.T) {
		project := createTestProject(t, svc, tenantID, business.ID, "Cap Replacement", "denver-co", "chimney-repair")

		_, err := svc.PublishProject(ctx, project.ID)
		require.NoError(t, err)

		archived, err := svc.ArchiveProject(ctx, project.ID)
		require.NoError(t, err)
		assert.Equal(t, string(portfolio.ProjectStatusArchived), archived.Status)

		republished, err := svc.PublishProject(ctx, project.ID)
		require.NoError(t, err)
		assert.Equal(t, string(portfolio.ProjectStatusPublished), republished.Status)
	})

	t.Run("archive twice rejected", func(t *testing.T) {
		project := createTestProject(t, svc, tenantID, business.ID, "Tuckpointing", "denver-co", "masonry")

		_, err := svc.ArchiveProject(ctx, project.ID)
		require.NoError(t, err)

		_, err = svc.ArchiveProject(ctx, project.ID)
		assert.ErrorIs(t, err, portfolio.ErrInvalidStatusTransition)
	})

	t.Run("update mutable fields", func(t *testing.T) {
		project := createTestProject(t, svc, tenantID, business.ID, "Old Title", "denver-co", "masonry")

		project.Title = "New Title"
		project.Summary = "Rebuilt the south wall"
		require.NoError(t, svc.UpdateProject(ctx, portfolio.UpdateProjectRequest{Project: project}))

		updated, err := svc.GetProject(ctx, project.ID)
		require.NoError(t, err)
		assert.Equal(t, "New Title", updated.Title)
		assert.Equal(t, "Rebuilt the south wall", updated.Summary)
	})

	t.Run("delete hides project", func(t *testing.T) {
		project := createTestProject(t, svc, tenantID, business.ID, "Short Lived", "denver-co", "masonry")

		require.NoError(t, svc.DeleteProject(ctx, project.ID))

		_, err := svc.GetProject(ctx, project.ID)
		assert.ErrorIs(t, err, portfolio.ErrProjectNotFound)
	})

	t.Run("list filters by status", func(t *testing.T) {
		status := string(portfolio.ProjectStatusPublished)
		projects, err := svc.ListProjects(ctx, portfolio.ProjectListFilters{
			TenantID: &tenantID,
			Status:   &status,
		})
		require.NoError(t, err)
		for _, p := range projects {
			assert.Equal(t, status, p.Status)
		}
	})
}

func TestListRelatedProjects(t *testing.T) {
	svc := setupTestService(t)
	ctx := context.Background()
	tenantID := uuid.New()

	owner := createTestBusiness(t, svc, tenantID, "Hearth & Home")
	rival := createTestBusiness(t, svc, tenantID, "Rival Chimney Co")

	publish := func(p *portfolio.Project) *portfolio.Project {
		published, err := svc.PublishProject(ctx, p.ID)
		require.NoError(t, err)
		return published
	}

	current := publish(createTestProject(t, svc, tenantID, owner.ID, "Current Job", "denver-co", "chimney-repair"))

	sameOwner := publish(createTestProject(t, svc, tenantID, owner.ID, "Owner Roof", "boulder-co", "roofing"))
	sameType := publish(createTestProject(t, svc, tenantID, rival.ID, "Boulder Chimney", "boulder-co", "chimney-repair"))
	sameCity := publish(createTestProject(t, svc, tenantID, rival.ID, "Denver Roof", "denver-co", "roofing"))

	// draft never appears in the rail
	_ = createTestProject(t, svc, tenantID, rival.ID, "Unpublished Chimney", "boulder-co", "chimney-repair")

	t.Run("rail is diverse and shaped", func(t *testing.T) {
		related, err := svc.ListRelatedProjects(ctx, current.ID, 6)
		require.NoError(t, err)
		require.Len(t, related, 3)

		assert.Equal(t, sameOwner.ID, related[0].ID)
		assert.Equal(t, sameType.ID, related[1].ID)
		assert.Equal(t, sameCity.ID, related[2].ID)

		// business names resolved for display
		assert.Equal(t, "Hearth & Home", related[0].BusinessName)
		assert.Equal(t, "Rival Chimney Co", related[1].BusinessName)
	})

	t.Run("current project excluded", func(t *testing.T) {
		related, err := svc.ListRelatedProjects(ctx, current.ID, 6)
		require.NoError(t, err)
		for _, r := range related {
			assert.NotEqual(t, current.ID, r.ID)
		}
	})

	t.Run("limit zero returns empty rail", func(t *testing.T) {
		related, err := svc.ListRelatedProjects(ctx, current.ID, 0)
		require.NoError(t, err)
		assert.Empty(t, related)
	})

	t.Run("cover image resolved from display order", func(t *testing.T) {
		second := 1
		first := 0
		img1, err := svc.AddImage(ctx, portfolio.AddImageRequest{
			ProjectID:    sameOwner.ID,
			FileName:     "after.jpg",
			MimeType:     "image/jpeg",
			DisplayOrder: &second,
		})
		require.NoError(t, err)
		img0, err := svc.AddImage(ctx, portfolio.AddImageRequest{
			ProjectID:    sameOwner.ID,
			FileName:     "before.jpg",
			MimeType:     "image/jpeg",
			DisplayOrder: &first,
		})
		require.NoError(t, err)
		_ = img1

		related, err := svc.ListRelatedProjects(ctx, current.ID, 6)
		require.NoError(t, err)
		require.NotEmpty(t, related)
		require.NotNil(t, related[0].CoverImage)
		assert.Equal(t, img0.ID, related[0].CoverImage.ID)
	})

	t.Run("missing project", func(t *testing.T) {
		_, err := svc.ListRelatedProjects(ctx, uuid.New(), 6)
		assert.ErrorIs(t, err, portfolio.ErrProjectNotFound)
	})
}

func TestImageLifecycle(t *testing.T) {
	svc := setupTestService(t)
	ctx := context.Background()
	tenantID := uuid.New()
	business := createTestBusiness(t, svc, tenantID, "Gallery Builders")
	project := createTestProject(t, svc, tenantID, business.ID, "Gallery Job", "denver-co", "masonry")

	t.Run("display order appends by default", func(t *testing.T) {
		first, err := svc.AddImage(ctx, portfolio.AddImageRequest{
			ProjectID: project.ID,
			FileName:  "one.jpg",
			MimeType:  "image/jpeg",
		})
		require.NoError(t, err)
		assert.Equal(t, 0, first.DisplayOrder)

		second, err := svc.AddImage(ctx, portfolio.AddImageRequest{
			ProjectID: project.ID,
			FileName:  "two.jpg",
			MimeType:  "image/jpeg",
		})
		require.NoError(t, err)
		assert.Equal(t, 1, second.DisplayOrder)
	})

	t.Run("upload and download round trip", func(t *testing.T) {
		image, err := svc.AddImage(ctx, portfolio.AddImageRequest{
			ProjectID: project.ID,
			FileName:  "photo.jpg",
			MimeType:  "image/jpeg",
		})
		require.NoError(t, err)

		payload := "fake jpeg bytes"
		require.NoError(t, svc.UploadImage(ctx, image.ID, strings.NewReader(payload)))

		rc, err := svc.DownloadImage(ctx, image.ID)
		require.NoError(t, err)
		defer rc.Close()

		data, err := io.ReadAll(rc)
		require.NoError(t, err)
		assert.Equal(t, payload, string(data))
	})

	t.Run("reorder images", func(t *testing.T) {
		images, err := svc.ListImages(ctx, project.ID)
		require.NoError(t, err)
		require.GreaterOrEqual(t, len(images), 3)

		reversed := make([]uuid.UUID, 0, len(images))
		for i := len(images) - 1; i >= 0; i-- {
			reversed = append(reversed, images[i].ID)
		}
		require.NoError(t, svc.ReorderImages(ctx, project.ID, reversed))

		reordered, err := svc.ListImages(ctx, project.ID)
		require.NoError(t, err)
		require.Len(t, reordered, len(images))
		for i, id := range reversed {
			assert.Equal(t, id, reordered[i].ID)
			assert.Equal(t, i, reordered[i].DisplayOrder)
		}
	})

	t.Run("delete image removes record", func(t *testing.T) {
		image, err := svc.AddImage(ctx, portfolio.AddImageRequest{
			ProjectID: project.ID,
			FileName:  "doomed.jpg",
			MimeType:  "image/jpeg",
		})
		require.NoError(t, err)
		require.NoError(t, svc.UploadImage(ctx, image.ID, strings.NewReader("bytes")))

		require.NoError(t, svc.DeleteImage(ctx, image.ID))

		_, err = svc.GetImage(ctx, image.ID)
		assert.ErrorIs(t, err, portfolio.ErrImageNotFound)
	})

	t.Run("unknown photo store rejected", func(t *testing.T) {
		_, err := svc.AddImage(ctx, portfolio.AddImageRequest{
			ProjectID: project.ID,
			FileName:  "photo.jpg",
			StoreName: "nope",
		})
		assert.ErrorIs(t, err, portfolio.ErrPhotoStoreNotFound)
	})
}

func TestUploadImageMimeType(t *testing.T) {
	store := memorystorage.New()
	svc, err := portfolio.New(
		portfolio.WithRepository(memory.New()),
		portfolio.WithPhotoStore("memory", store),
		portfolio.WithDefaultPhotoStore("memory"),
	)
	require.NoError(t, err)

	ctx := context.Background()
	tenantID := uuid.New()
	business := createTestBusiness(t, svc, tenantID, "Mime Masonry")
	project := createTestProject(t, svc, tenantID, business.ID, "Patio Build", "denver-co", "masonry")

	image, err := svc.AddImage(ctx, portfolio.AddImageRequest{
		ProjectID: project.ID,
		FileName:  "patio.jpg",
		MimeType:  "image/jpeg",
	})
	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", image.MimeType)

	require.NoError(t, svc.UploadImage(ctx, image.ID, strings.NewReader("jpeg bytes")))

	meta, err := store.GetPhotoMeta(ctx, image.StoragePath)
	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", meta.ContentType)

	fetched, err := svc.GetImage(ctx, image.ID)
	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", fetched.MimeType)
}
