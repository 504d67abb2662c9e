package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/knearme/portfolio-service/pkg/portfolio"
)

// DBTX is an interface that allows us to use either a database connection or a transaction
type DBTX interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

// Repository implements portfolio.Repository using PostgreSQL
type Repository struct {
	db DBTX
}

// New creates a new PostgreSQL repository
func New(db DBTX) portfolio.Repository {
	return &Repository{db: db}
}

// NewWithPool creates a new PostgreSQL repository with connection pool
func NewWithPool(pool *pgxpool.Pool) portfolio.Repository {
	return &Repository{db: pool}
}

// Error handling helper
func (r *Repository) handlePostgresError(operation string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			if strings.Contains(pgErr.ConstraintName, "slug") {
				return portfolio.ErrSlugConflict
			}
			return fmt.Errorf("duplicate entry")
		case "23503": // foreign_key_violation
			return fmt.Errorf("referenced record not found")
		case "23502": // not_null_violation
			return fmt.Errorf("required field %s is missing", pgErr.ColumnName)
		case "42P01": // undefined_table
			return fmt.Errorf("table does not exist - database migration required")
		default:
			return fmt.Errorf("database error in %s: %s (code: %s)", operation, pgErr.Message, pgErr.Code)
		}
	}

	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("record not found")
	}

	return fmt.Errorf("database error in %s: %w", operation, err)
}

// Business operations

const businessColumns = `id, tenant_id, name, slug, city_slug, city, phone, website,
               latitude, longitude, created_at, updated_at`

func scanBusiness(row pgx.Row) (*portfolio.Business, error) {
	var b portfolio.Business
	err := row.Scan(
		&b.ID, &b.TenantID, &b.Name, &b.Slug, &b.CitySlug, &b.City,
		&b.Phone, &b.Website, &b.Latitude, &b.Longitude, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *Repository) CreateBusiness(ctx context.Context, business *portfolio.Business) error {
	query := `
		INSERT INTO business (
			id, tenant_id, name, slug, city_slug, city, phone, website,
			latitude, longitude, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	_, err := r.db.Exec(ctx, query,
		business.ID, business.TenantID, business.Name, business.Slug,
		business.CitySlug, business.City, business.Phone, business.Website,
		business.Latitude, business.Longitude, business.CreatedAt, business.UpdatedAt)

	if err != nil {
		return r.handlePostgresError("create business", err)
	}

	return nil
}

func (r *Repository) GetBusiness(ctx context.Context, id uuid.UUID) (*portfolio.Business, error) {
	query := `SELECT ` + businessColumns + `
        FROM business WHERE id = $1 AND deleted_at IS NULL`

	business, err := scanBusiness(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, portfolio.ErrBusinessNotFound
		}
		return nil, err
	}

	return business, nil
}

func (r *Repository) GetBusinessBySlug(ctx context.Context, tenantID uuid.UUID, slug string) (*portfolio.Business, error) {
	query := `SELECT ` + businessColumns + `
        FROM business WHERE tenant_id = $1 AND slug = $2 AND deleted_at IS NULL`

	business, err := scanBusiness(r.db.QueryRow(ctx, query, tenantID, slug))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, portfolio.ErrBusinessNotFound
		}
		return nil, err
	}

	return business, nil
}

func (r *Repository) UpdateBusiness(ctx context.Context, business *portfolio.Business) error {
	query := `
		UPDATE business SET
			name = $2, slug = $3, city_slug = $4, city = $5, phone = $6,
			website = $7, latitude = $8, longitude = $9, updated_at = $10
		WHERE id = $1 AND deleted_at IS NULL`

	tag, err := r.db.Exec(ctx, query,
		business.ID, business.Name, business.Slug, business.CitySlug,
		business.City, business.Phone, business.Website,
		business.Latitude, business.Longitude, business.UpdatedAt)
	if err != nil {
		return r.handlePostgresError("update business", err)
	}
	if tag.RowsAffected() == 0 {
		return portfolio.ErrBusinessNotFound
	}

	return nil
}

func (r *Repository) DeleteBusiness(ctx context.Context, id uuid.UUID) error {
	// Soft delete
	query := `UPDATE business SET deleted_at = NOW() WHERE id = $1 AND deleted_at IS NULL`
	tag, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return r.handlePostgresError("delete business", err)
	}
	if tag.RowsAffected() == 0 {
		return portfolio.ErrBusinessNotFound
	}
	return nil
}

func (r *Repository) ListBusinesses(ctx context.Context, tenantID uuid.UUID) ([]*portfolio.Business, error) {
	query := `SELECT ` + businessColumns + `
        FROM business WHERE tenant_id = $1 AND deleted_at IS NULL
        ORDER BY name ASC`

	return r.queryBusinesses(ctx, query, tenantID)
}

func (r *Repository) ListGeocodedBusinesses(ctx context.Context, tenantID uuid.UUID) ([]*portfolio.Business, error) {
	query := `SELECT ` + businessColumns + `
        FROM business
        WHERE tenant_id = $1 AND deleted_at IS NULL
          AND latitude IS NOT NULL AND longitude IS NOT NULL
        ORDER BY name ASC`

	return r.queryBusinesses(ctx, query, tenantID)
}

func (r *Repository) queryBusinesses(ctx context.Context, query string, args ...interface{}) ([]*portfolio.Business, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var businesses []*portfolio.Business
	for rows.Next() {
		business, err := scanBusiness(rows)
		if err != nil {
			return nil, err
		}
		businesses = append(businesses, business)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return businesses, nil
}

// Project operations

const projectColumns = `id, tenant_id, business_id, title, slug, summary, description,
               city_slug, city, project_type, project_type_label, status,
               published_at, created_at, updated_at`

func scanProject(row pgx.Row) (*portfolio.Project, error) {
	var p portfolio.Project
	err := row.Scan(
		&p.ID, &p.TenantID, &p.BusinessID, &p.Title, &p.Slug, &p.Summary,
		&p.Description, &p.CitySlug, &p.City, &p.ProjectType,
		&p.ProjectTypeLabel, &p.Status, &p.PublishedAt, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *Repository) CreateProject(ctx context.Context, project *portfolio.Project) error {
	query := `
		INSERT INTO project (
			id, tenant_id, business_id, title, slug, summary, description,
			city_slug, city, project_type, project_type_label, status,
			published_at, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`

	_, err := r.db.Exec(ctx, query,
		project.ID, project.TenantID, project.BusinessID, project.Title,
		project.Slug, project.Summary, project.Description, project.CitySlug,
		project.City, project.ProjectType, project.ProjectTypeLabel,
		project.Status, project.PublishedAt, project.CreatedAt, project.UpdatedAt)

	if err != nil {
		return r.handlePostgresError("create project", err)
	}

	return nil
}

func (r *Repository) GetProject(ctx context.Context, id uuid.UUID) (*portfolio.Project, error) {
	query := `SELECT ` + projectColumns + `
        FROM project WHERE id = $1 AND deleted_at IS NULL`

	project, err := scanProject(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, portfolio.ErrProjectNotFound
		}
		return nil, err
	}

	return project, nil
}

func (r *Repository) GetProjectBySlug(ctx context.Context, tenantID uuid.UUID, slug string) (*portfolio.Project, error) {
	query := `SELECT ` + projectColumns + `
        FROM project WHERE tenant_id = $1 AND slug = $2 AND deleted_at IS NULL`

	project, err := scanProject(r.db.QueryRow(ctx, query, tenantID, slug))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, portfolio.ErrProjectNotFound
		}
		return nil, err
	}

	return project, nil
}

func (r *Repository) UpdateProject(ctx context.Context, project *portfolio.Project) error {
	query := `
		UPDATE project SET
			business_id = $2, title = $3, slug = $4, summary = $5,
			description = $6, city_slug = $7, city = $8, project_type = $9,
			project_type_label = $10, status = $11, published_at = $12,
			updated_at = $13
		WHERE id = $1 AND deleted_at IS NULL`

	tag, err := r.db.Exec(ctx, query,
		project.ID, project.BusinessID, project.Title, project.Slug,
		project.Summary, project.Description, project.CitySlug, project.City,
		project.ProjectType, project.ProjectTypeLabel, project.Status,
		project.PublishedAt, project.UpdatedAt)
	if err != nil {
		return r.handlePostgresError("update project", err)
	}
	if tag.RowsAffected() == 0 {
		return portfolio.ErrProjectNotFound
	}

	return nil
}

func (r *Repository) DeleteProject(ctx context.Context, id uuid.UUID) error {
	// Soft delete: keep the row for slug history, hide it from every query
	query := `UPDATE project SET deleted_at = NOW() WHERE id = $1 AND deleted_at IS NULL`
	tag, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return r.handlePostgresError("delete project", err)
	}
	if tag.RowsAffected() == 0 {
		return portfolio.ErrProjectNotFound
	}
	return nil
}

func (r *Repository) ListProjects(ctx context.Context, filters portfolio.ProjectListFilters) ([]*portfolio.Project, error) {
	query := `SELECT ` + projectColumns + `
        FROM project WHERE deleted_at IS NULL`

	args := []interface{}{}
	paramCount := 1

	addFilter := func(clause string, value interface{}) {
		query += fmt.Sprintf(" AND "+clause, paramCount)
		args = append(args, value)
		paramCount++
	}

	if filters.TenantID != nil {
		addFilter("tenant_id = $%d", *filters.TenantID)
	}
	if filters.BusinessID != nil {
		addFilter("business_id = $%d", *filters.BusinessID)
	}
	if filters.CitySlug != nil {
		addFilter("city_slug = $%d", *filters.CitySlug)
	}
	if filters.ProjectType != nil {
		addFilter("project_type = $%d", *filters.ProjectType)
	}
	if filters.Status != nil {
		addFilter("status = $%d", *filters.Status)
	}

	query += " ORDER BY COALESCE(published_at, created_at) DESC, id DESC"

	if filters.Limit != nil && *filters.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", paramCount)
		args = append(args, *filters.Limit)
		paramCount++
	}
	if filters.Offset != nil && *filters.Offset > 0 {
		query += fmt.Sprintf(" OFFSET $%d", paramCount)
		args = append(args, *filters.Offset)
	}

	return r.queryProjects(ctx, query, args...)
}

// ListRelatedCandidates issues the broad related-pool query: published
// projects in the tenant matching any of the three relationship predicates
// against the current project, excluding the current project itself, newest
// first, capped. Bucketing happens in portfolio.SelectRelated, not in SQL.
func (r *Repository) ListRelatedCandidates(ctx context.Context, params portfolio.RelatedCandidatesParams) ([]*portfolio.Project, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = portfolio.RelatedCandidatePoolSize
	}

	query := `SELECT ` + projectColumns + `
        FROM project
        WHERE tenant_id = $1
          AND id <> $2
          AND status = $3
          AND deleted_at IS NULL
          AND (business_id = $4 OR project_type = $5 OR city_slug = $6)
        ORDER BY published_at DESC NULLS LAST, id DESC
        LIMIT $7`

	return r.queryProjects(ctx, query,
		params.TenantID, params.Current.ID, string(portfolio.ProjectStatusPublished),
		params.Current.BusinessID, params.Current.ProjectType, params.Current.CitySlug,
		limit)
}

func (r *Repository) queryProjects(ctx context.Context, query string, args ...interface{}) ([]*portfolio.Project, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var projects []*portfolio.Project
	for rows.Next() {
		project, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, project)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return projects, nil
}

// Image operations

const imageColumns = `id, project_id, store_name, storage_path, mime_type, alt_text,
               display_order, created_at, updated_at`

func scanImage(row pgx.Row) (*portfolio.ProjectImage, error) {
	var img portfolio.ProjectImage
	err := row.Scan(
		&img.ID, &img.ProjectID, &img.StoreName, &img.StoragePath, &img.MimeType,
		&img.AltText, &img.DisplayOrder, &img.CreatedAt, &img.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &img, nil
}

func (r *Repository) CreateImage(ctx context.Context, image *portfolio.ProjectImage) error {
	query := `
		INSERT INTO project_image (
			id, project_id, store_name, storage_path, mime_type, alt_text,
			display_order, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := r.db.Exec(ctx, query,
		image.ID, image.ProjectID, image.StoreName, image.StoragePath, image.MimeType,
		image.AltText, image.DisplayOrder, image.CreatedAt, image.UpdatedAt)

	if err != nil {
		return r.handlePostgresError("create image", err)
	}

	return nil
}

func (r *Repository) GetImage(ctx context.Context, id uuid.UUID) (*portfolio.ProjectImage, error) {
	query := `SELECT ` + imageColumns + `
        FROM project_image WHERE id = $1`

	image, err := scanImage(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, portfolio.ErrImageNotFound
		}
		return nil, err
	}

	return image, nil
}

func (r *Repository) ListImagesByProject(ctx context.Context, projectID uuid.UUID) ([]*portfolio.ProjectImage, error) {
	query := `SELECT ` + imageColumns + `
        FROM project_image WHERE project_id = $1
        ORDER BY display_order ASC, created_at ASC, id ASC`

	rows, err := r.db.Query(ctx, query, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	images := []*portfolio.ProjectImage{}
	for rows.Next() {
		image, err := scanImage(rows)
		if err != nil {
			return nil, err
		}
		images = append(images, image)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return images, nil
}

func (r *Repository) UpdateImage(ctx context.Context, image *portfolio.ProjectImage) error {
	query := `
		UPDATE project_image SET
			alt_text = $2, display_order = $3, updated_at = $4
		WHERE id = $1`

	tag, err := r.db.Exec(ctx, query,
		image.ID, image.AltText, image.DisplayOrder, image.UpdatedAt)
	if err != nil {
		return r.handlePostgresError("update image", err)
	}
	if tag.RowsAffected() == 0 {
		return portfolio.ErrImageNotFound
	}

	return nil
}

func (r *Repository) DeleteImage(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM project_image WHERE id = $1`, id)
	if err != nil {
		return r.handlePostgresError("delete image", err)
	}
	if tag.RowsAffected() == 0 {
		return portfolio.ErrImageNotFound
	}
	return nil
}
