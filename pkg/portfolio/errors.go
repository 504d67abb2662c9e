package portfolio

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Error types
var (
	// ErrProjectNotFound indicates a project was not found
	ErrProjectNotFound = errors.New("project not found")

	// ErrBusinessNotFound indicates a business was not found
	ErrBusinessNotFound = errors.New("business not found")

	// ErrImageNotFound indicates a project image was not found
	ErrImageNotFound = errors.New("project image not found")

	// ErrPhotoStoreNotFound indicates a photo storage backend was not found
	ErrPhotoStoreNotFound = errors.New("photo store not found")

	// ErrInvalidProjectStatus indicates an unknown project status value
	ErrInvalidProjectStatus = errors.New("invalid project status")

	// ErrInvalidStatusTransition indicates a lifecycle transition that is not allowed
	ErrInvalidStatusTransition = errors.New("invalid status transition")

	// ErrSlugConflict indicates a slug is already taken within the tenant
	ErrSlugConflict = errors.New("slug already in use")

	// ErrNotGeocoded indicates a business has no coordinates for distance queries
	ErrNotGeocoded = errors.New("business has no coordinates")
)

// ProjectError represents an error related to project operations
type ProjectError struct {
	ProjectID uuid.UUID
	Op        string
	Err       error
}

func (e *ProjectError) Error() string {
	return fmt.Sprintf("project operation %s failed for project %s: %v", e.Op, e.ProjectID, e.Err)
}

func (e *ProjectError) Unwrap() error {
	return e.Err
}

// BusinessError represents an error related to business operations
type BusinessError struct {
	BusinessID uuid.UUID
	Op         string
	Err        error
}

func (e *BusinessError) Error() string {
	return fmt.Sprintf("business operation %s failed for business %s: %v", e.Op, e.BusinessID, e.Err)
}

func (e *BusinessError) Unwrap() error {
	return e.Err
}

// PhotoStoreError represents an error related to image storage operations
type PhotoStoreError struct {
	Backend string
	Key     string
	Op      string
	Err     error
}

func (e *PhotoStoreError) Error() string {
	return fmt.Sprintf("photo store operation %s failed for key %s on backend %s: %v", e.Op, e.Key, e.Backend, e.Err)
}

func (e *PhotoStoreError) Unwrap() error {
	return e.Err
}
