package api

import (
	"errors"
	"net/http"

	"github.com/knearme/portfolio-service/pkg/portfolio"
)

// statusForError maps service errors to HTTP status codes
func statusForError(err error) int {
	switch {
	case errors.Is(err, portfolio.ErrProjectNotFound),
		errors.Is(err, portfolio.ErrBusinessNotFound),
		errors.Is(err, portfolio.ErrImageNotFound):
		return http.StatusNotFound
	case errors.Is(err, portfolio.ErrInvalidStatusTransition):
		return http.StatusConflict
	case errors.Is(err, portfolio.ErrInvalidProjectStatus):
		return http.StatusBadRequest
	case errors.Is(err, portfolio.ErrSlugConflict):
		return http.StatusConflict
	case errors.Is(err, portfolio.ErrNotGeocoded):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
