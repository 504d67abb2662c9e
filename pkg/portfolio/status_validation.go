package portfolio

import "fmt"

// canPublishProject checks if a project can move to published from its
// current status. Returns true if the transition is allowed, false with an
// error otherwise.
func canPublishProject(status ProjectStatus) (bool, error) {
	switch status {
	case ProjectStatusDraft, ProjectStatusArchived:
		return true, nil
	case ProjectStatusPublished:
		return false, fmt.Errorf("%w: project is already published (status: %s)", ErrInvalidStatusTransition, status)
	default:
		return false, fmt.Errorf("%w: unknown status %s", ErrInvalidProjectStatus, status)
	}
}

// canArchiveProject checks if a project can move to archived from its current
// status. Drafts are archived directly when a contractor abandons them.
func canArchiveProject(status ProjectStatus) (bool, error) {
	switch status {
	case ProjectStatusPublished, ProjectStatusDraft:
		return true, nil
	case ProjectStatusArchived:
		return false, fmt.Errorf("%w: project is already archived (status: %s)", ErrInvalidStatusTransition, status)
	default:
		return false, fmt.Errorf("%w: unknown status %s", ErrInvalidProjectStatus, status)
	}
}
