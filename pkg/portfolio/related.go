package portfolio

import "github.com/google/uuid"

// Related-projects selection.
//
// Given the project a visitor is looking at and a candidate pool fetched from
// the repository, SelectRelated builds a diverse, deduplicated, size-bounded
// list: first work by the same contractor, then the same kind of work in
// other cities, then other kinds of work in the same city.

// Bucket identifies the relationship between a candidate and the current
// project. A candidate belongs to exactly one bucket: predicates are tested
// in priority order and the first match wins.
type Bucket int

const (
	BucketSameBusiness Bucket = iota
	BucketSameTypeOtherCity
	BucketSameCityOtherType
	BucketUnmatched
)

func (b Bucket) String() string {
	switch b {
	case BucketSameBusiness:
		return "same_business"
	case BucketSameTypeOtherCity:
		return "same_type_other_city"
	case BucketSameCityOtherType:
		return "same_city_other_type"
	default:
		return "unmatched"
	}
}

// ProjectRef carries the grouping keys candidates are evaluated against.
type ProjectRef struct {
	ID          uuid.UUID
	BusinessID  uuid.UUID
	CitySlug    string
	ProjectType string
}

// RefOf extracts the grouping keys from a project.
func RefOf(p *Project) ProjectRef {
	return ProjectRef{
		ID:          p.ID,
		BusinessID:  p.BusinessID,
		CitySlug:    p.CitySlug,
		ProjectType: p.ProjectType,
	}
}

const (
	// DefaultRelatedLimit is the related-rail size used when the caller does
	// not supply one.
	DefaultRelatedLimit = 6

	// RelatedCandidatePoolSize caps the candidate fetch issued upstream of
	// SelectRelated.
	RelatedCandidatePoolSize = 20

	// bucketTake is how many candidates each bucket contributes before the
	// fill pass.
	bucketTake = 2
)

// Classify assigns a candidate to the first bucket whose predicate it
// matches. A same-business candidate is never re-tested against the type or
// city predicates, so each candidate counts toward at most one bucket.
func Classify(current ProjectRef, candidate *Project) Bucket {
	switch {
	case candidate.BusinessID == current.BusinessID:
		return BucketSameBusiness
	case candidate.ProjectType == current.ProjectType && candidate.CitySlug != current.CitySlug:
		return BucketSameTypeOtherCity
	case candidate.CitySlug == current.CitySlug && candidate.ProjectType != current.ProjectType:
		return BucketSameCityOtherType
	default:
		return BucketUnmatched
	}
}

// SelectRelated picks up to limit related projects from candidates.
//
// The result takes up to two projects from each bucket in priority order
// (same business, same type in another city, same city with another type),
// preserving the candidates' incoming order within a bucket. If slots remain
// after that pass, the rail is rebuilt by walking the full bucket slices in
// the same order, so extra picks from an early bucket stay grouped with that
// bucket instead of trailing the rail. The fill pass walks the whole slices
// rather than each untaken tail; changing that would reorder live pages.
//
// Candidates matching none of the three predicates are silently excluded,
// as is the current project itself and any repeated id. The function is pure:
// no I/O, no mutation of its inputs.
func SelectRelated(current ProjectRef, candidates []*Project, limit int) []*Project {
	if limit <= 0 {
		return nil
	}

	var sameBusiness, sameTypeOtherCity, sameCityOtherType []*Project
	for _, c := range candidates {
		if c == nil || c.ID == current.ID {
			continue
		}
		switch Classify(current, c) {
		case BucketSameBusiness:
			sameBusiness = append(sameBusiness, c)
		case BucketSameTypeOtherCity:
			sameTypeOtherCity = append(sameTypeOtherCity, c)
		case BucketSameCityOtherType:
			sameCityOtherType = append(sameCityOtherType, c)
		}
	}

	result := make([]*Project, 0, limit)
	seen := make(map[uuid.UUID]struct{}, limit)

	// take appends the first max entries of bucket (the whole bucket when max
	// is negative), skipping ids already selected.
	take := func(bucket []*Project, max int) {
		n := len(bucket)
		if max >= 0 && max < n {
			n = max
		}
		for _, p := range bucket[:n] {
			if len(result) >= limit {
				return
			}
			if _, dup := seen[p.ID]; dup {
				continue
			}
			seen[p.ID] = struct{}{}
			result = append(result, p)
		}
	}

	take(sameBusiness, bucketTake)
	take(sameTypeOtherCity, bucketTake)
	take(sameCityOtherType, bucketTake)

	if len(result) < limit {
		result = result[:0]
		seen = make(map[uuid.UUID]struct{}, limit)
		take(sameBusiness, -1)
		take(sameTypeOtherCity, -1)
		take(sameCityOtherType, -1)
	}

	return result
}

// ResolveCover returns the project's representative image: the entry with the
// minimum display order, with ties broken by position in the input slice.
// Returns nil for an empty list. The input is not modified.
func ResolveCover(images []ProjectImage) *ProjectImage {
	if len(images) == 0 {
		return nil
	}
	best := 0
	for i := 1; i < len(images); i++ {
		if images[i].DisplayOrder < images[best].DisplayOrder {
			best = i
		}
	}
	cover := images[best]
	return &cover
}
