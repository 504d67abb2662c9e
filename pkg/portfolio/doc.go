// Package portfolio provides a reusable library for multi-tenant contractor
// portfolios: businesses, the projects they publish, and the project images
// shown in galleries, with pluggable repository and photo storage backends.
//
// It exposes a single Service interface that orchestrates business and
// project lifecycle (draft, published, archived), slug generation, image
// upload/download, and the related-projects rail. Implementations of
// repositories (memory, Postgres) and photo stores (memory, filesystem, S3)
// are provided under subpackages.
//
// Related-Projects Selection
//
// SelectRelated is the core of the rail: a pure function that classifies a
// fetched candidate pool into three relationship buckets against the current
// project (same business, same type in another city, same city with another
// type), takes a capped slice of each in priority order, and fills remaining
// slots from the buckets' leftovers. The result is deduplicated, bounded,
// and deterministic.
// ResolveCover picks each card's thumbnail as the image with the lowest
// display order.
package portfolio
