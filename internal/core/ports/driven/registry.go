package driven

import (
	"context"

	"github.com/lodestone-labs/pkgscout-cli/internal/core/domain"
)

// Registry performs package lookups against a backing registry. It is
// the only suspension point of the live search pipeline.
//
// Implementations must honour ctx cancellation promptly so a superseded
// lookup does not block the next dispatch, and must return an empty
// slice (not an error) when the term simply matches nothing.
type Registry interface {
	// Search returns packages matching term, best match first.
	Search(ctx context.Context, term string, opts domain.SearchOptions) ([]domain.PackageResult, error)
}

// ResultMapper converts one raw registry payload entry into a
// PackageResult. Adapters accept a mapper so payload interpretation
// stays pluggable; a mapping failure is reported like any other lookup
// failure for that term.
type ResultMapper[Raw any] func(Raw) (domain.PackageResult, error)
