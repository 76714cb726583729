package driving

import (
	"context"

	"github.com/lodestone-labs/pkgscout-cli/internal/core/domain"
)

// SearchService provides one-shot registry search to external actors.
type SearchService interface {
	// Search looks up term against the configured registry. A blank term
	// returns an empty result set without touching the registry.
	Search(ctx context.Context, term string, opts domain.SearchOptions) ([]domain.PackageResult, error)
}

// LiveSearch is the as-you-type search pipeline. Raw input written via
// SetTerm is debounced, normalised, de-duplicated and filtered before a
// lookup is dispatched; results and the derived availability flag are
// published on the pipeline's delivery context.
type LiveSearch interface {
	// SetTerm feeds raw input to the pipeline. Never fails; may be
	// called from any goroutine at any rate.
	SetTerm(term string)

	// Results returns the current result set. Nil means no lookup has
	// published yet; an empty non-nil slice is a completed lookup that
	// matched nothing.
	Results() []domain.PackageResult

	// SubscribeResults registers fn with replay-latest semantics.
	// Notifications arrive on the pipeline's delivery context.
	SubscribeResults(fn func([]domain.PackageResult)) func()

	// Available reports whether any lookup has published a result set.
	Available() bool

	// SubscribeAvailable registers fn with replay-latest semantics.
	SubscribeAvailable(fn func(bool)) func()

	// SubscribeErrors registers fn for lookup failures, in arrival
	// order. No replay. With no subscribers, failures are dropped.
	SubscribeErrors(fn func(error)) func()

	// Close tears the pipeline down: pending debounce is discarded, any
	// in-flight lookup is cancelled, and no further publication occurs.
	Close()
}
