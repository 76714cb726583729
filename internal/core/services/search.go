package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/lodestone-labs/pkgscout-cli/internal/core/domain"
	"github.com/lodestone-labs/pkgscout-cli/internal/core/ports/driven"
	"github.com/lodestone-labs/pkgscout-cli/internal/core/ports/driving"
	"github.com/lodestone-labs/pkgscout-cli/internal/logger"
)

// Ensure SearchService implements the interface.
var _ driving.SearchService = (*SearchService)(nil)

// SearchService provides one-shot registry search. It is the non-reactive
// counterpart of LiveSearchService, used by the CLI search command.
type SearchService struct {
	registry driven.Registry
}

// NewSearchService creates a new search service.
func NewSearchService(registry driven.Registry) *SearchService {
	return &SearchService{registry: registry}
}

// Search looks up term against the configured registry.
func (s *SearchService) Search(
	ctx context.Context, term string, opts domain.SearchOptions,
) ([]domain.PackageResult, error) {
	logger.Section("Search Execution")
	logger.Debug("Query: %q", term)

	if s.registry == nil {
		return nil, errors.New("registry not configured")
	}

	// Return empty for blank terms without touching the registry.
	term = domain.NormalizeTerm(term)
	if term == "" {
		logger.Debug("Blank term, returning no results")
		return []domain.PackageResult{}, nil
	}

	logger.Debug("Limit: %d, Prerelease: %t", opts.EffectiveLimit(), opts.Prerelease)

	results, err := s.registry.Search(ctx, term, opts)
	if err != nil {
		logger.Warn("Search failed: %v", err)
		return nil, fmt.Errorf("search: %w", err)
	}
	if results == nil {
		results = []domain.PackageResult{}
	}

	logger.Info("Final results: %d", len(results))
	return results, nil
}
