// Package memory provides an in-memory Registry used by tests and by
// demo mode, where pkgscout runs without network access.
package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/lodestone-labs/pkgscout-cli/internal/core/domain"
	"github.com/lodestone-labs/pkgscout-cli/internal/core/ports/driven"
)

// Ensure Registry implements the interface.
var _ driven.Registry = (*Registry)(nil)

// Registry is an in-memory implementation of driven.Registry. It
// matches terms by case-insensitive substring on identifier and
// description.
type Registry struct {
	mu       sync.RWMutex
	packages []domain.PackageResult
	delay    time.Duration
	err      error
}

// NewRegistry creates a registry preloaded with packages.
func NewRegistry(packages []domain.PackageResult) *Registry {
	return &Registry{packages: packages}
}

// NewDemoRegistry creates a registry with a small fixed catalogue for
// offline demonstration.
func NewDemoRegistry() *Registry {
	return NewRegistry([]domain.PackageResult{
		{ID: "Serilog", Version: "4.0.0", Description: "Simple .NET logging with fully-structured events", Downloads: 1500000},
		{ID: "Newtonsoft.Json", Version: "13.0.3", Description: "Json.NET is a popular high-performance JSON framework", Downloads: 3200000},
		{ID: "Dapper", Version: "2.1.35", Description: "A high performance Micro-ORM", Downloads: 820000},
		{ID: "Polly", Version: "8.4.0", Description: "Resilience and transient-fault-handling library", Downloads: 640000},
		{ID: "AutoMapper", Version: "13.0.1", Description: "A convention-based object-object mapper", Downloads: 510000},
	})
}

// SetDelay makes every lookup wait, to exercise cancellation paths.
func (r *Registry) SetDelay(d time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.delay = d
}

// SetError makes every lookup fail with err.
func (r *Registry) SetError(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.err = err
}

// Search returns packages whose identifier or description contains
// term, case-insensitively.
func (r *Registry) Search(
	ctx context.Context, term string, opts domain.SearchOptions,
) ([]domain.PackageResult, error) {
	r.mu.RLock()
	delay := r.delay
	failure := r.err
	packages := r.packages
	r.mu.RUnlock()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if failure != nil {
		return nil, failure
	}

	needle := strings.ToLower(term)
	limit := opts.EffectiveLimit()

	results := make([]domain.PackageResult, 0)
	for _, p := range packages {
		if len(results) >= limit {
			break
		}
		if strings.Contains(strings.ToLower(p.ID), needle) ||
			strings.Contains(strings.ToLower(p.Description), needle) {
			results = append(results, p)
		}
	}
	return results, nil
}
