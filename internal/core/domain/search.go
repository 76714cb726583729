package domain

import "strings"

// DefaultLimit is the number of results requested when SearchOptions
// does not specify one.
const DefaultLimit = 20

// SearchOptions configures a registry search.
type SearchOptions struct {
	// Limit is the maximum number of results. Zero means DefaultLimit.
	Limit int

	// Prerelease includes prerelease package versions in results.
	Prerelease bool
}

// EffectiveLimit returns Limit, or DefaultLimit when unset.
func (o SearchOptions) EffectiveLimit() int {
	if o.Limit <= 0 {
		return DefaultLimit
	}
	return o.Limit
}

// PackageResult is a read-only view of one matched package.
type PackageResult struct {
	// ID is the package identifier as known to the registry.
	ID string

	// Version is the latest (or latest matching) version string.
	Version string

	// Description is the free-text package description.
	Description string

	// Downloads is the total download count, when the registry reports it.
	Downloads int64

	// Homepage is the project URL, when available.
	Homepage string
}

// NormalizeTerm canonicalises a raw search term by trimming surrounding
// whitespace. An absent term normalises to the empty string.
func NormalizeTerm(raw string) string {
	return strings.TrimSpace(raw)
}

// IsBlankTerm reports whether a raw term is empty or whitespace-only.
func IsBlankTerm(raw string) bool {
	return NormalizeTerm(raw) == ""
}
