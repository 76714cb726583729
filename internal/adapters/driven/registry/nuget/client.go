// Package nuget implements the Registry port against a NuGet V3 search
// endpoint (SearchQueryService).
package nuget

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"github.com/lodestone-labs/pkgscout-cli/internal/core/domain"
	"github.com/lodestone-labs/pkgscout-cli/internal/core/ports/driven"
	"github.com/lodestone-labs/pkgscout-cli/internal/logger"
)

const (
	// DefaultBaseURL is the public NuGet search service.
	DefaultBaseURL = "https://azuresearch-usnc.nuget.org"

	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 30 * time.Second

	// requestsPerSecond bounds how hard the as-you-type pipeline can
	// hit the search service.
	requestsPerSecond = 10
)

// Ensure Client implements the interface.
var _ driven.Registry = (*Client)(nil)

// SearchEntry is one raw match payload from the search endpoint.
type SearchEntry struct {
	ID             string `json:"id"`
	Version        string `json:"version"`
	Description    string `json:"description"`
	TotalDownloads int64  `json:"totalDownloads"`
	ProjectURL     string `json:"projectUrl"`
}

type searchResponse struct {
	TotalHits int           `json:"totalHits"`
	Data      []SearchEntry `json:"data"`
}

// DefaultMapper converts a SearchEntry into a PackageResult. Entries
// without an identifier are malformed.
func DefaultMapper(e SearchEntry) (domain.PackageResult, error) {
	if e.ID == "" {
		return domain.PackageResult{}, domain.ErrMalformedPayload
	}
	return domain.PackageResult{
		ID:          e.ID,
		Version:     e.Version,
		Description: e.Description,
		Downloads:   e.TotalDownloads,
		Homepage:    e.ProjectURL,
	}, nil
}

// Config configures a Client.
type Config struct {
	// BaseURL overrides the search service root. Empty means
	// DefaultBaseURL.
	BaseURL string

	// Mapper converts raw payload entries. Nil means DefaultMapper.
	Mapper driven.ResultMapper[SearchEntry]

	// HTTPClient overrides the HTTP client, mainly for tests.
	HTTPClient *http.Client
}

// Client queries a NuGet V3 search endpoint.
type Client struct {
	httpClient *http.Client
	baseURL    string
	mapper     driven.ResultMapper[SearchEntry]
	limiter    *rate.Limiter
}

// NewClient creates a registry client for a NuGet search service.
func NewClient(cfg Config) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	mapper := cfg.Mapper
	if mapper == nil {
		mapper = DefaultMapper
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: DefaultTimeout}
	}

	return &Client{
		httpClient: httpClient,
		baseURL:    baseURL,
		mapper:     mapper,
		limiter:    rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond),
	}
}

// Search queries the registry for term. An empty match set is a valid
// success value.
func (c *Client) Search(
	ctx context.Context, term string, opts domain.SearchOptions,
) ([]domain.PackageResult, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	q := url.Values{}
	q.Set("q", term)
	q.Set("take", strconv.Itoa(opts.EffectiveLimit()))
	q.Set("prerelease", strconv.FormatBool(opts.Prerelease))
	endpoint := c.baseURL + "/query?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	logger.Debug("nuget: GET %s", endpoint)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("query registry: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusInternalServerError {
		return nil, fmt.Errorf("%w: status %d", domain.ErrRegistryUnavailable, resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("registry returned status %d", resp.StatusCode)
	}

	var payload searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedPayload, err)
	}

	results := make([]domain.PackageResult, 0, len(payload.Data))
	for _, entry := range payload.Data {
		r, err := c.mapper(entry)
		if err != nil {
			return nil, fmt.Errorf("map entry: %w", err)
		}
		results = append(results, r)
	}

	logger.Debug("nuget: %d/%d results for %q", len(results), payload.TotalHits, term)
	return results, nil
}
