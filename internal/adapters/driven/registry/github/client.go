// Package github implements the Registry port on top of GitHub
// repository search, so pkgscout can scout GitHub as a package source.
package github

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	gh "github.com/google/go-github/v80/github"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"

	"github.com/lodestone-labs/pkgscout-cli/internal/core/domain"
	"github.com/lodestone-labs/pkgscout-cli/internal/core/ports/driven"
	"github.com/lodestone-labs/pkgscout-cli/internal/logger"
)

const (
	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 30 * time.Second

	// requestsPerSecond stays well under GitHub's search rate limit of
	// 30 requests per minute for authenticated clients.
	requestsPerSecond = 0.5
)

// Ensure Client implements the interface.
var _ driven.Registry = (*Client)(nil)

// Config configures a Client.
type Config struct {
	// Token is an optional GitHub access token. Without it the client
	// is restricted to GitHub's unauthenticated rate limits.
	Token string

	// BaseURL overrides the API root, mainly for tests.
	BaseURL string
}

// Client searches GitHub repositories through the go-github client.
type Client struct {
	gh      *gh.Client
	limiter *rate.Limiter
}

// NewClient creates a GitHub-backed registry client.
func NewClient(cfg Config) (*Client, error) {
	var httpClient *http.Client
	if cfg.Token != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.Token})
		httpClient = oauth2.NewClient(context.Background(), ts)
	} else {
		httpClient = &http.Client{}
	}
	httpClient.Timeout = DefaultTimeout

	client := gh.NewClient(httpClient)
	if cfg.BaseURL != "" {
		base, err := url.Parse(cfg.BaseURL + "/")
		if err != nil {
			return nil, fmt.Errorf("parse base URL: %w", err)
		}
		client.BaseURL = base
	}

	return &Client{
		gh:      client,
		limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), 1),
	}, nil
}

// Search queries GitHub repository search for term. Stars stand in for
// the download count, since GitHub does not report one.
func (c *Client) Search(
	ctx context.Context, term string, opts domain.SearchOptions,
) ([]domain.PackageResult, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	logger.Debug("github: searching repositories for %q", term)
	res, _, err := c.gh.Search.Repositories(ctx, term, &gh.SearchOptions{
		Sort:        "stars",
		Order:       "desc",
		ListOptions: gh.ListOptions{PerPage: opts.EffectiveLimit()},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrRegistryUnavailable, err)
	}

	results := make([]domain.PackageResult, 0, len(res.Repositories))
	for _, repo := range res.Repositories {
		results = append(results, domain.PackageResult{
			ID:          repo.GetFullName(),
			Version:     repo.GetDefaultBranch(),
			Description: repo.GetDescription(),
			Downloads:   int64(repo.GetStargazersCount()),
			Homepage:    repo.GetHTMLURL(),
		})
	}

	logger.Debug("github: %d results for %q", len(results), term)
	return results, nil
}
