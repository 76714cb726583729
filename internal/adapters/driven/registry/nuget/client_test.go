package nuget

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lodestone-labs/pkgscout-cli/internal/core/domain"
)

const fixture = `{
	"totalHits": 2,
	"data": [
		{
			"id": "Serilog",
			"version": "4.0.0",
			"description": "Simple .NET logging",
			"totalDownloads": 1500000,
			"projectUrl": "https://serilog.net"
		},
		{
			"id": "Serilog.Sinks.Console",
			"version": "6.0.0",
			"description": "Console sink",
			"totalDownloads": 900000
		}
	]
}`

func newTestClient(handler http.HandlerFunc) (*Client, *httptest.Server) {
	server := httptest.NewServer(handler)
	client := NewClient(Config{BaseURL: server.URL})
	return client, server
}

func TestClient_Search(t *testing.T) {
	var gotQuery, gotTake, gotPrerelease string
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("q")
		gotTake = r.URL.Query().Get("take")
		gotPrerelease = r.URL.Query().Get("prerelease")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(fixture))
	})
	defer server.Close()

	results, err := client.Search(context.Background(), "serilog", domain.SearchOptions{Limit: 5})

	require.NoError(t, err)
	assert.Equal(t, "serilog", gotQuery)
	assert.Equal(t, "5", gotTake)
	assert.Equal(t, "false", gotPrerelease)

	require.Len(t, results, 2)
	assert.Equal(t, domain.PackageResult{
		ID:          "Serilog",
		Version:     "4.0.0",
		Description: "Simple .NET logging",
		Downloads:   1500000,
		Homepage:    "https://serilog.net",
	}, results[0])
	assert.Equal(t, "Serilog.Sinks.Console", results[1].ID)
}

func TestClient_SearchEmptyMatchSetIsSuccess(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"totalHits": 0, "data": []}`))
	})
	defer server.Close()

	results, err := client.Search(context.Background(), "nosuchpkg", domain.SearchOptions{})

	require.NoError(t, err)
	assert.NotNil(t, results)
	assert.Empty(t, results)
}

func TestClient_SearchServerError(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	defer server.Close()

	_, err := client.Search(context.Background(), "x", domain.SearchOptions{})

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrRegistryUnavailable)
}

func TestClient_SearchClientError(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	})
	defer server.Close()

	_, err := client.Search(context.Background(), "x", domain.SearchOptions{})

	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrRegistryUnavailable)
}

func TestClient_SearchMalformedPayload(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{not json`))
	})
	defer server.Close()

	_, err := client.Search(context.Background(), "x", domain.SearchOptions{})

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrMalformedPayload)
}

func TestClient_SearchHonoursCancellation(t *testing.T) {
	release := make(chan struct{})
	defer close(release)
	client, server := newTestClient(func(w http.ResponseWriter, _ *http.Request) {
		<-release
	})
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() {
		_, err := client.Search(ctx, "slow", domain.SearchOptions{})
		errc <- err
	}()

	cancel()

	select {
	case err := <-errc:
		require.Error(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("cancelled search did not return promptly")
	}
}

func TestDefaultMapper_RejectsMissingID(t *testing.T) {
	_, err := DefaultMapper(SearchEntry{Version: "1.0.0"})

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrMalformedPayload)
}

func TestClient_CustomMapper(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(fixture))
	})
	defer server.Close()

	client.mapper = func(e SearchEntry) (domain.PackageResult, error) {
		return domain.PackageResult{ID: "mapped:" + e.ID}, nil
	}

	results, err := client.Search(context.Background(), "serilog", domain.SearchOptions{})

	require.NoError(t, err)
	assert.Equal(t, "mapped:Serilog", results[0].ID)
}
