package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lodestone-labs/pkgscout-cli/internal/core/domain"
	"github.com/lodestone-labs/pkgscout-cli/internal/observable"
)

// --- Mock implementations ---

// mockRegistry implements driven.Registry for testing. Lookups can be
// made to block until released, fail, or ignore cancellation to
// simulate a slow stale lookup completing late.
type mockRegistry struct {
	mu           sync.Mutex
	calls        []string
	results      map[string][]domain.PackageResult
	errs         map[string]error
	block        map[string]chan struct{}
	ignoreCancel bool
}

func newMockRegistry() *mockRegistry {
	return &mockRegistry{
		results: make(map[string][]domain.PackageResult),
		errs:    make(map[string]error),
		block:   make(map[string]chan struct{}),
	}
}

func (m *mockRegistry) Search(
	ctx context.Context, term string, _ domain.SearchOptions,
) ([]domain.PackageResult, error) {
	m.mu.Lock()
	m.calls = append(m.calls, term)
	gate := m.block[term]
	m.mu.Unlock()

	if gate != nil {
		if m.ignoreCancel {
			<-gate
		} else {
			select {
			case <-gate:
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.errs[term]; err != nil {
		return nil, err
	}
	return m.results[term], nil
}

func (m *mockRegistry) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

func (m *mockRegistry) callList() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.calls))
	copy(out, m.calls)
	return out
}

const testDebounce = 40 * time.Millisecond

func newTestPipeline(t *testing.T, reg *mockRegistry) *LiveSearchService {
	t.Helper()
	s := NewLiveSearchService(LiveSearchConfig{
		Registry:   reg,
		Dispatcher: observable.Immediate{},
		Debounce:   testDebounce,
	})
	t.Cleanup(s.Close)
	return s
}

func waitForResults(t *testing.T, s *LiveSearchService) {
	t.Helper()
	require.Eventually(t, func() bool {
		return s.Results() != nil
	}, 2*time.Second, 5*time.Millisecond)
}

// --- Tests ---

func TestLiveSearch_RapidBurstDispatchesOnlyLastTerm(t *testing.T) {
	reg := newMockRegistry()
	reg.results["abc"] = []domain.PackageResult{{ID: "Abc.Pkg", Version: "1.0.0"}}
	s := newTestPipeline(t, reg)

	s.SetTerm("a")
	time.Sleep(5 * time.Millisecond)
	s.SetTerm("ab")
	time.Sleep(5 * time.Millisecond)
	s.SetTerm("abc")

	waitForResults(t, s)

	assert.Equal(t, []string{"abc"}, reg.callList())
	assert.Equal(t, []domain.PackageResult{{ID: "Abc.Pkg", Version: "1.0.0"}}, s.Results())
	assert.True(t, s.Available())
}

func TestLiveSearch_NoDispatchBeforeQuietPeriod(t *testing.T) {
	reg := newMockRegistry()
	s := newTestPipeline(t, reg)

	// Keep writing faster than the window; the timer must keep
	// resetting and nothing may reach the registry.
	for i := 0; i < 5; i++ {
		s.SetTerm("term")
		time.Sleep(testDebounce / 4)
	}
	assert.Equal(t, 0, reg.callCount())

	require.Eventually(t, func() bool {
		return reg.callCount() == 1
	}, 2*time.Second, 5*time.Millisecond)
}

func TestLiveSearch_NormalisesBeforeDispatch(t *testing.T) {
	reg := newMockRegistry()
	reg.results["serilog"] = []domain.PackageResult{{ID: "Serilog"}}
	s := newTestPipeline(t, reg)

	s.SetTerm("  serilog  ")

	waitForResults(t, s)
	assert.Equal(t, []string{"serilog"}, reg.callList())
}

func TestLiveSearch_DuplicateAcceptedTermDispatchesOnce(t *testing.T) {
	reg := newMockRegistry()
	reg.results["go"] = []domain.PackageResult{{ID: "Go.Pkg"}}
	s := newTestPipeline(t, reg)

	s.SetTerm("go")
	waitForResults(t, s)

	// Same term after normalisation, across a separate debounce window.
	s.SetTerm(" go ")
	time.Sleep(3 * testDebounce)

	assert.Equal(t, []string{"go"}, reg.callList())
}

func TestLiveSearch_BlankTermLeavesResultsUntouched(t *testing.T) {
	reg := newMockRegistry()
	reg.results["vim"] = []domain.PackageResult{{ID: "Vim.Pkg"}}
	s := newTestPipeline(t, reg)

	s.SetTerm("vim")
	waitForResults(t, s)
	require.True(t, s.Available())

	s.SetTerm("   ")
	time.Sleep(3 * testDebounce)

	assert.Equal(t, []string{"vim"}, reg.callList())
	assert.Equal(t, []domain.PackageResult{{ID: "Vim.Pkg"}}, s.Results())
	assert.True(t, s.Available())
}

func TestLiveSearch_EmptyMatchSetIsSuccess(t *testing.T) {
	reg := newMockRegistry()
	// No fixture for the term: mock returns nil, pipeline publishes an
	// empty non-nil slice.
	s := newTestPipeline(t, reg)

	s.SetTerm("nomatch")
	waitForResults(t, s)

	assert.Empty(t, s.Results())
	assert.NotNil(t, s.Results())
	assert.True(t, s.Available())
}

func TestLiveSearch_StaleLookupNeverOverwritesNewerResult(t *testing.T) {
	reg := newMockRegistry()
	reg.ignoreCancel = true
	gate := make(chan struct{})
	reg.block["x"] = gate
	reg.results["x"] = []domain.PackageResult{{ID: "Stale.Pkg"}}
	reg.results["y"] = []domain.PackageResult{{ID: "Fresh.Pkg"}}
	s := newTestPipeline(t, reg)

	s.SetTerm("x")
	require.Eventually(t, func() bool {
		return reg.callCount() == 1
	}, 2*time.Second, 5*time.Millisecond)

	// Supersede "x" while it is still in flight; "y" resolves fast.
	s.SetTerm("y")
	waitForResults(t, s)
	require.Equal(t, []domain.PackageResult{{ID: "Fresh.Pkg"}}, s.Results())

	// Let the stale lookup complete late. Its result must be dropped.
	close(gate)
	time.Sleep(3 * testDebounce)

	assert.Equal(t, []domain.PackageResult{{ID: "Fresh.Pkg"}}, s.Results())
}

func TestLiveSearch_FailureRoutedToSinkAndResultsUnchanged(t *testing.T) {
	reg := newMockRegistry()
	reg.results["ok"] = []domain.PackageResult{{ID: "Ok.Pkg"}}
	reg.errs["z"] = domain.ErrRegistryUnavailable
	s := newTestPipeline(t, reg)

	var mu sync.Mutex
	var sunk []error
	s.SubscribeErrors(func(err error) {
		mu.Lock()
		sunk = append(sunk, err)
		mu.Unlock()
	})

	s.SetTerm("ok")
	waitForResults(t, s)

	s.SetTerm("z")
	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(sunk) == 1
	}, 2*time.Second, 5*time.Millisecond)

	mu.Lock()
	var lookupErr *domain.LookupError
	require.ErrorAs(t, sunk[0], &lookupErr)
	assert.Equal(t, "z", lookupErr.Term)
	assert.ErrorIs(t, sunk[0], domain.ErrRegistryUnavailable)
	mu.Unlock()

	// The failed term leaves the previous results visible.
	assert.Equal(t, []domain.PackageResult{{ID: "Ok.Pkg"}}, s.Results())
	assert.True(t, s.Available())
}

func TestLiveSearch_FailureDoesNotStopPipeline(t *testing.T) {
	reg := newMockRegistry()
	reg.errs["bad"] = errors.New("boom")
	reg.results["good"] = []domain.PackageResult{{ID: "Good.Pkg"}}
	s := newTestPipeline(t, reg)

	s.SetTerm("bad")
	require.Eventually(t, func() bool {
		return reg.callCount() == 1
	}, 2*time.Second, 5*time.Millisecond)

	s.SetTerm("good")
	waitForResults(t, s)

	assert.Equal(t, []domain.PackageResult{{ID: "Good.Pkg"}}, s.Results())
}

func TestLiveSearch_CancelledLookupNeverReachesErrorSink(t *testing.T) {
	reg := newMockRegistry()
	gate := make(chan struct{})
	defer close(gate)
	reg.block["slow"] = gate
	reg.results["fast"] = []domain.PackageResult{{ID: "Fast.Pkg"}}
	s := newTestPipeline(t, reg)

	var mu sync.Mutex
	sunk := 0
	s.SubscribeErrors(func(error) {
		mu.Lock()
		sunk++
		mu.Unlock()
	})

	s.SetTerm("slow")
	require.Eventually(t, func() bool {
		return reg.callCount() == 1
	}, 2*time.Second, 5*time.Millisecond)

	// Superseding cancels "slow"; its ctx error is not a failure.
	s.SetTerm("fast")
	waitForResults(t, s)
	time.Sleep(2 * testDebounce)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 0, sunk)
}

func TestLiveSearch_AvailabilityTracksResultsExactly(t *testing.T) {
	reg := newMockRegistry()
	reg.results["a"] = []domain.PackageResult{{ID: "A"}}
	s := newTestPipeline(t, reg)

	// After every results notification the availability flag must
	// already agree, because the derived property subscribed first.
	var mu sync.Mutex
	violations := 0
	s.SubscribeResults(func(rs []domain.PackageResult) {
		mu.Lock()
		if s.Available() != (rs != nil) {
			violations++
		}
		mu.Unlock()
	})

	require.False(t, s.Available())
	s.SetTerm("a")
	waitForResults(t, s)

	mu.Lock()
	defer mu.Unlock()
	assert.Zero(t, violations)
	assert.True(t, s.Available())
}

func TestLiveSearch_SubscribersReplayLatest(t *testing.T) {
	reg := newMockRegistry()
	reg.results["a"] = []domain.PackageResult{{ID: "A"}}
	s := newTestPipeline(t, reg)

	s.SetTerm("a")
	waitForResults(t, s)

	// Late subscribers see the state that existed before they attached.
	var gotResults []domain.PackageResult
	s.SubscribeResults(func(rs []domain.PackageResult) { gotResults = rs })
	var gotAvailable bool
	s.SubscribeAvailable(func(b bool) { gotAvailable = b })

	assert.Equal(t, []domain.PackageResult{{ID: "A"}}, gotResults)
	assert.True(t, gotAvailable)
}

func TestLiveSearch_CloseStopsPendingDebounce(t *testing.T) {
	reg := newMockRegistry()
	s := NewLiveSearchService(LiveSearchConfig{
		Registry:   reg,
		Dispatcher: observable.Immediate{},
		Debounce:   testDebounce,
	})

	s.SetTerm("pending")
	s.Close()

	time.Sleep(3 * testDebounce)
	assert.Equal(t, 0, reg.callCount())
}

func TestLiveSearch_CloseIsIdempotent(t *testing.T) {
	s := NewLiveSearchService(LiveSearchConfig{
		Registry:   newMockRegistry(),
		Dispatcher: observable.Immediate{},
		Debounce:   testDebounce,
	})

	s.Close()
	s.Close()
}

func TestLiveSearch_PublishesOnSerialDispatcher(t *testing.T) {
	reg := newMockRegistry()
	reg.results["a"] = []domain.PackageResult{{ID: "A"}}

	dispatch := observable.NewSerialDispatcher()
	defer dispatch.Close()

	s := NewLiveSearchService(LiveSearchConfig{
		Registry:   reg,
		Dispatcher: dispatch,
		Debounce:   testDebounce,
	})
	defer s.Close()

	s.SetTerm("a")

	require.Eventually(t, func() bool {
		return s.Results() != nil
	}, 2*time.Second, 5*time.Millisecond)
	assert.True(t, s.Available())
}
