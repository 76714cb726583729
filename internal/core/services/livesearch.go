package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/lodestone-labs/pkgscout-cli/internal/core/domain"
	"github.com/lodestone-labs/pkgscout-cli/internal/core/ports/driven"
	"github.com/lodestone-labs/pkgscout-cli/internal/core/ports/driving"
	"github.com/lodestone-labs/pkgscout-cli/internal/logger"
	"github.com/lodestone-labs/pkgscout-cli/internal/observable"
)

// DefaultDebounce is the quiet period a term must survive before it is
// dispatched to the registry.
const DefaultDebounce = 800 * time.Millisecond

// Ensure LiveSearchService implements the interface.
var _ driving.LiveSearch = (*LiveSearchService)(nil)

// LiveSearchConfig configures a LiveSearchService.
type LiveSearchConfig struct {
	// Registry performs the actual lookups. Required.
	Registry driven.Registry

	// Dispatcher is the delivery context results are published on.
	// Required; the caller keeps ownership and closes it after Close.
	Dispatcher observable.Dispatcher

	// Debounce is the quiet period. Zero means DefaultDebounce.
	Debounce time.Duration

	// Options is passed through to every lookup.
	Options domain.SearchOptions
}

// LiveSearchService is the reactive search pipeline. Raw input flows
// through debounce, normalisation, adjacent de-duplication and a blank
// filter; each surviving term cancels any in-flight lookup and
// dispatches a new one. Only the most recently dispatched lookup may
// publish, so a slow stale lookup can never overwrite a newer result.
//
// The results and availability properties are written exclusively on
// the configured dispatcher; everything upstream runs on worker
// goroutines and the debounce timer.
type LiveSearchService struct {
	registry driven.Registry
	dispatch observable.Dispatcher
	window   time.Duration
	opts     domain.SearchOptions

	input     *observable.Value[string]
	results   *observable.Value[[]domain.PackageResult]
	available *observable.Derived[bool]
	errs      *observable.Sink[error]

	mu          sync.Mutex
	timer       *time.Timer
	lastEmitted string
	hasEmitted  bool
	cancel      context.CancelFunc
	gen         uint64
	closed      bool

	stopInput func()
}

// NewLiveSearchService creates and starts a live search pipeline.
func NewLiveSearchService(cfg LiveSearchConfig) *LiveSearchService {
	window := cfg.Debounce
	if window <= 0 {
		window = DefaultDebounce
	}

	s := &LiveSearchService{
		registry: cfg.Registry,
		dispatch: cfg.Dispatcher,
		window:   window,
		opts:     cfg.Options,
		input:    observable.NewValue(""),
		results:  observable.NewValue[[]domain.PackageResult](nil),
		errs:     observable.NewSink[error](),
	}

	// Availability is purely a function of the result property: nil
	// means no lookup has published yet.
	s.available = observable.DeriveDistinct(s.results, func(rs []domain.PackageResult) bool {
		return rs != nil
	})

	// The replay-latest subscription delivers the initial empty term
	// immediately; it is debounced like any other emission and then
	// dropped by the blank filter.
	s.stopInput = s.input.Subscribe(s.onInput)

	return s
}

// SetTerm feeds raw input to the pipeline.
func (s *LiveSearchService) SetTerm(term string) {
	s.input.Set(term)
}

// Results returns the current result set.
func (s *LiveSearchService) Results() []domain.PackageResult {
	return s.results.Current()
}

// SubscribeResults registers fn with replay-latest semantics.
func (s *LiveSearchService) SubscribeResults(fn func([]domain.PackageResult)) func() {
	return s.results.Subscribe(fn)
}

// Available reports whether any lookup has published a result set.
func (s *LiveSearchService) Available() bool {
	return s.available.Current()
}

// SubscribeAvailable registers fn with replay-latest semantics.
func (s *LiveSearchService) SubscribeAvailable(fn func(bool)) func() {
	return s.available.Subscribe(fn)
}

// SubscribeErrors registers fn for lookup failures, in arrival order.
func (s *LiveSearchService) SubscribeErrors(fn func(error)) func() {
	return s.errs.Subscribe(fn)
}

// Close tears the pipeline down. Idempotent.
func (s *LiveSearchService) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.mu.Unlock()

	s.stopInput()
	s.available.Close()
	logger.Debug("live search: closed")
}

// onInput is the debounce stage: every emission re-arms the timer, so
// only the last value of a rapid burst survives the quiet period.
func (s *LiveSearchService) onInput(raw string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(s.window, func() { s.accept(raw) })
}

// accept runs the post-debounce stages: normalise, de-duplicate against
// the previously emitted value, drop blanks, then cancel-and-dispatch.
func (s *LiveSearchService) accept(raw string) {
	term := domain.NormalizeTerm(raw)

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}

	if s.hasEmitted && term == s.lastEmitted {
		s.mu.Unlock()
		logger.Debug("live search: duplicate term %q suppressed", term)
		return
	}
	s.lastEmitted = term
	s.hasEmitted = true

	// Blank terms never reach the registry and leave the current
	// results untouched.
	if term == "" {
		s.mu.Unlock()
		return
	}

	// Cancel-and-replace under a single critical section: the old
	// lookup is signalled before the new one exists, so at most one
	// lookup ever owns the right to publish.
	if s.cancel != nil {
		s.cancel()
	}
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.gen++
	gen := s.gen
	s.mu.Unlock()

	id := uuid.NewString()
	logger.Debug("live search: dispatch %s term=%q", id, term)
	go s.lookup(ctx, gen, id, term)
}

// lookup runs one registry search on a worker goroutine and publishes
// its outcome unless it has been superseded.
func (s *LiveSearchService) lookup(ctx context.Context, gen uint64, id, term string) {
	results, err := s.registry.Search(ctx, term, s.opts)

	// A superseded lookup's outcome, success or failure, is discarded
	// silently and never reaches the error sink.
	if ctx.Err() != nil {
		logger.Debug("live search: lookup %s superseded", id)
		return
	}

	if err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		logger.Warn("live search: lookup %s failed: %v", id, err)
		s.errs.Publish(&domain.LookupError{Term: term, Err: err})
		return
	}

	if results == nil {
		results = []domain.PackageResult{}
	}

	if s.superseded(gen) {
		return
	}

	s.dispatch.Post(func() {
		// Re-check on the delivery context: a newer term may have been
		// accepted while this publication was queued.
		if s.superseded(gen) {
			logger.Debug("live search: lookup %s dropped before publish", id)
			return
		}
		logger.Debug("live search: lookup %s published %d results", id, len(results))
		s.results.Set(results)
	})
}

// superseded reports whether gen is no longer the publishing lookup.
func (s *LiveSearchService) superseded(gen uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed || gen != s.gen
}
