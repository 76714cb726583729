// Package messages defines Bubbletea message types for the TUI.
// Messages represent events that flow through the Elm architecture;
// the live search pipeline's notifications are converted into these
// before entering the program loop.
package messages

import (
	"github.com/lodestone-labs/pkgscout-cli/internal/core/domain"
)

// ResultsUpdated carries a freshly published result set into the model.
type ResultsUpdated struct {
	Results []domain.PackageResult
}

// AvailabilityChanged is sent when the derived availability flag flips.
type AvailabilityChanged struct {
	Available bool
}

// SearchFailed carries a lookup failure surfaced by the error sink.
type SearchFailed struct {
	Err error
}
