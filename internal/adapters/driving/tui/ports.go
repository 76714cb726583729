// Package tui provides the interactive as-you-type search interface.
// It implements a driving adapter following hexagonal architecture
// principles: the Bubbletea program loop is the consumer of the live
// search pipeline's observable properties.
package tui

import (
	"github.com/lodestone-labs/pkgscout-cli/internal/core/ports/driving"
)

// Ports aggregates the driving port interfaces required by the TUI.
type Ports struct {
	// Live is the as-you-type search pipeline.
	Live driving.LiveSearch
}

// Validate checks that all required ports are present.
func (p *Ports) Validate() error {
	if p == nil {
		return ErrNilPorts
	}
	if p.Live == nil {
		return ErrNoLiveSearch
	}
	return nil
}
