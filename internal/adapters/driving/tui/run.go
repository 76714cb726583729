package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/lodestone-labs/pkgscout-cli/internal/adapters/driving/tui/messages"
	"github.com/lodestone-labs/pkgscout-cli/internal/core/domain"
)

// Run starts the TUI and blocks until the user quits. It bridges the
// live search pipeline's observable properties into the Bubbletea
// program loop: notifications arrive on the pipeline's delivery
// context and are forwarded as messages, so the model only ever
// changes inside Update.
func Run(ports *Ports) error {
	app, err := NewApp(ports)
	if err != nil {
		return err
	}

	p := tea.NewProgram(app, tea.WithAltScreen())

	stopResults := ports.Live.SubscribeResults(func(results []domain.PackageResult) {
		p.Send(messages.ResultsUpdated{Results: results})
	})
	defer stopResults()

	stopAvailable := ports.Live.SubscribeAvailable(func(available bool) {
		p.Send(messages.AvailabilityChanged{Available: available})
	})
	defer stopAvailable()

	stopErrors := ports.Live.SubscribeErrors(func(err error) {
		p.Send(messages.SearchFailed{Err: err})
	})
	defer stopErrors()

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running tui: %w", err)
	}
	return nil
}
