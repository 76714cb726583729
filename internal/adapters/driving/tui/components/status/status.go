// Package status provides the status bar component for the TUI.
package status

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/lodestone-labs/pkgscout-cli/internal/adapters/driving/tui/keymap"
	"github.com/lodestone-labs/pkgscout-cli/internal/adapters/driving/tui/styles"
)

// Bar displays pipeline state and keybinding hints.
type Bar struct {
	styles      *styles.Styles
	keymap      *keymap.KeyMap
	available   bool
	resultCount int
	message     string
	width       int
}

// NewBar creates a new status bar component.
func NewBar(s *styles.Styles, km *keymap.KeyMap) *Bar {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	return &Bar{
		styles: s,
		keymap: km,
		width:  80,
	}
}

// Init initialises the status bar.
func (b *Bar) Init() tea.Cmd {
	return nil
}

// Update handles status bar messages.
func (b *Bar) Update(_ tea.Msg) (*Bar, tea.Cmd) {
	// Bar is passive, updated via Set methods.
	return b, nil
}

// View renders the status bar.
func (b *Bar) View() string {
	left := b.renderLeft()
	right := b.renderRight()

	padding := b.width - lipgloss.Width(left) - lipgloss.Width(right)
	if padding < 1 {
		padding = 1
	}

	return b.styles.StatusBar.Width(b.width).Render(
		left + strings.Repeat(" ", padding) + right,
	)
}

// renderLeft renders the pipeline state.
func (b *Bar) renderLeft() string {
	if b.message != "" {
		return b.styles.Error.Render("Error: " + b.message)
	}
	if !b.available {
		return b.styles.Muted.Render("Waiting for first search")
	}
	return b.styles.Success.Render(fmt.Sprintf("%d packages", b.resultCount))
}

// renderRight renders keybinding hints.
func (b *Bar) renderRight() string {
	hints := make([]string, 0, 4)
	for _, binding := range b.keymap.ShortHelp() {
		h := binding.Help()
		hints = append(hints, fmt.Sprintf("%s: %s", h.Key, h.Desc))
	}
	return b.styles.Muted.Render(strings.Join(hints, " | "))
}

// SetAvailable sets the availability flag.
func (b *Bar) SetAvailable(available bool) {
	b.available = available
}

// Available returns the availability flag.
func (b *Bar) Available() bool {
	return b.available
}

// SetResultCount sets the displayed result count.
func (b *Bar) SetResultCount(count int) {
	b.resultCount = count
}

// SetMessage sets an error message. Empty clears it.
func (b *Bar) SetMessage(message string) {
	b.message = message
}

// Message returns the current error message.
func (b *Bar) Message() string {
	return b.message
}

// SetWidth sets the rendered width.
func (b *Bar) SetWidth(width int) {
	b.width = width
}
