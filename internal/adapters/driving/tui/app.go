package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/lodestone-labs/pkgscout-cli/internal/adapters/driving/tui/components/input"
	"github.com/lodestone-labs/pkgscout-cli/internal/adapters/driving/tui/components/list"
	"github.com/lodestone-labs/pkgscout-cli/internal/adapters/driving/tui/components/status"
	"github.com/lodestone-labs/pkgscout-cli/internal/adapters/driving/tui/keymap"
	"github.com/lodestone-labs/pkgscout-cli/internal/adapters/driving/tui/messages"
	"github.com/lodestone-labs/pkgscout-cli/internal/adapters/driving/tui/styles"
	"github.com/lodestone-labs/pkgscout-cli/internal/core/domain"
)

// App is the main TUI application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
//
// Every keystroke feeds the raw input value to the live search
// pipeline; the pipeline's publications come back into the program
// loop as messages, so all model mutation happens on the loop.
type App struct {
	ports *Ports

	styles *styles.Styles
	keymap *keymap.KeyMap

	input     *input.SearchInput
	list      *list.PackageList
	statusbar *status.Bar

	width  int
	height int
	ready  bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new TUI application with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()

	return &App{
		ports:     ports,
		styles:    s,
		keymap:    km,
		input:     input.NewSearchInput(s),
		list:      list.NewPackageList(s),
		statusbar: status.NewBar(s, km),
		width:     80,
		height:    24,
	}, nil
}

// Init initialises the application.
func (a *App) Init() tea.Cmd {
	return a.input.Init()
}

// Update handles messages for the application.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.setDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		return a.handleKeyMsg(msg)

	case messages.ResultsUpdated:
		a.list.SetResults(msg.Results)
		a.statusbar.SetResultCount(len(msg.Results))
		a.statusbar.SetMessage("")
		return a, nil

	case messages.AvailabilityChanged:
		a.statusbar.SetAvailable(msg.Available)
		return a, nil

	case messages.SearchFailed:
		a.statusbar.SetMessage(msg.Err.Error())
		return a, nil
	}

	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	return a, cmd
}

// handleKeyMsg processes keyboard input.
func (a *App) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	//nolint:exhaustive // handling only relevant key types
	switch msg.Type {
	case tea.KeyCtrlC:
		return a, tea.Quit

	case tea.KeyEsc:
		// Clearing the input does not clear the results: the blank
		// term is filtered by the pipeline and the last valid result
		// set stays visible.
		a.input.Reset()
		a.ports.Live.SetTerm("")
		return a, nil

	case tea.KeyUp:
		a.list.MoveUp()
		return a, nil

	case tea.KeyDown:
		a.list.MoveDown()
		return a, nil
	}

	// Everything else edits the search input and feeds the pipeline.
	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	a.ports.Live.SetTerm(a.input.Value())
	return a, cmd
}

// View renders the application.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	sections := []string{
		a.styles.Title.Render("pkgscout"),
		"",
		a.input.View(),
		"",
		a.list.View(),
		"",
		a.statusbar.View(),
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// setDimensions sets the application dimensions.
func (a *App) setDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true

	a.input.SetWidth(width)
	a.list.SetDimensions(width, height-9) // Reserve space for header, input, status
	a.statusbar.SetWidth(width)
}

// Query returns the current search input value.
func (a *App) Query() string {
	return a.input.Value()
}

// SelectedResult returns the currently selected result, or nil.
func (a *App) SelectedResult() *domain.PackageResult {
	return a.list.SelectedResult()
}
