// Package list provides the package result list component for the TUI.
package list

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/lodestone-labs/pkgscout-cli/internal/adapters/driving/tui/styles"
	"github.com/lodestone-labs/pkgscout-cli/internal/core/domain"
)

// PackageList displays search results in a navigable list.
type PackageList struct {
	results  []domain.PackageResult
	selected int
	styles   *styles.Styles
	width    int
	height   int
}

// NewPackageList creates a new package list component.
func NewPackageList(s *styles.Styles) *PackageList {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &PackageList{
		results:  nil,
		selected: 0,
		styles:   s,
		width:    80,
		height:   10,
	}
}

// Init initialises the package list.
func (l *PackageList) Init() tea.Cmd {
	return nil
}

// Update handles list navigation messages.
func (l *PackageList) Update(msg tea.Msg) (*PackageList, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		//nolint:exhaustive // handling only relevant key types
		switch msg.Type {
		case tea.KeyUp:
			l.MoveUp()
		case tea.KeyDown:
			l.MoveDown()
		default:
			// Printable keys belong to the search input.
		}
	}
	return l, nil
}

// View renders the package list.
func (l *PackageList) View() string {
	if l.results == nil {
		return l.styles.Muted.Render("Start typing to search")
	}
	if len(l.results) == 0 {
		return l.styles.Muted.Render("No packages matched")
	}

	lines := make([]string, 0, len(l.results)*2+2)

	header := l.styles.Subtitle.Render(fmt.Sprintf("Packages (%d)", len(l.results)))
	lines = append(lines, header, "")

	// Each result takes two lines (name/version + description).
	visibleCount := (l.height - 3) / 2
	if visibleCount < 1 {
		visibleCount = 1
	}

	start := 0
	if l.selected >= visibleCount {
		start = l.selected - visibleCount + 1
	}
	end := start + visibleCount
	if end > len(l.results) {
		end = len(l.results)
	}

	for i := start; i < end; i++ {
		lines = append(lines, l.renderResult(i, &l.results[i]))
	}

	return strings.Join(lines, "\n")
}

// renderResult formats a single package with its description.
func (l *PackageList) renderResult(index int, result *domain.PackageResult) string {
	indicator := "  "
	if index == l.selected {
		indicator = "> "
	}

	name := result.ID
	if result.Version != "" {
		name += " " + result.Version
	}

	maxNameLen := l.width - 18
	if maxNameLen < 10 {
		maxNameLen = 10
	}
	if len(name) > maxNameLen {
		name = name[:maxNameLen-3] + "..."
	}

	downloads := ""
	if result.Downloads > 0 {
		downloads = formatCount(result.Downloads)
	}

	var nameLine string
	if index == l.selected {
		nameLine = l.styles.Selected.Render(fmt.Sprintf("%s%-*s  %s", indicator, maxNameLen, name, downloads))
	} else {
		nameLine = l.styles.Normal.Render(fmt.Sprintf("%s%-*s  ", indicator, maxNameLen, name)) +
			l.styles.Muted.Render(downloads)
	}

	desc := result.Description
	maxDescLen := l.width - 6
	if maxDescLen < 20 {
		maxDescLen = 20
	}
	if len(desc) > maxDescLen {
		desc = desc[:maxDescLen-3] + "..."
	}
	descLine := l.styles.Muted.Render("    " + desc)

	return nameLine + "\n" + descLine
}

// formatCount renders a download count compactly, e.g. 1.5M.
func formatCount(n int64) string {
	switch {
	case n >= 1_000_000:
		return fmt.Sprintf("%.1fM", float64(n)/1_000_000)
	case n >= 1_000:
		return fmt.Sprintf("%.1fk", float64(n)/1_000)
	default:
		return fmt.Sprintf("%d", n)
	}
}

// SetResults replaces the displayed results. Each publication
// supersedes the previous one entirely.
func (l *PackageList) SetResults(results []domain.PackageResult) {
	l.results = results
	l.selected = 0
}

// Results returns the current results.
func (l *PackageList) Results() []domain.PackageResult {
	return l.results
}

// Selected returns the index of the selected result.
func (l *PackageList) Selected() int {
	return l.selected
}

// SelectedResult returns the currently selected result, or nil.
func (l *PackageList) SelectedResult() *domain.PackageResult {
	if l.selected < 0 || l.selected >= len(l.results) {
		return nil
	}
	return &l.results[l.selected]
}

// MoveUp moves the selection up.
func (l *PackageList) MoveUp() {
	if l.selected > 0 {
		l.selected--
	}
}

// MoveDown moves the selection down.
func (l *PackageList) MoveDown() {
	if l.selected < len(l.results)-1 {
		l.selected++
	}
}

// SetDimensions sets the component dimensions.
func (l *PackageList) SetDimensions(width, height int) {
	l.width = width
	l.height = height
}
