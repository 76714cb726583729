package list

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lodestone-labs/pkgscout-cli/internal/core/domain"
)

func sampleResults() []domain.PackageResult {
	return []domain.PackageResult{
		{ID: "Serilog", Version: "4.0.0", Description: "Structured logging", Downloads: 1500000},
		{ID: "Polly", Version: "8.4.0", Description: "Resilience library", Downloads: 640000},
		{ID: "Dapper", Version: "2.1.35", Description: "Micro-ORM", Downloads: 820},
	}
}

func TestPackageList_NilResultsShowsPrompt(t *testing.T) {
	l := NewPackageList(nil)

	assert.Contains(t, l.View(), "Start typing to search")
}

func TestPackageList_EmptyResultsShowsNoMatches(t *testing.T) {
	l := NewPackageList(nil)

	l.SetResults([]domain.PackageResult{})

	assert.Contains(t, l.View(), "No packages matched")
}

func TestPackageList_RendersResults(t *testing.T) {
	l := NewPackageList(nil)
	l.SetDimensions(80, 20)

	l.SetResults(sampleResults())
	view := l.View()

	assert.Contains(t, view, "Packages (3)")
	assert.Contains(t, view, "Serilog 4.0.0")
	assert.Contains(t, view, "Structured logging")
	assert.Contains(t, view, "1.5M")
}

func TestPackageList_SetResultsResetsSelection(t *testing.T) {
	l := NewPackageList(nil)
	l.SetResults(sampleResults())
	l.MoveDown()
	require.Equal(t, 1, l.Selected())

	l.SetResults(sampleResults()[:1])

	assert.Equal(t, 0, l.Selected())
}

func TestPackageList_Navigation(t *testing.T) {
	l := NewPackageList(nil)
	l.SetResults(sampleResults())

	l.MoveUp()
	assert.Equal(t, 0, l.Selected())

	l.MoveDown()
	l.MoveDown()
	assert.Equal(t, 2, l.Selected())

	l.MoveDown()
	assert.Equal(t, 2, l.Selected())
}

func TestPackageList_SelectedResult(t *testing.T) {
	l := NewPackageList(nil)

	assert.Nil(t, l.SelectedResult())

	l.SetResults(sampleResults())
	l.MoveDown()

	require.NotNil(t, l.SelectedResult())
	assert.Equal(t, "Polly", l.SelectedResult().ID)
}

func TestFormatCount(t *testing.T) {
	tests := []struct {
		name     string
		input    int64
		expected string
	}{
		{name: "Millions", input: 1500000, expected: "1.5M"},
		{name: "Thousands", input: 640000, expected: "640.0k"},
		{name: "Small", input: 820, expected: "820"},
		{name: "Zero", input: 0, expected: "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, formatCount(tt.input))
		})
	}
}
