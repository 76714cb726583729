package cli

import (
	"errors"
	"fmt"
	"os"
	"runtime/debug"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/lodestone-labs/pkgscout-cli/internal/adapters/driven/config/file"
	"github.com/lodestone-labs/pkgscout-cli/internal/adapters/driving/tui"
	"github.com/lodestone-labs/pkgscout-cli/internal/core/domain"
	"github.com/lodestone-labs/pkgscout-cli/internal/core/services"
	"github.com/lodestone-labs/pkgscout-cli/internal/observable"
)

var tuiDebounceMS int

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive as-you-type search",
	Long: `Launch the interactive terminal interface. Results update while
you type: input is debounced, duplicate terms are suppressed, and a
newer term always cancels the lookup for an older one.

Controls:
  ↑/↓     - Navigate results
  Esc     - Clear the input (results stay visible)
  Ctrl+C  - Quit`,
	RunE: runTUI,
}

func init() {
	tuiCmd.Flags().IntVar(&tuiDebounceMS, "debounce", 0,
		"debounce window in milliseconds (default 800)")
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(_ *cobra.Command, _ []string) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return errors.New("tui requires an interactive terminal")
	}

	// Panic recovery keeps the stack trace visible after the alternate
	// screen is torn down.
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
		}
	}()

	debounce := time.Duration(tuiDebounceMS) * time.Millisecond
	if tuiDebounceMS <= 0 {
		if ms := configStore.GetInt(file.KeySearchDebounce); ms > 0 {
			debounce = time.Duration(ms) * time.Millisecond
		}
	}

	limit := configStore.GetInt(file.KeySearchLimit)

	dispatch := observable.NewSerialDispatcher()
	defer dispatch.Close()

	live := services.NewLiveSearchService(services.LiveSearchConfig{
		Registry:   registry,
		Dispatcher: dispatch,
		Debounce:   debounce,
		Options:    domain.SearchOptions{Limit: limit},
	})
	defer live.Close()

	return tui.Run(&tui.Ports{Live: live})
}
