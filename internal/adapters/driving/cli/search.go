package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lodestone-labs/pkgscout-cli/internal/core/domain"
)

var (
	searchLimit      int
	searchPrerelease bool
	searchJSON       bool
)

var searchCmd = &cobra.Command{
	Use:   "search [term]",
	Short: "Search the registry once",
	Long: `Performs a single registry search and prints the results.
For the interactive as-you-type experience, use "pkgscout tui".`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 0, "maximum number of results")
	searchCmd.Flags().BoolVar(&searchPrerelease, "prerelease", false, "include prerelease versions")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	term := args[0]

	if searchService == nil {
		return errors.New("search service not configured")
	}

	opts := domain.SearchOptions{
		Limit:      searchLimit,
		Prerelease: searchPrerelease,
	}

	results, err := searchService.Search(cmd.Context(), term, opts)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if searchJSON {
		return outputSearchJSON(cmd, results)
	}

	return outputSearchTable(cmd, results)
}

func outputSearchJSON(cmd *cobra.Command, results []domain.PackageResult) error {
	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputSearchTable(cmd *cobra.Command, results []domain.PackageResult) error {
	if len(results) == 0 {
		cmd.Println("No packages found.")
		return nil
	}

	cmd.Println("Packages:")
	cmd.Println()
	for i := range results {
		name := results[i].ID
		if results[i].Version != "" {
			name += " " + results[i].Version
		}

		cmd.Printf("  [%d] %s\n", i+1, name)
		if results[i].Description != "" {
			cmd.Printf("      %s\n", results[i].Description)
		}
		if results[i].Downloads > 0 {
			cmd.Printf("      Downloads: %d\n", results[i].Downloads)
		}
		cmd.Println()
	}

	return nil
}
