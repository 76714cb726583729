// Package cli provides the pkgscout command line interface.
// It is a driving adapter: commands wire configuration and registry
// adapters into the core services and invoke them.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lodestone-labs/pkgscout-cli/internal/adapters/driven/config/file"
	"github.com/lodestone-labs/pkgscout-cli/internal/adapters/driven/registry/github"
	"github.com/lodestone-labs/pkgscout-cli/internal/adapters/driven/registry/memory"
	"github.com/lodestone-labs/pkgscout-cli/internal/adapters/driven/registry/nuget"
	"github.com/lodestone-labs/pkgscout-cli/internal/core/ports/driven"
	"github.com/lodestone-labs/pkgscout-cli/internal/core/ports/driving"
	"github.com/lodestone-labs/pkgscout-cli/internal/core/services"
	"github.com/lodestone-labs/pkgscout-cli/internal/logger"
)

// version is set at build time via -ldflags.
var version = "0.1.0-dev"

var (
	verboseFlag    bool
	configDir      string
	registrySource string
	registryURL    string
	registryToken  string
)

// Wired services, populated by initServices before any command runs.
var (
	configStore   driven.ConfigStore
	registry      driven.Registry
	searchService driving.SearchService
)

var rootCmd = &cobra.Command{
	Use:   "pkgscout",
	Short: "Search package registries as you type",
	Long: `pkgscout searches package registries with a reactive, debounced
pipeline: rapid keystrokes collapse into a single lookup, stale lookups
are cancelled, and only the most recent result is ever shown.`,
	SilenceUsage:      true,
	PersistentPreRunE: initServices,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false,
		"enable verbose logging to stderr")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "",
		"configuration directory (default ~/.pkgscout)")
	rootCmd.PersistentFlags().StringVar(&registrySource, "registry", "",
		"registry source: nuget, github or demo")
	rootCmd.PersistentFlags().StringVar(&registryURL, "registry-url", "",
		"override the registry endpoint URL")
	rootCmd.PersistentFlags().StringVar(&registryToken, "token", "",
		"access token for the registry (github source)")
}

// initServices builds the driven adapters and core services shared by
// all commands.
func initServices(_ *cobra.Command, _ []string) error {
	logger.SetVerbose(verboseFlag)

	store, err := file.NewConfigStore(configDir)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	configStore = store

	reg, err := buildRegistry(store)
	if err != nil {
		return err
	}
	registry = reg
	searchService = services.NewSearchService(reg)

	return nil
}

// buildRegistry selects the registry adapter. Flags take precedence
// over the config file; the public NuGet search service is the default.
func buildRegistry(store driven.ConfigStore) (driven.Registry, error) {
	source := registrySource
	if source == "" {
		source = store.GetString(file.KeyRegistrySource)
	}
	if source == "" {
		source = "nuget"
	}

	switch source {
	case "nuget":
		baseURL := registryURL
		if baseURL == "" {
			baseURL = store.GetString(file.KeyRegistryURL)
		}
		return nuget.NewClient(nuget.Config{BaseURL: baseURL}), nil

	case "github":
		token := registryToken
		if token == "" {
			token = store.GetString(file.KeyRegistryToken)
		}
		return github.NewClient(github.Config{Token: token, BaseURL: registryURL})

	case "demo":
		return memory.NewDemoRegistry(), nil

	default:
		return nil, fmt.Errorf("unknown registry source %q", source)
	}
}
