package cli

import (
	"errors"
	"fmt"
	"sort"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/lodestone-labs/pkgscout-cli/internal/adapters/driven/config/file"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage pkgscout configuration",
	Long: `View and change configuration stored in ~/.pkgscout/config.toml.

Use subcommands to show, get or set individual keys.`,
	RunE: runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE:  runConfigShow,
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Print a single configuration value",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigGet,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Long: `Set a configuration value and persist it.

Known keys:
  registry.source     - "nuget", "github" or "demo"
  registry.url        - override the registry endpoint
  registry.token      - access token (github source)
  search.limit        - maximum results per search
  search.debounce_ms  - debounce window in milliseconds`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	if configStore == nil {
		return errors.New("config store not configured")
	}

	cmd.Println("Current Configuration")
	cmd.Println("=====================")
	cmd.Println()

	cmd.Println("[Registry]")
	source := configStore.GetString(file.KeyRegistrySource)
	if source == "" {
		source = "nuget (default)"
	}
	cmd.Printf("  Source: %s\n", source)
	if url := configStore.GetString(file.KeyRegistryURL); url != "" {
		cmd.Printf("  URL: %s\n", url)
	}
	if token := configStore.GetString(file.KeyRegistryToken); token != "" {
		cmd.Printf("  Token: %s\n", maskToken(token))
	} else {
		cmd.Printf("  Token: (not set)\n")
	}
	cmd.Println()

	cmd.Println("[Search]")
	if limit := configStore.GetInt(file.KeySearchLimit); limit > 0 {
		cmd.Printf("  Limit: %d\n", limit)
	} else {
		cmd.Printf("  Limit: (default)\n")
	}
	if ms := configStore.GetInt(file.KeySearchDebounce); ms > 0 {
		cmd.Printf("  Debounce: %dms\n", ms)
	} else {
		cmd.Printf("  Debounce: (default)\n")
	}

	return nil
}

func runConfigGet(cmd *cobra.Command, args []string) error {
	if configStore == nil {
		return errors.New("config store not configured")
	}

	key := args[0]
	val, ok := configStore.Get(key)
	if !ok {
		return fmt.Errorf("key %q is not set", key)
	}

	if key == file.KeyRegistryToken {
		if s, isString := val.(string); isString {
			cmd.Println(maskToken(s))
			return nil
		}
	}

	cmd.Printf("%v\n", val)
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	if configStore == nil {
		return errors.New("config store not configured")
	}

	key, raw := args[0], args[1]
	if !isKnownKey(key) {
		return fmt.Errorf("unknown key %q (known: %v)", key, knownKeys())
	}

	value, err := coerceValue(key, raw)
	if err != nil {
		return err
	}

	if err := configStore.Set(key, value); err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}

	cmd.Printf("Set %s\n", key)
	return nil
}

// Helper functions.

var integerKeys = map[string]bool{
	file.KeySearchLimit:    true,
	file.KeySearchDebounce: true,
}

func knownKeys() []string {
	keys := []string{
		file.KeyRegistrySource,
		file.KeyRegistryURL,
		file.KeyRegistryToken,
		file.KeySearchLimit,
		file.KeySearchDebounce,
	}
	sort.Strings(keys)
	return keys
}

func isKnownKey(key string) bool {
	for _, k := range knownKeys() {
		if k == key {
			return true
		}
	}
	return false
}

// coerceValue parses integers for the numeric keys so the stored TOML
// has the right type; everything else stays a string.
func coerceValue(key, raw string) (any, error) {
	if !integerKeys[key] {
		return raw, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return nil, fmt.Errorf("%s requires a non-negative integer, got %q", key, raw)
	}
	return int64(n), nil
}

func maskToken(token string) string {
	if len(token) <= 8 {
		return "****"
	}
	return token[:4] + "..." + token[len(token)-4:]
}
