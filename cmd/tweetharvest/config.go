package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
	"tweetharvest/pkg/config"
	"tweetharvest/pkg/ui"
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration files",
	Long: `Manage Tweet Harvest configuration files.

Configuration can be loaded from:
  - Command line flags (highest priority)
  - Environment variables (TWEETHARVEST_*, including a local .env file)
  - Configuration file
  - Default values (lowest priority)`,
}

// configInitCmd represents the config init command
var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create an example configuration file",
	Long: `Create an example configuration file with all available options.

The file will be created in the current directory as '.tweetharvest.yaml'
unless a different path is specified with the --config flag.`,
	Run: runConfigInit,
}

// configShowCmd represents the config show command
var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long: `Show the current configuration including values from all sources:
  - Environment variables
  - Configuration file
  - Default values

Sensitive values like credentials will be masked for security.`,
	Run: runConfigShow,
}

// configPathCmd represents the config path command
var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show which configuration file would be used",
	Long: `Show the configuration file the tool would load, along with every
location that is searched when no --config flag is given.`,
	Run: runConfigPath,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configPathCmd)
}

func runConfigInit(cmd *cobra.Command, args []string) {
	// Determine config file path
	configPath := configFile
	if configPath == "" {
		configPath = ".tweetharvest.yaml"
	}

	// Check if file already exists
	if _, err := os.Stat(configPath); err == nil {
		ui.PrintError("Configuration file already exists", configPath)
		fmt.Println("\nTo overwrite, first remove the existing file:")
		fmt.Printf("  rm %s\n", configPath)
		os.Exit(1)
	}

	// Create example configuration
	exampleConfig := `# Tweet Harvest Configuration File
#
# This file contains all available configuration options.
# You can also use environment variables prefixed with TWEETHARVEST_
# For example: TWEETHARVEST_CONSUMER_KEY, TWEETHARVEST_START_ID

# Twitter API credentials and client settings
twitter:
  # OAuth 1.0a credentials (required)
  # Get these from your app's "Keys and tokens" page on the developer
  # portal, or store them with 'tweetharvest auth login' instead.
  consumer_key: ""
  consumer_secret: ""
  access_token: ""
  access_secret: ""

  # API root. Only change this for testing against a mock server.
  base_url: "https://api.twitter.com/1.1"

  # Sleep through API rate-limit windows instead of failing
  auto_wait_rate_limit: true

# Search defaults, overridable per run from the CLI
search:
  # Restrict results to a language
  lang: "en"

  # Lower-bound status ID the harvest walks back to
  start_id: 1132073789481787392

  # Records between full snapshots (0 disables snapshots)
  checkpoint: 50000

# Output settings
output:
  # Directory for CSV files, snapshots and the manifest
  directory: "."

  # Stream every record to a CSV file as it arrives
  csv: false

  # Dump a full CSV alongside the final snapshot
  export_csv: false

  # Write a JSON manifest describing each run
  manifest: true

  # Derive row timestamps with the legacy lenient parse that stamps
  # every status with the 2019 collection year
  loose_timestamps: false

# Client-side request pacing
rate_limit:
  # Proactive requests per minute (0 disables pacing; the API's own
  # rate-limit windows are always respected)
  requests_per_minute: 0

  # Requests allowed to burst before pacing kicks in
  burst_size: 10

# Desktop notification preferences
notifications:
  enabled: true
  on_complete: true
  on_error: true
  on_rate_limit: false

# Logging configuration
logging:
  # Log level: debug, info, warn, error
  level: "info"

  # Log file path (optional, JSON formatted)
  # Leave empty to log to the console only
  file: ""
`

	// Write configuration file
	if err := os.WriteFile(configPath, []byte(exampleConfig), 0600); err != nil {
		ui.PrintError("Failed to create configuration file", err.Error())
		os.Exit(1)
	}

	ui.PrintSuccess("Configuration file created: " + configPath)
	fmt.Println("\nNext steps:")
	fmt.Println("1. Store API credentials with 'tweetharvest auth login' (or edit the file)")
	fmt.Println("2. Run 'tweetharvest config show' to check the configuration")
	fmt.Println("3. Start collecting with 'tweetharvest search --terms \"#flood,#storm\"'")
}

func runConfigShow(cmd *cobra.Command, args []string) {
	// Load configuration
	cfg, err := config.Load(configFile, nil)
	if err != nil {
		ui.PrintError("Failed to load configuration", err.Error())
		os.Exit(1)
	}

	// Create a sanitized version for display
	displayCfg := *cfg

	// Mask sensitive values
	displayCfg.Twitter.ConsumerKey = maskConfigValue(displayCfg.Twitter.ConsumerKey)
	displayCfg.Twitter.ConsumerSecret = maskConfigValue(displayCfg.Twitter.ConsumerSecret)
	displayCfg.Twitter.AccessToken = maskConfigValue(displayCfg.Twitter.AccessToken)
	displayCfg.Twitter.AccessSecret = maskConfigValue(displayCfg.Twitter.AccessSecret)

	// Convert to YAML for display
	data, err := yaml.Marshal(&displayCfg)
	if err != nil {
		ui.PrintError("Failed to format configuration", err.Error())
		os.Exit(1)
	}

	ui.PrintHighlight("Current Configuration")
	fmt.Println()
	fmt.Print(string(data))

	// Show configuration sources
	fmt.Println("\nConfiguration sources (in order of priority):")
	fmt.Println("1. Command line flags")
	fmt.Println("2. Environment variables (TWEETHARVEST_*)")
	if configFile != "" {
		fmt.Printf("3. Configuration file: %s\n", configFile)
	} else if found := config.FindConfigFile(); found != "" {
		fmt.Printf("3. Configuration file: %s\n", found)
	} else {
		fmt.Println("3. Configuration file: (none found)")
	}
	fmt.Println("4. Default values")
}

func runConfigPath(cmd *cobra.Command, args []string) {
	if configFile != "" {
		ui.PrintInfo("Configuration file", configFile)
		return
	}

	if found := config.FindConfigFile(); found != "" {
		ui.PrintInfo("Configuration file", found)
		return
	}

	ui.PrintWarning("No configuration file found; defaults apply")
	fmt.Println("\nLocations searched, in order:")
	for _, loc := range config.DefaultConfigLocations() {
		fmt.Printf("  %s\n", loc)
	}
	fmt.Println("\nCreate one with 'tweetharvest config init'.")
}

// maskConfigValue hides all but the edges of a credential value.
func maskConfigValue(s string) string {
	if s == "" {
		return ""
	}
	if len(s) > 8 {
		return s[:4] + "..." + s[len(s)-4:]
	}
	return "***"
}
