package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"
	"tweetharvest/pkg/ui"
)

var (
	// Version information
	version   = "1.0.0"
	gitCommit = "unknown"
	buildDate = "unknown"

	// Global flags
	configFile    string
	logLevel      string
	notifications bool
	quiet         bool
	progressOnly  bool
	verbose       bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "tweetharvest",
	Short: "Archive tweets matching a search query, walking backward through time",
	Long: `Tweet Harvest is a command-line tool for collecting tweets that match
a search query, paging backward from the newest result down to a given
status ID.

Features:
  - Backward pagination over the standard search API
  - Streaming CSV output and periodic full parquet snapshots
  - Secure credential storage using system keychain
  - Automatic waiting through API rate-limit windows
  - Progress tracking and desktop notifications
  - Run manifest recording what each harvest produced

For more information and examples, visit: https://github.com/yourusername/tweetharvest`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, gitCommit, buildDate),
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// Progress mode is default unless verbose is specified
		if !verbose && !quiet {
			progressOnly = true
		}

		// Set quiet mode if requested or log level is error
		if quiet || logLevel == "error" {
			ui.SetQuietMode(true)
		}

		// Set progress-only mode
		if progressOnly {
			ui.SetProgressOnlyMode(true)
			// Also set log level to error to suppress logs
			logLevel = "error"
		}

		// Don't show logo for certain commands
		if cmd.Name() != "version" && cmd.Name() != "help" && cmd.Name() != "completion" {
			ui.PrintLogo()
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file (default is $HOME/.tweetharvest.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&notifications, "notifications", true, "enable desktop notifications")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress all output except errors")
	rootCmd.PersistentFlags().BoolVarP(&progressOnly, "progress", "p", false, "show only progress line and essential info")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "show all output (logo, logs, progress)")

	// Version template
	rootCmd.SetVersionTemplate(`Tweet Harvest {{.Version}}
Go Version: ` + runtime.Version() + `
OS/Arch: ` + runtime.GOOS + `/` + runtime.GOARCH + `
`)

	// Disable default completion command
	rootCmd.CompletionOptions.DisableDefaultCmd = true
}
