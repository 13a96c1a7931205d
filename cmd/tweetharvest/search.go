package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/araddon/dateparse"
	"github.com/spf13/cobra"
	"tweetharvest/pkg/auth"
	"tweetharvest/pkg/config"
	"tweetharvest/pkg/harvest"
	"tweetharvest/pkg/logger"
	"tweetharvest/pkg/ratelimit"
	"tweetharvest/pkg/twitter"
	"tweetharvest/pkg/ui"
)

var (
	// Search command flags
	terms         string
	rawQuery      string
	geocode       string
	startID       int64
	lang          string
	checkpoint    int
	csvOut        bool
	exportCSV     bool
	untilDate     string
	outputDir     string
	accountLabel  string
	rateLimitFlag int
)

// searchCmd represents the search command
var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Collect tweets matching a search query",
	Long: `Collect every tweet matching a search query, paging backward from the
newest result until the given lower-bound status ID is passed.

This command requires valid Twitter API credentials to be configured
either through:
  - Stored credentials (use 'tweetharvest auth login' to store)
  - Environment variables (TWEETHARVEST_CONSUMER_KEY and friends),
    including a local .env file
  - Configuration file

Collected tweets are flattened into fixed-column records. A full parquet
snapshot is written every checkpoint interval; --csv additionally streams
every record to a CSV file as it arrives.`,
	Example: `  # Harvest two hashtags with default settings
  tweetharvest search --terms "#flood,#storm"

  # Stop at a specific status ID and also stream a CSV
  tweetharvest search --terms "wildfire" --start_id 1132073789481787392 --csv

  # Snapshot every 10000 records into a specific directory
  tweetharvest search --terms "earthquake" --checkpoint 10000 --output ./data

  # Harvest around a location instead of by terms
  tweetharvest search --geocode "37.78,-122.41,25km"

  # Use a stored credential set
  tweetharvest search --terms "flood" --account research`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		runSearch(cmd, args)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(searchCmd)

	// Local flags for search command
	searchCmd.Flags().StringVarP(&terms, "terms", "t", "", "comma-separated search terms, joined with OR")
	searchCmd.Flags().StringVar(&rawQuery, "raw_query", "", "pre-encoded query string, used verbatim")
	searchCmd.Flags().StringVar(&geocode, "geocode", "", "restrict results to \"latitude,longitude,radius\"")
	searchCmd.Flags().Int64Var(&startID, "start_id", config.DefaultStartID, "lower-bound status ID the harvest walks back to")
	searchCmd.Flags().StringVar(&lang, "lang", "en", "restrict results to a language")
	searchCmd.Flags().IntVar(&checkpoint, "checkpoint", 50000, "records between full snapshots (0 disables snapshots)")
	searchCmd.Flags().BoolVar(&csvOut, "csv", false, "also stream records to a CSV file")
	searchCmd.Flags().BoolVar(&exportCSV, "export-csv", false, "dump a full CSV alongside the final snapshot")
	searchCmd.Flags().StringVar(&untilDate, "until", "", "only collect tweets created before this date")
	searchCmd.Flags().StringVarP(&outputDir, "output", "o", "", "output directory (default: current directory)")
	searchCmd.Flags().StringVarP(&accountLabel, "account", "a", "", "use specific stored credentials")
	searchCmd.Flags().IntVar(&rateLimitFlag, "rate-limit", 0, "proactive request pacing per minute (0 disables)")

	// Also add these flags to root command so the tool can be invoked
	// without the search subcommand
	rootCmd.Flags().StringVarP(&terms, "terms", "t", "", "comma-separated search terms, joined with OR")
	rootCmd.Flags().StringVar(&rawQuery, "raw_query", "", "pre-encoded query string, used verbatim")
	rootCmd.Flags().StringVar(&geocode, "geocode", "", "restrict results to \"latitude,longitude,radius\"")
	rootCmd.Flags().Int64Var(&startID, "start_id", config.DefaultStartID, "lower-bound status ID the harvest walks back to")
	rootCmd.Flags().StringVar(&lang, "lang", "en", "restrict results to a language")
	rootCmd.Flags().IntVar(&checkpoint, "checkpoint", 50000, "records between full snapshots (0 disables snapshots)")
	rootCmd.Flags().BoolVar(&csvOut, "csv", false, "also stream records to a CSV file")
	rootCmd.Flags().StringVar(&untilDate, "until", "", "only collect tweets created before this date")
	rootCmd.Flags().StringVarP(&outputDir, "output", "o", "", "output directory (default: current directory)")
	rootCmd.Flags().StringVarP(&accountLabel, "account", "a", "", "use specific stored credentials")
}

// Make search the default command when a query flag is given without a
// subcommand.
func init() {
	rootCmd.RunE = func(cmd *cobra.Command, args []string) error {
		if terms != "" || rawQuery != "" || geocode != "" {
			runSearch(cmd, args)
			return nil
		}
		return cmd.Help()
	}
}

func runSearch(cmd *cobra.Command, args []string) {
	// Set quiet mode if log level is error
	if logLevel == "error" {
		ui.SetQuietMode(true)
	}

	// Compile the query before touching anything network-facing
	var query string
	if terms != "" {
		query = twitter.BuildSearchTerm(terms)
	}
	if query == "" && rawQuery == "" && geocode == "" {
		ui.PrintError("No search terms provided", "use --terms, --raw_query or --geocode")
		os.Exit(1)
	}

	// Normalize --until to the YYYY-MM-DD form the API expects
	var until string
	if untilDate != "" {
		parsed, err := dateparse.ParseAny(untilDate)
		if err != nil {
			ui.PrintError("Invalid --until date", err.Error())
			os.Exit(1)
		}
		until = parsed.Format("2006-01-02")
	}

	// Build flags map from command line
	flags := make(map[string]interface{})
	if startID != config.DefaultStartID {
		flags["start_id"] = startID
	}
	if lang != "en" {
		flags["lang"] = lang
	}
	if checkpoint != 50000 {
		flags["checkpoint"] = checkpoint
	}
	if csvOut {
		flags["csv"] = true
	}
	if exportCSV {
		flags["export_csv"] = true
	}
	if outputDir != "" {
		flags["output"] = outputDir
	}
	if rateLimitFlag > 0 {
		flags["requests-per-minute"] = rateLimitFlag
	}
	if !notifications {
		flags["notifications"] = false
	}
	// Pass log level to config
	if logLevel != "info" {
		flags["log-level"] = logLevel
	}

	// Load configuration
	cfg, err := config.Load(configFile, flags)
	if err != nil {
		ui.PrintError("Failed to load configuration", err.Error())
		os.Exit(1)
	}

	// Initialize logger
	logger.Initialize(&cfg.Logging)
	log := logger.GetLogger()
	log.WithField("version", version).Info("Tweet harvester starting")

	// Handle credentials
	credManager, err := auth.NewManager()
	if err != nil {
		ui.PrintError("Failed to initialize credential manager", err.Error())
		os.Exit(1)
	}

	var creds *auth.Credentials

	// Try to get credentials from various sources
	if accountLabel != "" {
		// Use specific stored credentials
		creds, err = credManager.Retrieve(accountLabel)
		if err != nil {
			ui.PrintError("Account not found", accountLabel)
			ui.PrintInfo("Available accounts", "Use 'tweetharvest auth list' to see stored accounts")
			os.Exit(1)
		}
	} else if cfg.HasCredentials() {
		// Use credentials from config/env
		log.Info("Using API credentials from configuration")
	} else {
		// Try to get default credentials from the credential manager
		creds, err = credManager.RetrieveDefault()
		if err != nil {
			// No credentials found anywhere
			log.Error("No credentials found")
			ui.PrintError("No Twitter API credentials found", "")
			fmt.Println("\nTo store credentials securely, run:")
			fmt.Println("  tweetharvest auth login")
			fmt.Println("\nYou can also provide them through a .env file or environment variables:")
			fmt.Printf("  export %s=your_consumer_key\n", auth.EnvConsumerKey)
			fmt.Printf("  export %s=your_consumer_secret\n", auth.EnvConsumerSecret)
			fmt.Printf("  export %s=your_access_token\n", auth.EnvAccessToken)
			fmt.Printf("  export %s=your_access_secret\n", auth.EnvAccessSecret)
			os.Exit(1)
		}
	}

	// If we got credentials from the manager, update config
	if creds != nil {
		cfg.Twitter.ConsumerKey = creds.ConsumerKey
		cfg.Twitter.ConsumerSecret = creds.ConsumerSecret
		cfg.Twitter.AccessToken = creds.AccessToken
		cfg.Twitter.AccessSecret = creds.AccessSecret
		log.WithField("account", creds.Label).Info("Using stored credentials")
		ui.PrintInfo("Using account", creds.Label)
	}

	// Final credential validation
	required := []struct {
		value string
		name  string
		env   string
	}{
		{cfg.Twitter.ConsumerKey, "consumer key", auth.EnvConsumerKey},
		{cfg.Twitter.ConsumerSecret, "consumer secret", auth.EnvConsumerSecret},
		{cfg.Twitter.AccessToken, "access token", auth.EnvAccessToken},
		{cfg.Twitter.AccessSecret, "access secret", auth.EnvAccessSecret},
	}
	for _, c := range required {
		if c.value == "" {
			log.Error("Missing Twitter " + c.name)
			ui.PrintError("Missing Twitter "+c.name, fmt.Sprintf("Run 'tweetharvest auth login' or set %s", c.env))
			os.Exit(1)
		}
	}

	queryText := query
	if queryText == "" {
		if rawQuery != "" {
			queryText = rawQuery
		} else {
			queryText = geocode
		}
	}

	ui.PrintInfo("Query", queryText)
	ui.PrintInfo("Start ID", strconv.FormatInt(cfg.Search.StartID, 10))
	ui.PrintInfo("Output", cfg.Output.Directory)

	log.WithFields(map[string]interface{}{
		"query":    queryText,
		"start_id": cfg.Search.StartID,
	}).Info("Starting harvest operation")

	// Build the API client
	client := twitter.NewClient(&cfg.Twitter, log)
	if cfg.RateLimit.RequestsPerMinute > 0 {
		client.SetPacer(ratelimit.NewTokenBucket(cfg.RateLimit.RequestsPerMinute, time.Minute))
	}
	if cfg.Notifications.Enabled && cfg.Notifications.OnRateLimit {
		notifier := ui.NewNotifier()
		client.SetRateLimitHook(func(wait time.Duration) {
			notifier.SendNotification("Rate limit reached",
				fmt.Sprintf("Waiting %s for the search window to reset", wait.Round(time.Second)))
		})
	}

	ui.PrintHighlight("[INITIATING HARVEST SEQUENCE]")

	h := harvest.New(cfg, client, log)
	h.SetQuiet(quiet)

	summary, err := h.Run(context.Background(), harvest.Request{
		Query:    query,
		RawQuery: rawQuery,
		Geocode:  geocode,
		Lang:     cfg.Search.Lang,
		StartID:  cfg.Search.StartID,
		Until:    until,
	})
	if err != nil {
		log.WithError(err).WithField("query", queryText).Error("Harvest failed")
		ui.PrintError("HARVEST FAILED", err.Error())
		os.Exit(1)
	}

	log.WithFields(map[string]interface{}{
		"query":     queryText,
		"collected": summary.Collected,
		"pages":     summary.Pages,
	}).Info("Harvest completed successfully")
	ui.PrintSuccess("[HARVEST COMPLETED SUCCESSFULLY]")

	for _, f := range summary.CSVFiles {
		ui.PrintInfo("CSV", f)
	}
	if n := len(summary.SnapshotFiles); n > 0 {
		ui.PrintInfo("Snapshots", fmt.Sprintf("%d written (latest: %s)", n, summary.SnapshotFiles[n-1]))
	}
	if summary.ManifestPath != "" {
		ui.PrintInfo("Manifest", summary.ManifestPath)
	}
}
