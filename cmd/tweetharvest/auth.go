package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"
	"tweetharvest/pkg/auth"
	"tweetharvest/pkg/config"
	"tweetharvest/pkg/logger"
	"tweetharvest/pkg/twitter"
	"tweetharvest/pkg/ui"
)

// authCmd represents the auth command
var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage Twitter API credentials",
	Long: `Manage stored Twitter API credentials securely.

Credentials are stored using:
  - System keychain (when available)
  - Encrypted file with PBKDF2 key derivation
  - Environment variables (including a local .env file)

Never share your credentials or config files!`,
}

// loginCmd represents the auth login command
var loginCmd = &cobra.Command{
	Use:   "login [label]",
	Short: "Store Twitter API credentials securely",
	Long: `Store Twitter API credentials securely in the system keychain or an
encrypted file.

You will be prompted for:
  - A label for this credential set (press Enter for "default")
  - Consumer key (API key)
  - Consumer secret (API secret key)
  - Access token
  - Access token secret

All four values come from the app's "Keys and tokens" page on the
Twitter developer portal.`,
	Example: `  # Interactive login
  tweetharvest auth login

  # Login with a label
  tweetharvest auth login research`,
	Args: cobra.MaximumNArgs(1),
	Run:  runLogin,
}

// logoutCmd represents the auth logout command
var logoutCmd = &cobra.Command{
	Use:     "logout [label]",
	Aliases: []string{"remove"},
	Short:   "Remove stored credentials",
	Long: `Remove stored Twitter API credentials.

If no label is provided, you will be shown a list of stored credential
sets to choose from. You can also remove all of them at once.`,
	Example: `  # Interactive logout
  tweetharvest auth logout

  # Remove a specific credential set
  tweetharvest auth logout research`,
	Args: cobra.MaximumNArgs(1),
	Run:  runLogout,
}

// authListCmd represents the auth list command
var authListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all stored credential sets",
	Long:  `List all stored Twitter API credential sets with secrets masked.`,
	Run:   runAuthList,
}

// statusCmd represents the auth status command
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Verify the configured credentials against the API",
	Long: `Resolve credentials the same way the search command does and call the
account verification endpoint to confirm they work.`,
	Run: runAuthStatus,
}

func init() {
	rootCmd.AddCommand(authCmd)
	authCmd.AddCommand(loginCmd)
	authCmd.AddCommand(logoutCmd)
	authCmd.AddCommand(authListCmd)
	authCmd.AddCommand(statusCmd)
}

func runLogin(cmd *cobra.Command, args []string) {
	manager, err := auth.NewManager()
	if err != nil {
		ui.PrintError("Failed to initialize credential manager", err.Error())
		os.Exit(1)
	}

	var label string
	if len(args) > 0 {
		label = args[0]
	}

	// Interactive prompts
	reader := bufio.NewReader(os.Stdin)

	// Show the key extraction guide first
	auth.ShowAPIKeyGuide()

	// Ask if ready to continue
	fmt.Print("Ready to enter your API keys? (Y/n): ")
	ready, _ := reader.ReadString('\n')
	if strings.ToLower(strings.TrimSpace(ready)) == "n" {
		fmt.Println("\nRun 'tweetharvest auth login' when you're ready.")
		return
	}

	fmt.Println() // Add spacing

	if label == "" {
		fmt.Print("🏷️  Label for this credential set (press Enter for \"default\"): ")
		input, err := reader.ReadString('\n')
		if err != nil {
			ui.PrintError("Failed to read label", err.Error())
			os.Exit(1)
		}
		label = strings.TrimSpace(input)
		if label == "" {
			label = "default"
		}
	}

	// Check if the label already exists
	if existing, _ := manager.Retrieve(label); existing != nil {
		fmt.Printf("\n⚠️  Credentials '%s' already exist. Update them? (y/N): ", label)
		input, _ := reader.ReadString('\n')
		if !strings.HasPrefix(strings.ToLower(strings.TrimSpace(input)), "y") {
			return
		}
	}

	// Get consumer key with validation
	var consumerKey string
	for {
		fmt.Print("\n🔑 Consumer key (API key): ")
		input, err := reader.ReadString('\n')
		if err != nil {
			ui.PrintError("Failed to read consumer key", err.Error())
			os.Exit(1)
		}
		consumerKey = strings.TrimSpace(input)

		// Basic validation
		if len(consumerKey) < 15 {
			fmt.Println("\n❌ That doesn't look like a valid consumer key.")
			fmt.Println("   It should be a ~25 character alphanumeric string.")
			fmt.Println("   Example: xvz1evFS4wEEPTGEFPHBog")
			fmt.Print("\nTry again? (Y/n): ")
			retry, _ := reader.ReadString('\n')
			if strings.ToLower(strings.TrimSpace(retry)) == "n" {
				os.Exit(1)
			}
			continue
		}
		break
	}

	fmt.Println("\n🔐 Enter your secrets (they will be hidden as you type):")

	// Get consumer secret
	fmt.Print("\nConsumer secret (API secret key): ")
	consumerSecret, err := readSecret()
	if err != nil {
		ui.PrintError("Failed to read consumer secret", err.Error())
		os.Exit(1)
	}
	if consumerSecret == "" {
		ui.PrintError("Consumer secret is required", "")
		os.Exit(1)
	}

	// Get access token with validation
	var accessToken string
	for {
		fmt.Print("\nAccess token: ")
		accessToken, err = readSecret()
		if err != nil {
			ui.PrintError("Failed to read access token", err.Error())
			os.Exit(1)
		}

		// Basic validation: user access tokens are "<user id>-<token>"
		if len(accessToken) < 20 || !strings.Contains(accessToken, "-") {
			fmt.Println("\n❌ That doesn't look like a valid access token.")
			fmt.Println("   It should be a long string containing a dash.")
			fmt.Println("   Example: 1132073789-NoFoZPcSZYqAyQTfeHLYXxfnjQUXfKWPsTbpUTn")
			fmt.Print("\nTry again? (Y/n): ")
			retry, _ := reader.ReadString('\n')
			if strings.ToLower(strings.TrimSpace(retry)) == "n" {
				os.Exit(1)
			}
			continue
		}
		break
	}

	// Get access token secret
	fmt.Print("\nAccess token secret: ")
	accessSecret, err := readSecret()
	if err != nil {
		ui.PrintError("Failed to read access token secret", err.Error())
		os.Exit(1)
	}
	if accessSecret == "" {
		ui.PrintError("Access token secret is required", "")
		os.Exit(1)
	}

	// Show what we're about to store
	fmt.Println("\n\n📋 Summary:")
	fmt.Printf("   Label: %s\n", label)
	fmt.Printf("   Consumer key: %s\n", consumerKey)
	fmt.Printf("   Consumer secret: %s (hidden)\n", maskValue(consumerSecret))
	fmt.Printf("   Access token: %s (hidden)\n", maskValue(accessToken))
	fmt.Printf("   Access secret: %s (hidden)\n", maskValue(accessSecret))

	creds := &auth.Credentials{
		Label:          label,
		ConsumerKey:    consumerKey,
		ConsumerSecret: consumerSecret,
		AccessToken:    accessToken,
		AccessSecret:   accessSecret,
		LastModified:   time.Now(),
	}

	// Offer to verify against the API before storing
	fmt.Print("\n🔎 Verify these credentials against the API? (Y/n): ")
	verify, _ := reader.ReadString('\n')
	if strings.ToLower(strings.TrimSpace(verify)) != "n" {
		if user, err := verifyCredentials(creds); err != nil {
			ui.PrintWarning("Verification failed", err.Error())
			fmt.Print("\nStore them anyway? (y/N): ")
			anyway, _ := reader.ReadString('\n')
			if !strings.HasPrefix(strings.ToLower(strings.TrimSpace(anyway)), "y") {
				return
			}
		} else {
			ui.PrintSuccess(fmt.Sprintf("Authenticated as @%s", user.ScreenName))
		}
	}

	// Store credentials
	fmt.Println("\n💾 Storing credentials securely...")
	if err := manager.Store(creds); err != nil {
		ui.PrintError("Failed to store credentials", err.Error())
		os.Exit(1)
	}

	fmt.Println("\n🎉 Credentials stored successfully!")
	ui.PrintSuccess(fmt.Sprintf("Credentials saved: %s", label))

	// Show where credentials are stored
	fmt.Println("\n🔒 Security Information:")
	fmt.Println("   Your credentials are encrypted and stored in:")
	if auth.IsKeyringAvailable() {
		fmt.Println("   • System keychain (primary)")
	}
	fmt.Println("   • Encrypted file (backup)")

	// Show how to use
	fmt.Println("\n📖 Quick Start Guide:")
	fmt.Println("   Harvest tweets matching your terms:")
	fmt.Printf("   $ tweetharvest search --terms \"#flood,#storm\"\n")
	fmt.Println("\n   Stream a CSV while snapshotting:")
	fmt.Printf("   $ tweetharvest search --terms \"wildfire\" --csv\n")
	fmt.Println("\n   Use this credential set explicitly:")
	fmt.Printf("   $ tweetharvest search --terms \"flood\" --account %s\n", label)
	fmt.Println("\n   Show more options:")
	fmt.Printf("   $ tweetharvest search --help\n")
	fmt.Println("\n⚠️  Never share your credentials or config files!")
}

func runLogout(cmd *cobra.Command, args []string) {
	manager, err := auth.NewManager()
	if err != nil {
		ui.PrintError("Failed to initialize credential manager", err.Error())
		os.Exit(1)
	}

	if len(args) == 0 {
		// List credential sets and ask which to remove
		credsList, err := manager.List()
		if err != nil || len(credsList) == 0 {
			ui.PrintError("No stored credentials found", "")
			return
		}

		if len(credsList) == 1 {
			// Only one credential set, confirm deletion
			creds := credsList[0]
			reader := bufio.NewReader(os.Stdin)
			fmt.Printf("Remove credentials '%s'? (y/N): ", creds.Label)
			input, _ := reader.ReadString('\n')
			if !strings.HasPrefix(strings.ToLower(strings.TrimSpace(input)), "y") {
				return
			}

			if err := manager.Delete(creds.Label); err != nil {
				ui.PrintError("Failed to remove credentials", err.Error())
				os.Exit(1)
			}
			ui.PrintSuccess("Credentials removed: " + creds.Label)
			return
		}

		// Multiple credential sets, show menu
		fmt.Println("Select credentials to remove:")
		for i, creds := range credsList {
			fmt.Printf("  %d. %s\n", i+1, creds.Label)
		}
		fmt.Printf("  %d. Remove all credentials\n", len(credsList)+1)
		fmt.Printf("  0. Cancel\n\n")

		reader := bufio.NewReader(os.Stdin)
		fmt.Print("Choice: ")
		input, _ := reader.ReadString('\n')

		var choice int
		fmt.Sscanf(strings.TrimSpace(input), "%d", &choice)

		if choice == 0 {
			return
		} else if choice == len(credsList)+1 {
			// Remove all
			fmt.Print("Remove ALL credentials? This cannot be undone! (yes/N): ")
			confirm, _ := reader.ReadString('\n')
			if strings.TrimSpace(confirm) != "yes" {
				return
			}

			if err := manager.DeleteAll(); err != nil {
				ui.PrintError("Failed to remove all credentials", err.Error())
				os.Exit(1)
			}
			ui.PrintSuccess("All credentials removed")
			return
		} else if choice > 0 && choice <= len(credsList) {
			creds := credsList[choice-1]
			if err := manager.Delete(creds.Label); err != nil {
				ui.PrintError("Failed to remove credentials", err.Error())
				os.Exit(1)
			}
			ui.PrintSuccess("Credentials removed: " + creds.Label)
			return
		} else {
			ui.PrintError("Invalid choice", "")
			os.Exit(1)
		}
	}

	// Label provided as argument
	label := args[0]
	if err := manager.Delete(label); err != nil {
		ui.PrintError("Failed to remove credentials", err.Error())
		os.Exit(1)
	}
	ui.PrintSuccess("Credentials removed: " + label)
}

func runAuthList(cmd *cobra.Command, args []string) {
	manager, err := auth.NewManager()
	if err != nil {
		ui.PrintError("Failed to initialize credential manager", err.Error())
		os.Exit(1)
	}

	credsList, err := manager.List()
	if err != nil {
		ui.PrintError("Failed to list credentials", err.Error())
		os.Exit(1)
	}

	if len(credsList) == 0 {
		ui.PrintInfo("No stored credentials", "Use 'tweetharvest auth login' to add some")
		return
	}

	ui.PrintHighlight("Stored Credentials")
	fmt.Println()

	for i, creds := range credsList {
		sanitized := auth.Sanitize(creds)
		fmt.Printf("%d. Label: %s\n", i+1, sanitized.Label)
		fmt.Printf("   Consumer key: %s\n", sanitized.ConsumerKey)
		fmt.Printf("   Consumer secret: %s\n", sanitized.ConsumerSecret)
		fmt.Printf("   Access token: %s\n", sanitized.AccessToken)
		fmt.Printf("   Access secret: %s\n", sanitized.AccessSecret)
		fmt.Printf("   Last modified: %s\n", sanitized.LastModified.Format("2006-01-02 15:04:05"))
		fmt.Println()
	}
}

func runAuthStatus(cmd *cobra.Command, args []string) {
	// Resolve credentials the same way the search command does
	cfg, err := config.Load(configFile, nil)
	if err != nil {
		ui.PrintError("Failed to load configuration", err.Error())
		os.Exit(1)
	}

	source := "configuration"
	if !cfg.HasCredentials() {
		manager, err := auth.NewManager()
		if err != nil {
			ui.PrintError("Failed to initialize credential manager", err.Error())
			os.Exit(1)
		}

		creds, err := manager.RetrieveDefault()
		if err != nil {
			ui.PrintError("No Twitter API credentials found", "")
			auth.ShowQuickSetupGuide()
			os.Exit(1)
		}

		cfg.Twitter.ConsumerKey = creds.ConsumerKey
		cfg.Twitter.ConsumerSecret = creds.ConsumerSecret
		cfg.Twitter.AccessToken = creds.AccessToken
		cfg.Twitter.AccessSecret = creds.AccessSecret
		source = fmt.Sprintf("stored credentials (%s)", creds.Label)
	}

	ui.PrintInfo("Credential source", source)
	ui.PrintInfo("Verifying against", cfg.Twitter.BaseURL)

	client := twitter.NewClient(&cfg.Twitter, logger.GetLogger())

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Twitter.RequestTimeout)
	defer cancel()

	user, err := client.VerifyCredentials(ctx)
	if err != nil {
		ui.PrintError("Credential verification failed", err.Error())
		os.Exit(1)
	}

	ui.PrintSuccess(fmt.Sprintf("Authenticated as @%s (%s)", user.ScreenName, user.Name))
}

// verifyCredentials makes a verification call with credentials that are
// not stored yet.
func verifyCredentials(creds *auth.Credentials) (*twitter.User, error) {
	cfg := config.DefaultConfig()
	cfg.Twitter.ConsumerKey = creds.ConsumerKey
	cfg.Twitter.ConsumerSecret = creds.ConsumerSecret
	cfg.Twitter.AccessToken = creds.AccessToken
	cfg.Twitter.AccessSecret = creds.AccessSecret

	client := twitter.NewClient(&cfg.Twitter, logger.GetLogger())

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Twitter.RequestTimeout)
	defer cancel()

	return client.VerifyCredentials(ctx)
}

// maskValue keeps the first and last four characters of a secret for
// display.
func maskValue(s string) string {
	if len(s) <= 8 {
		return "********"
	}
	return s[:4] + "..." + s[len(s)-4:]
}

// readSecret reads a secret from stdin without echoing
func readSecret() (string, error) {
	// Try to read without echo
	if term.IsTerminal(int(syscall.Stdin)) {
		secret, err := term.ReadPassword(int(syscall.Stdin))
		fmt.Println() // New line after hidden input
		if err == nil {
			return string(secret), nil
		}
	}

	// Fallback to regular input
	reader := bufio.NewReader(os.Stdin)
	input, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(input), nil
}
