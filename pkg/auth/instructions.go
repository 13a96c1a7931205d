package auth

import (
	"fmt"
	"strings"
)

// ShowAPIKeyGuide displays step-by-step instructions for obtaining Twitter API keys
func ShowAPIKeyGuide() {
	fmt.Println(strings.Repeat("=", 80))
	fmt.Println("🔑 TWITTER API KEY GUIDE")
	fmt.Println(strings.Repeat("=", 80))
	fmt.Println()

	fmt.Println("This tool needs OAuth 1.0a credentials for the Twitter API.")
	fmt.Println("Follow these steps to create them:")
	fmt.Println()

	fmt.Println("🌐 STEP 1: Apply for a developer account")
	fmt.Println("   - Go to https://developer.twitter.com")
	fmt.Println("   - Sign in with your Twitter account")
	fmt.Println("   - Apply for access and wait for approval")
	fmt.Println()

	fmt.Println("🛠  STEP 2: Create an app")
	fmt.Println("   - Open the developer portal dashboard")
	fmt.Println("   - Create a new project and an app inside it")
	fmt.Println("   - Give it any name; the name is not used by this tool")
	fmt.Println()

	fmt.Println("🔐 STEP 3: Generate keys and tokens")
	fmt.Println("   - Open your app's 'Keys and tokens' tab")
	fmt.Println("   - Copy the API Key and API Key Secret (the consumer pair)")
	fmt.Println("   - Generate an Access Token and Access Token Secret")
	fmt.Println()

	fmt.Println("📋 STEP 4: You need these four values:")
	fmt.Println("   ┌──────────────────┬────────────────────────────────────────┐")
	fmt.Println("   │ Value            │ Where it appears in the portal        │")
	fmt.Println("   ├──────────────────┼────────────────────────────────────────┤")
	fmt.Println("   │ Consumer Key     │ API Key                                │")
	fmt.Println("   │ Consumer Secret  │ API Key Secret                         │")
	fmt.Println("   │ Access Token     │ Access Token                           │")
	fmt.Println("   │ Access Secret    │ Access Token Secret                    │")
	fmt.Println("   └──────────────────┴────────────────────────────────────────┘")
	fmt.Println()

	fmt.Println("💡 STEP 5: Hand them to this tool, either way works:")
	fmt.Println("   • Run 'tweetharvest auth login' and paste them when prompted")
	fmt.Println("   • Or export them as environment variables:")
	fmt.Printf("       export %s=...\n", EnvConsumerKey)
	fmt.Printf("       export %s=...\n", EnvConsumerSecret)
	fmt.Printf("       export %s=...\n", EnvAccessToken)
	fmt.Printf("       export %s=...\n", EnvAccessSecret)
	fmt.Println()

	fmt.Println("⚠️  SECURITY WARNING:")
	fmt.Println("   • These values give API access on behalf of your account")
	fmt.Println("   • NEVER commit them to a repository or share them")
	fmt.Println("   • Store them securely (this tool encrypts them)")
	fmt.Println()
	fmt.Println(strings.Repeat("=", 80))
	fmt.Println()
}

// ShowQuickSetupGuide shows a condensed version for experienced users
func ShowQuickSetupGuide() {
	fmt.Println("\n🔑 Quick Guide: developer.twitter.com → your app → Keys and tokens")
	fmt.Println("   Need: consumer key, consumer secret, access token, access secret")
	fmt.Println("   Run 'tweetharvest auth login' to store them, or export")
	fmt.Printf("   %s, %s,\n   %s and %s\n",
		EnvConsumerKey, EnvConsumerSecret, EnvAccessToken, EnvAccessSecret)
}
