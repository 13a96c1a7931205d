// Package ui provides terminal UI components for the harvest CLI
// This file demonstrates example usage of the UI components
package ui

/*
Example usage of the UI components:

// Terminal colors and output
ui.PrintLogo()                                    // Print ASCII logo
ui.PrintInfo("Query", "#flood OR #storm")        // Cyan label, yellow value
ui.PrintSuccess("Harvest completed!")            // Green success message
ui.PrintError("Harvest failed", err)             // Red error message
ui.PrintWarning("Rate limit approaching")        // Yellow warning message
ui.PrintHighlight("[COLLECTING]")                // Magenta highlight message

// Progress tracking
tracker := ui.NewStatusTracker(50000)
tracker.RecordCollected(1133315519700291584)     // Count a collected status
tracker.PageFetched()                            // Count a fetched page
tracker.PrintProgress()                          // Print progress line
tracker.PrintSummary()                           // Print end-of-run summary

// Notifications (cross-platform)
notifier := ui.NewNotifier()
notifier.SendNotification("Harvest Complete", "120000 statuses collected")
notifier.SendError("Error", "Search request failed")
notifier.SendSuccess("Success", "Snapshot written")

// Direct color usage
fmt.Printf("%s: %s\n", ui.Cyan("Query"), ui.Yellow("#flood"))
fmt.Println(ui.Green("✓ Success"))
fmt.Println(ui.Red("✗ Failed"))
*/
