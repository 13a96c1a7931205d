package config

// Example usage of the configuration system:
//
// 1. Load configuration with all sources:
//
//     config, err := config.Load("", nil)
//     if err != nil {
//         log.Fatal(err)
//     }
//
// 2. Load with custom config file:
//
//     config, err := config.Load("/path/to/config.yaml", nil)
//     if err != nil {
//         log.Fatal(err)
//     }
//
// 3. Load with command line flags:
//
//     flags := map[string]interface{}{
//         "lang": "en",
//         "start_id": int64(1132073789481787392),
//         "checkpoint": 50000,
//         "csv": true,
//         "log-level": "debug",
//     }
//     config, err := config.Load("", flags)
//     if err != nil {
//         log.Fatal(err)
//     }
//
// 4. Programmatic configuration:
//
//     config := config.DefaultConfig()
//     config.Twitter.ConsumerKey = "your-consumer-key"
//     config.Twitter.ConsumerSecret = "your-consumer-secret"
//     config.Twitter.AccessToken = "your-access-token"
//     config.Twitter.AccessSecret = "your-access-secret"
//
//     if err := config.Validate(); err != nil {
//         log.Fatal(err)
//     }
//
// 5. Save configuration to file:
//
//     if err := config.Save(".tweetharvest.yaml"); err != nil {
//         log.Fatal(err)
//     }
//
// 6. Environment variables:
//
//     export TWEETHARVEST_CONSUMER_KEY="your-consumer-key"
//     export TWEETHARVEST_CONSUMER_SECRET="your-consumer-secret"
//     export TWEETHARVEST_ACCESS_TOKEN="your-access-token"
//     export TWEETHARVEST_ACCESS_SECRET="your-access-secret"
//     export TWEETHARVEST_OUTPUT_DIR="./harvest"
//     export TWEETHARVEST_REQUESTS_PER_MINUTE="30"
//     export TWEETHARVEST_NOTIFICATIONS_ENABLED="true"
//     export TWEETHARVEST_LOG_LEVEL="debug"
//
// 7. Using configuration in your application:
//
//     // Create Twitter client with config
//     client := twitter.NewClient(&cfg.Twitter, log)
//
//     // Set up client-side pacing
//     client.SetPacer(ratelimit.NewTokenBucket(
//         cfg.RateLimit.RequestsPerMinute,
//         time.Minute,
//     ))
//
//     // Stream search pages into the configured sinks
//     harvester := harvest.New(cfg, client, log)
