package twitter

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// API endpoints
const (
	// BaseURL is the production v1.1 REST API root.
	BaseURL = "https://api.twitter.com/1.1"

	SearchEndpoint            = "/search/tweets.json"
	VerifyCredentialsEndpoint = "/account/verify_credentials.json"
)

// Search parameter defaults and bounds
const (
	// DefaultCount is the page size requested from the search API.
	// 100 is the most the endpoint serves per page.
	DefaultCount = 100
	// MaxCount is the hard cap the API enforces on count.
	MaxCount = 100

	TweetModeExtended = "extended"
	ResultTypeRecent  = "recent"
)

// SearchParams describes one call to the search endpoint. At least one
// of Query, Geocode or RawQuery must be set.
type SearchParams struct {
	// Query is the q parameter. The client URL-encodes it.
	Query string
	// Geocode restricts results to "latitude,longitude,radius".
	Geocode string
	// RawQuery is a pre-encoded query string used verbatim in place of
	// every other parameter.
	RawQuery string
	Lang     string
	// Count is the requested page size, clamped to MaxCount. Zero
	// falls back to DefaultCount.
	Count int
	// MaxID limits results to statuses with an ID at or below it.
	// Zero means no upper bound.
	MaxID int64
	// SinceID limits results to statuses with an ID above it.
	SinceID int64
	// Until limits results to statuses created before the given date,
	// formatted YYYY-MM-DD.
	Until string
	// ResultType is one of recent, popular or mixed.
	ResultType      string
	IncludeEntities bool
	// TweetMode selects truncated or extended text. Empty falls back
	// to TweetModeExtended so FullText is always populated.
	TweetMode string
}

// Validate checks that the parameters identify a search.
func (p SearchParams) Validate() error {
	if p.Query == "" && p.Geocode == "" && p.RawQuery == "" {
		return fmt.Errorf("search requires a query, a geocode or a raw query")
	}
	return nil
}

// Values encodes the parameters as the endpoint's query string,
// filling in page size and tweet mode defaults.
func (p SearchParams) Values() url.Values {
	values := url.Values{}

	if p.Query != "" {
		values.Set("q", p.Query)
	}
	if p.Geocode != "" {
		values.Set("geocode", p.Geocode)
	}
	if p.Lang != "" {
		values.Set("lang", p.Lang)
	}

	count := p.Count
	if count <= 0 {
		count = DefaultCount
	}
	if count > MaxCount {
		count = MaxCount
	}
	values.Set("count", strconv.Itoa(count))

	values.Set("include_entities", strconv.FormatBool(p.IncludeEntities))

	tweetMode := p.TweetMode
	if tweetMode == "" {
		tweetMode = TweetModeExtended
	}
	values.Set("tweet_mode", tweetMode)

	if p.MaxID > 0 {
		values.Set("max_id", strconv.FormatInt(p.MaxID, 10))
	}
	if p.SinceID > 0 {
		values.Set("since_id", strconv.FormatInt(p.SinceID, 10))
	}
	if p.Until != "" {
		values.Set("until", p.Until)
	}
	if p.ResultType != "" {
		values.Set("result_type", p.ResultType)
	}

	return values
}

// SearchURL builds the full search request URL. A RawQuery becomes the
// query string verbatim.
func SearchURL(baseURL string, p SearchParams) string {
	if p.RawQuery != "" {
		return baseURL + SearchEndpoint + "?" + p.RawQuery
	}
	return baseURL + SearchEndpoint + "?" + p.Values().Encode()
}

// VerifyCredentialsURL builds the account verification URL.
func VerifyCredentialsURL(baseURL string) string {
	return baseURL + VerifyCredentialsEndpoint
}

// BuildSearchTerm turns a comma-separated term list into the single OR
// query the search endpoint expects: "a,b,c" becomes "a OR b OR c". A
// list without commas passes through verbatim, and entries keep their
// whitespace exactly as written.
func BuildSearchTerm(commaSeparated string) string {
	entries := strings.Split(commaSeparated, ",")
	if len(entries) == 1 {
		return entries[0]
	}
	return strings.Join(entries, " OR ")
}
