package twitter

// Tweet is a single status as served by the v1.1 search API in
// extended mode. Place stays a pointer because most statuses carry no
// location object.
type Tweet struct {
	CreatedAt     string `json:"created_at"`
	ID            int64  `json:"id"`
	IDStr         string `json:"id_str"`
	FullText      string `json:"full_text"`
	Text          string `json:"text"`
	Truncated     bool   `json:"truncated"`
	User          User   `json:"user"`
	Place         *Place `json:"place"`
	RetweetCount  int    `json:"retweet_count"`
	FavoriteCount int    `json:"favorite_count"`
	Lang          string `json:"lang"`
}

// Body returns the status text, preferring the extended full_text
// form and falling back to the classic text field for responses not
// served in extended mode.
func (t Tweet) Body() string {
	if t.FullText != "" {
		return t.FullText
	}
	return t.Text
}

// User is the author object embedded in a status.
type User struct {
	ID             int64  `json:"id"`
	IDStr          string `json:"id_str"`
	Name           string `json:"name"`
	ScreenName     string `json:"screen_name"`
	FollowersCount int    `json:"followers_count"`
	FriendsCount   int    `json:"friends_count"`
	StatusesCount  int    `json:"statuses_count"`
	Verified       bool   `json:"verified"`
}

// Place is the optional location attached to a status.
type Place struct {
	ID          string `json:"id"`
	PlaceType   string `json:"place_type"`
	Name        string `json:"name"`
	FullName    string `json:"full_name"`
	CountryCode string `json:"country_code"`
	Country     string `json:"country"`
}

// SearchResponse is the envelope returned by search/tweets.json.
type SearchResponse struct {
	Statuses       []Tweet         `json:"statuses"`
	SearchMetadata *SearchMetadata `json:"search_metadata,omitempty"`
}

// SearchMetadata describes the page the API served.
type SearchMetadata struct {
	CompletedIn float64 `json:"completed_in"`
	MaxID       int64   `json:"max_id"`
	SinceID     int64   `json:"since_id"`
	Count       int     `json:"count"`
	Query       string  `json:"query"`
	NextResults string  `json:"next_results"`
}

// APIError is one entry of the error envelope the API returns with
// non-200 responses.
type APIError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type errorResponse struct {
	Errors []APIError `json:"errors"`
}
