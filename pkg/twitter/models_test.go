package twitter

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTweetBody(t *testing.T) {
	extended := Tweet{FullText: "the whole status without truncation", Text: "the whole status wi…"}
	assert.Equal(t, "the whole status without truncation", extended.Body())

	classic := Tweet{Text: "classic 140-character form"}
	assert.Equal(t, "classic 140-character form", classic.Body())

	assert.Equal(t, "", Tweet{}.Body())
}

func TestSearchResponseDecoding(t *testing.T) {
	payload := `{
		"statuses": [
			{
				"created_at": "Tue May 28 09:21:14 +0000 2019",
				"id": 1133315519700291584,
				"id_str": "1133315519700291584",
				"full_text": "morning espresso",
				"user": {
					"id": 42,
					"screen_name": "coffeelover",
					"followers_count": 1234
				},
				"place": {
					"name": "Manhattan",
					"country": "United States"
				},
				"retweet_count": 7,
				"favorite_count": 3
			},
			{
				"created_at": "Tue May 28 09:20:02 +0000 2019",
				"id": 1133315217646194688,
				"text": "classic response shape",
				"user": {"id": 7, "screen_name": "tealover"},
				"place": null
			}
		]
	}`

	var resp SearchResponse
	require.NoError(t, json.Unmarshal([]byte(payload), &resp))
	require.Len(t, resp.Statuses, 2)

	first := resp.Statuses[0]
	assert.Equal(t, int64(1133315519700291584), first.ID)
	assert.Equal(t, "morning espresso", first.Body())
	assert.Equal(t, "coffeelover", first.User.ScreenName)
	require.NotNil(t, first.Place)
	assert.Equal(t, "Manhattan", first.Place.Name)
	assert.Equal(t, "United States", first.Place.Country)

	second := resp.Statuses[1]
	assert.Equal(t, "classic response shape", second.Body())
	assert.Nil(t, second.Place)
}
