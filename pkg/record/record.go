// Package record flattens statuses returned by the search API into
// fixed-shape rows ready for the output sinks.
package record

import (
	"strconv"
	"strings"

	"tweetharvest/pkg/twitter"
)

// Fields lists the column names of a flattened record, in output
// order. The CSV header and every Row use exactly this order.
var Fields = []string{
	"date",
	"timestamp",
	"id",
	"text",
	"user_handle",
	"user_id",
	"followers_count",
	"favorite_count",
	"retweet_count",
	"is_retweet",
	"city",
	"country",
}

// Record is one search result flattened to a row. City and Country
// stay nil when the status carries no place, so the sinks can tell
// "absent" from "empty".
type Record struct {
	Date           string  `json:"date" parquet:"date"`
	Timestamp      int64   `json:"timestamp" parquet:"timestamp"`
	ID             int64   `json:"id" parquet:"id"`
	Text           string  `json:"text" parquet:"text"`
	UserHandle     string  `json:"user_handle" parquet:"user_handle"`
	UserID         int64   `json:"user_id" parquet:"user_id"`
	FollowersCount int     `json:"followers_count" parquet:"followers_count"`
	FavoriteCount  int     `json:"favorite_count" parquet:"favorite_count"`
	RetweetCount   int     `json:"retweet_count" parquet:"retweet_count"`
	IsRetweet      bool    `json:"is_retweet" parquet:"is_retweet"`
	City           *string `json:"city" parquet:"city,optional"`
	Country        *string `json:"country" parquet:"country,optional"`
}

// Mapper flattens statuses into Records. The zero value derives row
// timestamps from the full created_at layout; LooseTimestamps selects
// the lenient legacy derivation instead.
type Mapper struct {
	// LooseTimestamps stamps every row with LooseTimestamp's fixed-year
	// reconstruction instead of the real parse.
	LooseTimestamps bool
}

// Flatten maps a status to a Record. The mapping is a pure function of
// its input: newlines in the text collapse to single spaces, IsRetweet
// means the normalized text starts with "RT", and a status without a
// place yields nil City and Country instead of failing. The returned
// error comes only from the timestamp parse.
func (m Mapper) Flatten(t twitter.Tweet) (Record, error) {
	text := NormalizeText(t.Body())

	ts, err := m.timestamp(t.CreatedAt)
	if err != nil {
		return Record{}, err
	}

	r := Record{
		Date:           t.CreatedAt,
		Timestamp:      ts,
		ID:             t.ID,
		Text:           text,
		UserHandle:     t.User.ScreenName,
		UserID:         t.User.ID,
		FollowersCount: t.User.FollowersCount,
		FavoriteCount:  t.FavoriteCount,
		RetweetCount:   t.RetweetCount,
		IsRetweet:      IsRetweet(text),
	}

	if t.Place != nil {
		city := t.Place.Name
		country := t.Place.Country
		r.City = &city
		r.Country = &country
	}

	return r, nil
}

func (m Mapper) timestamp(createdAt string) (int64, error) {
	if m.LooseTimestamps {
		return LooseTimestamp(createdAt)
	}
	return Timestamp(createdAt)
}

// FromTweet flattens a status with the default Mapper.
func FromTweet(t twitter.Tweet) (Record, error) {
	return Mapper{}.Flatten(t)
}

// NormalizeText collapses embedded line breaks to single spaces so a
// record always serializes to one row.
func NormalizeText(s string) string {
	s = strings.ReplaceAll(s, "\r\n", " ")
	s = strings.ReplaceAll(s, "\n", " ")
	s = strings.ReplaceAll(s, "\r", " ")
	return s
}

// IsRetweet reports whether the text begins with the literal marker
// "RT". The check is case-sensitive and looks at nothing beyond the
// first two characters.
func IsRetweet(text string) bool {
	return strings.HasPrefix(text, "RT")
}

// Headers returns a fresh copy of the CSV header row.
func Headers() []string {
	return append([]string(nil), Fields...)
}

// Row serializes the record as CSV cell values in Fields order. Nil
// City and Country become empty cells.
func (r Record) Row() []string {
	city := ""
	if r.City != nil {
		city = *r.City
	}
	country := ""
	if r.Country != nil {
		country = *r.Country
	}

	return []string{
		r.Date,
		strconv.FormatInt(r.Timestamp, 10),
		strconv.FormatInt(r.ID, 10),
		r.Text,
		r.UserHandle,
		strconv.FormatInt(r.UserID, 10),
		strconv.Itoa(r.FollowersCount),
		strconv.Itoa(r.FavoriteCount),
		strconv.Itoa(r.RetweetCount),
		strconv.FormatBool(r.IsRetweet),
		city,
		country,
	}
}
