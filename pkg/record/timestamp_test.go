package record

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimestamp(t *testing.T) {
	tests := []struct {
		name      string
		createdAt string
		expected  time.Time
	}{
		{
			name:      "regular value",
			createdAt: "Tue May 28 09:21:14 +0000 2019",
			expected:  time.Date(2019, time.May, 28, 9, 21, 14, 0, time.UTC),
		},
		{
			name:      "zero padded day",
			createdAt: "Wed May 08 07:00:00 +0000 2019",
			expected:  time.Date(2019, time.May, 8, 7, 0, 0, 0, time.UTC),
		},
		{
			name:      "year is honored",
			createdAt: "Wed Jan 01 12:00:00 +0000 2020",
			expected:  time.Date(2020, time.January, 1, 12, 0, 0, 0, time.UTC),
		},
		{
			name:      "offset is honored",
			createdAt: "Tue May 28 09:21:14 +0200 2019",
			expected:  time.Date(2019, time.May, 28, 7, 21, 14, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts, err := Timestamp(tt.createdAt)
			require.NoError(t, err)
			assert.Equal(t, tt.expected.Unix(), ts)
		})
	}
}

func TestTimestampMalformed(t *testing.T) {
	tests := []struct {
		name      string
		createdAt string
	}{
		{name: "empty", createdAt: ""},
		{name: "too short", createdAt: "Tue"},
		{name: "free text", createdAt: "yesterday sometime"},
		{name: "iso layout", createdAt: "2019-05-28T09:21:14Z"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Timestamp(tt.createdAt)
			assert.Error(t, err)
		})
	}
}

func TestLooseTimestamp(t *testing.T) {
	tests := []struct {
		name      string
		createdAt string
		expected  time.Time
	}{
		{
			name:      "regular value",
			createdAt: "Tue May 28 09:21:14 +0000 2019",
			expected:  time.Date(2019, time.May, 28, 9, 21, 14, 0, time.UTC),
		},
		{
			name:      "zero padded day",
			createdAt: "Wed May 08 07:00:00 +0000 2019",
			expected:  time.Date(2019, time.May, 8, 7, 0, 0, 0, time.UTC),
		},
		{
			// The year after the offset is discarded and the
			// hardcoded one takes its place.
			name:      "year is always substituted",
			createdAt: "Wed Jan 01 12:00:00 +0000 2020",
			expected:  time.Date(2019, time.January, 1, 12, 0, 0, 0, time.UTC),
		},
		{
			// The offset is discarded too, so the wall-clock time
			// counts as UTC.
			name:      "offset is discarded",
			createdAt: "Tue May 28 09:21:14 +0200 2019",
			expected:  time.Date(2019, time.May, 28, 9, 21, 14, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts, err := LooseTimestamp(tt.createdAt)
			require.NoError(t, err)
			assert.Equal(t, tt.expected.Unix(), ts)
		})
	}
}

func TestLooseTimestampMalformed(t *testing.T) {
	tests := []struct {
		name      string
		createdAt string
	}{
		{name: "empty", createdAt: ""},
		{name: "too short", createdAt: "Tue"},
		{name: "free text", createdAt: "yesterday sometime"},
		{name: "iso layout", createdAt: "2019-05-28T09:21:14Z"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LooseTimestamp(tt.createdAt)
			assert.Error(t, err)
		})
	}
}

func TestParseCreatedAt(t *testing.T) {
	t.Run("utc value", func(t *testing.T) {
		parsed, err := ParseCreatedAt("Tue May 28 09:21:14 +0000 2019")
		require.NoError(t, err)
		assert.Equal(t, time.Date(2019, time.May, 28, 9, 21, 14, 0, time.UTC), parsed)
	})

	t.Run("offset value normalized to utc", func(t *testing.T) {
		parsed, err := ParseCreatedAt("Tue May 28 09:21:14 +0200 2019")
		require.NoError(t, err)
		assert.Equal(t, time.Date(2019, time.May, 28, 7, 21, 14, 0, time.UTC), parsed)
	})

	t.Run("malformed", func(t *testing.T) {
		_, err := ParseCreatedAt("May 28 2019")
		assert.Error(t, err)
	})
}
