package record

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// CreatedAtLayout is the full layout of the created_at field the API
// serves, e.g. "Tue May 28 09:21:14 +0000 2019".
const CreatedAtLayout = time.RubyDate

// looseLayout is what remains of a created_at value once the
// day-of-week token and everything from the offset marker on are
// stripped and the fallback year is re-attached.
const looseLayout = "Jan 2 15:04:05 2006"

// fallbackYear replaces the year lost when the offset is split off.
const fallbackYear = 2019

// Timestamp derives UTC epoch seconds from a created_at value parsed
// with its full layout.
func Timestamp(createdAt string) (int64, error) {
	t, err := ParseCreatedAt(createdAt)
	if err != nil {
		return 0, err
	}
	return t.Unix(), nil
}

// LooseTimestamp is the lenient derivation kept from the original
// collector: the day-of-week token is dropped, everything from the "+"
// offset marker on is discarded (taking the real year with it) and
// fallbackYear is appended before parsing. Statuses from any other
// year get fallbackYear stamped on them, which is why this stays
// opt-in. Text that does not fit the reconstruction returns an error.
func LooseTimestamp(createdAt string) (int64, error) {
	if len(createdAt) < 5 {
		return 0, fmt.Errorf("created_at %q is too short to contain a date", createdAt)
	}

	// "Tue May 28 09:21:14 +0000 2019" -> "May 28 09:21:14 +0000 2019"
	rest := createdAt[4:]

	// -> "May 28 09:21:14"
	datePart := strings.TrimSpace(strings.SplitN(rest, "+", 2)[0])

	reconstructed := datePart + " " + strconv.Itoa(fallbackYear)

	t, err := time.Parse(looseLayout, reconstructed)
	if err != nil {
		return 0, fmt.Errorf("failed to parse created_at %q: %w", createdAt, err)
	}

	return t.Unix(), nil
}

// ParseCreatedAt parses a created_at value with its full layout,
// offset and year included, and returns the instant in UTC.
func ParseCreatedAt(createdAt string) (time.Time, error) {
	t, err := time.Parse(CreatedAtLayout, createdAt)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse created_at %q: %w", createdAt, err)
	}
	return t.UTC(), nil
}
