package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/penwyp/go-talkshow/internal/util"
)

// naiveLayouts are ISO-8601 forms without a zone offset; they are read in the configured timezone
var naiveLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
}

// Timestamp is an ISO-8601 instant that tolerates zone-less values.
// It encodes as RFC 3339 text in both JSON and TOML.
type Timestamp time.Time

// NewTimestamp returns a pointer suitable for optional timestamp fields
func NewTimestamp(t time.Time) *Timestamp {
	ts := Timestamp(t)
	return &ts
}

// ParseTimestamp parses RFC 3339 first, then the zone-less layouts
func ParseTimestamp(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t, nil
	}
	loc := util.GetTimeProvider().Location()
	for _, layout := range naiveLayouts {
		if t, err := time.ParseInLocation(layout, value, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid timestamp %q", value)
}

// Time returns the underlying instant
func (t Timestamp) Time() time.Time {
	return time.Time(t)
}

func (t Timestamp) MarshalText() ([]byte, error) {
	return []byte(time.Time(t).Format(time.RFC3339Nano)), nil
}

// UnmarshalText accepts an empty string as the zero timestamp
func (t *Timestamp) UnmarshalText(data []byte) error {
	if len(strings.TrimSpace(string(data))) == 0 {
		*t = Timestamp{}
		return nil
	}
	parsed, err := ParseTimestamp(string(data))
	if err != nil {
		return err
	}
	*t = Timestamp(parsed)
	return nil
}

// resolve turns an optional timestamp into an instant, reporting absence
func resolve(ts *Timestamp) (time.Time, bool) {
	if ts == nil || ts.Time().IsZero() {
		return time.Time{}, false
	}
	return ts.Time(), true
}
