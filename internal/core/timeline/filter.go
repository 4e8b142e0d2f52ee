package timeline

import (
	"fmt"
	"strings"
	"time"

	"github.com/penwyp/go-talkshow/internal/core/model"
)

// Criteria selects the sessions shown on the timeline
type Criteria struct {
	Since  *time.Time // sessions created before this instant, or without a timestamp, are dropped
	Search string     // case-insensitive substring of theme or first question
}

// FilterSessions returns the sessions matching c in their original order. The input is not modified.
func FilterSessions(sessions []model.Session, c Criteria) []model.Session {
	query := strings.ToLower(strings.TrimSpace(c.Search))
	filtered := make([]model.Session, 0, len(sessions))

	for _, s := range sessions {
		if c.Since != nil {
			start, ok := s.StartTime()
			if !ok || start.Before(*c.Since) {
				continue
			}
		}
		if query != "" &&
			!strings.Contains(strings.ToLower(s.Theme), query) &&
			!strings.Contains(strings.ToLower(s.FirstQuestion), query) {
			continue
		}
		filtered = append(filtered, s)
	}

	return filtered
}

// FilterOption is one selectable time cutoff
type FilterOption struct {
	Key   string
	Label string
	Since *time.Time
}

var filterWindows = []struct {
	key    string
	label  string
	window time.Duration
}{
	{"all", "All time", 0},
	{"24h", "Last 24 hours", 24 * time.Hour},
	{"week", "Last week", 7 * 24 * time.Hour},
	{"month", "Last month", 30 * 24 * time.Hour},
}

// FilterOptions lists the cutoff presets relative to now, "all" first
func FilterOptions(now time.Time) []FilterOption {
	options := make([]FilterOption, 0, len(filterWindows))
	for _, w := range filterWindows {
		option := FilterOption{Key: w.key, Label: w.label}
		if w.window > 0 {
			since := now.Add(-w.window)
			option.Since = &since
		}
		options = append(options, option)
	}
	return options
}

// ResolveFilter returns the preset named key
func ResolveFilter(key string, now time.Time) (FilterOption, error) {
	if key == "" {
		key = "all"
	}
	for _, option := range FilterOptions(now) {
		if option.Key == key {
			return option, nil
		}
	}
	return FilterOption{}, fmt.Errorf("invalid time filter '%s': must be one of all, 24h, week, month", key)
}
