package timeline

import "time"

// TimeMarker is one synthetic 30-minute tick on the shared axis
type TimeMarker struct {
	Time        time.Time `json:"time" toml:"time"`
	Date        string    `json:"date" toml:"date"`
	TimeDisplay string    `json:"time_display" toml:"time_display"`
	IsHour      bool      `json:"is_hour" toml:"is_hour"`
	IsNewDay    bool      `json:"is_new_day" toml:"is_new_day"`
	ShowDate    bool      `json:"show_date" toml:"show_date"`
}

// Origin returns the instant of the first marker, or nil for an empty axis
func Origin(markers []TimeMarker) *time.Time {
	if len(markers) == 0 {
		return nil
	}
	origin := markers[0].Time
	return &origin
}
