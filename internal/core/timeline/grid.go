package timeline

import (
	"sort"
	"time"

	"github.com/penwyp/go-talkshow/internal/core/constants"
	"github.com/penwyp/go-talkshow/internal/core/model"
	"github.com/penwyp/go-talkshow/internal/util"
)

// GridBuilder derives the 30-minute time axis from session start times
type GridBuilder struct {
	location   *time.Location
	maxMarkers int
}

// NewGridBuilder creates a grid builder for the named timezone, falling back to Local
func NewGridBuilder(timezone string) *GridBuilder {
	loc, err := util.LoadLocation(timezone)
	if err != nil {
		util.LogWarnf("Falling back to Local timezone for grid: %v", err)
		loc = time.Local
	}
	return NewGridBuilderIn(loc)
}

// NewGridBuilderIn creates a grid builder aligned to wall-clock time in loc
func NewGridBuilderIn(loc *time.Location) *GridBuilder {
	return &GridBuilder{
		location:   loc,
		maxMarkers: constants.MaxMarkers,
	}
}

// Location returns the timezone markers are aligned in
func (gb *GridBuilder) Location() *time.Location {
	return gb.location
}

// StartTimes returns the sorted creation instants of the sessions that carry one
func StartTimes(sessions []model.Session) []time.Time {
	times := make([]time.Time, 0, len(sessions))
	for _, s := range sessions {
		if t, ok := s.StartTime(); ok {
			times = append(times, t)
		}
	}
	sort.Slice(times, func(i, j int) bool {
		return times[i].Before(times[j])
	})
	return times
}

// Build returns the marker sequence covering [floor30(min), ceil30(max)] of the session start times.
// Sessions without a start time are ignored; if none has one the result is empty.
func (gb *GridBuilder) Build(sessions []model.Session) []TimeMarker {
	times := StartTimes(sessions)
	if len(times) == 0 {
		return []TimeMarker{}
	}

	start := FloorSlot(times[0], gb.location)
	end := CeilSlot(times[len(times)-1], gb.location)

	count := int(end.Sub(start)/constants.SlotDuration) + 1
	if count > gb.maxMarkers {
		util.LogWarnf("Time range %s - %s needs %d markers, truncating to %d",
			start.Format(time.RFC3339), end.Format(time.RFC3339), count, gb.maxMarkers)
		count = gb.maxMarkers
	}

	markers := make([]TimeMarker, 0, count)
	lastDate := ""
	for i := 0; i < count; i++ {
		local := start.Add(time.Duration(i) * constants.SlotDuration).In(gb.location)
		date := local.Format(util.DateLayout)
		isNewDay := date != lastDate

		markers = append(markers, TimeMarker{
			Time:        local,
			Date:        date,
			TimeDisplay: local.Format(util.ClockLayout),
			IsHour:      local.Minute() == 0,
			IsNewDay:    isNewDay,
			ShowDate:    isNewDay && local.Hour() == 0 && local.Minute() == 0,
		})
		lastDate = date
	}

	return markers
}

// FloorSlot rounds t down to the nearest :00 or :30 wall-clock boundary in loc
func FloorSlot(t time.Time, loc *time.Location) time.Time {
	local := t.In(loc)
	offset := time.Duration(local.Minute()%constants.SlotMinutes)*time.Minute +
		time.Duration(local.Second())*time.Second +
		time.Duration(local.Nanosecond())
	return local.Add(-offset)
}

// CeilSlot rounds t up to the nearest :00 or :30 wall-clock boundary in loc
func CeilSlot(t time.Time, loc *time.Location) time.Time {
	floor := FloorSlot(t, loc)
	if floor.Equal(t) {
		return floor
	}
	return floor.Add(constants.SlotDuration)
}
